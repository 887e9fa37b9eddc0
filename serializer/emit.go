package serializer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/internal/cursor"
)

// emitter renders a validated Resource into FTL text. Emission builds the
// whole resource into an internal buffer first, then flushes it to the
// destination writer in one call, so a caller never observes a partial
// resource if something downstream of validation still goes wrong.
type emitter struct {
	w      io.Writer
	indent string
	guard  *cursor.DepthGuard
	buf    bytes.Buffer
}

func (e *emitter) emitResource(r *ast.Resource) error {
	for i, entry := range r.Entries {
		if i > 0 {
			e.buf.WriteByte('\n')
		}
		if err := e.emitEntry(entry); err != nil {
			return err
		}
	}
	_, err := e.buf.WriteTo(e.w)
	return err
}

func (e *emitter) emitEntry(entry ast.Entry) error {
	switch v := entry.(type) {
	case *ast.Message:
		return e.emitMessage(v)
	case *ast.Term:
		return e.emitTerm(v)
	case *ast.Comment:
		e.emitStandaloneComment(v)
		return nil
	case *ast.Junk:
		e.buf.WriteString(v.Content)
		return nil
	default:
		return fmt.Errorf("serializer: unknown entry type %T", entry)
	}
}

func (e *emitter) emitStandaloneComment(c *ast.Comment) {
	marker := commentMarker(c.Type)
	for _, line := range strings.Split(c.Content, "\n") {
		e.buf.WriteString(marker)
		if line != "" {
			e.buf.WriteByte(' ')
			e.buf.WriteString(line)
		}
		e.buf.WriteByte('\n')
	}
}

func commentMarker(t ast.CommentType) string {
	switch t {
	case ast.CommentGroup:
		return "##"
	case ast.CommentResource:
		return "###"
	default:
		return "#"
	}
}

func (e *emitter) emitMessage(m *ast.Message) error {
	if m.Comment != nil {
		e.emitStandaloneComment(m.Comment)
	}
	e.buf.WriteString(string(m.ID))
	e.buf.WriteString(" =")
	if m.Value != nil {
		if err := e.emitPatternValue(m.Value); err != nil {
			return err
		}
	}
	e.buf.WriteByte('\n')
	return e.emitAttributes(m.Attributes)
}

func (e *emitter) emitTerm(t *ast.Term) error {
	if t.Comment != nil {
		e.emitStandaloneComment(t.Comment)
	}
	e.buf.WriteByte('-')
	e.buf.WriteString(string(t.ID))
	e.buf.WriteString(" =")
	if err := e.emitPatternValue(t.Value); err != nil {
		return err
	}
	e.buf.WriteByte('\n')
	return e.emitAttributes(t.Attributes)
}

func (e *emitter) emitAttributes(attrs []*ast.Attribute) error {
	for _, a := range attrs {
		e.buf.WriteString(e.indent)
		e.buf.WriteByte('.')
		e.buf.WriteString(string(a.ID))
		e.buf.WriteString(" =")
		if err := e.emitPatternValue(a.Value); err != nil {
			return err
		}
		e.buf.WriteByte('\n')
	}
	return nil
}

// emitPatternValue renders " pattern" on the same line as its "id =" when
// the pattern has no embedded newlines, or as an indented block on
// following lines otherwise.
func (e *emitter) emitPatternValue(p *ast.Pattern) error {
	inline, err := e.renderPatternInline(p)
	if err == errMultilinePattern {
		return e.emitPatternBlock(p)
	}
	if err != nil {
		return err
	}
	if inline == "" {
		return nil
	}
	e.buf.WriteByte(' ')
	e.buf.WriteString(inline)
	return nil
}

var errMultilinePattern = fmt.Errorf("pattern requires block form")

// renderPatternInline renders p as a single-line string, failing with
// errMultilinePattern if any element would introduce a line break.
func (e *emitter) renderPatternInline(p *ast.Pattern) (string, error) {
	var b strings.Builder
	for _, elem := range p.Elements {
		switch v := elem.(type) {
		case *ast.TextElement:
			if strings.Contains(v.Value, "\n") {
				return "", errMultilinePattern
			}
			b.WriteString(escapeText(v.Value))
		case *ast.Placeable:
			s, multiline, err := e.renderPlaceableInline(v)
			if err != nil {
				return "", err
			}
			if multiline {
				return "", errMultilinePattern
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

func (e *emitter) renderPlaceableInline(p *ast.Placeable) (string, bool, error) {
	if _, ok := p.Expression.(*ast.SelectExpression); ok {
		return "", true, nil
	}
	var b strings.Builder
	if err := e.writeExpression(&b, p.Expression); err != nil {
		return "", false, err
	}
	return "{ " + b.String() + " }", false, nil
}

// emitPatternBlock renders a pattern whose content requires its own
// indented lines: a select expression, or text containing an embedded
// newline.
func (e *emitter) emitPatternBlock(p *ast.Pattern) error {
	if err := e.guard.Enter(); err != nil {
		return &SerializationDepthError{Cause: err}
	}
	defer e.guard.Exit()

	e.buf.WriteByte('\n')
	for _, elem := range p.Elements {
		switch v := elem.(type) {
		case *ast.TextElement:
			for _, line := range strings.Split(v.Value, "\n") {
				e.buf.WriteString(e.indent)
				e.buf.WriteString(escapeText(line))
				e.buf.WriteByte('\n')
			}
		case *ast.Placeable:
			if sel, ok := v.Expression.(*ast.SelectExpression); ok {
				e.buf.WriteString(e.indent)
				e.buf.WriteString("{ ")
				if err := e.emitSelectExpression(sel); err != nil {
					return err
				}
				e.buf.WriteByte('\n')
				e.buf.WriteString(e.indent)
				e.buf.WriteString("}\n")
				continue
			}
			var b strings.Builder
			if err := e.writeExpression(&b, v.Expression); err != nil {
				return err
			}
			e.buf.WriteString(e.indent)
			e.buf.WriteString("{ ")
			e.buf.WriteString(b.String())
			e.buf.WriteString(" }\n")
		}
	}
	return nil
}

// emitSelectExpression writes "$selector ->" followed by each variant on
// its own indented line. The caller has already written the opening "{ ".
func (e *emitter) emitSelectExpression(s *ast.SelectExpression) error {
	var sel strings.Builder
	if err := e.writeExpression(&sel, s.Selector); err != nil {
		return err
	}
	e.buf.WriteString(sel.String())
	e.buf.WriteString(" ->")

	for _, variant := range s.Variants {
		e.buf.WriteByte('\n')
		e.buf.WriteString(e.indent)
		if variant.IsDefault {
			e.buf.WriteByte('*')
		}
		e.buf.WriteByte('[')
		e.buf.WriteString(variantKeyText(variant.Key))
		e.buf.WriteByte(']')
		if err := e.emitPatternValue(variant.Value); err != nil {
			return err
		}
	}
	return nil
}

// writeExpression renders a single inline expression (not a select
// expression, which only ever appears as a Placeable's direct child).
func (e *emitter) writeExpression(b *strings.Builder, expr ast.Expression) error {
	if err := e.guard.Enter(); err != nil {
		return &SerializationDepthError{Cause: err}
	}
	defer e.guard.Exit()

	switch v := expr.(type) {
	case *ast.StringLiteral:
		b.WriteByte('"')
		b.WriteString(v.Raw)
		b.WriteByte('"')

	case *ast.NumberLiteral:
		b.WriteString(v.Raw)

	case *ast.VariableReference:
		b.WriteByte('$')
		b.WriteString(string(v.ID))

	case *ast.MessageReference:
		b.WriteString(string(v.ID))
		if v.Attribute != nil {
			b.WriteByte('.')
			b.WriteString(string(*v.Attribute))
		}

	case *ast.TermReference:
		b.WriteByte('-')
		b.WriteString(string(v.ID))
		if v.Attribute != nil {
			b.WriteByte('.')
			b.WriteString(string(*v.Attribute))
		}
		if v.Arguments != nil {
			if err := e.writeCallArguments(b, v.Arguments); err != nil {
				return err
			}
		}

	case *ast.FunctionReference:
		b.WriteString(string(v.ID))
		if err := e.writeCallArguments(b, v.Arguments); err != nil {
			return err
		}

	case *ast.Placeable:
		inner, multiline, err := e.renderPlaceableInline(v)
		if err != nil {
			return err
		}
		if multiline {
			return fmt.Errorf("serializer: nested select expression not allowed as a bare placeable value")
		}
		b.WriteString(inner)

	default:
		return fmt.Errorf("serializer: unsupported expression type %T", expr)
	}
	return nil
}

func (e *emitter) writeCallArguments(b *strings.Builder, args *ast.CallArguments) error {
	b.WriteByte('(')
	first := true
	for _, p := range args.Positional {
		if !first {
			b.WriteString(", ")
		}
		first = false
		if err := e.writeExpression(b, p); err != nil {
			return err
		}
	}
	for _, na := range args.Named {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(string(na.Name))
		b.WriteString(": ")
		if err := e.writeExpression(b, na.Value); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

// escapeText rewrites the two characters that would otherwise be
// misinterpreted as placeable delimiters as string-literal placeables
// (`{ "{" }` and `{ "}" }`); FTL text has no escape syntax of its own.
func escapeText(s string) string {
	return strings.NewReplacer("{", `{ "{" }`, "}", `{ "}" }`).Replace(s)
}
