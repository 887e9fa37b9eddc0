package parser

import (
	"strings"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
)

// indentRun is a temporary element used only while building a Pattern: it
// records blank-line/indent text that is either trimmed away (common
// indentation) or folded into a neighboring TextElement once the pattern's
// common indent is known. It never appears in the final AST.
type indentRun struct {
	value string
	span  *ast.Span
}

type patternElem struct {
	placeable *ast.Placeable
	text      *ast.TextElement
	indent    *indentRun
}

// parseOptionalPattern parses a pattern if the current line (or, for a
// block pattern, the next non-blank line at greater indentation) actually
// introduces one; returns (nil, nil) and leaves the cursor untouched
// otherwise, so callers like parseAttributes can keep trying alternatives.
func (p *Parser) parseOptionalPattern() (*ast.Pattern, error) {
	inlineBlank := p.peekBlankInlineCount()
	first := p.peekAt(inlineBlank)

	if first == eof {
		return nil, nil
	}
	if first != '\n' {
		p.skipN(inlineBlank)
		return p.parsePattern(false)
	}

	blockLen := p.peekBlankBlockLen()
	inlineLen := 0
	for {
		c := p.peekAt(blockLen + inlineLen)
		if c == ' ' || c == '\t' {
			inlineLen++
			continue
		}
		break
	}
	lineFirst := p.peekAt(blockLen + inlineLen)
	if lineFirst != '{' && (inlineLen == 0 || isPatternTerminator(lineFirst)) {
		return nil, nil
	}

	p.skipN(blockLen)
	return p.parsePattern(true)
}

// parsePattern consumes text and placeables until a line break that either
// dedents below the pattern's common indent or introduces a new entry/
// attribute/variant. block indicates the pattern's first line of content
// is on its own (indented) line rather than immediately after '='.
func (p *Parser) parsePattern(block bool) (*ast.Pattern, error) {
	start := p.cur.Offset()
	commonIndent := -1
	var elems []patternElem

	if block {
		istart := p.cur.Offset()
		n := p.peekBlankInlineCount()
		value := p.consumeN(n)
		commonIndent = n
		elems = append(elems, patternElem{indent: &indentRun{value: value, span: &ast.Span{Start: istart, End: p.cur.Offset()}}})
	}

loop:
	for !p.cur.AtEOF() {
		switch p.peek() {
		case '{':
			pl, err := p.parsePlaceable()
			if err != nil {
				return nil, err
			}
			elems = append(elems, patternElem{placeable: pl})

		case '}':
			return nil, p.errorf(diagnostics.ParseError, "unexpected '}' (write a literal brace in text as { \"}\" })")

		case '\n':
			indentStart := p.cur.Offset()
			blockLen := p.peekBlankBlockLen()
			inlineLen := 0
			for {
				c := p.peekAt(blockLen + inlineLen)
				if c == ' ' || c == '\t' {
					inlineLen++
					continue
				}
				break
			}
			lineFirst := p.peekAt(blockLen + inlineLen)
			if lineFirst != '{' && (inlineLen == 0 || isPatternTerminator(lineFirst)) {
				break loop
			}
			if commonIndent == -1 || inlineLen < commonIndent {
				commonIndent = inlineLen
			}
			value := p.consumeN(blockLen + inlineLen)
			elems = append(elems, patternElem{indent: &indentRun{value: value, span: &ast.Span{Start: indentStart, End: p.cur.Offset()}}})

		default:
			text, err := p.parseText()
			if err != nil {
				return nil, err
			}
			elems = append(elems, patternElem{text: text})
		}
	}

	if commonIndent < 0 {
		commonIndent = 0
	}

	trimmed := trimPatternElements(elems, commonIndent)
	return &ast.Pattern{Elements: trimmed, Span: &ast.Span{Start: start, End: p.cur.Offset()}}, nil
}

// trimPatternElements strips commonIndent characters from the tail of each
// indent run, drops any that become empty, merges adjacent text runs, and
// trims trailing inline whitespace from the final element.
func trimPatternElements(elems []patternElem, commonIndent int) []ast.PatternElement {
	var out []ast.PatternElement

	for _, e := range elems {
		if e.placeable != nil {
			out = append(out, e.placeable)
			continue
		}

		var value string
		var spanStart, spanEnd int
		if e.indent != nil {
			v := e.indent.value
			cut := commonIndent
			if cut > len(v) {
				cut = len(v)
			}
			v = v[:len(v)-cut]
			if v == "" {
				continue
			}
			value, spanStart, spanEnd = v, e.indent.span.Start, e.indent.span.End
		} else {
			value, spanStart, spanEnd = e.text.Value, e.text.Span.Start, e.text.Span.End
		}

		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*ast.TextElement); ok {
				prev.Value += value
				prev.Span.End = spanEnd
				continue
			}
		}
		out = append(out, &ast.TextElement{Value: value, Span: &ast.Span{Start: spanStart, End: spanEnd}})
	}

	if len(out) > 0 {
		if text, ok := out[len(out)-1].(*ast.TextElement); ok {
			text.Value = strings.TrimRight(text.Value, " \t")
			if text.Value == "" {
				out = out[:len(out)-1]
			}
		}
	}
	return out
}

func (p *Parser) parseText() (*ast.TextElement, error) {
	start := p.cur.Offset()
	var b strings.Builder
	for !p.cur.AtEOF() {
		c := p.peek()
		if c == '{' || c == '}' || c == '\n' {
			break
		}
		b.WriteRune(p.advance())
	}
	return &ast.TextElement{Value: b.String(), Span: &ast.Span{Start: start, End: p.cur.Offset()}}, nil
}
