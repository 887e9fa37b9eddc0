package parser

import (
	"strings"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
)

// parseComment parses a `#`/`##`/`###` comment. Consecutive lines at the
// same level are merged into one Comment node, joined with '\n'; a level
// change or a blank line (no space/EOL after the hashes) ends the comment.
func (p *Parser) parseComment() (*ast.Comment, error) {
	start := p.cur.Offset()
	level := -1
	var content strings.Builder

	for {
		if level == -1 {
			lvl := 0
			for p.peekAt(lvl+1) == '#' && lvl < 2 {
				lvl++
			}
			level = lvl
		}
		p.skipN(level + 1)

		peek := p.peek()
		if peek != '\n' && peek != eof {
			if err := p.expect(' '); err != nil {
				return nil, err
			}
			content.WriteString(p.consumeLine())
		}

		cont := true
		for i := 0; i <= level; i++ {
			if p.peekAt(1+i) != '#' {
				cont = false
				break
			}
		}
		if !cont {
			break
		}
		next := p.peekAt(level + 2)
		if next != ' ' && next != '\n' {
			break
		}
		content.WriteByte('\n')
		p.cur.Advance()
	}

	end := p.cur.Offset()
	return &ast.Comment{
		Type:    commentTypeForLevel(level),
		Content: content.String(),
		Span:    &ast.Span{Start: start, End: end},
	}, nil
}

func commentTypeForLevel(level int) ast.CommentType {
	switch level {
	case 1:
		return ast.CommentGroup
	case 2:
		return ast.CommentResource
	default:
		return ast.CommentSingle
	}
}

func (p *Parser) consumeLine() string {
	var b strings.Builder
	for p.peek() != '\n' && p.peek() != eof {
		b.WriteRune(p.advance())
	}
	return b.String()
}

// parseTerm parses `-id = pattern attributes*`. Unlike Message, the
// pattern is mandatory.
func (p *Parser) parseTerm() (*ast.Term, error) {
	start := p.cur.Offset()
	if err := p.expect('-'); err != nil {
		return nil, err
	}
	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	p.skipBlankInline()
	if err := p.expect('='); err != nil {
		return nil, err
	}
	value, err := p.parseOptionalPattern()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.errorAt(start, diagnostics.ParseError, "a pattern is required for terms")
	}
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}
	return &ast.Term{
		ID:         ast.Identifier(id),
		Value:      value,
		Attributes: attrs,
		Span:       &ast.Span{Start: start, End: p.cur.Offset()},
	}, nil
}

// parseMessage parses `id = pattern? attributes*`. At least one of the
// pattern or a non-empty attribute list must be present.
func (p *Parser) parseMessage() (*ast.Message, error) {
	start := p.cur.Offset()
	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	p.skipBlankInline()
	if err := p.expect('='); err != nil {
		return nil, err
	}
	value, err := p.parseOptionalPattern()
	if err != nil {
		return nil, err
	}
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}
	if value == nil && len(attrs) == 0 {
		return nil, p.errorAt(start, diagnostics.ParseError, "message entries may not be completely blank")
	}
	return &ast.Message{
		ID:         ast.Identifier(id),
		Value:      value,
		Attributes: attrs,
		Span:       &ast.Span{Start: start, End: p.cur.Offset()},
	}, nil
}

func (p *Parser) parseAttributes() ([]*ast.Attribute, error) {
	var attrs []*ast.Attribute
	for {
		blank := p.peekBlankCount()
		if p.peekAt(blank) != '.' {
			break
		}
		p.skipN(blank)
		attr, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (p *Parser) parseAttribute() (*ast.Attribute, error) {
	start := p.cur.Offset()
	if err := p.expect('.'); err != nil {
		return nil, err
	}
	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	p.skipBlankInline()
	if err := p.expect('='); err != nil {
		return nil, err
	}
	value, err := p.parseOptionalPattern()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.errorAt(start, diagnostics.ParseError, "a value for the attribute is required")
	}
	return &ast.Attribute{
		ID:    ast.Identifier(id),
		Value: value,
		Span:  &ast.Span{Start: start, End: p.cur.Offset()},
	}, nil
}
