package parser

import (
	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
)

// parsePlaceable parses `{ expression }`. Every placeable enters the
// parser's DepthGuard so that deliberately nested placeables
// (`{{{{...}}}}`) fail with a typed depth error instead of a host stack
// overflow.
func (p *Parser) parsePlaceable() (*ast.Placeable, error) {
	if err := p.guard.Enter(); err != nil {
		return nil, p.errorf(diagnostics.DepthExceeded, "placeable nesting exceeds the configured maximum depth")
	}
	defer p.guard.Exit()

	start := p.cur.Offset()
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	p.skipBlank()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return &ast.Placeable{Expression: expr, Span: &ast.Span{Start: start, End: p.cur.Offset()}}, nil
}

// parseExpression parses either a bare inline expression or, if followed
// by '->', a select expression with that inline expression as selector.
func (p *Parser) parseExpression() (ast.Expression, error) {
	start := p.cur.Offset()
	selector, err := p.parseInlineExpression()
	if err != nil {
		return nil, err
	}
	p.skipBlank()

	if !(p.peek() == '-' && p.peekAt(1) == '>') {
		if term, ok := selector.(*ast.TermReference); ok && term.Attribute != nil {
			return nil, p.errorAt(start, diagnostics.ParseError, "term attribute references are not allowed outside select expressions")
		}
		return selector, nil
	}

	if _, ok := selector.(*ast.MessageReference); ok {
		return nil, p.errorAt(start, diagnostics.ParseError, "message references are not allowed as select expression selectors")
	}
	if _, ok := selector.(*ast.Placeable); ok {
		return nil, p.errorAt(start, diagnostics.ParseError, "placeables are not allowed as select expression selectors")
	}
	if term, ok := selector.(*ast.TermReference); ok && term.Attribute == nil {
		return nil, p.errorAt(start, diagnostics.ParseError, "term references without an attribute are not allowed as selectors; use -term.attribute")
	}

	p.skipN(2)
	p.skipBlankInline()
	if err := p.expect('\n'); err != nil {
		return nil, err
	}
	variants, defaultIdx, err := p.parseVariants()
	if err != nil {
		return nil, err
	}
	return &ast.SelectExpression{
		Selector:     selector,
		Variants:     variants,
		DefaultIndex: defaultIdx,
		Span:         &ast.Span{Start: start, End: p.cur.Offset()},
	}, nil
}

// parseInlineExpression parses a literal, variable reference, term
// reference, function reference, message reference, or nested placeable.
func (p *Parser) parseInlineExpression() (ast.Expression, error) {
	start := p.cur.Offset()
	peek := p.peek()

	switch {
	case peek == '{':
		return p.parsePlaceable()

	case isDigit(peek) || (peek == '-' && isDigit(p.peekAt(1))):
		return p.parseNumber()

	case peek == '"':
		return p.parseString()

	case peek == '$':
		p.cur.Advance()
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return &ast.VariableReference{ID: ast.Identifier(id), Span: &ast.Span{Start: start, End: p.cur.Offset()}}, nil

	case peek == '-':
		p.cur.Advance()
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		attr, err := p.parseOptionalAttributeSuffix()
		if err != nil {
			return nil, err
		}
		var args *ast.CallArguments
		blank := p.peekBlankCount()
		if p.peekAt(blank) == '(' {
			p.skipN(blank)
			args, err = p.parseCallArguments()
			if err != nil {
				return nil, err
			}
		}
		return &ast.TermReference{
			ID:        ast.Identifier(id),
			Attribute: attr,
			Arguments: args,
			Span:      &ast.Span{Start: start, End: p.cur.Offset()},
		}, nil
	}

	if !isIdentifierStart(peek) {
		return nil, p.errorAt(start, diagnostics.ParseError, "expected a number, string, variable, term, message, or function, found %s", p.displayChar())
	}

	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	blank := p.peekBlankCount()
	if p.peekAt(blank) == '(' {
		p.skipN(blank)
		args, err := p.parseCallArguments()
		if err != nil {
			return nil, err
		}
		return &ast.FunctionReference{ID: ast.Identifier(id), Arguments: args, Span: &ast.Span{Start: start, End: p.cur.Offset()}}, nil
	}

	attr, err := p.parseOptionalAttributeSuffix()
	if err != nil {
		return nil, err
	}
	return &ast.MessageReference{ID: ast.Identifier(id), Attribute: attr, Span: &ast.Span{Start: start, End: p.cur.Offset()}}, nil
}

func (p *Parser) parseOptionalAttributeSuffix() (*ast.Identifier, error) {
	if p.peek() != '.' {
		return nil, nil
	}
	p.cur.Advance()
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	id := ast.Identifier(name)
	return &id, nil
}

func (p *Parser) parseCallArguments() (*ast.CallArguments, error) {
	start := p.cur.Offset()
	var positional []ast.Expression
	var named []*ast.NamedArgument
	seen := make(map[string]bool)

	if err := p.expect('('); err != nil {
		return nil, err
	}
	p.skipBlank()

	for {
		if p.peek() == ')' {
			break
		}
		argStart := p.cur.Offset()
		expr, name, err := p.parseCallArgument()
		if err != nil {
			return nil, err
		}
		if name != "" {
			if seen[name] {
				return nil, p.errorAt(argStart, diagnostics.ParseError, "named argument %q already provided", name)
			}
			seen[name] = true
			named = append(named, &ast.NamedArgument{Name: ast.Identifier(name), Value: expr, Span: &ast.Span{Start: argStart, End: p.cur.Offset()}})
		} else {
			if len(named) > 0 {
				return nil, p.errorAt(argStart, diagnostics.ParseError, "positional arguments may not follow named arguments")
			}
			positional = append(positional, expr)
		}

		p.skipBlank()
		if p.peek() == ',' {
			p.cur.Advance()
			p.skipBlank()
			continue
		}
		break
	}

	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return &ast.CallArguments{Positional: positional, Named: named, Span: &ast.Span{Start: start, End: p.cur.Offset()}}, nil
}

// parseCallArgument parses one positional or named call argument, returning
// the argument's name if it is named, or "" if positional.
func (p *Parser) parseCallArgument() (ast.Expression, string, error) {
	start := p.cur.Offset()
	expr, err := p.parseInlineExpression()
	if err != nil {
		return nil, "", err
	}
	p.skipBlank()
	if p.peek() != ':' {
		return expr, "", nil
	}

	ref, ok := expr.(*ast.MessageReference)
	if !ok || ref.Attribute != nil {
		return nil, "", p.errorAt(start, diagnostics.ParseError, "a named argument's name must be a simple identifier")
	}
	p.cur.Advance()
	p.skipBlank()
	var value ast.Expression
	if p.peek() == '$' {
		value, err = p.parseInlineExpression()
	} else {
		value, err = p.parseLiteral()
	}
	if err != nil {
		return nil, "", err
	}
	return value, string(ref.ID), nil
}

func (p *Parser) parseLiteral() (ast.Expression, error) {
	peek := p.peek()
	if isDigit(peek) || peek == '-' {
		return p.parseNumber()
	}
	if peek == '"' {
		return p.parseString()
	}
	return nil, p.errorf(diagnostics.ParseError, "expected a string or number literal, found %s", p.displayChar())
}

// parseVariants parses the `[key] pattern` arms of a select expression,
// returning the index of the single required default (`*[key]`) arm.
func (p *Parser) parseVariants() ([]*ast.Variant, int, error) {
	start := p.cur.Offset()
	var variants []*ast.Variant
	defaultIdx := -1
	p.skipBlank()

	for p.peek() == '[' || (p.peek() == '*' && p.peekAt(1) == '[') {
		variantStart := p.cur.Offset()
		isDefault := false
		if p.peek() == '*' {
			if defaultIdx != -1 {
				return nil, 0, p.errorAt(variantStart, diagnostics.ParseError, "only one default variant is allowed")
			}
			isDefault = true
			p.cur.Advance()
		}

		if err := p.expect('['); err != nil {
			return nil, 0, err
		}
		p.skipBlank()
		key, err := p.parseVariantKey()
		if err != nil {
			return nil, 0, err
		}
		p.skipBlank()
		if err := p.expect(']'); err != nil {
			return nil, 0, err
		}

		pattern, err := p.parseOptionalPattern()
		if err != nil {
			return nil, 0, err
		}
		if pattern == nil {
			return nil, 0, p.errorAt(variantStart, diagnostics.ParseError, "a value is required for the variant")
		}

		if isDefault {
			defaultIdx = len(variants)
		}
		variants = append(variants, &ast.Variant{
			Key:       key,
			Value:     pattern,
			IsDefault: isDefault,
			Span:      &ast.Span{Start: variantStart, End: p.cur.Offset()},
		})

		if err := p.expect('\n'); err != nil {
			return nil, 0, err
		}
		p.skipBlank()
	}

	if len(variants) == 0 {
		return nil, 0, p.errorAt(start, diagnostics.ParseError, "at least one variant is required")
	}
	if defaultIdx == -1 {
		return nil, 0, p.errorAt(start, diagnostics.ParseError, "a default variant (marked with '*') is required")
	}
	return variants, defaultIdx, nil
}

func (p *Parser) parseVariantKey() (ast.VariantKey, error) {
	if p.peek() == '\n' || p.peek() == eof {
		return nil, p.errorf(diagnostics.ParseError, "a variant key is required")
	}
	if isDigit(p.peek()) || p.peek() == '-' {
		return p.parseNumber()
	}
	start := p.cur.Offset()
	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	return &ast.IdentifierKey{Name: ast.Identifier(id), Span: &ast.Span{Start: start, End: p.cur.Offset()}}, nil
}
