// Package parser implements a recursive-descent parser for the Fluent
// (FTL) translation file format. Syntax errors never abort a parse:
// malformed entries are isolated into ast.Junk nodes carrying diagnostic
// annotations, and the rest of the resource parses normally. Only
// exceeding a configured source-size, token-length, or nesting-depth limit
// fails the parse operation outright, via a typed error:
// *diagnostics.SizeLimitError for source size, *diagnostics.ParseErr for
// token length and nesting depth.
package parser

import (
	"fmt"
	"strings"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/internal/cursor"
	"github.com/fluentcore/ftl/internal/ftllog"
)

var log = ftllog.For("parser")

// eof is the sentinel internal/cursor.Cursor uses for "no rune here",
// returned by both Current and Peek once the cursor runs out of input.
const eof rune = -1

// Parser holds the mutable state of a single parse. It is not safe for
// concurrent use; callers parse one resource per Parser.
type Parser struct {
	cur       *cursor.Cursor
	cfg       Config
	guard     *cursor.DepthGuard
	lineCache *cursor.LineOffsetCache
}

// New constructs a Parser over src. Line endings are normalized (CRLF/CR ->
// LF) before any size limit is checked, matching the character-accurate
// offsets used throughout the AST.
func New(src string, opts ...Option) (*Parser, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cursor.ValidateMaxNestingDepth(cfg.MaxNestingDepth); err != nil {
		return nil, err
	}

	normalized := cursor.Normalize(src)
	c, err := cursor.New(normalized, cfg.MaxSourceSize)
	if err != nil {
		if sizeErr, ok := err.(*cursor.SizeError); ok {
			return nil, &diagnostics.SizeLimitError{Cause: sizeErr}
		}
		return nil, err
	}

	return &Parser{
		cur:       c,
		cfg:       cfg,
		guard:     cursor.NewDepthGuard(cfg.MaxNestingDepth),
		lineCache: cursor.NewLineOffsetCache(normalized),
	}, nil
}

// Parse parses src into a Resource. The returned Resource is always
// non-nil unless err is non-nil; errs carries one Diagnostic per Junk
// entry (and any parser-level warnings), never raised as an exception —
// only a size/depth/token-length violation returns a non-nil err.
func Parse(src string, opts ...Option) (*ast.Resource, []diagnostics.Diagnostic, error) {
	p, err := New(src, opts...)
	if err != nil {
		return nil, nil, err
	}
	return p.ParseResource()
}

// ParseResource runs the entry/junk loop over the whole source.
func (p *Parser) ParseResource() (*ast.Resource, []diagnostics.Diagnostic, error) {
	start := p.cur.Offset()
	p.skipBlankBlock()

	var (
		entries []ast.Entry
		diags   []diagnostics.Diagnostic
		pending *ast.Comment // a Single comment awaiting attachment to the next entry
	)

	for !p.cur.AtEOF() {
		entry, entryDiags, err := p.parseEntryOrJunk()
		if err != nil {
			return nil, nil, err
		}
		diags = append(diags, entryDiags...)

		blankLines := p.skipBlankBlock()

		if comment, ok := entry.(*ast.Comment); ok && comment.Type == ast.CommentSingle && blankLines == 0 && !p.cur.AtEOF() {
			pending = comment
			continue
		}

		if pending != nil {
			switch e := entry.(type) {
			case *ast.Message:
				e.Comment = pending
				e.Span = &ast.Span{Start: pending.Span.Start, End: e.Span.End}
			case *ast.Term:
				e.Comment = pending
				e.Span = &ast.Span{Start: pending.Span.Start, End: e.Span.End}
			default:
				entries = append(entries, pending)
			}
			pending = nil
		}

		entries = append(entries, entry)
	}
	if pending != nil {
		entries = append(entries, pending)
	}

	resource := &ast.Resource{
		Entries: entries,
		Span:    &ast.Span{Start: start, End: p.cur.Offset()},
	}
	return resource, diags, nil
}

// parseEntryOrJunk tries to parse one entry; on a recoverable syntax error
// it consolidates the unparsed region into a Junk node and resynchronizes
// at the next line that both starts at column 1 and begins with a
// character that can introduce a new entry.
func (p *Parser) parseEntryOrJunk() (ast.Entry, []diagnostics.Diagnostic, error) {
	start := p.cur.Offset()
	mark := p.cur.Save()

	entry, perr := p.parseEntry()
	if perr == nil {
		return entry, nil, nil
	}
	if fatal, ok := perr.(*diagnostics.ParseErr); ok && isFatalCode(fatal.Code) {
		return nil, nil, fatal
	}

	p.cur.Restore(mark)
	p.skipToNextEntryStart(start)

	end := p.cur.Offset()
	content := p.cur.Slice(byteOffsetFor(p, start), byteOffsetFor(p, end))

	ann := &ast.Annotation{
		Code:    string(diagnostics.ParseError),
		Message: perr.Error(),
		Span:    &ast.Span{Start: start, End: end},
	}
	junk := &ast.Junk{
		Content:     content,
		Annotations: []*ast.Annotation{ann},
		Span:        &ast.Span{Start: start, End: end},
	}
	diag := diagnostics.New(diagnostics.ParseError, diagnostics.Critical, perr.Error(), p.lineCache, start)
	log.WithField("offset", start).Debug("entry resynchronized as junk: ", perr.Error())
	return junk, []diagnostics.Diagnostic{diag}, nil
}

func isFatalCode(c diagnostics.Code) bool {
	switch c {
	case diagnostics.TokenTooLong, diagnostics.DepthExceeded:
		return true
	default:
		return false
	}
}

// skipToNextEntryStart advances the cursor to the next line beginning at
// column 1 with '#', '-', or an identifier-start character. Indented
// occurrences of those characters do not terminate junk, per the grammar's
// junk-consolidation rule.
func (p *Parser) skipToNextEntryStart(junkStart int) {
	for !p.cur.AtEOF() {
		if p.cur.Current() == '\n' {
			p.cur.Advance()
			if p.cur.AtEOF() {
				return
			}
			if isEntryStart(p.cur.Current()) {
				return
			}
			continue
		}
		p.cur.Advance()
	}
}

func (p *Parser) parseEntry() (ast.Entry, error) {
	switch p.cur.Current() {
	case '#':
		return p.parseComment()
	case '-':
		return p.parseTerm()
	default:
		return p.parseMessage()
	}
}

// --- cursor helpers -------------------------------------------------------

func (p *Parser) peek() rune {
	if p.cur.AtEOF() {
		return eof
	}
	return p.cur.Current()
}

func (p *Parser) peekAt(n int) rune {
	return p.cur.Peek(n)
}

func (p *Parser) advance() rune {
	r := p.peek()
	p.cur.Advance()
	return r
}

func (p *Parser) expect(r rune) error {
	if p.peek() != r {
		return p.errorf(diagnostics.ParseError, "expected %q, found %q", r, p.displayChar())
	}
	p.cur.Advance()
	return nil
}

func (p *Parser) displayChar() string {
	if p.cur.AtEOF() {
		return "<EOF>"
	}
	if p.cur.Current() == '\n' {
		return "<EOL>"
	}
	return string(p.cur.Current())
}

func (p *Parser) position() cursor.Position {
	return p.lineCache.Position(p.cur.Offset())
}

func (p *Parser) errorf(code diagnostics.Code, format string, args ...any) error {
	return &diagnostics.ParseErr{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: p.position(),
	}
}

// errorAt builds a ParseErr positioned at a previously recorded offset,
// for diagnostics whose message is clearest when it points at the start of
// a construct rather than wherever the cursor ended up failing.
func (p *Parser) errorAt(offset int, code diagnostics.Code, format string, args ...any) error {
	return &diagnostics.ParseErr{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: p.lineCache.Position(offset),
	}
}

// skipN advances the cursor n runes without inspecting them; callers have
// already peeked ahead to decide n.
func (p *Parser) skipN(n int) {
	for i := 0; i < n; i++ {
		p.cur.Advance()
	}
}

// consumeN advances the cursor n runes, returning the consumed text.
func (p *Parser) consumeN(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteRune(p.advance())
	}
	return b.String()
}

// peekBlankInlineCount reports how many spaces/tabs follow the cursor
// without consuming them.
func (p *Parser) peekBlankInlineCount() int {
	n := 0
	for {
		c := p.peekAt(n)
		if c == ' ' || c == '\t' {
			n++
			continue
		}
		return n
	}
}

// peekBlankCount reports how many spaces/tabs/newlines follow the cursor
// without consuming them.
func (p *Parser) peekBlankCount() int {
	n := 0
	for {
		c := p.peekAt(n)
		if c == ' ' || c == '\t' || c == '\n' {
			n++
			continue
		}
		return n
	}
}

// peekBlankBlockLen reports, without consuming, how many characters ahead
// of the cursor are made up of zero or more fully-blank lines (a run of
// spaces/tabs immediately followed by '\n'). It stops at the first line
// that has any non-blank content before its newline (or before EOF),
// leaving the cursor positioned, conceptually, at that line's first
// character. Used both at an '=' (pattern may start on the next line) and
// mid-pattern (a line break may or may not continue the pattern).
func (p *Parser) peekBlankBlockLen() int {
	offset := 0
	for {
		spaces := 0
		for {
			c := p.peekAt(offset + spaces)
			if c == ' ' || c == '\t' {
				spaces++
				continue
			}
			break
		}
		if p.peekAt(offset+spaces) == '\n' {
			offset += spaces + 1
			continue
		}
		return offset
	}
}

func isPatternTerminator(r rune) bool {
	return r == '}' || r == '.' || r == '[' || r == '*'
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// skipBlankInline consumes spaces and tabs (not newlines), returning the
// count consumed.
func (p *Parser) skipBlankInline() int {
	n := 0
	for p.peek() == ' ' || p.peek() == '\t' {
		p.cur.Advance()
		n++
	}
	return n
}

// skipBlank consumes any run of whitespace, including newlines.
func (p *Parser) skipBlank() {
	for {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\n' {
			p.cur.Advance()
			continue
		}
		return
	}
}

// skipBlankBlock consumes zero or more full blank lines (a line containing
// only inline blanks followed by '\n' or EOF), returning how many lines it
// consumed. A line that otherwise has content is left untouched.
func (p *Parser) skipBlankBlock() int {
	lines := 0
	for {
		mark := p.cur.Save()
		p.skipBlankInline()
		if p.peek() == '\n' {
			p.cur.Advance()
			lines++
			continue
		}
		if p.cur.AtEOF() {
			lines++
			return lines
		}
		p.cur.Restore(mark)
		return lines
	}
}

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentifierFollowing(r rune) bool {
	return isIdentifierStart(r) || (r >= '0' && r <= '9') || r == '_' || r == '-'
}

func isEntryStart(r rune) bool {
	return r == '#' || r == '-' || isIdentifierStart(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// byteOffsetFor converts a character offset back to the byte offset needed
// by Cursor.Slice. Parser never holds two cursors at once, so walking the
// normalized source once per Junk span is acceptable; Junk spans are rare
// relative to well-formed entries.
func byteOffsetFor(p *Parser, charOffset int) int {
	src := p.cur.Source()
	if charOffset <= 0 {
		return 0
	}
	n := 0
	for i := range src {
		if n == charOffset {
			return i
		}
		n++
	}
	return len(src)
}
