package cursor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SizeError is raised when source exceeds a configured size limit. It is a
// fatal, non-recoverable condition: the caller never gets a partial parse.
type SizeError struct {
	Limit   int
	Actual  int
	Subject string // "source", "identifier", "number", "string literal"
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s exceeds maximum length: %d > %d", e.Subject, e.Actual, e.Limit)
}

// Cursor walks LF-normalized source one rune at a time, tracking a
// character offset (not byte offset) alongside the byte position needed to
// slice the underlying string.
//
// Callers must normalize CRLF/CR to LF before constructing a Cursor; the
// cursor itself does not re-normalize (normalization is a parser-entry
// concern, done once, cheaply, over the whole source).
type Cursor struct {
	src string

	bytePos int // byte offset of the rune at charPos
	charPos int // character (rune) offset

	ch     rune // rune at bytePos, or -1 at EOF
	chSize int  // byte width of ch
}

// Normalize collapses CRLF and lone CR into LF, as required before parsing.
func Normalize(src string) string {
	if !strings.ContainsRune(src, '\r') {
		return src
	}
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '\r' {
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			b.WriteByte('\n')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// New creates a Cursor over already LF-normalized source, enforcing
// maxSize. Pass 0 for the default.
func New(src string, maxSize int) (*Cursor, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSourceSize
	}
	if len(src) > maxSize {
		return nil, &SizeError{Limit: maxSize, Actual: len(src), Subject: "source"}
	}
	c := &Cursor{src: src}
	c.decode()
	return c, nil
}

func (c *Cursor) decode() {
	if c.bytePos >= len(c.src) {
		c.ch = -1
		c.chSize = 0
		return
	}
	r, size := utf8.DecodeRuneInString(c.src[c.bytePos:])
	if r == utf8.RuneError && size == 1 {
		r = rune(c.src[c.bytePos])
	}
	c.ch = r
	c.chSize = size
}

// Source returns the full normalized source text.
func (c *Cursor) Source() string { return c.src }

// Current returns the rune under the cursor, or -1 at EOF.
func (c *Cursor) Current() rune { return c.ch }

// AtEOF reports whether the cursor has consumed all input.
func (c *Cursor) AtEOF() bool { return c.ch == -1 }

// Offset returns the current character (rune) offset.
func (c *Cursor) Offset() int { return c.charPos }

// BytePos returns the current byte offset, for slicing Source().
func (c *Cursor) BytePos() int { return c.bytePos }

// Advance consumes the current rune and moves to the next one.
func (c *Cursor) Advance() {
	if c.ch == -1 {
		return
	}
	c.bytePos += c.chSize
	c.charPos++
	c.decode()
}

// Peek returns the rune n positions ahead of the current one (Peek(0) ==
// Current()) without advancing. Returns -1 past EOF.
func (c *Cursor) Peek(n int) rune {
	if n == 0 {
		return c.ch
	}
	pos := c.bytePos
	for i := 0; i < n; i++ {
		if pos >= len(c.src) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(c.src[pos:])
		pos += size
	}
	if pos >= len(c.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(c.src[pos:])
	return r
}

// Slice returns the substring of Source() between two byte positions, both
// obtained from BytePos().
func (c *Cursor) Slice(startByte, endByte int) string {
	return c.src[startByte:endByte]
}

// Mark captures a restorable position.
type Mark struct {
	bytePos int
	charPos int
	ch      rune
	chSize  int
}

// Save returns the current position as a Mark.
func (c *Cursor) Save() Mark {
	return Mark{bytePos: c.bytePos, charPos: c.charPos, ch: c.ch, chSize: c.chSize}
}

// Restore resets the cursor to a previously saved Mark.
func (c *Cursor) Restore(m Mark) {
	c.bytePos = m.bytePos
	c.charPos = m.charPos
	c.ch = m.ch
	c.chSize = m.chSize
}
