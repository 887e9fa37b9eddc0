package cursor

import "testing"

func TestNew_RejectsSourceOverMaxSize(t *testing.T) {
	_, err := New("abcdef", 3)
	if err == nil {
		t.Fatal("New() over the size limit should have failed")
	}
	sizeErr, ok := err.(*SizeError)
	if !ok {
		t.Fatalf("error type = %T, want *SizeError", err)
	}
	if sizeErr.Subject != "source" {
		t.Errorf("Subject = %q, want %q", sizeErr.Subject, "source")
	}
}

func TestNew_ZeroMaxSizeUsesDefault(t *testing.T) {
	c, err := New("hello", 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", c.Offset())
	}
}

func TestCursor_AdvancePeekSlice(t *testing.T) {
	c, err := New("abéc", 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Current() != 'a' {
		t.Fatalf("Current() = %q, want 'a'", c.Current())
	}
	if p := c.Peek(2); p != 'é' {
		t.Errorf("Peek(2) = %q, want 'é'", p)
	}
	c.Advance() // consumes 'a'
	start := c.BytePos()
	c.Advance()                  // consumes 'b'
	c.Advance()                  // consumes the two-byte 'é'
	if c.Current() != 'c' {
		t.Fatalf("Current() after consuming 'a','b','é' = %q, want 'c'", c.Current())
	}
	if got := c.Slice(start, c.BytePos()); got != "bé" {
		t.Errorf("Slice() = %q, want %q", got, "bé")
	}
}

func TestCursor_AdvancePastEOFIsNoOp(t *testing.T) {
	c, err := New("a", 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.Advance()
	if !c.AtEOF() {
		t.Fatal("expected AtEOF() after consuming the only rune")
	}
	before := c.Offset()
	c.Advance()
	if c.Offset() != before {
		t.Errorf("Advance() past EOF moved offset from %d to %d", before, c.Offset())
	}
	if c.Current() != -1 {
		t.Errorf("Current() past EOF = %q, want -1", c.Current())
	}
}

func TestCursor_PeekPastEOFReturnsMinusOne(t *testing.T) {
	c, err := New("ab", 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := c.Peek(10); got != -1 {
		t.Errorf("Peek(10) = %q, want -1", got)
	}
}

func TestCursor_SaveRestore(t *testing.T) {
	c, err := New("abcdef", 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.Advance()
	c.Advance()
	mark := c.Save()
	c.Advance()
	c.Advance()
	if c.Current() != 'e' {
		t.Fatalf("Current() before restore = %q, want 'e'", c.Current())
	}
	c.Restore(mark)
	if c.Current() != 'c' {
		t.Errorf("Current() after restore = %q, want 'c'", c.Current())
	}
	if c.Offset() != 2 {
		t.Errorf("Offset() after restore = %d, want 2", c.Offset())
	}
}

func TestNormalize_NoCarriageReturnIsUntouched(t *testing.T) {
	src := "a\nb\nc\n"
	if got := Normalize(src); got != src {
		t.Errorf("Normalize() = %q, want unchanged %q", got, src)
	}
}

func TestNormalize_TrailingLoneCR(t *testing.T) {
	if got := Normalize("a\r"); got != "a\n" {
		t.Errorf("Normalize() = %q, want %q", got, "a\n")
	}
}

func TestDepthGuard_EnterExitTracksCurrentDepth(t *testing.T) {
	g := NewDepthGuard(2)
	if err := g.Enter(); err != nil {
		t.Fatalf("Enter() #1 error = %v", err)
	}
	if err := g.Enter(); err != nil {
		t.Fatalf("Enter() #2 error = %v", err)
	}
	if err := g.Enter(); err == nil {
		t.Fatal("Enter() #3 past budget should have failed")
	}
	g.Exit()
	if err := g.Enter(); err != nil {
		t.Fatalf("Enter() after Exit() freed a slot, error = %v", err)
	}
}

func TestDepthGuard_FailedEnterLeavesCounterUnchanged(t *testing.T) {
	g := NewDepthGuard(1)
	if err := g.Enter(); err != nil {
		t.Fatalf("Enter() #1 error = %v", err)
	}
	before := g.Current()
	if err := g.Enter(); err == nil {
		t.Fatal("Enter() #2 past budget should have failed")
	}
	if g.Current() != before {
		t.Errorf("Current() changed from %d to %d after a failed Enter()", before, g.Current())
	}
}

func TestClampDepth_NegativeUsesDefault(t *testing.T) {
	if got := ClampDepth(-1); got != DefaultMaxNestingDepth {
		t.Errorf("ClampDepth(-1) = %d, want %d", got, DefaultMaxNestingDepth)
	}
}

func TestClampDepth_ZeroUsesDefault(t *testing.T) {
	if got := ClampDepth(0); got != DefaultMaxNestingDepth {
		t.Errorf("ClampDepth(0) = %d, want %d", got, DefaultMaxNestingDepth)
	}
}

func TestClampDepth_OverCeilingIsClamped(t *testing.T) {
	got := ClampDepth(hardMaxDepth * 2)
	want := hardMaxDepth - hostStackReserveFrames
	if got != want {
		t.Errorf("ClampDepth(%d) = %d, want %d", hardMaxDepth*2, got, want)
	}
}

func TestValidateMaxNestingDepth_RejectsExactlyZero(t *testing.T) {
	err := ValidateMaxNestingDepth(0)
	if err == nil {
		t.Fatal("ValidateMaxNestingDepth(0) should have failed")
	}
	if _, ok := err.(*DepthConfigError); !ok {
		t.Errorf("error type = %T, want *DepthConfigError", err)
	}
}

func TestValidateMaxNestingDepth_AcceptsNegativeAndPositive(t *testing.T) {
	if err := ValidateMaxNestingDepth(-1); err != nil {
		t.Errorf("ValidateMaxNestingDepth(-1) error = %v, want nil", err)
	}
	if err := ValidateMaxNestingDepth(5); err != nil {
		t.Errorf("ValidateMaxNestingDepth(5) error = %v, want nil", err)
	}
}

func TestLineOffsetCache_PositionAcrossLines(t *testing.T) {
	src := "ab\ncd\nef"
	cache := NewLineOffsetCache(src)
	if cache.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", cache.LineCount())
	}

	cases := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},  // 'a'
		{2, 1, 3},  // '\n' ends line 1
		{3, 2, 1},  // 'c'
		{6, 3, 1},  // 'e'
		{7, 3, 2},  // 'f'
	}
	for _, c := range cases {
		pos := cache.Position(c.offset)
		if pos.Line != c.wantLine || pos.Column != c.wantCol {
			t.Errorf("Position(%d) = {Line:%d Column:%d}, want {Line:%d Column:%d}",
				c.offset, pos.Line, pos.Column, c.wantLine, c.wantCol)
		}
	}
}
