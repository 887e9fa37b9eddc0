package parser

import (
	"strings"
	"testing"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/internal/cursor"
)

func TestNew_RejectsZeroMaxNestingDepth(t *testing.T) {
	_, err := New("hello = Hi\n", WithMaxNestingDepth(0))
	if err == nil {
		t.Fatal("New() with MaxNestingDepth=0 should have failed")
	}
	if _, ok := err.(*cursor.DepthConfigError); !ok {
		t.Errorf("error type = %T, want *cursor.DepthConfigError", err)
	}
}

func TestNew_NegativeMaxNestingDepthFallsBackToDefault(t *testing.T) {
	p, err := New("hello = Hi\n", WithMaxNestingDepth(-1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.guard.Max() != cursor.DefaultMaxNestingDepth {
		t.Errorf("guard.Max() = %d, want %d", p.guard.Max(), cursor.DefaultMaxNestingDepth)
	}
}

func TestNew_PositiveMaxNestingDepthHonored(t *testing.T) {
	p, err := New("hello = Hi\n", WithMaxNestingDepth(3))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.guard.Max() != 3 {
		t.Errorf("guard.Max() = %d, want 3", p.guard.Max())
	}
}

func TestParse_RejectsSourceOverSizeLimit(t *testing.T) {
	src := "hello = " + strings.Repeat("a", 100) + "\n"
	_, _, err := Parse(src, WithMaxSourceSize(10))
	if err == nil {
		t.Fatal("Parse() over the configured size limit should have failed")
	}
	if _, ok := err.(*diagnostics.SizeLimitError); !ok {
		t.Errorf("error type = %T, want *diagnostics.SizeLimitError", err)
	}
}

func TestParse_SurrogateEscapeIsJunk(t *testing.T) {
	res, diags, err := Parse(`bad = { "\uD800" }` + "\n" + "good = fine\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1", len(diags))
	}
	if diags[0].Code != diagnostics.ParseError {
		t.Errorf("diags[0].Code = %s, want %s", diags[0].Code, diagnostics.ParseError)
	}
	var sawJunk, sawGood bool
	for _, e := range res.Entries {
		switch v := e.(type) {
		case *ast.Junk:
			sawJunk = true
		case *ast.Message:
			if v.ID == "good" {
				sawGood = true
			}
		}
	}
	if !sawJunk {
		t.Error("expected the surrogate-escape entry to be consolidated into Junk")
	}
	if !sawGood {
		t.Error("expected parsing to resynchronize and still register the following message")
	}
}

func TestParse_IdentifierExceedsMaxLength_IsFatal(t *testing.T) {
	longID := strings.Repeat("a", 10)
	_, _, err := Parse(longID+" = value\n", WithMaxIdentifierLength(5))
	if err == nil {
		t.Fatal("Parse() with an identifier past MaxIdentifierLength should have failed fatally")
	}
	perr, ok := err.(*diagnostics.ParseErr)
	if !ok {
		t.Fatalf("error type = %T, want *diagnostics.ParseErr", err)
	}
	if perr.Code != diagnostics.TokenTooLong {
		t.Errorf("Code = %s, want %s", perr.Code, diagnostics.TokenTooLong)
	}
}

func TestParse_NumberLiteralExceedsMaxRawLength_IsFatal(t *testing.T) {
	longNumber := strings.Repeat("9", 20)
	_, _, err := Parse("n = { "+longNumber+" }\n", WithMaxNumberRawLength(5))
	if err == nil {
		t.Fatal("Parse() with a number literal past MaxNumberRawLength should have failed fatally")
	}
	perr, ok := err.(*diagnostics.ParseErr)
	if !ok {
		t.Fatalf("error type = %T, want *diagnostics.ParseErr", err)
	}
	if perr.Code != diagnostics.TokenTooLong {
		t.Errorf("Code = %s, want %s", perr.Code, diagnostics.TokenTooLong)
	}
}

func TestParse_DeeplyNestedPlaceablesHitDepthGuard(t *testing.T) {
	var b strings.Builder
	b.WriteString("n = ")
	for i := 0; i < 20; i++ {
		b.WriteString("{ ")
	}
	b.WriteString("1")
	for i := 0; i < 20; i++ {
		b.WriteString(" }")
	}
	b.WriteString("\n")

	_, _, err := Parse(b.String(), WithMaxNestingDepth(5))
	if err == nil {
		t.Fatal("Parse() with nesting past MaxNestingDepth should have failed fatally")
	}
	perr, ok := err.(*diagnostics.ParseErr)
	if !ok {
		t.Fatalf("error type = %T, want *diagnostics.ParseErr", err)
	}
	if perr.Code != diagnostics.DepthExceeded {
		t.Errorf("Code = %s, want %s", perr.Code, diagnostics.DepthExceeded)
	}
}

func TestParse_JunkConsolidatesToNextEntryStart(t *testing.T) {
	src := "valid = ok\n!!! this is not valid ftl at all\n... neither is this continuation line\nafter = fine\n"
	res, diags, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1", len(diags))
	}
	if len(res.Entries) != 3 {
		t.Fatalf("len(res.Entries) = %d, want 3 (valid, junk, after)", len(res.Entries))
	}
}

func TestParse_IndentedJunkStartCharacterDoesNotTerminateJunk(t *testing.T) {
	src := "broken ...\n    # this looks like a comment but is indented\nafter = fine\n"
	res, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("len(res.Entries) = %d, want 2 (junk, after)", len(res.Entries))
	}
}

func TestNormalize_CRLFAndLoneCR(t *testing.T) {
	got := cursor.Normalize("a\r\nb\rc\n")
	want := "a\nb\nc\n"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestParse_CRLFSourceNormalizedBeforeParsing(t *testing.T) {
	res, diags, err := Parse("hello = Hi\r\nworld = Earth\r\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("diags = %v, want none", diags)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("len(res.Entries) = %d, want 2", len(res.Entries))
	}
}

func TestExpression_FunctionNameAcceptsLowercase(t *testing.T) {
	res, diags, err := Parse("greeting = { foo() }\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("diags = %v, want none (lowercase function names are valid identifiers)", diags)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("len(res.Entries) = %d, want 1", len(res.Entries))
	}
}

func TestExpression_FunctionNameAcceptsUppercase(t *testing.T) {
	_, diags, err := Parse("greeting = { NUMBER(1) }\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("diags = %v, want none", diags)
	}
}
