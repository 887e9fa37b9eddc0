package serializer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/parser"
)

// astCmpOpts ignores Span (byte/char positions are expected to shift across
// a serialize/re-parse round trip even when the tree is structurally
// identical) and teaches cmp how to compare decimal.Decimal by value rather
// than by its unexported internal representation.
var astCmpOpts = []cmp.Option{
	cmpopts.IgnoreTypes(&ast.Span{}),
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
}

func mustParse(t *testing.T, src string) *ast.Resource {
	t.Helper()
	res, diags, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for _, d := range diags {
		t.Fatalf("unexpected diagnostic: %s", d.String())
	}
	return res
}

func TestSerialize_SimpleMessage(t *testing.T) {
	res := mustParse(t, "hello = Hello, world!\n")
	out, err := Serialize(res)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if out != "hello = Hello, world!\n" {
		t.Errorf("Serialize() = %q", out)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	src := "greeting = Hello, { $name }!\n" +
		"-brand = Firefox\n" +
		"    .gender = masculine\n"
	res := mustParse(t, src)
	out, err := Serialize(res)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	res2 := mustParse(t, out)
	out2, err := Serialize(res2)
	if err != nil {
		t.Fatalf("second Serialize() error = %v", err)
	}
	if out != out2 {
		t.Errorf("serialization is not stable:\nfirst:  %q\nsecond: %q", out, out2)
	}

	if diff := cmp.Diff(res, res2, astCmpOpts...); diff != "" {
		t.Errorf("round-tripped resource differs structurally (-want +got):\n%s", diff)
	}
}

func TestSerialize_RoundTrip_StructuralEquality_NumberLiteral(t *testing.T) {
	src := "price = You owe { NUMBER(1.50) } dollars.\n" +
		"count = { $n ->\n" +
		"    [1] one\n" +
		"   *[other] { $n }\n" +
		"}\n"
	res := mustParse(t, src)
	out, err := Serialize(res)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	res2 := mustParse(t, out)

	if diff := cmp.Diff(res, res2, astCmpOpts...); diff != "" {
		t.Errorf("round-tripped resource differs structurally (-want +got):\n%s", diff)
	}
}

func TestSerialize_SelectExpression(t *testing.T) {
	src := "emails = { $unreadEmails ->\n" +
		"    [one] You have one unread email.\n" +
		"   *[other] You have { $unreadEmails } unread emails.\n" +
		"}\n"
	res := mustParse(t, src)
	out, err := Serialize(res)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !strings.Contains(out, "*[other]") {
		t.Errorf("Serialize() dropped the default variant marker: %q", out)
	}
	if !strings.Contains(out, "$unreadEmails ->") {
		t.Errorf("Serialize() = %q, want selector arrow preserved", out)
	}

	res2 := mustParse(t, out)
	if len(res2.Entries) != 1 {
		t.Fatalf("round-tripped resource has %d entries, want 1", len(res2.Entries))
	}
}

func TestSerialize_ValidationCatchesDuplicateVariantKeys(t *testing.T) {
	resource := &ast.Resource{
		Entries: []ast.Entry{
			&ast.Message{
				ID: "x",
				Value: &ast.Pattern{
					Elements: []ast.PatternElement{
						&ast.Placeable{
							Expression: &ast.SelectExpression{
								Selector: &ast.VariableReference{ID: "n"},
								Variants: []*ast.Variant{
									{Key: &ast.IdentifierKey{Name: "one"}, Value: &ast.Pattern{Elements: []ast.PatternElement{&ast.TextElement{Value: "a"}}}},
									{Key: &ast.IdentifierKey{Name: "one"}, Value: &ast.Pattern{Elements: []ast.PatternElement{&ast.TextElement{Value: "b"}}}, IsDefault: true},
								},
								DefaultIndex: 1,
							},
						},
					},
				},
			},
		},
	}

	_, err := Serialize(resource)
	if err == nil {
		t.Fatal("Serialize() with duplicate variant keys should have failed validation")
	}
	if _, ok := err.(*SerializationValidationError); !ok {
		t.Errorf("error type = %T, want *SerializationValidationError", err)
	}
}

func TestSerialize_ValidationCatchesBadIdentifier(t *testing.T) {
	resource := &ast.Resource{
		Entries: []ast.Entry{
			&ast.Message{ID: "1bad", Value: &ast.Pattern{Elements: []ast.PatternElement{&ast.TextElement{Value: "x"}}}},
		},
	}
	_, err := Serialize(resource)
	if err == nil {
		t.Fatal("Serialize() with an invalid identifier should have failed validation")
	}
}

func TestSerialize_WithValidateFalseSkipsCheck(t *testing.T) {
	resource := &ast.Resource{
		Entries: []ast.Entry{
			&ast.Message{ID: "1bad", Value: &ast.Pattern{Elements: []ast.PatternElement{&ast.TextElement{Value: "x"}}}},
		},
	}
	out, err := Serialize(resource, WithValidate(false))
	if err != nil {
		t.Fatalf("Serialize() with validation disabled should not fail: %v", err)
	}
	if !strings.Contains(out, "1bad") {
		t.Errorf("Serialize() = %q, want the identifier preserved even though invalid", out)
	}
}

func TestSerialize_StandaloneComment(t *testing.T) {
	src := "### Resource comment\n\nhello = Hi\n"
	res := mustParse(t, src)
	out, err := Serialize(res)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !strings.HasPrefix(out, "### Resource comment\n") {
		t.Errorf("Serialize() = %q, want leading resource comment preserved", out)
	}
}

func TestSerialize_Junk(t *testing.T) {
	res, _, err := parser.Parse("valid = ok\ngarbage here\n\nother = fine\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	out, serr := Serialize(res)
	err = serr
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !strings.Contains(out, "garbage here") {
		t.Errorf("Serialize() did not preserve junk verbatim: %q", out)
	}
}
