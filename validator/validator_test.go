package validator

import (
	"testing"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/parser"
)

func hasCode(diags []diagnostics.Diagnostic, code diagnostics.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestValidate_UndefinedReference(t *testing.T) {
	src := "hello = Hi { nonexistent }\n"
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src)
	if !hasCode(diags, diagnostics.UndefinedReference) {
		t.Errorf("Validate() = %v, want UNDEFINED_REFERENCE", diags)
	}
}

func TestValidate_KnownMessagesSuppressUndefinedReference(t *testing.T) {
	src := "hello = Hi { other }\n"
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src, WithKnownMessages(map[string]bool{"other": true}))
	if hasCode(diags, diagnostics.UndefinedReference) {
		t.Errorf("Validate() = %v, want no UNDEFINED_REFERENCE once 'other' is known", diags)
	}
}

func TestValidate_DuplicateID(t *testing.T) {
	src := "hello = Hi\nhello = Again\n"
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src)
	if !hasCode(diags, diagnostics.DuplicateID) {
		t.Errorf("Validate() = %v, want DUPLICATE_ID", diags)
	}
}

func TestValidate_ShadowWarning(t *testing.T) {
	src := "hello = Hi\n"
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src, WithKnownMessages(map[string]bool{"hello": true}))
	if !hasCode(diags, diagnostics.ShadowWarning) {
		t.Errorf("Validate() = %v, want SHADOW_WARNING", diags)
	}
}

func TestValidate_CircularReference(t *testing.T) {
	src := "a = See { b }\nb = See { a }\n"
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src)
	if !hasCode(diags, diagnostics.CircularReference) {
		t.Errorf("Validate() = %v, want CIRCULAR_REFERENCE", diags)
	}
}

func TestValidate_ChainDepthExceeded(t *testing.T) {
	src := "m0 = base\n"
	for i := 1; i <= 5; i++ {
		src += termLine(i)
	}
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src, WithMaxChainDepth(2))
	if !hasCode(diags, diagnostics.ChainDepthExceeded) {
		t.Errorf("Validate() = %v, want CHAIN_DEPTH_EXCEEDED with maxChainDepth=2", diags)
	}
}

func termLine(i int) string {
	if i == 1 {
		return "m1 = See { m0 }\n"
	}
	return "m" + itoa(i) + " = See { m" + itoa(i-1) + " }\n"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// TestValidate_SelectNoDefault exercises semanticPass, through Validate,
// against a hand-built AST: the parser itself never produces a SelectExpression
// without a default, so this shape can only arise from a transformed or
// otherwise programmatically constructed tree.
func TestValidate_SelectNoDefault(t *testing.T) {
	resource := &ast.Resource{
		Entries: []ast.Entry{
			&ast.Message{
				ID: "emails",
				Value: &ast.Pattern{Elements: []ast.PatternElement{
					&ast.Placeable{Expression: &ast.SelectExpression{
						Selector: &ast.VariableReference{ID: "n"},
						Variants: []*ast.Variant{
							{Key: &ast.IdentifierKey{Name: "one"}, Value: &ast.Pattern{Elements: []ast.PatternElement{&ast.TextElement{Value: "one"}}}},
							{Key: &ast.IdentifierKey{Name: "other"}, Value: &ast.Pattern{Elements: []ast.PatternElement{&ast.TextElement{Value: "many"}}}},
						},
						DefaultIndex: -1,
					}},
				}},
			},
		},
	}
	diags := Validate(resource, "")
	if !hasCode(diags, diagnostics.SelectNoDefault) {
		t.Errorf("Validate() = %v, want SELECT_NO_DEFAULT", diags)
	}
}

func TestValidate_TermPositionalArgsIgnored(t *testing.T) {
	src := "-brand = Firefox\nabout = { -brand(\"ignored\") }\n"
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src)
	if !hasCode(diags, diagnostics.TermPositionalArgsIgnored) {
		t.Errorf("Validate() = %v, want TERM_POSITIONAL_ARGS_IGNORED", diags)
	}
}

func TestValidate_VariantDuplicateByDecimalValue(t *testing.T) {
	src := "n = { $x ->\n    [1] one\n   *[1.0] one again\n}\n"
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src)
	if !hasCode(diags, diagnostics.VariantDuplicate) {
		t.Errorf("Validate() = %v, want VARIANT_DUPLICATE for [1] vs [1.0]", diags)
	}
}

func TestValidate_CleanResourceHasNoCriticalDiagnostics(t *testing.T) {
	src := "hello = Hello, { $name }!\n-brand = Firefox\nabout = About { -brand }\n"
	res, _, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	diags := Validate(res, src)
	for _, d := range diags {
		if d.Severity == diagnostics.Critical {
			t.Errorf("unexpected critical diagnostic on a clean resource: %s", d.String())
		}
	}
}
