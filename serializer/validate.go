package serializer

import (
	"fmt"
	"regexp"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/internal/cursor"
)

var identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// validateResource walks r checking the invariants emission depends on:
// every identifier matches the grammar's identifier shape, every select
// expression has exactly one default variant, and no select expression
// repeats a variant key. It stops at the first violation found; deeper
// problems in the same tree are not reported in one pass.
func validateResource(r *ast.Resource, guard *cursor.DepthGuard) error {
	var verr *SerializationValidationError

	err := ast.Inspect(r, func(n ast.Node) bool {
		if verr != nil {
			return false
		}
		if bad := checkNode(n); bad != nil {
			verr = bad
			return false
		}
		return true
	}, guard)

	if err != nil {
		return &SerializationDepthError{Cause: err}
	}
	if verr != nil {
		return verr
	}
	return nil
}

func checkNode(n ast.Node) *SerializationValidationError {
	switch v := n.(type) {
	case *ast.Message:
		return checkIdentifier(string(v.ID), n, "message id")
	case *ast.Term:
		return checkIdentifier(string(v.ID), n, "term id")
	case *ast.Attribute:
		return checkIdentifier(string(v.ID), n, "attribute id")
	case *ast.VariableReference:
		return checkIdentifier(string(v.ID), n, "variable name")
	case *ast.NamedArgument:
		return checkIdentifier(string(v.Name), n, "named argument name")
	case *ast.IdentifierKey:
		return checkIdentifier(string(v.Name), n, "variant key")
	case *ast.FunctionReference:
		return checkIdentifier(string(v.ID), n, "function name")
	case *ast.MessageReference:
		if bad := checkIdentifier(string(v.ID), n, "message reference id"); bad != nil {
			return bad
		}
		if v.Attribute != nil {
			return checkIdentifier(string(*v.Attribute), n, "message reference attribute")
		}
	case *ast.TermReference:
		if bad := checkIdentifier(string(v.ID), n, "term reference id"); bad != nil {
			return bad
		}
		if v.Attribute != nil {
			return checkIdentifier(string(*v.Attribute), n, "term reference attribute")
		}
	case *ast.SelectExpression:
		return checkSelectExpression(v)
	}
	return nil
}

func checkIdentifier(name string, n ast.Node, what string) *SerializationValidationError {
	if identRe.MatchString(name) {
		return nil
	}
	return &SerializationValidationError{
		Reason: fmt.Sprintf("invalid %s %q", what, name),
		Offset: offsetOf(n),
	}
}

func checkSelectExpression(s *ast.SelectExpression) *SerializationValidationError {
	if len(s.Variants) == 0 {
		return &SerializationValidationError{Reason: "select expression has no variants", Offset: offsetOf(s)}
	}

	defaults := 0
	seen := make(map[string]bool, len(s.Variants))
	for i, variant := range s.Variants {
		if variant.IsDefault {
			defaults++
		}
		key := variantKeyText(variant.Key)
		if seen[key] {
			return &SerializationValidationError{
				Reason: fmt.Sprintf("duplicate variant key %q", key),
				Offset: offsetOf(variant),
			}
		}
		seen[key] = true

		wantDefault := i == s.DefaultIndex
		if wantDefault != variant.IsDefault {
			return &SerializationValidationError{
				Reason: "select expression's DefaultIndex does not match its marked default variant",
				Offset: offsetOf(s),
			}
		}
	}

	if defaults != 1 {
		return &SerializationValidationError{
			Reason: fmt.Sprintf("select expression must have exactly one default variant, found %d", defaults),
			Offset: offsetOf(s),
		}
	}
	if s.DefaultIndex < 0 || s.DefaultIndex >= len(s.Variants) {
		return &SerializationValidationError{Reason: "select expression DefaultIndex out of range", Offset: offsetOf(s)}
	}
	return nil
}

func variantKeyText(k ast.VariantKey) string {
	switch v := k.(type) {
	case *ast.IdentifierKey:
		return string(v.Name)
	case *ast.NumberLiteral:
		return v.Raw
	default:
		return ""
	}
}

func offsetOf(n ast.Node) int {
	if span := n.NodeSpan(); span != nil {
		return span.Start
	}
	return -1
}
