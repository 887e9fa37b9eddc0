package ast

import "github.com/fluentcore/ftl/internal/cursor"

// Visitor is implemented by callers that want to inspect a tree. Visit is
// called for every node before its children (pre-order); if it returns a
// non-nil Visitor, Walk continues into the node's children with that
// visitor (which may be the same v, or a different one to change behavior
// for a subtree), mirroring go/ast.Visitor. Returning nil prunes the
// subtree.
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// DefaultMaxWalkDepth bounds Walk's recursion when no explicit guard is
// supplied, matching the engine-wide default nesting budget.
const DefaultMaxWalkDepth = cursor.DefaultMaxNestingDepth

// Walk traverses n and its children in depth-first pre-order, calling
// v.Visit at each step. Depth tracking happens here, in the single
// dispatcher, specifically so that a Visitor implementation cannot
// accidentally (or deliberately) recurse around the guard: all recursion
// into children is performed by Walk itself via the per-type child list
// below, never by calling back into a Visitor method.
//
// Walk returns a DepthError if the tree nests deeper than guard's budget.
func Walk(v Visitor, n Node, guard *cursor.DepthGuard) error {
	if n == nil {
		return nil
	}
	if guard == nil {
		guard = cursor.NewDepthGuard(DefaultMaxWalkDepth)
	}
	return walk(v, n, guard)
}

func walk(v Visitor, n Node, guard *cursor.DepthGuard) error {
	if err := guard.Enter(); err != nil {
		return err
	}
	defer guard.Exit()

	w := v.Visit(n)
	if w == nil {
		return nil
	}

	for _, child := range children(n) {
		if err := walk(w, child, guard); err != nil {
			return err
		}
	}
	return nil
}

// children returns the statically known child nodes of n, in source order.
// This table is the Go rendition of the "cache field layout per node type"
// design note: rather than reflecting over struct fields at runtime, each
// node kind's children are listed explicitly once, here.
func children(n Node) []Node {
	switch v := n.(type) {
	case *Resource:
		out := make([]Node, 0, len(v.Entries))
		for _, e := range v.Entries {
			out = append(out, e)
		}
		return out

	case *Message:
		var out []Node
		if v.Comment != nil {
			out = append(out, v.Comment)
		}
		if v.Value != nil {
			out = append(out, v.Value)
		}
		for _, a := range v.Attributes {
			out = append(out, a)
		}
		return out

	case *Term:
		var out []Node
		if v.Comment != nil {
			out = append(out, v.Comment)
		}
		if v.Value != nil {
			out = append(out, v.Value)
		}
		for _, a := range v.Attributes {
			out = append(out, a)
		}
		return out

	case *Attribute:
		if v.Value != nil {
			return []Node{v.Value}
		}
		return nil

	case *Pattern:
		out := make([]Node, 0, len(v.Elements))
		for _, e := range v.Elements {
			out = append(out, e)
		}
		return out

	case *TextElement:
		return nil

	case *Placeable:
		if v.Expression != nil {
			return []Node{v.Expression}
		}
		return nil

	case *StringLiteral, *NumberLiteral, *VariableReference:
		return nil

	case *MessageReference:
		return nil

	case *TermReference:
		if v.Arguments != nil {
			return []Node{v.Arguments}
		}
		return nil

	case *FunctionReference:
		if v.Arguments != nil {
			return []Node{v.Arguments}
		}
		return nil

	case *SelectExpression:
		out := make([]Node, 0, 1+len(v.Variants))
		if v.Selector != nil {
			out = append(out, v.Selector)
		}
		for _, variant := range v.Variants {
			out = append(out, variant)
		}
		return out

	case *Variant:
		var out []Node
		if v.Key != nil {
			out = append(out, v.Key)
		}
		if v.Value != nil {
			out = append(out, v.Value)
		}
		return out

	case *IdentifierKey:
		return nil

	case *CallArguments:
		out := make([]Node, 0, len(v.Positional)+len(v.Named))
		for _, p := range v.Positional {
			out = append(out, p)
		}
		for _, na := range v.Named {
			out = append(out, na)
		}
		return out

	case *NamedArgument:
		if v.Value != nil {
			return []Node{v.Value}
		}
		return nil

	case *Comment, *Junk, *Annotation:
		return nil

	default:
		return nil
	}
}

// Inspect is a convenience wrapper around Walk for callers that only need a
// single bool-returning callback, mirroring go/ast.Inspect.
func Inspect(n Node, f func(Node) bool, guard *cursor.DepthGuard) error {
	return Walk(inspector(f), n, guard)
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}
