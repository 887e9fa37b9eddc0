package ast

import "github.com/fluentcore/ftl/internal/cursor"

// Transformer produces a replacement for a node. Returning the same node
// unchanged is valid; returning nil removes the node from its parent
// collection.
type Transformer interface {
	Transform(n Node) Node
}

// Apply rewrites n bottom-up: children are transformed first, a new parent
// node is built from the transformed children (the original is never
// mutated), and finally t.Transform is called on that rebuilt node. This
// mirrors "ASTTransformer returns modified copies; never mutates in place."
func Apply(t Transformer, n Node, guard *cursor.DepthGuard) (Node, error) {
	if n == nil {
		return nil, nil
	}
	if guard == nil {
		guard = cursor.NewDepthGuard(DefaultMaxWalkDepth)
	}
	return apply(t, n, guard)
}

func apply(t Transformer, n Node, guard *cursor.DepthGuard) (Node, error) {
	if err := guard.Enter(); err != nil {
		return nil, err
	}
	defer guard.Exit()

	rebuilt, err := rebuildWithTransformedChildren(t, n, guard)
	if err != nil {
		return nil, err
	}
	return t.Transform(rebuilt), nil
}

func rebuildWithTransformedChildren(t Transformer, n Node, guard *cursor.DepthGuard) (Node, error) {
	switch v := n.(type) {
	case *Resource:
		entries := make([]Entry, 0, len(v.Entries))
		for _, e := range v.Entries {
			nn, err := apply(t, e, guard)
			if err != nil {
				return nil, err
			}
			if nn == nil {
				continue
			}
			entries = append(entries, nn.(Entry))
		}
		return &Resource{Entries: entries, Span: v.Span}, nil

	case *Message:
		out := &Message{ID: v.ID, Span: v.Span}
		if v.Comment != nil {
			nn, err := apply(t, v.Comment, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Comment = nn.(*Comment)
			}
		}
		if v.Value != nil {
			nn, err := apply(t, v.Value, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Value = nn.(*Pattern)
			}
		}
		for _, a := range v.Attributes {
			nn, err := apply(t, a, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Attributes = append(out.Attributes, nn.(*Attribute))
			}
		}
		return out, nil

	case *Term:
		out := &Term{ID: v.ID, Span: v.Span}
		if v.Comment != nil {
			nn, err := apply(t, v.Comment, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Comment = nn.(*Comment)
			}
		}
		if v.Value != nil {
			nn, err := apply(t, v.Value, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Value = nn.(*Pattern)
			}
		}
		for _, a := range v.Attributes {
			nn, err := apply(t, a, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Attributes = append(out.Attributes, nn.(*Attribute))
			}
		}
		return out, nil

	case *Attribute:
		out := &Attribute{ID: v.ID, Span: v.Span}
		if v.Value != nil {
			nn, err := apply(t, v.Value, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Value = nn.(*Pattern)
			}
		}
		return out, nil

	case *Pattern:
		elems := make([]PatternElement, 0, len(v.Elements))
		for _, e := range v.Elements {
			nn, err := apply(t, e, guard)
			if err != nil {
				return nil, err
			}
			if nn == nil {
				continue
			}
			elems = append(elems, nn.(PatternElement))
		}
		return &Pattern{Elements: elems, Span: v.Span}, nil

	case *Placeable:
		out := &Placeable{Span: v.Span}
		if v.Expression != nil {
			nn, err := apply(t, v.Expression, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Expression = nn.(Expression)
			}
		}
		return out, nil

	case *SelectExpression:
		out := &SelectExpression{Span: v.Span, DefaultIndex: v.DefaultIndex}
		if v.Selector != nil {
			nn, err := apply(t, v.Selector, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Selector = nn.(Expression)
			}
		}
		for _, variant := range v.Variants {
			nn, err := apply(t, variant, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Variants = append(out.Variants, nn.(*Variant))
			}
		}
		return out, nil

	case *Variant:
		out := &Variant{IsDefault: v.IsDefault, Span: v.Span}
		if v.Key != nil {
			nn, err := apply(t, v.Key, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Key = nn.(VariantKey)
			}
		}
		if v.Value != nil {
			nn, err := apply(t, v.Value, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Value = nn.(*Pattern)
			}
		}
		return out, nil

	case *TermReference:
		out := &TermReference{ID: v.ID, Attribute: v.Attribute, Span: v.Span}
		if v.Arguments != nil {
			nn, err := apply(t, v.Arguments, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Arguments = nn.(*CallArguments)
			}
		}
		return out, nil

	case *FunctionReference:
		out := &FunctionReference{ID: v.ID, Span: v.Span}
		if v.Arguments != nil {
			nn, err := apply(t, v.Arguments, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Arguments = nn.(*CallArguments)
			}
		}
		return out, nil

	case *CallArguments:
		out := &CallArguments{Span: v.Span}
		for _, p := range v.Positional {
			nn, err := apply(t, p, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Positional = append(out.Positional, nn.(Expression))
			}
		}
		for _, na := range v.Named {
			nn, err := apply(t, na, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Named = append(out.Named, nn.(*NamedArgument))
			}
		}
		return out, nil

	case *NamedArgument:
		out := &NamedArgument{Name: v.Name, Span: v.Span}
		if v.Value != nil {
			nn, err := apply(t, v.Value, guard)
			if err != nil {
				return nil, err
			}
			if nn != nil {
				out.Value = nn.(Expression)
			}
		}
		return out, nil

	// Leaf nodes: no children to rebuild, return a shallow copy so the
	// original is never mutated by a subsequent Transform call.
	case *TextElement:
		cp := *v
		return &cp, nil
	case *StringLiteral:
		cp := *v
		return &cp, nil
	case *NumberLiteral:
		cp := *v
		return &cp, nil
	case *VariableReference:
		cp := *v
		return &cp, nil
	case *MessageReference:
		cp := *v
		return &cp, nil
	case *IdentifierKey:
		cp := *v
		return &cp, nil
	case *Comment:
		cp := *v
		return &cp, nil
	case *Junk:
		cp := *v
		return &cp, nil
	case *Annotation:
		cp := *v
		return &cp, nil

	default:
		return n, nil
	}
}
