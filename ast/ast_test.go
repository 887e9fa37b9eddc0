package ast

import (
	"testing"

	"github.com/fluentcore/ftl/internal/cursor"
)

func simpleResource() *Resource {
	return &Resource{
		Entries: []Entry{
			&Message{
				ID: "hello",
				Value: &Pattern{
					Elements: []PatternElement{
						&TextElement{Value: "Hi, "},
						&Placeable{Expression: &VariableReference{ID: "name"}},
					},
				},
			},
		},
	}
}

func TestWalk_VisitsEveryNode(t *testing.T) {
	var kinds []string
	visitor := inspector(func(n Node) bool {
		switch n.(type) {
		case *Resource:
			kinds = append(kinds, "Resource")
		case *Message:
			kinds = append(kinds, "Message")
		case *Pattern:
			kinds = append(kinds, "Pattern")
		case *TextElement:
			kinds = append(kinds, "TextElement")
		case *Placeable:
			kinds = append(kinds, "Placeable")
		case *VariableReference:
			kinds = append(kinds, "VariableReference")
		}
		return true
	})

	if err := Walk(visitor, simpleResource(), nil); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"Resource", "Message", "Pattern", "TextElement", "Placeable", "VariableReference"}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visited[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestWalk_ReturningNilPrunesSubtree(t *testing.T) {
	var visitedPattern bool
	visitor := pruningVisitor(func(n Node) bool {
		if _, ok := n.(*Message); ok {
			return false
		}
		if _, ok := n.(*Pattern); ok {
			visitedPattern = true
		}
		return true
	})

	if err := Walk(visitor, simpleResource(), nil); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if visitedPattern {
		t.Error("Walk() descended into Message's children after visitor pruned it")
	}
}

// pruningVisitor behaves like inspector (returning false prunes the
// subtree by returning a nil Visitor) but is a distinct test-local type, so
// TestWalk_ReturningNilPrunesSubtree exercises Walk's nil-Visitor pruning
// without going through Inspect.
type pruningVisitor func(Node) bool

func (f pruningVisitor) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

func TestWalk_DepthGuardStopsPathologicalNesting(t *testing.T) {
	var expr Expression = &NumberLiteral{Raw: "1"}
	for i := 0; i < 10; i++ {
		expr = &Placeable{Expression: expr}
	}

	guard := cursor.NewDepthGuard(3)
	err := Walk(inspector(func(Node) bool { return true }), expr, guard)
	if err == nil {
		t.Fatal("Walk() past the depth guard's budget should have failed")
	}
	if _, ok := err.(*cursor.DepthError); !ok {
		t.Errorf("error type = %T, want *cursor.DepthError", err)
	}
}

func TestInspect_StopsOnFalse(t *testing.T) {
	count := 0
	err := Inspect(simpleResource(), func(Node) bool {
		count++
		return count < 2
	}, nil)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 (Resource, then Message before pruning)", count)
	}
}

func TestCommentType_String(t *testing.T) {
	cases := map[CommentType]string{
		CommentSingle:   "Single",
		CommentGroup:    "Group",
		CommentResource: "Resource",
		CommentType(99): "Unknown",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("CommentType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}
