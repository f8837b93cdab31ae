package flow

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(\"\") = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) again = %v, want ErrDuplicateNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"taken", Edge{From: "a", To: "b", Kind: Taken}, nil},
		{"fallthrough same pair", Edge{From: "a", To: "b", Kind: Fallthrough}, nil},
		{"duplicate", Edge{From: "a", To: "b", Kind: Taken}, ErrDuplicateEdge},
		{"self loop", Edge{From: "b", To: "b"}, nil},
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge(%+v) = %v, want %v", tt.edge, err, tt.want)
			}
		})
	}

	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	if got := g.Children("a"); !slices.Equal(got, []string{"b", "b"}) {
		t.Errorf("Children(a) = %v, want [b b]", got)
	}
	if got := g.InDegree("b"); got != 3 {
		t.Errorf("InDegree(b) = %d, want 3", got)
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		_ = g.AddNode(Node{ID: id})
	}
	if got := NodeIDs(g.Nodes()); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("Nodes() = %v, want [c a b]", got)
	}
	if g.Index("a") != 1 || g.Index("zz") != -1 {
		t.Errorf("Index(a)=%d Index(zz)=%d, want 1 and -1", g.Index("a"), g.Index("zz"))
	}
}

func TestSources(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "c", To: "c"})
	_ = g.AddEdge(Edge{From: "d", To: "b"})

	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"a", "c", "d"}) {
		t.Errorf("Sources() = %v, want [a c d]", got)
	}
}

func TestEdgesReturnsCopy(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	edges := g.Edges()
	edges[0].To = "mutated"
	if g.Edges()[0].To != "b" {
		t.Error("mutating Edges() result changed the graph")
	}
}

func TestEdgeKindString(t *testing.T) {
	if Taken.String() != "taken" || Fallthrough.String() != "fallthrough" {
		t.Errorf("EdgeKind strings = %q, %q", Taken, Fallthrough)
	}
}

func TestCountLayerCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "x", "y"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "y"})
	_ = g.AddEdge(Edge{From: "b", To: "x"})

	if got := CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}); got != 1 {
		t.Errorf("crossed order = %d, want 1", got)
	}
	if got := CountLayerCrossings(g, []string{"a", "b"}, []string{"y", "x"}); got != 0 {
		t.Errorf("uncrossed order = %d, want 0", got)
	}
	if got := CountLayerCrossings(g, nil, []string{"x"}); got != 0 {
		t.Errorf("empty upper = %d, want 0", got)
	}
}

func TestCountCrossingsSkipsGaps(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "x", "y"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "y"})
	_ = g.AddEdge(Edge{From: "b", To: "x"})

	adjacent := map[int][]string{0: {"a", "b"}, 1: {"x", "y"}}
	if got := CountCrossings(g, adjacent); got != 1 {
		t.Errorf("CountCrossings(adjacent) = %d, want 1", got)
	}
	gapped := map[int][]string{0: {"a", "b"}, 2: {"x", "y"}}
	if got := CountCrossings(g, gapped); got != 0 {
		t.Errorf("CountCrossings(gapped) = %d, want 0", got)
	}
}

func TestParallelEdgesDoNotCross(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b", Kind: Taken})
	_ = g.AddEdge(Edge{From: "a", To: "b", Kind: Fallthrough})

	if got := CountLayerCrossings(g, []string{"a"}, []string{"b"}); got != 0 {
		t.Errorf("parallel edges = %d crossings, want 0", got)
	}
}
