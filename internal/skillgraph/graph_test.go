package skillgraph

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// diamond: 1 -> 2, 1 -> 3, 2 -> 4, 3 -> 4
func diamond() *Graph {
	return New(
		[]SkillNode{
			{ID: 4, Category: "graphs", Name: "Topological Sort"},
			{ID: 1, Category: "array", Name: "Two Sum"},
			{ID: 2, Category: "stack", Name: "Valid Parentheses"},
			{ID: 3, Category: "trees", Name: "Invert Tree"},
		},
		[]Edge{
			{Prerequisite: 1, Dependent: 2},
			{Prerequisite: 1, Dependent: 3},
			{Prerequisite: 3, Dependent: 4},
			{Prerequisite: 2, Dependent: 4},
		},
	)
}

func TestGetNode_Exists(t *testing.T) {
	g := diamond()
	n, err := g.GetNode(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Name != "Valid Parentheses" {
		t.Errorf("got name %q, want %q", n.Name, "Valid Parentheses")
	}
}

func TestGetNode_NotFound(t *testing.T) {
	g := diamond()
	_, err := g.GetNode(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error for unknown node, got nil")
	}
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("error %v should match ErrNodeNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.NodeID != 99 {
		t.Errorf("expected *NotFoundError for 99, got %v", err)
	}
}

func TestNodes_SortedByID(t *testing.T) {
	nodes := diamond().Nodes()
	for i := 1; i < len(nodes); i++ {
		if nodes[i].ID <= nodes[i-1].ID {
			t.Fatalf("nodes not sorted: %d before %d", nodes[i-1].ID, nodes[i].ID)
		}
	}
}

func TestAdjacency(t *testing.T) {
	g := diamond()
	ctx := context.Background()

	tests := []struct {
		id       NodeID
		wantDeps []NodeID
		wantPre  []NodeID
	}{
		{1, []NodeID{2, 3}, nil},
		{2, []NodeID{4}, []NodeID{1}},
		{3, []NodeID{4}, []NodeID{1}},
		{4, nil, []NodeID{2, 3}},
	}
	for _, tt := range tests {
		deps, _ := g.GetDependents(ctx, tt.id)
		if !slices.Equal(deps, tt.wantDeps) {
			t.Errorf("GetDependents(%d) = %v, want %v", tt.id, deps, tt.wantDeps)
		}
		pre, _ := g.GetPrerequisites(ctx, tt.id)
		if !slices.Equal(pre, tt.wantPre) {
			t.Errorf("GetPrerequisites(%d) = %v, want %v", tt.id, pre, tt.wantPre)
		}
	}
}

func TestGetDependents_ReturnsCopy(t *testing.T) {
	g := diamond()
	deps, _ := g.GetDependents(context.Background(), 1)
	deps[0] = 42
	again, _ := g.GetDependents(context.Background(), 1)
	if again[0] != 2 {
		t.Errorf("mutating result leaked into graph: got %d", again[0])
	}
}

func TestRoots(t *testing.T) {
	g := diamond()
	if roots := g.Roots(); !slices.Equal(roots, []NodeID{1}) {
		t.Errorf("Roots() = %v, want [1]", roots)
	}
	if !g.IsRoot(1) || g.IsRoot(4) {
		t.Error("IsRoot mismatch")
	}
}

func TestByCategory(t *testing.T) {
	g := diamond()
	got := g.ByCategory("trees")
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("ByCategory(trees) = %v", got)
	}
	if len(g.ByCategory("nope")) != 0 {
		t.Error("expected no nodes for unknown category")
	}
}

func TestTopologicalOrder(t *testing.T) {
	g := diamond()
	order := g.TopologicalOrder()
	if len(order) != 4 {
		t.Fatalf("got %d nodes, want 4", len(order))
	}
	pos := make(map[NodeID]int)
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges() {
		if pos[e.Prerequisite] >= pos[e.Dependent] {
			t.Errorf("prerequisite %d appears after dependent %d", e.Prerequisite, e.Dependent)
		}
	}
}

func TestTopologicalOrder_OmitsCycle(t *testing.T) {
	g := New(
		[]SkillNode{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}},
		[]Edge{{Prerequisite: 2, Dependent: 3}, {Prerequisite: 3, Dependent: 2}},
	)
	if order := g.TopologicalOrder(); !slices.Equal(order, []NodeID{1}) {
		t.Errorf("TopologicalOrder() = %v, want [1]", order)
	}
}

func TestParseNodeID(t *testing.T) {
	id, err := ParseNodeID("17")
	if err != nil || id != 17 {
		t.Errorf("ParseNodeID(17) = %d, %v", id, err)
	}
	if _, err := ParseNodeID("abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if NodeID(5).String() != "5" {
		t.Errorf("String() = %q", NodeID(5).String())
	}
}
