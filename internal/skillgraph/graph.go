package skillgraph

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
)

// Graph is an immutable in-memory view of skill nodes and prerequisite
// edges with precomputed adjacency in both directions.
type Graph struct {
	nodes         []SkillNode
	byID          map[NodeID]int
	dependents    map[NodeID][]NodeID
	prerequisites map[NodeID][]NodeID
	edges         []Edge
	roots         []NodeID
}

// New builds a graph from nodes and edges. Edges that reference unknown
// nodes are kept in the adjacency lists; use Validate to reject them.
func New(nodes []SkillNode, edges []Edge) *Graph {
	g := &Graph{
		nodes:         slices.Clone(nodes),
		byID:          make(map[NodeID]int, len(nodes)),
		dependents:    make(map[NodeID][]NodeID),
		prerequisites: make(map[NodeID][]NodeID),
		edges:         slices.Clone(edges),
	}

	sort.Slice(g.nodes, func(i, j int) bool { return g.nodes[i].ID < g.nodes[j].ID })
	for i := range g.nodes {
		g.byID[g.nodes[i].ID] = i
	}

	for _, e := range g.edges {
		g.dependents[e.Prerequisite] = append(g.dependents[e.Prerequisite], e.Dependent)
		g.prerequisites[e.Dependent] = append(g.prerequisites[e.Dependent], e.Prerequisite)
	}
	for id := range g.dependents {
		slices.Sort(g.dependents[id])
	}
	for id := range g.prerequisites {
		slices.Sort(g.prerequisites[id])
	}

	for _, n := range g.nodes {
		if len(g.prerequisites[n.ID]) == 0 {
			g.roots = append(g.roots, n.ID)
		}
	}
	return g
}

// ErrNodeNotFound is matched by every *NotFoundError via errors.Is.
var ErrNodeNotFound = errors.New("skill node not found")

// NotFoundError reports a node id that does not resolve.
type NotFoundError struct {
	NodeID NodeID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("skill node not found: %d", e.NodeID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNodeNotFound }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (SkillNode, bool) {
	i, ok := g.byID[id]
	if !ok {
		return SkillNode{}, false
	}
	return g.nodes[i], true
}

// GetNode resolves a node id, returning *NotFoundError when absent.
func (g *Graph) GetNode(_ context.Context, id NodeID) (SkillNode, error) {
	n, ok := g.Node(id)
	if !ok {
		return SkillNode{}, &NotFoundError{NodeID: id}
	}
	return n, nil
}

// GetDependents returns the ids of nodes that directly require id.
func (g *Graph) GetDependents(_ context.Context, id NodeID) ([]NodeID, error) {
	return slices.Clone(g.dependents[id]), nil
}

// GetPrerequisites returns the ids of nodes that id directly requires.
func (g *Graph) GetPrerequisites(_ context.Context, id NodeID) ([]NodeID, error) {
	return slices.Clone(g.prerequisites[id]), nil
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []SkillNode {
	return slices.Clone(g.nodes)
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Roots returns the ids of nodes with no prerequisites.
func (g *Graph) Roots() []NodeID {
	return slices.Clone(g.roots)
}

// IsRoot reports whether id has no prerequisites.
func (g *Graph) IsRoot(id NodeID) bool {
	return len(g.prerequisites[id]) == 0
}

// ByCategory returns the nodes in a category, ordered by id.
func (g *Graph) ByCategory(category string) []SkillNode {
	var result []SkillNode
	for _, n := range g.nodes {
		if n.Category == category {
			result = append(result, n)
		}
	}
	return result
}

// TopologicalOrder returns node ids in a valid topological order using
// Kahn's algorithm, breaking ties by id. Nodes on a cycle are omitted.
func (g *Graph) TopologicalOrder() []NodeID {
	inDegree := make(map[NodeID]int, len(g.nodes))
	for _, n := range g.nodes {
		inDegree[n.ID] = len(g.prerequisites[n.ID])
	}

	var queue []NodeID
	for _, n := range g.nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]NodeID, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, dep := range g.dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	return order
}
