package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

// TreeNode is a skill node with the learner's standing on it.
type TreeNode struct {
	ID               skillgraph.NodeID `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	Description      string            `json:"description,omitempty"`
	ExternalURL      string            `json:"external_url,omitempty"`
	Status           mastery.Status    `json:"status"`
	MasteryScore     float64           `json:"mastery_score"`
	LastPracticedAt  *time.Time        `json:"last_practiced_at,omitempty"`
	LastSuccessfulAt *time.Time        `json:"last_successful_at,omitempty"`
}

// Tree is the skill graph, or one path's part of it, annotated for one
// learner.
type Tree struct {
	UserID string            `json:"user_id"`
	Path   *skillgraph.Path  `json:"path,omitempty"`
	Nodes  []TreeNode        `json:"nodes"`
	Edges  []skillgraph.Edge `json:"edges"`
}

// Tree returns every node with the learner's status. A node without a
// record is LOCKED, except entry nodes (no prerequisites), which are shown
// as AVAILABLE. Nothing is written.
func (s *Service) Tree(ctx context.Context, userID string) (*Tree, error) {
	g, err := s.src.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	recs, err := s.recordMap(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	return buildTree(g, recs, userID, g.Nodes(), g.Edges()), nil
}

// PathTree returns the nodes of one path in path order with the learner's
// status, and the edges between them. Entry nodes are judged on the full
// graph, so a path node whose prerequisite lies outside the path still
// shows LOCKED until that prerequisite is mastered.
func (s *Service) PathTree(ctx context.Context, userID string, pathID skillgraph.PathID) (*Tree, error) {
	p, err := s.src.GetPath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	g, err := s.src.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	recs, err := s.recordMap(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	nodes, edges := g.Subgraph(p.NodeIDs)
	t := buildTree(g, recs, userID, nodes, edges)
	t.Path = &p
	return t, nil
}

func buildTree(g *skillgraph.Graph, recs map[skillgraph.NodeID]*mastery.UserSkillRecord, userID string, nodes []skillgraph.SkillNode, edges []skillgraph.Edge) *Tree {
	out := &Tree{
		UserID: userID,
		Nodes:  make([]TreeNode, 0, len(nodes)),
		Edges:  edges,
	}
	if out.Edges == nil {
		out.Edges = []skillgraph.Edge{}
	}
	for _, n := range nodes {
		tn := TreeNode{
			ID:          n.ID,
			Name:        n.Name,
			Category:    n.Category,
			Description: n.Description,
			ExternalURL: n.ExternalURL,
			Status:      mastery.StatusLocked,
		}
		if rec, ok := recs[n.ID]; ok {
			tn.Status = rec.Status
			tn.MasteryScore = rec.MasteryScore
			tn.LastPracticedAt = rec.LastPracticedAt
			tn.LastSuccessfulAt = rec.LastSuccessfulAt
		} else if g.IsRoot(n.ID) {
			tn.Status = mastery.StatusAvailable
		}
		out.Nodes = append(out.Nodes, tn)
	}
	return out
}

// Counts tallies tree nodes by status.
func (t *Tree) Counts() map[mastery.Status]int {
	c := make(map[mastery.Status]int, 4)
	for _, n := range t.Nodes {
		c[n.Status]++
	}
	return c
}
