package skillgraph

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// PathID identifies a learning path.
type PathID int64

func (id PathID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParsePathID parses a decimal path id.
func ParsePathID(s string) (PathID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return PathID(v), nil
}

// Path is a named, ordered selection of nodes such as an interview track or
// a contest syllabus. A path scopes views only; unlocking always follows
// the full prerequisite graph.
type Path struct {
	ID          PathID   `json:"id" yaml:"-"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	NodeIDs     []NodeID `json:"node_ids" yaml:"nodes"`
}

// Contains reports whether id is one of the path's nodes.
func (p Path) Contains(id NodeID) bool {
	return slices.Contains(p.NodeIDs, id)
}

// Problem is a practice item attached to a node. Difficulty runs from 1
// (easiest) to 5.
type Problem struct {
	ID         int64  `json:"id" yaml:"-"`
	NodeID     NodeID `json:"node_id" yaml:"node"`
	Text       string `json:"text" yaml:"text"`
	Solution   string `json:"solution,omitempty" yaml:"solution,omitempty"`
	Difficulty int    `json:"difficulty" yaml:"difficulty,omitempty"`
}

// Difficulty bounds for problems. Zero in a seed means MinDifficulty.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// ErrPathNotFound is matched by every *PathNotFoundError via errors.Is.
var ErrPathNotFound = errors.New("path not found")

// PathNotFoundError reports a path id that does not resolve.
type PathNotFoundError struct {
	PathID PathID
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path not found: %d", e.PathID)
}

func (e *PathNotFoundError) Is(target error) bool { return target == ErrPathNotFound }

// Subgraph returns the nodes of ids in the given order, skipping unknown
// ids, and the edges whose two ends are both among them.
func (g *Graph) Subgraph(ids []NodeID) ([]SkillNode, []Edge) {
	in := make(map[NodeID]bool, len(ids))
	nodes := make([]SkillNode, 0, len(ids))
	for _, id := range ids {
		n, ok := g.Node(id)
		if !ok || in[id] {
			continue
		}
		in[id] = true
		nodes = append(nodes, n)
	}

	edges := []Edge{}
	for _, e := range g.edges {
		if in[e.Prerequisite] && in[e.Dependent] {
			edges = append(edges, e)
		}
	}
	return nodes, edges
}
