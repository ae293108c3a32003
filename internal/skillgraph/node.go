package skillgraph

import (
	"strconv"
)

// NodeID identifies a skill node. Nodes and edges refer to each other only
// through ids, never through pointers.
type NodeID int64

func (id NodeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseNodeID parses a decimal node id.
func ParseNodeID(s string) (NodeID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return NodeID(v), nil
}

// SkillNode is one learnable unit in the prerequisite graph.
type SkillNode struct {
	ID          NodeID `json:"id" yaml:"id"`
	Category    string `json:"category" yaml:"category"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ExternalKey string `json:"external_key,omitempty" yaml:"external_key,omitempty"`
	ExternalURL string `json:"external_url,omitempty" yaml:"external_url,omitempty"`
}

// Edge is a directed prerequisite edge: Dependent requires Prerequisite.
type Edge struct {
	Prerequisite NodeID `json:"prerequisite" yaml:"prerequisite"`
	Dependent    NodeID `json:"dependent" yaml:"dependent"`
}

// Category groups nodes. DecayConstant is carried for display only; the
// decay pass uses a single global rate.
type Category struct {
	Name          string  `json:"name" yaml:"name"`
	DecayConstant float64 `json:"decay_constant,omitempty" yaml:"decay_constant,omitempty"`
}
