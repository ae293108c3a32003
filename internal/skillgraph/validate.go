package skillgraph

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks the graph for structural issues: duplicate ids, edges
// that reference missing nodes, self-loops and cycles. The engine itself
// tolerates cycles, but a cycle leaves every node on it permanently locked,
// so content is rejected at import time.
func (g *Graph) Validate() error {
	return validate(g.nodes, g.edges)
}

// validate performs all structural checks on the given node and edge sets.
// Returns a combined error describing all problems found, or nil if valid.
func validate(nodes []SkillNode, edges []Edge) error {
	var errs []string

	idSet := make(map[NodeID]bool, len(nodes))
	for _, n := range nodes {
		if idSet[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node ID: %d", n.ID))
		}
		idSet[n.ID] = true
		if strings.TrimSpace(n.Name) == "" {
			errs = append(errs, fmt.Sprintf("node %d has an empty name", n.ID))
		}
	}

	type pair struct{ from, to NodeID }
	seen := make(map[pair]bool, len(edges))
	for _, e := range edges {
		if !idSet[e.Prerequisite] {
			errs = append(errs, fmt.Sprintf("edge %d -> %d references nonexistent prerequisite %d", e.Prerequisite, e.Dependent, e.Prerequisite))
		}
		if !idSet[e.Dependent] {
			errs = append(errs, fmt.Sprintf("edge %d -> %d references nonexistent dependent %d", e.Prerequisite, e.Dependent, e.Dependent))
		}
		if e.Prerequisite == e.Dependent {
			errs = append(errs, fmt.Sprintf("node %d lists itself as a prerequisite", e.Dependent))
		}
		p := pair{e.Prerequisite, e.Dependent}
		if seen[p] {
			errs = append(errs, fmt.Sprintf("duplicate edge %d -> %d", e.Prerequisite, e.Dependent))
		}
		seen[p] = true
	}

	valid := make([]Edge, 0, len(seen))
	for p := range seen {
		if idSet[p.from] && idSet[p.to] {
			valid = append(valid, Edge{Prerequisite: p.from, Dependent: p.to})
		}
	}
	order := New(nodes, valid).TopologicalOrder()
	sorted := make(map[NodeID]bool, len(order))
	for _, id := range order {
		sorted[id] = true
	}

	if len(sorted) < len(idSet) {
		var cycleNodes []NodeID
		for id := range idSet {
			if !sorted[id] {
				cycleNodes = append(cycleNodes, id)
			}
		}
		slices.Sort(cycleNodes)
		ids := make([]string, len(cycleNodes))
		for i, id := range cycleNodes {
			ids[i] = id.String()
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving nodes: %s", strings.Join(ids, ", ")))
	}

	if len(nodes) > 0 && len(order) == 0 {
		errs = append(errs, "no root nodes found (at least one node must have no prerequisites)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// validatePaths checks that path names are unique and that every path and
// problem refers to known nodes.
func validatePaths(nodes []SkillNode, paths []Path, problems []Problem) error {
	known := make(map[NodeID]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	var errs []string
	names := make(map[string]bool, len(paths))
	for _, p := range paths {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			errs = append(errs, "path has an empty name")
		} else if names[name] {
			errs = append(errs, fmt.Sprintf("duplicate path name: %q", name))
		}
		names[name] = true

		inPath := make(map[NodeID]bool, len(p.NodeIDs))
		for _, id := range p.NodeIDs {
			if !known[id] {
				errs = append(errs, fmt.Sprintf("path %q references nonexistent node %d", name, id))
			}
			if inPath[id] {
				errs = append(errs, fmt.Sprintf("path %q lists node %d twice", name, id))
			}
			inPath[id] = true
		}
	}

	for _, pr := range problems {
		if !known[pr.NodeID] {
			errs = append(errs, fmt.Sprintf("problem %q references nonexistent node %d", pr.Text, pr.NodeID))
		}
		if strings.TrimSpace(pr.Text) == "" {
			errs = append(errs, fmt.Sprintf("problem for node %d has empty text", pr.NodeID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("path validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
