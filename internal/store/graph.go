package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

var nodeColumns = []string{"id", "category", "name", "description", "external_key", "external_url"}

// SaveSeed imports a skill graph in one transaction. Categories and nodes
// are upserted by key; the edge set is replaced. Paths are upserted by name
// with their node lists replaced, and problems by node and text. Nodes are
// never deleted because records and events reference them.
func (s *Store) SaveSeed(ctx context.Context, seed *skillgraph.Seed) (err error) {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, c := range seed.Categories {
		q, args := builder().Insert(tableCategories).
			Columns("name", "decay_constant").
			Values(c.Name, c.DecayConstant).
			OnConflict(entsql.ConflictColumns("name"), entsql.ResolveWithNewValues()).
			Query()
		if _, err = exec(ctx, tx, q, args); err != nil {
			return fmt.Errorf("save category %q: %w", c.Name, err)
		}
	}

	for _, n := range seed.Nodes {
		q, args := builder().Insert(tableNodes).
			Columns(nodeColumns...).
			Values(int64(n.ID), n.Category, n.Name, n.Description, n.ExternalKey, n.ExternalURL).
			OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
			Query()
		if _, err = exec(ctx, tx, q, args); err != nil {
			return fmt.Errorf("save node %d: %w", n.ID, err)
		}
	}

	q, args := builder().Delete(tableEdges).Query()
	if _, err = exec(ctx, tx, q, args); err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}
	for _, e := range seed.Edges {
		q, args := builder().Insert(tableEdges).
			Columns("prerequisite_id", "dependent_id").
			Values(int64(e.Prerequisite), int64(e.Dependent)).
			OnConflict(entsql.ConflictColumns("prerequisite_id", "dependent_id"), entsql.DoNothing()).
			Query()
		if _, err = exec(ctx, tx, q, args); err != nil {
			return fmt.Errorf("save edge %d -> %d: %w", e.Prerequisite, e.Dependent, err)
		}
	}

	for _, p := range seed.Paths {
		if err = savePath(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, pr := range seed.Problems {
		if err = saveProblem(ctx, tx, pr); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// GetNode returns the node or a *skillgraph.NotFoundError.
func (s *Store) GetNode(ctx context.Context, id skillgraph.NodeID) (skillgraph.SkillNode, error) {
	t := entsql.Table(tableNodes)
	q, args := builder().Select(nodeColumns...).From(t).
		Where(entsql.EQ("id", int64(id))).
		Limit(1).
		Query()

	nodes, err := s.queryNodes(ctx, q, args)
	if err != nil {
		return skillgraph.SkillNode{}, fmt.Errorf("get node %d: %w", id, err)
	}
	if len(nodes) == 0 {
		return skillgraph.SkillNode{}, &skillgraph.NotFoundError{NodeID: id}
	}
	return nodes[0], nil
}

// AllNodes returns every node ordered by id.
func (s *Store) AllNodes(ctx context.Context) ([]skillgraph.SkillNode, error) {
	q, args := builder().Select(nodeColumns...).From(entsql.Table(tableNodes)).
		OrderBy("id").
		Query()
	nodes, err := s.queryNodes(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	return nodes, nil
}

func (s *Store) queryNodes(ctx context.Context, q string, args []any) ([]skillgraph.SkillNode, error) {
	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []skillgraph.SkillNode
	for rows.Next() {
		var (
			n  skillgraph.SkillNode
			id int64
		)
		if err := rows.Scan(&id, &n.Category, &n.Name, &n.Description, &n.ExternalKey, &n.ExternalURL); err != nil {
			return nil, err
		}
		n.ID = skillgraph.NodeID(id)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// GetDependents returns the ids of nodes that directly require id.
func (s *Store) GetDependents(ctx context.Context, id skillgraph.NodeID) ([]skillgraph.NodeID, error) {
	return s.edgeEnds(ctx, "dependent_id", "prerequisite_id", id)
}

// GetPrerequisites returns the ids of nodes that id directly requires.
func (s *Store) GetPrerequisites(ctx context.Context, id skillgraph.NodeID) ([]skillgraph.NodeID, error) {
	return s.edgeEnds(ctx, "prerequisite_id", "dependent_id", id)
}

func (s *Store) edgeEnds(ctx context.Context, want, match string, id skillgraph.NodeID) ([]skillgraph.NodeID, error) {
	q, args := builder().Select(want).From(entsql.Table(tableEdges)).
		Where(entsql.EQ(match, int64(id))).
		OrderBy(want).
		Query()

	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("query %s of %d: %w", want, id, err)
	}
	defer rows.Close()

	ids := []skillgraph.NodeID{}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", want, err)
		}
		ids = append(ids, skillgraph.NodeID(v))
	}
	return ids, rows.Err()
}

// AllEdges returns every prerequisite edge.
func (s *Store) AllEdges(ctx context.Context) ([]skillgraph.Edge, error) {
	q, args := builder().Select("prerequisite_id", "dependent_id").From(entsql.Table(tableEdges)).
		OrderBy("prerequisite_id", "dependent_id").
		Query()

	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	defer rows.Close()

	var edges []skillgraph.Edge
	for rows.Next() {
		var pre, dep int64
		if err := rows.Scan(&pre, &dep); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, skillgraph.Edge{Prerequisite: skillgraph.NodeID(pre), Dependent: skillgraph.NodeID(dep)})
	}
	return edges, rows.Err()
}

// Categories returns every category ordered by name.
func (s *Store) Categories(ctx context.Context) ([]skillgraph.Category, error) {
	q, args := builder().Select("name", "decay_constant").From(entsql.Table(tableCategories)).
		OrderBy("name").
		Query()

	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := []skillgraph.Category{}
	for rows.Next() {
		var c skillgraph.Category
		if err := rows.Scan(&c.Name, &c.DecayConstant); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// LoadGraph reads the whole graph into memory.
func (s *Store) LoadGraph(ctx context.Context) (*skillgraph.Graph, error) {
	nodes, err := s.AllNodes(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.AllEdges(ctx)
	if err != nil {
		return nil, err
	}
	return skillgraph.New(nodes, edges), nil
}
