package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

// DefaultPathName names a path created without a name.
const DefaultPathName = "My Path"

var problemColumns = []string{"id", "node_id", "problem_text", "solution_text", "difficulty"}

// CreatePath stores a new path. A blank name becomes DefaultPathName and a
// name already in use gets a " (2)", " (3)", ... suffix. nodeIDs are kept in
// order with repeats dropped; an unknown id fails with
// *skillgraph.NotFoundError and nothing is written.
func (s *Store) CreatePath(ctx context.Context, name, description string, nodeIDs []skillgraph.NodeID) (_ skillgraph.Path, err error) {
	base := strings.TrimSpace(name)
	if base == "" {
		base = DefaultPathName
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return skillgraph.Path{}, fmt.Errorf("begin path tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p := skillgraph.Path{Name: base, Description: strings.TrimSpace(description), NodeIDs: []skillgraph.NodeID{}}
	seen := make(map[skillgraph.NodeID]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		var ok bool
		if ok, err = exists(ctx, tx, tableNodes, entsql.EQ("id", int64(id))); err != nil {
			return skillgraph.Path{}, fmt.Errorf("check node %d: %w", id, err)
		}
		if !ok {
			err = &skillgraph.NotFoundError{NodeID: id}
			return skillgraph.Path{}, err
		}
		p.NodeIDs = append(p.NodeIDs, id)
	}

	for suffix := 2; ; suffix++ {
		var taken bool
		if taken, err = exists(ctx, tx, tablePaths, entsql.EQ("name", p.Name)); err != nil {
			return skillgraph.Path{}, fmt.Errorf("check path name: %w", err)
		}
		if !taken {
			break
		}
		p.Name = fmt.Sprintf("%s (%d)", base, suffix)
	}

	q, args := builder().Insert(tablePaths).
		Columns("name", "description").
		Values(p.Name, p.Description).
		Query()
	res, err := exec(ctx, tx, q, args)
	if err != nil {
		return skillgraph.Path{}, fmt.Errorf("insert path %q: %w", p.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return skillgraph.Path{}, fmt.Errorf("path id: %w", err)
	}
	p.ID = skillgraph.PathID(id)

	if err = insertPathNodes(ctx, tx, p.ID, p.NodeIDs); err != nil {
		return skillgraph.Path{}, err
	}
	if err = tx.Commit(); err != nil {
		return skillgraph.Path{}, fmt.Errorf("commit path: %w", err)
	}
	return p, nil
}

// savePath upserts a seeded path by name and replaces its node list.
func savePath(ctx context.Context, tx dialect.Tx, p skillgraph.Path) error {
	name := strings.TrimSpace(p.Name)
	q, args := builder().Insert(tablePaths).
		Columns("name", "description").
		Values(name, strings.TrimSpace(p.Description)).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) { u.SetExcluded("description") }),
		).
		Query()
	if _, err := exec(ctx, tx, q, args); err != nil {
		return fmt.Errorf("save path %q: %w", name, err)
	}

	q, args = builder().Select("id").From(entsql.Table(tablePaths)).
		Where(entsql.EQ("name", name)).
		Query()
	rows, err := query(ctx, tx, q, args)
	if err != nil {
		return fmt.Errorf("resolve path %q: %w", name, err)
	}
	var id int64
	if rows.Next() {
		err = rows.Scan(&id)
	}
	rows.Close()
	if err != nil {
		return fmt.Errorf("scan path id: %w", err)
	}

	q, args = builder().Delete(tablePathNodes).Where(entsql.EQ("path_id", id)).Query()
	if _, err := exec(ctx, tx, q, args); err != nil {
		return fmt.Errorf("clear path %q nodes: %w", name, err)
	}
	return insertPathNodes(ctx, tx, skillgraph.PathID(id), p.NodeIDs)
}

func insertPathNodes(ctx context.Context, ex dialect.ExecQuerier, pathID skillgraph.PathID, nodeIDs []skillgraph.NodeID) error {
	for i, nodeID := range nodeIDs {
		q, args := builder().Insert(tablePathNodes).
			Columns("path_id", "node_id", "sequence_order").
			Values(int64(pathID), int64(nodeID), i+1).
			Query()
		if _, err := exec(ctx, ex, q, args); err != nil {
			return fmt.Errorf("add node %d to path %d: %w", nodeID, pathID, err)
		}
	}
	return nil
}

// saveProblem upserts a seeded problem keyed by node and text.
func saveProblem(ctx context.Context, tx dialect.Tx, pr skillgraph.Problem) error {
	difficulty := pr.Difficulty
	if difficulty == 0 {
		difficulty = skillgraph.MinDifficulty
	}
	q, args := builder().Insert(tableProblems).
		Columns(problemColumns[1:]...).
		Values(int64(pr.NodeID), pr.Text, pr.Solution, difficulty).
		OnConflict(entsql.ConflictColumns("node_id", "problem_text"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := exec(ctx, tx, q, args); err != nil {
		return fmt.Errorf("save problem for node %d: %w", pr.NodeID, err)
	}
	return nil
}

// ListPaths returns every path ordered by id, each with its nodes in
// sequence order.
func (s *Store) ListPaths(ctx context.Context) ([]skillgraph.Path, error) {
	q, args := builder().Select("id", "name", "description").From(entsql.Table(tablePaths)).
		OrderBy("id").
		Query()
	paths, err := s.queryPaths(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	return paths, nil
}

// GetPath returns the path or a *skillgraph.PathNotFoundError.
func (s *Store) GetPath(ctx context.Context, id skillgraph.PathID) (skillgraph.Path, error) {
	q, args := builder().Select("id", "name", "description").From(entsql.Table(tablePaths)).
		Where(entsql.EQ("id", int64(id))).
		Limit(1).
		Query()
	paths, err := s.queryPaths(ctx, q, args)
	if err != nil {
		return skillgraph.Path{}, fmt.Errorf("get path %d: %w", id, err)
	}
	if len(paths) == 0 {
		return skillgraph.Path{}, &skillgraph.PathNotFoundError{PathID: id}
	}
	return paths[0], nil
}

func (s *Store) queryPaths(ctx context.Context, q string, args []any) ([]skillgraph.Path, error) {
	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, err
	}
	paths := []skillgraph.Path{}
	for rows.Next() {
		var (
			p  skillgraph.Path
			id int64
		)
		if err := rows.Scan(&id, &p.Name, &p.Description); err != nil {
			rows.Close()
			return nil, err
		}
		p.ID = skillgraph.PathID(id)
		paths = append(paths, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// The single connection is free again, so node lists can be read.
	for i := range paths {
		ids, err := s.pathNodeIDs(ctx, paths[i].ID)
		if err != nil {
			return nil, err
		}
		paths[i].NodeIDs = ids
	}
	return paths, nil
}

func (s *Store) pathNodeIDs(ctx context.Context, id skillgraph.PathID) ([]skillgraph.NodeID, error) {
	q, args := builder().Select("node_id").From(entsql.Table(tablePathNodes)).
		Where(entsql.EQ("path_id", int64(id))).
		OrderBy("sequence_order").
		Query()

	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("path %d nodes: %w", id, err)
	}
	defer rows.Close()

	ids := []skillgraph.NodeID{}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan path node: %w", err)
		}
		ids = append(ids, skillgraph.NodeID(v))
	}
	return ids, rows.Err()
}

// ListProblems returns the problems attached to a node, easiest first.
func (s *Store) ListProblems(ctx context.Context, nodeID skillgraph.NodeID) ([]skillgraph.Problem, error) {
	q, args := builder().Select(problemColumns...).From(entsql.Table(tableProblems)).
		Where(entsql.EQ("node_id", int64(nodeID))).
		OrderBy("difficulty", "id").
		Query()

	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("list problems for %d: %w", nodeID, err)
	}
	defer rows.Close()

	problems := []skillgraph.Problem{}
	for rows.Next() {
		var (
			p      skillgraph.Problem
			nodeID int64
		)
		if err := rows.Scan(&p.ID, &nodeID, &p.Text, &p.Solution, &p.Difficulty); err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		p.NodeID = skillgraph.NodeID(nodeID)
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

// exists reports whether table has a row matching pred.
func exists(ctx context.Context, ex dialect.ExecQuerier, table string, pred *entsql.Predicate) (bool, error) {
	q, args := builder().Select(entsql.Count("*")).From(entsql.Table(table)).
		Where(pred).
		Query()
	rows, err := query(ctx, ex, q, args)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return false, err
		}
	}
	return n > 0, rows.Err()
}
