package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

var eventColumns = []string{"id", "user_id", "node_id", "success", "error_kind", "duration_ms", "attempt_number", "practiced_at"}

// EventQuery filters practice event listings.
type EventQuery struct {
	UserID string
	NodeID skillgraph.NodeID // 0 = all nodes
	Since  time.Time         // zero = no lower bound
	Limit  int               // 0 = unlimited
}

// CountPriorEvents returns how many practice events exist for (userID, nodeID).
func (s *Store) CountPriorEvents(ctx context.Context, userID string, nodeID skillgraph.NodeID) (int, error) {
	q, args := builder().Select(entsql.Count("*")).From(entsql.Table(tableEvents)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("node_id", int64(nodeID)),
		)).
		Query()

	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return 0, fmt.Errorf("count events %s/%d: %w", userID, nodeID, err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scan event count: %w", err)
		}
	}
	return n, rows.Err()
}

// AppendPracticeEvent inserts the event and returns its id.
func (s *Store) AppendPracticeEvent(ctx context.Context, ev *mastery.PracticeEvent) (int64, error) {
	var kind entsql.NullString
	if ev.ErrorKind != nil {
		kind = entsql.NullString{String: string(*ev.ErrorKind), Valid: true}
	}
	var dur entsql.NullInt64
	if ev.DurationMs != nil {
		dur = entsql.NullInt64{Int64: int64(*ev.DurationMs), Valid: true}
	}

	q, args := builder().Insert(tableEvents).
		Columns(eventColumns[1:]...).
		Values(ev.UserID, int64(ev.NodeID), ev.Success, kind, dur, ev.AttemptNumber, ev.Timestamp.UTC()).
		Query()

	res, err := exec(ctx, s.drv, q, args)
	if err != nil {
		return 0, fmt.Errorf("append practice event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("practice event id: %w", err)
	}
	ev.ID = id
	return id, nil
}

// ListEvents returns a learner's practice events, newest first.
func (s *Store) ListEvents(ctx context.Context, f EventQuery) ([]mastery.PracticeEvent, error) {
	preds := []*entsql.Predicate{entsql.EQ("user_id", f.UserID)}
	if f.NodeID != 0 {
		preds = append(preds, entsql.EQ("node_id", int64(f.NodeID)))
	}
	if !f.Since.IsZero() {
		preds = append(preds, entsql.GTE("practiced_at", f.Since.UTC()))
	}

	sel := builder().Select(eventColumns...).From(entsql.Table(tableEvents)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("practiced_at"), entsql.Desc("id"))
	if f.Limit > 0 {
		sel = sel.Limit(f.Limit)
	}
	q, args := sel.Query()

	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", f.UserID, err)
	}
	defer rows.Close()

	events := []mastery.PracticeEvent{}
	for rows.Next() {
		var (
			ev     mastery.PracticeEvent
			nodeID int64
			kind   entsql.NullString
			dur    entsql.NullInt64
		)
		if err := rows.Scan(&ev.ID, &ev.UserID, &nodeID, &ev.Success, &kind, &dur, &ev.AttemptNumber, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.NodeID = skillgraph.NodeID(nodeID)
		if kind.Valid {
			k := mastery.ErrorKind(kind.String)
			ev.ErrorKind = &k
		}
		if dur.Valid {
			d := int(dur.Int64)
			ev.DurationMs = &d
		}
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}
