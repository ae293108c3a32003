package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

var recordColumns = []string{"user_id", "node_id", "mastery_score", "status", "last_practiced_at", "last_successful_at", "decay_charged"}

// GetUserSkillRecord returns the record for (userID, nodeID), or nil if the
// learner has never touched the node.
func (s *Store) GetUserSkillRecord(ctx context.Context, userID string, nodeID skillgraph.NodeID) (*mastery.UserSkillRecord, error) {
	q, args := builder().Select(recordColumns...).From(entsql.Table(tableRecords)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("node_id", int64(nodeID)),
		)).
		Limit(1).
		Query()

	recs, err := s.queryRecords(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("get record %s/%d: %w", userID, nodeID, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// UpsertUserSkillRecord inserts the record or overwrites the existing row
// for the same (user, node).
func (s *Store) UpsertUserSkillRecord(ctx context.Context, rec *mastery.UserSkillRecord) error {
	q, args := builder().Insert(tableRecords).
		Columns(recordColumns...).
		Values(
			rec.UserID,
			int64(rec.NodeID),
			rec.MasteryScore,
			string(rec.Status),
			nullTime(rec.LastPracticedAt),
			nullTime(rec.LastSuccessfulAt),
			rec.DecayCharged,
		).
		OnConflict(entsql.ConflictColumns("user_id", "node_id"), entsql.ResolveWithNewValues()).
		Query()

	if _, err := exec(ctx, s.drv, q, args); err != nil {
		return fmt.Errorf("upsert record %s/%d: %w", rec.UserID, rec.NodeID, err)
	}
	return nil
}

// ListMasteredWithLastSuccess returns every MASTERED record with a last
// successful practice time, across all users.
func (s *Store) ListMasteredWithLastSuccess(ctx context.Context) ([]*mastery.UserSkillRecord, error) {
	q, args := builder().Select(recordColumns...).From(entsql.Table(tableRecords)).
		Where(entsql.And(
			entsql.EQ("status", string(mastery.StatusMastered)),
			entsql.NotNull("last_successful_at"),
		)).
		OrderBy("user_id", "node_id").
		Query()

	recs, err := s.queryRecords(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("list mastered records: %w", err)
	}
	return recs, nil
}

// ListUserRecords returns all of a learner's records ordered by node id.
func (s *Store) ListUserRecords(ctx context.Context, userID string) ([]*mastery.UserSkillRecord, error) {
	q, args := builder().Select(recordColumns...).From(entsql.Table(tableRecords)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("node_id").
		Query()

	recs, err := s.queryRecords(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("list records for %s: %w", userID, err)
	}
	return recs, nil
}

func (s *Store) queryRecords(ctx context.Context, q string, args []any) ([]*mastery.UserSkillRecord, error) {
	rows, err := query(ctx, s.drv, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*mastery.UserSkillRecord
	for rows.Next() {
		var (
			rec             mastery.UserSkillRecord
			nodeID          int64
			status          string
			practiced, succ entsql.NullTime
		)
		if err := rows.Scan(&rec.UserID, &nodeID, &rec.MasteryScore, &status, &practiced, &succ, &rec.DecayCharged); err != nil {
			return nil, err
		}
		rec.NodeID = skillgraph.NodeID(nodeID)
		rec.Status = mastery.Status(status)
		if !rec.Status.Valid() {
			return nil, fmt.Errorf("record %s/%d: unknown status %q", rec.UserID, nodeID, status)
		}
		rec.LastPracticedAt = timePtr(practiced)
		rec.LastSuccessfulAt = timePtr(succ)
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

func nullTime(t *time.Time) entsql.NullTime {
	if t == nil {
		return entsql.NullTime{}
	}
	return entsql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt entsql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
