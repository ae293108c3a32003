// Package progress derives read-only learner views from the skill graph,
// mastery records and practice log: the skill tree, the review queue,
// practice statistics and the activity heatmap, for the whole graph or
// scoped to one learning path.
package progress

import (
	"context"
	"time"

	"github.com/abhisek/masterypath/internal/decay"
	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
	"github.com/abhisek/masterypath/internal/store"
)

// DefaultReviewLimit caps the review queue when no limit is given.
const DefaultReviewLimit = 20

// DefaultHistoryLimit caps history listings when no limit is given.
const DefaultHistoryLimit = 50

// Source is the storage the views are computed from.
type Source interface {
	LoadGraph(ctx context.Context) (*skillgraph.Graph, error)
	ListUserRecords(ctx context.Context, userID string) ([]*mastery.UserSkillRecord, error)
	ListEvents(ctx context.Context, q store.EventQuery) ([]mastery.PracticeEvent, error)
	GetPath(ctx context.Context, id skillgraph.PathID) (skillgraph.Path, error)
}

// Service computes progress views.
type Service struct {
	src       Source
	graceDays int
	now       func() time.Time
}

// NewService creates a progress service. graceDays is the decay grace
// period used to decide when a mastered skill is due for review.
func NewService(src Source, graceDays int) *Service {
	return &Service{src: src, graceDays: graceDays, now: time.Now}
}

// WithClock returns a copy of s that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}

// History returns a learner's most recent practice events, newest first,
// optionally restricted to one node.
func (s *Service) History(ctx context.Context, userID string, nodeID skillgraph.NodeID, limit int) ([]mastery.PracticeEvent, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.src.ListEvents(ctx, store.EventQuery{UserID: userID, NodeID: nodeID, Limit: limit})
}

func (s *Service) recordMap(ctx context.Context, userID string) (map[skillgraph.NodeID]*mastery.UserSkillRecord, error) {
	recs, err := s.src.ListUserRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := make(map[skillgraph.NodeID]*mastery.UserSkillRecord, len(recs))
	for _, r := range recs {
		m[r.NodeID] = r
	}
	return m, nil
}

// reviewCutoff is the instant before which a MASTERED skill's last success
// makes it due for review.
func (s *Service) reviewCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -s.graceOrDefault())
}

// dueForReview reports whether r belongs in the review queue: DECAYING, or
// MASTERED with a last success strictly before cutoff.
func dueForReview(r *mastery.UserSkillRecord, cutoff time.Time) bool {
	switch r.Status {
	case mastery.StatusDecaying:
		return true
	case mastery.StatusMastered:
		return r.LastSuccessfulAt != nil && r.LastSuccessfulAt.Before(cutoff)
	}
	return false
}

// graceOrDefault treats a negative grace period as unset.
func (s *Service) graceOrDefault() int {
	if s.graceDays < 0 {
		return decay.DefaultGraceDays
	}
	return s.graceDays
}
