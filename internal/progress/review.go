package progress

import (
	"context"
	"fmt"
	"sort"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

// ReviewItem is one skill due for review.
type ReviewItem struct {
	Node             skillgraph.SkillNode    `json:"node"`
	Record           mastery.UserSkillRecord `json:"record"`
	DaysSinceSuccess int                     `json:"days_since_success"`
}

// ReviewQueue returns the learner's skills that need review: every
// DECAYING record, plus MASTERED records whose last success is more than
// the grace period ago. DECAYING comes first, then the oldest last success.
func (s *Service) ReviewQueue(ctx context.Context, userID string, limit int) ([]ReviewItem, error) {
	g, err := s.src.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	recs, err := s.src.ListUserRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return s.reviewItems(g, recs, limit), nil
}

// PathReviewQueue is ReviewQueue restricted to the nodes of one path.
func (s *Service) PathReviewQueue(ctx context.Context, userID string, pathID skillgraph.PathID, limit int) ([]ReviewItem, error) {
	p, err := s.src.GetPath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	g, err := s.src.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	recs, err := s.src.ListUserRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return s.reviewItems(g, inPath(recs, p), limit), nil
}

func (s *Service) reviewItems(g *skillgraph.Graph, recs []*mastery.UserSkillRecord, limit int) []ReviewItem {
	if limit <= 0 {
		limit = DefaultReviewLimit
	}
	now := s.now()
	cutoff := s.reviewCutoff(now)

	var due []*mastery.UserSkillRecord
	for _, r := range recs {
		if dueForReview(r, cutoff) {
			due = append(due, r)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		ad, bd := a.Status == mastery.StatusDecaying, b.Status == mastery.StatusDecaying
		if ad != bd {
			return ad
		}
		switch {
		case a.LastSuccessfulAt == nil && b.LastSuccessfulAt == nil:
			return a.NodeID < b.NodeID
		case a.LastSuccessfulAt == nil:
			return true
		case b.LastSuccessfulAt == nil:
			return false
		case !a.LastSuccessfulAt.Equal(*b.LastSuccessfulAt):
			return a.LastSuccessfulAt.Before(*b.LastSuccessfulAt)
		default:
			return a.NodeID < b.NodeID
		}
	})

	if len(due) > limit {
		due = due[:limit]
	}

	items := make([]ReviewItem, 0, len(due))
	for _, r := range due {
		node, ok := g.Node(r.NodeID)
		if !ok {
			node = skillgraph.SkillNode{ID: r.NodeID, Name: fmt.Sprintf("Node %d", r.NodeID)}
		}
		items = append(items, ReviewItem{
			Node:             node,
			Record:           *r,
			DaysSinceSuccess: r.DaysSinceSuccess(now),
		})
	}
	return items
}

// inPath keeps the records whose node belongs to p.
func inPath(recs []*mastery.UserSkillRecord, p skillgraph.Path) []*mastery.UserSkillRecord {
	out := make([]*mastery.UserSkillRecord, 0, len(recs))
	for _, r := range recs {
		if p.Contains(r.NodeID) {
			out = append(out, r)
		}
	}
	return out
}
