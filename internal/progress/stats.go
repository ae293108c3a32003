package progress

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
	"github.com/abhisek/masterypath/internal/store"
)

// Stats aggregates a learner's practice log and record statuses.
type Stats struct {
	TotalPractices int     `json:"total_practices"`
	SuccessCount   int     `json:"success_count"`
	FailureCount   int     `json:"failure_count"`
	SuccessRate    float64 `json:"success_rate"`
	TotalTimeMs    int64   `json:"total_time_ms"`
	MasteredCount  int     `json:"mastered_count"`
	AvailableCount int     `json:"available_count"` // AVAILABLE + DECAYING
}

// Stats returns all-time practice statistics for userID.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	events, err := s.src.ListEvents(ctx, store.EventQuery{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	recs, err := s.src.ListUserRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	st := &Stats{TotalPractices: len(events)}
	for _, ev := range events {
		if ev.Success {
			st.SuccessCount++
		}
		if ev.DurationMs != nil {
			st.TotalTimeMs += int64(*ev.DurationMs)
		}
	}
	st.FailureCount = st.TotalPractices - st.SuccessCount
	if st.TotalPractices > 0 {
		st.SuccessRate = float64(st.SuccessCount) / float64(st.TotalPractices)
	}

	for _, r := range recs {
		switch r.Status {
		case mastery.StatusMastered:
			st.MasteredCount++
		case mastery.StatusAvailable, mastery.StatusDecaying:
			st.AvailableCount++
		}
	}
	return st, nil
}

// MaxLeaks caps Summary.TopLeaks.
const MaxLeaks = 10

// Leak is a node the learner keeps failing.
type Leak struct {
	NodeID       skillgraph.NodeID `json:"node_id"`
	Name         string            `json:"name"`
	Failures     int               `json:"failures"`
	MasteryScore float64           `json:"mastery_score"`
}

// Summary is a windowed analysis of mistakes plus current status counts.
type Summary struct {
	RangeDays      int                       `json:"range_days"`
	MistakeCounts  map[mastery.ErrorKind]int `json:"mistake_counts"`
	TopLeaks       []Leak                    `json:"top_leaks"`
	MasteredCount  int                       `json:"mastered_count"`
	DecayingCount  int                       `json:"decaying_count"`
	AvailableCount int                       `json:"available_count"`
}

// Summary counts failures by error kind over the last rangeDays (clamped
// to 1..365), ranks the most-failed nodes, and counts records by status.
// Failures without an error kind are not attributed.
func (s *Service) Summary(ctx context.Context, userID string, rangeDays int) (*Summary, error) {
	rangeDays = min(max(rangeDays, 1), 365)
	since := s.now().Add(-time.Duration(rangeDays) * 24 * time.Hour)

	events, err := s.src.ListEvents(ctx, store.EventQuery{UserID: userID, Since: since})
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	g, err := s.src.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	recs, err := s.recordMap(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	sum := &Summary{
		RangeDays:     rangeDays,
		MistakeCounts: make(map[mastery.ErrorKind]int),
		TopLeaks:      []Leak{},
	}
	for _, k := range mastery.AllErrorKinds() {
		sum.MistakeCounts[k] = 0
	}

	failures := make(map[skillgraph.NodeID]int)
	for _, ev := range events {
		if ev.Success || ev.ErrorKind == nil {
			continue
		}
		sum.MistakeCounts[*ev.ErrorKind]++
		failures[ev.NodeID]++
	}

	for id, n := range failures {
		leak := Leak{NodeID: id, Failures: n, Name: fmt.Sprintf("Node %d", id)}
		if node, ok := g.Node(id); ok {
			leak.Name = node.Name
		}
		if r, ok := recs[id]; ok {
			leak.MasteryScore = r.MasteryScore
		}
		sum.TopLeaks = append(sum.TopLeaks, leak)
	}
	sort.Slice(sum.TopLeaks, func(i, j int) bool {
		a, b := sum.TopLeaks[i], sum.TopLeaks[j]
		if a.Failures != b.Failures {
			return a.Failures > b.Failures
		}
		return a.NodeID < b.NodeID
	})
	if len(sum.TopLeaks) > MaxLeaks {
		sum.TopLeaks = sum.TopLeaks[:MaxLeaks]
	}

	for _, r := range recs {
		switch r.Status {
		case mastery.StatusMastered:
			sum.MasteredCount++
		case mastery.StatusDecaying:
			sum.DecayingCount++
		case mastery.StatusAvailable:
			sum.AvailableCount++
		}
	}
	return sum, nil
}

// PathStats summarizes a learner's standing on one path.
type PathStats struct {
	PathID         skillgraph.PathID `json:"path_id"`
	TotalNodes     int               `json:"total_nodes"`
	MasteredCount  int               `json:"mastered_count"`
	ReviewDueCount int               `json:"review_due_count"`
}

// PathStats counts the path's nodes, how many the learner has MASTERED, and
// how many are due for review by the same rule as ReviewQueue.
func (s *Service) PathStats(ctx context.Context, userID string, pathID skillgraph.PathID) (*PathStats, error) {
	p, err := s.src.GetPath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	recs, err := s.src.ListUserRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	st := &PathStats{PathID: p.ID, TotalNodes: len(p.NodeIDs)}
	cutoff := s.reviewCutoff(s.now())
	for _, r := range inPath(recs, p) {
		if r.Status == mastery.StatusMastered {
			st.MasteredCount++
		}
		if dueForReview(r, cutoff) {
			st.ReviewDueCount++
		}
	}
	return st, nil
}
