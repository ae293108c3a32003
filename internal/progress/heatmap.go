package progress

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/masterypath/internal/store"
)

const dateLayout = "2006-01-02"

// Heatmap is a GitHub-style activity calendar.
type Heatmap struct {
	Contributions  map[string]int `json:"contributions"` // YYYY-MM-DD -> practice count, last year only
	TotalPractices int            `json:"total_practices"`
	CurrentStreak  int            `json:"current_streak"`
	LongestStreak  int            `json:"longest_streak"`
}

// Heatmap returns per-day practice counts for the past year and the
// learner's streaks. Days are UTC calendar days. The current streak counts
// back from today, or from yesterday if nothing was practiced today yet.
func (s *Service) Heatmap(ctx context.Context, userID string) (*Heatmap, error) {
	events, err := s.src.ListEvents(ctx, store.EventQuery{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	today := day(s.now())
	yearAgo := today.AddDate(-1, 0, 0)

	hm := &Heatmap{
		Contributions:  make(map[string]int),
		TotalPractices: len(events),
	}
	days := make(map[time.Time]bool)
	for _, ev := range events {
		d := day(ev.Timestamp)
		days[d] = true
		if !d.Before(yearAgo) {
			hm.Contributions[d.Format(dateLayout)]++
		}
	}

	hm.CurrentStreak = currentStreak(days, today)
	hm.LongestStreak = longestStreak(days)
	return hm, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func currentStreak(days map[time.Time]bool, today time.Time) int {
	cur := today
	if !days[cur] {
		cur = cur.AddDate(0, 0, -1)
	}
	n := 0
	for days[cur] {
		n++
		cur = cur.AddDate(0, 0, -1)
	}
	return n
}

func longestStreak(days map[time.Time]bool) int {
	if len(days) == 0 {
		return 0
	}
	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Equal(sorted[i-1].AddDate(0, 0, 1)) {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}
