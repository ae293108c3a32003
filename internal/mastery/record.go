package mastery

import (
	"time"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

// UserSkillRecord holds a learner's mastery of one skill node.
// The pair (UserID, NodeID) is unique.
type UserSkillRecord struct {
	UserID           string            `json:"user_id"`
	NodeID           skillgraph.NodeID `json:"node_id"`
	MasteryScore     float64           `json:"mastery_score"`
	Status           Status            `json:"status"`
	LastPracticedAt  *time.Time        `json:"last_practiced_at,omitempty"`
	LastSuccessfulAt *time.Time        `json:"last_successful_at,omitempty"`

	// DecayCharged is the decay already subtracted since LastSuccessfulAt.
	// A new success resets it.
	DecayCharged float64 `json:"decay_charged"`
}

// NewRecord returns a fresh AVAILABLE record with a zero score.
func NewRecord(userID string, nodeID skillgraph.NodeID) *UserSkillRecord {
	return &UserSkillRecord{
		UserID:       userID,
		NodeID:       nodeID,
		MasteryScore: 0,
		Status:       StatusAvailable,
	}
}

// IsMastered reports whether the score meets the mastery threshold,
// independent of the stored status.
func (r *UserSkillRecord) IsMastered() bool {
	return r.MasteryScore >= MasteryThreshold
}

// DaysSinceSuccess returns whole days elapsed since the last successful
// practice, or -1 if there has been none.
func (r *UserSkillRecord) DaysSinceSuccess(now time.Time) int {
	if r.LastSuccessfulAt == nil {
		return -1
	}
	return int(now.Sub(*r.LastSuccessfulAt) / (24 * time.Hour))
}

// PracticeEvent is an immutable record of one practice attempt.
type PracticeEvent struct {
	ID            int64             `json:"id"`
	UserID        string            `json:"user_id"`
	NodeID        skillgraph.NodeID `json:"node_id"`
	Success       bool              `json:"success"`
	ErrorKind     *ErrorKind        `json:"error_kind,omitempty"`
	DurationMs    *int              `json:"duration_ms,omitempty"`
	AttemptNumber int               `json:"attempt_number"`
	Timestamp     time.Time         `json:"timestamp"`
}
