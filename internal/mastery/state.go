package mastery

import (
	"fmt"
	"strings"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

// Status represents a skill's position in the unlock/mastery lifecycle.
type Status string

const (
	StatusLocked    Status = "LOCKED"
	StatusAvailable Status = "AVAILABLE"
	StatusDecaying  Status = "DECAYING"
	StatusMastered  Status = "MASTERED"
)

// MasteryThreshold is the score at or above which a skill counts as mastered,
// both for its own status and for unlocking dependents.
const MasteryThreshold = 0.8

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusLocked, StatusAvailable, StatusDecaying, StatusMastered:
		return true
	}
	return false
}

// NextStatus returns the status after a practice event moved the score to
// newScore. Rules are evaluated in priority order.
func NextStatus(prev Status, newScore float64) Status {
	switch {
	case newScore >= MasteryThreshold:
		return StatusMastered
	case prev == StatusMastered:
		return StatusDecaying
	case prev == StatusLocked:
		return StatusAvailable
	default:
		return prev
	}
}

// Transition records a status change for logging and display.
type Transition struct {
	UserID  string
	NodeID  skillgraph.NodeID
	From    Status
	To      Status
	Trigger string // "practice", "unlock", "time-decay"
}

func (t Transition) String() string {
	return fmt.Sprintf("%s/%d: %s -> %s (%s)", t.UserID, t.NodeID, t.From, t.To, t.Trigger)
}

// ErrorKind classifies a failed practice attempt.
type ErrorKind string

const (
	ErrorExecution ErrorKind = "EXECUTION"
	ErrorForgot    ErrorKind = "FORGOT"
	ErrorConcept   ErrorKind = "CONCEPT"
)

// AllErrorKinds returns the closed set of error kinds.
func AllErrorKinds() []ErrorKind {
	return []ErrorKind{ErrorExecution, ErrorForgot, ErrorConcept}
}

// ParseErrorKind accepts an error kind name in any case.
func ParseErrorKind(s string) (ErrorKind, error) {
	k := ErrorKind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllErrorKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown error kind %q (want EXECUTION, FORGOT or CONCEPT)", s)
}
