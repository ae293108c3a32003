package decay

import (
	"time"

	"github.com/abhisek/masterypath/internal/mastery"
)

// DefaultGraceDays is the number of whole days after the last success
// during which no decay is applied.
const DefaultGraceDays = 7

// DefaultRatePerDay is the score lost per day beyond the grace period.
const DefaultRatePerDay = 0.02

// DefaultInterval is how often the background loop runs a pass.
const DefaultInterval = 24 * time.Hour

// DefaultWorkers bounds how many records a pass updates concurrently.
const DefaultWorkers = 4

// chargeEpsilon absorbs float noise when comparing charged amounts.
const chargeEpsilon = 1e-9

// Policy holds the decay parameters.
type Policy struct {
	GraceDays  int
	RatePerDay float64
}

// DefaultPolicy returns the standard 7-day grace, 0.02/day policy.
func DefaultPolicy() Policy {
	return Policy{GraceDays: DefaultGraceDays, RatePerDay: DefaultRatePerDay}
}

// Amount returns the score to subtract for a record whose last success
// was daysSinceSuccess whole days ago. Zero inside the grace period.
func (p Policy) Amount(daysSinceSuccess int) float64 {
	if daysSinceSuccess <= p.GraceDays {
		return 0
	}
	return float64(daysSinceSuccess-p.GraceDays) * p.RatePerDay
}

// Apply computes the decayed score and status for rec at now. Only the part
// of Amount not yet charged since the last success is subtracted, so
// repeated passes at the same elapsed time leave the record unchanged.
// The second return value is false when there is nothing to charge: the
// record is not MASTERED, has no last success, is inside the grace period,
// or was already charged for this many days.
func (p Policy) Apply(rec mastery.UserSkillRecord, now time.Time) (mastery.UserSkillRecord, bool) {
	if rec.Status != mastery.StatusMastered || rec.LastSuccessfulAt == nil {
		return rec, false
	}
	amount := p.Amount(rec.DaysSinceSuccess(now))
	owed := amount - rec.DecayCharged
	if owed <= chargeEpsilon {
		return rec, false
	}

	rec.MasteryScore = max(0, rec.MasteryScore-owed)
	rec.DecayCharged = amount
	if rec.MasteryScore < mastery.MasteryThreshold {
		rec.Status = mastery.StatusDecaying
	}
	return rec, true
}
