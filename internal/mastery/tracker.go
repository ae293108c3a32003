package mastery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

// Outcome is a single practice result submitted by a learner.
type Outcome struct {
	UserID     string
	NodeID     skillgraph.NodeID
	Success    bool
	ErrorKind  *ErrorKind // only meaningful when Success is false
	DurationMs *int
}

// Result is returned by RecordOutcome.
type Result struct {
	EventID         int64               `json:"event_id"`
	Record          UserSkillRecord     `json:"record"`
	Transition      *Transition         `json:"-"`
	UnlockedNodeIDs []skillgraph.NodeID `json:"unlocked_node_ids"`
}

// Tracker converts practice outcomes into mastery updates.
type Tracker struct {
	graph      Graph
	records    RecordRepo
	events     EventRepo
	propagator *Propagator
	locks      *RecordLocks
	now        func() time.Time
	logger     *slog.Logger
}

// NewTracker creates a tracker and the propagator it drives. Both share
// the same record locks, clock and logger.
func NewTracker(graph Graph, records RecordRepo, events EventRepo, opts ...Option) *Tracker {
	o := buildOptions(opts)
	return &Tracker{
		graph:      graph,
		records:    records,
		events:     events,
		propagator: newPropagator(graph, records, o),
		locks:      o.locks,
		now:        o.now,
		logger:     o.logger,
	}
}

// RecordOutcome appends a practice event, applies the score delta and
// status transition to the learner's record, then unlocks any direct
// dependents whose prerequisites are now all mastered.
//
// An unknown node returns an error matching ErrNotFound and writes nothing.
// Storage errors are returned as-is (wrapped) and never retried.
func (t *Tracker) RecordOutcome(ctx context.Context, in Outcome) (*Result, error) {
	if _, err := t.graph.GetNode(ctx, in.NodeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get node %d: %w", in.NodeID, err)
	}

	rec, eventID, transition, err := t.apply(ctx, in)
	if err != nil {
		return nil, err
	}

	if transition != nil {
		t.logger.Info("mastery status changed",
			"user_id", transition.UserID,
			"node_id", int64(transition.NodeID),
			"from", transition.From,
			"to", transition.To,
			"score", rec.MasteryScore)
	}

	unlocked, err := t.propagator.Propagate(ctx, in.UserID, in.NodeID)
	if err != nil {
		return nil, fmt.Errorf("propagate unlocks from %d: %w", in.NodeID, err)
	}

	return &Result{
		EventID:         eventID,
		Record:          *rec,
		Transition:      transition,
		UnlockedNodeIDs: unlocked,
	}, nil
}

// apply performs the locked read-modify-write on the practiced record.
func (t *Tracker) apply(ctx context.Context, in Outcome) (*UserSkillRecord, int64, *Transition, error) {
	unlock := t.locks.Lock(in.UserID, in.NodeID)
	defer unlock()

	rec, err := t.records.GetUserSkillRecord(ctx, in.UserID, in.NodeID)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("load record: %w", err)
	}
	if rec == nil {
		rec = NewRecord(in.UserID, in.NodeID)
	}

	prior, err := t.events.CountPriorEvents(ctx, in.UserID, in.NodeID)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("count prior events: %w", err)
	}

	now := t.now()
	ev := &PracticeEvent{
		UserID:        in.UserID,
		NodeID:        in.NodeID,
		Success:       in.Success,
		DurationMs:    in.DurationMs,
		AttemptNumber: prior + 1,
		Timestamp:     now,
	}
	if !in.Success {
		ev.ErrorKind = in.ErrorKind
	}
	eventID, err := t.events.AppendPracticeEvent(ctx, ev)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("append practice event: %w", err)
	}

	prev := rec.Status
	rec.MasteryScore = Clamp(rec.MasteryScore + Delta(in.Success, ev.ErrorKind))
	rec.LastPracticedAt = &now
	if in.Success {
		succeededAt := now
		rec.LastSuccessfulAt = &succeededAt
		rec.DecayCharged = 0
	}
	rec.Status = NextStatus(prev, rec.MasteryScore)

	if err := t.records.UpsertUserSkillRecord(ctx, rec); err != nil {
		return nil, 0, nil, fmt.Errorf("save record: %w", err)
	}

	var transition *Transition
	if rec.Status != prev {
		transition = &Transition{
			UserID:  in.UserID,
			NodeID:  in.NodeID,
			From:    prev,
			To:      rec.Status,
			Trigger: "practice",
		}
	}
	return rec, eventID, transition, nil
}
