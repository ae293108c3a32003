package decay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

// ErrPassInProgress is returned by RunPass when another pass is running.
var ErrPassInProgress = errors.New("decay pass already in progress")

// Report summarizes one decay pass.
type Report struct {
	RunID     uuid.UUID     `json:"run_id"`
	Selected  int           `json:"selected"`
	Decayed   int           `json:"decayed"`
	Demoted   int           `json:"demoted"`
	Failed    int           `json:"failed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// Config configures a Scheduler. Zero fields take their defaults.
type Config struct {
	Policy   Policy
	Workers  int
	Interval time.Duration
	Locks    *mastery.RecordLocks
	Now      func() time.Time
	Logger   *slog.Logger
}

// Scheduler runs decay passes over mastered records, on demand or on a
// ticker.
type Scheduler struct {
	records  mastery.RecordRepo
	policy   Policy
	workers  int
	interval time.Duration
	locks    *mastery.RecordLocks
	now      func() time.Time
	logger   *slog.Logger

	running sync.Mutex

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewScheduler creates a scheduler over records.
func NewScheduler(records mastery.RecordRepo, cfg Config) *Scheduler {
	s := &Scheduler{
		records:  records,
		policy:   cfg.Policy,
		workers:  cfg.Workers,
		interval: cfg.Interval,
		locks:    cfg.Locks,
		now:      cfg.Now,
		logger:   cfg.Logger,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	if s.policy == (Policy{}) {
		s.policy = DefaultPolicy()
	}
	if s.workers <= 0 {
		s.workers = DefaultWorkers
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.locks == nil {
		s.locks = mastery.NewRecordLocks()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// RunPass decays every MASTERED record whose last success is older than
// the grace period. A record that fails to update is logged and counted
// in Report.Failed; the rest of the pass continues. Only an error listing
// candidates aborts the pass.
func (s *Scheduler) RunPass(ctx context.Context) (Report, error) {
	if !s.running.TryLock() {
		return Report{}, ErrPassInProgress
	}
	defer s.running.Unlock()

	report := Report{RunID: uuid.New(), StartedAt: s.now()}
	log := s.logger.With("run_id", report.RunID.String())

	candidates, err := s.records.ListMasteredWithLastSuccess(ctx)
	if err != nil {
		return report, fmt.Errorf("list mastered records: %w", err)
	}
	report.Selected = len(candidates)

	var decayed, demoted, failed atomic.Int64
	now := report.StartedAt

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, c := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			changed, demote, err := s.decayRecord(gctx, c.UserID, c.NodeID, now)
			switch {
			case err != nil:
				failed.Add(1)
				log.Warn("decay record failed",
					"user_id", c.UserID,
					"node_id", int64(c.NodeID),
					"error", err)
			case changed:
				decayed.Add(1)
				if demote {
					demoted.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Decayed = int(decayed.Load())
	report.Demoted = int(demoted.Load())
	report.Failed = int(failed.Load())
	report.Duration = time.Since(report.StartedAt)

	log.Info("decay pass complete",
		"selected", report.Selected,
		"decayed", report.Decayed,
		"demoted", report.Demoted,
		"failed", report.Failed,
		"duration", report.Duration)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// decayRecord re-reads the record under its lock so a concurrent practice
// event is never overwritten with a stale score.
func (s *Scheduler) decayRecord(ctx context.Context, userID string, nodeID skillgraph.NodeID, now time.Time) (changed, demoted bool, err error) {
	unlock := s.locks.Lock(userID, nodeID)
	defer unlock()

	rec, err := s.records.GetUserSkillRecord(ctx, userID, nodeID)
	if err != nil {
		return false, false, fmt.Errorf("load record: %w", err)
	}
	if rec == nil {
		return false, false, nil
	}

	next, ok := s.policy.Apply(*rec, now)
	if !ok {
		return false, false, nil
	}
	if err := s.records.UpsertUserSkillRecord(ctx, &next); err != nil {
		return false, false, fmt.Errorf("save record: %w", err)
	}

	if next.Status != rec.Status {
		s.logger.Info("mastery status changed",
			"user_id", userID,
			"node_id", int64(nodeID),
			"from", rec.Status,
			"to", next.Status,
			"score", next.MasteryScore,
			"trigger", "decay")
		return true, true, nil
	}
	return true, false, nil
}

// Start runs one pass immediately and then one per interval until ctx is
// cancelled or Stop is called. It returns without blocking.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.done)

		s.runLogged(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runLogged(ctx)
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop ends the background loop started by Start and waits for it to exit.
// Calling Stop without Start is a no-op.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) runLogged(ctx context.Context) {
	if _, err := s.RunPass(ctx); err != nil {
		if errors.Is(err, ErrPassInProgress) {
			s.logger.Debug("decay tick skipped: pass in progress")
			return
		}
		s.logger.Error("decay pass failed", "error", err)
	}
}
