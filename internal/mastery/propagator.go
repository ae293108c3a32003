package mastery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

// Propagator unlocks the direct dependents of a node once all of their
// prerequisites are mastered.
//
// Propagation is single-hop: only direct children of the node passed in are
// examined, and nothing recurses. A grandchild unlocks only after its own
// parent is practiced to mastery and propagation runs from that parent.
// This bounds the work per event and makes prerequisite cycles harmless to
// the engine, although nodes on a cycle can never be unlocked.
type Propagator struct {
	graph   Graph
	records RecordRepo
	locks   *RecordLocks
	logger  *slog.Logger
}

// NewPropagator creates a standalone propagator.
func NewPropagator(graph Graph, records RecordRepo, opts ...Option) *Propagator {
	return newPropagator(graph, records, buildOptions(opts))
}

func newPropagator(graph Graph, records RecordRepo, o options) *Propagator {
	return &Propagator{
		graph:   graph,
		records: records,
		locks:   o.locks,
		logger:  o.logger,
	}
}

// Propagate examines every direct dependent of completed and unlocks those
// whose prerequisites are all mastered by userID. It returns the ids that
// were created as AVAILABLE or moved LOCKED -> AVAILABLE by this call;
// repeated calls without score changes return an empty slice.
func (p *Propagator) Propagate(ctx context.Context, userID string, completed skillgraph.NodeID) ([]skillgraph.NodeID, error) {
	dependents, err := p.graph.GetDependents(ctx, completed)
	if err != nil {
		return nil, fmt.Errorf("get dependents of %d: %w", completed, err)
	}

	unlocked := []skillgraph.NodeID{}
	for _, dep := range dependents {
		ready, err := p.prerequisitesMastered(ctx, userID, dep)
		if err != nil {
			return nil, err
		}
		if !ready {
			continue
		}

		changed, err := p.unlock(ctx, userID, dep)
		if err != nil {
			return nil, err
		}
		if changed {
			unlocked = append(unlocked, dep)
		}
	}
	return unlocked, nil
}

// prerequisitesMastered reports whether every prerequisite of nodeID has a
// record for userID at or above the mastery threshold. The score is checked,
// not the status.
func (p *Propagator) prerequisitesMastered(ctx context.Context, userID string, nodeID skillgraph.NodeID) (bool, error) {
	prereqs, err := p.graph.GetPrerequisites(ctx, nodeID)
	if err != nil {
		return false, fmt.Errorf("get prerequisites of %d: %w", nodeID, err)
	}
	for _, pre := range prereqs {
		rec, err := p.records.GetUserSkillRecord(ctx, userID, pre)
		if err != nil {
			return false, fmt.Errorf("load record %d: %w", pre, err)
		}
		if rec == nil || !rec.IsMastered() {
			return false, nil
		}
	}
	return true, nil
}

// unlock creates or transitions the dependent's record under its lock.
func (p *Propagator) unlock(ctx context.Context, userID string, nodeID skillgraph.NodeID) (bool, error) {
	if _, err := p.graph.GetNode(ctx, nodeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get node %d: %w", nodeID, err)
	}

	release := p.locks.Lock(userID, nodeID)
	defer release()

	rec, err := p.records.GetUserSkillRecord(ctx, userID, nodeID)
	if err != nil {
		return false, fmt.Errorf("load record %d: %w", nodeID, err)
	}

	from := StatusLocked
	switch {
	case rec == nil:
		rec = NewRecord(userID, nodeID)
	case rec.Status == StatusLocked:
		rec.Status = StatusAvailable
	default:
		return false, nil
	}

	if err := p.records.UpsertUserSkillRecord(ctx, rec); err != nil {
		return false, fmt.Errorf("save record %d: %w", nodeID, err)
	}

	p.logger.Info("skill unlocked",
		"user_id", userID,
		"node_id", int64(nodeID),
		"from", from,
		"to", StatusAvailable)
	return true, nil
}
