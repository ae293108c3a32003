package mastery

import (
	"context"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

// Graph is the read-only view of skill nodes and prerequisite edges.
type Graph interface {
	// GetNode returns the node or an error matching ErrNotFound.
	GetNode(ctx context.Context, id skillgraph.NodeID) (skillgraph.SkillNode, error)

	// GetDependents returns nodes that directly require id.
	GetDependents(ctx context.Context, id skillgraph.NodeID) ([]skillgraph.NodeID, error)

	// GetPrerequisites returns nodes that id directly requires.
	GetPrerequisites(ctx context.Context, id skillgraph.NodeID) ([]skillgraph.NodeID, error)
}

// RecordRepo stores per-user-per-node mastery records.
type RecordRepo interface {
	// GetUserSkillRecord returns the record, or nil with no error if absent.
	GetUserSkillRecord(ctx context.Context, userID string, nodeID skillgraph.NodeID) (*UserSkillRecord, error)

	// UpsertUserSkillRecord inserts or replaces the record for its key.
	UpsertUserSkillRecord(ctx context.Context, rec *UserSkillRecord) error

	// ListMasteredWithLastSuccess returns every MASTERED record that has a
	// last successful practice time.
	ListMasteredWithLastSuccess(ctx context.Context) ([]*UserSkillRecord, error)
}

// EventRepo is the append-only practice event log.
type EventRepo interface {
	// CountPriorEvents returns how many events exist for (userID, nodeID).
	CountPriorEvents(ctx context.Context, userID string, nodeID skillgraph.NodeID) (int, error)

	// AppendPracticeEvent stores the event and returns its id.
	AppendPracticeEvent(ctx context.Context, ev *PracticeEvent) (int64, error)
}
