package mastery

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

const epsilon = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// memRepo implements RecordRepo and EventRepo in memory for testing.
type memRepo struct {
	mu      sync.Mutex
	records map[recordKey]UserSkillRecord
	events  []PracticeEvent

	getErr    error
	upsertErr error
	countErr  error
	appendErr error
	upserts   int
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[recordKey]UserSkillRecord)}
}

func (m *memRepo) GetUserSkillRecord(_ context.Context, userID string, nodeID skillgraph.NodeID) (*UserSkillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.records[recordKey{userID, nodeID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memRepo) UpsertUserSkillRecord(_ context.Context, rec *UserSkillRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	m.records[recordKey{rec.UserID, rec.NodeID}] = *rec
	return nil
}

func (m *memRepo) ListMasteredWithLastSuccess(_ context.Context) ([]*UserSkillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*UserSkillRecord
	for _, rec := range m.records {
		if rec.Status == StatusMastered && rec.LastSuccessfulAt != nil {
			r := rec
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m *memRepo) CountPriorEvents(_ context.Context, userID string, nodeID skillgraph.NodeID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	n := 0
	for _, ev := range m.events {
		if ev.UserID == userID && ev.NodeID == nodeID {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) AppendPracticeEvent(_ context.Context, ev *PracticeEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	ev.ID = int64(len(m.events) + 1)
	m.events = append(m.events, *ev)
	return ev.ID, nil
}

func (m *memRepo) record(userID string, nodeID skillgraph.NodeID) (UserSkillRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey{userID, nodeID}]
	return rec, ok
}

func (m *memRepo) put(rec UserSkillRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey{rec.UserID, rec.NodeID}] = rec
}

// chainGraph: A(1) -> B(2) -> C(3); D(4) requires both A and E(5).
func chainGraph() *skillgraph.Graph {
	return skillgraph.New(
		[]skillgraph.SkillNode{
			{ID: 1, Category: "array", Name: "A"},
			{ID: 2, Category: "array", Name: "B"},
			{ID: 3, Category: "array", Name: "C"},
			{ID: 4, Category: "stack", Name: "D"},
			{ID: 5, Category: "stack", Name: "E"},
		},
		[]skillgraph.Edge{
			{Prerequisite: 1, Dependent: 2},
			{Prerequisite: 2, Dependent: 3},
			{Prerequisite: 1, Dependent: 4},
			{Prerequisite: 5, Dependent: 4},
		},
	)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func kind(k ErrorKind) *ErrorKind {
	return &k
}
