package mastery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

func newTestPropagator(g Graph, repo *memRepo) *Propagator {
	return NewPropagator(g, repo, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func mastered(user string, node skillgraph.NodeID) UserSkillRecord {
	return UserSkillRecord{UserID: user, NodeID: node, MasteryScore: 0.9, Status: StatusMastered}
}

func TestPropagate_SingleHop(t *testing.T) {
	repo := newMemRepo()
	repo.put(mastered("u", 1))
	repo.put(mastered("u", 2))
	p := newTestPropagator(chainGraph(), repo)

	got, err := p.Propagate(context.Background(), "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	// B is already MASTERED, so nothing changes, and C is never looked at.
	if len(got) != 0 {
		t.Errorf("unlocked = %v, want none", got)
	}
	if _, ok := repo.record("u", 3); ok {
		t.Error("grandchild C must not be unlocked by propagation from A")
	}
}

func TestPropagate_CreatesAvailableRecord(t *testing.T) {
	repo := newMemRepo()
	repo.put(mastered("u", 1))
	p := newTestPropagator(chainGraph(), repo)

	got, err := p.Propagate(context.Background(), "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []skillgraph.NodeID{2}) {
		t.Fatalf("unlocked = %v, want [2]", got)
	}
	b, _ := repo.record("u", 2)
	if b.Status != StatusAvailable || b.MasteryScore != 0 {
		t.Errorf("B = %+v, want AVAILABLE score 0", b)
	}
	if b.LastPracticedAt != nil || b.LastSuccessfulAt != nil {
		t.Error("unlocked record should have no timestamps")
	}
}

func TestPropagate_Idempotent(t *testing.T) {
	repo := newMemRepo()
	repo.put(mastered("u", 1))
	p := newTestPropagator(chainGraph(), repo)
	ctx := context.Background()

	if _, err := p.Propagate(ctx, "u", 1); err != nil {
		t.Fatal(err)
	}
	upserts := repo.upserts

	got, err := p.Propagate(ctx, "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("second call = %#v, want empty non-nil slice", got)
	}
	if repo.upserts != upserts {
		t.Errorf("second call wrote %d records", repo.upserts-upserts)
	}
}

func TestPropagate_MultiplePrerequisites(t *testing.T) {
	repo := newMemRepo()
	repo.put(mastered("u", 1))
	p := newTestPropagator(chainGraph(), repo)
	ctx := context.Background()

	got, err := p.Propagate(ctx, "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(got, 4) {
		t.Fatal("D must stay locked while E is unmastered")
	}

	// E practiced but below threshold still blocks D.
	repo.put(UserSkillRecord{UserID: "u", NodeID: 5, MasteryScore: 0.79, Status: StatusAvailable})
	got, err = p.Propagate(ctx, "u", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("unlocked = %v, want none", got)
	}

	repo.put(mastered("u", 5))
	got, err = p.Propagate(ctx, "u", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []skillgraph.NodeID{4}) {
		t.Errorf("unlocked = %v, want [4]", got)
	}
}

func TestPropagate_ChecksScoreNotStatus(t *testing.T) {
	repo := newMemRepo()
	// DECAYING but with a score still at the threshold counts as mastered.
	repo.put(UserSkillRecord{UserID: "u", NodeID: 1, MasteryScore: 0.8, Status: StatusDecaying})
	p := newTestPropagator(chainGraph(), repo)

	got, err := p.Propagate(context.Background(), "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []skillgraph.NodeID{2}) {
		t.Errorf("unlocked = %v, want [2]", got)
	}
}

func TestPropagate_LockedBecomesAvailable(t *testing.T) {
	repo := newMemRepo()
	repo.put(mastered("u", 1))
	repo.put(UserSkillRecord{UserID: "u", NodeID: 2, MasteryScore: 0.3, Status: StatusLocked})
	p := newTestPropagator(chainGraph(), repo)

	got, err := p.Propagate(context.Background(), "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []skillgraph.NodeID{2}) {
		t.Fatalf("unlocked = %v, want [2]", got)
	}
	b, _ := repo.record("u", 2)
	if b.Status != StatusAvailable {
		t.Errorf("status = %s, want AVAILABLE", b.Status)
	}
	if b.MasteryScore != 0.3 {
		t.Errorf("score = %f, want 0.3 preserved", b.MasteryScore)
	}
}

func TestPropagate_ExistingRecordsUntouched(t *testing.T) {
	for _, st := range []Status{StatusAvailable, StatusDecaying, StatusMastered} {
		t.Run(string(st), func(t *testing.T) {
			repo := newMemRepo()
			repo.put(mastered("u", 1))
			repo.put(UserSkillRecord{UserID: "u", NodeID: 2, MasteryScore: 0.4, Status: st})
			p := newTestPropagator(chainGraph(), repo)
			upserts := repo.upserts

			got, err := p.Propagate(context.Background(), "u", 1)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 0 {
				t.Errorf("unlocked = %v, want none", got)
			}
			if repo.upserts != upserts {
				t.Error("record should not be rewritten")
			}
		})
	}
}

func TestPropagate_OtherUsersIsolated(t *testing.T) {
	repo := newMemRepo()
	repo.put(mastered("alice", 1))
	p := newTestPropagator(chainGraph(), repo)

	got, err := p.Propagate(context.Background(), "bob", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("bob unlocked %v from alice's mastery", got)
	}
}

func TestPropagate_CycleIsHarmless(t *testing.T) {
	g := skillgraph.New(
		[]skillgraph.SkillNode{{ID: 1, Name: "X"}, {ID: 2, Name: "Y"}},
		[]skillgraph.Edge{{Prerequisite: 1, Dependent: 2}, {Prerequisite: 2, Dependent: 1}},
	)
	repo := newMemRepo()
	repo.put(mastered("u", 1))
	p := newTestPropagator(g, repo)

	got, err := p.Propagate(context.Background(), "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []skillgraph.NodeID{2}) {
		t.Errorf("unlocked = %v, want [2]", got)
	}
}

func TestPropagate_SelfLoopDoesNotDeadlock(t *testing.T) {
	g := skillgraph.New(
		[]skillgraph.SkillNode{{ID: 1, Name: "X"}},
		[]skillgraph.Edge{{Prerequisite: 1, Dependent: 1}},
	)
	repo := newMemRepo()
	tr := NewTracker(g, repo, repo, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	res, err := tr.RecordOutcome(context.Background(), success("u", 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.UnlockedNodeIDs) != 0 {
		t.Errorf("unlocked = %v, want none", res.UnlockedNodeIDs)
	}
}

// stubGraph lets tests control dependents and prerequisites directly.
type stubGraph struct {
	nodes   map[skillgraph.NodeID]bool
	deps    map[skillgraph.NodeID][]skillgraph.NodeID
	prereqs map[skillgraph.NodeID][]skillgraph.NodeID
	err     error
}

func (s *stubGraph) GetNode(_ context.Context, id skillgraph.NodeID) (skillgraph.SkillNode, error) {
	if !s.nodes[id] {
		return skillgraph.SkillNode{}, &skillgraph.NotFoundError{NodeID: id}
	}
	return skillgraph.SkillNode{ID: id}, nil
}

func (s *stubGraph) GetDependents(_ context.Context, id skillgraph.NodeID) ([]skillgraph.NodeID, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.deps[id], nil
}

func (s *stubGraph) GetPrerequisites(_ context.Context, id skillgraph.NodeID) ([]skillgraph.NodeID, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.prereqs[id], nil
}

func TestPropagate_EmptyPrerequisitesUnlocks(t *testing.T) {
	// Inconsistent store: 2 is listed as a dependent of 1 but reports no
	// prerequisites. The vacuous check passes.
	g := &stubGraph{
		nodes: map[skillgraph.NodeID]bool{1: true, 2: true},
		deps:  map[skillgraph.NodeID][]skillgraph.NodeID{1: {2}},
	}
	repo := newMemRepo()
	p := newTestPropagator(g, repo)

	got, err := p.Propagate(context.Background(), "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []skillgraph.NodeID{2}) {
		t.Errorf("unlocked = %v, want [2]", got)
	}
}

func TestPropagate_MissingDependentSkipped(t *testing.T) {
	g := &stubGraph{
		nodes: map[skillgraph.NodeID]bool{1: true},
		deps:  map[skillgraph.NodeID][]skillgraph.NodeID{1: {7}},
	}
	repo := newMemRepo()
	p := newTestPropagator(g, repo)

	got, err := p.Propagate(context.Background(), "u", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("unlocked = %v, want none", got)
	}
}

func TestPropagate_GraphError(t *testing.T) {
	boom := errors.New("graph unavailable")
	g := &stubGraph{err: boom}
	p := newTestPropagator(g, newMemRepo())

	if _, err := p.Propagate(context.Background(), "u", 1); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestPropagate_UpsertError(t *testing.T) {
	repo := newMemRepo()
	repo.put(mastered("u", 1))
	repo.upsertErr = errors.New("read only")
	p := newTestPropagator(chainGraph(), repo)

	if _, err := p.Propagate(context.Background(), "u", 1); !errors.Is(err, repo.upsertErr) {
		t.Errorf("error = %v, want wrapped upsert error", err)
	}
}
