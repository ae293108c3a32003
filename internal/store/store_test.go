package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func testSeed() *skillgraph.Seed {
	return &skillgraph.Seed{
		Categories: []skillgraph.Category{{Name: "array", DecayConstant: 0.03}, {Name: "graph", DecayConstant: 0.05}},
		Nodes: []skillgraph.SkillNode{
			{ID: 1, Category: "array", Name: "Two Sum", ExternalKey: "two-sum"},
			{ID: 2, Category: "array", Name: "Three Sum"},
			{ID: 3, Category: "graph", Name: "BFS"},
			{ID: 4, Category: "graph", Name: "Dijkstra", Description: "shortest paths"},
		},
		Edges: []skillgraph.Edge{
			{Prerequisite: 1, Dependent: 2},
			{Prerequisite: 1, Dependent: 4},
			{Prerequisite: 3, Dependent: 4},
		},
	}
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := openTestStore(t)
	require.NoError(t, s.SaveSeed(context.Background(), testSeed()))
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenTwiceMigratesIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveSeed(context.Background(), testSeed()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	nodes, err := s.AllNodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 4)
}

func TestGraphQueries(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	n, err := s.GetNode(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Dijkstra", n.Name)
	assert.Equal(t, "graph", n.Category)
	assert.Equal(t, "shortest paths", n.Description)

	deps, err := s.GetDependents(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []skillgraph.NodeID{2, 4}, deps)

	pre, err := s.GetPrerequisites(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []skillgraph.NodeID{1, 3}, pre)

	none, err := s.GetDependents(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "array", cats[0].Name)
	assert.InDelta(t, 0.05, cats[1].DecayConstant, 1e-9)
}

func TestGetNodeNotFound(t *testing.T) {
	s := seededStore(t)

	_, err := s.GetNode(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mastery.ErrNotFound))

	var nf *skillgraph.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, skillgraph.NodeID(42), nf.NodeID)
}

func TestSaveSeedReplacesEdges(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	seed := testSeed()
	seed.Nodes[1].Name = "3Sum"
	seed.Edges = []skillgraph.Edge{{Prerequisite: 2, Dependent: 3}}
	require.NoError(t, s.SaveSeed(ctx, seed))

	n, err := s.GetNode(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "3Sum", n.Name)

	edges, err := s.AllEdges(ctx)
	require.NoError(t, err)
	assert.Equal(t, []skillgraph.Edge{{Prerequisite: 2, Dependent: 3}}, edges)
}

func TestSaveSeedRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := testSeed()
	seed.Edges = append(seed.Edges, skillgraph.Edge{Prerequisite: 1, Dependent: 99})
	require.Error(t, s.SaveSeed(ctx, seed), "edge to a missing node violates the foreign key")

	nodes, err := s.AllNodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestLoadGraph(t *testing.T) {
	s := seededStore(t)

	g, err := s.LoadGraph(context.Background())
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Len(t, g.Nodes(), 4)
	assert.ElementsMatch(t, []skillgraph.NodeID{1, 3}, g.Roots())
}

func TestRecordRoundTrip(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	got, err := s.GetUserSkillRecord(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Nil(t, got, "absent record returns nil, nil")

	practiced := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	rec := &mastery.UserSkillRecord{
		UserID:          "alice",
		NodeID:          1,
		MasteryScore:    0.45,
		Status:          mastery.StatusAvailable,
		LastPracticedAt: &practiced,
	}
	require.NoError(t, s.UpsertUserSkillRecord(ctx, rec))

	got, err = s.GetUserSkillRecord(ctx, "alice", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.45, got.MasteryScore, 1e-9)
	assert.Equal(t, mastery.StatusAvailable, got.Status)
	require.NotNil(t, got.LastPracticedAt)
	assert.True(t, got.LastPracticedAt.Equal(practiced))
	assert.Nil(t, got.LastSuccessfulAt)

	// Upsert overwrites in place.
	rec.MasteryScore = 0.9
	rec.Status = mastery.StatusMastered
	rec.LastSuccessfulAt = &practiced
	require.NoError(t, s.UpsertUserSkillRecord(ctx, rec))

	recs, err := s.ListUserRecords(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, mastery.StatusMastered, recs[0].Status)
	require.NotNil(t, recs[0].LastSuccessfulAt)
}

func TestRecordDecayChargedRoundTrip(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rec := &mastery.UserSkillRecord{
		UserID: "alice", NodeID: 1, MasteryScore: 0.93,
		Status: mastery.StatusMastered, LastSuccessfulAt: &ts, DecayCharged: 0.02,
	}
	require.NoError(t, s.UpsertUserSkillRecord(ctx, rec))

	got, err := s.GetUserSkillRecord(ctx, "alice", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.02, got.DecayCharged, 1e-9)

	rec.DecayCharged = 0
	require.NoError(t, s.UpsertUserSkillRecord(ctx, rec))
	got, err = s.GetUserSkillRecord(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Zero(t, got.DecayCharged)
}

func TestRecordUnknownStatusRejected(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO user_skill_records (user_id, node_id, mastery_score, status, decay_charged) VALUES ('alice', 1, 0.5, 'BOGUS', 0)`)
	require.NoError(t, err)

	_, err = s.GetUserSkillRecord(ctx, "alice", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestRecordForeignKey(t *testing.T) {
	s := seededStore(t)
	err := s.UpsertUserSkillRecord(context.Background(), mastery.NewRecord("alice", 99))
	assert.Error(t, err)
}

func TestListMasteredWithLastSuccess(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	recs := []*mastery.UserSkillRecord{
		{UserID: "a", NodeID: 1, MasteryScore: 0.9, Status: mastery.StatusMastered, LastSuccessfulAt: &ts},
		{UserID: "a", NodeID: 2, MasteryScore: 0.9, Status: mastery.StatusMastered},
		{UserID: "b", NodeID: 1, MasteryScore: 0.7, Status: mastery.StatusDecaying, LastSuccessfulAt: &ts},
		{UserID: "b", NodeID: 3, MasteryScore: 0.85, Status: mastery.StatusMastered, LastSuccessfulAt: &ts},
	}
	for _, r := range recs {
		require.NoError(t, s.UpsertUserSkillRecord(ctx, r))
	}

	got, err := s.ListMasteredWithLastSuccess(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].UserID)
	assert.Equal(t, skillgraph.NodeID(1), got[0].NodeID)
	assert.Equal(t, "b", got[1].UserID)
	assert.Equal(t, skillgraph.NodeID(3), got[1].NodeID)
}

func TestEvents(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	concept := mastery.ErrorConcept
	dur := 900

	n, err := s.CountPriorEvents(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	evs := []*mastery.PracticeEvent{
		{UserID: "alice", NodeID: 1, Success: true, AttemptNumber: 1, Timestamp: base},
		{UserID: "alice", NodeID: 1, Success: false, ErrorKind: &concept, DurationMs: &dur, AttemptNumber: 2, Timestamp: base.Add(time.Hour)},
		{UserID: "alice", NodeID: 2, Success: true, AttemptNumber: 1, Timestamp: base.Add(2 * time.Hour)},
		{UserID: "bob", NodeID: 1, Success: true, AttemptNumber: 1, Timestamp: base},
	}
	var lastID int64
	for _, ev := range evs {
		id, err := s.AppendPracticeEvent(ctx, ev)
		require.NoError(t, err)
		assert.Greater(t, id, lastID, "ids increase")
		assert.Equal(t, id, ev.ID)
		lastID = id
	}

	n, err = s.CountPriorEvents(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := s.ListEvents(ctx, EventQuery{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, skillgraph.NodeID(2), all[0].NodeID, "newest first")
	assert.True(t, all[2].Timestamp.Equal(base))

	second := all[1]
	assert.False(t, second.Success)
	require.NotNil(t, second.ErrorKind)
	assert.Equal(t, mastery.ErrorConcept, *second.ErrorKind)
	require.NotNil(t, second.DurationMs)
	assert.Equal(t, 900, *second.DurationMs)
	assert.Nil(t, all[0].ErrorKind)
	assert.Nil(t, all[0].DurationMs)

	byNode, err := s.ListEvents(ctx, EventQuery{UserID: "alice", NodeID: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, byNode, 1)
	assert.Equal(t, 2, byNode[0].AttemptNumber)

	since, err := s.ListEvents(ctx, EventQuery{UserID: "alice", Since: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, since, 2)

	none, err := s.ListEvents(ctx, EventQuery{UserID: "carol"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "m.db")
		t.Setenv(EnvDBPath, want)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Dir(want))
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv(EnvDBPath, "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "masterypath", "masterypath.db"), got)
	})
}
