package group_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/domain/prefs"
	"github.com/playfriends/playfriends/internal/infra/memstore"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDirectory serves member lookups from a static map.
type fakeDirectory struct {
	play map[string]prefs.PlayVector
}

func (d *fakeDirectory) MemberExists(_ context.Context, userID string) (bool, error) {
	_, ok := d.play[userID]
	return ok, nil
}

func (d *fakeDirectory) MemberPreferences(_ context.Context, userID string) (prefs.FoodPreferences, prefs.PlayVector, error) {
	return prefs.DefaultFoodPreferences(), d.play[userID], nil
}

// fakeSnapshotCache records cache traffic for assertions.
type fakeSnapshotCache struct {
	entries     map[string]group.Group
	hits        int
	invalidated []string
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{entries: make(map[string]group.Group)}
}

func (c *fakeSnapshotCache) GetSnapshot(_ context.Context, groupID string) (group.Group, bool, error) {
	g, ok := c.entries[groupID]
	if ok {
		c.hits++
	}
	return g, ok, nil
}

func (c *fakeSnapshotCache) SetSnapshot(_ context.Context, g group.Group) error {
	c.entries[g.ID] = g
	return nil
}

func (c *fakeSnapshotCache) InvalidateSnapshot(_ context.Context, groupID string) error {
	delete(c.entries, groupID)
	c.invalidated = append(c.invalidated, groupID)
	return nil
}

func newTestService() (group.Service, *fakeDirectory, *memstore.GroupRepository) {
	dir := &fakeDirectory{play: map[string]prefs.PlayVector{
		"owner": {Crowd: 1.0},
		"alice": {Crowd: 0.0},
		"bob":   {Crowd: -0.5},
	}}
	repo := memstore.NewGroupRepository()
	return group.NewService(repo, dir, nil, newTestLogger()), dir, repo
}

func createGroup(t *testing.T, svc group.Service, owner string) group.Group {
	t.Helper()
	end := time.Now().Add(3 * time.Hour)
	g, err := svc.Create(context.Background(), owner, group.CreateRequest{
		Name:      "friday night",
		StartTime: time.Now().Add(time.Hour),
		EndTime:   &end,
	})
	require.NoError(t, err)
	return g
}

func TestCreate(t *testing.T) {
	svc, _, _ := newTestService()

	g := createGroup(t, svc, "owner")
	require.NotEmpty(t, g.ID)
	require.Equal(t, "owner", g.OwnerID)
	require.Equal(t, []string{"owner"}, g.MemberIDs)
	require.True(t, g.IsActive)
	// A single-member group's vector is the owner's own.
	require.InDelta(t, 1.0, g.PlayPreferences.Crowd, 1e-12)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner", group.CreateRequest{Name: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = svc.Create(ctx, "owner", group.CreateRequest{Name: "x", StartTime: start, EndTime: &end})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestJoin_RecomputesVector(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	require.NoError(t, svc.Join(ctx, g.ID, "alice"))

	got, err := svc.Get(ctx, g.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"owner", "alice"}, got.MemberIDs)
	// mean of 1.0 and 0.0
	require.InDelta(t, 0.5, got.PlayPreferences.Crowd, 1e-12)
}

func TestJoin_Errors(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	err := svc.Join(ctx, g.ID, "owner")
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	err = svc.Join(ctx, g.ID, "nobody")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	err = svc.Join(ctx, "missing-group", "alice")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestLeave(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")
	require.NoError(t, svc.Join(ctx, g.ID, "alice"))

	require.NoError(t, svc.Leave(ctx, g.ID, "alice"))

	got, err := svc.Get(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"owner"}, got.MemberIDs)
	require.InDelta(t, 1.0, got.PlayPreferences.Crowd, 1e-12)
}

func TestLeave_OwnerCannotLeave(t *testing.T) {
	svc, _, _ := newTestService()
	g := createGroup(t, svc, "owner")

	err := svc.Leave(context.Background(), g.ID, "owner")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestLeave_NonMember(t *testing.T) {
	svc, _, _ := newTestService()
	g := createGroup(t, svc, "owner")

	err := svc.Leave(context.Background(), g.ID, "alice")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestUpdate_OwnerOnly(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	name := "saturday instead"
	_, err := svc.Update(ctx, "alice", g.ID, group.UpdateRequest{Name: &name})
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	updated, err := svc.Update(ctx, "owner", g.ID, group.UpdateRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "saturday instead", updated.Name)
}

func TestUpdate_WindowValidation(t *testing.T) {
	svc, _, _ := newTestService()
	g := createGroup(t, svc, "owner")

	badEnd := g.StartTime.Add(-time.Minute)
	_, err := svc.Update(context.Background(), "owner", g.ID, group.UpdateRequest{EndTime: &badEnd})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestDelete_OwnerOnly(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	err := svc.Delete(ctx, "alice", g.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	require.NoError(t, svc.Delete(ctx, "owner", g.ID))
	_, err = svc.Get(ctx, g.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSnapshot_RecomputesWhenStale(t *testing.T) {
	svc, dir, repo := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")
	require.NoError(t, svc.Join(ctx, g.ID, "alice"))

	// A preference change elsewhere flips the staleness marker.
	dir.play["alice"] = prefs.PlayVector{Crowd: -1.0}
	stored, _, err := repo.Get(ctx, g.ID)
	require.NoError(t, err)
	stored.PrefsStale = true
	require.NoError(t, repo.Update(ctx, stored))

	snap, err := svc.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	require.False(t, snap.PrefsStale)
	require.InDelta(t, 0.0, snap.PlayPreferences.Crowd, 1e-12)

	// The refreshed vector is persisted, not just returned.
	stored, _, err = repo.Get(ctx, g.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.0, stored.PlayPreferences.Crowd, 1e-12)
}

func TestSnapshot_FreshGroupIsReturnedAsIs(t *testing.T) {
	svc, dir, _ := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	// Directory changes alone do not trigger recomputation.
	dir.play["owner"] = prefs.PlayVector{Crowd: -1.0}
	snap, err := svc.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	require.InDelta(t, 1.0, snap.PlayPreferences.Crowd, 1e-12)
}

func TestMarkStaleForMember_DefersRecompute(t *testing.T) {
	svc, dir, repo := newTestService()
	ctx := context.Background()
	g1 := createGroup(t, svc, "owner")
	g2 := createGroup(t, svc, "owner")

	dir.play["owner"] = prefs.PlayVector{Crowd: 0.25}
	require.NoError(t, svc.MarkStaleForMember(ctx, "owner"))

	// The fan-out flags the stored records without touching the vectors.
	for _, id := range []string{g1.ID, g2.ID} {
		stored, _, err := repo.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, stored.PrefsStale)
		require.InDelta(t, 1.0, stored.PlayPreferences.Crowd, 1e-12)
	}

	// The next read rebuilds the vector and persists it.
	got, err := svc.Get(ctx, g1.ID)
	require.NoError(t, err)
	require.False(t, got.PrefsStale)
	require.InDelta(t, 0.25, got.PlayPreferences.Crowd, 1e-12)

	stored, _, err := repo.Get(ctx, g1.ID)
	require.NoError(t, err)
	require.False(t, stored.PrefsStale)
	require.InDelta(t, 0.25, stored.PlayPreferences.Crowd, 1e-12)
}

func TestMarkStaleForMember_InvalidatesSnapshots(t *testing.T) {
	dir := &fakeDirectory{play: map[string]prefs.PlayVector{"owner": {Crowd: 1.0}}}
	repo := memstore.NewGroupRepository()
	cache := newFakeSnapshotCache()
	svc := group.NewService(repo, dir, cache, newTestLogger())
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	_, err := svc.Snapshot(ctx, g.ID)
	require.NoError(t, err)

	dir.play["owner"] = prefs.PlayVector{Crowd: -1.0}
	require.NoError(t, svc.MarkStaleForMember(ctx, "owner"))
	require.Contains(t, cache.invalidated, g.ID)

	snap, err := svc.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	require.InDelta(t, -1.0, snap.PlayPreferences.Crowd, 1e-12)
}

func TestConfirmSchedule_WriteOnce(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	activities := []group.ScheduledActivity{{
		ActivityID: "a1", Name: "Hero Cafe", CategoryName: "board games",
		StartTime: g.StartTime, EndTime: g.StartTime.Add(time.Hour),
	}}

	saved, err := svc.ConfirmSchedule(ctx, "owner", g.ID, activities)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Equal(t, g.ID, saved.GroupID)

	_, err = svc.ConfirmSchedule(ctx, "owner", g.ID, activities)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	got, err := svc.ConfirmedSchedule(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, saved.ID, got.ID)
}

func TestConfirmSchedule_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	_, err := svc.ConfirmSchedule(ctx, "stranger", g.ID, nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = svc.ConfirmSchedule(ctx, "owner", g.ID, nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.ConfirmSchedule(ctx, "owner", g.ID, []group.ScheduledActivity{{
		ActivityID: "a1", StartTime: g.StartTime, EndTime: g.StartTime,
	}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestConfirmedSchedule_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	g := createGroup(t, svc, "owner")

	_, err := svc.ConfirmedSchedule(context.Background(), g.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSnapshot_CacheRoundTrip(t *testing.T) {
	dir := &fakeDirectory{play: map[string]prefs.PlayVector{"owner": {Crowd: 1.0}}}
	repo := memstore.NewGroupRepository()
	cache := newFakeSnapshotCache()
	svc := group.NewService(repo, dir, cache, newTestLogger())
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	first, err := svc.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	require.Zero(t, cache.hits)

	second, err := svc.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, 1, cache.hits)
	require.Equal(t, first, second)
}

func TestSnapshot_MutationInvalidatesCache(t *testing.T) {
	dir := &fakeDirectory{play: map[string]prefs.PlayVector{
		"owner": {Crowd: 1.0},
		"alice": {Crowd: 0.0},
	}}
	repo := memstore.NewGroupRepository()
	cache := newFakeSnapshotCache()
	svc := group.NewService(repo, dir, cache, newTestLogger())
	ctx := context.Background()
	g := createGroup(t, svc, "owner")

	_, err := svc.Snapshot(ctx, g.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, g.ID, "alice"))
	require.Contains(t, cache.invalidated, g.ID)

	snap, err := svc.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.5, snap.PlayPreferences.Crowd, 1e-12)
}

func TestDeactivateExpired(t *testing.T) {
	svc, _, repo := newTestService()
	ctx := context.Background()

	past := time.Now().Add(-2 * time.Hour)
	pastEnd := past.Add(time.Hour)
	expired, err := repo.Create(ctx, group.Group{
		Name: "last week", OwnerID: "owner", MemberIDs: []string{"owner"},
		StartTime: past, EndTime: &pastEnd, IsActive: true,
	})
	require.NoError(t, err)
	active := createGroup(t, svc, "owner")

	count, err := svc.DeactivateExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	got, _, err := repo.Get(ctx, expired.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	still, err := svc.Get(ctx, active.ID)
	require.NoError(t, err)
	require.True(t, still.IsActive)
}
