package prefcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/domain/planner"
)

func TestMemoryStore_TopCategories(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.IncrementCategory(ctx, "board games"))
	}
	require.NoError(t, store.IncrementCategory(ctx, "karaoke"))
	require.NoError(t, store.IncrementCategory(ctx, "hiking"))

	top, err := store.TopCategories(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []planner.TrendingCategory{
		{Name: "board games", Count: 3},
		{Name: "hiking", Count: 1}, // count tie resolves by name
	}, top)
}

func TestMemoryStore_Empty(t *testing.T) {
	store := NewMemoryStore()

	top, err := store.TopCategories(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestMemoryStore_SnapshotRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.GetSnapshot(ctx, "g1")
	require.NoError(t, err)
	require.False(t, ok)

	g := group.Group{ID: "g1", Name: "friday night", MemberIDs: []string{"u1"}}
	require.NoError(t, store.SetSnapshot(ctx, g))

	got, ok, err := store.GetSnapshot(ctx, "g1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, g, got)

	require.NoError(t, store.InvalidateSnapshot(ctx, "g1"))
	_, ok, err = store.GetSnapshot(ctx, "g1")
	require.NoError(t, err)
	require.False(t, ok)
}
