package planner

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/prefs"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

func TestBuildPool_UnknownCategory(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	_, err := svc.buildPool(context.Background(), groups.group, "nowhere", rand.New(rand.NewSource(1)))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestBuildPool_EmptyCategoryIsNil(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	p, err := svc.buildPool(context.Background(), groups.group, "ghost town", rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestBuildPool_CandidateWindowTruncates(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)
	svc.cfg.CandidateWindow = 1
	svc.cfg.PoolSize = 5

	p, err := svc.buildPool(context.Background(), groups.group, "board games", rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Len(t, p.activities, 1)
	// The surviving candidate is the closest one to the group vector.
	require.Equal(t, "a1", p.activities[0].ID)
}

func TestBuildPool_CorruptActivityIsAFault(t *testing.T) {
	groups, cat := testFixture()
	cat.activities["c-games"] = append(cat.activities["c-games"], catalog.Activity{
		ID: "broken", Name: "Broken", Type: catalog.TypePlay, CategoryID: "c-games",
	})
	svc := newTestService(groups, cat, nil, nil)

	_, err := svc.buildPool(context.Background(), groups.group, "board games", rand.New(rand.NewSource(1)))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDataFault))
}

func TestSamplePool_SizeCoversAll(t *testing.T) {
	ranked := []rankedActivity{
		{activity: catalog.Activity{ID: "a"}, affinity: 1},
		{activity: catalog.Activity{ID: "b"}, affinity: 0},
	}
	out := samplePool(ranked, 5, rand.New(rand.NewSource(1)))
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "b", out[1].ID)
}

func TestSamplePool_IdenticalAffinityTakesTopK(t *testing.T) {
	ranked := []rankedActivity{
		{activity: catalog.Activity{ID: "a"}, affinity: 0.5},
		{activity: catalog.Activity{ID: "b"}, affinity: 0.5},
		{activity: catalog.Activity{ID: "c"}, affinity: 0.5},
	}
	out := samplePool(ranked, 2, rand.New(rand.NewSource(1)))
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "b", out[1].ID)
}

func TestSamplePool_WithoutReplacement(t *testing.T) {
	ranked := []rankedActivity{
		{activity: catalog.Activity{ID: "a"}, affinity: 3},
		{activity: catalog.Activity{ID: "b"}, affinity: 2},
		{activity: catalog.Activity{ID: "c"}, affinity: 1},
		{activity: catalog.Activity{ID: "d"}, affinity: 0},
	}
	for seed := int64(0); seed < 20; seed++ {
		out := samplePool(ranked, 3, rand.New(rand.NewSource(seed)))
		require.Len(t, out, 3)
		seen := make(map[string]struct{}, 3)
		for _, a := range out {
			_, dup := seen[a.ID]
			require.False(t, dup, "seed %d drew %q twice", seed, a.ID)
			seen[a.ID] = struct{}{}
		}
	}
}

func TestSamplePool_ZeroWeightCandidateStillDrawable(t *testing.T) {
	// The min-shifted weight of the worst candidate is epsilon, not zero, so
	// exhaustive draws must eventually reach it.
	ranked := []rankedActivity{
		{activity: catalog.Activity{ID: "a"}, affinity: 1},
		{activity: catalog.Activity{ID: "b"}, affinity: -1},
	}
	out := samplePool(ranked, 2, rand.New(rand.NewSource(1)))
	require.Len(t, out, 2)
}

func TestBuildPool_FoodRankingUsesAffinity(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)
	svc.cfg.CandidateWindow = 1

	// a3 carries both SPICY (0.8) and JAPANESE (0.6); a4 only JAPANESE.
	p, err := svc.buildPool(context.Background(), groups.group, "sushi", rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, p.activities, 1)
	require.Equal(t, "a3", p.activities[0].ID)

	scores := groups.group.FoodPreferences.ScoreMap()
	require.Greater(t,
		prefs.FoodAffinity(scores, *cat.activities["c-sushi"][0].FoodAttributes),
		prefs.FoodAffinity(scores, *cat.activities["c-sushi"][1].FoodAttributes))
}
