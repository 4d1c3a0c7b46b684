package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/prefs"
)

func playActivity(id string, crowd, activeness float64) catalog.Activity {
	return catalog.Activity{ID: id, Type: catalog.TypePlay, PlayAttributes: playVec(crowd, activeness)}
}

func foodActivity(id string, tastes ...string) catalog.Activity {
	return catalog.Activity{ID: id, Type: catalog.TypeFood,
		FoodAttributes: &prefs.FoodAttributes{Tastes: tastes}}
}

func TestTransitionCost(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	a := playActivity("a", 0, 0)
	b := playActivity("b", 3.0/5, 4.0/5) // unit-scaled 3-4-5 triangle
	require.InDelta(t, 1.0, svc.transitionCost(a, b), 1e-9)

	f1 := foodActivity("f1", "SPICY", "SWEET")
	f2 := foodActivity("f2", "SPICY")
	// one shared tag: 1/(1+1)
	require.InDelta(t, 0.5, svc.transitionCost(f1, f2), 1e-9)

	require.Equal(t, svc.cfg.CrossTypeCost, svc.transitionCost(a, f1))
	require.Equal(t, svc.cfg.CrossTypeCost, svc.transitionCost(f1, a))
}

func TestHarmony_SumsAdjacentPairs(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	a := playActivity("a", 0, 0)
	b := playActivity("b", 0.5, 0)
	c := playActivity("c", 1, 0)

	require.Zero(t, svc.harmony([]catalog.Activity{a}))
	require.InDelta(t, 1.0, svc.harmony([]catalog.Activity{a, b, c}), 1e-9)
	// a->c skips the midpoint; adjacency matters.
	require.InDelta(t, 1.5, svc.harmony([]catalog.Activity{a, c, b}), 1e-9)
}

func TestDiversity_MeanOverUnorderedPairs(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	a := playActivity("a", 0, 0)
	b := playActivity("b", 0.6, 0)
	c := playActivity("c", 0, 0.8)

	require.Zero(t, svc.diversity(nil))
	require.Zero(t, svc.diversity([]catalog.Activity{a}))

	// pairs: a-b 0.6, a-c 0.8, b-c 1.0
	require.InDelta(t, (0.6+0.8+1.0)/3, svc.diversity([]catalog.Activity{a, b, c}), 1e-9)

	// order-free
	require.InDelta(t,
		svc.diversity([]catalog.Activity{a, b, c}),
		svc.diversity([]catalog.Activity{c, a, b}), 1e-12)
}

func TestBestPermutation_FindsMinimumOrdering(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	// On a line, visiting in spatial order minimizes adjacent distance.
	a := playActivity("a", -1, 0)
	b := playActivity("b", 0, 0)
	c := playActivity("c", 1, 0)

	best := svc.bestPermutation([]catalog.Activity{b, c, a})
	require.Len(t, best.activities, 3)
	require.Equal(t, "b", best.activities[1].ID, "the midpoint must sit between the endpoints")

	// harmony 2.0 either direction, diversity (1+2+1)/3
	wantScore := svc.cfg.HarmonyWeight*2.0 - svc.cfg.DiversityWeight*(4.0/3)
	require.InDelta(t, wantScore, best.score, 1e-9)
}

func TestCompose_CartesianProduct(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	pools := []pool{
		{category: catalog.Category{ID: "p1"}, activities: []catalog.Activity{
			playActivity("a", 0, 0), playActivity("b", 0.5, 0),
		}},
		{category: catalog.Category{ID: "p2"}, activities: []catalog.Activity{
			playActivity("c", 1, 0), playActivity("d", -1, 0), playActivity("e", 0, 1),
		}},
	}
	out := svc.compose(pools)
	require.Len(t, out, 6)
	for _, c := range out {
		require.Len(t, c.activities, 2)
	}
}

func TestCompose_SkipsRepeatedActivities(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	a := playActivity("a", 0, 0)
	b := playActivity("b", 0.5, 0)
	shared := pool{category: catalog.Category{ID: "p1"}, activities: []catalog.Activity{a, b}}

	// Two pools over the same category: only orderings of distinct
	// activities survive.
	out := svc.compose([]pool{shared, shared})
	require.Len(t, out, 2)
	for _, c := range out {
		require.NotEqual(t, c.activities[0].ID, c.activities[1].ID)
	}

	// A single shared activity cannot fill two slots.
	solo := pool{category: catalog.Category{ID: "p1"}, activities: []catalog.Activity{a}}
	require.Empty(t, svc.compose([]pool{solo, solo}))
}

func TestCompose_SingletonPool(t *testing.T) {
	groups, cat := testFixture()
	svc := newTestService(groups, cat, nil, nil)

	pools := []pool{{category: catalog.Category{ID: "p1"},
		activities: []catalog.Activity{playActivity("a", 0.2, 0.2)}}}
	out := svc.compose(pools)
	require.Len(t, out, 1)
	require.Len(t, out[0].activities, 1)
	require.Zero(t, out[0].score)
}
