package prefs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEuclidean(t *testing.T) {
	require.Equal(t, 0.0, Euclidean([]float64{1, 2, 3}, []float64{1, 2, 3}))
	require.InDelta(t, 5, Euclidean([]float64{0, 0}, []float64{3, 4}), 1e-9)
	// Extra components of the longer vector are ignored.
	require.InDelta(t, 0, Euclidean([]float64{1, 1}, []float64{1, 1, 9}), 1e-9)
}

func TestCosine(t *testing.T) {
	require.InDelta(t, 1, Cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	require.InDelta(t, -1, Cosine([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	require.InDelta(t, 0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	require.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
}

func TestPlayDistance_Symmetry(t *testing.T) {
	a := PlayVector{Crowd: 0.3, Activeness: -0.7, Trend: 0.1, Planning: 0.9, Location: -0.2, Vibe: 0.5}
	b := PlayVector{Crowd: -0.1, Activeness: 0.4, Trend: -0.6, Planning: 0, Location: 0.8, Vibe: -0.3}
	require.InDelta(t, PlayDistance(a, b), PlayDistance(b, a), 1e-12)
	require.Equal(t, 0.0, PlayDistance(a, a))
}

func TestFoodAffinity_RewardsOnlyPresentAttributes(t *testing.T) {
	scores := map[AttributeKey]float64{
		{Family: FamilyTaste, Name: "SPICY"}:      0.9,
		{Family: FamilyTaste, Name: "SWEET"}:      -1, // absent from the activity, must not count
		{Family: FamilyIngredient, Name: "MEAT"}:  0.5,
		{Family: FamilyCuisine, Name: "KOREAN"}:   0.2,
	}
	attrs := FoodAttributes{
		Tastes:       []string{"SPICY"},
		Ingredients:  []string{"MEAT"},
		CuisineTypes: []string{"KOREAN"},
	}
	require.InDelta(t, 1.6, FoodAffinity(scores, attrs), 1e-9)
}

func TestFoodAffinity_UnscoredAttributesContributeZero(t *testing.T) {
	attrs := FoodAttributes{Tastes: []string{"SALTY"}}
	require.Equal(t, 0.0, FoodAffinity(map[AttributeKey]float64{}, attrs))
}

func TestAttractionDistance(t *testing.T) {
	a := FoodAttributes{
		Tastes:       []string{"SPICY", "SALTY"},
		Ingredients:  []string{"MEAT"},
		CuisineTypes: []string{"KOREAN"},
	}
	b := FoodAttributes{
		Tastes:       []string{"SPICY"},
		Ingredients:  []string{"FISH"},
		CuisineTypes: []string{"KOREAN"},
	}
	// Overlap of 2 (SPICY, KOREAN).
	require.InDelta(t, 1.0/3.0, AttractionDistance(a, b), 1e-9)
	require.InDelta(t, AttractionDistance(a, b), AttractionDistance(b, a), 1e-12)

	// Disjoint sets sit at the maximum distance.
	require.Equal(t, 1.0, AttractionDistance(FoodAttributes{Tastes: []string{"SWEET"}}, FoodAttributes{Tastes: []string{"SPICY"}}))
}

func TestAttractionDistance_Range(t *testing.T) {
	a := FoodAttributes{Tastes: Tastes, Ingredients: Ingredients, CookingMethods: CookingMethods, CuisineTypes: CuisineTypes}
	d := AttractionDistance(a, a)
	require.Greater(t, d, 0.0)
	require.LessOrEqual(t, d, 1.0)
	require.False(t, math.IsNaN(d))
}
