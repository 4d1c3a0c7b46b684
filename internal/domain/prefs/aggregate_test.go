package prefs

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

func TestAggregatePlay_ComponentWiseMean(t *testing.T) {
	got, err := AggregatePlay([]PlayVector{
		{Crowd: 1, Activeness: 0.5, Trend: -1, Planning: 0, Location: 0.2, Vibe: -0.4},
		{Crowd: 0, Activeness: -0.5, Trend: 1, Planning: 0.6, Location: 0.2, Vibe: 0.4},
	})
	require.NoError(t, err)
	require.InDelta(t, 0.5, got.Crowd, 1e-9)
	require.InDelta(t, 0, got.Activeness, 1e-9)
	require.InDelta(t, 0, got.Trend, 1e-9)
	require.InDelta(t, 0.3, got.Planning, 1e-9)
	require.InDelta(t, 0.2, got.Location, 1e-9)
	require.InDelta(t, 0, got.Vibe, 1e-9)
}

func TestAggregatePlay_BoundsPreserved(t *testing.T) {
	members := []PlayVector{
		{Crowd: 1, Activeness: 1, Trend: 1, Planning: 1, Location: 1, Vibe: 1},
		{Crowd: -1, Activeness: -1, Trend: -1, Planning: -1, Location: -1, Vibe: -1},
		{Crowd: 1, Activeness: -1, Trend: 0.9, Planning: -0.9, Location: 1, Vibe: -1},
	}
	got, err := AggregatePlay(members)
	require.NoError(t, err)
	require.NoError(t, got.Validate())
}

func TestAggregatePlay_EmptyMemberSet(t *testing.T) {
	_, err := AggregatePlay(nil)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestAggregateFood_MeanPerAttributeIdentity(t *testing.T) {
	a := DefaultFoodPreferences()
	a.Tastes = []AttributeScore{{Name: "SPICY", Score: 1}, {Name: "SWEET", Score: 0.4}}
	a.Ingredients = []AttributeScore{{Name: "MEAT", Score: 0.8}}
	a.CookingMethods = nil
	a.CuisineTypes = nil

	b := FoodPreferences{
		Tastes: []AttributeScore{{Name: "SPICY", Score: 0}},
	}

	got, err := AggregateFood([]FoodPreferences{a, b})
	require.NoError(t, err)

	scores := got.ScoreMap()
	// SPICY is carried by both members, MEAT only by the first.
	require.InDelta(t, 0.5, scores[AttributeKey{Family: FamilyTaste, Name: "SPICY"}], 1e-9)
	require.InDelta(t, 0.4, scores[AttributeKey{Family: FamilyTaste, Name: "SWEET"}], 1e-9)
	require.InDelta(t, 0.8, scores[AttributeKey{Family: FamilyIngredient, Name: "MEAT"}], 1e-9)
}

func TestAggregateFood_CanonicalOrdering(t *testing.T) {
	member := FoodPreferences{
		Tastes: []AttributeScore{
			{Name: "SALTY", Score: 0.1},
			{Name: "SPICY", Score: 0.2},
			{Name: "UMAMI", Score: 0.3}, // unknown tag sorts after the enum
		},
	}
	got, err := AggregateFood([]FoodPreferences{member})
	require.NoError(t, err)

	names := make([]string, 0, len(got.Tastes))
	for _, entry := range got.Tastes {
		names = append(names, entry.Name)
	}
	require.Equal(t, []string{"SPICY", "SALTY", "UMAMI"}, names)
}

func TestAggregateFood_EmptyMemberSet(t *testing.T) {
	_, err := AggregateFood(nil)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}
