package prefs

import (
	"fmt"

	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

// Play taste axes. Every axis score lives in [-1, 1].
const (
	AxisCrowd = iota
	AxisActiveness
	AxisTrend
	AxisPlanning
	AxisLocation
	AxisVibe
	NumPlayAxes
)

// PlayVector encodes a party's play taste along the fixed axes.
type PlayVector struct {
	Crowd      float64 `json:"crowd_level" bson:"crowd_level"`
	Activeness float64 `json:"activeness_level" bson:"activeness_level"`
	Trend      float64 `json:"trend_level" bson:"trend_level"`
	Planning   float64 `json:"planning_level" bson:"planning_level"`
	Location   float64 `json:"location_preference" bson:"location_preference"`
	Vibe       float64 `json:"vibe_level" bson:"vibe_level"`
}

// Axes returns the vector components in canonical axis order.
func (v PlayVector) Axes() [NumPlayAxes]float64 {
	return [NumPlayAxes]float64{v.Crowd, v.Activeness, v.Trend, v.Planning, v.Location, v.Vibe}
}

// FromAxes rebuilds a PlayVector from canonical axis order.
func FromAxes(a [NumPlayAxes]float64) PlayVector {
	return PlayVector{
		Crowd:      a[AxisCrowd],
		Activeness: a[AxisActiveness],
		Trend:      a[AxisTrend],
		Planning:   a[AxisPlanning],
		Location:   a[AxisLocation],
		Vibe:       a[AxisVibe],
	}
}

// Validate checks the axis bounds.
func (v PlayVector) Validate() error {
	for i, score := range v.Axes() {
		if score < -1 || score > 1 {
			return apperrors.Wrap(apperrors.CodeInvalidInput,
				fmt.Sprintf("play axis %d score %v outside [-1,1]", i, score), nil)
		}
	}
	return nil
}

// FoodFamily identifies one discrete food attribute family.
type FoodFamily string

const (
	FamilyIngredient FoodFamily = "ingredients"
	FamilyTaste      FoodFamily = "tastes"
	FamilyCooking    FoodFamily = "cooking_methods"
	FamilyCuisine    FoodFamily = "cuisine_types"
)

// FoodFamilies is the explicit iteration contract over the food families.
var FoodFamilies = [4]FoodFamily{FamilyIngredient, FamilyTaste, FamilyCooking, FamilyCuisine}

// Canonical attribute enums per family, in declaration order.
var (
	Ingredients    = []string{"MEAT", "VEGETABLE", "FISH", "MILK", "EGG"}
	Tastes         = []string{"SPICY", "GREASY", "SWEET", "SALTY"}
	CookingMethods = []string{"SOUP", "GRILLED", "STEAMED", "STIR_FRIED", "FRIED"}
	CuisineTypes   = []string{"KOREAN", "CHINESE", "JAPANESE", "WESTERN", "SOUTHEAST_ASIAN"}
)

// AttributeScore is one scored entry of a food preference family.
type AttributeScore struct {
	Name  string  `json:"name" bson:"name"`
	Score float64 `json:"score" bson:"score"`
}

// FoodPreferences is a weighted map over the discrete food attribute enums,
// stored as per-family lists to match the persisted document shape.
type FoodPreferences struct {
	Ingredients    []AttributeScore `json:"ingredients" bson:"ingredients"`
	Tastes         []AttributeScore `json:"tastes" bson:"tastes"`
	CookingMethods []AttributeScore `json:"cooking_methods" bson:"cooking_methods"`
	CuisineTypes   []AttributeScore `json:"cuisine_types" bson:"cuisine_types"`
}

// DefaultFoodPreferences returns a neutral (all zero) preference set covering
// every known attribute, the shape new users start with.
func DefaultFoodPreferences() FoodPreferences {
	zero := func(names []string) []AttributeScore {
		out := make([]AttributeScore, 0, len(names))
		for _, n := range names {
			out = append(out, AttributeScore{Name: n})
		}
		return out
	}
	return FoodPreferences{
		Ingredients:    zero(Ingredients),
		Tastes:         zero(Tastes),
		CookingMethods: zero(CookingMethods),
		CuisineTypes:   zero(CuisineTypes),
	}
}

// Family returns the scored entries of one family.
func (p FoodPreferences) Family(f FoodFamily) []AttributeScore {
	switch f {
	case FamilyIngredient:
		return p.Ingredients
	case FamilyTaste:
		return p.Tastes
	case FamilyCooking:
		return p.CookingMethods
	case FamilyCuisine:
		return p.CuisineTypes
	}
	return nil
}

func (p *FoodPreferences) setFamily(f FoodFamily, entries []AttributeScore) {
	switch f {
	case FamilyIngredient:
		p.Ingredients = entries
	case FamilyTaste:
		p.Tastes = entries
	case FamilyCooking:
		p.CookingMethods = entries
	case FamilyCuisine:
		p.CuisineTypes = entries
	}
}

// AttributeKey identifies one attribute across families. "SPICY" the taste and
// a hypothetical "SPICY" ingredient would be distinct keys.
type AttributeKey struct {
	Family FoodFamily
	Name   string
}

// ScoreMap flattens the preference lists into a map keyed by attribute
// identity. Later duplicates of the same key overwrite earlier ones.
func (p FoodPreferences) ScoreMap() map[AttributeKey]float64 {
	out := make(map[AttributeKey]float64)
	for _, family := range FoodFamilies {
		for _, entry := range p.Family(family) {
			out[AttributeKey{Family: family, Name: entry.Name}] = entry.Score
		}
	}
	return out
}

// Validate checks every entry score against the [-1,1] bounds.
func (p FoodPreferences) Validate() error {
	for _, family := range FoodFamilies {
		for _, entry := range p.Family(family) {
			if entry.Score < -1 || entry.Score > 1 {
				return apperrors.Wrap(apperrors.CodeInvalidInput,
					fmt.Sprintf("%s/%s score %v outside [-1,1]", family, entry.Name, entry.Score), nil)
			}
		}
	}
	return nil
}

// FoodAttributes is the unordered attribute payload of a FOOD activity.
// Entries are categorical tags, not scored.
type FoodAttributes struct {
	CuisineTypes   []string `json:"cuisine_types" bson:"cuisine_types"`
	Ingredients    []string `json:"ingredients" bson:"ingredients"`
	Tastes         []string `json:"tastes" bson:"tastes"`
	CookingMethods []string `json:"cooking_methods" bson:"cooking_methods"`
}

// Family returns the tags of one family.
func (a FoodAttributes) Family(f FoodFamily) []string {
	switch f {
	case FamilyIngredient:
		return a.Ingredients
	case FamilyTaste:
		return a.Tastes
	case FamilyCooking:
		return a.CookingMethods
	case FamilyCuisine:
		return a.CuisineTypes
	}
	return nil
}

// Keys lists every tag as an AttributeKey.
func (a FoodAttributes) Keys() []AttributeKey {
	var out []AttributeKey
	for _, family := range FoodFamilies {
		for _, name := range a.Family(family) {
			out = append(out, AttributeKey{Family: family, Name: name})
		}
	}
	return out
}
