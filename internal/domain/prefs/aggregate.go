package prefs

import (
	"sort"

	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

// AggregatePlay merges member play vectors into one group vector as the
// component-wise arithmetic mean. The mean of in-bounds inputs stays in
// bounds, so no clamping is applied. An empty member set has no mean.
func AggregatePlay(members []PlayVector) (PlayVector, error) {
	if len(members) == 0 {
		return PlayVector{}, apperrors.Wrap(apperrors.CodeInvalidState, "cannot aggregate preferences of an empty member set", nil)
	}
	var sum [NumPlayAxes]float64
	for _, member := range members {
		axes := member.Axes()
		for i := range sum {
			sum[i] += axes[i]
		}
	}
	for i := range sum {
		sum[i] /= float64(len(members))
	}
	return FromAxes(sum), nil
}

// AggregateFood merges member food preferences into one group preference set.
// Scores are averaged per attribute identity (family + name), never by list
// position, over the members that carry the attribute. Output entries follow
// the canonical enum order with unknown attributes sorted after them.
func AggregateFood(members []FoodPreferences) (FoodPreferences, error) {
	if len(members) == 0 {
		return FoodPreferences{}, apperrors.Wrap(apperrors.CodeInvalidState, "cannot aggregate preferences of an empty member set", nil)
	}

	type acc struct {
		sum   float64
		count int
	}
	totals := make(map[AttributeKey]*acc)
	for _, member := range members {
		for key, score := range member.ScoreMap() {
			entry, ok := totals[key]
			if !ok {
				entry = &acc{}
				totals[key] = entry
			}
			entry.sum += score
			entry.count++
		}
	}

	var out FoodPreferences
	for _, family := range FoodFamilies {
		var names []string
		for key := range totals {
			if key.Family == family {
				names = append(names, key.Name)
			}
		}
		sort.Sort(byCanonicalOrder{names: names, canonical: canonicalOrder(family)})

		entries := make([]AttributeScore, 0, len(names))
		for _, name := range names {
			entry := totals[AttributeKey{Family: family, Name: name}]
			entries = append(entries, AttributeScore{Name: name, Score: entry.sum / float64(entry.count)})
		}
		out.setFamily(family, entries)
	}
	return out, nil
}

func canonicalOrder(f FoodFamily) map[string]int {
	var names []string
	switch f {
	case FamilyIngredient:
		names = Ingredients
	case FamilyTaste:
		names = Tastes
	case FamilyCooking:
		names = CookingMethods
	case FamilyCuisine:
		names = CuisineTypes
	}
	out := make(map[string]int, len(names))
	for i, n := range names {
		out[n] = i
	}
	return out
}

type byCanonicalOrder struct {
	names     []string
	canonical map[string]int
}

func (s byCanonicalOrder) Len() int      { return len(s.names) }
func (s byCanonicalOrder) Swap(i, j int) { s.names[i], s.names[j] = s.names[j], s.names[i] }
func (s byCanonicalOrder) Less(i, j int) bool {
	ri, iKnown := s.canonical[s.names[i]]
	rj, jKnown := s.canonical[s.names[j]]
	switch {
	case iKnown && jKnown:
		return ri < rj
	case iKnown:
		return true
	case jKnown:
		return false
	default:
		return s.names[i] < s.names[j]
	}
}
