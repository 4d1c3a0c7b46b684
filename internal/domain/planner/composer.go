package planner

import (
	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// transitionCost is the pairwise distance between two activities. Same-type
// pairs use their native metric; a FOOD/PLAY pair costs a fixed neutral
// amount so type switches are penalized uniformly.
func (s *service) transitionCost(a, b catalog.Activity) float64 {
	switch {
	case a.Type == catalog.TypePlay && b.Type == catalog.TypePlay:
		return prefs.PlayDistance(*a.PlayAttributes, *b.PlayAttributes)
	case a.Type == catalog.TypeFood && b.Type == catalog.TypeFood:
		return prefs.AttractionDistance(*a.FoodAttributes, *b.FoodAttributes)
	default:
		return s.cfg.CrossTypeCost
	}
}

// harmony sums the transition cost over adjacent pairs of the sequence.
func (s *service) harmony(seq []catalog.Activity) float64 {
	var total float64
	for i := 1; i < len(seq); i++ {
		total += s.transitionCost(seq[i-1], seq[i])
	}
	return total
}

// diversity is the mean transition cost over all unordered pairs of the
// combination — how spread out it is regardless of order. Zero when the
// combination has fewer than two activities.
func (s *service) diversity(combo []catalog.Activity) float64 {
	pairs := 0
	var total float64
	for i := 0; i < len(combo); i++ {
		for j := i + 1; j < len(combo); j++ {
			total += s.transitionCost(combo[i], combo[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return total / float64(pairs)
}

// compose forms the Cartesian product of the pools (one activity per pool)
// and, per combination, searches all permutations for the ordering with the
// minimum composite score. Pools overlap when a category is requested more
// than once; combinations that would visit the same activity twice are
// skipped, so overlapping pools too small to fill every slot distinctly can
// yield zero combinations. Only the best permutation of each combination
// survives. The returned list is unsorted.
func (s *service) compose(pools []pool) []candidate {
	var out []candidate
	combo := make([]catalog.Activity, len(pools))

	var product func(depth int)
	product = func(depth int) {
		if depth == len(pools) {
			out = append(out, s.bestPermutation(combo))
			return
		}
		for _, activity := range pools[depth].activities {
			if hasActivity(combo[:depth], activity.ID) {
				continue
			}
			combo[depth] = activity
			product(depth + 1)
		}
	}
	product(0)
	return out
}

func hasActivity(seq []catalog.Activity, id string) bool {
	for _, a := range seq {
		if a.ID == id {
			return true
		}
	}
	return false
}

// bestPermutation scores every ordering of the combination via Heap's
// algorithm and keeps the minimum-composite one. Diversity is order-free and
// computed once.
func (s *service) bestPermutation(combo []catalog.Activity) candidate {
	div := s.diversity(combo)
	seq := append([]catalog.Activity(nil), combo...)

	best := candidate{
		activities: append([]catalog.Activity(nil), seq...),
		score:      s.composite(seq, div),
	}

	n := len(seq)
	counters := make([]int, n)
	for i := 0; i < n; {
		if counters[i] < i {
			if i%2 == 0 {
				seq[0], seq[i] = seq[i], seq[0]
			} else {
				seq[counters[i]], seq[i] = seq[i], seq[counters[i]]
			}
			if score := s.composite(seq, div); score < best.score {
				best = candidate{
					activities: append([]catalog.Activity(nil), seq...),
					score:      score,
				}
			}
			counters[i]++
			i = 0
		} else {
			counters[i] = 0
			i++
		}
	}
	return best
}

func (s *service) composite(seq []catalog.Activity, diversity float64) float64 {
	return s.cfg.HarmonyWeight*s.harmony(seq) - s.cfg.DiversityWeight*diversity
}
