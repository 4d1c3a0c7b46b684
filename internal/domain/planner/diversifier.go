package planner

import "sort"

// diversify re-ranks the composed candidates with Maximal Marginal
// Relevance: the best-scoring candidate is taken first, then each step picks
// the remaining candidate maximizing quality plus novelty relative to what
// is already selected. Returns at most topN candidates.
func (s *service) diversify(candidates []candidate, topN int) []candidate {
	if topN <= 0 || len(candidates) == 0 {
		return nil
	}

	remaining := append([]candidate(nil), candidates...)
	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].score < remaining[j].score })

	selected := []candidate{remaining[0]}
	selectedSets := []map[string]struct{}{remaining[0].idSet()}
	remaining = remaining[1:]

	for len(selected) < topN && len(remaining) > 0 {
		bestIdx := 0
		bestValue := s.mmrValue(remaining[0], selectedSets)
		for i := 1; i < len(remaining); i++ {
			if value := s.mmrValue(remaining[i], selectedSets); value > bestValue {
				bestIdx, bestValue = i, value
			}
		}
		picked := remaining[bestIdx]
		selected = append(selected, picked)
		selectedSets = append(selectedSets, picked.idSet())
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

func (s *service) mmrValue(c candidate, selectedSets []map[string]struct{}) float64 {
	set := c.idSet()
	var novelty float64
	for _, other := range selectedSets {
		novelty += jaccardDissimilarity(set, other)
	}
	novelty /= float64(len(selectedSets))
	return -c.score + s.cfg.NoveltyWeight*novelty
}

// jaccardDissimilarity is 1 − |A∩B| / |A∪B|, defined as 0 when both sets are
// empty.
func jaccardDissimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for id := range a {
		if _, ok := b[id]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return 1 - float64(intersection)/float64(union)
}
