package planner

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/domain/prefs"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

// pool is one category's sampled candidate set.
type pool struct {
	category   catalog.Category
	activities []catalog.Activity
}

type rankedActivity struct {
	activity catalog.Activity
	// affinity is oriented so that HIGHER is always better, regardless of
	// the underlying metric: play activities use negated Euclidean
	// distance, food activities use the reward-only preference sum.
	// Metrics are never mixed within one category's ranking.
	affinity float64
}

const weightEpsilon = 1e-9

// buildPool resolves one category name, ranks its activities against the
// group vectors and draws a bounded weighted sample. A nil pool with nil
// error means the category had no activities and drops out silently.
func (s *service) buildPool(ctx context.Context, g group.Group, name string, rng *rand.Rand) (*pool, error) {
	category, found, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "category lookup failed", err)
	}
	if !found {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("category %q not found", name), nil)
	}

	activities, err := s.activities.FindByCategory(ctx, category.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "activity fetch failed", err)
	}
	if len(activities) == 0 {
		return nil, nil
	}

	foodScores := g.FoodPreferences.ScoreMap()
	ranked := make([]rankedActivity, 0, len(activities))
	for _, activity := range activities {
		if err := activity.Validate(); err != nil {
			return nil, err
		}
		switch activity.Type {
		case catalog.TypePlay:
			ranked = append(ranked, rankedActivity{
				activity: activity,
				affinity: -prefs.PlayDistance(g.PlayPreferences, *activity.PlayAttributes),
			})
		case catalog.TypeFood:
			ranked = append(ranked, rankedActivity{
				activity: activity,
				affinity: prefs.FoodAffinity(foodScores, *activity.FoodAttributes),
			})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].affinity > ranked[j].affinity })

	if len(ranked) > s.cfg.CandidateWindow {
		ranked = ranked[:s.cfg.CandidateWindow]
	}

	size := s.cfg.PoolSize
	if size > len(ranked) {
		size = len(ranked)
	}
	return &pool{category: category, activities: samplePool(ranked, size, rng)}, nil
}

// samplePool draws size activities without replacement, weighted by affinity
// shifted to be non-negative. When every candidate scores identically the
// weights carry no signal and the top-K by rank is taken instead.
func samplePool(ranked []rankedActivity, size int, rng *rand.Rand) []catalog.Activity {
	if size >= len(ranked) {
		out := make([]catalog.Activity, 0, len(ranked))
		for _, r := range ranked {
			out = append(out, r.activity)
		}
		return out
	}

	minAffinity, maxAffinity := ranked[0].affinity, ranked[0].affinity
	for _, r := range ranked[1:] {
		if r.affinity < minAffinity {
			minAffinity = r.affinity
		}
		if r.affinity > maxAffinity {
			maxAffinity = r.affinity
		}
	}
	if maxAffinity == minAffinity {
		out := make([]catalog.Activity, 0, size)
		for _, r := range ranked[:size] {
			out = append(out, r.activity)
		}
		return out
	}

	weights := make([]float64, len(ranked))
	for i, r := range ranked {
		weights[i] = r.affinity - minAffinity + weightEpsilon
	}

	out := make([]catalog.Activity, 0, size)
	remaining := append([]rankedActivity(nil), ranked...)
	for len(out) < size {
		var total float64
		for _, w := range weights {
			total += w
		}
		pick := len(remaining) - 1
		target := rng.Float64() * total
		for i, w := range weights {
			target -= w
			if target < 0 {
				pick = i
				break
			}
		}
		out = append(out, remaining[pick].activity)
		remaining = append(remaining[:pick], remaining[pick+1:]...)
		weights = append(weights[:pick], weights[pick+1:]...)
	}
	return out
}
