package planner

import "time"

// Config carries the tunables of the recommendation engine.
type Config struct {
	// CandidateWindow caps how many ranked activities per category are
	// eligible for sampling.
	CandidateWindow int
	// PoolSize is the number of activities drawn per category pool.
	PoolSize int
	// MaxCategories bounds the combination size of the permutation search.
	// Requests above the bound are rejected; the search is factorial in
	// combination size and the bound keeps it tractable.
	MaxCategories int
	// TopN is the default number of schedules returned to the caller.
	TopN int

	// HarmonyWeight and DiversityWeight combine the two objectives into
	// the composite score; lower composite is better.
	HarmonyWeight   float64
	DiversityWeight float64
	// CrossTypeCost is the fixed transition cost between a FOOD and a PLAY
	// activity, larger than typical same-type costs so type switches are
	// penalized without ranking one switch above another.
	CrossTypeCost float64
	// NoveltyWeight trades raw quality against novelty during MMR
	// re-ranking.
	NoveltyWeight float64

	// MealCategory and BarCategory name the fixed categories prepended by
	// the time-based hint rules.
	MealCategory string
	BarCategory  string

	// Refinement collaborator settings. The refinement call is strictly
	// best-effort: one attempt, bounded by RefineTimeout, and the
	// deterministic fallback covers every failure mode.
	Model            string
	Temperature      float32
	RefineTimeout    time.Duration
	PromptTokenLimit int
}

// DefaultConfig returns the engine tunables used when the config file leaves
// them unset.
func DefaultConfig() Config {
	return Config{
		CandidateWindow:  30,
		PoolSize:         10,
		MaxCategories:    5,
		TopN:             3,
		HarmonyWeight:    1.0,
		DiversityWeight:  0.5,
		CrossTypeCost:    1.5,
		NoveltyWeight:    0.3,
		MealCategory:     "restaurant",
		BarCategory:      "bar",
		Model:            "gpt-4o-mini",
		Temperature:      0.2,
		RefineTimeout:    20 * time.Second,
		PromptTokenLimit: 4096,
	}
}
