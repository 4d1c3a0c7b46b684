package planner

import (
	"context"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/group"
)

// Outcome classifies the result of a compose request. An empty search space
// is a valid negative result, signaled distinctly from faults.
type Outcome string

const (
	// OutcomeOK means at least one schedule was produced.
	OutcomeOK Outcome = "ok"
	// OutcomeNoCandidates means every requested category dropped out
	// before composition.
	OutcomeNoCandidates Outcome = "no_candidates"
	// OutcomeNoCombinations means candidate pools existed but no
	// combination could be formed, which happens when overlapping pools
	// are too small to fill every slot with a distinct activity.
	OutcomeNoCombinations Outcome = "no_combinations"
)

// Viable reports whether the outcome carries schedules.
func (o Outcome) Viable() bool { return o == OutcomeOK }

// candidate is one composed schedule: the best-ordered activity sequence of
// one combination plus its composite score. Transient within a request.
type candidate struct {
	activities []catalog.Activity
	score      float64
}

// idSet returns the candidate's activity-id set for Jaccard comparisons.
func (c candidate) idSet() map[string]struct{} {
	out := make(map[string]struct{}, len(c.activities))
	for _, a := range c.activities {
		out[a.ID] = struct{}{}
	}
	return out
}

// Plan is one final schedule offered to the caller: the ordered activities
// bound to concrete time slots, plus the composite score that ranked it.
type Plan struct {
	Activities []group.ScheduledActivity `json:"scheduled_activities"`
	Score      float64                   `json:"score"`
	// Refined marks plans whose time slots came from the generative
	// collaborator rather than the deterministic fallback.
	Refined bool `json:"refined"`
}

// Result is the compose response: schedules plus the outcome marker callers
// use to tell "nothing matched" apart from "something broke".
type Result struct {
	Outcome   Outcome `json:"outcome"`
	Schedules []Plan  `json:"schedules"`
}

// TrendingCategory is a category label with its recommendation count.
type TrendingCategory struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// GroupSource provides the one fixed group snapshot each request works from.
type GroupSource interface {
	Snapshot(ctx context.Context, groupID string) (group.Group, error)
}

// TrendingStore tracks how often categories get recommended. Best-effort;
// errors are logged and never fail a request.
type TrendingStore interface {
	IncrementCategory(ctx context.Context, name string) error
	TopCategories(ctx context.Context, limit int) ([]TrendingCategory, error)
}
