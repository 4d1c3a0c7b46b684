package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/domain/prefs"
	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

// Service is the matching-and-composition engine: it merges nothing itself —
// group vectors arrive pre-aggregated in the snapshot — and turns a category
// request into ranked, diversity-sampled, time-allocated schedules.
type Service interface {
	// RecommendCategories ranks play categories by affinity to the group's
	// play vector and returns the closest topN labels.
	RecommendCategories(ctx context.Context, groupID string, topN int) ([]string, error)
	// ComposeSchedules runs the full pipeline for the requested categories
	// and returns up to topN schedules, or a negative outcome when the
	// search space is empty.
	ComposeSchedules(ctx context.Context, groupID string, categoryNames []string, topN int) (Result, error)
	// TrendingCategories lists the most recommended category labels.
	TrendingCategories(ctx context.Context, limit int) ([]TrendingCategory, error)
}

type service struct {
	cfg        Config
	groups     GroupSource
	activities catalog.ActivityRepository
	categories catalog.CategoryRepository
	chat       ChatClient // nil means refinement is disabled
	trending   TrendingStore
	logger     *slog.Logger
	seed       func() int64
}

// NewService wires up the planner engine. chat may be nil, in which case the
// deterministic fallback handles all time allocation.
func NewService(cfg Config, groups GroupSource, activities catalog.ActivityRepository, categories catalog.CategoryRepository, chat ChatClient, trending TrendingStore, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		groups:     groups,
		activities: activities,
		categories: categories,
		chat:       chat,
		trending:   trending,
		logger:     logger.With("component", "planner.service"),
		seed:       func() int64 { return time.Now().UnixNano() },
	}
}

func (s *service) RecommendCategories(ctx context.Context, groupID string, topN int) ([]string, error) {
	if topN <= 0 {
		topN = s.cfg.TopN
	}
	g, err := s.groups.Snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "category listing failed", err)
	}

	type scored struct {
		name     string
		distance float64
	}
	var ranked []scored
	for _, category := range categories {
		if category.Type != catalog.TypePlay || category.PlayAttributes == nil {
			continue
		}
		ranked = append(ranked, scored{
			name:     category.Name,
			distance: prefs.PlayDistance(g.PlayPreferences, *category.PlayAttributes),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].distance < ranked[j].distance })
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out := make([]string, 0, len(ranked))
	for _, entry := range ranked {
		out = append(out, entry.name)
		if s.trending != nil {
			if err := s.trending.IncrementCategory(ctx, entry.name); err != nil {
				s.logger.Warn("trending increment failed", "category", entry.name, "error", err)
			}
		}
	}
	return out, nil
}

func (s *service) ComposeSchedules(ctx context.Context, groupID string, categoryNames []string, topN int) (Result, error) {
	if topN <= 0 {
		topN = s.cfg.TopN
	}
	if len(categoryNames) == 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidState, "at least one category is required", nil)
	}

	g, err := s.groups.Snapshot(ctx, groupID)
	if err != nil {
		return Result{}, err
	}
	if g.EndTime == nil {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidState, "group needs an end time before scheduling", nil)
	}
	if !g.EndTime.After(g.StartTime) {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidState, "group end time must be after start time", nil)
	}

	requested := s.mergeTimeHints(g, categoryNames)
	if len(requested) > s.cfg.MaxCategories {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidState,
			fmt.Sprintf("too many categories: %d exceeds the combination bound of %d", len(requested), s.cfg.MaxCategories), nil)
	}

	// Request-local randomness: concurrent requests never share RNG state.
	rng := rand.New(rand.NewSource(s.seed()))

	s.logger.Debug("collecting candidates", "group_id", g.ID, "categories", requested)
	pools := make([]pool, 0, len(requested))
	for _, entry := range requested {
		p, err := s.buildPool(ctx, g, entry.name, rng)
		if err != nil {
			if entry.hint && apperrors.IsCode(err, apperrors.CodeNotFound) {
				continue // hint categories are best-effort, unlike caller references
			}
			return Result{}, err
		}
		if p == nil {
			s.logger.Debug("category dropped, no activities", "category", entry.name)
			continue
		}
		pools = append(pools, *p)
	}
	if len(pools) == 0 {
		return Result{Outcome: OutcomeNoCandidates}, nil
	}

	s.logger.Debug("composing", "pools", len(pools))
	candidates := s.compose(pools)
	if len(candidates) == 0 {
		return Result{Outcome: OutcomeNoCombinations}, nil
	}

	s.logger.Debug("diversifying", "candidates", len(candidates), "top_n", topN)
	selected := s.diversify(candidates, topN)

	labels := make(map[string]string, len(pools))
	for _, p := range pools {
		labels[p.category.ID] = p.category.Name
	}

	s.logger.Debug("allocating", "schedules", len(selected))
	plans := make([]Plan, 0, len(selected))
	for i, c := range selected {
		// One best-effort refinement attempt for the leading schedule;
		// the alternatives use the deterministic split.
		activities, refined := s.allocate(ctx, c.activities, labels, g.StartTime, *g.EndTime, i == 0)
		plans = append(plans, Plan{Activities: activities, Score: c.score, Refined: refined})
	}
	return Result{Outcome: OutcomeOK, Schedules: plans}, nil
}

func (s *service) TrendingCategories(ctx context.Context, limit int) ([]TrendingCategory, error) {
	if s.trending == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	top, err := s.trending.TopCategories(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "trending lookup failed", err)
	}
	return top, nil
}

type requestedCategory struct {
	name string
	hint bool
}

// mergeTimeHints prepends the time-based hint categories and removes
// requested entries duplicating a hint, keeping the hint entry. Repetition
// among the caller's own categories is preserved: each occurrence draws an
// independent pool.
func (s *service) mergeTimeHints(g group.Group, names []string) []requestedCategory {
	var hints []string
	if g.EndTime != nil {
		hints = timeHintCategories(s.cfg, g.StartTime, *g.EndTime)
	}

	hinted := make(map[string]struct{}, len(hints))
	out := make([]requestedCategory, 0, len(hints)+len(names))
	for _, name := range hints {
		hinted[name] = struct{}{}
		out = append(out, requestedCategory{name: name, hint: true})
	}
	for _, name := range names {
		if _, ok := hinted[name]; ok {
			continue
		}
		out = append(out, requestedCategory{name: name})
	}
	return out
}
