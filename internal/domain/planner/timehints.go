package planner

import (
	"time"

	"github.com/playfriends/playfriends/pkg/util"
)

// Culturally fixed daily windows, in minutes from midnight. A group window
// overlapping one of these gets the matching category prepended to the
// request before preference-based ranking runs.
type hintWindow struct {
	fromMinute int
	toMinute   int
	category   func(Config) string
}

var hintWindows = []hintWindow{
	{11*60 + 30, 14 * 60, func(c Config) string { return c.MealCategory }},   // lunch
	{17*60 + 30, 20 * 60, func(c Config) string { return c.MealCategory }},   // dinner
	{20 * 60, 24 * 60, func(c Config) string { return c.BarCategory }},       // evening drinks
}

// timeHintCategories returns the hint category names for a group window, in
// rule-table order, deduplicated. Purely deterministic; no similarity logic.
func timeHintCategories(cfg Config, start, end time.Time) []string {
	if !end.After(start) {
		return nil
	}

	startMin := util.MinutesOfDay(start)
	endMin := startMin + int(end.Sub(start).Minutes())

	var out []string
	seen := make(map[string]struct{})
	for _, w := range hintWindows {
		if !overlapsDaily(startMin, endMin, w.fromMinute, w.toMinute) {
			continue
		}
		name := w.category(cfg)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// overlapsDaily tests whether the request span [start, end) — end may run
// past midnight — intersects a daily window, on the first or second day.
func overlapsDaily(startMin, endMin, from, to int) bool {
	for _, shift := range []int{0, 24 * 60} {
		if startMin < to+shift && endMin > from+shift {
			return true
		}
	}
	return false
}
