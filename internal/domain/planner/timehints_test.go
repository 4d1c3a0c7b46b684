package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestTimeHintCategories(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []string
	}{
		{"afternoon gap", day(14, 30), day(17, 0), nil},
		{"lunch", day(12, 0), day(13, 0), []string{"restaurant"}},
		{"lunch boundary touch", day(10, 0), day(11, 30), nil},
		{"dinner", day(18, 0), day(19, 0), []string{"restaurant"}},
		{"evening drinks", day(21, 0), day(23, 0), []string{"bar"}},
		{"dinner into drinks", day(18, 0), day(22, 0), []string{"restaurant", "bar"}},
		{"full day dedupes meals", day(9, 0), day(23, 0), []string{"restaurant", "bar"}},
		{"inverted window", day(17, 0), day(15, 0), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, timeHintCategories(cfg, tc.start, tc.end))
		})
	}
}

func TestTimeHintCategories_OvernightWindow(t *testing.T) {
	cfg := DefaultConfig()

	// 23:00 to 01:00 crosses midnight and still hits the drinks window.
	start := day(23, 0)
	end := start.Add(2 * time.Hour)
	require.Equal(t, []string{"bar"}, timeHintCategories(cfg, start, end))

	// 22:00 to 12:30 next day reaches past the second day's lunch start.
	start = day(22, 0)
	end = start.Add(14*time.Hour + 30*time.Minute)
	require.Equal(t, []string{"restaurant", "bar"}, timeHintCategories(cfg, start, end))
}

func TestOverlapsDaily(t *testing.T) {
	// [900, 1020) vs lunch [690, 840)
	require.False(t, overlapsDaily(900, 1020, 690, 840))
	require.True(t, overlapsDaily(700, 720, 690, 840))
	// end-exclusive on the request span
	require.False(t, overlapsDaily(600, 690, 690, 840))
	// 23:00 through 13:30 next day reaches lunch via the +24h shift
	require.True(t, overlapsDaily(1380, 2190, 690, 840))
	require.False(t, overlapsDaily(1380, 2100, 690, 840))
}
