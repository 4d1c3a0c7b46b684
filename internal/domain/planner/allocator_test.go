package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playfriends/playfriends/internal/domain/catalog"
)

var allocWindow = struct {
	start time.Time
	end   time.Time
}{
	start: time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
	end:   time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC),
}

func TestEqualDivision_Contiguous(t *testing.T) {
	seq := []catalog.Activity{
		playActivity("a", 0, 0),
		playActivity("b", 0, 0),
		playActivity("c", 0, 0),
	}
	labels := map[string]string{}

	out := equalDivision(seq, labels, allocWindow.start, allocWindow.end)
	require.Len(t, out, 3)
	require.Equal(t, allocWindow.start, out[0].StartTime)
	require.Equal(t, allocWindow.end, out[2].EndTime)
	for i := 1; i < len(out); i++ {
		require.Equal(t, out[i-1].EndTime, out[i].StartTime)
	}
}

func TestEqualDivision_LastSlotAbsorbsRemainder(t *testing.T) {
	// 100 minutes over 3 activities does not divide evenly; the final slot
	// must still close exactly on the window end.
	end := allocWindow.start.Add(100 * time.Minute)
	seq := []catalog.Activity{
		playActivity("a", 0, 0), playActivity("b", 0, 0), playActivity("c", 0, 0),
	}

	out := equalDivision(seq, nil, allocWindow.start, end)
	require.Equal(t, end, out[2].EndTime)
	require.True(t, out[2].EndTime.After(out[2].StartTime))
}

func TestEqualDivision_Empty(t *testing.T) {
	require.Nil(t, equalDivision(nil, nil, allocWindow.start, allocWindow.end))
}

func TestAllocate_RefinedSlotsApplied(t *testing.T) {
	groups, cat := testFixture()
	chat := &stubChat{content: `[
		{"activity_id":"a1","start_time":"2026-03-14T15:00:00Z","end_time":"2026-03-14T16:30:00Z"},
		{"activity_id":"a2","start_time":"2026-03-14T16:30:00Z","end_time":"2026-03-14T17:00:00Z"}
	]`}
	svc := newTestService(groups, cat, chat, nil)

	seq := []catalog.Activity{playActivity("a1", 0, 0), playActivity("a2", 0, 0)}
	out, refined := svc.allocate(context.Background(), seq, nil, allocWindow.start, allocWindow.end, true)
	require.True(t, refined)
	require.Len(t, out, 2)
	require.Equal(t, 90*time.Minute, out[0].EndTime.Sub(out[0].StartTime))
	require.Equal(t, 30*time.Minute, out[1].EndTime.Sub(out[1].StartTime))
}

func TestAllocate_DuplicateSlotFirstWins(t *testing.T) {
	groups, cat := testFixture()
	chat := &stubChat{content: `[
		{"activity_id":"a1","start_time":"2026-03-14T15:00:00Z","end_time":"2026-03-14T16:00:00Z"},
		{"activity_id":"a1","start_time":"2026-03-14T16:00:00Z","end_time":"2026-03-14T17:00:00Z"}
	]`}
	svc := newTestService(groups, cat, chat, nil)

	seq := []catalog.Activity{playActivity("a1", 0, 0)}
	out, refined := svc.allocate(context.Background(), seq, nil, allocWindow.start, allocWindow.end, true)
	require.True(t, refined)
	require.Len(t, out, 1)
	require.Equal(t, allocWindow.start, out[0].StartTime)
}

func TestAllocate_InvalidSlotsDropped(t *testing.T) {
	groups, cat := testFixture()
	chat := &stubChat{content: `[
		{"activity_id":"a1","start_time":"not a time","end_time":"2026-03-14T16:00:00Z"},
		{"activity_id":"a2","start_time":"2026-03-14T16:30:00Z","end_time":"2026-03-14T16:30:00Z"},
		{"activity_id":"a3","start_time":"2026-03-14T15:00:00Z","end_time":"2026-03-14T16:00:00Z"}
	]`}
	svc := newTestService(groups, cat, chat, nil)

	seq := []catalog.Activity{
		playActivity("a1", 0, 0), playActivity("a2", 0, 0), playActivity("a3", 0, 0),
	}
	out, refined := svc.allocate(context.Background(), seq, nil, allocWindow.start, allocWindow.end, true)
	require.True(t, refined)
	require.Len(t, out, 1)
	require.Equal(t, "a3", out[0].ActivityID)
}

func TestAllocate_AllSlotsInvalidFallsBack(t *testing.T) {
	groups, cat := testFixture()
	chat := &stubChat{content: `[{"activity_id":"a1","start_time":"bogus","end_time":"bogus"}]`}
	svc := newTestService(groups, cat, chat, nil)

	seq := []catalog.Activity{playActivity("a1", 0, 0), playActivity("a2", 0, 0)}
	out, refined := svc.allocate(context.Background(), seq, nil, allocWindow.start, allocWindow.end, true)
	require.False(t, refined)
	require.Len(t, out, 2)
	require.Equal(t, allocWindow.start, out[0].StartTime)
	require.Equal(t, allocWindow.end, out[1].EndTime)
}

func TestAllocate_ChatErrorFallsBack(t *testing.T) {
	groups, cat := testFixture()
	chat := &stubChat{err: errors.New("timeout")}
	svc := newTestService(groups, cat, chat, nil)

	seq := []catalog.Activity{playActivity("a1", 0, 0)}
	out, refined := svc.allocate(context.Background(), seq, nil, allocWindow.start, allocWindow.end, true)
	require.False(t, refined)
	require.Len(t, out, 1)
}

func TestAllocate_RefineSkippedForAlternatives(t *testing.T) {
	groups, cat := testFixture()
	chat := &stubChat{content: `[{"activity_id":"a1","start_time":"2026-03-14T15:00:00Z","end_time":"2026-03-14T17:00:00Z"}]`}
	svc := newTestService(groups, cat, chat, nil)

	seq := []catalog.Activity{playActivity("a1", 0, 0)}
	_, refined := svc.allocate(context.Background(), seq, nil, allocWindow.start, allocWindow.end, false)
	require.False(t, refined)
	require.Zero(t, chat.calls)
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)

	got, err := parseTimestamp("2026-03-14T15:00:00Z", loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC), got.UTC())

	// Naive timestamps inherit the window's location.
	got, err = parseTimestamp("2026-03-14T15:00:00", loc)
	require.NoError(t, err)
	require.Equal(t, loc, got.Location())
	require.Equal(t, 15, got.Hour())

	_, err = parseTimestamp("March 14th, 3pm", loc)
	require.Error(t, err)
}
