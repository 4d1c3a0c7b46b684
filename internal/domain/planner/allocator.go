package planner

import (
	"context"
	"time"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/group"
)

// ProposedSlot is one raw item returned by the refinement collaborator.
// Timestamps arrive as strings and are validated before use.
type ProposedSlot struct {
	ActivityID string `json:"activity_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// allocate turns an ordered activity sequence into concrete time slots.
// The refinement collaborator gets exactly one best-effort attempt; anything
// it returns is validated item by item, invalid items are dropped, and the
// deterministic equal-division fallback covers every failure mode.
func (s *service) allocate(ctx context.Context, seq []catalog.Activity, labels map[string]string, start, end time.Time, refine bool) ([]group.ScheduledActivity, bool) {
	if refine && s.chat != nil {
		if scheduled, ok := s.refinedAllocation(ctx, seq, labels, start, end); ok {
			return scheduled, true
		}
	}
	return equalDivision(seq, labels, start, end), false
}

func (s *service) refinedAllocation(ctx context.Context, seq []catalog.Activity, labels map[string]string, start, end time.Time) ([]group.ScheduledActivity, bool) {
	refineCtx, cancel := context.WithTimeout(ctx, s.cfg.RefineTimeout)
	defer cancel()

	slots, err := s.proposeSlots(refineCtx, seq, start, end)
	if err != nil {
		s.logger.Warn("schedule refinement unavailable, using fallback", "error", err)
		return nil, false
	}

	byActivity := make(map[string]ProposedSlot, len(slots))
	for _, slot := range slots {
		if _, dup := byActivity[slot.ActivityID]; !dup {
			byActivity[slot.ActivityID] = slot
		}
	}

	var out []group.ScheduledActivity
	for _, activity := range seq {
		slot, ok := byActivity[activity.ID]
		if !ok {
			continue
		}
		slotStart, err := parseTimestamp(slot.StartTime, start.Location())
		if err != nil {
			s.logger.Warn("dropping refined slot with bad start", "activity_id", slot.ActivityID, "error", err)
			continue
		}
		slotEnd, err := parseTimestamp(slot.EndTime, start.Location())
		if err != nil {
			s.logger.Warn("dropping refined slot with bad end", "activity_id", slot.ActivityID, "error", err)
			continue
		}
		if !slotEnd.After(slotStart) {
			s.logger.Warn("dropping refined slot with non-positive duration", "activity_id", slot.ActivityID)
			continue
		}
		out = append(out, scheduledActivity(activity, labels, slotStart, slotEnd))
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// equalDivision splits the window into contiguous, equal, back-to-back
// intervals, one per activity, preserving sequence order. The last interval
// ends exactly at the window end so rounding never leaks outside it.
func equalDivision(seq []catalog.Activity, labels map[string]string, start, end time.Time) []group.ScheduledActivity {
	if len(seq) == 0 {
		return nil
	}
	total := end.Sub(start)
	share := total / time.Duration(len(seq))

	out := make([]group.ScheduledActivity, 0, len(seq))
	cursor := start
	for i, activity := range seq {
		slotEnd := cursor.Add(share)
		if i == len(seq)-1 {
			slotEnd = end
		}
		out = append(out, scheduledActivity(activity, labels, cursor, slotEnd))
		cursor = slotEnd
	}
	return out
}

func scheduledActivity(activity catalog.Activity, labels map[string]string, start, end time.Time) group.ScheduledActivity {
	return group.ScheduledActivity{
		ActivityID:   activity.ID,
		Name:         activity.Name,
		CategoryName: labels[activity.CategoryID],
		Location:     activity.Location,
		StartTime:    start,
		EndTime:      end,
	}
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, loc)
}
