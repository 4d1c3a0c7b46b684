package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playfriends/playfriends/internal/domain/catalog"
)

func TestExtractJSONArray(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`, false},
		{"fenced", "```json\n[1,2]\n```", "[1,2]", false},
		{"fenced no language tag", "```\n[1,2]\n```", "[1,2]", false},
		{"prose around fence", "Here you go:\n```json\n[]\n```\nEnjoy!", "[]", false},
		{"unterminated fence", "```json\n[1,2]", "", true},
		{"no array", "I cannot help with that.", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSONArray(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestProposeSlots_TokenBudgetEnforced(t *testing.T) {
	groups, cat := testFixture()
	chat := &stubChat{content: "[]"}
	svc := newTestService(groups, cat, chat, nil)
	svc.cfg.PromptTokenLimit = 1

	seq := []catalog.Activity{playActivity("a1", 0, 0)}
	_, err := svc.proposeSlots(context.Background(), seq, time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	require.Zero(t, chat.calls, "an over-budget prompt never reaches the collaborator")
}

func TestProposeSlots_DecodesSlots(t *testing.T) {
	groups, cat := testFixture()
	chat := &stubChat{content: "```json\n" +
		`[{"activity_id":"a1","start_time":"2026-03-14T15:00:00Z","end_time":"2026-03-14T16:00:00Z"}]` +
		"\n```"}
	svc := newTestService(groups, cat, chat, nil)

	seq := []catalog.Activity{playActivity("a1", 0, 0)}
	slots, err := svc.proposeSlots(context.Background(), seq,
		time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, "a1", slots[0].ActivityID)
}

func TestBuildRefineInput(t *testing.T) {
	seq := []catalog.Activity{
		playActivity("a1", 0, 0),
		foodActivity("a2", "SPICY"),
	}
	seq[0].Name = "Dice Den"
	seq[1].Name = "Omakase"

	got := buildRefineInput(seq,
		time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC))
	require.Contains(t, got, "Start Time: 2026-03-14T15:00:00Z")
	require.Contains(t, got, "End Time: 2026-03-14T17:00:00Z")
	require.Contains(t, got, "- Dice Den (ID: a1, Type: PLAY)")
	require.Contains(t, got, "- Omakase (ID: a2, Type: FOOD)")
}
