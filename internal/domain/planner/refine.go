package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/infra/llm/chatgpt"
)

// ChatClient is the slice of the LLM client the planner consumes for the
// optional time-allocation refinement.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
	CountTokens(model, text string) (int, error)
}

const refinePrompt = `You are an expert trip planner. Create a realistic and enjoyable schedule from the given activities and time window.

Instructions:
1. Analyze the activities, considering their type (FOOD or PLAY).
2. Keep the given visiting order.
3. Allocate a reasonable amount of time per activity: meals usually take 1-1.5 hours, other activities 1-2 hours.
4. Schedule meals around lunch and dinner hours and alcoholic activities in the evening.
5. The whole schedule must fit between the start and end times.
6. Respond with a JSON array only; each element must carry activity_id, start_time and end_time in ISO 8601 format.`

// proposeSlots performs the single refinement attempt: build the prompt,
// budget its tokens, call the collaborator and extract the fenced JSON array.
func (s *service) proposeSlots(ctx context.Context, seq []catalog.Activity, start, end time.Time) ([]ProposedSlot, error) {
	prompt := buildRefineInput(seq, start, end)

	if s.cfg.PromptTokenLimit > 0 {
		tokens, err := s.chat.CountTokens(s.cfg.Model, refinePrompt+prompt)
		if err == nil && tokens > s.cfg.PromptTokenLimit {
			return nil, fmt.Errorf("refinement prompt exceeds token budget: %d > %d", tokens, s.cfg.PromptTokenLimit)
		}
	}

	resp, err := s.chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: refinePrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("refinement returned no choices")
	}
	if !resp.Usage.IsZero() {
		s.logger.Debug("refinement token usage",
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens)
	}

	payload, err := extractJSONArray(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	var slots []ProposedSlot
	if err := json.Unmarshal([]byte(payload), &slots); err != nil {
		return nil, fmt.Errorf("decode refinement payload: %w", err)
	}
	return slots, nil
}

func buildRefineInput(seq []catalog.Activity, start, end time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Start Time: %s\n", start.Format(time.RFC3339))
	fmt.Fprintf(&b, "End Time: %s\n", end.Format(time.RFC3339))
	b.WriteString("Activities:\n")
	for _, activity := range seq {
		fmt.Fprintf(&b, "- %s (ID: %s, Type: %s)\n", activity.Name, activity.ID, activity.Type)
	}
	return b.String()
}

// extractJSONArray accepts either a bare JSON array or one wrapped in a
// markdown code fence, the two shapes the collaborator produces.
func extractJSONArray(content string) (string, error) {
	content = strings.TrimSpace(content)
	if fenceStart := strings.Index(content, "```"); fenceStart != -1 {
		rest := content[fenceStart+3:]
		rest = strings.TrimPrefix(rest, "json")
		fenceEnd := strings.Index(rest, "```")
		if fenceEnd == -1 {
			return "", errors.New("unterminated code fence in refinement response")
		}
		content = strings.TrimSpace(rest[:fenceEnd])
	}
	if !strings.HasPrefix(content, "[") {
		return "", errors.New("refinement response carries no JSON array")
	}
	return content, nil
}
