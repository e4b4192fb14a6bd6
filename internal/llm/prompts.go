package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abatilo/clarity/internal/priority"
)

const (
	strategicSystem = "You are an expert executive coach helping managers prioritize effectively. " +
		"You understand the difference between urgent and important."
	explainSystem = "You are an executive coach. Give brief, actionable advice."
)

const strategicPrompt = `You are helping a manager prioritize their tasks for today.

Current Context:
%s

Manager's Current Goals:
%s

Tasks to prioritize:
%s

For each task, assign a strategic_value_score (0-100) based on:
- Alignment with stated goals
- Long-term impact vs short-term urgency
- Whether it unlocks other work
- Strategic importance for career/team/company

Important: Don't just favor urgent tasks. Sometimes non-urgent strategic work
(like planning, team development, process improvement) is more valuable long-term.

Respond ONLY with a JSON array like:
[
  {"index": 0, "strategic_value_score": 75, "reasoning": "Aligns with goal X"},
  {"index": 1, "strategic_value_score": 60, "reasoning": "Important but not urgent"}
]`

const explainPrompt = `Explain to a busy manager why these tasks are prioritized in this order.

Top %d tasks:
%s

Write 2-3 sentences explaining:
1. Why the #1 task should be done first
2. The overall logic of this prioritization
3. One actionable tip for executing this list

Keep it concise, practical, and motivating. Use a friendly, coaching tone.`

// ScoreStrategicValue asks the model for a strategic value per task.
func (c *Client) ScoreStrategicValue(ctx context.Context, tasks []priority.TaskSummary, req priority.StrategicRequest) ([]priority.StrategicScore, error) {
	situation := req.Context
	if situation == "" {
		situation = "Regular work day"
	}
	goals := req.Goals
	if goals == "" {
		goals = "General productivity and task completion"
	}
	listing, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, unavailable(err)
	}

	reply, err := c.complete(ctx, strategicSystem, fmt.Sprintf(strategicPrompt, situation, goals, listing), 0.7, 1000)
	if err != nil {
		return nil, err
	}

	var scores []priority.StrategicScore
	if err := json.Unmarshal([]byte(stripFence(reply)), &scores); err != nil {
		return nil, unavailable(fmt.Errorf("malformed strategic scores: %w", err))
	}
	return scores, nil
}

// Explain asks the model for a short rationale of the ranking.
func (c *Client) Explain(ctx context.Context, items []priority.ExplainItem) (string, error) {
	listing, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", unavailable(err)
	}
	return c.complete(ctx, explainSystem, fmt.Sprintf(explainPrompt, len(items), listing), 0.8, 300)
}
