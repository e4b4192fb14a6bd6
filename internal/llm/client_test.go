package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/priority"
)

func replyWith(t *testing.T, content string, captured *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func summaries() []priority.TaskSummary {
	return []priority.TaskSummary{
		{Index: 0, Type: "coding", EstimatedMinutes: 60, Complexity: 4, Scheduled: "09:00 AM", CurrentPriority: 75.5},
		{Index: 1, Type: "admin", EstimatedMinutes: 15, Complexity: 1, Scheduled: "06:00 PM", CurrentPriority: 44.2},
	}
}

func TestScoreStrategicValue(t *testing.T) {
	var got chatRequest
	srv := replyWith(t, `[{"index": 0, "strategic_value_score": 80, "reasoning": "core roadmap"},
		{"index": 1, "strategic_value_score": 20, "reasoning": "busywork"}]`, &got)

	c := New(Config{BaseURL: srv.URL + "/", APIKey: "sk-test"})
	scores, err := c.ScoreStrategicValue(context.Background(), summaries(), priority.StrategicRequest{Goals: "ship v2"})
	require.NoError(t, err)

	assert.Equal(t, []priority.StrategicScore{
		{Index: 0, Score: 80, Reasoning: "core roadmap"},
		{Index: 1, Score: 20, Reasoning: "busywork"},
	}, scores)

	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "ship v2")
	assert.Contains(t, got.Messages[1].Content, "Regular work day")
	assert.Contains(t, got.Messages[1].Content, `"current_priority_score": 75.5`)
}

func TestScoreStrategicValueStripsCodeFence(t *testing.T) {
	srv := replyWith(t, "```json\n[{\"index\": 1, \"strategic_value_score\": 55, \"reasoning\": \"ok\"}]\n```", nil)

	c := New(Config{BaseURL: srv.URL, APIKey: "sk-test"})
	scores, err := c.ScoreStrategicValue(context.Background(), summaries(), priority.StrategicRequest{})
	require.NoError(t, err)
	assert.Equal(t, []priority.StrategicScore{{Index: 1, Score: 55, Reasoning: "ok"}}, scores)
}

func TestExplain(t *testing.T) {
	var got chatRequest
	srv := replyWith(t, "  Start with the overdue task.  ", &got)

	c := New(Config{BaseURL: srv.URL, APIKey: "sk-test", Model: "local-model"})
	text, err := c.Explain(context.Background(), []priority.ExplainItem{{Rank: 1, Type: "coding"}})
	require.NoError(t, err)
	assert.Equal(t, "Start with the overdue task.", text)
	assert.Equal(t, "local-model", got.Model)
	assert.Contains(t, got.Messages[1].Content, "Top 1 tasks")
}

func TestUnavailable(t *testing.T) {
	calls := 0
	counting := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls++ }))
	t.Cleanup(counting.Close)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(failing.Close)

	slow := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	tests := []struct {
		name    string
		client  *Client
		wantMsg string
	}{
		{"no api key", New(Config{BaseURL: counting.URL}), "no API key"},
		{"http error", New(Config{BaseURL: failing.URL, APIKey: "sk-test"}), "429"},
		{"malformed reply", New(Config{BaseURL: replyWith(t, "I think task 0 matters most", nil).URL, APIKey: "sk-test"}), "malformed"},
		{"empty choices", New(Config{BaseURL: emptyChoices(t).URL, APIKey: "sk-test"}), "no choices"},
		{"timeout", New(Config{BaseURL: slow.URL, APIKey: "sk-test", Timeout: 50 * time.Millisecond}), "chat request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.client.ScoreStrategicValue(context.Background(), summaries(), priority.StrategicRequest{})

			var unavailable clarityerrors.ServiceUnavailableError
			require.ErrorAs(t, err, &unavailable)
			assert.True(t, strings.Contains(err.Error(), tt.wantMsg), "error %q should mention %q", err, tt.wantMsg)
		})
	}
	assert.Zero(t, calls, "an unconfigured client must not touch the network")
}

func emptyChoices(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnhanceDegradesWithUnconfiguredClient(t *testing.T) {
	ranked := []priority.Scored{{PriorityScore: 70, StrategicValueScore: priority.NeutralStrategicValue}}
	got, ok := priority.Enhance(context.Background(), ranked, New(Config{}), priority.StrategicRequest{}, priority.DefaultWeights())
	assert.False(t, ok)
	assert.Equal(t, ranked, got)
}
