// Package llm talks to an OpenAI-compatible chat completions endpoint to score
// tasks for strategic value and to explain a ranking in plain language.
//
// Every failure surfaces as a ServiceUnavailableError so callers can fall back
// to their local behavior.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/priority"
)

// Defaults for an OpenAI endpoint.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 15 * time.Second
)

const service = "text generation service"

// Config configures a Client.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Client is an OpenAI-compatible chat completions client.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
}

var (
	_ priority.StrategicScorer = (*Client)(nil)
	_ priority.Explainer       = (*Client)(nil)
)

// New creates a Client. Empty fields take their defaults. A Client without an
// API key is valid but every call reports the service as unavailable.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func unavailable(err error) error {
	return clarityerrors.ServiceUnavailableError{Service: service, Err: err}
}

// complete sends one system and one user message and returns the reply text.
func (c *Client) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", unavailable(fmt.Errorf("no API key configured"))
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", unavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", unavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", unavailable(fmt.Errorf("chat request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", unavailable(fmt.Errorf("chat error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", unavailable(fmt.Errorf("decoding chat response: %w", err))
	}
	if len(out.Choices) == 0 {
		return "", unavailable(fmt.Errorf("chat response has no choices"))
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// stripFence removes a surrounding markdown code fence, which models often add
// around JSON replies.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
