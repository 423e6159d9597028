// Package oracle asks a text-generation API whether a window title still
// serves a declared goal.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-haiku-4-5"
	requestTimeout = 8 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

// ErrUnconfigured indicates no API key is set. Callers degrade to
// assuming relevance.
var ErrUnconfigured = errors.New("oracle: no API key configured")

// Oracle judges whether a window title is relevant to a goal.
type Oracle interface {
	Relevant(ctx context.Context, goal, title string) (bool, error)
}

// Client implements Oracle against an Anthropic-style messages API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewClient creates a client. Returns nil if the key is empty; a nil
// *Client is a valid Oracle that reports ErrUnconfigured.
func NewClient(apiKey, model, baseURL string) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

const systemPrompt = "You judge whether a browser tab serves a stated work goal. " +
	"Answer with exactly one word: YES if the page plausibly serves the goal, NO otherwise."

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Relevant asks the API whether the title serves the goal.
func (c *Client) Relevant(ctx context.Context, goal, title string) (bool, error) {
	if c == nil {
		return true, ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: 8,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: fmt.Sprintf("Goal: %s\nTab title: %s", goal, title)},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return true, fmt.Errorf("oracle: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return true, fmt.Errorf("oracle: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("oracle: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return true, fmt.Errorf("oracle: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return true, fmt.Errorf("oracle: reading response: %w", err)
	}

	var mr messagesResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return true, fmt.Errorf("oracle: parsing response: %w", err)
	}

	return ParseVerdict(firstText(mr)), nil
}

func firstText(mr messagesResponse) string {
	for _, c := range mr.Content {
		if c.Type == "text" {
			return c.Text
		}
	}
	return ""
}

// ParseVerdict interprets the model's one-word answer. Anything that is
// not an unambiguous NO counts as relevant.
func ParseVerdict(text string) bool {
	answer := strings.ToUpper(strings.TrimSpace(text))
	return !strings.HasPrefix(answer, "NO")
}
