// Package ai produces bot moves. The primary provider asks an
// OpenRouter-hosted model for a chaining word; a dictionary-backed
// provider covers deployments without an API key.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wfunc/wordchain/config"
	"github.com/wfunc/wordchain/game"
	"github.com/wfunc/wordchain/logger"
	"github.com/wfunc/wordchain/rules"
)

// Client asks a chat-completion model for the next word. Candidates are
// prechecked locally; the engine still re-validates every word, so a
// bad candidate costs the bot its turn, nothing more.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	maxRetries  int
	http        *http.Client
}

func NewClient(cfg config.AIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		maxRetries:  retries,
		http:        &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Request implements game.MoveProvider. It retries up to the configured
// bound and returns game.ErrNoMove once every attempt produced nothing
// playable.
func (c *Client) Request(ctx context.Context, lastLetter string, recent []string) (string, error) {
	prompt := buildPrompt(lastLetter, recent)
	avoid := make(map[string]struct{}, len(recent))
	for _, w := range recent {
		avoid[strings.ToLower(w)] = struct{}{}
	}

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		raw, err := c.complete(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			logger.Log.Warnf("AI move attempt %d/%d failed: %v", attempt, c.maxRetries, err)
			continue
		}
		word := Sanitize(raw)
		if playable(word, lastLetter, avoid) {
			return word, nil
		}
		logger.Log.Debugf("AI candidate %q (from %q) not playable, retrying", word, raw)
	}
	return "", game.ErrNoMove
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func buildPrompt(lastLetter string, recent []string) string {
	var b strings.Builder
	b.WriteString("We're playing an English word chain game. ")
	if lastLetter == "" {
		b.WriteString("Give one common English word between 3 and 15 letters.")
	} else {
		fmt.Fprintf(&b, "Give one common English word between 3 and 15 letters that starts with the letter '%s'.", lastLetter)
	}
	if len(recent) > 0 {
		fmt.Fprintf(&b, " Already used, do not repeat: %s.", strings.Join(recent, ", "))
	}
	b.WriteString(" Reply with the single word only, no punctuation.")
	return b.String()
}

// Sanitize extracts a lowercase word from a model reply: the first run
// of ASCII letters, quotes and trailing punctuation stripped.
func Sanitize(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	start := -1
	for i, r := range raw {
		if r >= 'a' && r <= 'z' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return raw[start:i]
		}
	}
	if start < 0 {
		return ""
	}
	return raw[start:]
}

// playable is the local precheck shared by the providers: correct
// format, correct first letter and not in the recent window.
func playable(word, lastLetter string, avoid map[string]struct{}) bool {
	if !rules.ValidFormat(word) {
		return false
	}
	if lastLetter != "" && !strings.HasPrefix(word, lastLetter) {
		return false
	}
	_, used := avoid[word]
	return !used
}
