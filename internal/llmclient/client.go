// Package llmclient wraps the real Anthropic SDK client for the memory
// engine's off-hot-path LLM calls (reflection prose, gossip embellishment,
// notable-deed narration). Grounded in the teacher's
// internal/llm/client.go (rate-limiting and nil-means-disabled idiom) and
// the example pack's intelligencedev-manifold/internal/llm/anthropic
// client (real anthropic-sdk-go wiring). Prompt shapes are grounded in
// original_source/memz-llm/src/{prompt.rs,types.rs}.
package llmclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// defaultModelName matches the teacher's pinned Haiku snapshot in
// internal/llm/client.go, expressed as the SDK's typed model string.
const defaultModelName = "claude-haiku-4-5-20251001"

const defaultMaxPerMin = 20

var defaultModel = anthropic.Model(defaultModelName)

// Request is the engine-wide LLM call contract (see SPEC_FULL.md §6):
// system prompt, user prompt, an optional grammar hint (unused by the
// Messages API directly, carried through for callers that template around
// a grammar the way the teacher's GBNF constants imply), a token budget,
// and a sampling temperature.
type Request struct {
	System      string
	User        string
	Grammar     string
	MaxTokens   int64
	Temperature float64
}

// Client wraps anthropic.Client with the teacher's manual per-minute rate
// limiter. A nil *Client means "LLM disabled" — every call site must check
// Enabled() and fall back to internal/llmclient/fallback.go's templates.
type Client struct {
	sdk anthropic.Client

	mu        sync.Mutex
	callCount int
	resetAt   time.Time
	maxPerMin int
}

// NewClient builds a Client from an API key. It returns nil if apiKey is
// empty, matching the teacher's disabled-by-default pattern for
// environments without a configured key.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		sdk:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		resetAt:   time.Now().Add(time.Minute),
		maxPerMin: defaultMaxPerMin,
	}
}

// Enabled reports whether c is non-nil and can serve calls.
func (c *Client) Enabled() bool {
	return c != nil
}

// Complete sends a single-turn request and returns the concatenated text
// of the response's text blocks. It enforces the per-minute rate limit
// before calling out, and logs token usage on success.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("llmclient: client disabled")
	}
	if err := c.reserveSlot(); err != nil {
		return "", err
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}

	params := anthropic.MessageNewParams{
		Model:     defaultModel,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llmclient: messages.new: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(v.Text)
		}
	}

	slog.Debug("llmclient: completion",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"cache_creation_tokens", resp.Usage.CacheCreationInputTokens,
		"cache_read_tokens", resp.Usage.CacheReadInputTokens,
	)

	return sb.String(), nil
}

// reserveSlot enforces the per-minute call budget, resetting the window
// when it has elapsed.
func (c *Client) reserveSlot() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.After(c.resetAt) {
		c.callCount = 0
		c.resetAt = now.Add(time.Minute)
	}
	if c.callCount >= c.maxPerMin {
		return fmt.Errorf("llmclient: rate limit exceeded (%d/min)", c.maxPerMin)
	}
	c.callCount++
	return nil
}
