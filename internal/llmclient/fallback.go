package llmclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/talgya/memkeep/internal/reputation"
)

// bardSystemTemplate mirrors original_source/memz-llm/src/prompt.rs's BARD_SYSTEM
// template, which composes a short verse about a dramatic event rather
// than a flat log line.
const bardSystemTemplate = `You are a wandering storyteller. Compose one short, memorable line (no more than 20 words) about the deed described below. Stay in character for a fantasy world; do not break the fourth wall.`

// Narrate turns a reputation.Deed into a short narrated line, for cosmetic
// use only (news tickers, bard songs, settlement chatter) — it sits off
// the hot path and is never consulted by any decision logic. If the
// client is disabled or the call fails or times out, it falls back to a
// deterministic template, matching the teacher's
// GenerateNewspaper/generateFallbackNewspaper split in
// internal/llm/newspaper.go.
func Narrate(ctx context.Context, c *Client, deed reputation.Deed) string {
	if !c.Enabled() {
		return fallbackNarration(deed)
	}

	prompt := fmt.Sprintf("The actor %s did the following: %q (valence %.2f, witnessed by %d).\nCompose your line.",
		deed.Actor.String(), deed.Description, deed.Valence, deed.WitnessCount)

	text, err := c.Complete(ctx, Request{
		System:    bardSystemTemplate,
		User:      prompt,
		MaxTokens: 80,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		return fallbackNarration(deed)
	}
	return strings.TrimSpace(text)
}

// fallbackNarration is the deterministic rule-based narration used when
// the LLM client is nil, the call errors, or the caller's deadline has
// already expired — see SPEC_FULL.md's llmclient/fallback.go note.
func fallbackNarration(deed reputation.Deed) string {
	tone := "is spoken of in the taverns"
	switch {
	case deed.Valence > 0.6:
		tone = "is celebrated as a hero's deed"
	case deed.Valence > 0.2:
		tone = "is well regarded"
	case deed.Valence < -0.6:
		tone = "is cursed as villainy"
	case deed.Valence < -0.2:
		tone = "is spoken of with suspicion"
	}
	return fmt.Sprintf("%s: %s", deed.Description, tone)
}
