// Package injection is the player memory-injection pipeline: validate,
// sanitize, classify, and integrate a player-authored backstory memory
// into an NPC's memory bank. Grounded in
// original_source/memz-core/src/injection.rs.
package injection

import (
	"fmt"
	"strings"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
	"github.com/talgya/memkeep/internal/pad"
	"github.com/talgya/memkeep/internal/safety"
)

// Config bounds the injection pipeline's acceptance rules.
type Config struct {
	MaxPerNPCPerPlayer   int
	MaxContentLength     int
	LLMValidationEnabled bool
	MinPlausibility      float32
}

// DefaultConfig returns the pipeline's default limits.
func DefaultConfig() Config {
	return Config{
		MaxPerNPCPerPlayer:   3,
		MaxContentLength:     500,
		LLMValidationEnabled: false,
		MinPlausibility:      0.3,
	}
}

// ResultKind classifies the outcome of an injection attempt.
type ResultKind int

const (
	Accepted ResultKind = iota
	Rejected
	Pending
)

// Result is the outcome of InjectMemory.
type Result struct {
	Kind          ResultKind
	Memory        *memory.Injected // set only on Accepted
	Modifications []string         // set only on Accepted
	Reason        string           // set only on Rejected
	TrackingID    string           // set only on Pending
}

// InjectMemory validates and integrates a player-authored backstory memory
// into bank: rate limit, content length, rule-based safety layers,
// personality-gated plausibility, priority/emotional-weight classification,
// then whitespace sanitization and insertion.
func InjectMemory(content string, player ident.EntityID, npcPersonality pad.Traits, bank *memory.Bank, ts ident.GameTimestamp, cfg Config) Result {
	existingFromPlayer := 0
	for _, m := range bank.Injected {
		if m.KnownTo(player) {
			existingFromPlayer++
		}
	}
	if existingFromPlayer >= cfg.MaxPerNPCPerPlayer {
		return Result{Kind: Rejected, Reason: fmt.Sprintf(
			"this NPC already has %d backstory memories from you (max: %d)", existingFromPlayer, cfg.MaxPerNPCPerPlayer)}
	}

	if len(content) > cfg.MaxContentLength {
		return Result{Kind: Rejected, Reason: fmt.Sprintf(
			"content too long (%d chars, max: %d)", len(content), cfg.MaxContentLength)}
	}

	if strings.TrimSpace(content) == "" {
		return Result{Kind: Rejected, Reason: "content is empty"}
	}

	verdict := safety.ValidateInjection(content, safety.DefaultConfig())
	if verdict.Kind == safety.Rejected {
		return Result{Kind: Rejected, Reason: verdict.Reason}
	}

	plausibility := assessPlausibility(content, npcPersonality)
	if plausibility < cfg.MinPlausibility {
		return Result{Kind: Rejected, Reason: fmt.Sprintf(
			"this NPC doesn't find this backstory plausible (score: %.2f, min: %.2f)", plausibility, cfg.MinPlausibility)}
	}

	priority := classifyPriority(content)
	emotionalWeight := estimateEmotionalWeight(content)

	var modifications []string
	cleanContent := strings.Join(strings.Fields(content), " ")
	if cleanContent != content {
		modifications = append(modifications, "Normalized whitespace")
	}

	m := memory.NewInjected(cleanContent, emotionalWeight, ts, priority)
	m.ShareWith(player)
	bank.Injected = append(bank.Injected, m)

	return Result{Kind: Accepted, Memory: m, Modifications: modifications}
}

// assessPlausibility scores a backstory against NPC personality: more
// credulous and open NPCs accept more varied stories; obviously
// game-breaking claims are penalized regardless.
func assessPlausibility(content string, personality pad.Traits) float32 {
	const base = 0.5
	credulityBonus := personality.Credulity * 0.3
	opennessBonus := personality.Openness * 0.2

	lower := strings.ToLower(content)
	var implausibilityPenalty float32
	switch {
	case strings.Contains(lower, "killed a god") || strings.Contains(lower, "destroyed the world") ||
		strings.Contains(lower, "king of everything") || strings.Contains(lower, "immortal"):
		implausibilityPenalty = 0.4
	case strings.Contains(lower, "saved the kingdom") || strings.Contains(lower, "defeated an army"):
		implausibilityPenalty = 0.2
	}

	return clamp(base+credulityBonus+opennessBonus-implausibilityPenalty, 0, 1)
}

// classifyPriority buckets an injected memory's narrative weight from
// keyword cues.
func classifyPriority(content string) memory.Priority {
	lower := strings.ToLower(content)

	switch {
	case containsAny(lower, "tragedy", "lost", "died", "quest", "sworn"):
		return memory.PriorityHigh
	case containsAny(lower, "friend", "family", "home", "trained"):
		return memory.PriorityNormal
	default:
		return memory.PriorityLow
	}
}

var positiveWords = []string{"love", "friend", "happy", "saved", "helped", "kind", "brave", "joy"}
var negativeWords = []string{"hate", "enemy", "sad", "killed", "betrayed", "cruel", "fear", "loss"}

// estimateEmotionalWeight scores a backstory's emotional charge from
// keyword counts.
func estimateEmotionalWeight(content string) float32 {
	lower := strings.ToLower(content)

	var positive, negative float32
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive += 0.15
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative += 0.15
		}
	}

	return clamp(positive-negative, -1, 1)
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
