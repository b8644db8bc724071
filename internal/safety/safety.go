// Package safety implements the rule-based content-safety layers for
// player memory injection: length/pattern validation, a profanity-filter
// stub, and a game-breaking-claim plausibility check, plus an injection
// rate limiter. Grounded in original_source/memz-core/src/safety.rs.
package safety

import (
	"fmt"
	"strings"
	"unicode"
)

// VerdictKind classifies the outcome of a safety check.
type VerdictKind int

const (
	Approved VerdictKind = iota
	Flagged
	Rejected
)

// Verdict is the result of running content through a safety layer.
type Verdict struct {
	Kind   VerdictKind
	Reason string
	Score  float32 // populated only for Flagged
}

// Config bounds the client-side (Layer 1) validation rules.
type Config struct {
	MaxInjectionLengthChars uint32
	ContentFilterEnabled    bool
	ProfanityFilter         string
}

// DefaultConfig returns the pipeline's default safety thresholds.
func DefaultConfig() Config {
	return Config{
		MaxInjectionLengthChars: 500,
		ContentFilterEnabled:    true,
		ProfanityFilter:         "standard",
	}
}

var codePatterns = []string{
	"```", "<script", "select ", "drop table", "eval(", "exec(",
	"import ", "require(", "function ", "class ",
}

// ValidateLayer1 runs client-side rule checks: length, emptiness, URLs,
// code-like content, and an excessive-special-character heuristic.
func ValidateLayer1(content string, cfg Config) Verdict {
	if uint32(len(content)) > cfg.MaxInjectionLengthChars {
		return Verdict{Kind: Rejected, Reason: fmt.Sprintf("content too long: %d chars (max: %d)", len(content), cfg.MaxInjectionLengthChars)}
	}

	if strings.TrimSpace(content) == "" {
		return Verdict{Kind: Rejected, Reason: "content is empty"}
	}

	if strings.Contains(content, "http://") || strings.Contains(content, "https://") || strings.Contains(content, "www.") {
		return Verdict{Kind: Rejected, Reason: "URLs are not allowed in memory injections"}
	}

	lower := strings.ToLower(content)
	for _, pattern := range codePatterns {
		if strings.Contains(lower, pattern) {
			return Verdict{Kind: Rejected, Reason: "code-like content is not allowed in memory injections"}
		}
	}

	specialCount := 0
	for _, c := range content {
		if !isAlphanumericOrSpace(c) && !strings.ContainsRune(",.'\"!?;:-()", c) {
			specialCount++
		}
	}
	length := len(content)
	if length < 1 {
		length = 1
	}
	specialRatio := float32(specialCount) / float32(length)
	if specialRatio > 0.3 {
		return Verdict{Kind: Flagged, Reason: "high ratio of special characters", Score: specialRatio}
	}

	return Verdict{Kind: Approved}
}

// ValidateProfanity is a placeholder for a Layer-2 ML toxicity classifier.
// Shipping a hardcoded word list is both incomplete and culturally biased,
// so the rule-based fallback always approves.
func ValidateProfanity(content, profanityLevel string) Verdict {
	_ = content
	_ = profanityLevel
	return Verdict{Kind: Approved}
}

var rejectedPlausibilityPatterns = []string{
	"i am a god",
	"i am invincible",
	"i know the admin password",
	"give me infinite",
	"i can fly",
	"i am the developer",
	"i know all the quests",
	"i know where everything is",
}

// ValidatePlausibilityRuleBased is the rule-based fallback for Layer 3
// semantic validation: it rejects obvious game-breaking or meta-gaming
// claims. An LLM-backed tier can replace this for richer judgment.
func ValidatePlausibilityRuleBased(content string) Verdict {
	lower := strings.ToLower(content)
	for _, pattern := range rejectedPlausibilityPatterns {
		if strings.Contains(lower, pattern) {
			return Verdict{Kind: Rejected, Reason: fmt.Sprintf("memory contains game-breaking claim: '%s'", pattern)}
		}
	}
	return Verdict{Kind: Approved}
}

// ValidateInjection runs all safety layers (1, rule-based 2, rule-based 3)
// over a player-submitted memory injection.
func ValidateInjection(content string, cfg Config) Verdict {
	l1 := ValidateLayer1(content, cfg)
	if l1.Kind == Rejected {
		return l1
	}

	if cfg.ContentFilterEnabled {
		l2 := ValidateProfanity(content, cfg.ProfanityFilter)
		if l2.Kind == Rejected {
			return l2
		}
	}

	l3 := ValidatePlausibilityRuleBased(content)
	if l3.Kind == Rejected {
		return l3
	}

	if l1.Kind == Flagged {
		return l1
	}

	return Verdict{Kind: Approved}
}

// RateLimiter is a sliding-window rate limiter over injection attempts.
type RateLimiter struct {
	maxPerWindow  uint32
	windowSeconds uint64
	attempts      []uint64
}

// NewRateLimiter creates a rate limiter allowing maxPerWindow attempts per
// windowSeconds.
func NewRateLimiter(maxPerWindow uint32, windowSeconds uint64) *RateLimiter {
	return &RateLimiter{maxPerWindow: maxPerWindow, windowSeconds: windowSeconds}
}

// CheckAndRecord prunes attempts outside the window, then reports whether
// a new attempt at currentTimeSecs is allowed, recording it if so.
func (r *RateLimiter) CheckAndRecord(currentTimeSecs uint64) bool {
	cutoff := saturatingSub(currentTimeSecs, r.windowSeconds)

	kept := r.attempts[:0]
	for _, t := range r.attempts {
		if t >= cutoff {
			kept = append(kept, t)
		}
	}
	r.attempts = kept

	if uint32(len(r.attempts)) < r.maxPerWindow {
		r.attempts = append(r.attempts, currentTimeSecs)
		return true
	}
	return false
}

func isAlphanumericOrSpace(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || unicode.IsSpace(c)
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
