// Package decay implements the Ebbinghaus forgetting curve that governs
// memory retention. Grounded in original_source/memz-core/src/decay.rs.
package decay

import (
	"math"

	"github.com/talgya/memkeep/internal/memory"
)

// ticksPerDay is the decay engine's own game-time conversion — it disagrees
// with ident.TicksPerDay (24,000) by design; see DESIGN.md Open Question 4.
const ticksPerDay = 72_000.0

// baseStrength is the base memory strength S: roughly ten game-days to reach
// ~37% retention for an unremarkable, once-seen memory.
const baseStrength = 10.0

// Ebbinghaus computes the core forgetting-curve retention R = e^(-t/S).
func Ebbinghaus(deltaDays, strength float64) float64 {
	if strength <= 0 {
		return 0
	}
	return math.Exp(-deltaDays / strength)
}

// MemoryStrength computes S from its contributing factors: importance,
// emotional intensity (flashbulb effect), rehearsal (access count), and the
// first-meeting bonus.
//
// S = base × (1+importance) × (1+|valence|) × max(1, log2(1+access_count)) × firstMeetingBonus
func MemoryStrength(importance, emotionalIntensity float32, accessCount uint32, isFirstMeeting bool) float64 {
	importanceFactor := 1.0 + float64(importance)
	emotionalFactor := 1.0 + float64(emotionalIntensity)
	rehearsalFactor := math.Max(1.0, math.Log2(1.0+float64(accessCount)))
	firstMeetingBonus := 1.0
	if isFirstMeeting {
		firstMeetingBonus = 1.5
	}
	return baseStrength * importanceFactor * emotionalFactor * rehearsalFactor * firstMeetingBonus
}

// EpisodicRetention computes the current retention of an episodic memory.
func EpisodicRetention(m *memory.Episodic, currentTick uint64) float64 {
	deltaDays := deltaDays(currentTick, m.Timestamp.Tick)
	strength := MemoryStrength(m.Importance, absf32(m.EmotionalValence), m.AccessCount, m.IsFirstMeeting)
	return Ebbinghaus(deltaDays, strength)
}

// SocialRetention computes the current retention of a social (gossip)
// memory. Social memories use a different strength formula: trust in the
// source, discounted by how many hops it has traveled, scaled to a base
// strength of ~10 for a fully-trusted first-hand source.
func SocialRetention(m *memory.Social, currentTick uint64) float64 {
	deltaDays := deltaDays(currentTick, m.ReceivedAt.Tick)
	chainPenalty := 1.0 / (1.0 + float64(m.PropagationDepth))
	strength := float64(m.TrustInSource) * chainPenalty * baseStrength
	return Ebbinghaus(deltaDays, strength)
}

func deltaDays(currentTick, formedTick uint64) float64 {
	if formedTick >= currentTick {
		return 0
	}
	return float64(currentTick-formedTick) / ticksPerDay
}

// DecayEpisodic filters memories below the retention threshold in place,
// keeping protected memories (first meetings, flashbulb-intensity valence)
// regardless of computed retention. Returns the surviving slice.
func DecayEpisodic(memories []*memory.Episodic, currentTick uint64, threshold float64) []*memory.Episodic {
	kept := memories[:0]
	for _, m := range memories {
		if m.IsFirstMeeting || absf32(m.EmotionalValence) > 0.8 {
			kept = append(kept, m)
			continue
		}
		if EpisodicRetention(m, currentTick) > threshold {
			kept = append(kept, m)
		}
	}
	return kept
}

// DecaySocial filters social memories below the retention threshold in
// place. Returns the surviving slice.
func DecaySocial(memories []*memory.Social, currentTick uint64, threshold float64) []*memory.Social {
	kept := memories[:0]
	for _, m := range memories {
		if SocialRetention(m, currentTick) > threshold {
			kept = append(kept, m)
		}
	}
	return kept
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
