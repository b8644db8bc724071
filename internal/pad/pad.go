// Package pad implements the Pleasure-Arousal-Dominance emotional model
// (Russell & Mehrabian, 1977) and the Big-Five-inspired personality traits
// that modulate it. See design doc Section 3.
package pad

import "math"

// State is a PAD emotional state. Each axis ranges -1.0..1.0.
type State struct {
	Pleasure  float32 `json:"pleasure"`
	Arousal   float32 `json:"arousal"`
	Dominance float32 `json:"dominance"`
}

// Neutral is the zero emotional state.
var Neutral = State{}

// New clamps the given axes to [-1, 1] and returns the resulting state.
func New(pleasure, arousal, dominance float32) State {
	return State{
		Pleasure:  clamp(pleasure, -1, 1),
		Arousal:   clamp(arousal, -1, 1),
		Dominance: clamp(dominance, -1, 1),
	}
}

// Intensity is the magnitude of the PAD vector.
func (s State) Intensity() float32 {
	return float32(math.Sqrt(float64(s.Pleasure*s.Pleasure + s.Arousal*s.Arousal + s.Dominance*s.Dominance)))
}

// Lerp blends two PAD states; t=0 returns s, t=1 returns other.
func (s State) Lerp(other State, t float32) State {
	t = clamp(t, 0, 1)
	return New(
		s.Pleasure+(other.Pleasure-s.Pleasure)*t,
		s.Arousal+(other.Arousal-s.Arousal)*t,
		s.Dominance+(other.Dominance-s.Dominance)*t,
	)
}

// Traits are Big-Five-inspired personality traits, each 0.0..1.0, that
// modulate memory formation, retrieval weighting, and behavior dispositions.
type Traits struct {
	// Credulity: how easily the NPC believes rumors (0 skeptic, 1 gullible).
	Credulity float32 `json:"credulity"`
	// Openness: willingness to entertain new experiences and ideas.
	Openness float32 `json:"openness"`
	// GossipTendency: how likely the NPC is to share what it knows.
	GossipTendency float32 `json:"gossip_tendency"`
	// EmotionalVolatility: how strongly events shift emotional state.
	EmotionalVolatility float32 `json:"emotional_volatility"`
	// Bravery: how confrontational the NPC is under threat.
	Bravery float32 `json:"bravery"`
}

// DefaultTraits returns the neutral 0.5-across-the-board personality.
func DefaultTraits() Traits {
	return Traits{
		Credulity:           0.5,
		Openness:            0.5,
		GossipTendency:      0.5,
		EmotionalVolatility: 0.5,
		Bravery:             0.5,
	}
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
