// Package retrieval implements the five-factor weighted memory retrieval
// engine. Grounded in original_source/memz-core/src/retrieval/{mod,scoring}.rs.
package retrieval

import (
	"math"

	"github.com/talgya/memkeep/internal/embedding"
	"github.com/talgya/memkeep/internal/memory"
)

// defaultDecayLambda is the Ebbinghaus decay constant used by the recency
// factor (per game-day) — distinct from internal/decay's per-memory
// strength model; this is the Stanford-generative-agents-style uniform
// decay the scoring function uses for ranking, not the survival curve used
// for culling.
const defaultDecayLambda = 0.05

const ticksPerDay = 72_000.0

// Breakdown is the per-factor contribution to a memory's retrieval score.
type Breakdown struct {
	Recency    float64
	Relevance  float64
	Importance float64
	Emotional  float64
	Social     float64
}

// Sum returns the combined weighted score.
func (b Breakdown) Sum() float64 {
	return b.Recency + b.Relevance + b.Importance + b.Emotional + b.Social
}

// Weights are the five scoring-factor weights.
type Weights struct {
	Recency    float32
	Relevance  float32
	Importance float32
	Emotional  float32
	Social     float32
}

// ComputeBreakdown scores a single memory entry against a context embedding
// and the current time, applying the given factor weights.
func ComputeBreakdown(entry memory.Entry, context embedding.Vector, currentTick uint64, w Weights) Breakdown {
	return Breakdown{
		Recency:    float64(w.Recency) * recencyScore(entry, currentTick),
		Relevance:  float64(w.Relevance) * relevanceScore(entry, context),
		Importance: float64(w.Importance) * importanceScore(entry),
		Emotional:  float64(w.Emotional) * emotionalScore(entry),
		Social:     float64(w.Social) * socialScore(entry),
	}
}

// recencyScore is the Ebbinghaus forgetting curve R = e^(-λ·ΔT). Semantic
// and emotional memories lack a single formation timestamp and return a
// flat 0.8 — stable knowledge/feeling is always "somewhat recent."
func recencyScore(entry memory.Entry, currentTick uint64) float64 {
	var memTick uint64
	switch entry.Variant {
	case memory.VariantEpisodic:
		memTick = entry.Episodic.Timestamp.Tick
	case memory.VariantSocial:
		memTick = entry.Social.ReceivedAt.Tick
	case memory.VariantReflective:
		memTick = entry.Reflective.GeneratedAt.Tick
	case memory.VariantProcedural:
		memTick = entry.Procedural.LastPracticed.Tick
	case memory.VariantInjected:
		memTick = entry.Injected.Timestamp.Tick
	default: // Semantic, Emotional
		return 0.8
	}

	deltaTicks := saturatingSub(currentTick, memTick)
	deltaDays := float64(deltaTicks) / ticksPerDay
	return math.Exp(-defaultDecayLambda * deltaDays)
}

// relevanceScore is the cosine similarity between the context embedding and
// the memory's own embedding, clamped to [0, 1]. Memory kinds without an
// embedding score a neutral 0.5.
func relevanceScore(entry memory.Entry, context embedding.Vector) float64 {
	var memEmbedding embedding.Vector
	switch entry.Variant {
	case memory.VariantEpisodic:
		memEmbedding = entry.Episodic.Embedding
	case memory.VariantSemantic:
		memEmbedding = entry.Semantic.Embedding
	case memory.VariantInjected:
		memEmbedding = entry.Injected.Embedding
	default:
		return 0.5
	}
	if len(memEmbedding) == 0 {
		return 0.5
	}
	sim := context.CosineSimilarity(memEmbedding)
	if sim < 0 {
		sim = 0
	}
	return float64(sim)
}

// importanceScore extracts each variant's own notion of importance,
// clamped to [0, 1].
func importanceScore(entry memory.Entry) float64 {
	var raw float32
	switch entry.Variant {
	case memory.VariantEpisodic:
		raw = entry.Episodic.Importance
	case memory.VariantSemantic:
		raw = entry.Semantic.Confidence
	case memory.VariantEmotional:
		raw = entry.Emotional.Intensity
	case memory.VariantSocial:
		raw = 0.5
	case memory.VariantReflective:
		raw = entry.Reflective.Confidence
	case memory.VariantProcedural:
		raw = entry.Procedural.Proficiency
	case memory.VariantInjected:
		raw = injectedImportance(entry.Injected)
	}
	return float64(clamp01(raw))
}

// injectedImportance derives an importance value from an injected memory's
// priority and emotional weight — the Go analogue of the Rust source's
// InjectedMemory::importance() method.
func injectedImportance(m *memory.Injected) float32 {
	base := float32(0.5)
	switch m.Priority {
	case memory.PriorityLow:
		base = 0.3
	case memory.PriorityHigh:
		base = 0.8
	}
	return clamp01(base + absf32(m.EmotionalWeight)*0.2)
}

// emotionalScore is |valence| for episodic memories, the raw
// intensity for emotional memories, the emotional weight for injected
// memories, and a small baseline for everything else.
func emotionalScore(entry memory.Entry) float64 {
	switch entry.Variant {
	case memory.VariantEpisodic:
		return float64(absf32(entry.Episodic.EmotionalValence))
	case memory.VariantEmotional:
		return float64(entry.Emotional.Intensity)
	case memory.VariantInjected:
		return float64(absf32(entry.Injected.EmotionalWeight))
	default:
		return 0.1
	}
}

// socialScore is trust_in_source × chain reliability for social memories,
// zero for everything else (correct, since the social weight defaults to
// only 0.10).
func socialScore(entry memory.Entry) float64 {
	if entry.Variant != memory.VariantSocial {
		return 0.0
	}
	return float64(entry.Social.TrustInSource * entry.Social.ChainReliability())
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
