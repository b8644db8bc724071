package retrieval

import (
	"sort"

	"github.com/talgya/memkeep/internal/config"
	"github.com/talgya/memkeep/internal/embedding"
	"github.com/talgya/memkeep/internal/memory"
)

// Result is a single scored retrieval hit.
type Result struct {
	Entry     memory.Entry
	Score     float64
	Breakdown Breakdown
}

// PersonalityOverrides multiplies the base weights per-NPC — a sentimental
// character weighs emotional factor higher, a logical one weighs relevance
// higher. A zero-value override multiplies every weight by 0; fields left
// unset are not defaulted to 1.0, so use NeutralOverrides for a no-op
// default.
type PersonalityOverrides struct {
	RecencyMult    float32
	RelevanceMult  float32
	ImportanceMult float32
	EmotionalMult  float32
	SocialMult     float32
}

// NeutralOverrides applies no personality skew.
func NeutralOverrides() PersonalityOverrides {
	return PersonalityOverrides{1, 1, 1, 1, 1}
}

// Engine is the top-K memory retrieval engine: five weighted factors,
// ranked, truncated.
type Engine struct {
	cfg config.RetrievalConfig
}

// New creates a retrieval engine bound to a retrieval config.
func New(cfg config.RetrievalConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Retrieve scores every memory in entries against the context embedding and
// current tick, applying optional personality weight overrides, then
// returns the top-K results sorted by descending score.
//
// Performance target: well under the per-frame budget for a few hundred
// memories — this is a single linear pass plus a sort, no allocation-heavy
// machinery beyond the result slice itself.
func (e *Engine) Retrieve(context embedding.Vector, entries []memory.Entry, currentTick uint64, overrides *PersonalityOverrides) []Result {
	w := e.cfg.Weights
	weights := Weights{
		Recency:    w.Recency,
		Relevance:  w.Relevance,
		Importance: w.Importance,
		Emotional:  w.Emotional,
		Social:     w.Social,
	}
	if overrides != nil {
		weights.Recency *= overrides.RecencyMult
		weights.Relevance *= overrides.RelevanceMult
		weights.Importance *= overrides.ImportanceMult
		weights.Emotional *= overrides.EmotionalMult
		weights.Social *= overrides.SocialMult
	}

	results := make([]Result, len(entries))
	for i, entry := range entries {
		breakdown := ComputeBreakdown(entry, context, currentTick, weights)
		results[i] = Result{Entry: entry, Score: breakdown.Sum(), Breakdown: breakdown}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	topK := e.cfg.TopK
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
