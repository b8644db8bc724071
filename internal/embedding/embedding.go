// Package embedding provides the dense-vector embedding type used for
// semantic memory retrieval, plus the provider interfaces an engine
// deployment plugs a real embedding model into. See design doc Section 6.
package embedding

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Vector is a dense embedding, typically 384-dimensional
// (all-MiniLM-L6-v2-sized), used for cosine-similarity retrieval.
type Vector []float32

// CosineSimilarity returns the cosine similarity between two vectors,
// clamped implicitly to [-1, 1] by the math; returns 0 for mismatched
// lengths, empty vectors, or near-zero norms.
func (v Vector) CosineSimilarity(other Vector) float32 {
	if len(v) != len(other) || len(v) == 0 {
		return 0
	}
	a := make([]float64, len(v))
	b := make([]float64, len(other))
	for i := range v {
		a[i] = float64(v[i])
		b[i] = float64(other[i])
	}
	dot := floats.Dot(a, b)
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	denom := normA * normB
	if denom < 1e-9 {
		return 0
	}
	return float32(dot / denom)
}

// Dimensions reports the vector's length.
func (v Vector) Dimensions() int {
	return len(v)
}

// Provider computes embeddings for natural-language memory content. Real
// deployments wire this to a hosted or local embedding model; the engine
// itself never depends on a concrete implementation.
type Provider interface {
	Embed(ctx context.Context, text string) (Vector, error)
	Dimensions() int
}

// ZeroProvider returns a constant zero vector of the configured
// dimensionality. Used when embedding-backed retrieval is disabled —
// relevance scoring then falls back to the neutral factor per variant.
type ZeroProvider struct {
	Dims int
}

func (p ZeroProvider) Embed(_ context.Context, _ string) (Vector, error) {
	return make(Vector, p.Dims), nil
}

func (p ZeroProvider) Dimensions() int { return p.Dims }

// RandomProvider returns deterministic pseudo-random unit vectors seeded by
// a fixed source. Intended for tests that need embeddings to exist and
// differ without depending on a real model.
type RandomProvider struct {
	Dims int
	rng  *rand.Rand
}

// NewRandomProvider builds a RandomProvider seeded for reproducible test
// runs. dims is the vector length; seed fixes the pseudo-random sequence.
func NewRandomProvider(dims int, seed int64) *RandomProvider {
	return &RandomProvider{Dims: dims, rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomProvider) Embed(_ context.Context, _ string) (Vector, error) {
	v := make(Vector, p.Dims)
	var normSq float64
	for i := range v {
		f := p.rng.Float32()*2 - 1
		v[i] = f
		normSq += float64(f) * float64(f)
	}
	if normSq < 1e-12 {
		return v, nil
	}
	norm := float32(1 / math.Sqrt(normSq))
	for i := range v {
		v[i] *= norm
	}
	return v, nil
}

func (p *RandomProvider) Dimensions() int { return p.Dims }
