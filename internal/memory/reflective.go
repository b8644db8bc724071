package memory

import "github.com/talgya/memkeep/internal/ident"

// Reflective is an insight the agent has drawn about itself or the world,
// produced off the hot path by asynchronous reflection over clusters of
// episodic memories — "what I think."
type Reflective struct {
	ID            ident.MemoryID      `json:"id"`
	Insight       string              `json:"insight"`
	Confidence    float32             `json:"confidence"`
	SourceMemories []ident.MemoryID   `json:"source_memories"`
	GeneratedAt   ident.GameTimestamp `json:"generated_at"`
}

// NewReflective constructs a reflective memory derived from the given source
// memories.
func NewReflective(insight string, confidence float32, sources []ident.MemoryID, ts ident.GameTimestamp) *Reflective {
	return &Reflective{
		ID:             ident.NewMemoryID(),
		Insight:        insight,
		Confidence:     clamp(confidence, 0, 1),
		SourceMemories: sources,
		GeneratedAt:    ts,
	}
}
