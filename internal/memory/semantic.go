package memory

import (
	"github.com/talgya/memkeep/internal/embedding"
	"github.com/talgya/memkeep/internal/ident"
)

// Semantic is a distilled fact or belief derived from episodic memories —
// "what I know." Grounded in Tulving's semantic memory theory (1985).
type Semantic struct {
	ID             ident.MemoryID      `json:"id"`
	Fact           string              `json:"fact"`
	Confidence     float32             `json:"confidence"`
	DerivedFrom    []ident.MemoryID    `json:"derived_from"`
	Category       string              `json:"category"`
	LastReinforced ident.GameTimestamp `json:"last_reinforced"`
	CreatedAt      ident.GameTimestamp `json:"created_at"`
	Embedding      embedding.Vector    `json:"-"`
}

// NewSemantic constructs a semantic memory derived from the given episodic
// sources.
func NewSemantic(fact string, confidence float32, derivedFrom []ident.MemoryID, category string, ts ident.GameTimestamp) *Semantic {
	return &Semantic{
		ID:             ident.NewMemoryID(),
		Fact:           fact,
		Confidence:     clamp(confidence, 0, 1),
		DerivedFrom:    derivedFrom,
		Category:       category,
		LastReinforced: ts,
		CreatedAt:      ts,
	}
}

// Reinforce adds a new corroborating source and nudges confidence upward.
func (m *Semantic) Reinforce(source ident.MemoryID, now ident.GameTimestamp) {
	m.DerivedFrom = append(m.DerivedFrom, source)
	m.Confidence = minf32(m.Confidence+0.1, 1.0)
	m.LastReinforced = now
}

// Contradict weakens confidence when conflicting evidence arrives.
func (m *Semantic) Contradict(amount float32) {
	m.Confidence = maxf32(m.Confidence-absf32(amount), 0.0)
}
