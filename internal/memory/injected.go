package memory

import (
	"github.com/talgya/memkeep/internal/embedding"
	"github.com/talgya/memkeep/internal/ident"
)

// Priority classifies how strongly an injected memory should weigh in
// retrieval and behavior relative to organically-formed memories.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// Injected is a memory authored externally — by a player, a designer, or
// another out-of-band source — rather than formed through the agent's own
// observation pipeline. "My backstory."
type Injected struct {
	ID                 ident.MemoryID      `json:"id"`
	Content            string              `json:"content"`
	EmotionalWeight    float32             `json:"emotional_weight"`
	Timestamp          ident.GameTimestamp `json:"timestamp"`
	Priority           Priority            `json:"priority"`
	KnownToNPCs        []ident.EntityID    `json:"known_to_npcs"`
	IsFirstFiveMinutes bool                `json:"is_first_five_minutes"`
	Embedding          embedding.Vector    `json:"-"`
}

// NewInjected constructs an injected memory. Content is expected to have
// already passed the injection safety pipeline (see internal/injection).
func NewInjected(content string, emotionalWeight float32, ts ident.GameTimestamp, priority Priority) *Injected {
	return &Injected{
		ID:              ident.NewMemoryID(),
		Content:         content,
		EmotionalWeight: clamp(emotionalWeight, -1, 1),
		Timestamp:       ts,
		Priority:        priority,
	}
}

// WithFirstFiveMinutes marks this memory as part of the protected
// first-five-minutes onboarding window (immune to decay removal).
func (m *Injected) WithFirstFiveMinutes() *Injected {
	m.IsFirstFiveMinutes = true
	return m
}

// KnownTo reports whether the given NPC has been told about this memory.
func (m *Injected) KnownTo(npc ident.EntityID) bool {
	for _, id := range m.KnownToNPCs {
		if id == npc {
			return true
		}
	}
	return false
}

// ShareWith records that npc has now been told about this memory, if not
// already.
func (m *Injected) ShareWith(npc ident.EntityID) {
	if m.KnownTo(npc) {
		return
	}
	m.KnownToNPCs = append(m.KnownToNPCs, npc)
}
