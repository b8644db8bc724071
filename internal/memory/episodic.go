// Package memory defines the seven-variant memory taxonomy and the
// MemoryBank that aggregates them per agent. See design doc Section 3,
// grounded in original_source/memz-core/src/memory/*.rs.
package memory

import (
	"github.com/talgya/memkeep/internal/embedding"
	"github.com/talgya/memkeep/internal/ident"
)

// Episodic is a raw record of something the owning agent witnessed or
// participated in — "what happened." Grounded in Tulving's episodic memory
// theory (1972).
type Episodic struct {
	ID               ident.MemoryID      `json:"id"`
	Event            string              `json:"event"`
	Participants     []ident.EntityID    `json:"participants"`
	Location         ident.Location      `json:"location"`
	Timestamp        ident.GameTimestamp `json:"timestamp"`
	EmotionalValence float32             `json:"emotional_valence"`
	Importance       float32             `json:"importance"`
	DecayRate        float32             `json:"decay_rate"`
	Strength         float32             `json:"strength"`
	AccessCount      uint32              `json:"access_count"`
	LastAccessed     ident.GameTimestamp `json:"last_accessed"`
	IsFirstMeeting   bool                `json:"is_first_meeting"`
	Embedding        embedding.Vector    `json:"-"`
}

// NewEpisodic constructs an episodic memory with strength 1.0 and a decay
// rate derived from importance and emotional intensity: more important and
// more emotionally charged events fade slower.
func NewEpisodic(event string, participants []ident.EntityID, loc ident.Location, ts ident.GameTimestamp, valence, importance float32) *Episodic {
	ev := clamp(valence, -1, 1)
	imp := clamp(importance, 0, 1)
	const baseDecay = 0.05
	decayRate := baseDecay * (1 - imp*0.5) * (1 - absf32(ev)*0.3)

	return &Episodic{
		ID:               ident.NewMemoryID(),
		Event:            event,
		Participants:     participants,
		Location:         loc,
		Timestamp:        ts,
		EmotionalValence: ev,
		Importance:       imp,
		DecayRate:        decayRate,
		Strength:         1.0,
		LastAccessed:     ts,
	}
}

// WithFirstMeeting marks this memory as a protected first-meeting impression.
func (m *Episodic) WithFirstMeeting() *Episodic {
	m.IsFirstMeeting = true
	return m
}

// RecordAccess registers a recall, bumping access count and strengthening
// the memory slightly via the spacing/rehearsal effect (capped at 1.0).
func (m *Episodic) RecordAccess(now ident.GameTimestamp) {
	m.AccessCount++
	m.LastAccessed = now
	m.Strength = minf32(m.Strength+0.1, 1.0)
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

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
