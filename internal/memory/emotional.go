package memory

import (
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/pad"
)

// Trajectory describes whether an emotional association is strengthening,
// stable, or fading.
type Trajectory uint8

const (
	TrajectoryIncreasing Trajectory = iota
	TrajectoryStable
	TrajectoryDecreasing
)

// Emotional is a persistent feeling the agent holds toward a target —
// "how I feel." Uses the PAD model (Russell & Mehrabian, 1977).
type Emotional struct {
	ID          ident.MemoryID      `json:"id"`
	Target      ident.EntityID      `json:"target"`
	Emotion     string              `json:"emotion"`
	Intensity   float32             `json:"intensity"`
	PAD         pad.State           `json:"pad_state"`
	Trajectory  Trajectory          `json:"trajectory"`
	Basis       []ident.MemoryID    `json:"basis"`
	LastUpdated ident.GameTimestamp `json:"last_updated"`
}

// NewEmotional constructs an emotional memory toward target.
func NewEmotional(target ident.EntityID, emotion string, intensity float32, state pad.State, basis []ident.MemoryID, ts ident.GameTimestamp) *Emotional {
	return &Emotional{
		ID:          ident.NewMemoryID(),
		Target:      target,
		Emotion:     emotion,
		Intensity:   clamp(intensity, 0, 1),
		PAD:         state,
		Trajectory:  TrajectoryStable,
		Basis:       basis,
		LastUpdated: ts,
	}
}

// Update folds a new event into this emotional association, shifting
// intensity and PAD state and recording the trajectory change.
func (m *Emotional) Update(valenceShift, arousalShift float32, newBasis ident.MemoryID, now ident.GameTimestamp) {
	old := m.Intensity
	m.Intensity = clamp(m.Intensity+absf32(valenceShift)*0.1, 0, 1)
	m.PAD = pad.New(
		m.PAD.Pleasure+valenceShift*0.2,
		m.PAD.Arousal+arousalShift*0.2,
		m.PAD.Dominance,
	)
	m.Basis = append(m.Basis, newBasis)
	m.LastUpdated = now

	switch {
	case m.Intensity > old+0.05:
		m.Trajectory = TrajectoryIncreasing
	case m.Intensity < old-0.05:
		m.Trajectory = TrajectoryDecreasing
	default:
		m.Trajectory = TrajectoryStable
	}
}
