package memory

import (
	"github.com/talgya/memkeep/internal/ident"
)

// Social is a piece of information received from another agent — gossip or
// hearsay — "what I've heard." Grounded in Dunbar's social brain hypothesis
// (1996).
type Social struct {
	ID                ident.MemoryID      `json:"id"`
	About             ident.EntityID      `json:"about"`
	Source            ident.EntityID      `json:"source"`
	Claim             string              `json:"claim"`
	Believed          bool                `json:"believed"`
	DisbeliefReason   string              `json:"disbelief_reason,omitempty"`
	TrustInSource     float32             `json:"trust_in_source"`
	PropagationDepth  uint32              `json:"propagation_depth"`
	ReceivedAt        ident.GameTimestamp `json:"received_at"`
	Sentiment         float32             `json:"sentiment"`
}

// NewSocial constructs a social memory from a gossip transmission. believed
// defaults naively to trust > 0.5 at construction and is never reset by
// trust decay — see DESIGN.md Open Question 2.
func NewSocial(about, source ident.EntityID, claim string, trustInSource float32, propagationDepth uint32, ts ident.GameTimestamp) *Social {
	trust := clamp(trustInSource, 0, 1)
	return &Social{
		ID:               ident.NewMemoryID(),
		About:            about,
		Source:           source,
		Claim:            claim,
		Believed:         trust > 0.5,
		TrustInSource:    trust,
		PropagationDepth: propagationDepth,
		ReceivedAt:       ts,
	}
}

// Accept marks the claim believed, as invoked by conflict resolution.
func (m *Social) Accept() {
	m.Believed = true
	m.DisbeliefReason = ""
}

// Reject marks the claim disbelieved with a recorded reason.
func (m *Social) Reject(reason string) {
	m.Believed = false
	m.DisbeliefReason = reason
}

// ChainReliability is the telephone-game degradation factor: 1.0 for a
// first-hand witness, decreasing with each additional hop.
func (m *Social) ChainReliability() float32 {
	return 1.0 / (1.0 + float32(m.PropagationDepth))
}
