// Package propagation models the spread of gossip through NPC social
// networks: trust-weighted belief updates, chain degradation, and trust
// decay. Grounded in original_source/memz-core/src/social.rs.
package propagation

import (
	"fmt"
	"math"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
	"github.com/talgya/memkeep/internal/pad"
)

// beliefThreshold and hysteresis bound the three-way Accepted/Uncertain/
// Rejected decision so belief doesn't flip-flop near the boundary.
const (
	beliefThreshold = 0.5
	hysteresis      = 0.05

	// MaxChainDepth is the gossip-chain length beyond which a claim is a
	// worthless rumor.
	MaxChainDepth = 4

	ticksPerDay = 72_000.0
)

// Decision classifies the outcome of a propagation attempt.
type Decision int

const (
	Accepted Decision = iota
	Rejected
	Uncertain
)

// Result is the outcome of attempting to propagate a social memory to a
// receiving NPC.
type Result struct {
	Decision        Decision
	NewMemory       *memory.Social // set only when Decision == Accepted
	BeliefStrength  float32
	RejectReason    string
	WillInvestigate bool
}

// Input bundles everything Propagate needs about the receiving NPC and the
// claim's provenance.
type Input struct {
	Claim                        *memory.Social
	ReceiverPersonality          pad.Traits
	TrustInSource                float32
	HasDirectExperience          bool
	DirectSentiment              *float32 // nil if no direct opinion
	ExistingBeliefConsistency    float32
	ReceiverEmotionalTowardSubject float32
	SourceReliability            float32
	CurrentTime                  ident.GameTimestamp
}

// Propagate runs the Bayesian-inspired belief update over a gossip claim
// and decides whether the receiver accepts, rejects, or remains uncertain.
func Propagate(in Input) Result {
	priorWeight, hearsayWeight := float32(0.0), float32(1.0)
	if in.HasDirectExperience {
		priorWeight, hearsayWeight = 0.8, 0.2
	}

	directEvidence := float32(0.0)
	if in.DirectSentiment != nil {
		directEvidence = clamp01(*in.DirectSentiment)
	}

	credibility := in.TrustInSource*0.6 + in.SourceReliability*0.4
	consistency := in.ExistingBeliefConsistency

	personalityBias := in.ReceiverPersonality.Credulity
	openness := in.ReceiverPersonality.Openness

	var emotionalBias float32
	switch {
	case in.ReceiverEmotionalTowardSubject > 0.5:
		emotionalBias = -0.1
	case in.ReceiverEmotionalTowardSubject < -0.5:
		emotionalBias = 0.1
	}

	deltaTicks := saturatingSub(in.CurrentTime.Tick, in.Claim.ReceivedAt.Tick)
	daysSinceClaim := float32(deltaTicks) / ticksPerDay
	freshness := float32(math.Exp(float64(-0.1 * daysSinceClaim)))

	chainDiscount := 1.0 / (1.0 + float32(in.Claim.PropagationDepth))

	belief := clamp01(
		priorWeight*directEvidence +
			hearsayWeight*credibility*consistency*freshness*chainDiscount +
			personalityBias*openness*0.15 +
			emotionalBias,
	)

	switch {
	case belief > beliefThreshold+hysteresis:
		newMemory := memory.NewSocial(in.Claim.About, in.Claim.Source, in.Claim.Claim, in.TrustInSource, in.Claim.PropagationDepth+1, in.CurrentTime)
		return Result{Decision: Accepted, NewMemory: newMemory, BeliefStrength: belief}
	case belief < beliefThreshold-hysteresis:
		return Result{Decision: Rejected, BeliefStrength: belief, RejectReason: fmt.Sprintf("belief score too low: %.2f (threshold: %.2f)", belief, float32(beliefThreshold))}
	default:
		return Result{Decision: Uncertain, BeliefStrength: belief, WillInvestigate: openness > 0.5}
	}
}

// GossipProbability computes how likely an NPC is to share a given social
// memory during an interaction.
func GossipProbability(personality pad.Traits, memoryImportance, memoryEmotionalWeight float32) float32 {
	base := personality.GossipTendency
	boost := memoryImportance*0.3 + memoryEmotionalWeight*0.2
	return clamp01(base + boost)
}

// IsPropagatable reports whether a social memory is still worth passing
// along, or has degraded into worthless rumor.
func IsPropagatable(m *memory.Social) bool {
	return m.PropagationDepth < MaxChainDepth && m.TrustInSource > 0.1
}

// DecayTrust erodes trust over time without reinforcement:
// trust_new = trust × e^(-decay_rate × days).
func DecayTrust(currentTrust, daysWithoutInteraction, decayRate float32) float32 {
	decayed := currentTrust * float32(math.Exp(float64(-decayRate*daysWithoutInteraction)))
	return clamp01(decayed)
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
