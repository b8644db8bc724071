package propagation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
	"github.com/talgya/memkeep/internal/pad"
)

func makeClaim() *memory.Social {
	return memory.NewSocial(ident.NewEntityID(), ident.NewEntityID(), "player helped fight off bandits", 0.8, 0, ident.Now(36_000))
}

func TestCredulousNPCAcceptsGossip(t *testing.T) {
	claim := makeClaim()
	personality := pad.DefaultTraits()
	personality.Credulity = 0.9
	personality.Openness = 0.9

	result := Propagate(Input{
		Claim:                      claim,
		ReceiverPersonality:        personality,
		TrustInSource:              0.8,
		HasDirectExperience:        false,
		ExistingBeliefConsistency:  0.7,
		SourceReliability:          0.8,
		CurrentTime:                ident.Now(40_000),
	})

	assert.Equal(t, Accepted, result.Decision)
}

func TestSkepticalNPCRejectsGossip(t *testing.T) {
	claim := makeClaim()
	personality := pad.DefaultTraits()
	personality.Credulity = 0.1
	personality.Openness = 0.1

	result := Propagate(Input{
		Claim:                      claim,
		ReceiverPersonality:        personality,
		TrustInSource:              0.2,
		HasDirectExperience:        false,
		ExistingBeliefConsistency:  0.2,
		SourceReliability:          0.2,
		CurrentTime:                ident.Now(200_000),
	})

	assert.True(t, result.Decision == Rejected || result.Decision == Uncertain)
}

func TestDirectExperienceOverridesGossip(t *testing.T) {
	claim := makeClaim()
	personality := pad.DefaultTraits()
	sentiment := float32(0.9)

	result := Propagate(Input{
		Claim:                          claim,
		ReceiverPersonality:            personality,
		TrustInSource:                  0.5,
		HasDirectExperience:            true,
		DirectSentiment:                &sentiment,
		ExistingBeliefConsistency:      0.8,
		ReceiverEmotionalTowardSubject: 0.5,
		SourceReliability:              0.5,
		CurrentTime:                    ident.Now(40_000),
	})

	assert.Equal(t, Accepted, result.Decision)
}

func TestGossipChainDegrades(t *testing.T) {
	claim := makeClaim()
	claim.PropagationDepth = 3
	assert.True(t, IsPropagatable(claim))

	claim.PropagationDepth = 4
	assert.False(t, IsPropagatable(claim))
}

func TestTrustDecaysOverTime(t *testing.T) {
	trust := DecayTrust(1.0, 0.0, 0.01)
	assert.InDelta(t, 1.0, trust, 0.001)

	trustLater := DecayTrust(1.0, 100.0, 0.01)
	assert.Less(t, trustLater, float32(0.5))
}
