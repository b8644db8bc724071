package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/memkeep/internal/behavior"
	"github.com/talgya/memkeep/internal/decay"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
	"github.com/talgya/memkeep/internal/pad"
	"github.com/talgya/memkeep/internal/propagation"
	"github.com/talgya/memkeep/internal/reputation"
)

// Scenario 1: positive history produces a discount.
func TestScenarioPositiveHistoryProducesDiscount(t *testing.T) {
	player := ident.NewEntityID()
	ts := ident.Now(36_000)
	bank := memory.NewBank()

	for i := 0; i < 5; i++ {
		bank.Episodic = append(bank.Episodic, memory.NewEpisodic("helped with a delivery", []ident.EntityID{player}, ident.Location{}, ts, 0.7, 0.5))
	}
	bank.Emotional = append(bank.Emotional, memory.NewEmotional(player, "gratitude", 0.8, pad.New(0.7, 0.3, 0.5), nil, ts))

	d := behavior.ComputeDisposition(bank, player, nil)
	require.Greater(t, d.Sentiment, float32(0))
	require.Greater(t, d.Confidence, float32(0))

	greeting := behavior.ComputeGreetingStyle(d)
	assert.Contains(t, []behavior.GreetingStyle{behavior.GreetingWarm, behavior.GreetingNeutral}, greeting)

	price := behavior.ComputePriceModifier(d)
	assert.Less(t, price, float32(1.0))
}

// Scenario 2: negative history produces a markup.
func TestScenarioNegativeHistoryProducesMarkup(t *testing.T) {
	player := ident.NewEntityID()
	ts := ident.Now(36_000)
	bank := memory.NewBank()

	for i := 0; i < 5; i++ {
		bank.Episodic = append(bank.Episodic, memory.NewEpisodic("betrayed my trust", []ident.EntityID{player}, ident.Location{}, ts, -0.8, 0.5))
	}
	bank.Emotional = append(bank.Emotional, memory.NewEmotional(player, "anger", 0.8, pad.New(-0.8, 0.6, 0.4), nil, ts))

	d := behavior.ComputeDisposition(bank, player, nil)
	greeting := behavior.ComputeGreetingStyle(d)
	assert.Contains(t, []behavior.GreetingStyle{behavior.GreetingCool, behavior.GreetingHostile, behavior.GreetingSilent}, greeting)

	price := behavior.ComputePriceModifier(d)
	assert.Greater(t, price, float32(1.0))
}

// Scenario 3: an unknown entity produces a neutral disposition.
func TestScenarioUnknownEntityIsNeutral(t *testing.T) {
	bank := memory.NewBank()
	target := ident.NewEntityID()

	d := behavior.ComputeDisposition(bank, target, nil)
	assert.Equal(t, float32(0), d.Sentiment)
	assert.Equal(t, float32(0), d.Confidence)
	assert.Equal(t, behavior.BasisUnknown, d.Basis)

	assert.Equal(t, behavior.GreetingNeutral, behavior.ComputeGreetingStyle(d))
	assert.InDelta(t, 1.0, float64(behavior.ComputePriceModifier(d)), 1e-6)
}

// Scenario 4: a flashbulb memory survives an enormous decay pass.
func TestScenarioFlashbulbSurvivesDecay(t *testing.T) {
	participant := ident.NewEntityID()
	formed := ident.Now(0)
	bank := memory.NewBank()
	bank.Episodic = append(bank.Episodic, memory.NewEpisodic("the dragon attacked the village", []ident.EntityID{participant}, ident.Location{}, formed, 0.95, 0.9))

	survivors := decay.DecayEpisodic(bank.Episodic, 72_000_000, 0.05)
	assert.Len(t, survivors, 1)
}

// Scenario 5: a gossip chain degrades and eventually becomes unpropagatable.
func TestScenarioGossipChainDegrades(t *testing.T) {
	subject := ident.NewEntityID()
	sourceA := ident.NewEntityID()
	ts := ident.Now(36_000)

	claim := memory.NewSocial(subject, sourceA, "they saved the harvest", 0.9, 0, ts)
	claim.Sentiment = 0.8

	credulous := pad.Traits{Credulity: 0.9, Openness: 0.8, GossipTendency: 0.7, EmotionalVolatility: 0.5, Bravery: 0.5}
	resultAB := propagation.Propagate(propagation.Input{
		Claim:                     claim,
		ReceiverPersonality:       credulous,
		TrustInSource:             0.9,
		ExistingBeliefConsistency: 0.8,
		SourceReliability:         0.9,
		CurrentTime:               ts,
	})
	require.Equal(t, propagation.Accepted, resultAB.Decision)
	require.NotNil(t, resultAB.NewMemory)
	assert.Equal(t, uint32(1), resultAB.NewMemory.PropagationDepth)

	lessTrusting := pad.Traits{Credulity: 0.4, Openness: 0.5, GossipTendency: 0.5, EmotionalVolatility: 0.5, Bravery: 0.5}
	resultBC := propagation.Propagate(propagation.Input{
		Claim:                     resultAB.NewMemory,
		ReceiverPersonality:       lessTrusting,
		TrustInSource:             0.4,
		ExistingBeliefConsistency: 0.4,
		SourceReliability:         0.4,
		CurrentTime:               ts,
	})
	assert.Contains(t, []propagation.Decision{propagation.Accepted, propagation.Uncertain}, resultBC.Decision)
	if resultBC.NewMemory != nil {
		assert.LessOrEqual(t, resultBC.NewMemory.PropagationDepth, uint32(2))
	}

	deepChain := memory.NewSocial(subject, sourceA, "rumor", 0.5, 4, ts)
	assert.False(t, propagation.IsPropagatable(deepChain))
}

// Scenario 6: reputation decays toward redemption and prunes near zero.
func TestScenarioReputationDecaysTowardRedemption(t *testing.T) {
	villain := ident.NewEntityID()
	ts := ident.Now(0)
	board := reputation.New(ident.NewSettlementID(), ts)

	for i := 0; i < 5; i++ {
		board.ReportSentiment(villain, 0.9, ts)
	}
	before := board.GetReputation(villain)
	require.NotNil(t, before)
	require.InDelta(t, 0.9, float64(before.Score), 1e-6)
	beforeScore := before.Score

	laterTs := ident.Now(10 * 72_000)
	board.DecayReputations(0.05, laterTs)

	after := board.GetReputation(villain)
	if after != nil {
		assert.Less(t, after.Score, beforeScore)
	}
}

// End-to-end: tick 10,000 is a multiple of both the reflection and the
// reputation-decay cadence, so one Tick enqueues reflection work and decays
// reputation together.
func TestOrchestratorRunsReflectionAndReputationCadencesOnSchedule(t *testing.T) {
	cfgOverrides := defaultTestConfig()
	orch := New(cfgOverrides, 16)

	entity := ident.NewEntityID()
	bank := memory.NewBank()
	for i := 0; i < 4; i++ {
		bank.Episodic = append(bank.Episodic, memory.NewEpisodic("routine day", []ident.EntityID{entity}, ident.Location{}, ident.Now(0), 0.1, 0.2))
	}
	orch.RegisterBank(entity, bank)

	settlement := ident.NewSettlementID()
	orch.RegisterBoard(settlement, reputation.New(settlement, ident.Now(0)))
	orch.Board(settlement).ReportSentiment(entity, 0.9, ident.Now(0))

	orch.Tick(ident.Now(reputationDecayCadence))

	stats := orch.Stats()
	assert.Equal(t, uint64(1), stats.TicksRun)
	assert.Greater(t, stats.ReflectionJobs, uint64(0))

	rep := orch.Board(settlement).GetReputation(entity)
	require.NotNil(t, rep)
	assert.Less(t, rep.Score, float32(0.9))
}

func TestOnContactPropagatesUpToTwoClaims(t *testing.T) {
	cfgOverrides := defaultTestConfig()
	orch := New(cfgOverrides, 16)

	speaker := ident.NewEntityID()
	listener := ident.NewEntityID()
	subject := ident.NewEntityID()
	ts := ident.Now(36_000)

	speakerBank := memory.NewBank()
	for i := 0; i < 5; i++ {
		claim := memory.NewSocial(subject, ident.NewEntityID(), "notable event", 0.9, 0, ts)
		claim.Sentiment = 0.9
		speakerBank.Social = append(speakerBank.Social, claim)
	}
	orch.RegisterBank(speaker, speakerBank)
	orch.RegisterBank(listener, memory.NewBank())

	result := orch.OnContact(speaker, listener, pad.Traits{Credulity: 0.9, Openness: 0.8, GossipTendency: 0.7, EmotionalVolatility: 0.5, Bravery: 0.5}, 0.9, ts)
	assert.LessOrEqual(t, result.Attempted, 2)
}
