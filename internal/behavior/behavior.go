// Package behavior computes how an NPC's accumulated memories modify its
// actions: greetings, trade prices, combat stance, quest availability, and
// gossip selection. Grounded in original_source/memz-core/src/behavior.rs.
package behavior

import (
	"sort"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
)

// Basis classifies how a Disposition was computed.
type Basis int

const (
	BasisDirectExperience Basis = iota
	BasisHearsay
	BasisMixed
	BasisUnknown
)

// Disposition is an NPC's overall stance toward a specific entity.
type Disposition struct {
	Sentiment        float32 // -1.0 hostile .. +1.0 friendly
	Confidence       float32 // 0.0 no data .. 1.0 very certain
	InteractionCount uint32
	Basis            Basis

	// Populated only for the corresponding Basis.
	PositiveCount  uint32
	NegativeCount  uint32
	SourceCount    uint32
	AvgTrust       float32
	DirectWeight   float32
}

// RelationshipHint lets a caller (the game adapter) seed trust for a
// newly-introduced NPC pair before any social or episodic memory exists —
// the Go analogue of the teacher's baseline agent relationship state.
type RelationshipHint struct {
	Sentiment float32
	Trust     float32
}

// ComputeDisposition combines episodic, emotional, and social memories
// about target into a single disposition, weighting direct experience 3×
// over hearsay when both are present. If neither channel has data and hint
// is non-nil, the hint seeds a low-confidence disposition instead of a
// flat Unknown.
func ComputeDisposition(bank *memory.Bank, target ident.EntityID, hint *RelationshipHint) Disposition {
	direct := computeDirectSentiment(bank, target)
	social := computeSocialSentiment(bank, target)

	switch {
	case direct != nil && social != nil:
		const weight = 0.75
		combined := direct.Sentiment*weight + social.Sentiment*(1-weight)
		confidence := minf32(direct.Confidence*weight+social.Confidence*(1-weight), 1.0)
		return Disposition{
			Sentiment:        clamp(combined, -1, 1),
			Confidence:       confidence,
			InteractionCount: direct.InteractionCount + social.InteractionCount,
			Basis:            BasisMixed,
			DirectWeight:     weight,
		}
	case direct != nil:
		return *direct
	case social != nil:
		return *social
	case hint != nil:
		return Disposition{
			Sentiment:  clamp(hint.Sentiment, -1, 1),
			Confidence: clamp(hint.Trust, 0, 0.3),
			Basis:      BasisUnknown,
		}
	default:
		return Disposition{Basis: BasisUnknown}
	}
}

func computeDirectSentiment(bank *memory.Bank, target ident.EntityID) *Disposition {
	var relevantEpisodic []*memory.Episodic
	for _, m := range bank.Episodic {
		if containsEntity(m.Participants, target) {
			relevantEpisodic = append(relevantEpisodic, m)
		}
	}

	var relevantEmotional []*memory.Emotional
	for _, m := range bank.Emotional {
		if m.Target == target {
			relevantEmotional = append(relevantEmotional, m)
		}
	}

	if len(relevantEpisodic) == 0 && len(relevantEmotional) == 0 {
		return nil
	}

	var episodicSentiment float32
	if len(relevantEpisodic) > 0 {
		var totalWeight, weightedSum float32
		for _, m := range relevantEpisodic {
			w := m.Strength * m.Importance
			totalWeight += w
			weightedSum += m.EmotionalValence * w
		}
		if totalWeight != 0 {
			episodicSentiment = weightedSum / totalWeight
		}
	}

	var emotionalSentiment float32
	if len(relevantEmotional) > 0 {
		last := relevantEmotional[len(relevantEmotional)-1]
		sign := float32(-1.0)
		if last.PAD.Pleasure > 0 {
			sign = 1.0
		}
		emotionalSentiment = last.Intensity * sign
	}

	var positive, negative uint32
	for _, m := range relevantEpisodic {
		switch {
		case m.EmotionalValence > 0.1:
			positive++
		case m.EmotionalValence < -0.1:
			negative++
		}
	}

	sentiment := clamp(episodicSentiment*0.6+emotionalSentiment*0.4, -1, 1)
	count := uint32(len(relevantEpisodic) + len(relevantEmotional))
	confidence := minf32(float32(count)/10.0, 1.0)

	return &Disposition{
		Sentiment:        sentiment,
		Confidence:       confidence,
		InteractionCount: count,
		Basis:            BasisDirectExperience,
		PositiveCount:    positive,
		NegativeCount:    negative,
	}
}

func computeSocialSentiment(bank *memory.Bank, target ident.EntityID) *Disposition {
	var relevant []*memory.Social
	for _, m := range bank.Social {
		if m.About == target && m.Believed {
			relevant = append(relevant, m)
		}
	}
	if len(relevant) == 0 {
		return nil
	}

	var trustSum, weightedSum float32
	for _, m := range relevant {
		trustSum += m.TrustInSource
		weightedSum += m.Sentiment * m.TrustInSource
	}
	avgTrust := trustSum / float32(len(relevant))
	denom := maxf32(trustSum, 0.01)

	return &Disposition{
		Sentiment:        clamp(weightedSum/denom, -1, 1),
		Confidence:       minf32(avgTrust*float32(len(relevant))/5.0, 1.0),
		InteractionCount: uint32(len(relevant)),
		Basis:            BasisHearsay,
		SourceCount:      uint32(len(relevant)),
		AvgTrust:         avgTrust,
	}
}

// GreetingStyle is how an NPC opens an interaction with a target.
type GreetingStyle int

const (
	GreetingWarm GreetingStyle = iota
	GreetingNeutral
	GreetingCool
	GreetingHostile
	GreetingExcited
	GreetingSilent
)

// ComputeGreetingStyle maps a disposition onto a greeting.
func ComputeGreetingStyle(d Disposition) GreetingStyle {
	if d.Confidence < 0.1 {
		return GreetingNeutral
	}
	switch {
	case d.Sentiment > 0.6:
		return GreetingWarm
	case d.Sentiment > -0.2:
		return GreetingNeutral
	case d.Sentiment > -0.5:
		return GreetingCool
	case d.Sentiment > -0.8:
		return GreetingHostile
	default:
		return GreetingSilent
	}
}

// ComputePriceModifier maps disposition to a trade price multiplier,
// clamped to [0.75, 1.35] to prevent extreme prices.
func ComputePriceModifier(d Disposition) float32 {
	if d.Confidence < 0.05 {
		return 1.0
	}
	modifier := 1.0 - d.Sentiment*0.15
	return clamp(modifier, 0.75, 1.35)
}

// CombatDisposition is an NPC's fight/flee/negotiate stance toward a
// target.
type CombatDisposition int

const (
	CombatAggressive CombatDisposition = iota
	CombatDefensive
	CombatDiplomatic
	CombatFlee
	CombatDefault
)

// ComputeCombatDisposition derives a combat stance from disposition and
// bravery.
func ComputeCombatDisposition(d Disposition, bravery float32) CombatDisposition {
	if d.Confidence < 0.1 {
		return CombatDefault
	}
	aggression := -d.Sentiment * bravery
	switch {
	case aggression > 0.6:
		return CombatAggressive
	case aggression > 0.3:
		return CombatDefensive
	case d.Sentiment > 0.3:
		return CombatDiplomatic
	case bravery < 0.3 && d.Sentiment < -0.3:
		return CombatFlee
	default:
		return CombatDefault
	}
}

// CheckQuestEligibility reports whether player should be offered a quest,
// with a line of in-character dialogue explaining the decision.
func CheckQuestEligibility(bank *memory.Bank, player ident.EntityID, hint *RelationshipHint) (bool, string) {
	d := ComputeDisposition(bank, player, hint)

	if d.Sentiment < -0.5 && d.Confidence > 0.3 {
		return false, "I don't trust you enough for this task."
	}
	if d.Sentiment > 0.5 && d.Confidence > 0.3 {
		return true, "You've proven yourself reliable. I have something for you."
	}
	return true, "I have a task that needs doing."
}

// SelectGossip picks up to maxCount social memories worth sharing with
// listener: not about the listener, believed, not too deeply propagated —
// sorted by trust × chain-freshness.
func SelectGossip(bank *memory.Bank, listener ident.EntityID, maxCount int) []*memory.Social {
	var candidates []*memory.Social
	for _, m := range bank.Social {
		if m.About != listener && m.Believed && m.PropagationDepth < 3 {
			candidates = append(candidates, m)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		scoreI := candidates[i].TrustInSource * (1.0 / (1.0 + float32(candidates[i].PropagationDepth)))
		scoreJ := candidates[j].TrustInSource * (1.0 / (1.0 + float32(candidates[j].PropagationDepth)))
		return scoreI > scoreJ
	})

	if len(candidates) > maxCount {
		candidates = candidates[:maxCount]
	}
	return candidates
}

func containsEntity(ids []ident.EntityID, target ident.EntityID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
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
