// Package conflict detects and resolves contradictory memories an NPC
// holds about the same entity — direct experience disagreeing with
// gossip, or gossip sources disagreeing with each other — which drives
// dramatic tension and unpredictable NPC behavior.
// Grounded in original_source/memz-core/src/conflict.rs.
package conflict

import (
	"fmt"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
)

// ClaimSourceKind classifies where a conflicting claim originated.
type ClaimSourceKind int

const (
	SourceDirectExperience ClaimSourceKind = iota
	SourceTrustedGossip
	SourceRumor
)

// ClaimSource describes provenance for a ConflictClaim; only the fields
// relevant to Kind are populated.
type ClaimSource struct {
	Kind   ClaimSourceKind
	Source ident.EntityID // TrustedGossip
	Trust  float32        // TrustedGossip
	Depth  uint32         // Rumor
}

// Claim is one side of a memory conflict.
type Claim struct {
	Description         string
	Source              ClaimSource
	Confidence          float32
	CorroborationCount  uint32
}

// State is a conflict's current resolution status.
type State int

const (
	StateActive State = iota
	StateResolvedPositive
	StateResolvedNegative
	StateFaded
	StateDismissed
)

// Conflict is a detected contradiction in an NPC's beliefs about a single
// entity.
type Conflict struct {
	ID             ident.MemoryID
	About          ident.EntityID
	PositiveClaim  Claim
	NegativeClaim  Claim
	State          State
	DetectedAt     ident.GameTimestamp
	Tension        float32
}

// DetectConflicts scans a memory bank for episodic-vs-social and
// social-vs-social contradictions whose tension meets minTension.
func DetectConflicts(bank *memory.Bank, minTension float32, currentTime ident.GameTimestamp) []*Conflict {
	var conflicts []*Conflict
	detectEpisodicVsSocial(bank, minTension, currentTime, &conflicts)
	detectSocialVsSocial(bank, minTension, currentTime, &conflicts)
	return conflicts
}

func detectEpisodicVsSocial(bank *memory.Bank, minTension float32, currentTime ident.GameTimestamp, conflicts *[]*Conflict) {
	seen := make(map[ident.EntityID]bool)
	var entities []ident.EntityID
	for _, m := range bank.Social {
		if !seen[m.About] {
			seen[m.About] = true
			entities = append(entities, m.About)
		}
	}

	for _, entity := range entities {
		ev, hasEpisodic := episodicValenceFor(bank, entity)
		sv, hasSocial := socialSentimentFor(bank, entity)
		if !hasEpisodic || !hasSocial {
			continue
		}

		if signum(ev) == signum(sv) || absf32(ev) <= 0.3 || absf32(sv) <= 0.3 {
			continue
		}

		tension := minf32(absf32(ev-sv)/2.0, 1.0)
		if tension < minTension {
			continue
		}

		var pos, neg Claim
		if ev > 0.0 {
			pos = Claim{
				Description:        "Direct experience suggests positive interactions",
				Source:             ClaimSource{Kind: SourceDirectExperience},
				Confidence:         minf32(absf32(ev), 1.0),
				CorroborationCount: episodicCountFor(bank, entity),
			}
			neg = Claim{
				Description:        "Gossip suggests negative reputation",
				Source:             ClaimSource{Kind: SourceRumor, Depth: 1},
				Confidence:         minf32(absf32(sv), 1.0),
				CorroborationCount: socialCountFor(bank, entity),
			}
		} else {
			pos = Claim{
				Description:        "Gossip suggests positive reputation",
				Source:             ClaimSource{Kind: SourceRumor, Depth: 1},
				Confidence:         minf32(absf32(sv), 1.0),
				CorroborationCount: socialCountFor(bank, entity),
			}
			neg = Claim{
				Description:        "Direct experience suggests negative interactions",
				Source:             ClaimSource{Kind: SourceDirectExperience},
				Confidence:         minf32(absf32(ev), 1.0),
				CorroborationCount: episodicCountFor(bank, entity),
			}
		}

		*conflicts = append(*conflicts, &Conflict{
			ID:            ident.NewMemoryID(),
			About:         entity,
			PositiveClaim: pos,
			NegativeClaim: neg,
			State:         StateActive,
			DetectedAt:    currentTime,
			Tension:       tension,
		})
	}
}

func detectSocialVsSocial(bank *memory.Bank, minTension float32, currentTime ident.GameTimestamp, conflicts *[]*Conflict) {
	byEntity := make(map[ident.EntityID][]*memory.Social)
	for _, m := range bank.Social {
		byEntity[m.About] = append(byEntity[m.About], m)
	}

	for entity, memories := range byEntity {
		if len(memories) < 2 {
			continue
		}

		var positive, negative []*memory.Social
		for _, m := range memories {
			switch {
			case m.Sentiment > 0.3:
				positive = append(positive, m)
			case m.Sentiment < -0.3:
				negative = append(negative, m)
			}
		}

		if len(positive) == 0 || len(negative) == 0 {
			continue
		}

		var posSum, negSum float32
		for _, m := range positive {
			posSum += m.Sentiment
		}
		for _, m := range negative {
			negSum += m.Sentiment
		}
		posAvg := posSum / float32(len(positive))
		negAvg := negSum / float32(len(negative))

		tension := minf32(absf32(posAvg-negAvg)/2.0, 1.0)
		if tension < minTension {
			continue
		}

		*conflicts = append(*conflicts, &Conflict{
			ID:    ident.NewMemoryID(),
			About: entity,
			PositiveClaim: Claim{
				Description:        fmt.Sprintf("%d source(s) say positive things", len(positive)),
				Source:             ClaimSource{Kind: SourceTrustedGossip, Source: positive[0].Source, Trust: positive[0].TrustInSource},
				Confidence:         absf32(posAvg),
				CorroborationCount: uint32(len(positive)),
			},
			NegativeClaim: Claim{
				Description:        fmt.Sprintf("%d source(s) say negative things", len(negative)),
				Source:             ClaimSource{Kind: SourceTrustedGossip, Source: negative[0].Source, Trust: negative[0].TrustInSource},
				Confidence:         absf32(negAvg),
				CorroborationCount: uint32(len(negative)),
			},
			State:      StateActive,
			DetectedAt: currentTime,
			Tension:    tension,
		})
	}
}

// AttemptResolution tries to settle an active conflict using evidence
// weight and the NPC's personality. Direct experience wins outright when
// it's 1.5x more confident than the opposing claim; otherwise corroboration
// count tips a weighted ratio, with credulous NPCs resolving faster and
// closed-minded NPCs (low openness) dismissing unresolvable conflicts.
func AttemptResolution(c *Conflict, credulity, openness float32) {
	if c.State != StateActive {
		return
	}

	if c.PositiveClaim.Source.Kind == SourceDirectExperience &&
		c.PositiveClaim.Confidence > c.NegativeClaim.Confidence*1.5 {
		c.State = StateResolvedPositive
		return
	}
	if c.NegativeClaim.Source.Kind == SourceDirectExperience &&
		c.NegativeClaim.Confidence > c.PositiveClaim.Confidence*1.5 {
		c.State = StateResolvedNegative
		return
	}

	posWeight := c.PositiveClaim.Confidence * (1.0 + float32(c.PositiveClaim.CorroborationCount)*0.2)
	negWeight := c.NegativeClaim.Confidence * (1.0 + float32(c.NegativeClaim.CorroborationCount)*0.2)
	ratio := posWeight / (posWeight + negWeight + 0.01)

	threshold := 0.65 - credulity*0.15

	switch {
	case ratio > threshold:
		c.State = StateResolvedPositive
	case ratio < (1.0 - threshold):
		c.State = StateResolvedNegative
	case openness < 0.3:
		c.State = StateDismissed
	}
}

func episodicValenceFor(bank *memory.Bank, entity ident.EntityID) (float32, bool) {
	var sum float32
	var count int
	for _, m := range bank.Episodic {
		if containsEntity(m.Participants, entity) {
			sum += m.EmotionalValence
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float32(count), true
}

func socialSentimentFor(bank *memory.Bank, entity ident.EntityID) (float32, bool) {
	var sum float32
	var count int
	for _, m := range bank.Social {
		if m.About == entity {
			sum += m.Sentiment
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float32(count), true
}

func episodicCountFor(bank *memory.Bank, entity ident.EntityID) uint32 {
	var count uint32
	for _, m := range bank.Episodic {
		if containsEntity(m.Participants, entity) {
			count++
		}
	}
	return count
}

func socialCountFor(bank *memory.Bank, entity ident.EntityID) uint32 {
	var count uint32
	for _, m := range bank.Social {
		if m.About == entity {
			count++
		}
	}
	return count
}

func containsEntity(ids []ident.EntityID, target ident.EntityID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func signum(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
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
