// Package reputation tracks per-settlement public reputation: NPC sentiment
// aggregated into a single visible score per entity, with tiers, decay, and
// notable deeds. Grounded in original_source/memz-core/src/reputation.rs.
package reputation

import (
	"math"
	"sort"

	"github.com/talgya/memkeep/internal/ident"
)

// Tier classifies a reputation score for player-facing display.
type Tier int

const (
	TierHero Tier = iota
	TierAlly
	TierFriendly
	TierNeutral
	TierUnfriendly
	TierOutcast
	TierVillain
)

// FromScore classifies a score into a tier.
func FromScore(score float32) Tier {
	switch {
	case score > 0.8:
		return TierHero
	case score > 0.4:
		return TierAlly
	case score > 0.1:
		return TierFriendly
	case score > -0.1:
		return TierNeutral
	case score > -0.4:
		return TierUnfriendly
	case score > -0.8:
		return TierOutcast
	default:
		return TierVillain
	}
}

// Description returns a human-readable summary of a tier, fit for display
// on a settlement's reputation board.
func (t Tier) Description() string {
	switch t {
	case TierHero:
		return "Revered Hero — the settlement celebrates your deeds"
	case TierAlly:
		return "Trusted Ally — you are welcome and respected here"
	case TierFriendly:
		return "Known Friend — people recognise and like you"
	case TierNeutral:
		return "Stranger — no one knows you yet"
	case TierUnfriendly:
		return "Unwelcome — people eye you with suspicion"
	case TierOutcast:
		return "Outcast — you are shunned and unwelcome"
	case TierVillain:
		return "Villain — you may be attacked on sight"
	default:
		return "Unknown"
	}
}

// Entry is a single entity's reputation within a settlement.
type Entry struct {
	Entity           ident.EntityID
	Score            float32
	Tier             Tier
	ContributorCount uint32
	LastUpdated      ident.GameTimestamp
}

// Deed is a notable act displayed on a settlement's reputation board.
type Deed struct {
	Actor        ident.EntityID
	Description  string
	Valence      float32
	Timestamp    ident.GameTimestamp
	WitnessCount uint32
}

// Board is a settlement's reputation board: one Entry per known entity,
// plus a ring of notable deeds.
type Board struct {
	Settlement   ident.SettlementID
	Entries      []*Entry
	NotableDeeds []Deed
	MaxEntries   int
	MaxDeeds     int
	LastRefresh  ident.GameTimestamp
}

// New creates an empty reputation board for a settlement.
func New(settlement ident.SettlementID, ts ident.GameTimestamp) *Board {
	return &Board{
		Settlement:  settlement,
		MaxEntries:  100,
		MaxDeeds:    20,
		LastRefresh: ts,
	}
}

// ReportSentiment folds one NPC's opinion of entity into the board's
// running-average score for that entity.
func (b *Board) ReportSentiment(entity ident.EntityID, sentiment float32, ts ident.GameTimestamp) {
	sentiment = clamp(sentiment, -1, 1)

	for _, e := range b.Entries {
		if e.Entity == entity {
			n := float32(e.ContributorCount)
			e.Score = (e.Score*n + sentiment) / (n + 1.0)
			e.ContributorCount++
			e.Tier = FromScore(e.Score)
			e.LastUpdated = ts
			return
		}
	}

	b.Entries = append(b.Entries, &Entry{
		Entity:           entity,
		Score:            sentiment,
		Tier:             FromScore(sentiment),
		ContributorCount: 1,
		LastUpdated:      ts,
	})

	if len(b.Entries) > b.MaxEntries {
		sort.SliceStable(b.Entries, func(i, j int) bool {
			if b.Entries[i].ContributorCount != b.Entries[j].ContributorCount {
				return b.Entries[i].ContributorCount > b.Entries[j].ContributorCount
			}
			return absf32(b.Entries[i].Score) > absf32(b.Entries[j].Score)
		})
		b.Entries = b.Entries[:b.MaxEntries]
	}
}

// RecordDeed adds a notable deed to the board, pruning the least
// impactful (smallest |valence|) entries once over capacity.
func (b *Board) RecordDeed(deed Deed) {
	b.NotableDeeds = append(b.NotableDeeds, deed)

	if len(b.NotableDeeds) > b.MaxDeeds {
		sort.SliceStable(b.NotableDeeds, func(i, j int) bool {
			return absf32(b.NotableDeeds[i].Valence) > absf32(b.NotableDeeds[j].Valence)
		})
		b.NotableDeeds = b.NotableDeeds[:b.MaxDeeds]
	}
}

// GetReputation returns an entity's reputation entry, if known.
func (b *Board) GetReputation(entity ident.EntityID) *Entry {
	for _, e := range b.Entries {
		if e.Entity == entity {
			return e
		}
	}
	return nil
}

// GetTier returns an entity's tier, defaulting to Neutral if unknown.
func (b *Board) GetTier(entity ident.EntityID) Tier {
	if e := b.GetReputation(entity); e != nil {
		return e.Tier
	}
	return TierNeutral
}

const ticksPerDay = 72_000.0

// DecayReputations exponentially decays every entry's score toward
// neutral, allowing redemption over time, and prunes entries that have
// decayed to effectively neutral (|score| <= 0.05).
func (b *Board) DecayReputations(decayRate float32, ts ident.GameTimestamp) {
	for _, e := range b.Entries {
		daysSinceUpdate := float32(saturatingSub(ts.Tick, e.LastUpdated.Tick)) / ticksPerDay
		decay := float32(math.Exp(float64(-decayRate * daysSinceUpdate)))
		e.Score *= decay
		e.Tier = FromScore(e.Score)
	}

	kept := b.Entries[:0]
	for _, e := range b.Entries {
		if absf32(e.Score) > 0.05 {
			kept = append(kept, e)
		}
	}
	b.Entries = kept
	b.LastRefresh = ts
}

// TopHeroes returns the count highest-scoring entries, descending.
func (b *Board) TopHeroes(count int) []*Entry {
	sorted := append([]*Entry(nil), b.Entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if len(sorted) > count {
		sorted = sorted[:count]
	}
	return sorted
}

// TopVillains returns the count lowest-scoring entries, ascending.
func (b *Board) TopVillains(count int) []*Entry {
	sorted := append([]*Entry(nil), b.Entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score < sorted[j].Score })
	if len(sorted) > count {
		sorted = sorted[:count]
	}
	return sorted
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

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
