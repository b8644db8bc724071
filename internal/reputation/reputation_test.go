package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/memkeep/internal/ident"
)

func makeBoard() *Board {
	return New(ident.NewSettlementID(), ident.Now(36_000))
}

func TestReportSentimentCreatesEntry(t *testing.T) {
	board := makeBoard()
	player := ident.NewEntityID()
	ts := ident.Now(36_000)

	board.ReportSentiment(player, 0.8, ts)

	rep := board.GetReputation(player)
	assert.NotNil(t, rep)
	assert.InDelta(t, 0.8, rep.Score, 0.01)
	assert.Equal(t, TierAlly, rep.Tier)
	assert.Equal(t, uint32(1), rep.ContributorCount)
}

func TestMultipleSentimentsAveraged(t *testing.T) {
	board := makeBoard()
	player := ident.NewEntityID()
	ts := ident.Now(36_000)

	board.ReportSentiment(player, 0.8, ts)
	board.ReportSentiment(player, 0.4, ts)
	board.ReportSentiment(player, 0.6, ts)

	rep := board.GetReputation(player)
	assert.InDelta(t, 0.6, rep.Score, 0.01)
	assert.Equal(t, uint32(3), rep.ContributorCount)
}

func TestReputationTiers(t *testing.T) {
	assert.Equal(t, TierHero, FromScore(0.9))
	assert.Equal(t, TierAlly, FromScore(0.5))
	assert.Equal(t, TierFriendly, FromScore(0.2))
	assert.Equal(t, TierNeutral, FromScore(0.0))
	assert.Equal(t, TierUnfriendly, FromScore(-0.2))
	assert.Equal(t, TierOutcast, FromScore(-0.5))
	assert.Equal(t, TierVillain, FromScore(-0.9))
}

func TestReputationDecay(t *testing.T) {
	board := makeBoard()
	player := ident.NewEntityID()

	board.ReportSentiment(player, 0.9, ident.Now(0))
	board.DecayReputations(0.1, ident.Now(720_000))

	rep := board.GetReputation(player)
	if rep != nil {
		assert.Less(t, rep.Score, float32(0.9))
	}
}

func TestDecayPrunesNeutralEntries(t *testing.T) {
	board := makeBoard()
	player := ident.NewEntityID()

	board.ReportSentiment(player, 0.06, ident.Now(0))
	board.DecayReputations(5.0, ident.Now(7_200_000))

	assert.Nil(t, board.GetReputation(player))
}

func TestNotableDeeds(t *testing.T) {
	board := makeBoard()
	player := ident.NewEntityID()
	ts := ident.Now(36_000)

	board.RecordDeed(Deed{
		Actor:        player,
		Description:  "Defended the village from a dragon attack",
		Valence:      0.9,
		Timestamp:    ts,
		WitnessCount: 15,
	})

	assert.Len(t, board.NotableDeeds, 1)
	assert.Equal(t, uint32(15), board.NotableDeeds[0].WitnessCount)
}

func TestTopHeroesAndVillains(t *testing.T) {
	board := makeBoard()
	hero := ident.NewEntityID()
	villain := ident.NewEntityID()
	neutral := ident.NewEntityID()
	ts := ident.Now(36_000)

	board.ReportSentiment(hero, 0.9, ts)
	board.ReportSentiment(villain, -0.8, ts)
	board.ReportSentiment(neutral, 0.0, ts)

	heroes := board.TopHeroes(1)
	assert.Len(t, heroes, 1)
	assert.Equal(t, hero, heroes[0].Entity)

	villains := board.TopVillains(1)
	assert.Len(t, villains, 1)
	assert.Equal(t, villain, villains[0].Entity)
}

func TestUnknownEntityIsNeutral(t *testing.T) {
	board := makeBoard()
	unknown := ident.NewEntityID()

	assert.Equal(t, TierNeutral, board.GetTier(unknown))
}
