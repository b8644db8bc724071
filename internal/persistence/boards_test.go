package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/reputation"
)

func TestSaveAndLoadBoardRoundTrips(t *testing.T) {
	db := openTestDB(t)
	settlement := ident.NewSettlementID()
	ts := ident.Now(36_000)

	board := reputation.New(settlement, ts)
	board.ReportSentiment(ident.NewEntityID(), 0.6, ts)

	require.NoError(t, db.SaveBoard(settlement, board, ts.Tick))

	loaded, err := db.LoadBoard(settlement)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 1)
	assert.InDelta(t, float64(board.Entries[0].Score), float64(loaded.Entries[0].Score), 1e-6)
}

func TestLoadMissingBoardErrors(t *testing.T) {
	db := openTestDB(t)
	_, err := db.LoadBoard(ident.NewSettlementID())
	assert.Error(t, err)
}

func TestListSettlements(t *testing.T) {
	db := openTestDB(t)
	s1, s2 := ident.NewSettlementID(), ident.NewSettlementID()
	ts := ident.Now(0)

	require.NoError(t, db.SaveBoard(s1, reputation.New(s1, ts), 0))
	require.NoError(t, db.SaveBoard(s2, reputation.New(s2, ts), 0))

	settlements, err := db.ListSettlements()
	require.NoError(t, err)
	assert.Len(t, settlements, 2)
}
