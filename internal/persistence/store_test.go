package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memkeep.sqlite")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadRoundTrips(t *testing.T) {
	db := openTestDB(t)
	entity := ident.NewEntityID()
	ts := ident.Now(36_000)

	bank := memory.NewBank()
	bank.Episodic = append(bank.Episodic, memory.NewEpisodic("met a stranger", []ident.EntityID{ident.NewEntityID()}, ident.Location{}, ts, 0.4, 0.6))

	require.NoError(t, db.SaveBank(entity, bank, ts.Tick))

	loaded, err := db.LoadBank(entity)
	require.NoError(t, err)
	require.Len(t, loaded.Episodic, 1)
	assert.InDelta(t, float64(bank.Episodic[0].EmotionalValence), float64(loaded.Episodic[0].EmotionalValence), 1e-6)
	assert.Equal(t, bank.Episodic[0].Event, loaded.Episodic[0].Event)
}

func TestLoadMissingEntityErrors(t *testing.T) {
	db := openTestDB(t)
	_, err := db.LoadBank(ident.NewEntityID())
	assert.Error(t, err)
}

func TestDeleteBank(t *testing.T) {
	db := openTestDB(t)
	entity := ident.NewEntityID()
	bank := memory.NewBank()

	require.NoError(t, db.SaveBank(entity, bank, 0))
	require.NoError(t, db.DeleteBank(entity))

	_, err := db.LoadBank(entity)
	assert.Error(t, err)
}

func TestListEntitiesAndCount(t *testing.T) {
	db := openTestDB(t)
	e1, e2 := ident.NewEntityID(), ident.NewEntityID()

	require.NoError(t, db.SaveBank(e1, memory.NewBank(), 0))
	require.NoError(t, db.SaveBank(e2, memory.NewBank(), 0))

	count, err := db.EntityCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entities, err := db.ListEntities()
	require.NoError(t, err)
	assert.Len(t, entities, 2)
}

func TestSaveBankUpsertsExistingEntity(t *testing.T) {
	db := openTestDB(t)
	entity := ident.NewEntityID()

	require.NoError(t, db.SaveBank(entity, memory.NewBank(), 0))

	bank := memory.NewBank()
	bank.Semantic = append(bank.Semantic, memory.NewSemantic("the baker is kind", 0.7, nil, "person_knowledge", ident.Now(1000)))
	require.NoError(t, db.SaveBank(entity, bank, 1000))

	count, err := db.EntityCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "upsert should not create a second row")

	loaded, err := db.LoadBank(entity)
	require.NoError(t, err)
	assert.Len(t, loaded.Semantic, 1)
}
