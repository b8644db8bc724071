// Package persistence is the memory engine's SQLite-backed bank store.
// Directly descended from the teacher's internal/persistence/db.go: same
// sqlx.Open("sqlite", ...) + modernc.org/sqlite driver pairing, same
// migration-via-CREATE-TABLE-IF-NOT-EXISTS + tolerant ALTER TABLE
// pattern, same SaveX/LoadX naming. Instead of per-column agent rows, the
// core now owns bank serialization itself (JSON, per SPEC_FULL.md §6's
// "JSON round-trip to float-equality within 1e-6" property) and
// persistence stores only addressed-by-entity opaque bytes plus a
// checksum.
package persistence

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memerr"
	"github.com/talgya/memkeep/internal/memory"
)

// DB wraps a SQLite connection for memory-bank persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, memerr.Database("open db", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, memerr.Database("migrate", err)
	}
	if err := db.migrateBoards(); err != nil {
		conn.Close()
		return nil, memerr.Database("migrate boards", err)
	}
	if err := db.migrateEmbeddings(); err != nil {
		conn.Close()
		return nil, memerr.Database("migrate embeddings", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS banks (
		entity_id BLOB PRIMARY KEY,
		payload BLOB NOT NULL,
		checksum INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}

	// Columns that may not exist in older databases.
	migrations := []string{
		"ALTER TABLE banks ADD COLUMN schema_version INTEGER NOT NULL DEFAULT 1",
	}
	for _, m := range migrations {
		db.conn.Exec(m) // Ignore errors — column may already exist.
	}

	return nil
}

// SaveBank serializes bank to JSON and upserts it for entity, storing a
// CRC32 checksum of the payload alongside it.
func (db *DB) SaveBank(entity ident.EntityID, bank *memory.Bank, updatedAtTick uint64) error {
	payload, err := json.Marshal(bank)
	if err != nil {
		return memerr.Serialization(fmt.Sprintf("marshal bank %s", entity), err)
	}
	checksum := crc32.ChecksumIEEE(payload)

	idBytes, err := uuid.UUID(entity).MarshalBinary()
	if err != nil {
		return memerr.Serialization(fmt.Sprintf("marshal entity id %s", entity), err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO banks (entity_id, payload, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			payload = excluded.payload,
			checksum = excluded.checksum,
			updated_at = excluded.updated_at`,
		idBytes, payload, checksum, updatedAtTick,
	)
	if err != nil {
		return memerr.Database(fmt.Sprintf("save bank %s", entity), err)
	}
	return nil
}

// LoadBank reads entity's bank back from the store, verifying its stored
// checksum. A checksum mismatch is logged and the payload is still
// returned best-effort — corruption here is a warning, never fatal, per
// SPEC_FULL.md §7.
func (db *DB) LoadBank(entity ident.EntityID) (*memory.Bank, error) {
	idBytes, err := uuid.UUID(entity).MarshalBinary()
	if err != nil {
		return nil, memerr.Serialization(fmt.Sprintf("marshal entity id %s", entity), err)
	}

	var row struct {
		Payload  []byte `db:"payload"`
		Checksum uint32 `db:"checksum"`
	}
	err = db.conn.Get(&row, `SELECT payload, checksum FROM banks WHERE entity_id = ?`, idBytes)
	if err != nil {
		return nil, memerr.EntityNotFound(entity)
	}

	if crc32.ChecksumIEEE(row.Payload) != row.Checksum {
		slog.Warn("persistence: checksum mismatch on load", "entity", entity.String())
	}

	bank := &memory.Bank{}
	if err := json.Unmarshal(row.Payload, bank); err != nil {
		return nil, memerr.Serialization(fmt.Sprintf("unmarshal bank %s", entity), err)
	}
	return bank, nil
}

// DeleteBank removes entity's stored bank, if any.
func (db *DB) DeleteBank(entity ident.EntityID) error {
	idBytes, err := uuid.UUID(entity).MarshalBinary()
	if err != nil {
		return memerr.Serialization(fmt.Sprintf("marshal entity id %s", entity), err)
	}
	if _, err := db.conn.Exec(`DELETE FROM banks WHERE entity_id = ?`, idBytes); err != nil {
		return memerr.Database(fmt.Sprintf("delete bank %s", entity), err)
	}
	return nil
}

// ListEntities returns every entity ID with a stored bank.
func (db *DB) ListEntities() ([]ident.EntityID, error) {
	var rows [][]byte
	if err := db.conn.Select(&rows, `SELECT entity_id FROM banks`); err != nil {
		return nil, memerr.Database("list entities", err)
	}

	entities := make([]ident.EntityID, 0, len(rows))
	for _, raw := range rows {
		var u uuid.UUID
		if err := u.UnmarshalBinary(raw); err != nil {
			return nil, memerr.Serialization("unmarshal entity id", err)
		}
		entities = append(entities, ident.EntityID(u))
	}
	return entities, nil
}

// EntityCount returns the number of banks currently stored.
func (db *DB) EntityCount() (int, error) {
	var count int
	if err := db.conn.Get(&count, `SELECT COUNT(*) FROM banks`); err != nil {
		return 0, memerr.Database("count entities", err)
	}
	return count, nil
}
