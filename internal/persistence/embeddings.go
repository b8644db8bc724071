package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/memkeep/internal/embedding"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memerr"
)

// migrateEmbeddings creates the embedding cache table: embeddings carry
// json:"-" on Episodic/Semantic/Injected (see DESIGN.md Open Question 1)
// and so never round-trip through SaveBank/LoadBank's JSON payload. This
// table is where they're cached out-of-band, keyed by MemoryID, exactly as
// original_source/memz-core/src/memory/episodic.rs's #[serde(skip)]
// embedding field expects callers to recompute or cache separately.
func (db *DB) migrateEmbeddings() error {
	schema := `
	CREATE TABLE IF NOT EXISTS embedding_cache (
		memory_id BLOB PRIMARY KEY,
		vector BLOB NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveEmbedding caches vec for memory id, upserting any existing entry.
func (db *DB) SaveEmbedding(id ident.MemoryID, vec embedding.Vector) error {
	idBytes, err := memoryIDBytes(id)
	if err != nil {
		return err
	}
	payload, err := encodeVector(vec)
	if err != nil {
		return memerr.Serialization(fmt.Sprintf("encode embedding %s", id), err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO embedding_cache (memory_id, vector)
		VALUES (?, ?)
		ON CONFLICT(memory_id) DO UPDATE SET vector = excluded.vector`,
		idBytes, payload,
	)
	if err != nil {
		return memerr.Database(fmt.Sprintf("save embedding %s", id), err)
	}
	return nil
}

// LoadEmbedding returns the cached vector for memory id, or
// memerr.MemoryNotFound if nothing is cached.
func (db *DB) LoadEmbedding(id ident.MemoryID) (embedding.Vector, error) {
	idBytes, err := memoryIDBytes(id)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if err := db.conn.Get(&payload, `SELECT vector FROM embedding_cache WHERE memory_id = ?`, idBytes); err != nil {
		return nil, memerr.MemoryNotFound(id)
	}
	return decodeVector(payload)
}

// DeleteEmbedding removes the cached vector for memory id, if any.
func (db *DB) DeleteEmbedding(id ident.MemoryID) error {
	idBytes, err := memoryIDBytes(id)
	if err != nil {
		return err
	}
	if _, err := db.conn.Exec(`DELETE FROM embedding_cache WHERE memory_id = ?`, idBytes); err != nil {
		return memerr.Database(fmt.Sprintf("delete embedding %s", id), err)
	}
	return nil
}

func memoryIDBytes(id ident.MemoryID) ([]byte, error) {
	b, err := uuid.UUID(id).MarshalBinary()
	if err != nil {
		return nil, memerr.Serialization(fmt.Sprintf("marshal memory id %s", id), err)
	}
	return b, nil
}

func encodeVector(vec embedding.Vector) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, []float32(vec)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeVector(payload []byte) (embedding.Vector, error) {
	n := len(payload) / 4
	vec := make(embedding.Vector, n)
	if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, &vec); err != nil {
		return nil, memerr.Serialization("decode embedding", err)
	}
	return vec, nil
}
