package persistence

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memerr"
	"github.com/talgya/memkeep/internal/reputation"
)

func (db *DB) migrateBoards() error {
	schema := `
	CREATE TABLE IF NOT EXISTS boards (
		settlement_id BLOB PRIMARY KEY,
		payload BLOB NOT NULL,
		checksum INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveBoard serializes board to JSON and upserts it for settlement, mirroring
// SaveBank's checksum-plus-opaque-payload shape.
func (db *DB) SaveBoard(settlement ident.SettlementID, board *reputation.Board, updatedAtTick uint64) error {
	payload, err := json.Marshal(board)
	if err != nil {
		return memerr.Serialization(fmt.Sprintf("marshal board %s", settlement), err)
	}
	checksum := crc32.ChecksumIEEE(payload)

	idBytes, err := uuid.UUID(settlement).MarshalBinary()
	if err != nil {
		return memerr.Serialization(fmt.Sprintf("marshal settlement id %s", settlement), err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO boards (settlement_id, payload, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(settlement_id) DO UPDATE SET
			payload = excluded.payload,
			checksum = excluded.checksum,
			updated_at = excluded.updated_at`,
		idBytes, payload, checksum, updatedAtTick,
	)
	if err != nil {
		return memerr.Database(fmt.Sprintf("save board %s", settlement), err)
	}
	return nil
}

// LoadBoard reads settlement's reputation board back from the store,
// verifying its checksum. As with LoadBank, a mismatch is logged, not fatal.
func (db *DB) LoadBoard(settlement ident.SettlementID) (*reputation.Board, error) {
	idBytes, err := uuid.UUID(settlement).MarshalBinary()
	if err != nil {
		return nil, memerr.Serialization(fmt.Sprintf("marshal settlement id %s", settlement), err)
	}

	var row struct {
		Payload  []byte `db:"payload"`
		Checksum uint32 `db:"checksum"`
	}
	err = db.conn.Get(&row, `SELECT payload, checksum FROM boards WHERE settlement_id = ?`, idBytes)
	if err != nil {
		return nil, memerr.EntityNotFound(settlement)
	}

	if crc32.ChecksumIEEE(row.Payload) != row.Checksum {
		slog.Warn("persistence: checksum mismatch on load", "settlement", settlement.String())
	}

	board := &reputation.Board{}
	if err := json.Unmarshal(row.Payload, board); err != nil {
		return nil, memerr.Serialization(fmt.Sprintf("unmarshal board %s", settlement), err)
	}
	return board, nil
}

// ListSettlements returns every settlement ID with a stored reputation board.
func (db *DB) ListSettlements() ([]ident.SettlementID, error) {
	var rows [][]byte
	if err := db.conn.Select(&rows, `SELECT settlement_id FROM boards`); err != nil {
		return nil, memerr.Database("list settlements", err)
	}

	settlements := make([]ident.SettlementID, 0, len(rows))
	for _, raw := range rows {
		var u uuid.UUID
		if err := u.UnmarshalBinary(raw); err != nil {
			return nil, memerr.Serialization("unmarshal settlement id", err)
		}
		settlements = append(settlements, ident.SettlementID(u))
	}
	return settlements, nil
}
