// Package ident provides the identity and time primitives shared across the
// memory engine: entity/memory/settlement identifiers and in-game timestamps.
// See design doc Section 2.
package ident

import (
	"time"

	"github.com/google/uuid"
)

// EntityID uniquely identifies any addressable thing in the game world: an
// NPC, a player, a creature.
type EntityID uuid.UUID

// NewEntityID creates a new random entity identifier.
func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

// String renders the identifier in canonical UUID form.
func (id EntityID) String() string {
	return uuid.UUID(id).String()
}

// MemoryID uniquely identifies a single memory entry.
type MemoryID uuid.UUID

// NewMemoryID creates a new random memory identifier.
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New())
}

func (id MemoryID) String() string {
	return uuid.UUID(id).String()
}

// SettlementID uniquely identifies a settlement or other named location.
type SettlementID uuid.UUID

// NewSettlementID creates a new random settlement identifier.
func NewSettlementID() SettlementID {
	return SettlementID(uuid.New())
}

func (id SettlementID) String() string {
	return uuid.UUID(id).String()
}

// TicksPerHour is the general game-time conversion used by hour-scale
// cadence checks (tick orchestrator, first-five-minutes window).
const TicksPerHour = 1_000

// TicksPerDay is the general game-time conversion used outside the decay
// engine. The decay engine itself uses 72,000 ticks/day directly (see
// internal/decay) — the two constants disagree in original_source and are
// carried forward unreconciled; see DESIGN.md Open Question 4.
const TicksPerDay = 24_000

// Location is a 3D position in the game world.
type Location struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// GameTimestamp pairs a monotonic game tick with the wall-clock time it was
// recorded at, for save metadata and human-facing logs.
type GameTimestamp struct {
	Tick     uint64    `json:"tick"`
	RealTime time.Time `json:"real_time"`
}

// Now creates a GameTimestamp for the given tick at the current wall-clock
// time.
func Now(tick uint64) GameTimestamp {
	return GameTimestamp{Tick: tick, RealTime: time.Now().UTC()}
}

// DaysSince returns the number of game-days elapsed since other, assuming
// TicksPerDay ticks per day. Negative deltas (other is in the future) are
// clamped to zero via saturating subtraction.
func (t GameTimestamp) DaysSince(other GameTimestamp) float32 {
	return float32(saturatingSub(t.Tick, other.Tick)) / TicksPerDay
}

// HoursSince returns the number of game-hours elapsed since other, assuming
// TicksPerHour ticks per hour.
func (t GameTimestamp) HoursSince(other GameTimestamp) float32 {
	return float32(saturatingSub(t.Tick, other.Tick)) / TicksPerHour
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
