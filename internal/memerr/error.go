// Package memerr defines the error-kind taxonomy for the memory engine. See
// design doc Section 7. Hot-path operations never return these — they
// degrade silently (empty retrieval, no-op decay, neutral disposition).
// Cold-path operations (persistence, config, injection validation) return
// them so callers can switch on Kind via errors.As.
package memerr

import "fmt"

// Kind classifies an Error for errors.As-style dispatch.
type Kind int

const (
	KindUnknown Kind = iota
	KindCapacityExceeded
	KindMemoryNotFound
	KindEntityNotFound
	KindSerialization
	KindDatabase
	KindConfig
	KindBudgetExceeded
	KindContentRejected
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindMemoryNotFound:
		return "memory_not_found"
	case KindEntityNotFound:
		return "entity_not_found"
	case KindSerialization:
		return "serialization"
	case KindDatabase:
		return "database"
	case KindConfig:
		return "config"
	case KindBudgetExceeded:
		return "budget_exceeded"
	case KindContentRejected:
		return "content_rejected"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the engine-wide error type. It carries a Kind for dispatch plus
// free-form fields used by a handful of kinds (CapacityExceeded,
// BudgetExceeded carry structured detail; the rest carry a message).
type Error struct {
	Kind Kind
	// Msg is the human-readable detail.
	Msg string
	// Wrapped is the underlying cause, if any (persistence/IO errors).
	Wrapped error

	// CapacityExceeded detail.
	MemoryType string
	Limit      int
	Current    int

	// BudgetExceeded detail.
	Operation string
	ElapsedUs int64
	BudgetUs  int64
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindCapacityExceeded:
		return fmt.Sprintf("memory capacity exceeded: %s (limit: %d, current: %d)", e.MemoryType, e.Limit, e.Current)
	case KindBudgetExceeded:
		return fmt.Sprintf("frame budget exceeded: %s took %dus (budget: %dus)", e.Operation, e.ElapsedUs, e.BudgetUs)
	default:
		if e.Wrapped != nil {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Wrapped)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports a match for any *Error target with the same Kind, so
// errors.Is(err, &memerr.Error{Kind: memerr.KindX}) compares by kind alone.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// CapacityExceeded constructs a capacity-limit error (only surfaced when
// strict-mode enforcement is configured).
func CapacityExceeded(memoryType string, limit, current int) *Error {
	return &Error{Kind: KindCapacityExceeded, MemoryType: memoryType, Limit: limit, Current: current}
}

// MemoryNotFound constructs a missing-memory-id error.
func MemoryNotFound(id fmt.Stringer) *Error {
	return &Error{Kind: KindMemoryNotFound, Msg: id.String()}
}

// EntityNotFound constructs a missing-entity-id error.
func EntityNotFound(id fmt.Stringer) *Error {
	return &Error{Kind: KindEntityNotFound, Msg: id.String()}
}

// Serialization wraps an encode/decode failure.
func Serialization(msg string, err error) *Error {
	return &Error{Kind: KindSerialization, Msg: msg, Wrapped: err}
}

// Database wraps a persistence backend failure.
func Database(msg string, err error) *Error {
	return &Error{Kind: KindDatabase, Msg: msg, Wrapped: err}
}

// Config constructs a bad-configuration error.
func Config(msg string) *Error {
	return &Error{Kind: KindConfig, Msg: msg}
}

// BudgetExceeded constructs an instrumented frame-budget violation. It is
// logged and counted, never returned from a hot-path call.
func BudgetExceeded(operation string, elapsedUs, budgetUs int64) *Error {
	return &Error{Kind: KindBudgetExceeded, Operation: operation, ElapsedUs: elapsedUs, BudgetUs: budgetUs}
}

// ContentRejected constructs an injection-pipeline rejection.
func ContentRejected(reason string) *Error {
	return &Error{Kind: KindContentRejected, Msg: reason}
}

// IO wraps a generic I/O failure.
func IO(msg string, err error) *Error {
	return &Error{Kind: KindIO, Msg: msg, Wrapped: err}
}
