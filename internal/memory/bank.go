package memory

import "github.com/talgya/memkeep/internal/ident"

// Bank is the per-agent aggregate of all seven memory variants. Every NPC,
// player, and creature owns exactly one Bank. The Bank exclusively owns its
// memories: creation is append-only, and removal happens only through
// decay, eviction, or explicit delete (internal/decay, internal/eviction).
type Bank struct {
	Episodic   []*Episodic   `json:"episodic"`
	Semantic   []*Semantic   `json:"semantic"`
	Emotional  []*Emotional  `json:"emotional"`
	Social     []*Social     `json:"social"`
	Reflective []*Reflective `json:"reflective"`
	Procedural []*Procedural `json:"procedural"`
	Injected   []*Injected   `json:"injected"`
}

// NewBank returns an empty memory bank.
func NewBank() *Bank {
	return &Bank{}
}

// TotalCount is the number of memories across all seven variants.
func (b *Bank) TotalCount() int {
	return len(b.Episodic) + len(b.Semantic) + len(b.Emotional) +
		len(b.Social) + len(b.Reflective) + len(b.Procedural) + len(b.Injected)
}

// Variant identifies which of the seven memory kinds an Entry wraps.
type Variant uint8

const (
	VariantEpisodic Variant = iota
	VariantSemantic
	VariantEmotional
	VariantSocial
	VariantReflective
	VariantProcedural
	VariantInjected
)

// Entry is a unified handle over any one of the seven memory types, used by
// the retrieval engine to score and rank heterogeneous memories through a
// single interface.
type Entry struct {
	Variant    Variant
	Episodic   *Episodic
	Semantic   *Semantic
	Emotional  *Emotional
	Social     *Social
	Reflective *Reflective
	Procedural *Procedural
	Injected   *Injected
}

// ID returns the MemoryID of whichever variant this entry wraps.
func (e Entry) ID() ident.MemoryID {
	switch e.Variant {
	case VariantEpisodic:
		return e.Episodic.ID
	case VariantSemantic:
		return e.Semantic.ID
	case VariantEmotional:
		return e.Emotional.ID
	case VariantSocial:
		return e.Social.ID
	case VariantReflective:
		return e.Reflective.ID
	case VariantProcedural:
		return e.Procedural.ID
	default:
		return e.Injected.ID
	}
}

// AllEntries flattens the bank into a single slice of Entry for retrieval.
func (b *Bank) AllEntries() []Entry {
	entries := make([]Entry, 0, b.TotalCount())
	for _, m := range b.Episodic {
		entries = append(entries, Entry{Variant: VariantEpisodic, Episodic: m})
	}
	for _, m := range b.Semantic {
		entries = append(entries, Entry{Variant: VariantSemantic, Semantic: m})
	}
	for _, m := range b.Emotional {
		entries = append(entries, Entry{Variant: VariantEmotional, Emotional: m})
	}
	for _, m := range b.Social {
		entries = append(entries, Entry{Variant: VariantSocial, Social: m})
	}
	for _, m := range b.Reflective {
		entries = append(entries, Entry{Variant: VariantReflective, Reflective: m})
	}
	for _, m := range b.Procedural {
		entries = append(entries, Entry{Variant: VariantProcedural, Procedural: m})
	}
	for _, m := range b.Injected {
		entries = append(entries, Entry{Variant: VariantInjected, Injected: m})
	}
	return entries
}
