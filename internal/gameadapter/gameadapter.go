// Package gameadapter is the default, in-memory implementation of the §6
// game-engine adapter interface: it allocates entity identities, looks up
// personality vectors and seeded relationships, and exposes the cheap,
// pure queries (disposition, greeting, price, combat stance, gossip,
// quest eligibility) an engine calls after routing an event through
// internal/observation. Grounded in the teacher's internal/agents (a
// plain struct keyed by an allocated ID, no external registry service)
// and internal/engine/relationships.go's plain-map bookkeeping pattern —
// this package is the Go analog of that pattern generalized to the
// memory engine's entities instead of simulated agents.
package gameadapter

import (
	"fmt"
	"sync"

	"github.com/talgya/memkeep/internal/behavior"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
	"github.com/talgya/memkeep/internal/pad"
)

// Profile is what the registry knows about an entity besides its memory
// bank: a display name and the personality vector that gates retrieval,
// behavior, and injection-pipeline decisions.
type Profile struct {
	Name        string
	Personality pad.Traits
}

// Registry is the default in-memory game-engine adapter: it owns entity
// allocation, personality lookup, per-observer known-entity sets (for
// internal/observation's first-meeting detection), and optional
// relationship hints seeded before any memory exists. A production
// engine binding would implement the same query surface against its own
// ECS instead of this map-backed registry.
type Registry struct {
	mu sync.RWMutex

	profiles  map[ident.EntityID]Profile
	banks     map[ident.EntityID]*memory.Bank
	known     map[ident.EntityID]map[ident.EntityID]bool
	relations map[ident.EntityID]map[ident.EntityID]behavior.RelationshipHint
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles:  make(map[ident.EntityID]Profile),
		banks:     make(map[ident.EntityID]*memory.Bank),
		known:     make(map[ident.EntityID]map[ident.EntityID]bool),
		relations: make(map[ident.EntityID]map[ident.EntityID]behavior.RelationshipHint),
	}
}

// RegisterEntity allocates a new entity identity with the given profile
// and an empty memory bank, and returns its ID.
func (r *Registry) RegisterEntity(name string, personality pad.Traits) ident.EntityID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ident.NewEntityID()
	r.profiles[id] = Profile{Name: name, Personality: personality}
	r.banks[id] = memory.NewBank()
	r.known[id] = make(map[ident.EntityID]bool)
	return id
}

// Profile returns entity's registered profile.
func (r *Registry) Profile(entity ident.EntityID) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[entity]
	return p, ok
}

// Bank returns entity's memory bank, or nil if entity is unregistered.
func (r *Registry) Bank(entity ident.EntityID) *memory.Bank {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.banks[entity]
}

// MarkKnown records that observer now knows about other — used by
// internal/observation's first-meeting detection.
func (r *Registry) MarkKnown(observer, other ident.EntityID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.known[observer] == nil {
		r.known[observer] = make(map[ident.EntityID]bool)
	}
	r.known[observer][other] = true
}

// KnownEntities returns the entities observer currently knows about.
func (r *Registry) KnownEntities(observer ident.EntityID) []ident.EntityID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	known := r.known[observer]
	out := make([]ident.EntityID, 0, len(known))
	for id := range known {
		out = append(out, id)
	}
	return out
}

// SeedRelationship primes observer's baseline trust/sentiment toward
// target before any memory exists — the Go analog of the teacher's
// agents.Relationship{TargetID, Sentiment, Trust} baseline state.
func (r *Registry) SeedRelationship(observer, target ident.EntityID, hint behavior.RelationshipHint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.relations[observer] == nil {
		r.relations[observer] = make(map[ident.EntityID]behavior.RelationshipHint)
	}
	r.relations[observer][target] = hint
}

func (r *Registry) relationshipHint(observer, target ident.EntityID) *behavior.RelationshipHint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.relations[observer]; ok {
		if hint, ok := m[target]; ok {
			return &hint
		}
	}
	return nil
}

// Disposition computes observer's current disposition toward target,
// consulting any seeded relationship hint when no memory-derived signal
// exists yet.
func (r *Registry) Disposition(observer, target ident.EntityID) (behavior.Disposition, error) {
	bank := r.Bank(observer)
	if bank == nil {
		return behavior.Disposition{}, fmt.Errorf("gameadapter: unknown entity %s", observer)
	}
	hint := r.relationshipHint(observer, target)
	return behavior.ComputeDisposition(bank, target, hint), nil
}

// GreetingStyle returns observer's greeting style toward target.
func (r *Registry) GreetingStyle(observer, target ident.EntityID) (behavior.GreetingStyle, error) {
	d, err := r.Disposition(observer, target)
	if err != nil {
		return behavior.GreetingNeutral, err
	}
	return behavior.ComputeGreetingStyle(d), nil
}

// PriceModifier returns the trade-price multiplier observer applies to
// target.
func (r *Registry) PriceModifier(observer, target ident.EntityID) (float32, error) {
	d, err := r.Disposition(observer, target)
	if err != nil {
		return 1.0, err
	}
	return behavior.ComputePriceModifier(d), nil
}

// CombatDisposition returns observer's combat stance toward target,
// using observer's registered bravery trait.
func (r *Registry) CombatDisposition(observer, target ident.EntityID) (behavior.CombatDisposition, error) {
	d, err := r.Disposition(observer, target)
	if err != nil {
		return behavior.CombatDefault, err
	}
	profile, _ := r.Profile(observer)
	return behavior.ComputeCombatDisposition(d, profile.Personality.Bravery), nil
}

// QuestEligibility reports whether observer will offer target a quest.
func (r *Registry) QuestEligibility(observer, target ident.EntityID) (bool, string, error) {
	bank := r.Bank(observer)
	if bank == nil {
		return false, "", fmt.Errorf("gameadapter: unknown entity %s", observer)
	}
	hint := r.relationshipHint(observer, target)
	ok, reason := behavior.CheckQuestEligibility(bank, target, hint)
	return ok, reason, nil
}

// Gossip returns up to maxCount social memories observer is willing to
// share with listener.
func (r *Registry) Gossip(observer, listener ident.EntityID, maxCount int) ([]*memory.Social, error) {
	bank := r.Bank(observer)
	if bank == nil {
		return nil, fmt.Errorf("gameadapter: unknown entity %s", observer)
	}
	return behavior.SelectGossip(bank, listener, maxCount), nil
}
