// Package orchestrator is the per-tick driver of §4.9: it owns the
// entity-bank map and reputation boards, and on each tick runs decay,
// capacity enforcement, reflection-job enqueueing, reputation decay, and
// NPC-to-NPC gossip contact at the cadences spec.md's table names.
// Grounded in the teacher's cmd/worldsim/main.go tick loop (a single
// goroutine calling one Tick(n) per iteration, no mutable state shared
// across async work) and internal/engine/tick.go's cadence-bucket
// dispatch pattern (`if tick % N == 0 { ... }` per subsystem).
package orchestrator

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/talgya/memkeep/internal/asyncqueue"
	"github.com/talgya/memkeep/internal/config"
	"github.com/talgya/memkeep/internal/consolidation"
	"github.com/talgya/memkeep/internal/decay"
	"github.com/talgya/memkeep/internal/eviction"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memerr"
	"github.com/talgya/memkeep/internal/memory"
	"github.com/talgya/memkeep/internal/pad"
	"github.com/talgya/memkeep/internal/propagation"
	"github.com/talgya/memkeep/internal/reputation"
)

// Cadence constants from spec.md §4.9's tick orchestrator table.
const (
	decayCadence           = 60
	capacityCadence        = 300
	reflectionCadence      = 5_000
	reputationDecayCadence = 10_000
)

// Stats exposes in-memory operational counters, per SPEC_FULL.md's
// "Budget violations are slog.Warn plus an in-memory counter exposed by
// the orchestrator, not a metrics export pipeline."
type Stats struct {
	TicksRun         uint64
	BudgetViolations uint64
	ReflectionJobs   uint64
	GossipAttempts   uint64
	GossipAccepted   uint64
}

// Orchestrator owns every active entity's bank, every settlement's
// reputation board, and the async job queue, and drives them through one
// tick at a time. It holds no long-lived mutable references across
// asynchronous work — Tick operates on one bank at a time, synchronously.
type Orchestrator struct {
	mu sync.Mutex

	cfg    config.Config
	banks  map[ident.EntityID]*memory.Bank
	boards map[ident.SettlementID]*reputation.Board
	queue  *asyncqueue.Queue

	lastReflection map[ident.EntityID]uint64
	stats          Stats
}

// New builds an Orchestrator from cfg with an empty bank/board set and a
// bounded async queue.
func New(cfg config.Config, maxQueueSize int) *Orchestrator {
	return &Orchestrator{
		cfg:            cfg,
		banks:          make(map[ident.EntityID]*memory.Bank),
		boards:         make(map[ident.SettlementID]*reputation.Board),
		queue:          asyncqueue.New(maxQueueSize),
		lastReflection: make(map[ident.EntityID]uint64),
	}
}

// RegisterBank adds or replaces entity's memory bank.
func (o *Orchestrator) RegisterBank(entity ident.EntityID, bank *memory.Bank) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.banks[entity] = bank
}

// Bank returns entity's bank, or nil if unregistered.
func (o *Orchestrator) Bank(entity ident.EntityID) *memory.Bank {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.banks[entity]
}

// RegisterBoard adds or replaces settlement's reputation board.
func (o *Orchestrator) RegisterBoard(settlement ident.SettlementID, board *reputation.Board) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.boards[settlement] = board
}

// Board returns settlement's reputation board, or nil if unregistered.
func (o *Orchestrator) Board(settlement ident.SettlementID) *reputation.Board {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.boards[settlement]
}

// Queue exposes the async job queue for callers that want to inspect
// depth/stats or drain it on a worker goroutine.
func (o *Orchestrator) Queue() *asyncqueue.Queue {
	return o.queue
}

// Stats returns a snapshot of the orchestrator's operational counters.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// Tick runs every cadence-gated subsystem due at ts.Tick. Each subsystem
// is timed; an elapsed time over its documented budget is slog.Warn-logged
// and counted via memerr.BudgetExceeded, never returned or fatal.
func (o *Orchestrator) Tick(ts ident.GameTimestamp) {
	o.mu.Lock()
	defer o.mu.Unlock()

	tick := ts.Tick
	o.stats.TicksRun++

	if tick%decayCadence == 0 {
		o.timedOp("decay_pass", 50*time.Microsecond*time.Duration(max(1, len(o.banks))/50+1), func() {
			o.runDecayPass(tick)
		})
	}
	if tick%capacityCadence == 0 {
		o.timedOp("capacity_enforcement", 100*time.Microsecond*time.Duration(max(1, len(o.banks))/50+1), func() {
			o.runCapacityEnforcement(tick)
		})
	}
	if tick%reflectionCadence == 0 {
		o.timedOp("reflection_enqueue", 200*time.Microsecond, func() {
			o.runReflectionSweep(tick, ts)
		})
	}
	if tick%reputationDecayCadence == 0 {
		o.timedOp("reputation_decay", 100*time.Microsecond, func() {
			o.runReputationDecay(ts)
		})
	}
}

func (o *Orchestrator) timedOp(name string, budget time.Duration, fn func()) {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	if elapsed > budget {
		o.stats.BudgetViolations++
		err := memerr.BudgetExceeded(name, elapsed.Microseconds(), budget.Microseconds())
		slog.Warn("orchestrator: frame budget exceeded", "error", err)
	}
}

func (o *Orchestrator) runDecayPass(tick uint64) {
	threshold := float64(o.cfg.Memory.DecayRate)
	for _, bank := range o.banks {
		bank.Episodic = decay.DecayEpisodic(bank.Episodic, tick, threshold)
		bank.Social = decay.DecaySocial(bank.Social, tick, threshold)
	}
}

func (o *Orchestrator) runCapacityEnforcement(tick uint64) {
	evCfg := o.cfg.Eviction
	var ticksPerHour uint64 = ident.TicksPerHour

	for _, bank := range o.banks {
		result := eviction.EvictEpisodic(bank.Episodic, tick, ticksPerHour, evCfg.MaxInMemory, evCfg)
		bank.Episodic = result.Retained

		retained, _ := eviction.EvictSocial(bank.Social, tick, ticksPerHour, evCfg.MaxInMemory, evCfg)
		bank.Social = retained

		truncatePerVariantCaps(bank, o.cfg.Memory)
	}
}

// truncatePerVariantCaps enforces the per-variant capacity limits from
// §6's config surface, keeping the most recently appended entries.
func truncatePerVariantCaps(bank *memory.Bank, cfg config.MemoryConfig) {
	if len(bank.Episodic) > cfg.MaxEpisodicPerNPC {
		bank.Episodic = bank.Episodic[len(bank.Episodic)-cfg.MaxEpisodicPerNPC:]
	}
	if len(bank.Social) > cfg.MaxSocialPerNPC {
		bank.Social = bank.Social[len(bank.Social)-cfg.MaxSocialPerNPC:]
	}
	if len(bank.Semantic) > cfg.MaxSemanticPerNPC {
		bank.Semantic = bank.Semantic[len(bank.Semantic)-cfg.MaxSemanticPerNPC:]
	}
	if len(bank.Procedural) > cfg.MaxProceduralPerNPC {
		bank.Procedural = bank.Procedural[len(bank.Procedural)-cfg.MaxProceduralPerNPC:]
	}
	if len(bank.Reflective) > cfg.MaxReflectivePerNPC {
		bank.Reflective = bank.Reflective[len(bank.Reflective)-cfg.MaxReflectivePerNPC:]
	}
}

func (o *Orchestrator) runReflectionSweep(tick uint64, ts ident.GameTimestamp) {
	for entity, bank := range o.banks {
		if !shouldReflect(bank, entity, tick, o.lastReflection) {
			continue
		}
		tasks := consolidation.IdentifyConsolidationTasks(bank.Episodic, ts)
		if len(tasks) == 0 {
			continue
		}
		o.lastReflection[entity] = tick

		for _, task := range tasks {
			_, ok := o.queue.Enqueue(
				asyncqueue.Medium,
				"You are reflecting on recent experiences. Identify patterns and form beliefs.",
				fmt.Sprintf("%d related episodic memories about the same participants are ready for consolidation.", len(task.SourceIDs)),
				"",
				400,
				0.7,
				30*time.Second,
			)
			if ok {
				o.stats.ReflectionJobs++
			}
		}
	}
}

// shouldReflect reports whether entity's bank has accumulated enough
// unconsolidated episodic experience to warrant a reflection job: it has
// at least 3 episodic memories, and it has either never reflected or gone
// at least reflectionCadence ticks since its last reflection.
func shouldReflect(bank *memory.Bank, entity ident.EntityID, tick uint64, lastReflection map[ident.EntityID]uint64) bool {
	if len(bank.Episodic) < 3 {
		return false
	}
	last, ok := lastReflection[entity]
	if !ok {
		return true
	}
	return tick-last >= reflectionCadence
}

func (o *Orchestrator) runReputationDecay(ts ident.GameTimestamp) {
	for _, board := range o.boards {
		board.DecayReputations(o.cfg.Social.TrustDecayRate, ts)
	}
}

// ContactResult reports what an NPC↔NPC contact produced.
type ContactResult struct {
	Attempted int
	Accepted  int
}

// OnContact runs the §4.9 NPC-to-NPC contact rule: select up to 2
// high-|sentiment| social memories from speaker, attempt propagation to
// listener for each, and append accepted results to listener's bank.
func (o *Orchestrator) OnContact(speaker, listener ident.EntityID, listenerPersonality pad.Traits, trustInSource float32, ts ident.GameTimestamp) ContactResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	speakerBank := o.banks[speaker]
	listenerBank := o.banks[listener]
	if speakerBank == nil || listenerBank == nil {
		return ContactResult{}
	}

	candidates := make([]*memory.Social, 0, len(speakerBank.Social))
	for _, m := range speakerBank.Social {
		if propagation.IsPropagatable(m) {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return absf32(candidates[i].Sentiment) > absf32(candidates[j].Sentiment)
	})
	if len(candidates) > 2 {
		candidates = candidates[:2]
	}

	var result ContactResult
	for _, claim := range candidates {
		result.Attempted++
		o.stats.GossipAttempts++

		out := propagation.Propagate(propagation.Input{
			Claim:                     claim,
			ReceiverPersonality:       listenerPersonality,
			TrustInSource:             trustInSource,
			ExistingBeliefConsistency: 0.5,
			SourceReliability:         trustInSource,
			CurrentTime:               ts,
		})
		if out.Decision == propagation.Accepted && out.NewMemory != nil {
			listenerBank.Social = append(listenerBank.Social, out.NewMemory)
			result.Accepted++
			o.stats.GossipAccepted++
		}
	}
	return result
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
