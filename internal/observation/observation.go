// Package observation is the entry point for all memory creation: game
// events flow in, episodic/emotional/social memories flow out. Grounded in
// original_source/memz-core/src/observation.rs.
package observation

import (
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
	"github.com/talgya/memkeep/internal/pad"
)

// EventKind classifies a game event for memory-creation routing.
type EventKind int

const (
	EventFirstMeeting EventKind = iota
	EventDialogue
	EventCombat
	EventTrade
	EventHelp
	EventHarm
	EventArrival
	EventQuest
	EventDeath
	EventWitness
	EventCustom
)

// Event is a game event observed by the memory system, engine-agnostic —
// the gameadapter layer converts engine-specific events into this shape.
type Event struct {
	Kind             EventKind
	Description      string
	Participants     []ident.EntityID
	Witnesses        []ident.EntityID
	Location         ident.Location
	Timestamp        ident.GameTimestamp
	EmotionalValence float32
	Importance       float32
	PADShift         *pad.State
}

// Result reports what an Observe call produced and what secondary effects
// the orchestrator should now consider triggering.
type Result struct {
	EpisodicCreated         int
	EmotionalCreated        int
	IsFirstMeeting          bool
	ShouldTriggerReflection bool
	ShouldTriggerGossip     bool
}

// Observe is the core observation pipeline entry point: classify, create
// episodic memory (boosting importance on first meeting), conditionally
// create emotional memory, and compute secondary-trigger flags.
//
// Performance target: well under the per-event share of the 2ms frame
// budget — this is a handful of struct constructions and slice appends,
// no I/O.
func Observe(event Event, observer ident.EntityID, bank *memory.Bank, knownEntities []ident.EntityID) Result {
	var result Result

	isFirstMeeting := event.Kind == EventFirstMeeting || detectFirstMeeting(event.Participants, observer, knownEntities)
	result.IsFirstMeeting = isFirstMeeting

	importance := event.Importance
	if isFirstMeeting {
		importance = maxf32(importance, 0.7)
	}

	episodic := memory.NewEpisodic(event.Description, event.Participants, event.Location, event.Timestamp, event.EmotionalValence, importance)
	if isFirstMeeting {
		episodic.WithFirstMeeting()
	}
	bank.Episodic = append(bank.Episodic, episodic)
	result.EpisodicCreated = 1

	if absf32(event.EmotionalValence) > 0.4 {
		if target, ok := primaryTarget(event.Participants, observer); ok {
			emotion := classifyEmotion(event.EmotionalValence, event.Kind)
			padShift := pad.Neutral
			if event.PADShift != nil {
				padShift = *event.PADShift
			}
			emotional := memory.NewEmotional(target, emotion, absf32(event.EmotionalValence), padShift, nil, event.Timestamp)
			bank.Emotional = append(bank.Emotional, emotional)
			result.EmotionalCreated = 1
		}
	}

	result.ShouldTriggerReflection = absf32(event.EmotionalValence) > 0.7 || event.Importance > 0.8
	result.ShouldTriggerGossip = event.Importance > 0.5 && isGossipWorthy(event.Kind)

	return result
}

// ObserveAsWitness processes an event from a secondary observer's
// perspective: reduced emotional impact (×0.6) and importance (×0.7), and
// a "Witnessed: " prefix on the episodic description.
func ObserveAsWitness(event Event, witness ident.EntityID, bank *memory.Bank, knownEntities []ident.EntityID) Result {
	witnessEvent := event
	witnessEvent.EmotionalValence *= 0.6
	witnessEvent.Importance *= 0.7
	witnessEvent.Description = "Witnessed: " + event.Description

	return Observe(witnessEvent, witness, bank, knownEntities)
}

// ObserveGossip creates a social memory recording a claim a listener was
// told by source about about.
func ObserveGossip(about, source ident.EntityID, claim string, trustInSource float32, propagationDepth uint32, ts ident.GameTimestamp, bank *memory.Bank) {
	social := memory.NewSocial(about, source, claim, trustInSource, propagationDepth, ts)
	bank.Social = append(bank.Social, social)
}

func detectFirstMeeting(participants []ident.EntityID, observer ident.EntityID, knownEntities []ident.EntityID) bool {
	for _, p := range participants {
		if p == observer {
			continue
		}
		if !contains(knownEntities, p) {
			return true
		}
	}
	return false
}

func primaryTarget(participants []ident.EntityID, observer ident.EntityID) (ident.EntityID, bool) {
	for _, p := range participants {
		if p != observer {
			return p, true
		}
	}
	return ident.EntityID{}, false
}

func classifyEmotion(valence float32, kind EventKind) string {
	switch kind {
	case EventCombat:
		if valence > 0 {
			return "pride"
		}
		return "fear"
	case EventHelp:
		return "gratitude"
	case EventHarm:
		return "anger"
	case EventDeath:
		return "grief"
	case EventTrade:
		if valence > 0 {
			return "satisfaction"
		}
		return "resentment"
	case EventFirstMeeting:
		return "curiosity"
	default:
		switch {
		case valence > 0.3:
			return "joy"
		case valence < -0.3:
			return "sadness"
		default:
			return "surprise"
		}
	}
}

func isGossipWorthy(kind EventKind) bool {
	switch kind {
	case EventCombat, EventHelp, EventHarm, EventDeath, EventQuest:
		return true
	default:
		return false
	}
}

func contains(ids []ident.EntityID, target ident.EntityID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
