// Package consolidation distills episodic memories into semantic knowledge
// and repeated actions into procedural skill, mirroring sleep-mediated
// memory consolidation. Grounded in
// original_source/memz-core/src/consolidation.rs.
package consolidation

import (
	"fmt"
	"sort"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
)

// Kind routes a consolidation task to the right memory variant.
type Kind int

const (
	KindEpisodic Kind = iota
	KindSemantic
	KindEmotional
	KindSocial
	KindReflective
	KindProcedural
	KindInjected
)

// Task describes a pending memory transformation: consolidate SourceIDs
// (of SourceType) into a new memory of TargetType.
type Task struct {
	SourceType Kind
	SourceIDs  []ident.MemoryID
	TargetType Kind
	Priority   float32
	CreatedAt  ident.GameTimestamp
}

// Result is the outcome of a consolidation attempt — exactly one of its
// New* fields is set, or Reason explains why consolidation didn't happen.
type Result struct {
	NewSemantic   *memory.Semantic
	NewProcedural *memory.Procedural
	NewReflective *memory.Reflective
	Reason        string
}

// minEvidence is the minimum number of corroborating memories/repetitions
// required before a consolidation is attempted.
const minEvidence = 3

// ConsolidateEpisodicToSemantic distills 3+ episodic memories sharing a
// common participant into a general fact about that entity. This is the
// rule-based fallback tier; an LLM-backed tier can produce richer
// summaries but this works offline with zero latency.
func ConsolidateEpisodicToSemantic(memories []*memory.Episodic, currentTime ident.GameTimestamp) Result {
	if len(memories) < minEvidence {
		return Result{Reason: "need at least 3 episodic memories to consolidate"}
	}

	firstParticipants := memories[0].Participants
	var common []ident.EntityID
	for _, p := range firstParticipants {
		inAll := true
		for _, m := range memories {
			if !containsEntity(m.Participants, p) {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, p)
		}
	}

	var sumValence float32
	for _, m := range memories {
		sumValence += m.EmotionalValence
	}
	avgValence := sumValence / float32(len(memories))

	var fact string
	if len(common) > 0 {
		sentiment := "mixed"
		switch {
		case avgValence > 0.3:
			sentiment = "generally positive"
		case avgValence < -0.3:
			sentiment = "generally negative"
		}
		fact = fmt.Sprintf("Based on %d experiences, interactions with entity %s have been %s.",
			len(memories), common[0], sentiment)
	} else {
		trend := "challenging"
		if avgValence > 0.0 {
			trend = "positive"
		}
		fact = fmt.Sprintf("After %d recent experiences, the general pattern seems to be %s.",
			len(memories), trend)
	}

	derivedFrom := make([]ident.MemoryID, len(memories))
	for i, m := range memories {
		derivedFrom[i] = m.ID
	}
	confidence := clamp(float32(len(memories))/10.0, 0.3, 0.9)

	semantic := memory.NewSemantic(fact, confidence, derivedFrom, "person_knowledge", currentTime)
	return Result{NewSemantic: semantic}
}

// ConsolidateToProcedural forms a procedural skill memory once an NPC has
// repeated an action 3+ times, fast-forwarding all past repetitions.
func ConsolidateToProcedural(skillName string, repetitionCount uint32, currentTime ident.GameTimestamp, learningRate float32) Result {
	if repetitionCount < minEvidence {
		return Result{Reason: "need at least 3 repetitions to form a procedural memory"}
	}

	procedural := memory.NewProcedural(skillName, currentTime, learningRate)
	for i := uint32(0); i < repetitionCount; i++ {
		procedural.Practice(currentTime)
	}
	return Result{NewProcedural: procedural}
}

// IdentifyConsolidationTasks groups episodic memories by shared participant
// and returns one Episodic→Semantic task per participant with 3+ memories,
// sorted by priority (most evidence first).
func IdentifyConsolidationTasks(episodic []*memory.Episodic, currentTime ident.GameTimestamp) []Task {
	groups := make(map[ident.EntityID][]ident.MemoryID)
	for _, m := range episodic {
		for _, p := range m.Participants {
			groups[p] = append(groups[p], m.ID)
		}
	}

	var tasks []Task
	for _, ids := range groups {
		if len(ids) >= minEvidence {
			tasks = append(tasks, Task{
				SourceType: KindEpisodic,
				SourceIDs:  ids,
				TargetType: KindSemantic,
				Priority:   float32(len(ids)) / 10.0,
				CreatedAt:  currentTime,
			})
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Priority > tasks[j].Priority })
	return tasks
}

func containsEntity(ids []ident.EntityID, target ident.EntityID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
