package observation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
)

func makeEvent(kind EventKind, valence, importance float32) (Event, ident.EntityID, ident.EntityID) {
	a := ident.NewEntityID()
	b := ident.NewEntityID()
	return Event{
		Kind:             kind,
		Description:      "test event",
		Participants:     []ident.EntityID{a, b},
		Location:         ident.Location{},
		Timestamp:        ident.Now(36_000),
		EmotionalValence: valence,
		Importance:       importance,
	}, a, b
}

func TestObserveCreatesEpisodicMemory(t *testing.T) {
	event, observer, _ := makeEvent(EventDialogue, 0.2, 0.3)
	bank := memory.NewBank()

	result := Observe(event, observer, bank, nil)
	assert.Equal(t, 1, result.EpisodicCreated)
	assert.Len(t, bank.Episodic, 1)
}

func TestHighValenceCreatesEmotionalMemory(t *testing.T) {
	event, observer, _ := makeEvent(EventHelp, 0.8, 0.6)
	bank := memory.NewBank()

	result := Observe(event, observer, bank, nil)
	assert.Equal(t, 1, result.EmotionalCreated)
	assert.Len(t, bank.Emotional, 1)
	assert.Equal(t, "gratitude", bank.Emotional[0].Emotion)
}

func TestFirstMeetingDetection(t *testing.T) {
	event, observer, _ := makeEvent(EventDialogue, 0.1, 0.3)
	bank := memory.NewBank()

	result := Observe(event, observer, bank, nil)
	assert.True(t, result.IsFirstMeeting)
	assert.True(t, bank.Episodic[0].IsFirstMeeting)
	assert.GreaterOrEqual(t, bank.Episodic[0].Importance, float32(0.7))
}

func TestKnownEntityNotFirstMeeting(t *testing.T) {
	event, observer, other := makeEvent(EventDialogue, 0.1, 0.3)
	bank := memory.NewBank()

	result := Observe(event, observer, bank, []ident.EntityID{other})
	assert.False(t, result.IsFirstMeeting)
}

func TestWitnessGetsReducedImpact(t *testing.T) {
	event, _, _ := makeEvent(EventCombat, -0.8, 0.9)
	witness := ident.NewEntityID()
	bank := memory.NewBank()

	result := ObserveAsWitness(event, witness, bank, nil)
	assert.Equal(t, 1, result.EpisodicCreated)
	assert.Contains(t, bank.Episodic[0].Event, "Witnessed:")
	assert.Less(t, bank.Episodic[0].Importance, float32(0.9))
}

func TestCombatTriggersGossip(t *testing.T) {
	event, observer, _ := makeEvent(EventCombat, -0.6, 0.7)
	bank := memory.NewBank()

	result := Observe(event, observer, bank, nil)
	assert.True(t, result.ShouldTriggerGossip)
}

func TestHighEmotionTriggersReflection(t *testing.T) {
	event, observer, _ := makeEvent(EventHelp, 0.9, 0.5)
	bank := memory.NewBank()

	result := Observe(event, observer, bank, nil)
	assert.True(t, result.ShouldTriggerReflection)
}

func TestGossipCreatesSocialMemory(t *testing.T) {
	bank := memory.NewBank()
	about := ident.NewEntityID()
	source := ident.NewEntityID()

	ObserveGossip(about, source, "they say the hero fought bandits", 0.7, 1, ident.Now(36_000), bank)

	assert.Len(t, bank.Social, 1)
	assert.Equal(t, uint32(1), bank.Social[0].PropagationDepth)
}
