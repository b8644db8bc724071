package gameadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/memkeep/internal/behavior"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/pad"
)

func TestRegisterAndLookupProfile(t *testing.T) {
	reg := NewRegistry()
	id := reg.RegisterEntity("Goran the Blacksmith", pad.DefaultTraits())

	profile, ok := reg.Profile(id)
	require.True(t, ok)
	assert.Equal(t, "Goran the Blacksmith", profile.Name)
	assert.NotNil(t, reg.Bank(id))
}

func TestUnknownEntityDispositionErrors(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Disposition(ident.NewEntityID(), ident.NewEntityID())
	assert.Error(t, err)
}

func TestSeededRelationshipDrivesGreetingBeforeAnyMemory(t *testing.T) {
	reg := NewRegistry()
	npc := reg.RegisterEntity("Merchant", pad.DefaultTraits())
	player := ident.NewEntityID()

	reg.SeedRelationship(npc, player, behavior.RelationshipHint{Sentiment: 0.9, Trust: 0.9})

	style, err := reg.GreetingStyle(npc, player)
	require.NoError(t, err)
	assert.Equal(t, behavior.GreetingWarm, style)
}

func TestMarkKnownTracksFirstMeeting(t *testing.T) {
	reg := NewRegistry()
	observer := reg.RegisterEntity("Observer", pad.DefaultTraits())
	other := ident.NewEntityID()

	assert.Empty(t, reg.KnownEntities(observer))
	reg.MarkKnown(observer, other)
	assert.Contains(t, reg.KnownEntities(observer), other)
}

func TestCombatDispositionUsesRegisteredBravery(t *testing.T) {
	reg := NewRegistry()
	traits := pad.DefaultTraits()
	traits.Bravery = 0.9
	npc := reg.RegisterEntity("Guard", traits)
	target := ident.NewEntityID()

	disposition, err := reg.CombatDisposition(npc, target)
	require.NoError(t, err)
	assert.Equal(t, behavior.CombatDefault, disposition, "no memory yet and no hint should stay default")
}
