package injection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
	"github.com/talgya/memkeep/internal/pad"
)

func TestValidInjectionAccepted(t *testing.T) {
	bank := memory.NewBank()
	player := ident.NewEntityID()
	ts := ident.Now(36_000)

	result := InjectMemory("I once helped a merchant caravan cross the desert.", player, pad.DefaultTraits(), bank, ts, DefaultConfig())

	assert.Equal(t, Accepted, result.Kind)
	assert.Len(t, bank.Injected, 1)
}

func TestEmptyContentRejected(t *testing.T) {
	bank := memory.NewBank()
	result := InjectMemory("", ident.NewEntityID(), pad.DefaultTraits(), bank, ident.Now(36_000), DefaultConfig())
	assert.Equal(t, Rejected, result.Kind)
}

func TestRateLimitEnforced(t *testing.T) {
	bank := memory.NewBank()
	player := ident.NewEntityID()
	ts := ident.Now(36_000)
	cfg := DefaultConfig()
	cfg.MaxPerNPCPerPlayer = 2

	InjectMemory("Memory 1", player, pad.DefaultTraits(), bank, ts, cfg)
	InjectMemory("Memory 2", player, pad.DefaultTraits(), bank, ts, cfg)

	result := InjectMemory("Memory 3", player, pad.DefaultTraits(), bank, ts, cfg)
	assert.Equal(t, Rejected, result.Kind)
}

func TestTooLongContentRejected(t *testing.T) {
	bank := memory.NewBank()
	longContent := strings.Repeat("a", 600)

	result := InjectMemory(longContent, ident.NewEntityID(), pad.DefaultTraits(), bank, ident.Now(36_000), DefaultConfig())
	assert.Equal(t, Rejected, result.Kind)
}

func TestImplausibleContentRejectedBySkepticalNPC(t *testing.T) {
	bank := memory.NewBank()
	personality := pad.DefaultTraits()
	personality.Credulity = 0.1
	personality.Openness = 0.1

	cfg := DefaultConfig()
	cfg.MinPlausibility = 0.5

	result := InjectMemory("I killed a god and destroyed the world once.", ident.NewEntityID(), personality, bank, ident.Now(36_000), cfg)
	assert.Equal(t, Rejected, result.Kind)
}

func TestCredulousNPCAcceptsWildStories(t *testing.T) {
	bank := memory.NewBank()
	personality := pad.DefaultTraits()
	personality.Credulity = 0.9
	personality.Openness = 0.9

	result := InjectMemory("I saved the kingdom from a terrible drought.", ident.NewEntityID(), personality, bank, ident.Now(36_000), DefaultConfig())
	assert.Equal(t, Accepted, result.Kind)
}

func TestEmotionalWeightClassification(t *testing.T) {
	positive := estimateEmotionalWeight("My friend helped me with joy and love")
	assert.Greater(t, positive, float32(0))

	negative := estimateEmotionalWeight("My enemy betrayed me with cruel hatred")
	assert.Less(t, negative, float32(0))

	neutral := estimateEmotionalWeight("I walked to the market yesterday")
	assert.InDelta(t, 0, neutral, 0.01)
}

func TestPriorityClassification(t *testing.T) {
	assert.Equal(t, memory.PriorityHigh, classifyPriority("I lost my family in a tragedy"))
	assert.Equal(t, memory.PriorityNormal, classifyPriority("I trained with the warriors"))
	assert.Equal(t, memory.PriorityLow, classifyPriority("I like the color blue"))
}
