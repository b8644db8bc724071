package eviction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/memkeep/internal/config"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
)

func defaultConfig() config.EvictionConfig {
	return config.Default().Eviction
}

func makeEpisodic(tick uint64, importance, valence float32, firstMeeting bool) *memory.Episodic {
	ts := ident.GameTimestamp{Tick: tick}
	m := memory.NewEpisodic("event", nil, ident.Location{}, ts, valence, importance)
	if firstMeeting {
		m.WithFirstMeeting()
	}
	return m
}

func TestRingClassificationHot(t *testing.T) {
	ring := ClassifyRing(100, 100+3600, 3600, defaultConfig())
	assert.Equal(t, Hot, ring)
}

func TestRingClassificationWarm(t *testing.T) {
	ring := ClassifyRing(0, 48*3600, 3600, defaultConfig())
	assert.Equal(t, Warm, ring)
}

func TestRingClassificationCold(t *testing.T) {
	ring := ClassifyRing(0, 30*24*3600, 3600, defaultConfig())
	assert.Equal(t, Cold, ring)
}

func TestRingClassificationArchive(t *testing.T) {
	ring := ClassifyRing(0, 100*24*3600, 3600, defaultConfig())
	assert.Equal(t, Archive, ring)
}

func TestRingClassificationClockSkewIsHot(t *testing.T) {
	ring := ClassifyRing(500, 100, 3600, defaultConfig())
	assert.Equal(t, Hot, ring)
}

func TestProtectedMemoriesNotEvicted(t *testing.T) {
	cfg := defaultConfig()
	scoreFirst := Score(0.1, 0.1, true, 999_999, cfg)
	assert.True(t, math.IsInf(scoreFirst, 1))

	scoreEmo := Score(0.1, 0.9, false, 999_999, cfg)
	assert.True(t, math.IsInf(scoreEmo, 1))
}

func TestEvictionRespectsCapacity(t *testing.T) {
	cfg := defaultConfig()
	currentTick := uint64(1000)
	ticksPerHour := uint64(3600)

	memories := make([]*memory.Episodic, 10)
	for i := 0; i < 10; i++ {
		memories[i] = makeEpisodic(currentTick-uint64(i*10), 0.5, 0.3, false)
	}

	result := EvictEpisodic(memories, currentTick, ticksPerHour, 5, cfg)
	assert.Len(t, result.Retained, 5)
	assert.Len(t, result.ToColdStorage, 5)
}

func TestEvictionKeepsProtected(t *testing.T) {
	cfg := defaultConfig()
	currentTick := uint64(1000)
	ticksPerHour := uint64(3600)

	var memories []*memory.Episodic
	for i := 0; i < 3; i++ {
		memories = append(memories, makeEpisodic(currentTick-uint64(i*10), 0.1, 0.1, false))
	}
	for i := 0; i < 2; i++ {
		memories = append(memories, makeEpisodic(currentTick-uint64(i*10), 0.1, 0.1, true))
	}

	result := EvictEpisodic(memories, currentTick, ticksPerHour, 3, cfg)
	protectedCount := 0
	for _, m := range result.Retained {
		if m.IsFirstMeeting {
			protectedCount++
		}
	}
	assert.Equal(t, 2, protectedCount)
}

func TestEvictSocialArchivesOldGossip(t *testing.T) {
	cfg := defaultConfig()
	old := &memory.Social{ReceivedAt: ident.GameTimestamp{Tick: 0}, TrustInSource: 0.5}
	recent := &memory.Social{ReceivedAt: ident.GameTimestamp{Tick: 100*24*3600 - 900}, TrustInSource: 0.5}

	retained, evicted := EvictSocial([]*memory.Social{old, recent}, 100*24*3600, 3600, 10, cfg)
	assert.Len(t, retained, 1)
	assert.Len(t, evicted, 1)
	assert.Same(t, recent, retained[0])
}
