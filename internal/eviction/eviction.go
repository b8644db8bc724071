// Package eviction implements the multi-tier Hot/Warm/Cold/Archive memory
// lifecycle. Grounded in original_source/memz-core/src/eviction.rs.
package eviction

import (
	"math"
	"sort"

	"github.com/talgya/memkeep/internal/config"
	"github.com/talgya/memkeep/internal/memory"
)

// Ring identifies which eviction tier a memory currently belongs to.
type Ring int

const (
	Hot Ring = iota
	Warm
	Cold
	Archive
)

func (r Ring) String() string {
	switch r {
	case Hot:
		return "Hot"
	case Warm:
		return "Warm"
	case Cold:
		return "Cold"
	case Archive:
		return "Archive"
	default:
		return "Unknown"
	}
}

// ClassifyRing determines a memory's ring from its age in ticks. A memory
// timestamped in the future relative to currentTick (clock skew) is always
// Hot.
func ClassifyRing(memoryTick, currentTick, ticksPerHour uint64, cfg config.EvictionConfig) Ring {
	if currentTick < memoryTick {
		return Hot
	}
	ageTicks := currentTick - memoryTick
	var ageHours uint64
	if ticksPerHour != 0 {
		ageHours = ageTicks / ticksPerHour
	}

	hotLimit := uint64(cfg.HotRingHours)
	warmLimit := uint64(cfg.WarmRingDays) * 24
	coldLimit := uint64(cfg.ColdRingDays) * 24

	switch {
	case ageHours < hotLimit:
		return Hot
	case ageHours < warmLimit:
		return Warm
	case ageHours < coldLimit:
		return Cold
	default:
		return Archive
	}
}

// Score computes an eviction priority score. Lower scores are evicted
// first; protected memories (first meetings, flashbulb-intensity valence)
// return +Inf so they are never spilled.
func Score(importance, emotionalValence float32, isFirstMeeting bool, ticksSinceLastAccess uint64, cfg config.EvictionConfig) float64 {
	if isFirstMeeting && cfg.ProtectFirstMeeting {
		return math.Inf(1)
	}
	if absf32(emotionalValence) > cfg.ProtectEmotionalThreshold {
		return math.Inf(1)
	}

	accessFactor := 1.0
	if ticksSinceLastAccess != 0 {
		accessFactor = 1.0 / float64(ticksSinceLastAccess)
	}
	emotionalWeight := 1.0 + float64(absf32(emotionalValence))
	return float64(importance) * emotionalWeight * accessFactor
}

// Result partitions an episodic eviction pass into its three destinations.
type Result struct {
	Retained      []*memory.Episodic
	ToColdStorage []*memory.Episodic
	ToArchive     []*memory.Episodic
}

// EvictEpisodic classifies memories into rings, sending Cold and Archive
// tiers out of the in-memory set, then — if the remaining Hot+Warm set
// still exceeds maxInMemory — spills the lowest-scored survivors to cold
// storage.
func EvictEpisodic(memories []*memory.Episodic, currentTick, ticksPerHour uint64, maxInMemory int, cfg config.EvictionConfig) Result {
	var result Result

	for _, m := range memories {
		switch ClassifyRing(m.Timestamp.Tick, currentTick, ticksPerHour, cfg) {
		case Hot, Warm:
			result.Retained = append(result.Retained, m)
		case Cold:
			result.ToColdStorage = append(result.ToColdStorage, m)
		case Archive:
			result.ToArchive = append(result.ToArchive, m)
		}
	}

	if len(result.Retained) > maxInMemory {
		type scored struct {
			score float64
			mem   *memory.Episodic
		}
		items := make([]scored, len(result.Retained))
		for i, m := range result.Retained {
			ticksSince := saturatingSub(currentTick, m.LastAccessed.Tick)
			items[i] = scored{Score(m.Importance, m.EmotionalValence, m.IsFirstMeeting, ticksSince, cfg), m}
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

		result.Retained = result.Retained[:0]
		for i, it := range items {
			if i < maxInMemory {
				result.Retained = append(result.Retained, it.mem)
			} else {
				result.ToColdStorage = append(result.ToColdStorage, it.mem)
			}
		}
	}

	return result
}

// EvictSocial runs the lighter social-memory eviction pass: received_at
// stands in for age, trust_in_source stands in for importance. Social
// memories skip the Cold ring and go straight to Archive once past the
// cold-ring boundary.
func EvictSocial(memories []*memory.Social, currentTick, ticksPerHour uint64, maxInMemory int, cfg config.EvictionConfig) (retained, evicted []*memory.Social) {
	for _, m := range memories {
		switch ClassifyRing(m.ReceivedAt.Tick, currentTick, ticksPerHour, cfg) {
		case Hot, Warm, Cold:
			retained = append(retained, m)
		case Archive:
			evicted = append(evicted, m)
		}
	}

	if len(retained) > maxInMemory {
		type scored struct {
			score float64
			mem   *memory.Social
		}
		items := make([]scored, len(retained))
		for i, m := range retained {
			age := saturatingSub(currentTick, m.ReceivedAt.Tick)
			items[i] = scored{float64(m.TrustInSource) / (1.0 + float64(age)), m}
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

		retained = retained[:0]
		for i, it := range items {
			if i < maxInMemory {
				retained = append(retained, it.mem)
			} else {
				evicted = append(evicted, it.mem)
			}
		}
	}

	return retained, evicted
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
