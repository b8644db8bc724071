// Package config loads the engine's config surface (memory, retrieval,
// eviction, social, performance) from YAML, the pack's standard config
// format. See design doc Section 6.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/memkeep/internal/memerr"
)

// Config is the top-level configuration surface the core consumes.
type Config struct {
	Memory      MemoryConfig      `yaml:"memory"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Eviction    EvictionConfig    `yaml:"eviction"`
	Social      SocialConfig      `yaml:"social"`
	Performance PerformanceConfig `yaml:"performance"`
	FirstFive   FirstFiveConfig   `yaml:"first_five_minutes"`
}

// MemoryConfig bounds per-NPC memory counts and the base decay rate.
type MemoryConfig struct {
	MaxEpisodicPerNPC          int     `yaml:"max_episodic_per_npc"`
	MaxSemanticPerNPC          int     `yaml:"max_semantic_per_npc"`
	MaxSocialPerNPC            int     `yaml:"max_social_per_npc"`
	MaxProceduralPerNPC        int     `yaml:"max_procedural_per_npc"`
	MaxReflectivePerNPC        int     `yaml:"max_reflective_per_npc"`
	DecayRate                  float32 `yaml:"decay_rate"`
	ConsolidationIntervalDays  int     `yaml:"consolidation_interval_days"`
	StrictCapacityEnforcement  bool    `yaml:"strict_capacity_enforcement"`
}

// RetrievalWeights are the five scoring-factor weights. They need not sum to
// exactly 1.0 (personality overrides multiply them); Validate does not
// check them.
type RetrievalWeights struct {
	Recency    float32 `yaml:"recency"`
	Relevance  float32 `yaml:"relevance"`
	Importance float32 `yaml:"importance"`
	Emotional  float32 `yaml:"emotional"`
	Social     float32 `yaml:"social"`
}

// RetrievalConfig tunes the retrieval engine.
type RetrievalConfig struct {
	TopK                int              `yaml:"top_k"`
	EmbeddingDimensions int              `yaml:"embedding_dimensions"`
	Weights             RetrievalWeights `yaml:"weights"`
}

// EvictionConfig tunes the multi-tier eviction ring.
type EvictionConfig struct {
	HotRingHours              uint32  `yaml:"hot_ring_hours"`
	WarmRingDays              uint32  `yaml:"warm_ring_days"`
	ColdRingDays              uint32  `yaml:"cold_ring_days"`
	ProtectEmotionalThreshold float32 `yaml:"protect_emotional_threshold"`
	ProtectFirstMeeting       bool    `yaml:"protect_first_meeting"`
	MaxInMemory               int     `yaml:"max_in_memory"`
}

// SocialConfig tunes gossip propagation.
type SocialConfig struct {
	GossipTendencyDefault float32 `yaml:"gossip_tendency_default"`
	TrustDecayRate        float32 `yaml:"trust_decay_rate"`
	MaxGossipChainDepth   uint32  `yaml:"max_gossip_chain_depth"`
}

// PerformanceConfig sets the per-tick frame budget and locality radius.
type PerformanceConfig struct {
	FrameBudgetMs       float64 `yaml:"frame_budget_ms"`
	ActiveNPCRadiusChunks int   `yaml:"active_npc_radius_chunks"`
}

// FirstFiveConfig tunes the first-five-minutes injected-memory onboarding
// window (see original_source/memz-core/src/first_five.rs).
type FirstFiveConfig struct {
	WindowTicks       uint64 `yaml:"window_ticks"`
	MaxInjectedShown  int    `yaml:"max_injected_shown"`
}

// Default returns the config surface's defaults, matching design doc
// Section 6 exactly.
func Default() Config {
	return Config{
		Memory: MemoryConfig{
			MaxEpisodicPerNPC:         200,
			MaxSemanticPerNPC:         50,
			MaxSocialPerNPC:           100,
			MaxProceduralPerNPC:       30,
			MaxReflectivePerNPC:       20,
			DecayRate:                 0.05,
			ConsolidationIntervalDays: 1,
		},
		Retrieval: RetrievalConfig{
			TopK:                5,
			EmbeddingDimensions: 384,
			Weights: RetrievalWeights{
				Recency:    0.20,
				Relevance:  0.30,
				Importance: 0.20,
				Emotional:  0.20,
				Social:     0.10,
			},
		},
		Eviction: EvictionConfig{
			HotRingHours:              24,
			WarmRingDays:              7,
			ColdRingDays:              90,
			ProtectEmotionalThreshold: 0.8,
			ProtectFirstMeeting:       true,
			MaxInMemory:               150,
		},
		Social: SocialConfig{
			GossipTendencyDefault: 0.5,
			TrustDecayRate:        0.01,
			MaxGossipChainDepth:   4,
		},
		Performance: PerformanceConfig{
			FrameBudgetMs:         2.0,
			ActiveNPCRadiusChunks: 3,
		},
		FirstFive: FirstFiveConfig{
			WindowTicks:      5_000,
			MaxInjectedShown: 3,
		},
	}
}

// Load reads and parses a YAML config file, applying defaults for any field
// left unset, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, memerr.Config(fmt.Sprintf("read config %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, memerr.Config(fmt.Sprintf("parse config %s: %v", path, err))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects out-of-range budgets and capacities.
func (c Config) Validate() error {
	if c.Performance.FrameBudgetMs <= 0 {
		return memerr.Config("performance.frame_budget_ms must be positive")
	}
	if c.Retrieval.TopK <= 0 {
		return memerr.Config("retrieval.top_k must be positive")
	}
	if c.Retrieval.EmbeddingDimensions <= 0 {
		return memerr.Config("retrieval.embedding_dimensions must be positive")
	}
	if c.Memory.DecayRate < 0 || c.Memory.DecayRate > 1 {
		return memerr.Config("memory.decay_rate must be in [0, 1]")
	}
	if c.Eviction.ProtectEmotionalThreshold < 0 || c.Eviction.ProtectEmotionalThreshold > 1 {
		return memerr.Config("eviction.protect_emotional_threshold must be in [0, 1]")
	}
	if c.Eviction.MaxInMemory <= 0 {
		return memerr.Config("eviction.max_in_memory must be positive")
	}
	return nil
}
