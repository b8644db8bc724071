package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/memkeep/internal/config"
	"github.com/talgya/memkeep/internal/embedding"
	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
)

func TestRecencyDecaysOverTime(t *testing.T) {
	ep := memory.NewEpisodic("test event", nil, ident.Location{}, ident.GameTimestamp{Tick: 0}, 0.5, 0.5)
	entry := memory.Entry{Variant: memory.VariantEpisodic, Episodic: ep}

	scoreAt1 := recencyScore(entry, 72_000)
	scoreAt10 := recencyScore(entry, 720_000)

	assert.Greater(t, scoreAt1, scoreAt10, "recency should decay over time")
	assert.Greater(t, scoreAt1, 0.9)
	assert.Less(t, scoreAt10, 0.7)
}

func TestRelevanceUsesCosineSimilarity(t *testing.T) {
	a := embedding.Vector{1, 0, 0}
	b := embedding.Vector{1, 0, 0}
	c := embedding.Vector{0, 1, 0}

	assert.InDelta(t, 1.0, a.CosineSimilarity(b), 0.001)
	assert.InDelta(t, 0.0, a.CosineSimilarity(c), 0.001)
}

func TestRetrieveRanksByScoreAndTruncates(t *testing.T) {
	cfg := config.Default().Retrieval
	cfg.TopK = 2
	engine := New(cfg)

	ts := ident.GameTimestamp{Tick: 0}
	important := memory.NewEpisodic("the king died", nil, ident.Location{}, ts, 0.9, 0.95)
	mundane := memory.NewEpisodic("bought bread", nil, ident.Location{}, ts, 0.05, 0.05)
	mundane2 := memory.NewEpisodic("walked to the well", nil, ident.Location{}, ts, 0.02, 0.02)

	entries := []memory.Entry{
		{Variant: memory.VariantEpisodic, Episodic: mundane},
		{Variant: memory.VariantEpisodic, Episodic: important},
		{Variant: memory.VariantEpisodic, Episodic: mundane2},
	}

	results := engine.Retrieve(embedding.Vector{}, entries, 0, nil)
	assert.Len(t, results, 2)
	assert.Equal(t, important.ID, results[0].Entry.Episodic.ID)
}

func TestSocialScoreOnlyAppliesToSocialEntries(t *testing.T) {
	social := memory.NewSocial(ident.NewEntityID(), ident.NewEntityID(), "claim", 0.8, 0, ident.GameTimestamp{})
	entry := memory.Entry{Variant: memory.VariantSocial, Social: social}

	assert.Greater(t, socialScore(entry), 0.0)

	ep := memory.NewEpisodic("event", nil, ident.Location{}, ident.GameTimestamp{}, 0, 0)
	epEntry := memory.Entry{Variant: memory.VariantEpisodic, Episodic: ep}
	assert.Equal(t, 0.0, socialScore(epEntry))
}
