package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/memory"
)

func makeBankWithConflict(target ident.EntityID) *memory.Bank {
	bank := memory.NewBank()
	ts := ident.Now(36_000)

	for i := 0; i < 3; i++ {
		bank.Episodic = append(bank.Episodic, memory.NewEpisodic("positive interaction", []ident.EntityID{target}, ident.Location{}, ts, 0.7, 0.5))
	}

	social := memory.NewSocial(target, ident.NewEntityID(), "they say this person is a thief", 0.8, 1, ts)
	social.Sentiment = -0.7
	bank.Social = append(bank.Social, social)

	social2 := memory.NewSocial(target, ident.NewEntityID(), "i heard they can't be trusted", 0.6, 2, ts)
	social2.Sentiment = -0.5
	bank.Social = append(bank.Social, social2)

	return bank
}

func TestDetectsEpisodicVsSocialConflict(t *testing.T) {
	target := ident.NewEntityID()
	bank := makeBankWithConflict(target)
	ts := ident.Now(36_000)

	conflicts := DetectConflicts(bank, 0.2, ts)
	assert.NotEmpty(t, conflicts, "should detect at least one conflict")

	c := conflicts[0]
	assert.Equal(t, target, c.About)
	assert.Equal(t, StateActive, c.State)
	assert.Greater(t, c.Tension, float32(0))
}

func TestDetectsSocialVsSocialConflict(t *testing.T) {
	target := ident.NewEntityID()
	bank := memory.NewBank()
	ts := ident.Now(36_000)

	s1 := memory.NewSocial(target, ident.NewEntityID(), "great person", 0.9, 0, ts)
	s1.Sentiment = 0.8
	bank.Social = append(bank.Social, s1)

	s2 := memory.NewSocial(target, ident.NewEntityID(), "terrible person", 0.7, 1, ts)
	s2.Sentiment = -0.7
	bank.Social = append(bank.Social, s2)

	conflicts := DetectConflicts(bank, 0.2, ts)
	assert.NotEmpty(t, conflicts)
}

func TestDirectExperienceResolvesConflict(t *testing.T) {
	target := ident.NewEntityID()
	bank := makeBankWithConflict(target)
	ts := ident.Now(36_000)

	conflicts := DetectConflicts(bank, 0.2, ts)
	assert.NotEmpty(t, conflicts)

	c := conflicts[0]
	AttemptResolution(c, 0.5, 0.5)

	assert.True(t, c.State == StateResolvedPositive || c.State == StateActive)
}

func TestNoConflictWhenConsistent(t *testing.T) {
	target := ident.NewEntityID()
	bank := memory.NewBank()
	ts := ident.Now(36_000)

	bank.Episodic = append(bank.Episodic, memory.NewEpisodic("good interaction", []ident.EntityID{target}, ident.Location{}, ts, 0.7, 0.5))

	social := memory.NewSocial(target, ident.NewEntityID(), "good person", 0.8, 0, ts)
	social.Sentiment = 0.6
	bank.Social = append(bank.Social, social)

	conflicts := DetectConflicts(bank, 0.2, ts)
	assert.Empty(t, conflicts, "no conflict when consistent")
}
