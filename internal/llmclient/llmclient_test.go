package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/memkeep/internal/ident"
	"github.com/talgya/memkeep/internal/reputation"
)

func TestNilClientIsDisabled(t *testing.T) {
	var c *Client
	assert.False(t, c.Enabled())
}

func TestNewClientEmptyKeyReturnsNil(t *testing.T) {
	assert.Nil(t, NewClient(""))
}

func TestNarrateFallsBackWhenDisabled(t *testing.T) {
	deed := reputation.Deed{
		Actor:        ident.NewEntityID(),
		Description:  "rescued a caravan from bandits",
		Valence:      0.8,
		WitnessCount: 3,
	}

	line := Narrate(nil, nil, deed)
	assert.Contains(t, line, "rescued a caravan from bandits")
	assert.Contains(t, line, "celebrated as a hero")
}

func TestFallbackNarrationTones(t *testing.T) {
	villain := reputation.Deed{Description: "burned the granary", Valence: -0.9}
	assert.Contains(t, fallbackNarration(villain), "cursed as villainy")

	neutral := reputation.Deed{Description: "walked through town", Valence: 0.0}
	assert.Contains(t, fallbackNarration(neutral), "spoken of in the taverns")
}
