package safety

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApprovesValidMemory(t *testing.T) {
	result := ValidateInjection("I grew up in a fishing village on the northern coast.", DefaultConfig())
	assert.Equal(t, Approved, result.Kind)
}

func TestRejectsTooLong(t *testing.T) {
	result := ValidateInjection(strings.Repeat("a", 600), DefaultConfig())
	assert.Equal(t, Rejected, result.Kind)
}

func TestRejectsURLs(t *testing.T) {
	result := ValidateInjection("Check out https://example.com for my backstory", DefaultConfig())
	assert.Equal(t, Rejected, result.Kind)
}

func TestRejectsCode(t *testing.T) {
	result := ValidateInjection("```python\nprint('hello')\n```", DefaultConfig())
	assert.Equal(t, Rejected, result.Kind)
}

func TestRejectsGameBreaking(t *testing.T) {
	result := ValidateInjection("I am a god and I am invincible", DefaultConfig())
	assert.Equal(t, Rejected, result.Kind)
}

func TestRejectsEmpty(t *testing.T) {
	result := ValidateInjection("", DefaultConfig())
	assert.Equal(t, Rejected, result.Kind)
}

func TestRateLimiterWorks(t *testing.T) {
	limiter := NewRateLimiter(3, 60)
	assert.True(t, limiter.CheckAndRecord(0))
	assert.True(t, limiter.CheckAndRecord(10))
	assert.True(t, limiter.CheckAndRecord(20))
	assert.False(t, limiter.CheckAndRecord(30))
	assert.True(t, limiter.CheckAndRecord(70))
}
