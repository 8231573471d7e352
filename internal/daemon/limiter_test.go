package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWarnLimiter(t *testing.T) {
	l := NewWarnLimiter(WarnInterval)
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	_, warned := l.Last()
	assert.False(t, warned)

	assert.True(t, l.Allow(t0), "first warning is always allowed")
	assert.False(t, l.Allow(t0.Add(time.Second)))
	assert.False(t, l.Allow(t0.Add(9*time.Minute+59*time.Second)))
	assert.True(t, l.Allow(t0.Add(10*time.Minute)), "exactly one interval later is allowed")
	assert.False(t, l.Allow(t0.Add(15*time.Minute)))
	assert.True(t, l.Allow(t0.Add(25*time.Minute)))

	last, warned := l.Last()
	assert.True(t, warned)
	assert.Equal(t, t0.Add(25*time.Minute), last)
}

func TestWarnLimiter_SuppressedDoesNotExtendWindow(t *testing.T) {
	l := NewWarnLimiter(WarnInterval)
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, l.Allow(t0))
	assert.False(t, l.Allow(t0.Add(8*time.Minute)))

	last, _ := l.Last()
	assert.Equal(t, t0, last)
	assert.True(t, l.Allow(t0.Add(10*time.Minute)))
}
