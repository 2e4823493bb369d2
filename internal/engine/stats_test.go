package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsReportsPerInterval(t *testing.T) {
	s := NewStats(time.Second)

	for range 59 {
		assert.False(t, s.Tick(16*time.Millisecond))
	}
	assert.Zero(t, s.FPS())

	// 60 frames spanning 1.2s.
	assert.True(t, s.Tick(256*time.Millisecond))
	assert.InDelta(t, 50.0, s.FPS(), 0.01)
	assert.Equal(t, uint64(60), s.Frames())

	// The next interval starts from zero.
	assert.False(t, s.Tick(500*time.Millisecond))
	assert.InDelta(t, 50.0, s.FPS(), 0.01)
}

func TestStatsDefaultInterval(t *testing.T) {
	s := NewStats(0)
	assert.False(t, s.Tick(StatsInterval-time.Millisecond))
	assert.True(t, s.Tick(time.Millisecond))
	assert.InDelta(t, 2.0/StatsInterval.Seconds(), s.FPS(), 1e-9)
}

func TestEngineTickUpdatesTitle(t *testing.T) {
	e := newTestEngine(t)
	e.title = "umbra"
	assert.Equal(t, "umbra - 0 FPS", e.Title())

	e.ctx.Stats = NewStats(time.Second)
	assert.False(t, e.Tick(500*time.Millisecond))
	assert.True(t, e.Tick(500*time.Millisecond))
	assert.Equal(t, "umbra - 2 FPS", e.Title())
}
