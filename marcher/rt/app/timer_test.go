package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yieldStep = 100 * time.Microsecond

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
	yields int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Yield() {
	c.yields++
	c.now = c.now.Add(yieldStep)
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestFrameTimerPeriod(t *testing.T) {
	timer := NewFrameTimer(61, time.Second, newFakeClock())
	assert.Equal(t, time.Duration(16393442), timer.Period())

	timer = NewFrameTimer(50, time.Second, newFakeClock())
	assert.Equal(t, 20*time.Millisecond, timer.Period())
}

func TestLoopStartMeasuresSincePreviousStart(t *testing.T) {
	clock := newFakeClock()
	timer := NewFrameTimer(61, time.Second, clock)

	clock.Advance(3 * time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, timer.LoopStart())

	clock.Advance(25 * time.Millisecond)
	assert.Equal(t, 25*time.Millisecond, timer.LoopStart())
	assert.Equal(t, time.Duration(0), timer.LoopStart())
}

func TestLoopSleepWaitsOutThePeriod(t *testing.T) {
	clock := newFakeClock()
	timer := NewFrameTimer(50, time.Second, clock)

	start := clock.Now()
	timer.LoopStart()
	clock.Advance(5 * time.Millisecond)
	timer.LoopSleep()

	assert.Equal(t, start.Add(20*time.Millisecond), clock.Now())
	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 14*time.Millisecond, clock.sleeps[0], "sleeps up to the spin threshold")
	assert.Equal(t, int(spinThreshold/yieldStep), clock.yields)
}

func TestLoopSleepReturnsAtOnceAfterOverrun(t *testing.T) {
	clock := newFakeClock()
	timer := NewFrameTimer(50, time.Second, clock)

	timer.LoopStart()
	clock.Advance(35 * time.Millisecond)
	before := clock.Now()
	timer.LoopSleep()

	assert.Equal(t, before, clock.Now())
	assert.Empty(t, clock.sleeps)
	assert.Zero(t, clock.yields)
}

func TestPacedLoopReportsTargetRate(t *testing.T) {
	clock := newFakeClock()
	timer := NewFrameTimer(61, time.Second, clock)

	for range 61 {
		timer.LoopStart()
		timer.LoopSleep()
		_, ok := timer.Report()
		require.False(t, ok, "no report before a full interval")
	}

	timer.LoopStart()
	timer.LoopSleep()
	rate, ok := timer.Report()
	require.True(t, ok)
	assert.InDelta(t, 61.0, rate, 0.01)

	_, ok = timer.Report()
	assert.False(t, ok, "window restarts after a report")
}

func TestElapsedTracksSlowTicks(t *testing.T) {
	clock := newFakeClock()
	timer := NewFrameTimer(61, time.Second, clock)

	timer.LoopStart()
	clock.Advance(40 * time.Millisecond)
	timer.LoopSleep()

	assert.Equal(t, 40*time.Millisecond, timer.LoopStart(), "a slow tick is not clipped to the period")
}
