package app

import (
	"runtime"
	"time"
)

// Clock is the time source of the frame timer.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	// Yield gives up the processor briefly while spinning on a deadline.
	Yield()
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
func (systemClock) Yield()                { runtime.Gosched() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Sleeping is coarse; the last stretch before a deadline is spent yielding.
const spinThreshold = time.Millisecond

// FrameTimer paces a loop to a fixed rate and measures the rate achieved.
type FrameTimer struct {
	clock          Clock
	period         time.Duration
	reportInterval time.Duration

	lastStart   time.Time
	reportStart time.Time
	ticks       int
}

// NewFrameTimer starts measuring from now. rate is in ticks per second.
func NewFrameTimer(rate float64, reportInterval time.Duration, clock Clock) *FrameTimer {
	now := clock.Now()
	return &FrameTimer{
		clock:          clock,
		period:         time.Duration(float64(time.Second) / rate),
		reportInterval: reportInterval,
		lastStart:      now,
		reportStart:    now,
	}
}

// Period is the target time between loop starts.
func (t *FrameTimer) Period() time.Duration {
	return t.period
}

// LoopStart marks the start of a tick and returns the time since the
// previous start, or since construction for the first tick.
func (t *FrameTimer) LoopStart() time.Duration {
	now := t.clock.Now()
	elapsed := now.Sub(t.lastStart)
	t.lastStart = now
	t.ticks++
	return elapsed
}

// LoopSleep returns once a full period has passed since the last LoopStart.
// A tick that already overran returns immediately.
func (t *FrameTimer) LoopSleep() {
	deadline := t.lastStart.Add(t.period)
	for {
		remaining := deadline.Sub(t.clock.Now())
		if remaining <= 0 {
			return
		}
		if remaining > spinThreshold {
			t.clock.Sleep(remaining - spinThreshold)
		} else {
			t.clock.Yield()
		}
	}
}

// Report returns the measured tick rate once every report interval.
func (t *FrameTimer) Report() (float64, bool) {
	now := t.clock.Now()
	window := now.Sub(t.reportStart)
	if window < t.reportInterval || window <= 0 {
		return 0, false
	}
	rate := float64(t.ticks) / window.Seconds()
	t.reportStart = now
	t.ticks = 0
	return rate, true
}
