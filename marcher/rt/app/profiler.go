package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates CPU time per named scope across ticks and reports
// the per-tick average.
type Profiler struct {
	clock Clock

	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
	Ticks      int
}

func NewProfiler(clock Clock) *Profiler {
	return &Profiler{
		clock:      clock,
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = p.clock.Now()
	if _, seen := p.Scopes[name]; !seen {
		p.Scopes[name] = 0
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] += p.clock.Now().Sub(start)
		delete(p.StartTimes, name)
	}
}

// EndTick closes one tick for averaging.
func (p *Profiler) EndTick() {
	p.Ticks++
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Average returns the mean time per tick spent in a scope.
func (p *Profiler) Average(name string) time.Duration {
	if p.Ticks == 0 {
		return 0
	}
	return p.Scopes[name] / time.Duration(p.Ticks)
}

// Reset starts a new averaging window. Scope order is kept.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
	p.Ticks = 0
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU, per tick):\n")
	for _, name := range p.Order {
		ms := float64(p.Average(name).Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-15s: %.2f ms\n", name, ms))
	}

	if len(p.Counts) == 0 {
		return sb.String()
	}
	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-15s: %d\n", k, p.Counts[k]))
	}

	return sb.String()
}
