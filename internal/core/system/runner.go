package system

import (
	"sort"
	"time"
)

// Option adjusts how a registered system is scheduled.
type Option func(*entry)

// Every makes the system eligible only once per interval of accumulated tick
// time. A late tick fires once and drops the backlog.
func Every(interval time.Duration) Option {
	return func(e *entry) { e.every = interval }
}

// Ungated keeps the system running while the runner gate is closed.
func Ungated() Option {
	return func(e *entry) { e.ungated = true }
}

type entry struct {
	sys     System
	every   time.Duration
	acc     time.Duration
	ungated bool
}

// due advances the entry's cadence by dt and reports whether it fires.
func (e *entry) due(dt time.Duration) bool {
	if e.every <= 0 {
		return true
	}
	e.acc += dt
	if e.acc < e.every {
		return false
	}
	e.acc %= e.every
	return true
}

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	entries []*entry
	sorted  bool
	gate    func() bool
}

func NewRunner() *Runner {
	return &Runner{
		entries: make([]*entry, 0, 16),
	}
}

func (r *Runner) Register(s System, opts ...Option) {
	e := &entry{sys: s}
	for _, opt := range opts {
		opt(e)
	}
	r.entries = append(r.entries, e)
	r.sorted = false
}

// SetGate installs the eligibility predicate for gated systems. It is
// re-evaluated before every system, so a system that closes the gate stops
// the rest of the tick's gated work. Closed gates also freeze cadences.
func (r *Runner) SetGate(fn func() bool) {
	r.gate = fn
}

func (r *Runner) open() bool {
	return r.gate == nil || r.gate()
}

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, e := range r.entries {
		if !e.ungated && !r.open() {
			continue
		}
		if !e.due(dt) {
			continue
		}
		e.sys.Update(dt)
	}
}

// Reset zeroes every cadence accumulator.
func (r *Runner) Reset() {
	for _, e := range r.entries {
		e.acc = 0
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.entries, func(i, j int) bool {
			return r.entries[i].sys.Phase() < r.entries[j].sys.Phase()
		})
		r.sorted = true
	}
}
