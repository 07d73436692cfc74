package session

import "math"

// idleExpansion is the resting size of the breathing visual.
const idleExpansion = 0.1

// Breathing drives a single guided-breathing run through its phases.
//
// It holds no clock of its own: callers advance it with Tick, normally from a
// PhaseClock. All methods must be called from the same goroutine.
type Breathing struct {
	phase            Phase
	elapsed          float64 // seconds within the current phase
	cycleCount       int
	totalCycles      int
	includeHoldEmpty bool
	active           bool

	onComplete func()
}

// NewBreathing returns an idle session targeting the given number of cycles.
func NewBreathing(totalCycles int, includeHoldEmpty bool) *Breathing {
	b := &Breathing{}
	b.Configure(totalCycles, includeHoldEmpty)
	return b
}

// SetOnComplete registers the callback fired when the final cycle finishes.
func (b *Breathing) SetOnComplete(fn func()) {
	b.onComplete = fn
}

// Configure sets the session target. A change to includeHoldEmpty takes
// effect at the next phase transition; the current phase is left alone.
func (b *Breathing) Configure(totalCycles int, includeHoldEmpty bool) {
	if totalCycles < 1 {
		totalCycles = 1
	}
	b.totalCycles = totalCycles
	b.includeHoldEmpty = includeHoldEmpty
	if b.cycleCount > b.totalCycles {
		b.cycleCount = b.totalCycles
	}
}

// SetIncludeHoldEmpty toggles the optional rest phase without touching the
// cycle target.
func (b *Breathing) SetIncludeHoldEmpty(v bool) {
	b.includeHoldEmpty = v
}

// Tick advances the session by dt seconds. It is a no-op while paused or
// completed.
func (b *Breathing) Tick(dt float64) {
	if !b.active || b.phase == PhaseCompleted || dt <= 0 {
		return
	}
	b.elapsed += dt
	if b.elapsed >= b.phase.Seconds() {
		b.advancePhase()
	}
}

func (b *Breathing) advancePhase() {
	next := b.phase.next(b.includeHoldEmpty)
	if next == PhaseInhale && b.phase != PhaseIdle {
		b.cycleCount++
		if b.cycleCount >= b.totalCycles {
			b.cycleCount = b.totalCycles
			b.elapsed = 0
			b.phase = PhaseCompleted
			b.active = false
			if b.onComplete != nil {
				b.onComplete()
			}
			return
		}
	}
	b.phase = next
	b.elapsed = 0
}

// Start begins a fresh run from Idle or Completed, or resumes a paused one.
func (b *Breathing) Start() {
	if b.phase == PhaseIdle || b.phase == PhaseCompleted {
		b.cycleCount = 0
		b.elapsed = 0
		b.phase = PhaseInhale
	}
	b.active = true
}

// Pause stops the session without losing progress.
func (b *Breathing) Pause() {
	b.active = false
}

// Toggle starts, restarts, pauses or resumes depending on the current phase.
func (b *Breathing) Toggle() {
	switch b.phase {
	case PhaseCompleted:
		b.Reset()
		b.Start()
	case PhaseIdle:
		b.Start()
	default:
		b.active = !b.active
	}
}

// Reset returns the session to Idle with zeroed counters.
func (b *Breathing) Reset() {
	b.active = false
	b.phase = PhaseIdle
	b.elapsed = 0
	b.cycleCount = 0
}

// Expansion is the normalized size of the breathing visual in [0, 1].
func (b *Breathing) Expansion() float64 {
	p := b.Progress()
	switch b.phase {
	case PhaseInhale:
		return math.Sin(p * math.Pi / 2)
	case PhaseHoldFull:
		return 1
	case PhaseExhale:
		return 1 - math.Sin(p*math.Pi/2)
	case PhaseHoldEmpty:
		return 0
	default:
		return idleExpansion
	}
}

// Progress is the fraction of the current phase that has elapsed.
func (b *Breathing) Progress() float64 {
	d := b.phase.Seconds()
	if d <= 0 {
		return 0
	}
	return math.Min(b.elapsed/d, 1)
}

// Remaining is the number of seconds left in the current phase.
func (b *Breathing) Remaining() float64 {
	return math.Max(b.phase.Seconds()-b.elapsed, 0)
}

func (b *Breathing) Phase() Phase           { return b.phase }
func (b *Breathing) Elapsed() float64       { return b.elapsed }
func (b *Breathing) CycleCount() int        { return b.cycleCount }
func (b *Breathing) TotalCycles() int       { return b.totalCycles }
func (b *Breathing) IncludeHoldEmpty() bool { return b.includeHoldEmpty }
func (b *Breathing) Active() bool           { return b.active }
