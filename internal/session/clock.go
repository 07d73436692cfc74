package session

import "time"

// maxFrameDelta caps a single frame step so a stalled terminal or a suspended
// laptop does not skip whole phases on wake.
const maxFrameDelta = 250 * time.Millisecond

// TickSource delivers elapsed-time deltas, in seconds, to one listener.
type TickSource interface {
	OnTick(fn func(dt float64))
}

// PhaseClock turns wall-clock frame timestamps into deltas. Frames that arrive
// out of order or repeat a timestamp are dropped, so listeners only ever see
// positive, monotonic progress.
type PhaseClock struct {
	listener func(dt float64)
	last     time.Time
	running  bool
	maxDelta time.Duration
}

var _ TickSource = (*PhaseClock)(nil)

func NewPhaseClock() *PhaseClock {
	return &PhaseClock{maxDelta: maxFrameDelta}
}

// OnTick registers the single listener. A later call replaces it.
func (c *PhaseClock) OnTick(fn func(dt float64)) {
	c.listener = fn
}

// SetMaxDelta overrides the per-frame clamp. Zero disables clamping.
func (c *PhaseClock) SetMaxDelta(d time.Duration) {
	c.maxDelta = d
}

// Start arms the clock with now as the reference timestamp.
func (c *PhaseClock) Start(now time.Time) {
	c.running = true
	c.last = now
}

func (c *PhaseClock) Stop() {
	c.running = false
	c.last = time.Time{}
}

func (c *PhaseClock) Running() bool { return c.running }

// Frame feeds one frame timestamp. It reports whether a delta was delivered.
func (c *PhaseClock) Frame(now time.Time) bool {
	if !c.running {
		return false
	}
	if c.last.IsZero() {
		c.last = now
		return false
	}
	if !now.After(c.last) {
		return false
	}
	d := now.Sub(c.last)
	c.last = now
	if c.maxDelta > 0 && d > c.maxDelta {
		d = c.maxDelta
	}
	if c.listener != nil {
		c.listener(d.Seconds())
	}
	return true
}
