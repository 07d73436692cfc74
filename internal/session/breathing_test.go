package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseTransitions(t *testing.T) {
	const eps = 0.001

	tests := []struct {
		name      string
		holdEmpty bool
		from      Phase
		want      Phase
	}{
		{"inhale to hold", false, PhaseInhale, PhaseHoldFull},
		{"hold to exhale", false, PhaseHoldFull, PhaseExhale},
		{"exhale to inhale", false, PhaseExhale, PhaseInhale},
		{"exhale to rest", true, PhaseExhale, PhaseHoldEmpty},
		{"rest to inhale", true, PhaseHoldEmpty, PhaseInhale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBreathing(10, tt.holdEmpty)
			b.Start()
			for b.Phase() != tt.from {
				b.Tick(b.Phase().Seconds() + eps)
			}
			before := b.CycleCount()

			b.Tick(tt.from.Seconds() - eps)
			assert.Equal(t, tt.from, b.Phase(), "should not advance before the duration elapses")

			b.Tick(2 * eps)
			assert.Equal(t, tt.want, b.Phase())
			assert.Zero(t, b.Elapsed())
			if tt.want == PhaseInhale {
				assert.Equal(t, before+1, b.CycleCount())
			} else {
				assert.Equal(t, before, b.CycleCount())
			}
		})
	}
}

func TestFourCyclesComplete(t *testing.T) {
	b := NewBreathing(4, false)
	completions := 0
	b.SetOnComplete(func() { completions++ })
	b.Start()

	// 4 × (4+6+8) = 72 seconds.
	for i := 0; i < 72; i++ {
		b.Tick(1)
	}

	assert.Equal(t, PhaseCompleted, b.Phase())
	assert.Equal(t, 4, b.CycleCount())
	assert.False(t, b.Active())
	assert.Equal(t, 1, completions)

	b.Tick(1)
	assert.Equal(t, 1, completions, "ticks after completion are ignored")
}

func TestFourCyclesNotDoneEarly(t *testing.T) {
	b := NewBreathing(4, false)
	b.Start()
	for i := 0; i < 71; i++ {
		b.Tick(1)
	}
	assert.Equal(t, PhaseExhale, b.Phase())
	assert.Equal(t, 3, b.CycleCount())
}

func TestHoldEmptyAddsOnePhasePerCycle(t *testing.T) {
	b := NewBreathing(2, true)
	b.Start()

	seen := map[Phase]int{}
	last := PhaseIdle
	seconds := 0
	for b.Phase() != PhaseCompleted {
		if b.Phase() != last {
			seen[b.Phase()]++
			last = b.Phase()
		}
		b.Tick(1)
		seconds++
		require.Less(t, seconds, 1000)
	}

	assert.Equal(t, 2*(4+6+8+4), seconds)
	assert.Equal(t, 2, seen[PhaseHoldEmpty])
	assert.Equal(t, 2, seen[PhaseInhale])
}

func TestHoldEmptyChangeNotRetroactive(t *testing.T) {
	b := NewBreathing(4, true)
	b.Start()
	for b.Phase() != PhaseExhale {
		b.Tick(1)
	}
	b.Tick(3)

	b.SetIncludeHoldEmpty(false)
	assert.Equal(t, PhaseExhale, b.Phase())
	assert.InDelta(t, 3.0, b.Elapsed(), 1e-9)

	b.Tick(5)
	assert.Equal(t, PhaseInhale, b.Phase(), "rest phase dropped at the next transition")

	b.SetIncludeHoldEmpty(true)
	for b.Phase() != PhaseExhale {
		b.Tick(1)
	}
	b.Tick(8)
	assert.Equal(t, PhaseHoldEmpty, b.Phase())
}

func TestTickIgnoredWhenInactive(t *testing.T) {
	b := NewBreathing(4, false)
	b.Tick(100)
	assert.Equal(t, PhaseIdle, b.Phase())

	b.Start()
	b.Tick(2)
	b.Pause()
	b.Tick(100)
	assert.Equal(t, PhaseInhale, b.Phase())
	assert.InDelta(t, 2.0, b.Elapsed(), 1e-9)
}

func TestToggle(t *testing.T) {
	b := NewBreathing(1, false)

	b.Toggle()
	assert.Equal(t, PhaseInhale, b.Phase())
	assert.True(t, b.Active())

	b.Toggle()
	assert.False(t, b.Active())
	b.Toggle()
	assert.True(t, b.Active())

	for b.Phase() != PhaseCompleted {
		b.Tick(1)
	}
	b.Toggle()
	assert.Equal(t, PhaseInhale, b.Phase())
	assert.Zero(t, b.CycleCount())
	assert.True(t, b.Active())
}

func TestResetZeroesCounters(t *testing.T) {
	b := NewBreathing(4, false)
	b.Start()
	for i := 0; i < 30; i++ {
		b.Tick(1)
	}
	require.Positive(t, b.CycleCount())

	b.Reset()
	assert.Equal(t, PhaseIdle, b.Phase())
	assert.Zero(t, b.CycleCount())
	assert.Zero(t, b.Elapsed())
	assert.False(t, b.Active())
}

func TestExpansion(t *testing.T) {
	b := NewBreathing(4, true)
	assert.InDelta(t, 0.1, b.Expansion(), 1e-9)

	b.Start()
	assert.InDelta(t, 0.0, b.Expansion(), 1e-9)
	b.Tick(2)
	assert.InDelta(t, 0.7071, b.Expansion(), 1e-3)
	b.Tick(2)

	assert.Equal(t, PhaseHoldFull, b.Phase())
	assert.InDelta(t, 1.0, b.Expansion(), 1e-9)
	b.Tick(6)

	assert.Equal(t, PhaseExhale, b.Phase())
	assert.InDelta(t, 1.0, b.Expansion(), 1e-9)
	b.Tick(4)
	assert.InDelta(t, 1-0.7071, b.Expansion(), 1e-3)
	b.Tick(4)

	assert.Equal(t, PhaseHoldEmpty, b.Phase())
	assert.InDelta(t, 0.0, b.Expansion(), 1e-9)
}

func TestElapsedStaysWithinPhase(t *testing.T) {
	b := NewBreathing(1, false)
	b.Start()
	b.Tick(30)
	assert.Equal(t, PhaseHoldFull, b.Phase(), "a long tick advances a single phase")
	assert.LessOrEqual(t, b.Elapsed(), b.Phase().Seconds())
}

func TestElapsedWithinCompletedPhase(t *testing.T) {
	b := NewBreathing(1, false)
	b.Start()
	for i := 0; i < 19; i++ {
		b.Tick(1)
	}
	require.Equal(t, PhaseCompleted, b.Phase())
	assert.Zero(t, b.Elapsed())
	assert.LessOrEqual(t, b.Elapsed(), b.Phase().Seconds())
	assert.Zero(t, b.Remaining())
}

func TestConfigureClampsCycles(t *testing.T) {
	b := NewBreathing(0, false)
	assert.Equal(t, 1, b.TotalCycles())
}

func TestPhaseColorHex(t *testing.T) {
	assert.Equal(t, "#4fc3f7", PhaseInhale.Color().Hex())
}
