package session

import "time"

// Phase is one stage of a guided breathing cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInhale
	PhaseHoldFull
	PhaseExhale
	PhaseHoldEmpty
	PhaseCompleted
)

// RGB is a display color for a phase.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb", the form lipgloss accepts.
func (c RGB) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b)
}

type phaseInfo struct {
	duration    time.Duration
	label       string
	instruction string
	color       RGB
}

var phases = map[Phase]phaseInfo{
	PhaseIdle:      {0, "Ready", "Press space to begin", RGB{120, 144, 156}},
	PhaseInhale:    {4 * time.Second, "Inhale", "Breathe in slowly through your nose", RGB{79, 195, 247}},
	PhaseHoldFull:  {6 * time.Second, "Hold", "Hold your breath gently", RGB{129, 199, 132}},
	PhaseExhale:    {8 * time.Second, "Exhale", "Release slowly through your mouth", RGB{186, 104, 200}},
	PhaseHoldEmpty: {4 * time.Second, "Rest", "Pause before the next breath", RGB{255, 183, 77}},
	PhaseCompleted: {0, "Done", "Well done. Session complete", RGB{102, 187, 106}},
}

// Duration is how long the phase lasts. Idle and Completed have no duration.
func (p Phase) Duration() time.Duration { return phases[p].duration }

// Seconds is Duration expressed in fractional seconds.
func (p Phase) Seconds() float64 { return p.Duration().Seconds() }

func (p Phase) Label() string       { return phases[p].label }
func (p Phase) Instruction() string { return phases[p].instruction }
func (p Phase) Color() RGB          { return phases[p].color }

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInhale:
		return "inhale"
	case PhaseHoldFull:
		return "hold_full"
	case PhaseExhale:
		return "exhale"
	case PhaseHoldEmpty:
		return "hold_empty"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// next returns the phase following p. Completed only leaves via Reset, so it
// maps to Idle here for completeness.
func (p Phase) next(includeHoldEmpty bool) Phase {
	switch p {
	case PhaseIdle:
		return PhaseInhale
	case PhaseInhale:
		return PhaseHoldFull
	case PhaseHoldFull:
		return PhaseExhale
	case PhaseExhale:
		if includeHoldEmpty {
			return PhaseHoldEmpty
		}
		return PhaseInhale
	case PhaseHoldEmpty:
		return PhaseInhale
	default:
		return PhaseIdle
	}
}
