package ui

import (
	"fmt"
	"math"
	"strings"

	"breather/internal/activity"
	"breather/internal/engine"
	"breather/internal/session"

	"github.com/charmbracelet/lipgloss"
)

// sessionWidth is the inner width of the session overlay.
const sessionWidth = 54

// SessionView renders the open breathing or exercise session as a modal
// overlay. Its keys are handled by App.
type SessionView struct {
	styles *Styles
	keys   SessionKeyMap
}

// NewSessionView creates the session overlay.
func NewSessionView(styles *Styles, keys SessionKeyMap) *SessionView {
	return &SessionView{styles: styles, keys: keys}
}

// View renders the overlay for snap, or "" when no session is open.
func (v *SessionView) View(snap engine.Snapshot) string {
	var body string
	switch snap.Mode {
	case engine.ModeBreathing:
		body = v.breathingView(snap)
	case engine.ModeExercise:
		body = v.exerciseView(snap)
	default:
		return ""
	}
	return v.styles.OverlayStyle.Width(sessionWidth + 6).Render(body)
}

func (v *SessionView) title(t activity.Type) string {
	return v.styles.PaneTitleStyle.Render(t.Icon() + "  " + strings.ToUpper(t.Name()))
}

func (v *SessionView) breathingView(snap engine.Snapshot) string {
	var b strings.Builder
	b.WriteString(v.title(snap.Current))
	b.WriteString("\n")

	phase := snap.Phase
	phaseStyle := v.styles.PhaseStyle(phase)

	if phase == session.PhaseIdle && !snap.BreathActive {
		b.WriteString(v.styles.InstructionStyle.Render(snap.Current.Instruction()))
		b.WriteString("\n\n")
		b.WriteString(v.styles.StatLabelStyle.Render(fmt.Sprintf("%d cycles", snap.TotalCycles)))
		b.WriteString("\n\n")
		b.WriteString(v.styles.StatValueStyle.Render("Press space to begin"))
		b.WriteString("\n\n")
		b.WriteString(v.hint(snap))
		return b.String()
	}

	label := v.styles.PhaseLabelStyle.Inherit(phaseStyle).Render(phase.Label())
	if !snap.BreathActive {
		label += "  " + v.styles.TimerPausedStyle.Render("Paused")
	}
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(v.styles.InstructionStyle.Render(phase.Instruction()))
	b.WriteString("\n\n")

	b.WriteString(renderBar(snap.Expansion, sessionWidth, phaseStyle, v.styles.ProgressEmpty))
	b.WriteString("\n")
	b.WriteString(v.styles.StatLabelStyle.Render(fmt.Sprintf("%.1fs", math.Max(snap.PhaseRemaining, 0))))
	b.WriteString("\n\n")

	cycle := min(snap.Cycle+1, snap.TotalCycles)
	b.WriteString(v.styles.StatLabelStyle.Render("Cycle ") +
		v.styles.StatValueStyle.Render(fmt.Sprintf("%d/%d", cycle, snap.TotalCycles)))
	rest := "off"
	if snap.HoldEmpty {
		rest = "on"
	}
	b.WriteString(v.styles.StatLabelStyle.Render("   Rest phase " + rest))
	b.WriteString("\n\n")
	b.WriteString(v.hint(snap))
	return b.String()
}

func (v *SessionView) exerciseView(snap engine.Snapshot) string {
	var b strings.Builder
	b.WriteString(v.title(snap.Current))
	b.WriteString("\n")

	b.WriteString(v.styles.RepsStyle.Render(fmt.Sprintf("%d reps", snap.TargetReps)))
	b.WriteString("\n")
	b.WriteString(v.styles.InstructionStyle.Render(snap.Current.Instruction()))
	b.WriteString("\n\n")

	switch snap.ExerciseState {
	case session.ExerciseIdle:
		b.WriteString(v.styles.StatValueStyle.Render("Press space to start"))
	case session.ExerciseActive:
		b.WriteString(v.styles.TimerRunningStyle.Render("Go! Press enter when done"))
	case session.ExerciseCompleted:
		b.WriteString(v.styles.TimerRunningStyle.Render("✓ Done"))
	}
	b.WriteString("\n\n")
	b.WriteString(v.hint(snap))
	return b.String()
}

func (v *SessionView) hint(snap engine.Snapshot) string {
	pairs := []string{}
	if snap.Mode == engine.ModeBreathing {
		action := "start"
		if snap.BreathActive {
			action = "pause"
		} else if snap.Phase != session.PhaseIdle {
			action = "resume"
		}
		pairs = append(pairs, helpLabel(v.keys.Toggle), action, helpLabel(v.keys.HoldEmpty), "rest")
	} else {
		pairs = append(pairs, helpLabel(v.keys.Toggle), "start", helpLabel(v.keys.Complete), "done")
	}
	pairs = append(pairs, helpLabel(v.keys.Skip), "skip", helpLabel(v.keys.Close), "close")
	return v.styles.RenderHelp(pairs...)
}

// renderBar draws a horizontal bar with fraction of width filled.
func renderBar(fraction float64, width int, full, empty lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	fraction = math.Min(math.Max(fraction, 0), 1)
	filled := int(math.Round(fraction * float64(width)))
	return full.Render(strings.Repeat("█", filled)) +
		empty.Render(strings.Repeat("░", width-filled))
}
