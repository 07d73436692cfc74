// This file defines the message types that reach the event loop. Clock ticks
// and the midnight rollover arrive as messages so that every change to the
// controller happens inside Update.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Clock Messages
// =============================================================================

// secondTickMsg drives the countdown once a second.
type secondTickMsg time.Time

// frameTickMsg drives the breathing animation while a session is open.
// gen ties the tick to the loop that scheduled it.
type frameTickMsg struct {
	at  time.Time
	gen int
}

// rolloverMsg is posted by the cron scheduler from its own goroutine.
type rolloverMsg time.Time

// =============================================================================
// Status Messages
// =============================================================================

// statusMsg asks the app to show text in the status line.
type statusMsg struct {
	text string
	err  bool
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, err: isErr}
	}
}
