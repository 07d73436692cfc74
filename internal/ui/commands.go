// This file contains tea.Cmd factories for the clocks that drive the
// controller, and the bridge that lets a foreign goroutine reach the event
// loop.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultFrameInterval is used when no frame rate is configured.
const defaultFrameInterval = time.Second / 30

// secondTickCmd returns a command that sends a tick every second.
func secondTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return secondTickMsg(t)
	})
}

// frameTickCmd schedules the next animation frame for loop gen.
func frameTickCmd(interval time.Duration, gen int) tea.Cmd {
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameTickMsg{at: t, gen: gen}
	})
}

// Sender is the part of *tea.Program used to post messages from outside the
// event loop.
type Sender interface {
	Send(msg tea.Msg)
}

// RolloverFunc adapts a program into the callback the rollover scheduler
// fires. The scheduler runs on its own goroutine, so it only posts a message.
func RolloverFunc(p Sender) func(time.Time) {
	return func(t time.Time) {
		p.Send(rolloverMsg(t))
	}
}
