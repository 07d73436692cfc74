package engine

import (
	"time"

	"breather/internal/activity"
)

// EventKind names an outbound notification from the controller.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventTimerCompleted
	EventSessionOpened
	EventBreathingCompleted
	EventExerciseCompleted
	EventSessionSkipped
	EventNothingEnabled
	EventDayStarted
	EventDayEnded
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventTimerCompleted:
		return "timer_completed"
	case EventSessionOpened:
		return "session_opened"
	case EventBreathingCompleted:
		return "breathing_completed"
	case EventExerciseCompleted:
		return "exercise_completed"
	case EventSessionSkipped:
		return "session_skipped"
	case EventNothingEnabled:
		return "nothing_enabled"
	case EventDayStarted:
		return "day_started"
	case EventDayEnded:
		return "day_ended"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to every subscriber on the control
// goroutine.
type Event struct {
	Kind     EventKind
	Activity activity.Type
	At       time.Time
	// Err is set when persisting the change behind the event failed.
	Err error
}
