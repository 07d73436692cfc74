// This file implements the undo/redo system using a command pattern with
// captured plan snapshots for each undoable edit.
package ui

import (
	"breather/internal/activity"

	"github.com/mattn/go-runewidth"
)

// maxHistorySize bounds the undo stack; the oldest edit falls off first.
const maxHistorySize = 50

// UndoableAction is one reversible edit.
type UndoableAction struct {
	Description string       // shown in the status line
	Undo        func() error // reverses the edit
	Redo        func() error // reapplies it; nil means the edit cannot be redone
}

// UndoManager holds the undo and redo stacks. It is only used from the
// bubbletea Update loop and is not safe for concurrent use.
type UndoManager struct {
	undoStack []*UndoableAction
	redoStack []*UndoableAction
}

// NewUndoManager creates an empty history.
func NewUndoManager() *UndoManager {
	return &UndoManager{}
}

// Push records a new edit and drops any redo history.
func (m *UndoManager) Push(action *UndoableAction) {
	m.redoStack = nil
	if len(m.undoStack) >= maxHistorySize {
		m.undoStack = m.undoStack[1:]
	}
	m.undoStack = append(m.undoStack, action)
}

func (m *UndoManager) CanUndo() bool { return len(m.undoStack) > 0 }
func (m *UndoManager) CanRedo() bool { return len(m.redoStack) > 0 }

// Undo reverses the latest edit and returns its description, or "" when
// there is nothing to undo. A failed undo stays on the stack.
func (m *UndoManager) Undo() (string, error) {
	action, err := step(&m.undoStack, func(a *UndoableAction) func() error { return a.Undo })
	if action == nil || err != nil {
		return "", err
	}
	if action.Redo != nil {
		m.redoStack = append(m.redoStack, action)
	}
	return action.Description, nil
}

// Redo reapplies the latest undone edit and returns its description, or ""
// when there is nothing to redo.
func (m *UndoManager) Redo() (string, error) {
	action, err := step(&m.redoStack, func(a *UndoableAction) func() error { return a.Redo })
	if action == nil || err != nil {
		return "", err
	}
	m.undoStack = append(m.undoStack, action)
	return action.Description, nil
}

// Clear forgets all history. Called when the rotation moves on, since an
// older plan snapshot would rewind it.
func (m *UndoManager) Clear() {
	m.undoStack = nil
	m.redoStack = nil
}

// step pops the top of stack and runs the chosen function on it, putting it
// back if that fails.
func step(stack *[]*UndoableAction, fn func(*UndoableAction) func() error) (*UndoableAction, error) {
	n := len(*stack)
	if n == 0 {
		return nil, nil
	}
	action := (*stack)[n-1]
	if err := fn(action)(); err != nil {
		return action, err
	}
	*stack = (*stack)[:n-1]
	return action, nil
}

// =============================================================================
// Undoable Action Factories
// =============================================================================

// planReplacer is the part of settings.Settings that undo needs.
type planReplacer interface {
	ReplacePlan(p *activity.Plan) error
}

// NewPlanEditAction creates an undoable action for a plan edit from whole
// snapshots taken before and after it. Each step installs a fresh clone so
// the stored snapshots are never mutated by later edits.
func NewPlanEditAction(target planReplacer, before, after *activity.Plan, desc string) *UndoableAction {
	before, after = before.Clone(), after.Clone()
	return &UndoableAction{
		Description: truncateText(desc, 40),
		Undo: func() error {
			return target.ReplacePlan(before.Clone())
		},
		Redo: func() error {
			return target.ReplacePlan(after.Clone())
		},
	}
}

// truncateText shortens text to maxLen with ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
