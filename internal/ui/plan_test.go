package ui

import (
	"testing"

	"breather/internal/activity"
	"breather/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanPane(t *testing.T) (*PlanPane, *UndoManager) {
	t.Helper()
	undo := NewUndoManager()
	p := NewPlanPane(createTestSettings(t, nil), undo, createTestStyles(), &config.KeysConfig{})
	p.SetSize(50, 24)
	p.SetFocused(true)
	return p, undo
}

// cursorTo moves the cursor onto the first entry of type want.
func cursorTo(t *testing.T, p *PlanPane, want activity.Type) {
	t.Helper()
	for i, e := range p.plan().Order() {
		if e.Type == want {
			p.cursor = i
			return
		}
	}
	t.Fatalf("no %s entry in plan", want)
}

func statusOf(t *testing.T, p *PlanPane, msg any) statusMsg {
	t.Helper()
	cmd := p.Update(msg)
	require.NotNil(t, cmd, "expected a status command")
	st, ok := cmd().(statusMsg)
	require.True(t, ok, "expected a statusMsg")
	return st
}

func TestPlanPane_Navigation(t *testing.T) {
	p, _ := newTestPlanPane(t)

	p.Update(keyRunes("j"))
	p.Update(keyRunes("j"))
	assert.Equal(t, 2, p.cursor)

	p.Update(keyRunes("G"))
	assert.Equal(t, len(p.plan().Order())-1, p.cursor)

	p.Update(keyRunes("j"))
	assert.Equal(t, len(p.plan().Order())-1, p.cursor, "cursor stays on the last row")

	p.Update(keyRunes("g"))
	assert.Equal(t, 0, p.cursor)
}

func TestPlanPane_ToggleIsUndoable(t *testing.T) {
	p, undo := newTestPlanPane(t)
	cursorTo(t, p, activity.Pushups)

	st := statusOf(t, p, keySpace())
	assert.Equal(t, "Enabled Push-ups", st.text)
	assert.True(t, p.plan().IsEnabled(activity.Pushups))

	desc, err := undo.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Enabled Push-ups", desc)
	assert.False(t, p.plan().IsEnabled(activity.Pushups))

	_, err = undo.Redo()
	require.NoError(t, err)
	assert.True(t, p.plan().IsEnabled(activity.Pushups))
}

func TestPlanPane_DuplicateAndRemove(t *testing.T) {
	p, _ := newTestPlanPane(t)
	cursorTo(t, p, activity.Squats)

	st := statusOf(t, p, keyRunes("x"))
	assert.True(t, st.err)
	assert.Equal(t, "Can't remove the only Squats entry", st.text)

	before := len(p.plan().Order())
	p.Update(keyRunes("d"))
	require.Len(t, p.plan().Order(), before+1)
	assert.Equal(t, activity.Squats, p.plan().Order()[p.cursor].Type)

	st = statusOf(t, p, keyRunes("x"))
	assert.False(t, st.err)
	assert.Len(t, p.plan().Order(), before)
}

func TestPlanPane_MoveEntry(t *testing.T) {
	p, _ := newTestPlanPane(t)
	first := p.plan().Order()[0]

	p.Update(keyRunes("J"))
	assert.Equal(t, first.ID, p.plan().Order()[1].ID)
	assert.Equal(t, 1, p.cursor)

	p.Update(keyRunes("K"))
	assert.Equal(t, first.ID, p.plan().Order()[0].ID)

	// Already at the top: nothing to record.
	assert.Nil(t, p.Update(keyRunes("K")))
}

func TestPlanPane_PickNextUp(t *testing.T) {
	p, _ := newTestPlanPane(t)
	cursorTo(t, p, activity.Pushups)

	st := statusOf(t, p, keyRunes("n"))
	assert.True(t, st.err)
	assert.Equal(t, "Enable Push-ups first", st.text)

	p.Update(keySpace())
	st = statusOf(t, p, keyRunes("n"))
	assert.Equal(t, "Next up: Push-ups", st.text)
	assert.Equal(t, p.plan().Order()[p.cursor].ID, p.plan().NextUpID())

	next, ok := p.plan().GetNextActivity()
	require.True(t, ok)
	assert.Equal(t, activity.Pushups, next)

	st = statusOf(t, p, keyRunes("n"))
	assert.Equal(t, "Cleared next up", st.text)
	assert.Empty(t, p.plan().NextUpID())
}

func TestPlanPane_EditClampsCount(t *testing.T) {
	p, _ := newTestPlanPane(t)
	cursorTo(t, p, activity.Breathwork)

	p.Update(keyRunes("e"))
	require.True(t, p.IsEditing())
	p.input.SetValue("999")
	p.Update(keyEnter())

	assert.False(t, p.IsEditing())
	assert.Equal(t, activity.MaxBreathingCycles, p.plan().Config(activity.Breathwork).BreathingCycles)

	cursorTo(t, p, activity.Situps)
	p.Update(keyRunes("e"))
	p.input.SetValue("0")
	p.Update(keyEnter())
	assert.Equal(t, activity.MinRepCount, p.plan().Config(activity.Situps).RepCount)
}

func TestPlanPane_HoldEmptyOnlyForBreathwork(t *testing.T) {
	p, undo := newTestPlanPane(t)

	cursorTo(t, p, activity.Squats)
	assert.Nil(t, p.Update(keyRunes("h")))
	assert.False(t, undo.CanUndo())

	cursorTo(t, p, activity.Breathwork)
	st := statusOf(t, p, keyRunes("h"))
	assert.Equal(t, "Rest phase on", st.text)
	assert.True(t, p.plan().Config(activity.Breathwork).IncludeHoldEmpty)
}

func TestPlanPane_NoChangeIsNotRecorded(t *testing.T) {
	p, undo := newTestPlanPane(t)
	cursorTo(t, p, activity.Breathwork)

	p.Update(keyRunes("e"))
	p.input.SetValue("4")
	assert.Nil(t, p.Update(keyEnter()))
	assert.False(t, undo.CanUndo())
}

func TestPlanPaneView(t *testing.T) {
	setupTest(t)
	p, _ := newTestPlanPane(t)

	view := p.View()
	for _, want := range []string{"ROTATION", "Breathwork", "4 cycles", "Push-ups", "10 reps", "1/4 enabled", "◀"} {
		assert.Contains(t, view, want)
	}
}
