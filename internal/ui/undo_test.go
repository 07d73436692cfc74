// This file contains tests for plan-snapshot undo and redo.
package ui

import (
	"errors"
	"fmt"
	"testing"

	"breather/internal/activity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planStore keeps whatever plan undo installs.
type planStore struct {
	plan     *activity.Plan
	installs int
	err      error
}

func (s *planStore) ReplacePlan(p *activity.Plan) error {
	if s.err != nil {
		return s.err
	}
	s.plan = p
	s.installs++
	return nil
}

// edit applies fn to the stored plan and records it the way the plan pane does.
func (s *planStore) edit(m *UndoManager, desc string, fn func(p *activity.Plan)) {
	before := s.plan.Clone()
	fn(s.plan)
	m.Push(NewPlanEditAction(s, before, s.plan, desc))
}

func entryIDs(p *activity.Plan) []string {
	var ids []string
	for _, e := range p.Order() {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestPlanEditAction_Toggle(t *testing.T) {
	store := &planStore{plan: activity.DefaultPlan()}
	m := NewUndoManager()
	require.False(t, store.plan.IsEnabled(activity.Pushups))

	store.edit(m, "Enabled Push-ups", func(p *activity.Plan) {
		p.SetEnabled(activity.Pushups, true)
	})
	require.True(t, store.plan.IsEnabled(activity.Pushups))

	desc, err := m.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Enabled Push-ups", desc)
	assert.False(t, store.plan.IsEnabled(activity.Pushups))
	assert.True(t, m.CanRedo())

	desc, err = m.Redo()
	require.NoError(t, err)
	assert.Equal(t, "Enabled Push-ups", desc)
	assert.True(t, store.plan.IsEnabled(activity.Pushups))
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestPlanEditAction_Reorder(t *testing.T) {
	store := &planStore{plan: activity.DefaultPlan()}
	m := NewUndoManager()
	original := entryIDs(store.plan)
	require.GreaterOrEqual(t, len(original), 2)

	store.edit(m, "Moved", func(p *activity.Plan) {
		p.MoveActivity(0, len(original)-1)
	})
	moved := entryIDs(store.plan)
	require.NotEqual(t, original, moved)

	_, err := m.Undo()
	require.NoError(t, err)
	assert.Equal(t, original, entryIDs(store.plan))

	_, err = m.Redo()
	require.NoError(t, err)
	assert.Equal(t, moved, entryIDs(store.plan))
}

func TestPlanEditAction_SnapshotsAreIndependent(t *testing.T) {
	store := &planStore{plan: activity.DefaultPlan()}
	m := NewUndoManager()

	store.edit(m, "Enabled Squats", func(p *activity.Plan) {
		p.SetEnabled(activity.Squats, true)
	})
	// The live plan keeps changing after the action was recorded.
	store.plan.SetEnabled(activity.Situps, true)
	store.plan.SetRepCount(activity.Squats, 40)

	_, err := m.Undo()
	require.NoError(t, err)
	undone := store.plan
	assert.False(t, undone.IsEnabled(activity.Squats))
	assert.False(t, undone.IsEnabled(activity.Situps))

	// Editing the installed plan must not reach the stored snapshot.
	undone.SetEnabled(activity.Breathwork, false)

	_, err = m.Redo()
	require.NoError(t, err)
	assert.True(t, store.plan.IsEnabled(activity.Squats))
	assert.False(t, store.plan.IsEnabled(activity.Situps), "redo restores the recorded state, not later edits")
	assert.Equal(t, activity.DefaultConfig().RepCount, store.plan.Config(activity.Squats).RepCount)
	assert.NotSame(t, undone, store.plan)

	store.plan.SetEnabled(activity.Squats, false)
	_, err = m.Undo()
	require.NoError(t, err)
	assert.True(t, store.plan.IsEnabled(activity.Breathwork))
}

func TestUndoManager_FailedUndoStaysOnStack(t *testing.T) {
	store := &planStore{plan: activity.DefaultPlan()}
	m := NewUndoManager()
	store.edit(m, "Enabled Push-ups", func(p *activity.Plan) {
		p.SetEnabled(activity.Pushups, true)
	})

	store.err = errors.New("disk full")
	_, err := m.Undo()
	require.Error(t, err)
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	store.err = nil
	_, err = m.Undo()
	require.NoError(t, err)
	assert.False(t, store.plan.IsEnabled(activity.Pushups))
}

func TestUndoManager_NewEditDropsRedo(t *testing.T) {
	store := &planStore{plan: activity.DefaultPlan()}
	m := NewUndoManager()
	store.edit(m, "Enabled Push-ups", func(p *activity.Plan) {
		p.SetEnabled(activity.Pushups, true)
	})
	_, err := m.Undo()
	require.NoError(t, err)
	require.True(t, m.CanRedo())

	store.edit(m, "Enabled Squats", func(p *activity.Plan) {
		p.SetEnabled(activity.Squats, true)
	})
	assert.False(t, m.CanRedo())

	desc, err := m.Redo()
	require.NoError(t, err)
	assert.Empty(t, desc)
}

func TestUndoManager_EmptyStacks(t *testing.T) {
	m := NewUndoManager()
	desc, err := m.Undo()
	assert.NoError(t, err)
	assert.Empty(t, desc)

	desc, err = m.Redo()
	assert.NoError(t, err)
	assert.Empty(t, desc)
}

func TestUndoManager_HistoryIsBounded(t *testing.T) {
	store := &planStore{plan: activity.DefaultPlan()}
	m := NewUndoManager()
	for i := 0; i < maxHistorySize+5; i++ {
		reps := 10 + i
		store.edit(m, fmt.Sprintf("Reps %d", reps), func(p *activity.Plan) {
			p.SetRepCount(activity.Pushups, reps)
		})
	}

	undone := 0
	for m.CanUndo() {
		_, err := m.Undo()
		require.NoError(t, err)
		undone++
	}
	assert.Equal(t, maxHistorySize, undone)
	// The oldest five edits fell off, so the plan stops at their result.
	assert.Equal(t, 14, store.plan.Config(activity.Pushups).RepCount)
}

func TestUndoManager_ClearDropsPlanHistory(t *testing.T) {
	store := &planStore{plan: activity.DefaultPlan()}
	m := NewUndoManager()
	store.edit(m, "Enabled Push-ups", func(p *activity.Plan) {
		p.SetEnabled(activity.Pushups, true)
	})
	_, err := m.Undo()
	require.NoError(t, err)
	store.edit(m, "Enabled Squats", func(p *activity.Plan) {
		p.SetEnabled(activity.Squats, true)
	})

	m.Clear()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestPlanEditAction_TruncatesDescription(t *testing.T) {
	store := &planStore{plan: activity.DefaultPlan()}
	long := "Changed the breathing cycles for every entry in the rotation"
	action := NewPlanEditAction(store, store.plan, store.plan, long)
	assert.LessOrEqual(t, len(action.Description), 40)
	assert.Equal(t, "..", action.Description[len(action.Description)-2:])
	assert.Equal(t, "", truncateText("abc", 0))
}
