package ui

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"breather/internal/activity"
	"breather/internal/config"
	"breather/internal/settings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// errNoChange reports a plan edit that left the plan as it was.
var errNoChange = errors.New("nothing changed")

// planEditor applies plan edits through the settings container and records
// each one for undo.
type planEditor struct {
	settings *settings.Settings
	undo     *UndoManager
}

// apply runs fn against the live plan and saves it. fn reports whether the
// edit was valid; only edits that changed the plan go onto the undo stack.
func (e *planEditor) apply(desc string, fn func(p *activity.Plan) bool) error {
	before := e.settings.Plan().Clone()
	var ok bool
	err := e.settings.UpdatePlan(func(p *activity.Plan) { ok = fn(p) })
	if !ok || reflect.DeepEqual(before.State(), e.settings.Plan().State()) {
		if err != nil {
			return err
		}
		return errNoChange
	}
	e.undo.Push(NewPlanEditAction(e.settings, before, e.settings.Plan(), desc))
	return err
}

// PlanPane lists the rotation and edits it.
type PlanPane struct {
	editor  *planEditor
	styles  *Styles
	focused bool
	width   int
	height  int
	cursor  int

	editing  bool
	editType activity.Type
	input    textinput.Model

	// Key bindings
	keys      PlanKeyMap
	inputKeys InputKeyMap
}

// NewPlanPane creates a plan pane over s. Edits are recorded in undo.
func NewPlanPane(s *settings.Settings, undo *UndoManager, styles *Styles, keyCfg *config.KeysConfig) *PlanPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.CharLimit = 3
	ti.Width = 10
	ti.Validate = func(s string) error {
		if _, err := strconv.Atoi(s); s != "" && err != nil {
			return err
		}
		return nil
	}

	return &PlanPane{
		editor:    &planEditor{settings: s, undo: undo},
		styles:    styles,
		input:     ti,
		keys:      NewPlanKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *PlanPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *PlanPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsEditing returns whether the reps/cycles input is open.
func (p *PlanPane) IsEditing() bool {
	return p.editing
}

// Selected returns the entry under the cursor.
func (p *PlanPane) Selected() (activity.Entry, int, bool) {
	order := p.plan().Order()
	if len(order) == 0 {
		return activity.Entry{}, 0, false
	}
	p.cursor = min(max(p.cursor, 0), len(order)-1)
	return order[p.cursor], p.cursor, true
}

func (p *PlanPane) plan() *activity.Plan {
	return p.editor.settings.Plan()
}

// Update handles messages for the plan pane.
func (p *PlanPane) Update(msg tea.Msg) tea.Cmd {
	if p.editing {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				value := strings.TrimSpace(p.input.Value())
				t := p.editType
				p.closeInput()
				if value == "" {
					return nil
				}
				n, err := strconv.Atoi(value)
				if err != nil {
					return statusCmd("Enter a number", true)
				}
				return p.setCount(t, n)

			case key.Matches(msg, p.inputKeys.Cancel):
				p.closeInput()
				return nil
			}
		}

		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		count := len(p.plan().Order())
		switch {
		case key.Matches(msg, p.keys.Down):
			if count > 0 {
				p.cursor = min(p.cursor+1, count-1)
			}
		case key.Matches(msg, p.keys.Up):
			p.cursor = max(p.cursor-1, 0)
		case key.Matches(msg, p.keys.Top):
			p.cursor = 0
		case key.Matches(msg, p.keys.Bottom):
			p.cursor = max(count-1, 0)

		case key.Matches(msg, p.keys.Toggle):
			return p.toggleSelected()
		case key.Matches(msg, p.keys.Edit):
			return p.openEditor()
		case key.Matches(msg, p.keys.Duplicate):
			return p.duplicateSelected()
		case key.Matches(msg, p.keys.Remove):
			return p.RemoveSelected()
		case key.Matches(msg, p.keys.MoveUp):
			return p.moveSelected(-1)
		case key.Matches(msg, p.keys.MoveDown):
			return p.moveSelected(+1)
		case key.Matches(msg, p.keys.SetNextUp):
			return p.pickSelected()
		case key.Matches(msg, p.keys.HoldEmpty):
			return p.toggleHoldEmpty()
		}
	}

	return nil
}

func (p *PlanPane) closeInput() {
	p.editing = false
	p.input.Reset()
	p.input.Blur()
}

// result turns an edit outcome into a status line.
func result(err error, done string) tea.Cmd {
	switch {
	case errors.Is(err, errNoChange):
		return nil
	case err != nil:
		return statusCmd("Save plan: "+err.Error(), true)
	default:
		return statusCmd(done, false)
	}
}

func (p *PlanPane) toggleSelected() tea.Cmd {
	entry, _, ok := p.Selected()
	if !ok {
		return nil
	}
	on := !p.plan().IsEnabled(entry.Type)
	verb := "Disabled"
	if on {
		verb = "Enabled"
	}
	desc := verb + " " + entry.Type.Name()
	err := p.editor.apply(desc, func(pl *activity.Plan) bool {
		return pl.SetEnabled(entry.Type, on)
	})
	return result(err, desc)
}

func (p *PlanPane) openEditor() tea.Cmd {
	entry, _, ok := p.Selected()
	if !ok {
		return nil
	}
	cfg := p.plan().Config(entry.Type)
	p.editing = true
	p.editType = entry.Type
	if entry.Type.IsBreathing() {
		p.input.Placeholder = "cycles"
		p.input.SetValue(strconv.Itoa(cfg.BreathingCycles))
	} else {
		p.input.Placeholder = "reps"
		p.input.SetValue(strconv.Itoa(cfg.RepCount))
	}
	p.input.CursorEnd()
	p.input.Focus()
	return textinput.Blink
}

func (p *PlanPane) setCount(t activity.Type, n int) tea.Cmd {
	if t.IsBreathing() {
		n = min(max(n, activity.MinBreathingCycles), activity.MaxBreathingCycles)
		desc := fmt.Sprintf("%s: %d cycles", t.Name(), n)
		err := p.editor.apply(desc, func(pl *activity.Plan) bool {
			return pl.SetBreathingCycles(t, n)
		})
		return result(err, desc)
	}
	n = min(max(n, activity.MinRepCount), activity.MaxRepCount)
	desc := fmt.Sprintf("%s: %d reps", t.Name(), n)
	err := p.editor.apply(desc, func(pl *activity.Plan) bool {
		return pl.SetRepCount(t, n)
	})
	return result(err, desc)
}

func (p *PlanPane) duplicateSelected() tea.Cmd {
	entry, at, ok := p.Selected()
	if !ok {
		return nil
	}
	desc := "Duplicated " + entry.Type.Name()
	err := p.editor.apply(desc, func(pl *activity.Plan) bool {
		_, ok := pl.DuplicateActivity(at)
		return ok
	})
	if err == nil {
		p.cursor = at + 1
	}
	return result(err, desc)
}

// CanRemoveSelected reports whether the entry under the cursor may be
// removed, with the reason when it may not.
func (p *PlanPane) CanRemoveSelected() (activity.Entry, string, bool) {
	entry, at, ok := p.Selected()
	if !ok {
		return activity.Entry{}, "Nothing selected", false
	}
	if !p.plan().CanRemove(at) {
		return entry, "Can't remove the only " + entry.Type.Name() + " entry", false
	}
	return entry, "", true
}

// RemoveSelected removes the entry under the cursor.
func (p *PlanPane) RemoveSelected() tea.Cmd {
	entry, reason, ok := p.CanRemoveSelected()
	if !ok {
		return statusCmd(reason, true)
	}
	_, at, _ := p.Selected()
	desc := "Removed " + entry.Type.Name()
	err := p.editor.apply(desc, func(pl *activity.Plan) bool {
		_, ok := pl.RemoveActivity(at)
		return ok
	})
	p.cursor = min(p.cursor, max(len(p.plan().Order())-1, 0))
	return result(err, desc)
}

func (p *PlanPane) moveSelected(dir int) tea.Cmd {
	entry, at, ok := p.Selected()
	if !ok {
		return nil
	}
	to := at + dir
	if to < 0 || to >= len(p.plan().Order()) {
		return nil
	}
	desc := "Moved " + entry.Type.Name()
	err := p.editor.apply(desc, func(pl *activity.Plan) bool {
		return pl.MoveActivity(at, to)
	})
	if err == nil {
		p.cursor = to
	}
	return result(err, desc)
}

// pickSelected makes the entry under the cursor the next activity, or
// clears the pick if it already is.
func (p *PlanPane) pickSelected() tea.Cmd {
	entry, _, ok := p.Selected()
	if !ok {
		return nil
	}
	if !p.plan().IsEnabled(entry.Type) {
		return statusCmd("Enable "+entry.Type.Name()+" first", true)
	}
	if p.plan().NextUpID() == entry.ID {
		err := p.editor.apply("Cleared next up", func(pl *activity.Plan) bool {
			pl.ClearNextUp()
			return true
		})
		return result(err, "Cleared next up")
	}
	desc := "Next up: " + entry.Type.Name()
	err := p.editor.apply(desc, func(pl *activity.Plan) bool {
		return pl.SetNextUpEntry(entry.ID)
	})
	return result(err, desc)
}

func (p *PlanPane) toggleHoldEmpty() tea.Cmd {
	entry, _, ok := p.Selected()
	if !ok || !entry.Type.IsBreathing() {
		return nil
	}
	on := !p.plan().Config(entry.Type).IncludeHoldEmpty
	desc := "Rest phase off"
	if on {
		desc = "Rest phase on"
	}
	err := p.editor.apply(desc, func(pl *activity.Plan) bool {
		return pl.SetIncludeHoldEmpty(entry.Type, on)
	})
	return result(err, desc)
}

// handleMouse processes mouse events for the plan pane.
func (p *PlanPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	count := len(p.plan().Order())
	if count == 0 {
		return nil
	}

	// Rows start after title (1) + separator (1)
	const headerRows = 2

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, count-1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		idx := p.windowStart() + msg.Y - headerRows
		if msg.Y < headerRows || idx < 0 || idx >= count {
			return nil
		}
		p.cursor = idx
		// Checkbox column toggles
		if msg.X < 5 {
			return p.toggleSelected()
		}
	}
	return nil
}

func (p *PlanPane) visibleRows() int {
	rows := p.height - 8 // title, separator, details, input
	if rows < 3 {
		rows = 5
	}
	return rows
}

func (p *PlanPane) windowStart() int {
	if rows := p.visibleRows(); p.cursor >= rows {
		return p.cursor - rows + 1
	}
	return 0
}

// View renders the plan pane.
func (p *PlanPane) View() string {
	plan := p.plan()
	order := plan.Order()
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📋 ROTATION"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(order) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  No activities."))
		b.WriteString("\n")
	}

	next, hasNext := plan.NextEntry()
	start, rows := p.windowStart(), p.visibleRows()
	textWidth := max(p.width-14, 5)

	for i, entry := range order {
		if i < start || i >= start+rows {
			continue
		}
		enabled := plan.IsEnabled(entry.Type)
		checkbox := p.styles.CheckboxOff
		if enabled {
			checkbox = p.styles.CheckboxOn
		}

		label := runewidth.Truncate(entry.Type.Icon()+" "+entry.Type.Name()+" · "+p.detail(entry.Type), textWidth, "..")
		marker := "  "
		if hasNext && entry.ID == next.ID {
			marker = p.styles.EntryNextStyle.Render("◀ ")
		}

		var line string
		if i == p.cursor && p.focused && !p.editing {
			line = p.styles.EntrySelectedStyle.Render(" " + checkbox + " " + label + " ")
		} else if enabled {
			line = " " + checkbox + " " + p.styles.EntryEnabledStyle.Render(label)
		} else {
			line = " " + checkbox + " " + p.styles.EntryDisabledStyle.Render(label)
		}
		b.WriteString(line + " " + marker)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	summary := fmt.Sprintf("%d/%d enabled", len(plan.EnabledEntries()), len(order))
	if _, picked := plan.NextUpIndex(); picked {
		summary += " · next up picked"
	}
	b.WriteString("  " + p.styles.StatLabelStyle.Render(summary))
	b.WriteString("\n")

	if p.editing {
		b.WriteString("\n")
		prompt := p.styles.InputPromptStyle.Render(p.editType.Name() + " " + p.input.Placeholder + ": ")
		b.WriteString("  " + prompt + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// detail is the per-type setting shown next to an entry.
func (p *PlanPane) detail(t activity.Type) string {
	cfg := p.plan().Config(t)
	if t.IsBreathing() {
		s := fmt.Sprintf("%d cycles", cfg.BreathingCycles)
		if cfg.IncludeHoldEmpty {
			s += " +rest"
		}
		return s
	}
	return fmt.Sprintf("%d reps", cfg.RepCount)
}
