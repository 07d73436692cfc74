package activity

import (
	"slices"

	"github.com/google/uuid"
)

// Entry is one slot in the rotation order. The same Type may appear in
// several entries; ID is stable across reorders, duplicates and removals.
type Entry struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
}

// State is the persisted form of a Plan.
type State struct {
	Order         []Entry         `json:"order"`
	Activities    map[Type]Config `json:"activities"`
	LastCompleted string          `json:"last_completed,omitempty"`
	NextUp        string          `json:"next_up,omitempty"`
}

// Plan is the rotation policy: which activities run, in what order, and
// which one is due next.
//
// Rotation pointers are stored as entry IDs. The index-based accessors
// resolve them against the enabled subsequence on every call, so a pointer
// whose entry was disabled or removed reads as absent rather than drifting
// onto a different activity.
type Plan struct {
	configs       map[Type]Config
	order         []Entry
	lastCompleted string
	nextUp        string

	newID func() string
}

// NewPlan returns a plan holding every known activity once, all disabled.
func NewPlan() *Plan {
	return FromState(State{})
}

// DefaultPlan returns the out-of-the-box rotation: breathwork enabled, the
// exercises present but off.
func DefaultPlan() *Plan {
	p := NewPlan()
	p.SetEnabled(Breathwork, true)
	return p
}

// FromState rebuilds a plan from persisted state. Unknown activity types are
// dropped, missing ones are appended with default configs, and entries with
// missing or repeated IDs get fresh ones.
func FromState(s State) *Plan {
	p := &Plan{
		configs: make(map[Type]Config, len(Types)),
		newID:   uuid.NewString,
	}

	for _, t := range Types {
		cfg, ok := s.Activities[t]
		if !ok {
			cfg = DefaultConfig()
		}
		p.configs[t] = cfg.normalized()
	}

	seen := make(map[string]bool, len(s.Order))
	present := make(map[Type]bool, len(Types))
	for _, e := range s.Order {
		if !e.Type.Valid() {
			continue
		}
		if e.ID == "" || seen[e.ID] {
			e.ID = p.newID()
		}
		seen[e.ID] = true
		present[e.Type] = true
		p.order = append(p.order, e)
	}
	for _, t := range Types {
		if !present[t] {
			p.order = append(p.order, Entry{ID: p.newID(), Type: t})
		}
	}

	if p.indexOfEntry(s.LastCompleted) >= 0 {
		p.lastCompleted = s.LastCompleted
	}
	if p.indexOfEntry(s.NextUp) >= 0 {
		p.nextUp = s.NextUp
	}
	return p
}

// State returns a copy of the plan suitable for persistence.
func (p *Plan) State() State {
	s := State{
		Order:         slices.Clone(p.order),
		Activities:    make(map[Type]Config, len(p.configs)),
		LastCompleted: p.lastCompleted,
		NextUp:        p.nextUp,
	}
	for t, c := range p.configs {
		s.Activities[t] = c
	}
	return s
}

// Clone returns an independent copy.
func (p *Plan) Clone() *Plan {
	c := FromState(p.State())
	c.newID = p.newID
	return c
}

// SetIDFunc overrides entry ID generation. Passing nil restores uuid.
func (p *Plan) SetIDFunc(fn func() string) {
	if fn == nil {
		fn = uuid.NewString
	}
	p.newID = fn
}

// ----------------------------------------------------------------------------
// Configuration
// ----------------------------------------------------------------------------

// Config returns the configuration for t, defaulted if t is unknown.
func (p *Plan) Config(t Type) Config {
	if c, ok := p.configs[t]; ok {
		return c
	}
	return DefaultConfig()
}

// SetConfig replaces the configuration for a known activity. Values are
// clamped into range.
func (p *Plan) SetConfig(t Type, c Config) bool {
	if !t.Valid() {
		return false
	}
	p.configs[t] = c.normalized()
	return true
}

func (p *Plan) SetEnabled(t Type, enabled bool) bool {
	c := p.Config(t)
	c.Enabled = enabled
	return p.SetConfig(t, c)
}

func (p *Plan) SetRepCount(t Type, reps int) bool {
	c := p.Config(t)
	c.RepCount = clamp(reps, MinRepCount, MaxRepCount)
	return p.SetConfig(t, c)
}

func (p *Plan) SetBreathingCycles(t Type, cycles int) bool {
	c := p.Config(t)
	c.BreathingCycles = clamp(cycles, MinBreathingCycles, MaxBreathingCycles)
	return p.SetConfig(t, c)
}

func (p *Plan) SetIncludeHoldEmpty(t Type, v bool) bool {
	c := p.Config(t)
	c.IncludeHoldEmpty = v
	return p.SetConfig(t, c)
}

// IsEnabled reports whether t takes part in the rotation.
func (p *Plan) IsEnabled(t Type) bool {
	return p.configs[t].Enabled
}

// ----------------------------------------------------------------------------
// Order
// ----------------------------------------------------------------------------

// Order returns a copy of the full rotation order, disabled entries included.
func (p *Plan) Order() []Entry {
	return slices.Clone(p.order)
}

// EnabledEntries is the order filtered to enabled activities. Its positions
// form the enabled-index space.
func (p *Plan) EnabledEntries() []Entry {
	out := make([]Entry, 0, len(p.order))
	for _, e := range p.order {
		if p.IsEnabled(e.Type) {
			out = append(out, e)
		}
	}
	return out
}

// EnabledActivities is EnabledEntries reduced to their types.
func (p *Plan) EnabledActivities() []Type {
	entries := p.EnabledEntries()
	out := make([]Type, len(entries))
	for i, e := range entries {
		out[i] = e.Type
	}
	return out
}

// EnabledTypes returns the distinct enabled activity types.
func (p *Plan) EnabledTypes() []Type {
	var out []Type
	for _, t := range Types {
		if p.IsEnabled(t) && p.indexOfType(t) >= 0 {
			out = append(out, t)
		}
	}
	return out
}

// MoveActivity moves the entry at position from to position to in the full
// order. Rotation pointers follow their entries.
func (p *Plan) MoveActivity(from, to int) bool {
	if from < 0 || from >= len(p.order) || to < 0 || to >= len(p.order) {
		return false
	}
	if from == to {
		return true
	}
	e := p.order[from]
	p.order = slices.Delete(p.order, from, from+1)
	p.order = slices.Insert(p.order, to, e)
	return true
}

// ReorderActivities rearranges the order to match ids, which must be a
// permutation of the current entry IDs.
func (p *Plan) ReorderActivities(ids []string) bool {
	if len(ids) != len(p.order) {
		return false
	}
	byID := make(map[string]Entry, len(p.order))
	for _, e := range p.order {
		byID[e.ID] = e
	}
	next := make([]Entry, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return false
		}
		delete(byID, id)
		next = append(next, e)
	}
	p.order = next
	return true
}

// DuplicateActivity inserts a copy of the entry at position at directly after
// it. The copy gets a new ID.
func (p *Plan) DuplicateActivity(at int) (Entry, bool) {
	if at < 0 || at >= len(p.order) {
		return Entry{}, false
	}
	dup := Entry{ID: p.newID(), Type: p.order[at].Type}
	p.order = slices.Insert(p.order, at+1, dup)
	return dup, true
}

// CanRemove reports whether the entry at position at may be removed. Every
// activity keeps at least one entry so its position survives while disabled.
func (p *Plan) CanRemove(at int) bool {
	if at < 0 || at >= len(p.order) {
		return false
	}
	t := p.order[at].Type
	n := 0
	for _, e := range p.order {
		if e.Type == t {
			n++
		}
	}
	return n > 1
}

// RemoveActivity deletes the entry at position at. A pointer naming the
// removed entry is cleared.
func (p *Plan) RemoveActivity(at int) (Entry, bool) {
	if !p.CanRemove(at) {
		return Entry{}, false
	}
	e := p.order[at]
	p.order = slices.Delete(p.order, at, at+1)
	if p.nextUp == e.ID {
		p.nextUp = ""
	}
	if p.lastCompleted == e.ID {
		p.lastCompleted = ""
	}
	return e, true
}

// ----------------------------------------------------------------------------
// Rotation
// ----------------------------------------------------------------------------

// GetNextActivityIndex returns the enabled index of the activity due next.
// A valid manual override wins; otherwise the rotation continues after the
// last completed entry, starting from 0 when there is none. ok is false when
// nothing is enabled.
func (p *Plan) GetNextActivityIndex() (int, bool) {
	enabled := p.EnabledEntries()
	if len(enabled) == 0 {
		return 0, false
	}
	if i := entryIndex(enabled, p.nextUp); i >= 0 {
		return i, true
	}
	last := entryIndex(enabled, p.lastCompleted)
	if last < 0 {
		return 0, true
	}
	return (last + 1) % len(enabled), true
}

// NextEntry resolves GetNextActivityIndex to its entry.
func (p *Plan) NextEntry() (Entry, bool) {
	i, ok := p.GetNextActivityIndex()
	if !ok {
		return Entry{}, false
	}
	return p.EnabledEntries()[i], true
}

// GetNextActivity resolves GetNextActivityIndex to its activity type.
func (p *Plan) GetNextActivity() (Type, bool) {
	e, ok := p.NextEntry()
	return e.Type, ok
}

// MarkActivityCompleted records t as the last completed activity. When t
// appears more than once the entry currently due is preferred.
func (p *Plan) MarkActivityCompleted(t Type) {
	p.MarkEntryCompleted(p.resolve(t))
}

// MarkEntryCompleted records the entry with the given ID as last completed,
// or clears the pointer if that entry is not enabled. An override naming the
// same entry is consumed.
func (p *Plan) MarkEntryCompleted(id string) {
	if entryIndex(p.EnabledEntries(), id) < 0 {
		p.lastCompleted = ""
		return
	}
	p.lastCompleted = id
	if p.nextUp == id {
		p.nextUp = ""
	}
}

// MarkActivitySkipped consumes an override pointing at t. The rotation
// pointer is left where it is, so the same activity comes up again unless
// another override is set.
func (p *Plan) MarkActivitySkipped(t Type) {
	p.MarkEntrySkipped(p.resolve(t))
}

func (p *Plan) MarkEntrySkipped(id string) {
	if id != "" && p.nextUp == id {
		p.nextUp = ""
	}
}

// SetNextUp sets the manual override to the given enabled index.
func (p *Plan) SetNextUp(enabledIndex int) bool {
	enabled := p.EnabledEntries()
	if enabledIndex < 0 || enabledIndex >= len(enabled) {
		return false
	}
	p.nextUp = enabled[enabledIndex].ID
	return true
}

// SetNextUpEntry sets the manual override to an entry by ID. The entry must
// exist; it need not be enabled yet.
func (p *Plan) SetNextUpEntry(id string) bool {
	if p.indexOfEntry(id) < 0 {
		return false
	}
	p.nextUp = id
	return true
}

func (p *Plan) ClearNextUp() {
	p.nextUp = ""
}

// NextUpIndex returns the override's enabled index, if it is valid.
func (p *Plan) NextUpIndex() (int, bool) {
	i := entryIndex(p.EnabledEntries(), p.nextUp)
	return i, i >= 0
}

// LastCompletedIndex returns the last completed entry's enabled index, if it
// is valid.
func (p *Plan) LastCompletedIndex() (int, bool) {
	i := entryIndex(p.EnabledEntries(), p.lastCompleted)
	return i, i >= 0
}

// NextUpID returns the raw override entry ID, which may be stale.
func (p *Plan) NextUpID() string { return p.nextUp }

// ResetCompletionTracking clears both rotation pointers.
func (p *Plan) ResetCompletionTracking() {
	p.lastCompleted = ""
	p.nextUp = ""
}

// resolve picks the entry ID to credit for t: the due entry if it has type
// t, otherwise the first enabled entry of type t.
func (p *Plan) resolve(t Type) string {
	if due, ok := p.NextEntry(); ok && due.Type == t {
		return due.ID
	}
	for _, e := range p.EnabledEntries() {
		if e.Type == t {
			return e.ID
		}
	}
	return ""
}

func (p *Plan) indexOfEntry(id string) int {
	return entryIndex(p.order, id)
}

func (p *Plan) indexOfType(t Type) int {
	return slices.IndexFunc(p.order, func(e Entry) bool { return e.Type == t })
}

func entryIndex(entries []Entry, id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
}
