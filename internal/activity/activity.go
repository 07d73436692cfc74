package activity

// Type identifies one kind of activity in the rotation.
type Type string

const (
	Breathwork Type = "breathwork"
	Pushups    Type = "pushups"
	Situps     Type = "situps"
	Squats     Type = "squats"
)

// Types lists every known activity in default order.
var Types = []Type{Breathwork, Pushups, Situps, Squats}

type info struct {
	name        string
	icon        string
	instruction string
}

var catalog = map[Type]info{
	Breathwork: {"Breathwork", "🌬", "Follow the rhythm: in, hold, out"},
	Pushups:    {"Push-ups", "💪", "Keep your back straight and lower slowly"},
	Situps:     {"Sit-ups", "🧘", "Curl up with control, don't pull on your neck"},
	Squats:     {"Squats", "🦵", "Feet shoulder-width apart, sit back into your heels"},
}

// Valid reports whether t is a known activity.
func (t Type) Valid() bool {
	_, ok := catalog[t]
	return ok
}

// Name is the display name; unknown types echo their id.
func (t Type) Name() string {
	if i, ok := catalog[t]; ok {
		return i.name
	}
	return string(t)
}

func (t Type) Icon() string        { return catalog[t].icon }
func (t Type) Instruction() string { return catalog[t].instruction }

// IsBreathing reports whether the activity runs a breathing session rather
// than a rep-counted exercise.
func (t Type) IsBreathing() bool { return t == Breathwork }

const (
	DefaultRepCount        = 10
	DefaultBreathingCycles = 4

	MinRepCount        = 1
	MaxRepCount        = 500
	MinBreathingCycles = 1
	MaxBreathingCycles = 50
)

// Config is the per-activity configuration. RepCount applies to exercises;
// BreathingCycles and IncludeHoldEmpty apply to breathwork.
type Config struct {
	Enabled          bool `json:"enabled"`
	RepCount         int  `json:"rep_count"`
	BreathingCycles  int  `json:"breathing_cycles"`
	IncludeHoldEmpty bool `json:"include_hold_empty"`
}

// DefaultConfig is used for any activity without a stored config.
func DefaultConfig() Config {
	return Config{
		Enabled:          false,
		RepCount:         DefaultRepCount,
		BreathingCycles:  DefaultBreathingCycles,
		IncludeHoldEmpty: false,
	}
}

// normalized clamps out-of-range values back into bounds. Zero values are
// treated as missing and take the default.
func (c Config) normalized() Config {
	if c.RepCount == 0 {
		c.RepCount = DefaultRepCount
	}
	if c.BreathingCycles == 0 {
		c.BreathingCycles = DefaultBreathingCycles
	}
	c.RepCount = clamp(c.RepCount, MinRepCount, MaxRepCount)
	c.BreathingCycles = clamp(c.BreathingCycles, MinBreathingCycles, MaxBreathingCycles)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
