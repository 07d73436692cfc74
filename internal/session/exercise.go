package session

// ExerciseState is the lifecycle of a rep-counted exercise session.
type ExerciseState int

const (
	ExerciseIdle ExerciseState = iota
	ExerciseActive
	ExerciseCompleted
)

func (s ExerciseState) String() string {
	switch s {
	case ExerciseIdle:
		return "idle"
	case ExerciseActive:
		return "active"
	case ExerciseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Exercise wraps a target rep count. Reps are self-reported; there is no
// timing.
type Exercise struct {
	kind       string
	targetReps int
	state      ExerciseState

	onComplete func()
}

func NewExercise() *Exercise {
	return &Exercise{}
}

func (e *Exercise) SetOnComplete(fn func()) {
	e.onComplete = fn
}

// Configure resets the session to Idle with new parameters.
func (e *Exercise) Configure(kind string, targetReps int) {
	if targetReps < 1 {
		targetReps = 1
	}
	e.kind = kind
	e.targetReps = targetReps
	e.state = ExerciseIdle
}

func (e *Exercise) Start() {
	e.state = ExerciseActive
}

// Complete marks the exercise done and fires the completion callback. A
// second call is ignored.
func (e *Exercise) Complete() {
	if e.state == ExerciseCompleted {
		return
	}
	e.state = ExerciseCompleted
	if e.onComplete != nil {
		e.onComplete()
	}
}

func (e *Exercise) Reset() {
	e.state = ExerciseIdle
}

func (e *Exercise) Kind() string         { return e.kind }
func (e *Exercise) TargetReps() int      { return e.targetReps }
func (e *Exercise) State() ExerciseState { return e.state }
