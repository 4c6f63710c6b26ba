package models

// SetStatus is the lifecycle state of a single planned set.
type SetStatus string

const (
	SetPending   SetStatus = "pending"
	SetCompleted SetStatus = "completed"
	SetSkipped   SetStatus = "skipped"
)

// Terminal reports whether the set can no longer be logged or skipped.
func (s SetStatus) Terminal() bool {
	return s == SetCompleted || s == SetSkipped
}

// ExerciseStatus is the derived state of an exercise within a session.
type ExerciseStatus string

const (
	ExercisePending   ExerciseStatus = "pending"
	ExerciseActive    ExerciseStatus = "active"
	ExerciseCompleted ExerciseStatus = "completed"
	ExerciseSkipped   ExerciseStatus = "skipped"
)

// WorkoutSet is one planned repetition unit. ActualReps and ActualWeight are
// set only when the set is completed; PreviousReps/PreviousWeight are a
// read-only reference from the last performance of the same exercise.
type WorkoutSet struct {
	ID             string    `json:"id"`
	SetNumber      int       `json:"setNumber"`
	TargetReps     string    `json:"targetReps"`
	TargetWeight   *float64  `json:"targetWeight,omitempty"`
	ActualReps     *int      `json:"actualReps,omitempty"`
	ActualWeight   *float64  `json:"actualWeight,omitempty"`
	PreviousReps   *int      `json:"previousReps,omitempty"`
	PreviousWeight *float64  `json:"previousWeight,omitempty"`
	Status         SetStatus `json:"status"`
}

// Clone returns a deep copy of the set.
func (s WorkoutSet) Clone() WorkoutSet {
	out := s
	out.TargetWeight = clonePtr(s.TargetWeight)
	out.ActualReps = clonePtr(s.ActualReps)
	out.ActualWeight = clonePtr(s.ActualWeight)
	out.PreviousReps = clonePtr(s.PreviousReps)
	out.PreviousWeight = clonePtr(s.PreviousWeight)
	return out
}

// WorkoutExercise is an ordered sequence of sets plus display metadata.
// CatalogID links to the exercise catalog when the exercise was built from a
// catalog entry; it is nil for free-form exercises.
type WorkoutExercise struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	MuscleGroups []string       `json:"muscleGroups,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	VideoURL     string         `json:"videoUrl,omitempty"`
	IsBodyweight bool           `json:"isBodyweight"`
	CatalogID    *string        `json:"catalogId,omitempty"`
	Order        int            `json:"order"`
	Status       ExerciseStatus `json:"status"`
	Sets         []WorkoutSet   `json:"sets"`
}

// Clone returns a deep copy of the exercise and its sets.
func (e WorkoutExercise) Clone() WorkoutExercise {
	out := e
	out.MuscleGroups = append([]string(nil), e.MuscleGroups...)
	out.CatalogID = clonePtr(e.CatalogID)
	out.Sets = make([]WorkoutSet, len(e.Sets))
	for i, s := range e.Sets {
		out.Sets[i] = s.Clone()
	}
	return out
}

// SetByID returns the set with the given id, or nil.
func (e *WorkoutExercise) SetByID(id string) *WorkoutSet {
	for i := range e.Sets {
		if e.Sets[i].ID == id {
			return &e.Sets[i]
		}
	}
	return nil
}

// AllSetsTerminal reports whether every set is completed or skipped.
func (e *WorkoutExercise) AllSetsTerminal() bool {
	for i := range e.Sets {
		if !e.Sets[i].Status.Terminal() {
			return false
		}
	}
	return true
}

// CompletedSetCount counts sets in a terminal status.
func (e *WorkoutExercise) CompletedSetCount() int {
	n := 0
	for i := range e.Sets {
		if e.Sets[i].Status.Terminal() {
			n++
		}
	}
	return n
}

// WorkoutPlan is the static, ordered definition a session is based on.
type WorkoutPlan struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	SourcePlatform   Platform          `json:"sourcePlatform,omitempty"`
	Creator          string            `json:"creator,omitempty"`
	SourceURL        string            `json:"sourceUrl,omitempty"`
	ThumbnailURL     string            `json:"thumbnailUrl,omitempty"`
	EstimatedMinutes *int              `json:"estimatedMinutes,omitempty"`
	Difficulty       string            `json:"difficulty,omitempty"`
	TargetMuscles    []string          `json:"targetMuscles,omitempty"`
	Equipment        []string          `json:"equipment,omitempty"`
	IsPersonalCopy   bool              `json:"isPersonalCopy"`
	FromTemplate     bool              `json:"fromTemplate"`
	Exercises        []WorkoutExercise `json:"exercises"`
}

// Clone returns a deep copy of the plan.
func (p WorkoutPlan) Clone() WorkoutPlan {
	out := p
	out.EstimatedMinutes = clonePtr(p.EstimatedMinutes)
	out.TargetMuscles = append([]string(nil), p.TargetMuscles...)
	out.Equipment = append([]string(nil), p.Equipment...)
	out.Exercises = make([]WorkoutExercise, len(p.Exercises))
	for i, e := range p.Exercises {
		out.Exercises[i] = e.Clone()
	}
	return out
}

// ExerciseByID returns the exercise with the given id, or nil.
func (p *WorkoutPlan) ExerciseByID(id string) *WorkoutExercise {
	for i := range p.Exercises {
		if p.Exercises[i].ID == id {
			return &p.Exercises[i]
		}
	}
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
