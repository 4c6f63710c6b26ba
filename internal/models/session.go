package models

import "time"

// SessionStatus is the lifecycle state of a workout session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// WorkoutSession is the live instance of a plan being performed. Timestamps
// are epoch milliseconds, matching the persisted record. The session engine
// is the sole writer; every other component reads a snapshot.
type WorkoutSession struct {
	ID                  string        `json:"id"`
	Plan                WorkoutPlan   `json:"plan"`
	Status              SessionStatus `json:"status"`
	StartedAt           int64         `json:"startedAt"`
	CompletedAt         *int64        `json:"completedAt,omitempty"`
	ActiveExerciseIndex int           `json:"activeExerciseIndex"`
}

// Clone returns a deep copy of the session.
func (s WorkoutSession) Clone() WorkoutSession {
	out := s
	out.Plan = s.Plan.Clone()
	out.CompletedAt = clonePtr(s.CompletedAt)
	return out
}

// Valid reports whether the active exercise index is in bounds.
func (s *WorkoutSession) Valid() bool {
	return s.ActiveExerciseIndex >= 0 && s.ActiveExerciseIndex < len(s.Plan.Exercises)
}

// ActiveExercise returns the currently selected exercise, or nil if the
// session is structurally invalid.
func (s *WorkoutSession) ActiveExercise() *WorkoutExercise {
	if !s.Valid() {
		return nil
	}
	return &s.Plan.Exercises[s.ActiveExerciseIndex]
}

// Elapsed returns the wall time since the session started.
func (s *WorkoutSession) Elapsed(now time.Time) time.Duration {
	d := now.Sub(time.UnixMilli(s.StartedAt))
	if d < 0 {
		return 0
	}
	return d
}
