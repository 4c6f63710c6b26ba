package session

import "github.com/lazarspasic96/clip2fit-sub001/internal/models"

// Derived accessors are pure functions over a session snapshot; nothing here
// is stored or mutated.

// ActiveSet returns the set to perform next in the active exercise: the
// lowest-numbered pending set. Returns nil when every set in the active
// exercise is completed or skipped. Lowest set number is the sole selection
// rule, never the last-interacted set.
func ActiveSet(s *models.WorkoutSession) *models.WorkoutSet {
	ex := s.ActiveExercise()
	if ex == nil {
		return nil
	}
	var best *models.WorkoutSet
	for i := range ex.Sets {
		set := &ex.Sets[i]
		if set.Status != models.SetPending {
			continue
		}
		if best == nil || set.SetNumber < best.SetNumber {
			best = set
		}
	}
	return best
}

// ActiveSetIndex returns the position of the active set within the active
// exercise, or -1 when there is none.
func ActiveSetIndex(s *models.WorkoutSession) int {
	active := ActiveSet(s)
	if active == nil {
		return -1
	}
	ex := s.ActiveExercise()
	for i := range ex.Sets {
		if ex.Sets[i].ID == active.ID {
			return i
		}
	}
	return -1
}

// ActiveExerciseCounts returns completed (terminal) and total set counts for
// the active exercise.
func ActiveExerciseCounts(s *models.WorkoutSession) (completed, total int) {
	ex := s.ActiveExercise()
	if ex == nil {
		return 0, 0
	}
	return ex.CompletedSetCount(), len(ex.Sets)
}

// OverallProgress returns the count of completed exercises over the total.
func OverallProgress(s *models.WorkoutSession) (completed, total int) {
	for i := range s.Plan.Exercises {
		if s.Plan.Exercises[i].Status == models.ExerciseCompleted {
			completed++
		}
	}
	return completed, len(s.Plan.Exercises)
}
