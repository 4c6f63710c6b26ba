package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lazarspasic96/clip2fit-sub001/internal/models"
)

var (
	// ErrEmptyPlan is returned when starting a session from a plan with no exercises.
	ErrEmptyPlan = errors.New("plan has no exercises")
	// ErrNotFound is returned when a referenced exercise or set id does not resolve.
	ErrNotFound = errors.New("exercise or set not found")
	// ErrInvalidState is returned when logging or skipping a set that is not pending.
	ErrInvalidState = errors.New("set is not pending")
	// ErrNoSession is returned for mutations without an active session.
	ErrNoSession = errors.New("no active session")
)

// Listener receives an immutable snapshot after every committed mutation.
type Listener func(models.WorkoutSession)

// Engine owns the in-memory workout session and is its sole writer. Every
// mutation recomputes derived exercise/session status and pushes the session
// through the store before any subscriber sees the new state; a failed
// mutation leaves the session exactly as it was.
type Engine struct {
	mu        sync.Mutex
	store     *Store
	log       *slog.Logger
	now       func() time.Time
	session   *models.WorkoutSession
	listeners []Listener
}

// NewEngine creates an engine with no active session.
func NewEngine(store *Store, log *slog.Logger) *Engine {
	return &Engine{store: store, log: log, now: time.Now}
}

// Subscribe registers a listener for post-mutation snapshots. Listeners are
// called outside the engine lock and must not call back into mutations
// synchronously expecting the same state.
func (e *Engine) Subscribe(fn Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Snapshot returns a copy of the current session. The second return is
// false when no session is active.
func (e *Engine) Snapshot() (models.WorkoutSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return models.WorkoutSession{}, false
	}
	return e.session.Clone(), true
}

// Resume loads the persisted session, if any, and adopts it as the active
// one. Intended to be called once at startup, before any Start.
func (e *Engine) Resume() (models.WorkoutSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		return e.session.Clone(), true
	}
	s := e.store.Load()
	if s == nil {
		return models.WorkoutSession{}, false
	}
	e.session = s
	e.refreshDerived()
	e.log.Info("session resumed", "session_id", s.ID, "status", s.Status)
	return s.Clone(), true
}

// Start creates a new in-progress session from the plan, replacing any
// current one. Fails with ErrEmptyPlan if the plan has no exercises.
func (e *Engine) Start(plan models.WorkoutPlan) (models.WorkoutSession, error) {
	if len(plan.Exercises) == 0 {
		return models.WorkoutSession{}, ErrEmptyPlan
	}

	e.mu.Lock()
	s := models.WorkoutSession{
		ID:                  uuid.NewString(),
		Plan:                plan.Clone(),
		Status:              models.SessionInProgress,
		StartedAt:           e.now().UnixMilli(),
		ActiveExerciseIndex: 0,
	}
	e.session = &s
	e.refreshDerived()
	e.store.Save(*e.session)
	snap, listeners := e.session.Clone(), slices.Clone(e.listeners)
	e.mu.Unlock()

	e.log.Info("session started", "session_id", snap.ID, "plan", plan.Title, "exercises", len(plan.Exercises))
	notify(listeners, snap)
	return snap, nil
}

// LogSet completes a pending set with the actual performance. Weight is nil
// for bodyweight exercises. Completing the last pending set of the last
// exercise completes the whole session.
func (e *Engine) LogSet(exerciseID, setID string, actualReps int, actualWeight *float64) error {
	return e.mutate(func(s *models.WorkoutSession) error {
		set, err := resolveSet(s, exerciseID, setID)
		if err != nil {
			return err
		}
		set.Status = models.SetCompleted
		reps := actualReps
		set.ActualReps = &reps
		if actualWeight != nil {
			w := *actualWeight
			set.ActualWeight = &w
		}
		return nil
	})
}

// SkipSet marks a pending set as skipped, without actual values. The
// completion cascade is the same as for LogSet.
func (e *Engine) SkipSet(exerciseID, setID string) error {
	return e.mutate(func(s *models.WorkoutSession) error {
		set, err := resolveSet(s, exerciseID, setID)
		if err != nil {
			return err
		}
		set.Status = models.SetSkipped
		return nil
	})
}

// NavigateExercise selects the exercise at index. Out-of-range requests are
// a no-op: the caller's own bounds checks clamp navigation upstream, the
// engine just leaves state unchanged.
func (e *Engine) NavigateExercise(index int) {
	e.mu.Lock()
	if e.session == nil || index < 0 || index >= len(e.session.Plan.Exercises) {
		e.mu.Unlock()
		return
	}
	e.session.ActiveExerciseIndex = index
	e.refreshDerived()
	e.store.Save(*e.session)
	snap, listeners := e.session.Clone(), slices.Clone(e.listeners)
	e.mu.Unlock()

	notify(listeners, snap)
}

// Finish force-completes the session regardless of set completion
// (user-initiated early finish). Idempotent when already completed.
func (e *Engine) Finish() error {
	return e.mutate(func(s *models.WorkoutSession) error {
		if s.Status != models.SessionCompleted {
			s.Status = models.SessionCompleted
			ts := e.now().UnixMilli()
			s.CompletedAt = &ts
		}
		return nil
	})
}

// Discard clears the in-memory session and removes it from storage.
// Irreversible.
func (e *Engine) Discard() {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return
	}
	id := e.session.ID
	e.session = nil
	e.store.Clear()
	e.mu.Unlock()

	e.log.Info("session discarded", "session_id", id)
}

// mutate runs fn against the live session, then recomputes derived state,
// persists, and notifies, all as one atomic step with respect to other
// mutations. fn must validate before touching anything.
func (e *Engine) mutate(fn func(*models.WorkoutSession) error) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return ErrNoSession
	}
	if err := fn(e.session); err != nil {
		e.mu.Unlock()
		return err
	}
	e.refreshDerived()
	e.store.Save(*e.session)
	snap, listeners := e.session.Clone(), slices.Clone(e.listeners)
	e.mu.Unlock()

	notify(listeners, snap)
	return nil
}

// refreshDerived recomputes exercise statuses and the session completion
// cascade. Caller holds the lock.
func (e *Engine) refreshDerived() {
	s := e.session
	allDone := true
	for i := range s.Plan.Exercises {
		ex := &s.Plan.Exercises[i]
		switch {
		case ex.AllSetsTerminal():
			ex.Status = models.ExerciseCompleted
		case i == s.ActiveExerciseIndex:
			ex.Status = models.ExerciseActive
			allDone = false
		default:
			ex.Status = models.ExercisePending
			allDone = false
		}
	}
	if allDone && s.Status != models.SessionCompleted {
		s.Status = models.SessionCompleted
		ts := e.now().UnixMilli()
		s.CompletedAt = &ts
		e.log.Info("session completed", "session_id", s.ID)
	}
}

func resolveSet(s *models.WorkoutSession, exerciseID, setID string) (*models.WorkoutSet, error) {
	ex := s.Plan.ExerciseByID(exerciseID)
	if ex == nil {
		return nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	set := ex.SetByID(setID)
	if set == nil {
		return nil, fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}
	if set.Status != models.SetPending {
		return nil, fmt.Errorf("set %s is %s: %w", setID, set.Status, ErrInvalidState)
	}
	return set, nil
}

func notify(listeners []Listener, snap models.WorkoutSession) {
	for _, fn := range listeners {
		fn(snap)
	}
}
