// Package testutil provides an in-process stand-in for the remote
// conversion and catalog API, scripted per source URL, for engine tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lazarspasic96/clip2fit-sub001/internal/models"
)

// Update is one scripted stage report the fake remote will serve, in order.
// The last update of a script is repeated once the script is exhausted.
type Update struct {
	Stage    models.Stage        `json:"stage"`
	Progress int                 `json:"progress"`
	Message  string              `json:"message,omitempty"`
	Result   *models.WorkoutPlan `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type scriptedJob struct {
	updates []Update
	next    int
}

// FakeRemote implements the conversion and catalog HTTP surface.
type FakeRemote struct {
	mu            sync.Mutex
	router        chi.Router
	scripts       map[string][]Update // keyed by source URL
	jobs          map[string]*scriptedJob
	converted     map[string]string // source URL -> existing workout id
	exercises     map[string]map[string]any
	exerciseHits  map[string]int
	failExercises bool
	createCount   int
}

// NewFakeRemote creates an empty fake with all routes registered.
func NewFakeRemote() *FakeRemote {
	f := &FakeRemote{
		scripts:      make(map[string][]Update),
		jobs:         make(map[string]*scriptedJob),
		converted:    make(map[string]string),
		exercises:    make(map[string]map[string]any),
		exerciseHits: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Post("/api/v1/convert", f.handleCreateJob)
	r.Get("/api/v1/convert/{jobID}", f.handleJobStatus)
	r.Get("/api/v1/exercises/{exerciseID}", f.handleExercise)
	f.router = r
	return f
}

// ServeHTTP implements http.Handler.
func (f *FakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.router.ServeHTTP(w, r)
}

// Script registers the stage reports served for jobs created from sourceURL.
func (f *FakeRemote) Script(sourceURL string, updates ...Update) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[sourceURL] = updates
}

// MarkConverted makes job creation for sourceURL resolve to an existing
// workout instead of a new job.
func (f *FakeRemote) MarkConverted(sourceURL, workoutID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.converted[sourceURL] = workoutID
}

// AddExercise registers a catalog detail payload.
func (f *FakeRemote) AddExercise(id string, detail map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exercises[id] = detail
}

// FailExercises makes every catalog read return HTTP 500.
func (f *FakeRemote) FailExercises(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failExercises = fail
}

// ExerciseHits returns how many times a catalog id was requested.
func (f *FakeRemote) ExerciseHits(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exerciseHits[id]
}

// CreateCount returns how many job creations were received.
func (f *FakeRemote) CreateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCount
}

func (f *FakeRemote) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceURL string `json:"sourceUrl"`
		Platform  string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCount++

	if workoutID, ok := f.converted[req.SourceURL]; ok {
		writeJSON(w, http.StatusOK, map[string]string{"existingWorkoutId": workoutID})
		return
	}

	jobID := uuid.NewString()
	f.jobs[jobID] = &scriptedJob{updates: f.scripts[req.SourceURL]}
	writeJSON(w, http.StatusCreated, map[string]string{"jobId": jobID})
}

func (f *FakeRemote) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[jobID]
	if !ok || len(job.updates) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown job"})
		return
	}

	update := job.updates[job.next]
	if job.next < len(job.updates)-1 {
		job.next++
	}
	writeJSON(w, http.StatusOK, update)
}

func (f *FakeRemote) handleExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "exerciseID")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.exerciseHits[id]++

	if f.failExercises {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "catalog unavailable"})
		return
	}
	detail, ok := f.exercises[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
