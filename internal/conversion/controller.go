package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lazarspasic96/clip2fit-sub001/internal/models"
)

var (
	// ErrInvalidURL is returned when submitted text does not validate as a
	// supported workout video URL. No remote job is created.
	ErrInvalidURL = errors.New("not a supported workout video url")
	// ErrJobInProgress is returned when submitting while a job is still
	// processing; a controller drives one job at a time.
	ErrJobInProgress = errors.New("conversion job already in progress")
)

// RemoteJobError is a terminal failure reported by the remote pipeline.
type RemoteJobError struct {
	Stage   models.Stage
	Message string
}

func (e *RemoteJobError) Error() string {
	return fmt.Sprintf("conversion failed at %s: %s", e.Stage, e.Message)
}

// StateListener receives a snapshot after every conversion state change.
type StateListener func(models.ConversionState)

// Controller drives a single conversion job: submit, mirror remote stage
// transitions, resolve to a proposal or a typed failure. Stage updates are
// applied in the order received; regressive stage or progress reports are
// discarded, and nothing is forwarded once a job reaches a terminal state.
type Controller struct {
	mu           sync.Mutex
	client       *Client
	log          *slog.Logger
	pollInterval time.Duration
	state        models.ConversionState
	proposal     *models.WorkoutPlan
	cancel       context.CancelFunc
	listeners    []StateListener
}

// NewController creates an idle controller.
func NewController(client *Client, pollInterval time.Duration, log *slog.Logger) *Controller {
	return &Controller{
		client:       client,
		log:          log,
		pollInterval: pollInterval,
		state:        models.ConversionState{JobState: models.JobIdle},
	}
}

// Subscribe registers a listener for state snapshots.
func (c *Controller) Subscribe(fn StateListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns the current conversion state.
func (c *Controller) State() models.ConversionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Proposal returns the structured workout proposal of a completed job, or
// nil. The caller owns the returned copy.
func (c *Controller) Proposal() *models.WorkoutPlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.proposal == nil {
		return nil
	}
	p := c.proposal.Clone()
	return &p
}

// SetPresentation records the UI presentation hint. It carries no
// correctness weight.
func (c *Controller) SetPresentation(mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Presentation = mode
}

// Submit validates pasted text and creates a remote conversion job. Fails
// fast with ErrInvalidURL before any remote call. A retry after a terminal
// state always starts a brand-new job, never resumes the failed one.
func (c *Controller) Submit(ctx context.Context, raw string) error {
	v := ValidateWorkoutURL(raw)
	if !v.IsValid {
		return fmt.Errorf("%q: %w", v.CleanURL, ErrInvalidURL)
	}

	c.mu.Lock()
	if c.state.JobState == models.JobProcessing {
		c.mu.Unlock()
		return ErrJobInProgress
	}
	presentation := c.state.Presentation
	c.state = models.ConversionState{
		JobState:     models.JobProcessing,
		Presentation: presentation,
		SourceURL:    v.CleanURL,
		Platform:     v.Platform,
		Stage:        models.StageValidating,
		Message:      "Validating link",
	}
	c.proposal = nil
	c.publishLocked()

	res, err := c.client.CreateJob(ctx, v.CleanURL, v.Platform)
	if err != nil {
		c.mu.Lock()
		c.state.JobState = models.JobError
		c.state.Stage = models.StageError
		c.state.Error = err.Error()
		c.state.Message = "Could not start conversion"
		c.publishLocked()
		return fmt.Errorf("submitting conversion: %w", err)
	}

	c.mu.Lock()
	if res.ExistingWorkoutID != "" {
		// Already converted upstream: success terminal without a new plan.
		c.state.JobState = models.JobExisting
		c.state.WorkoutID = res.ExistingWorkoutID
		c.state.Progress = 100
		c.state.Message = "This video was already converted"
		c.publishLocked()
		c.log.Info("conversion resolved to existing workout", "workout_id", res.ExistingWorkoutID)
		return nil
	}

	c.state.JobID = res.JobID
	pollCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	jobID := res.JobID
	c.publishLocked()

	c.log.Info("conversion job created", "job_id", jobID, "platform", v.Platform)
	go c.poll(pollCtx, jobID)
	return nil
}

// Close stops observing the current job. The remote job runs to completion
// regardless; re-submitting the same URL later reconciles through the
// existing path.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// poll mirrors remote stage reports until the job is terminal or observation
// is cancelled. Transient fetch failures are retried on the next tick; only
// the remote pipeline itself can fail the job.
func (c *Controller) poll(ctx context.Context, jobID string) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status, err := c.client.JobStatus(ctx, jobID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Warn("job status fetch failed", "job_id", jobID, "error", err)
				continue
			}
			if c.applyUpdate(jobID, *status) {
				return
			}
		}
	}
}

// applyUpdate folds one remote stage report into the state. Returns true
// when polling should stop. A job identifier, once resolved, is immutable:
// updates for any other job, or after a terminal state, are ignored.
func (c *Controller) applyUpdate(jobID string, u JobStatusResult) bool {
	c.mu.Lock()
	if c.state.JobID != jobID || c.state.JobState != models.JobProcessing {
		c.mu.Unlock()
		return true
	}

	if u.Stage == models.StageError || u.Error != "" {
		msg := u.Error
		if msg == "" {
			msg = u.Message
		}
		remoteErr := &RemoteJobError{Stage: c.state.Stage, Message: msg}
		c.state.JobState = models.JobError
		c.state.Stage = models.StageError
		c.state.Error = msg
		if u.Message != "" {
			c.state.Message = u.Message
		}
		c.publishLocked()
		c.log.Warn("conversion job failed", "job_id", jobID, "error", remoteErr)
		return true
	}

	// Stages only move forward; a stale report is dropped whole.
	rank := u.Stage.Rank()
	if rank < c.state.Stage.Rank() {
		c.mu.Unlock()
		return false
	}
	c.state.Stage = u.Stage
	if u.Progress > c.state.Progress {
		c.state.Progress = u.Progress
	}
	if u.Message != "" {
		c.state.Message = u.Message
	}

	if u.Stage == models.StageComplete {
		c.state.JobState = models.JobCompleted
		c.state.Progress = 100
		if u.Result != nil {
			p := u.Result.Clone()
			c.proposal = &p
			c.state.WorkoutID = p.ID
		}
		c.publishLocked()
		c.log.Info("conversion job completed", "job_id", jobID)
		return true
	}

	c.publishLocked()
	return false
}

// publishLocked snapshots state and notifies listeners outside the lock.
// The caller must hold c.mu; it is released on return.
func (c *Controller) publishLocked() {
	snap := c.state
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
