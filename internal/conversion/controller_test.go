package conversion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lazarspasic96/clip2fit-sub001/internal/models"
	"github.com/lazarspasic96/clip2fit-sub001/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(t *testing.T) (*Controller, *testutil.FakeRemote) {
	t.Helper()
	fake := testutil.NewFakeRemote()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "test-key", 5*time.Second)
	c := NewController(client, 5*time.Millisecond, discardLogger())
	t.Cleanup(c.Close)
	return c, fake
}

// waitForTerminal polls until the controller reaches a terminal job state.
func waitForTerminal(t *testing.T, c *Controller) models.ConversionState {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s := c.State(); s.JobState.Terminal() {
			return s
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("controller never reached a terminal state: %+v", c.State())
	return models.ConversionState{}
}

// TestSubmitInvalidURL verifies submission fails fast and never touches the
// remote service.
func TestSubmitInvalidURL(t *testing.T) {
	c, fake := newTestController(t)

	err := c.Submit(context.Background(), "not a url")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("err = %v, want ErrInvalidURL", err)
	}
	if fake.CreateCount() != 0 {
		t.Errorf("remote job created for invalid input")
	}
	if s := c.State(); s.JobState != models.JobIdle {
		t.Errorf("jobState = %s, want idle", s.JobState)
	}
}

// TestSubmitToCompletion drives a scripted pipeline through every stage to a
// workout proposal.
func TestSubmitToCompletion(t *testing.T) {
	c, fake := newTestController(t)

	plan := models.WorkoutPlan{
		ID:    "w-99",
		Title: "15 Min Core Blast",
		Exercises: []models.WorkoutExercise{
			{ID: "e1", Name: "Plank", Sets: []models.WorkoutSet{{ID: "s1", SetNumber: 1, TargetReps: "60s", Status: models.SetPending}}},
		},
	}
	url := "https://www.tiktok.com/@coach/video/7234"
	fake.Script(url,
		testutil.Update{Stage: models.StageValidating, Progress: 5, Message: "Checking link"},
		testutil.Update{Stage: models.StageDownloading, Progress: 30, Message: "Downloading video"},
		testutil.Update{Stage: models.StageTranscribing, Progress: 60, Message: "Transcribing audio"},
		testutil.Update{Stage: models.StageExtracting, Progress: 85, Message: "Extracting exercises"},
		testutil.Update{Stage: models.StageComplete, Progress: 100, Message: "Done", Result: &plan},
	)

	if err := c.Submit(context.Background(), url); err != nil {
		t.Fatal(err)
	}

	s := waitForTerminal(t, c)
	if s.JobState != models.JobCompleted {
		t.Fatalf("jobState = %s, want completed", s.JobState)
	}
	if s.Stage != models.StageComplete || s.Progress != 100 {
		t.Errorf("stage/progress = %s/%d, want complete/100", s.Stage, s.Progress)
	}
	if s.WorkoutID != "w-99" {
		t.Errorf("workoutId = %q, want w-99", s.WorkoutID)
	}

	proposal := c.Proposal()
	if proposal == nil {
		t.Fatal("proposal is nil after completion")
	}
	if proposal.Title != "15 Min Core Blast" || len(proposal.Exercises) != 1 {
		t.Errorf("proposal = %+v, want the scripted plan", proposal)
	}
}

// TestProgressNeverRegresses verifies monotonic progress within a stage:
// 40 then 25 retains 40.
func TestProgressNeverRegresses(t *testing.T) {
	c, _ := newTestController(t)
	c.state = models.ConversionState{
		JobState: models.JobProcessing,
		JobID:    "job-1",
		Stage:    models.StageDownloading,
		Progress: 40,
	}

	done := c.applyUpdate("job-1", JobStatusResult{Stage: models.StageDownloading, Progress: 25})
	if done {
		t.Fatal("regressive update treated as terminal")
	}
	if s := c.State(); s.Progress != 40 {
		t.Errorf("progress = %d, want 40", s.Progress)
	}
}

// TestStageNeverRegresses verifies a stale earlier-stage report is discarded
// whole, message included.
func TestStageNeverRegresses(t *testing.T) {
	c, _ := newTestController(t)
	c.state = models.ConversionState{
		JobState: models.JobProcessing,
		JobID:    "job-1",
		Stage:    models.StageTranscribing,
		Progress: 60,
		Message:  "Transcribing audio",
	}

	c.applyUpdate("job-1", JobStatusResult{Stage: models.StageDownloading, Progress: 90, Message: "stale"})

	s := c.State()
	if s.Stage != models.StageTranscribing {
		t.Errorf("stage = %s, want transcribing", s.Stage)
	}
	if s.Progress != 60 || s.Message != "Transcribing audio" {
		t.Errorf("state = %d/%q, want stale report fully discarded", s.Progress, s.Message)
	}
}

// TestRemoteError verifies a pipeline failure resolves to jobState=error
// with the message, and later reports for the job are not forwarded.
func TestRemoteError(t *testing.T) {
	c, fake := newTestController(t)

	url := "https://www.instagram.com/reel/Cxyz/"
	fake.Script(url,
		testutil.Update{Stage: models.StageDownloading, Progress: 30},
		testutil.Update{Stage: models.StageError, Error: "video is private"},
	)

	if err := c.Submit(context.Background(), url); err != nil {
		t.Fatal(err)
	}

	s := waitForTerminal(t, c)
	if s.JobState != models.JobError {
		t.Fatalf("jobState = %s, want error", s.JobState)
	}
	if s.Stage != models.StageError || s.Error != "video is private" {
		t.Errorf("stage/error = %s/%q, want error/\"video is private\"", s.Stage, s.Error)
	}

	// A terminal job forwards nothing further.
	if done := c.applyUpdate(s.JobID, JobStatusResult{Stage: models.StageComplete, Progress: 100}); !done {
		t.Error("update after terminal state not rejected")
	}
	if after := c.State(); after.JobState != models.JobError {
		t.Errorf("jobState = %s after late update, want error", after.JobState)
	}
}

// TestExistingWorkout verifies the already-converted path resolves to the
// existing terminal with the workout id and no polling.
func TestExistingWorkout(t *testing.T) {
	c, fake := newTestController(t)

	url := "https://youtu.be/dQw4"
	fake.MarkConverted(url, "w-42")

	if err := c.Submit(context.Background(), url); err != nil {
		t.Fatal(err)
	}

	s := c.State()
	if s.JobState != models.JobExisting {
		t.Fatalf("jobState = %s, want existing", s.JobState)
	}
	if s.WorkoutID != "w-42" {
		t.Errorf("workoutId = %q, want w-42", s.WorkoutID)
	}
	if s.JobID != "" {
		t.Errorf("jobId = %q, want empty for existing resolution", s.JobID)
	}
	if c.Proposal() != nil {
		t.Error("proposal present for existing resolution")
	}
}

// TestSubmitWhileProcessing verifies the single-job rule.
func TestSubmitWhileProcessing(t *testing.T) {
	c, fake := newTestController(t)

	url := "https://www.tiktok.com/@coach/video/1"
	fake.Script(url, testutil.Update{Stage: models.StageDownloading, Progress: 10})

	if err := c.Submit(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	err := c.Submit(context.Background(), url)
	if !errors.Is(err, ErrJobInProgress) {
		t.Errorf("err = %v, want ErrJobInProgress", err)
	}
}

// TestRetryStartsNewJob verifies resubmission after an error creates a
// brand-new remote job rather than resuming the failed one.
func TestRetryStartsNewJob(t *testing.T) {
	c, fake := newTestController(t)

	url := "https://x.com/u/status/1"
	fake.Script(url, testutil.Update{Stage: models.StageError, Error: "timeout"})

	if err := c.Submit(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	first := waitForTerminal(t, c)

	fake.Script(url, testutil.Update{Stage: models.StageComplete, Progress: 100, Result: &models.WorkoutPlan{ID: "w-7", Title: "Retry"}})
	if err := c.Submit(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	second := waitForTerminal(t, c)

	if second.JobState != models.JobCompleted {
		t.Fatalf("jobState = %s after retry, want completed", second.JobState)
	}
	if second.JobID == first.JobID {
		t.Error("retry reused the failed job id")
	}
	if fake.CreateCount() != 2 {
		t.Errorf("create count = %d, want 2", fake.CreateCount())
	}
}

// TestCloseStopsObservation verifies teardown stops local polling but the
// scripted remote job is untouched and state stays processing.
func TestCloseStopsObservation(t *testing.T) {
	c, fake := newTestController(t)

	url := "https://www.tiktok.com/@coach/video/2"
	fake.Script(url, testutil.Update{Stage: models.StageDownloading, Progress: 20})

	if err := c.Submit(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	c.Close()
	time.Sleep(20 * time.Millisecond)

	if s := c.State(); s.JobState != models.JobProcessing {
		t.Errorf("jobState = %s after close, want processing (observation only stopped)", s.JobState)
	}
}

// TestSubmitRemoteFailure verifies a failed job creation surfaces as an
// error state and a wrapped error.
func TestSubmitRemoteFailure(t *testing.T) {
	fake := testutil.NewFakeRemote()
	srv := httptest.NewServer(fake)
	srv.Close() // refuse all connections

	client := NewClient(srv.URL, "test-key", time.Second)
	c := NewController(client, 5*time.Millisecond, discardLogger())

	err := c.Submit(context.Background(), "https://www.tiktok.com/@coach/video/3")
	if err == nil {
		t.Fatal("expected submit error")
	}
	if s := c.State(); s.JobState != models.JobError || s.Error == "" {
		t.Errorf("state = %+v, want error with message", s)
	}
}
