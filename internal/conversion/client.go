package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lazarspasic96/clip2fit-sub001/internal/models"
)

// Client talks to the remote video-to-workout conversion service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an HTTP client for the conversion API.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type createJobRequest struct {
	SourceURL string          `json:"sourceUrl"`
	Platform  models.Platform `json:"platform"`
}

// CreateJobResult is the response to a job submission. Exactly one of JobID
// and ExistingWorkoutID is set: the backend returns the latter when it
// recognizes the URL as already converted.
type CreateJobResult struct {
	JobID             string `json:"jobId,omitempty"`
	ExistingWorkoutID string `json:"existingWorkoutId,omitempty"`
}

// JobStatusResult is one stage report from the remote pipeline. Result is
// present only when Stage is complete.
type JobStatusResult struct {
	Stage    models.Stage        `json:"stage"`
	Progress int                 `json:"progress"`
	Message  string              `json:"message,omitempty"`
	Result   *models.WorkoutPlan `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// CreateJob submits a validated URL for conversion.
func (c *Client) CreateJob(ctx context.Context, sourceURL string, platform models.Platform) (*CreateJobResult, error) {
	body, err := json.Marshal(createJobRequest{SourceURL: sourceURL, Platform: platform})
	if err != nil {
		return nil, fmt.Errorf("marshaling job request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/convert", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("job creation failed (status %d): %s", resp.StatusCode, body)
	}

	var result CreateJobResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding job response: %w", err)
	}
	return &result, nil
}

// JobStatus fetches the current stage report for a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*JobStatusResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/convert/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("building status request: %w", err)
	}
	c.auth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching job status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("job status failed (status %d): %s", resp.StatusCode, body)
	}

	var status JobStatusResult
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding job status: %w", err)
	}
	return &status, nil
}

func (c *Client) auth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
