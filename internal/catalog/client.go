package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ExerciseDetail is the catalog record for a single exercise.
type ExerciseDetail struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MuscleGroups []string `json:"muscleGroups,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Equipment    []string `json:"equipment,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty"`
}

// Client reads exercise detail from the catalog API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an HTTP client for the catalog API.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ExerciseDetail fetches the catalog record for one exercise id.
func (c *Client) ExerciseDetail(ctx context.Context, id string) (*ExerciseDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/exercises/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("building exercise request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching exercise %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("exercise fetch failed (status %d): %s", resp.StatusCode, body)
	}

	var detail ExerciseDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decoding exercise %s: %w", id, err)
	}
	return &detail, nil
}
