package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/lazarspasic96/clip2fit-sub001/internal/models"
)

// fetchTimeout bounds one background catalog read.
const fetchTimeout = 10 * time.Second

// Prefetcher warms the catalog cache for the exercises adjacent to the
// active one, so forward/back navigation renders without a network wait.
// It subscribes to session engine snapshots, runs off the notifier's
// goroutine, and swallows every failure: nothing here is ever on the
// correctness path.
type Prefetcher struct {
	client *Client
	cache  *Cache
	log    *slog.Logger
}

// NewPrefetcher creates a prefetcher over the given client and cache.
func NewPrefetcher(client *Client, cache *Cache, log *slog.Logger) *Prefetcher {
	return &Prefetcher{client: client, cache: cache, log: log}
}

// OnSessionChange is the engine subscription entry point.
func (p *Prefetcher) OnSessionChange(s models.WorkoutSession) {
	go p.warm(s)
}

// warm fetches catalog detail for the neighbours of the active exercise
// that carry a catalog reference and are not already cached.
func (p *Prefetcher) warm(s models.WorkoutSession) {
	for _, id := range neighbourCatalogIDs(&s) {
		if _, ok := p.cache.Get(id); ok {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		detail, err := p.client.ExerciseDetail(ctx, id)
		cancel()
		if err != nil {
			p.log.Debug("prefetch failed", "catalog_id", id, "error", err)
			continue
		}
		p.cache.Set(id, detail)
	}
}

// neighbourCatalogIDs returns the catalog ids at activeExerciseIndex-1 and
// +1, when those exercises exist and reference the catalog.
func neighbourCatalogIDs(s *models.WorkoutSession) []string {
	var ids []string
	for _, idx := range []int{s.ActiveExerciseIndex - 1, s.ActiveExerciseIndex + 1} {
		if idx < 0 || idx >= len(s.Plan.Exercises) {
			continue
		}
		if id := s.Plan.Exercises[idx].CatalogID; id != nil && *id != "" {
			ids = append(ids, *id)
		}
	}
	return ids
}
