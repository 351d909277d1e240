package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BatchConfig holds configuration for parallel variation generation.
type BatchConfig struct {
	// MaxConcurrency is the maximum number of parallel backend requests.
	MaxConcurrency int

	// Timeout per variation request.
	Timeout time.Duration
}

// DefaultBatchConfig returns a safe default configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrency: 4,
		Timeout:        2 * time.Minute,
	}
}

// VariationResult is the outcome of one variation request.
type VariationResult struct {
	Index int
	Clips []Clip
	Err   error
}

// GenerateVariations runs count generation requests for the same prompt
// in parallel with a bounded worker pool, varying the seed per request.
// Results are returned indexed by variation; individual failures do not
// abort the remaining variations.
func (c *Client) GenerateVariations(ctx context.Context, req Request, count int, cfg BatchConfig) ([]VariationResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("variation count must be positive (got %d)", count)
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	start := time.Now()
	log.Info().
		Int("variations", count).
		Int("max_concurrency", cfg.MaxConcurrency).
		Msg("Starting parallel variation generation")

	jobs := make(chan int, count)
	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)

	results := make([]VariationResult, count)

	var wg sync.WaitGroup
	workers := cfg.MaxConcurrency
	if workers > count {
		workers = count
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				varReq := req
				if varReq.Seed != 0 {
					varReq.Seed += idx
				}

				varCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
				clips, err := c.Generate(varCtx, varReq)
				cancel()

				results[idx] = VariationResult{Index: idx, Clips: clips, Err: err}
				if err != nil {
					log.Warn().
						Int("variation", idx).
						Err(err).
						Msg("Variation generation failed")
				}
			}
		}()
	}
	wg.Wait()

	failed := 0
	var causes []error
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		failed++
		if _, ok := seen[r.Err.Error()]; !ok {
			seen[r.Err.Error()] = struct{}{}
			causes = append(causes, r.Err)
		}
	}
	if failed == count {
		return results, fmt.Errorf("all %d variations failed: %w", count, errors.Join(causes...))
	}

	log.Info().
		Int("variations", count).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Variation generation complete")

	return results, nil
}
