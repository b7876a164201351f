package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/wandrix/internal/explore"
	"github.com/desertthunder/wandrix/internal/formatter"
	"github.com/desertthunder/wandrix/internal/shared"
)

// Worker pool and rate limit bounds for [HighlightsEngine.Batch].
const (
	DefaultWorkers   = 3
	MaxWorkers       = 8
	DefaultRateLimit = 2.0
)

// BatchOpts contains configuration for batch highlight fetches.
type BatchOpts struct {
	NumWorkers int     // Concurrent workers (default: 3, max: 8)
	RateLimit  float64 // Requests per second (default: 2)
	OutputDir  string  // When set, each destination is written to {OutputDir}/{slug}/README.md with a manifest
	Images     bool    // Download a cover image next to each README
}

type highlightsJob struct {
	index int
	name  string
}

type indexedResult struct {
	index int
	res   HighlightsResult
}

// Batch fetches highlights for names concurrently with rate limiting and progress tracking.
//
// Names are trimmed and de-duplicated ignoring case. A destination whose highlights fail is
// recorded as a failed result; the batch itself only fails on setup errors or cancellation, in
// which case the results gathered so far are returned with the context error.
func (e *HighlightsEngine) Batch(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	names []string,
	opts BatchOpts,
) (*BatchResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	names = normalizeNames(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no destinations given", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	total := len(names)
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan highlightsJob, total)
	results := make(chan indexedResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.highlightsWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, name := range names {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			sendProgress(prog, fetchingUpdate(i+1, total, name))
			jobs <- highlightsJob{index: i, name: name}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*HighlightsResult, total)
	completed := 0
	for r := range results {
		completed++
		res := r.res
		ordered[r.index] = &res
		if res.Success {
			sendProgress(prog, completedUpdate(completed, total, res))
		} else {
			sendProgress(prog, failedUpdate(completed, total, res))
		}
	}

	result := &BatchResult{
		Total:           total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]HighlightsResult, 0, completed),
	}
	for _, res := range ordered {
		if res == nil {
			continue
		}
		result.Results = append(result.Results, *res)
		if res.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	e.logger.Debug("batch finished", "total", total, "succeeded", result.Succeeded, "failed", result.Failed)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if opts.OutputDir != "" {
		manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
		sendProgress(prog, manifestUpdate(manifestPath))
		if err := formatter.WriteJSON(result, manifestPath); err != nil {
			return result, fmt.Errorf("batch completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = manifestPath
	}
	return result, nil
}

// highlightsWorker fetches highlights for jobs until the channel closes or ctx is done.
func (e *HighlightsEngine) highlightsWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan highlightsJob,
	results chan<- indexedResult,
	opts BatchOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- indexedResult{index: job.index, res: e.fetchOne(ctx, job.name, opts)}
	}
}

// fetchOne fetches and, when an output directory is set, writes one destination.
func (e *HighlightsEngine) fetchOne(ctx context.Context, name string, opts BatchOpts) HighlightsResult {
	h := explore.FetchHighlights(ctx, e.api, name)
	res := HighlightsResult{Name: name, Highlights: h}

	if h.Failed() {
		res.Error = h.Error
		e.logger.Warn("highlights failed", "destination", name, "error", h.Error)
		return res
	}

	if opts.OutputDir != "" {
		imageURL := ""
		if opts.Images {
			imageURL = formatter.HeroURL(name)
		}
		exp, err := formatter.WriteHighlightsExport(h, filepath.Join(opts.OutputDir, formatter.Slug(name)), imageURL)
		if err != nil {
			res.Error = fmt.Sprintf("export failed: %v", err)
			return res
		}
		res.Files = exp.Files
	}

	res.Success = true
	return res
}

// Fetch loads highlights for a single destination.
func (e *HighlightsEngine) Fetch(ctx context.Context, name string) (HighlightsResult, error) {
	if e.api == nil {
		return HighlightsResult{}, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}
	return e.fetchOne(ctx, name, BatchOpts{}), nil
}
