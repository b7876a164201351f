// package tasks implements long-running travel API operations.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/wandrix/internal/explore"
	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/services"
	"github.com/desertthunder/wandrix/internal/shared"
)

// HighlightsResult is the outcome for one destination of a batch.
type HighlightsResult struct {
	Name       string            `json:"name"`
	Success    bool              `json:"success"`
	Files      []string          `json:"files,omitempty"`
	Error      string            `json:"error,omitempty"`
	Highlights models.Highlights `json:"-"`
}

// BatchResult contains all data from a batch highlights fetch.
type BatchResult struct {
	Total           int                `json:"total"`
	Succeeded       int                `json:"succeeded"`
	Failed          int                `json:"failed"`
	OutputDirectory string             `json:"output_directory,omitempty"`
	ManifestPath    string             `json:"-"`
	Results         []HighlightsResult `json:"results"`
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// ProbeResult contains the service status endpoints' payloads.
type ProbeResult struct {
	Health   any
	Database any
	Popular  any
	Errors   []EndpointResult
}

// OK reports whether every endpoint answered.
func (p *ProbeResult) OK() bool { return len(p.Errors) == 0 }

type endpointOperation struct {
	path    string
	target  *any
	phase   Phase
	message string
}

// APIClient defines the raw request surface used by [Probe].
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// HighlightsEngine fetches destination highlights in bulk.
type HighlightsEngine struct {
	api    explore.HighlightsAPI
	logger *log.Logger
}

// NewHighlightsEngine creates an engine over api. A nil logger discards output.
func NewHighlightsEngine(api explore.HighlightsAPI, logger *log.Logger) *HighlightsEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HighlightsEngine{api: api, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// normalizeNames trims names, drops blanks and keeps the first of any case-insensitive duplicates.
func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// Probe fetches the health, database status and popular destination endpoints.
//
// Endpoint failures are collected in [ProbeResult.Errors]; only a missing client is an error.
func Probe(ctx context.Context, api APIClient, progress chan<- ProgressUpdate) (*ProbeResult, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &ProbeResult{Errors: []EndpointResult{}}
	endpoints := []endpointOperation{
		{path: "/health", target: &result.Health, phase: FetchHealth, message: "Checking API health..."},
		{path: "/db/status", target: &result.Database, phase: FetchDatabase, message: "Checking database status..."},
		{path: "/destinations/popular", target: &result.Popular, phase: FetchPopular, message: "Fetching popular destinations..."},
	}

	for i, endpoint := range endpoints {
		sendProgress(progress, operationUpdate(endpoint, i+1, len(endpoints)))

		resp, err := api.Get(ctx, endpoint.path)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.path, Error: err})
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Data:     resp.JSONData,
				Error:    fmt.Errorf("%w: status %d", shared.ErrRemote, resp.StatusCode),
			})
		default:
			*endpoint.target = resp.JSONData
		}
	}
	return result, nil
}
