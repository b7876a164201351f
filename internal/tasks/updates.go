package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchHealth Phase = iota
	FetchDatabase
	FetchPopular
	FetchHighlights
	WriteExport
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchHealth:
		return "fetch_health"
	case FetchDatabase:
		return "fetch_database"
	case FetchPopular:
		return "fetch_popular"
	case FetchHighlights:
		return "fetch_highlights"
	case WriteExport:
		return "write_export"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}

func fetchingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHighlights,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching highlights: %s...", step, total, name),
	}
}

func completedUpdate(step, total int, res HighlightsResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Name),
		Data:    res,
	}
}

func failedUpdate(step, total int, res HighlightsResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Name, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest: %s", path),
	}
}
