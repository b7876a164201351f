// Package tasks runs multi-request travel API operations with real-time progress reporting.
//
// # Operations
//
//  1. [HighlightsEngine.Batch] : highlights for many destinations
//     - Bounded worker pool (default 3, max 8) fed at a fixed request rate
//     - Per-destination failures are recorded, not returned
//     - Optionally writes {dir}/{slug}/README.md per destination plus manifest.json
//
//  2. [Probe] : service status
//     - Fetches /health, /db/status and /destinations/popular
//     - Endpoint failures are collected in [ProbeResult.Errors]
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
