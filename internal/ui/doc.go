// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives a [compare.Flow] through its three steps:
//  1. [FormView] : Enter two destinations (or pick them from the catalog with ctrl+b)
//  2. [ResultView] : Side-by-side scores, the recommended winner and wishlist toggle
//  3. [ItineraryView] : Scrollable, glamour-rendered day-by-day plan
//
// The view is derived from the flow's state rather than stored, so the model cannot drift from it.
// Network calls run as [tea.Cmd]s and report back through the Msg union type; a spinner is shown while
// a comparison, itinerary or wishlist update is in flight and other keys are ignored until it lands.
//
// The session is hydrated once on start to show who is signed in; wishlist changes go through
// [session.Store] so the CLI and TUI share the same rules.
package ui
