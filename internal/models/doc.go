// Package models defines the domain types exchanged with the travel API.
//
// The package contains two categories of types:
//
// 1. Session types, owned by the session store:
//   - [User] : the authenticated account, opaque except for name and wishlist
//   - [WishlistEntry] : a saved destination keyed by name, stamped with [Timestamp]
//   - [Destination] : catalog or custom destination that can be saved or compared
//
// 2. Payload types, decoded from API responses:
//   - [Comparison] : two [DestinationAnalysis] values and a [Recommendation]
//   - [Itinerary] : day-by-day plan with [ItineraryDay] entries
//   - [Highlights] : explore page highlights
//
// Every payload carries an Error field: the API reports failures in-band, and the compare flow
// substitutes a static error payload when the request itself fails.
//
// [Preferences] is the travel profile sent with compare and itinerary requests; its validator
// tags are checked at the CLI boundary only.
package models
