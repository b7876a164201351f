// Package compare implements the destination comparison flow.
//
//	Form ──Compare──► Result ──GenerateItinerary──► Itinerary
//	  ▲                 │                              │
//	  └──BackToCompare──┴──────────────────────────────┘
//
// Compare and GenerateItinerary each raise their own flag (Loading, Generating) for the duration of
// the request and always clear it on return. Transport failures never leave the flow stuck: the
// stored payload carries a static error message instead.
package compare
