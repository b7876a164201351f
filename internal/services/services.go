// package services defines interface Travel for interacting with the travel API
package services

import (
	"context"

	"github.com/desertthunder/wandrix/internal/models"
)

// Travel is the typed travel API surface. [TravelClient] implements it over HTTP.
//
// Every method returns a non-nil error only for transport or decoding failures; server-reported
// failures come back as a [Result] whose OK method is false.
type Travel interface {
	// Health checks that the API is up.
	Health(ctx context.Context) (Result, error)

	// Register creates an account. Success carries a token.
	Register(ctx context.Context, name, email, password string) (Result, error)

	// Login exchanges credentials for a token.
	Login(ctx context.Context, email, password string) (Result, error)

	// Me returns the user for the stored token.
	Me(ctx context.Context) (Result, error)

	// Wishlist returns the stored user's wishlist.
	Wishlist(ctx context.Context) (Result, error)

	// AddToWishlist saves a destination. Success carries a message.
	AddToWishlist(ctx context.Context, destination models.Destination) (Result, error)

	// RemoveFromWishlist deletes a destination by name. Success carries a message.
	RemoveFromWishlist(ctx context.Context, name string) (Result, error)

	// CheckWishlist asks the server whether name is saved.
	CheckWishlist(ctx context.Context, name string) (Result, error)

	// DestinationInfo returns general information about a destination.
	DestinationInfo(ctx context.Context, name string) (Result, error)

	// DestinationHighlights returns explore highlights for a destination.
	DestinationHighlights(ctx context.Context, name string) (Result, error)

	// CompareDestinations scores two destinations against prefs.
	CompareDestinations(ctx context.Context, d1, d2 string, prefs models.Preferences) (Result, error)

	// GenerateItinerary plans a trip to destination.
	GenerateItinerary(ctx context.Context, destination string, prefs models.Preferences) (Result, error)

	// Itinerary fetches a stored itinerary by id.
	Itinerary(ctx context.Context, id string) (Result, error)

	// PopularDestinations lists the server's featured destinations.
	PopularDestinations(ctx context.Context) (Result, error)

	// ComparisonHistory lists the server's most recent comparisons.
	ComparisonHistory(ctx context.Context) (Result, error)

	// DatabaseStatus reports the server's storage backend.
	DatabaseStatus(ctx context.Context) (Result, error)
}

// UserEnvelope is the body of /auth/me, /auth/login and /auth/register.
type UserEnvelope struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user"`
}

// WishlistEnvelope is the body of /auth/wishlist.
type WishlistEnvelope struct {
	Wishlist []models.WishlistEntry `json:"wishlist"`
}

// WishlistCheck is the body of /auth/wishlist/check/:name.
type WishlistCheck struct {
	InWishlist bool `json:"in_wishlist"`
}

// PopularEnvelope is the body of /destinations/popular.
type PopularEnvelope struct {
	Destinations []models.Destination `json:"destinations"`
}

// HistoryEnvelope is the body of /comparisons/history.
type HistoryEnvelope struct {
	History []models.ComparisonRecord `json:"history"`
}

// HealthStatus is the body of /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database any    `json:"database,omitempty"`
}

// DBStatus is the body of /db/status.
type DBStatus struct {
	Connected  bool   `json:"connected"`
	Database   string `json:"database"`
	Mode       string `json:"mode"`
	ClientInfo string `json:"client_info"`
	LastCheck  string `json:"last_check"`
}
