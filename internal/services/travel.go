package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/shared"
)

// TravelClient implements [Travel] on top of [APIService].
type TravelClient struct {
	api *APIService
}

// NewTravelClient wraps api.
func NewTravelClient(api *APIService) *TravelClient {
	return &TravelClient{api: api}
}

// API returns the underlying raw service.
func (c *TravelClient) API() *APIService {
	return c.api
}

func (c *TravelClient) get(ctx context.Context, family Family, path string) (Result, error) {
	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return NewResult(family, resp)
}

func (c *TravelClient) post(ctx context.Context, family Family, path string, body any) (Result, error) {
	resp, err := c.api.PostJSON(ctx, path, body)
	if err != nil {
		return Result{}, err
	}
	return NewResult(family, resp)
}

// Health calls GET /health.
func (c *TravelClient) Health(ctx context.Context) (Result, error) {
	return c.get(ctx, FamilyData, "/health")
}

// Register calls POST /auth/register.
func (c *TravelClient) Register(ctx context.Context, name, email, password string) (Result, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.post(ctx, FamilyAuth, "/auth/register", body)
}

// Login calls POST /auth/login.
func (c *TravelClient) Login(ctx context.Context, email, password string) (Result, error) {
	body := map[string]string{"email": email, "password": password}
	return c.post(ctx, FamilyAuth, "/auth/login", body)
}

// Me calls GET /auth/me.
func (c *TravelClient) Me(ctx context.Context) (Result, error) {
	return c.get(ctx, FamilyData, "/auth/me")
}

// Wishlist calls GET /auth/wishlist.
func (c *TravelClient) Wishlist(ctx context.Context) (Result, error) {
	return c.get(ctx, FamilyData, "/auth/wishlist")
}

// AddToWishlist calls POST /auth/wishlist/add with {destination}.
func (c *TravelClient) AddToWishlist(ctx context.Context, destination models.Destination) (Result, error) {
	body := map[string]models.Destination{"destination": destination}
	return c.post(ctx, FamilyMutation, "/auth/wishlist/add", body)
}

// RemoveFromWishlist calls POST /auth/wishlist/remove with {name}.
func (c *TravelClient) RemoveFromWishlist(ctx context.Context, name string) (Result, error) {
	return c.post(ctx, FamilyMutation, "/auth/wishlist/remove", map[string]string{"name": name})
}

// CheckWishlist calls GET /auth/wishlist/check/:name.
func (c *TravelClient) CheckWishlist(ctx context.Context, name string) (Result, error) {
	return c.get(ctx, FamilyData, "/auth/wishlist/check/"+url.PathEscape(name))
}

// DestinationInfo calls POST /destination/info.
func (c *TravelClient) DestinationInfo(ctx context.Context, name string) (Result, error) {
	return c.post(ctx, FamilyData, "/destination/info", map[string]string{"destination": name})
}

// DestinationHighlights calls POST /destination/highlights.
func (c *TravelClient) DestinationHighlights(ctx context.Context, name string) (Result, error) {
	return c.post(ctx, FamilyData, "/destination/highlights", map[string]string{"destination": name})
}

// CompareDestinations calls POST /compare.
func (c *TravelClient) CompareDestinations(ctx context.Context, d1, d2 string, prefs models.Preferences) (Result, error) {
	body := struct {
		Destination1 string             `json:"destination1"`
		Destination2 string             `json:"destination2"`
		Preferences  models.Preferences `json:"preferences"`
	}{d1, d2, prefs}
	return c.post(ctx, FamilyData, "/compare", body)
}

// GenerateItinerary calls POST /itinerary/generate.
func (c *TravelClient) GenerateItinerary(ctx context.Context, destination string, prefs models.Preferences) (Result, error) {
	body := struct {
		Destination string             `json:"destination"`
		Preferences models.Preferences `json:"preferences"`
	}{destination, prefs}
	return c.post(ctx, FamilyData, "/itinerary/generate", body)
}

// Itinerary calls GET /itinerary/:id.
func (c *TravelClient) Itinerary(ctx context.Context, id string) (Result, error) {
	if id == "" {
		return Result{}, fmt.Errorf("%w: itinerary id", shared.ErrMissingArgument)
	}
	return c.get(ctx, FamilyData, "/itinerary/"+url.PathEscape(id))
}

// PopularDestinations calls GET /destinations/popular.
func (c *TravelClient) PopularDestinations(ctx context.Context) (Result, error) {
	return c.get(ctx, FamilyData, "/destinations/popular")
}

// ComparisonHistory calls GET /comparisons/history.
func (c *TravelClient) ComparisonHistory(ctx context.Context) (Result, error) {
	return c.get(ctx, FamilyData, "/comparisons/history")
}

// DatabaseStatus calls GET /db/status.
func (c *TravelClient) DatabaseStatus(ctx context.Context) (Result, error) {
	return c.get(ctx, FamilyData, "/db/status")
}

var _ Travel = (*TravelClient)(nil)
