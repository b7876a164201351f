package explore

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/services"
)

// HighlightsFailed is stored as the payload error when the highlights request fails in transport.
const HighlightsFailed string = "Failed to load highlights"

const (
	customCountry = "Explore this destination"
	customTagline = "Discover what awaits you"
	minCustomLen  = 2
)

var catalog = []models.Destination{
	{Name: "Paris", Country: "France", Tagline: "City of Love"},
	{Name: "Tokyo", Country: "Japan", Tagline: "Where Tradition Meets Future"},
	{Name: "Bali", Country: "Indonesia", Tagline: "Island of Gods"},
	{Name: "New York", Country: "USA", Tagline: "The City That Never Sleeps"},
	{Name: "Rome", Country: "Italy", Tagline: "Eternal City"},
	{Name: "Dubai", Country: "UAE", Tagline: "City of Gold"},
	{Name: "Sydney", Country: "Australia", Tagline: "Harbor City"},
	{Name: "Maldives", Country: "Maldives", Tagline: "Paradise on Earth"},
	{Name: "Barcelona", Country: "Spain", Tagline: "City of Gaudi"},
	{Name: "Singapore", Country: "Singapore", Tagline: "Garden City"},
	{Name: "London", Country: "UK", Tagline: "The Great Wen"},
	{Name: "Santorini", Country: "Greece", Tagline: "Jewel of the Aegean"},
}

// Catalog returns the built-in destinations in display order.
func Catalog() []models.Destination {
	out := make([]models.Destination, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the catalog's destination names.
func Names() []string {
	names := make([]string, len(catalog))
	for i, d := range catalog {
		names[i] = d.Name
	}
	return names
}

// Search returns catalog entries whose name or country contains term, ignoring case.
// An empty term matches everything.
func Search(term string) []models.Destination {
	needle := strings.ToLower(term)
	var out []models.Destination
	for _, d := range catalog {
		if strings.Contains(strings.ToLower(d.Name), needle) || strings.Contains(strings.ToLower(d.Country), needle) {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds a catalog entry by name, ignoring case and surrounding space.
func Lookup(name string) (models.Destination, bool) {
	name = strings.TrimSpace(name)
	for _, d := range catalog {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return models.Destination{}, false
}

// Custom builds a destination for a search term that names no catalog entry.
//
// The term is trimmed; it must have at least two characters and must not equal a catalog name
// ignoring case. Each space-separated word is capitalized.
func Custom(term string) (models.Destination, bool) {
	trimmed := strings.TrimSpace(term)
	if utf8.RuneCountInString(trimmed) < minCustomLen {
		return models.Destination{}, false
	}
	if _, ok := Lookup(trimmed); ok {
		return models.Destination{}, false
	}
	return models.Destination{
		Name:    TitleCase(trimmed),
		Country: customCountry,
		Tagline: customTagline,
		Custom:  true,
	}, true
}

// Resolve returns the catalog entry for name, or a custom destination when there is none.
func Resolve(name string) (models.Destination, bool) {
	if d, ok := Lookup(name); ok {
		return d, true
	}
	return Custom(name)
}

// TitleCase upper-cases the first letter of each space-separated word and lower-cases the rest.
// Runs of spaces are preserved.
func TitleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// HighlightsAPI is the subset of [services.Travel] used to load highlights.
type HighlightsAPI interface {
	DestinationHighlights(ctx context.Context, name string) (services.Result, error)
}

// FetchHighlights loads highlights for name. It never fails: transport and decoding problems
// become a payload whose error is [HighlightsFailed], and a server error is carried verbatim.
func FetchHighlights(ctx context.Context, api HighlightsAPI, name string) models.Highlights {
	res, err := api.DestinationHighlights(ctx, name)
	if err != nil {
		return models.Highlights{Destination: name, Error: HighlightsFailed}
	}

	var h models.Highlights
	if err := res.Decode(&h); err != nil {
		return models.Highlights{Destination: name, Error: HighlightsFailed}
	}
	if !res.OK() && h.Error == "" {
		h.Error = HighlightsFailed
	}
	if h.Destination == "" {
		h.Destination = name
	}
	return h
}
