package formatter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/wandrix/internal/models"
	th "github.com/desertthunder/wandrix/internal/testing"
)

func sampleComparison() models.Comparison {
	return models.Comparison{
		Destination1: models.DestinationAnalysis{
			Name:       "Paris",
			Scores:     models.Scores{BudgetMatch: 6, WeatherSuitability: 8, AttractionsMatch: 10, Accessibility: 9, UniqueExperiences: 8, Safety: 7},
			TotalScore: 48,
			Pros:       []models.Text{"Museums", "Food"},
			Cons:       []models.Text{"Crowds"},
		},
		Destination2: models.DestinationAnalysis{
			Name:       "Rome",
			Scores:     models.Scores{BudgetMatch: 7, WeatherSuitability: 9, AttractionsMatch: 9, Accessibility: 7, UniqueExperiences: 7, Safety: 7.5},
			TotalScore: 46.5,
		},
		Recommendation: models.Recommendation{
			Winner:             "paris",
			Reasoning:          "More to see in a week.",
			KeyDecidingFactors: []models.Text{"Attractions"},
		},
	}
}

func sampleWishlist() []models.WishlistEntry {
	return []models.WishlistEntry{
		{Name: "Tokyo", Country: "Japan", Tagline: "Where Tradition Meets Future", AddedAt: models.NewTimestamp(time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC))},
		{Name: "Lisbon, Old Town", Country: "Portugal"},
	}
}

func TestMarkdown(t *testing.T) {
	t.Run("ComparisonToMarkdown", func(t *testing.T) {
		out := string(ComparisonToMarkdown(sampleComparison()))

		for _, want := range []string{
			"# Paris vs Rome",
			"## Recommendation: paris",
			"More to see in a week.",
			"## Paris (winner)",
			"## Rome\n",
			"| Budget match | 6/10 |",
			"| Safety | 7.5/10 |",
			"| **Total** | **46.5/60** |",
			"- Crowds",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("comparison markdown missing %q\n%s", want, out)
			}
		}
	})

	t.Run("ComparisonToMarkdown Failed", func(t *testing.T) {
		out := string(ComparisonToMarkdown(models.Comparison{Error: "Failed to compare destinations"}))
		if !strings.Contains(out, "Failed to compare destinations") {
			t.Errorf("expected error in output, got %s", out)
		}
		if strings.Contains(out, "vs") {
			t.Errorf("failed comparison should not render a title, got %s", out)
		}
	})

	t.Run("ItineraryToMarkdown", func(t *testing.T) {
		it := models.Itinerary{
			Destination:  "Kyoto",
			DurationDays: 2,
			Overview:     "Temples and gardens.",
			Days: []models.ItineraryDay{
				{
					DayNumber: 1,
					Title:     "Arrival",
					Morning:   &models.Slot{Activity: "Fushimi Inari", Location: "Fushimi", Duration: "3 hours", Tips: "Go early"},
					Evening:   &models.Slot{Activity: "Gion walk"},
					Meals:     models.Meals{Lunch: "Udon", Dinner: "Kaiseki"},
				},
				{DayNumber: 2, Title: "Arashiyama"},
			},
			LocalPhrases:      []models.LocalPhrase{{Phrase: "Arigatou", Meaning: "Thank you"}},
			EmergencyContacts: map[string]string{"police": "110", "ambulance": "119"},
		}
		out := string(ItineraryToMarkdown(it))

		for _, want := range []string{
			"# 2 days in Kyoto",
			"## Day 1: Arrival",
			"**Morning**: Fushimi Inari (Fushimi), 3 hours",
			"> Go early",
			"**Evening**: Gion walk",
			"**Meals**: Lunch: Udon; Dinner: Kaiseki",
			"## Day 2: Arashiyama",
			"- *Arigatou*: Thank you",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("itinerary markdown missing %q\n%s", want, out)
			}
		}
		if strings.Contains(out, "Afternoon") {
			t.Error("absent slots should be skipped")
		}
		if strings.Index(out, "ambulance") > strings.Index(out, "police") {
			t.Error("emergency contacts should be sorted by key")
		}
	})

	t.Run("HighlightsToMarkdown", func(t *testing.T) {
		h := models.Highlights{
			Destination:        "Paris",
			Tagline:            "City of Light",
			CulturalHighlights: &models.CulturalHighlights{History: "Old.", Festivals: []models.Text{"Fête de la Musique"}},
			FamousAttractions:  []models.Attraction{{Name: "Louvre", Description: "Museum", BestTime: "Morning"}},
			HiddenGems:         []models.Text{"Canal Saint-Martin"},
		}
		out := string(HighlightsToMarkdown(h, "https://picsum.photos/seed/331/1200/800"))

		for _, want := range []string{
			"# Paris",
			"![Paris](https://picsum.photos/seed/331/1200/800)",
			"*City of Light*",
			"**History**: Old.",
			"- Fête de la Musique",
			"- **Louvre**: Museum (best: Morning)",
			"### Hidden gems",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("highlights markdown missing %q\n%s", want, out)
			}
		}
		if strings.Contains(out, "## Food") {
			t.Error("absent sections should be skipped")
		}
	})

	t.Run("HighlightsToMarkdown Failed", func(t *testing.T) {
		out := string(HighlightsToMarkdown(models.Highlights{Destination: "Paris", Error: "Failed to load highlights"}, ""))
		if !strings.Contains(out, "# Paris") || !strings.Contains(out, "Failed to load highlights") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("DestinationInfoToMarkdown", func(t *testing.T) {
		out := string(DestinationInfoToMarkdown(models.DestinationInfo{
			Name:               "Bali",
			Country:            "Indonesia",
			EstimatedDailyCost: models.CostRange{Budget: "$30", MidRange: "$80", Luxury: "$300"},
		}))
		if !strings.Contains(out, "# Bali, Indonesia") {
			t.Errorf("missing title: %s", out)
		}
		if !strings.Contains(out, "| $30 | $80 | $300 |") {
			t.Errorf("missing cost row: %s", out)
		}
	})

	t.Run("WishlistToMarkdown", func(t *testing.T) {
		out := string(WishlistToMarkdown(sampleWishlist()))
		if !strings.Contains(out, "# Wishlist (2)") {
			t.Errorf("missing count: %s", out)
		}
		if !strings.Contains(out, "1. **Tokyo**, Japan - Where Tradition Meets Future (added 2026-10-01)") {
			t.Errorf("missing first entry: %s", out)
		}
		if !strings.Contains(out, "2. **Lisbon, Old Town**, Portugal\n") {
			t.Errorf("entry without date should omit it: %s", out)
		}

		empty := string(WishlistToMarkdown(nil))
		if !strings.Contains(empty, "Nothing saved yet.") {
			t.Errorf("unexpected empty output: %s", empty)
		}
	})

	t.Run("HistoryToMarkdown", func(t *testing.T) {
		records := []models.ComparisonRecord{{
			Destination1: "Paris",
			Destination2: "Rome",
			Result:       sampleComparison(),
			CreatedAt:    models.NewTimestamp(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)),
		}}
		out := string(HistoryToMarkdown(records))
		if !strings.Contains(out, "| 2026-09-30 | Paris vs Rome | paris |") {
			t.Errorf("unexpected history: %s", out)
		}
	})

	t.Run("ComparisonLogToMarkdown", func(t *testing.T) {
		out := string(ComparisonLogToMarkdown([]models.ComparisonLog{
			{Destination1: "Paris", Destination2: "Rome", Winner: "Paris", CreatedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)},
			{Destination1: "Oslo", Destination2: "Bergen", Failed: true, CreatedAt: time.Date(2026, 10, 18, 13, 0, 0, 0, time.UTC)},
		}))
		if !strings.Contains(out, "| 2026-10-18 12:00:00 | Paris vs Rome | Paris |") {
			t.Errorf("unexpected log: %s", out)
		}
		if !strings.Contains(out, "| Oslo vs Bergen | failed |") {
			t.Errorf("failed entry not marked: %s", out)
		}
	})

	t.Run("DestinationsToMarkdown", func(t *testing.T) {
		out := string(DestinationsToMarkdown("Explore", []models.Destination{{Name: "Rome", Country: "Italy", Tagline: "Eternal City"}}))
		if !strings.Contains(out, "| Rome | Italy | Eternal City |") {
			t.Errorf("unexpected table: %s", out)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("WishlistToCSV", func(t *testing.T) {
		data, err := WishlistToCSV(sampleWishlist())
		if err != nil {
			t.Fatalf("WishlistToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "name,country,tagline,added_at" {
			t.Errorf("unexpected header: %s", lines[0])
		}
		if lines[1] != "Tokyo,Japan,Where Tradition Meets Future,2026-10-01T09:30:00Z" {
			t.Errorf("unexpected row: %s", lines[1])
		}
		if lines[2] != `"Lisbon, Old Town",Portugal,,` {
			t.Errorf("expected quoted name and empty date, got %s", lines[2])
		}
	})

	t.Run("WishlistToCSV Empty", func(t *testing.T) {
		data, err := WishlistToCSV(nil)
		if err != nil {
			t.Fatalf("WishlistToCSV failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "name,country,tagline,added_at" {
			t.Errorf("expected header only, got %q", data)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		_, err := DownloadImage("")
		if err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})

	t.Run("Non200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		if _, err := DownloadImage(srv.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteWishlistExport CSV", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wishlist.csv")
		written, err := WriteWishlistExport(sampleWishlist(), path)
		if err != nil {
			t.Fatalf("WriteWishlistExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}
		content := th.MustReadFile(t, path)
		if !strings.HasPrefix(content, "name,country,tagline,added_at") {
			t.Errorf("CSV missing header: %s", content)
		}
	})

	t.Run("WriteWishlistExport JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wishlist.JSON")
		if _, err := WriteWishlistExport(nil, path); err != nil {
			t.Fatalf("WriteWishlistExport failed: %v", err)
		}
		var got []models.WishlistEntry
		if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &got); err != nil {
			t.Fatalf("expected JSON array: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty array, got %v", got)
		}
	})

	t.Run("WriteHighlightsExport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg"))
		}))
		defer srv.Close()

		dir := filepath.Join(t.TempDir(), "paris")
		res, err := WriteHighlightsExport(models.Highlights{Destination: "Paris", Tagline: "City of Light"}, dir, srv.URL)
		if err != nil {
			t.Fatalf("WriteHighlightsExport failed: %v", err)
		}
		if len(res.Files) != 2 {
			t.Fatalf("expected cover and README, got %v", res.Files)
		}
		th.AssertFileExists(t, res.CoverImage)
		readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(readme, "![Paris](cover.jpg)") {
			t.Errorf("README should link the local cover: %s", readme)
		}
	})

	t.Run("WriteHighlightsExport Without Image", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "rome")
		res, err := WriteHighlightsExport(models.Highlights{Destination: "Rome"}, dir, "")
		if err != nil {
			t.Fatalf("WriteHighlightsExport failed: %v", err)
		}
		if len(res.Files) != 1 || res.CoverImage != "" {
			t.Errorf("expected README only, got %+v", res)
		}
	})

	t.Run("WriteJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		if err := WriteJSON(map[string]int{"total": 3}, path); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}
		if !strings.Contains(th.MustReadFile(t, path), `"total": 3`) {
			t.Error("expected indented JSON")
		}
	})
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Paris":            "paris",
		"New York":         "new-york",
		"  Rio de Janeiro": "rio-de-janeiro",
		"São Paulo!":       "são-paulo",
		"--":               "",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestImages(t *testing.T) {
	seeds := []struct {
		name string
		want int
	}{
		{"", 0},
		{"a", 97},
		{"Paris", 331},
		{"New York", 575},
		{"Santorini", 371},
		{"Rio de Janeiro", 95},
		{"São Paulo", 662},
		{"Kraków 🏰", 129},
	}
	for _, tt := range seeds {
		t.Run("Seed "+tt.name, func(t *testing.T) {
			if got := ImageSeed(tt.name); got != tt.want {
				t.Errorf("ImageSeed(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}

	t.Run("URLs", func(t *testing.T) {
		if got := ImageURL("Paris", 0, 0); got != "https://picsum.photos/seed/331/800/600" {
			t.Errorf("unexpected default URL %s", got)
		}
		if got := ThumbnailURL("Paris"); got != "https://picsum.photos/seed/331/400/300" {
			t.Errorf("unexpected thumbnail URL %s", got)
		}
		if got := HeroURL("Paris"); got != "https://picsum.photos/seed/331/1200/800" {
			t.Errorf("unexpected hero URL %s", got)
		}
	})
}

func TestRender(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if got := Render("   ", 80); got != "" {
			t.Errorf("expected empty output, got %q", got)
		}
	})

	t.Run("Plain Style", func(t *testing.T) {
		out := RenderStyle("# Paris\n\nCity of Light", 40, "notty")
		if !strings.Contains(out, "Paris") || !strings.Contains(out, "City of Light") {
			t.Errorf("rendered output lost text: %q", out)
		}
		if strings.HasSuffix(out, "\n") {
			t.Error("trailing newlines should be trimmed")
		}
	})

	t.Run("Unknown Style Falls Back", func(t *testing.T) {
		md := "# Paris"
		if got := RenderStyle(md, 40, "no-such-style"); got != md {
			t.Errorf("expected raw markdown, got %q", got)
		}
	})
}
