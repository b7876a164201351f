// package formatter renders travel payloads as Markdown and CSV and writes them to disk
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/shared"
)

const dateLayout = "2006-01-02"

// ComparisonToMarkdown renders a comparison with a score table per destination.
// A failed comparison renders as its error only.
func ComparisonToMarkdown(c models.Comparison) []byte {
	var buf bytes.Buffer

	if c.Failed() {
		fmt.Fprintf(&buf, "> **Error**: %s\n", c.Error)
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "# %s vs %s\n\n", c.Destination1.Name, c.Destination2.Name)

	if c.Recommendation.Winner != "" {
		fmt.Fprintf(&buf, "## Recommendation: %s\n\n", c.Recommendation.Winner)
	}
	if c.Recommendation.Reasoning != "" {
		fmt.Fprintf(&buf, "%s\n\n", c.Recommendation.Reasoning)
	}
	writeList(&buf, "Key deciding factors", c.Recommendation.KeyDecidingFactors)

	for _, side := range []models.DestinationAnalysis{c.Destination1, c.Destination2} {
		title := side.Name
		if c.IsWinner(side) {
			title += " (winner)"
		}
		fmt.Fprintf(&buf, "## %s\n\n", title)

		buf.WriteString("| Criterion | Score |\n|---|---|\n")
		for _, row := range ScoreRows(side.Scores) {
			fmt.Fprintf(&buf, "| %s | %s/10 |\n", row.Label, row.Value)
		}
		fmt.Fprintf(&buf, "| **Total** | **%s/60** |\n\n", side.TotalScore)

		writeList(&buf, "Pros", side.Pros)
		writeList(&buf, "Cons", side.Cons)
		writeList(&buf, "Highlights", side.Highlights)
		writeField(&buf, "Estimated total cost", side.EstimatedTotalCost)
		writeField(&buf, "Best time to visit", side.BestTimeToVisit)
	}

	return buf.Bytes()
}

// ScoreRow is one labelled criterion score.
type ScoreRow struct {
	Label string
	Value models.Score
}

// ScoreRows lists s in display order.
func ScoreRows(s models.Scores) []ScoreRow {
	return []ScoreRow{
		{"Budget match", s.BudgetMatch},
		{"Weather", s.WeatherSuitability},
		{"Attractions", s.AttractionsMatch},
		{"Accessibility", s.Accessibility},
		{"Unique experiences", s.UniqueExperiences},
		{"Safety", s.Safety},
	}
}

// ItineraryToMarkdown renders a day-by-day plan.
func ItineraryToMarkdown(it models.Itinerary) []byte {
	var buf bytes.Buffer

	if it.Failed() {
		fmt.Fprintf(&buf, "> **Error**: %s\n", it.Error)
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "# %d days in %s\n\n", it.DurationDays, it.Destination)
	if it.Overview != "" {
		fmt.Fprintf(&buf, "%s\n\n", it.Overview)
	}
	writeField(&buf, "Best time to visit", it.BestTimeToVisit)
	writeField(&buf, "Total estimated cost", it.TotalEstimatedCost)

	for _, day := range it.Days {
		fmt.Fprintf(&buf, "## Day %d: %s\n\n", day.DayNumber, day.Title)
		writeSlot(&buf, "Morning", day.Morning)
		writeSlot(&buf, "Afternoon", day.Afternoon)
		writeSlot(&buf, "Evening", day.Evening)

		var meals []string
		for _, m := range [][2]string{{"Breakfast", day.Meals.Breakfast}, {"Lunch", day.Meals.Lunch}, {"Dinner", day.Meals.Dinner}} {
			if m[1] != "" {
				meals = append(meals, fmt.Sprintf("%s: %s", m[0], m[1]))
			}
		}
		if len(meals) > 0 {
			fmt.Fprintf(&buf, "**Meals**: %s\n\n", strings.Join(meals, "; "))
		}
		writeField(&buf, "Daily cost", day.EstimatedDailyCost)
	}

	writeList(&buf, "Packing list", it.PackingList)
	writeList(&buf, "Important tips", it.ImportantTips)

	if len(it.LocalPhrases) > 0 {
		buf.WriteString("### Local phrases\n\n")
		for _, p := range it.LocalPhrases {
			fmt.Fprintf(&buf, "- *%s*: %s\n", p.Phrase, p.Meaning)
		}
		buf.WriteString("\n")
	}

	if len(it.EmergencyContacts) > 0 {
		buf.WriteString("### Emergency contacts\n\n")
		keys := make([]string, 0, len(it.EmergencyContacts))
		for k := range it.EmergencyContacts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, "- %s: %s\n", k, it.EmergencyContacts[k])
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

func writeSlot(buf *bytes.Buffer, label string, s *models.Slot) {
	if s == nil || s.Activity == "" {
		return
	}
	fmt.Fprintf(buf, "**%s**: %s", label, s.Activity)
	if s.Location != "" {
		fmt.Fprintf(buf, " (%s)", s.Location)
	}
	if s.Duration != "" {
		fmt.Fprintf(buf, ", %s", s.Duration)
	}
	buf.WriteString("\n\n")
	if s.Tips != "" {
		fmt.Fprintf(buf, "> %s\n\n", s.Tips)
	}
}

// HighlightsToMarkdown renders the explore view for one destination.
func HighlightsToMarkdown(h models.Highlights, imageURL string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", h.Destination)
	if imageURL != "" {
		fmt.Fprintf(&buf, "![%s](%s)\n\n", h.Destination, imageURL)
	}
	if h.Failed() {
		fmt.Fprintf(&buf, "> **Error**: %s\n", h.Error)
		return buf.Bytes()
	}
	if h.Tagline != "" {
		fmt.Fprintf(&buf, "*%s*\n\n", h.Tagline)
	}

	if ch := h.CulturalHighlights; ch != nil {
		buf.WriteString("## Culture\n\n")
		writeField(&buf, "History", ch.History)
		writeField(&buf, "Art and architecture", ch.ArtAndArchitecture)
		writeList(&buf, "Traditions", ch.Traditions)
		writeList(&buf, "Festivals", ch.Festivals)
	}

	if len(h.FamousAttractions) > 0 {
		buf.WriteString("## Famous attractions\n\n")
		for _, a := range h.FamousAttractions {
			fmt.Fprintf(&buf, "- **%s**", a.Name)
			if a.Description != "" {
				fmt.Fprintf(&buf, ": %s", a.Description)
			}
			if a.BestTime != "" {
				fmt.Fprintf(&buf, " (best: %s)", a.BestTime)
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	if ce := h.CulinaryExperiences; ce != nil {
		buf.WriteString("## Food\n\n")
		writeList(&buf, "Must-try dishes", ce.MustTryDishes)
		writeList(&buf, "Food markets", ce.FoodMarkets)
		writeList(&buf, "Dining experiences", ce.DiningExperiences)
	}

	if len(h.ExclusiveExperiences) > 0 {
		buf.WriteString("## Exclusive experiences\n\n")
		for _, e := range h.ExclusiveExperiences {
			fmt.Fprintf(&buf, "- **%s**", e.Experience)
			if e.Description != "" {
				fmt.Fprintf(&buf, ": %s", e.Description)
			}
			if e.BestFor != "" {
				fmt.Fprintf(&buf, " (for %s)", e.BestFor)
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	writeList(&buf, "Hidden gems", h.HiddenGems)
	writeList(&buf, "Photo spots", h.PhotoSpots)
	writeList(&buf, "Local tips", h.LocalTips)

	return buf.Bytes()
}

// DestinationInfoToMarkdown renders /destination/info.
func DestinationInfoToMarkdown(d models.DestinationInfo) []byte {
	var buf bytes.Buffer

	if d.Failed() {
		fmt.Fprintf(&buf, "> **Error**: %s\n", d.Error)
		return buf.Bytes()
	}

	if d.Country != "" {
		fmt.Fprintf(&buf, "# %s, %s\n\n", d.Name, d.Country)
	} else {
		fmt.Fprintf(&buf, "# %s\n\n", d.Name)
	}
	if d.Description != "" {
		fmt.Fprintf(&buf, "%s\n\n", d.Description)
	}
	writeField(&buf, "Climate", d.Climate)
	writeList(&buf, "Best seasons", d.BestSeasons)

	cost := d.EstimatedDailyCost
	if cost.Budget != "" || cost.MidRange != "" || cost.Luxury != "" {
		buf.WriteString("### Daily cost\n\n| Budget | Mid-range | Luxury |\n|---|---|---|\n")
		fmt.Fprintf(&buf, "| %s | %s | %s |\n\n", cost.Budget, cost.MidRange, cost.Luxury)
	}

	writeList(&buf, "Top attractions", d.TopAttractions)
	writeList(&buf, "Local cuisine", d.LocalCuisine)
	writeList(&buf, "Unique experiences", d.UniqueExperiences)
	writeField(&buf, "Cultural significance", d.CulturalSignificance)
	writeField(&buf, "Accessibility", d.Accessibility)
	writeField(&buf, "Safety", d.SafetyRating)
	writeField(&buf, "Tourist friendliness", d.TouristFriendliness)

	return buf.Bytes()
}

// WishlistToMarkdown renders saved destinations, newest last.
func WishlistToMarkdown(entries []models.WishlistEntry) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Wishlist (%d)\n\n", len(entries))
	if len(entries) == 0 {
		buf.WriteString("Nothing saved yet.\n")
		return buf.Bytes()
	}

	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. **%s**", i+1, e.Name)
		if e.Country != "" {
			fmt.Fprintf(&buf, ", %s", e.Country)
		}
		if e.Tagline != "" {
			fmt.Fprintf(&buf, " - %s", e.Tagline)
		}
		if !e.AddedAt.IsZero() {
			fmt.Fprintf(&buf, " (added %s)", e.AddedAt.Format(dateLayout))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// DestinationsToMarkdown renders a destination list with thumbnail links.
func DestinationsToMarkdown(title string, dests []models.Destination) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	if len(dests) == 0 {
		buf.WriteString("No destinations found.\n")
		return buf.Bytes()
	}

	buf.WriteString("| Destination | Country | Tagline | Image |\n|---|---|---|---|\n")
	for _, d := range dests {
		fmt.Fprintf(&buf, "| %s | %s | %s | [view](%s) |\n", d.Name, d.Country, d.Tagline, ThumbnailURL(d.Name))
	}
	return buf.Bytes()
}

// HistoryToMarkdown renders the server's comparison history.
func HistoryToMarkdown(records []models.ComparisonRecord) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Comparison history\n\n")
	if len(records) == 0 {
		buf.WriteString("No comparisons yet.\n")
		return buf.Bytes()
	}

	buf.WriteString("| Date | Destinations | Winner |\n|---|---|---|\n")
	for _, r := range records {
		date := "-"
		if !r.CreatedAt.IsZero() {
			date = r.CreatedAt.Format(dateLayout)
		}
		winner := r.Result.Recommendation.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(&buf, "| %s | %s vs %s | %s |\n", date, r.Destination1, r.Destination2, winner)
	}
	return buf.Bytes()
}

// ComparisonLogToMarkdown renders locally recorded comparisons.
func ComparisonLogToMarkdown(entries []models.ComparisonLog) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Local comparison log\n\n")
	if len(entries) == 0 {
		buf.WriteString("No comparisons recorded.\n")
		return buf.Bytes()
	}

	buf.WriteString("| Date | Destinations | Winner |\n|---|---|---|\n")
	for _, e := range entries {
		winner := e.Winner
		if e.Failed {
			winner = "failed"
		}
		fmt.Fprintf(&buf, "| %s | %s vs %s | %s |\n", e.CreatedAt.Format(time.DateTime), e.Destination1, e.Destination2, winner)
	}
	return buf.Bytes()
}

func writeList(buf *bytes.Buffer, title string, items []models.Text) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(buf, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(buf, "- %s\n", item)
	}
	buf.WriteString("\n")
}

func writeField(buf *bytes.Buffer, label string, value models.Text) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, "**%s**: %s\n\n", label, value)
}

// WishlistToCSV converts wishlist entries to CSV with columns: name, country, tagline, added_at
func WishlistToCSV(entries []models.WishlistEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"name", "country", "tagline", "added_at"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		added := ""
		if !e.AddedAt.IsZero() {
			added = e.AddedAt.UTC().Format(time.RFC3339)
		}
		if err := writer.Write([]string{e.Name, e.Country, e.Tagline, added}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteWishlistExport writes the wishlist to path as CSV, or JSON when path ends in ".json".
func WriteWishlistExport(entries []models.WishlistEntry, path string) (string, error) {
	if path == "" {
		path = "wishlist.csv"
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if entries == nil {
			entries = []models.WishlistEntry{}
		}
		data, err = shared.MarshalJSON(entries, true)
	} else {
		data, err = WishlistToCSV(entries)
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write wishlist file: %w", err)
	}
	return path, nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// HighlightsExportResult contains information about files created by WriteHighlightsExport
type HighlightsExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteHighlightsExport writes highlights to {dir}/README.md, plus {dir}/cover.jpg when imageURL downloads.
//
// A failed image download is a warning, not an error.
func WriteHighlightsExport(h models.Highlights, outputDir, imageURL string) (*HighlightsExportResult, error) {
	if outputDir == "" {
		outputDir = Slug(h.Destination)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &HighlightsExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var cover string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverPath := filepath.Join(outputDir, "cover.jpg")
			if err := os.WriteFile(coverPath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
			} else {
				cover = "cover.jpg"
				result.CoverImage = coverPath
				result.Files = append(result.Files, coverPath)
			}
		}
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, HighlightsToMarkdown(h, cover), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteJSON writes v to path as indented JSON.
func WriteJSON(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// Slug lower-cases name and replaces every run of non-letters and non-digits with "-".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
