package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Comparison is the /compare payload. Error is set instead of the other fields when the comparison failed.
type Comparison struct {
	Destination1   DestinationAnalysis `json:"destination1"`
	Destination2   DestinationAnalysis `json:"destination2"`
	Recommendation Recommendation      `json:"recommendation"`
	Error          string              `json:"error,omitempty"`
}

// DestinationAnalysis is one side of a comparison.
type DestinationAnalysis struct {
	Name               string `json:"name"`
	Scores             Scores `json:"scores"`
	TotalScore         Score  `json:"total_score"`
	Pros               []Text `json:"pros,omitempty"`
	Cons               []Text `json:"cons,omitempty"`
	EstimatedTotalCost Text   `json:"estimated_total_cost,omitempty"`
	BestTimeToVisit    Text   `json:"best_time_to_visit,omitempty"`
	Highlights         []Text `json:"highlights,omitempty"`
}

// Scores are the per-criterion 0-10 ratings; six criteria sum to a 60 point total.
type Scores struct {
	BudgetMatch        Score `json:"budget_match"`
	WeatherSuitability Score `json:"weather_suitability"`
	AttractionsMatch   Score `json:"attractions_match"`
	Accessibility      Score `json:"accessibility"`
	UniqueExperiences  Score `json:"unique_experiences"`
	Safety             Score `json:"safety"`
}

// Recommendation names the winning destination.
type Recommendation struct {
	Winner             string `json:"winner"`
	Reasoning          Text   `json:"reasoning,omitempty"`
	KeyDecidingFactors []Text `json:"key_deciding_factors,omitempty"`
}

// Failed reports whether the payload carries an error.
func (c Comparison) Failed() bool { return c.Error != "" }

// Side returns destination 1 or 2 (any other value yields false).
func (c Comparison) Side(n int) (DestinationAnalysis, bool) {
	switch n {
	case 1:
		return c.Destination1, true
	case 2:
		return c.Destination2, true
	default:
		return DestinationAnalysis{}, false
	}
}

// IsWinner reports whether a matches the recommendation, ignoring case.
func (c Comparison) IsWinner(a DestinationAnalysis) bool {
	return a.Name != "" && strings.EqualFold(a.Name, c.Recommendation.Winner)
}

// Itinerary is the /itinerary/generate payload.
type Itinerary struct {
	ItineraryID        string            `json:"itinerary_id,omitempty"`
	Destination        string            `json:"destination"`
	DurationDays       int               `json:"duration_days"`
	Overview           string            `json:"overview,omitempty"`
	BestTimeToVisit    Text              `json:"best_time_to_visit,omitempty"`
	Days               []ItineraryDay    `json:"days,omitempty"`
	TotalEstimatedCost Text              `json:"total_estimated_cost,omitempty"`
	PackingList        []Text            `json:"packing_list,omitempty"`
	ImportantTips      []Text            `json:"important_tips,omitempty"`
	LocalPhrases       []LocalPhrase     `json:"local_phrases,omitempty"`
	EmergencyContacts  map[string]string `json:"emergency_contacts,omitempty"`
	Error              string            `json:"error,omitempty"`
}

// Failed reports whether the payload carries an error.
func (i Itinerary) Failed() bool { return i.Error != "" }

// ItineraryRecord is a stored itinerary as returned by GET /itinerary/:id.
type ItineraryRecord struct {
	ID          string      `json:"_id"`
	Destination string      `json:"destination"`
	Preferences Preferences `json:"preferences"`
	Itinerary   Itinerary   `json:"itinerary"`
	CreatedAt   Timestamp   `json:"created_at"`
}

// ComparisonRecord is one entry of the server's comparison history.
type ComparisonRecord struct {
	ID           string      `json:"_id"`
	Destination1 string      `json:"destination1"`
	Destination2 string      `json:"destination2"`
	Preferences  Preferences `json:"preferences"`
	Result       Comparison  `json:"result"`
	CreatedAt    Timestamp   `json:"created_at"`
}

// ItineraryDay is one day of an itinerary.
type ItineraryDay struct {
	DayNumber          int    `json:"day_number"`
	Title              string `json:"title"`
	Morning            *Slot  `json:"morning,omitempty"`
	Afternoon          *Slot  `json:"afternoon,omitempty"`
	Evening            *Slot  `json:"evening,omitempty"`
	Meals              Meals  `json:"meals"`
	EstimatedDailyCost Text   `json:"estimated_daily_cost,omitempty"`
}

// Slot is a morning/afternoon/evening activity.
type Slot struct {
	Activity string `json:"activity"`
	Location string `json:"location,omitempty"`
	Duration Text   `json:"duration,omitempty"`
	Tips     Text   `json:"tips,omitempty"`
}

// Meals holds per-meal recommendations.
type Meals struct {
	Breakfast string `json:"breakfast,omitempty"`
	Lunch     string `json:"lunch,omitempty"`
	Dinner    string `json:"dinner,omitempty"`
}

// LocalPhrase is a phrase in the destination's language.
type LocalPhrase struct {
	Phrase  string `json:"phrase"`
	Meaning string `json:"meaning"`
}

// Highlights is the /destination/highlights payload. Every field is optional.
type Highlights struct {
	Destination          string               `json:"destination,omitempty"`
	Tagline              string               `json:"tagline,omitempty"`
	CulturalHighlights   *CulturalHighlights  `json:"cultural_highlights,omitempty"`
	FamousAttractions    []Attraction         `json:"famous_attractions,omitempty"`
	CulinaryExperiences  *CulinaryExperiences `json:"culinary_experiences,omitempty"`
	ExclusiveExperiences []Experience         `json:"exclusive_experiences,omitempty"`
	HiddenGems           []Text               `json:"hidden_gems,omitempty"`
	PhotoSpots           []Text               `json:"photo_spots,omitempty"`
	LocalTips            []Text               `json:"local_tips,omitempty"`
	Error                string               `json:"error,omitempty"`
}

// Failed reports whether the payload carries an error.
func (h Highlights) Failed() bool { return h.Error != "" }

// CulturalHighlights groups history and traditions.
type CulturalHighlights struct {
	History            Text   `json:"history,omitempty"`
	Traditions         []Text `json:"traditions,omitempty"`
	Festivals          []Text `json:"festivals,omitempty"`
	ArtAndArchitecture Text   `json:"art_and_architecture,omitempty"`
}

// Attraction is a famous sight.
type Attraction struct {
	Name        string `json:"name"`
	Description Text   `json:"description,omitempty"`
	WhyVisit    Text   `json:"why_visit,omitempty"`
	BestTime    Text   `json:"best_time,omitempty"`
}

// CulinaryExperiences groups dishes, markets and dining.
type CulinaryExperiences struct {
	MustTryDishes     []Text `json:"must_try_dishes,omitempty"`
	FoodMarkets       []Text `json:"food_markets,omitempty"`
	DiningExperiences []Text `json:"dining_experiences,omitempty"`
}

// Experience is an exclusive, destination-specific activity.
type Experience struct {
	Experience  string `json:"experience"`
	Description Text   `json:"description,omitempty"`
	BestFor     Text   `json:"best_for,omitempty"`
}

// DestinationInfo is the /destination/info payload.
type DestinationInfo struct {
	Name                 string    `json:"name"`
	Country              string    `json:"country,omitempty"`
	Description          Text      `json:"description,omitempty"`
	Climate              Text      `json:"climate,omitempty"`
	BestSeasons          []Text    `json:"best_seasons,omitempty"`
	EstimatedDailyCost   CostRange `json:"estimated_daily_cost"`
	TopAttractions       []Text    `json:"top_attractions,omitempty"`
	LocalCuisine         []Text    `json:"local_cuisine,omitempty"`
	CulturalSignificance Text      `json:"cultural_significance,omitempty"`
	UniqueExperiences    []Text    `json:"unique_experiences,omitempty"`
	Accessibility        Text      `json:"accessibility,omitempty"`
	SafetyRating         Text      `json:"safety_rating,omitempty"`
	TouristFriendliness  Text      `json:"tourist_friendliness,omitempty"`
	Error                string    `json:"error,omitempty"`
}

// Failed reports whether the payload carries an error.
func (d DestinationInfo) Failed() bool { return d.Error != "" }

// CostRange is a per-day cost estimate by travel style.
type CostRange struct {
	Budget   Text `json:"budget,omitempty"`
	MidRange Text `json:"mid_range,omitempty"`
	Luxury   Text `json:"luxury,omitempty"`
}

// Text is a string field the model sometimes fills with a number, a list or an object.
//
// Scalars and objects are kept verbatim; arrays are joined with ", ".
type Text string

// UnmarshalJSON implements [json.Unmarshaler].
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, string(data) == "null":
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*t = Text(strings.Join(Strings(items), ", "))
	default:
		*t = Text(data)
	}
	return nil
}

// Strings converts a Text slice for display.
func Strings(items []Text) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item)
	}
	return out
}

// Score is a numeric rating that may arrive as a JSON number or a numeric string.
type Score float64

// UnmarshalJSON implements [json.Unmarshaler]. Unparseable values decode to zero.
func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*s = 0
		return nil
	}
	*s = Score(f)
	return nil
}

// String formats s without trailing zeros.
func (s Score) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64)
}
