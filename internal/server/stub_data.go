package server

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/desertthunder/wandrix/internal/explore"
	"github.com/desertthunder/wandrix/internal/models"
)

// score derives a stable 5..10 rating from a destination and criterion.
func score(parts ...string) models.Score {
	h := fnv.New32a()
	for _, p := range parts {
		h.Write([]byte(strings.ToLower(p)))
		h.Write([]byte{0})
	}
	return models.Score(5 + h.Sum32()%6)
}

func stubAnalysis(name string, prefs models.Preferences) models.DestinationAnalysis {
	s := models.Scores{
		BudgetMatch:        score(name, "budget", prefs.Budget),
		WeatherSuitability: score(name, "weather", prefs.Season),
		AttractionsMatch:   score(name, "attractions", strings.Join(prefs.Interests, ",")),
		Accessibility:      score(name, "accessibility"),
		UniqueExperiences:  score(name, "unique", prefs.TravelType),
		Safety:             score(name, "safety"),
	}
	total := s.BudgetMatch + s.WeatherSuitability + s.AttractionsMatch + s.Accessibility + s.UniqueExperiences + s.Safety

	return models.DestinationAnalysis{
		Name:       name,
		Scores:     s,
		TotalScore: total,
		Pros: []models.Text{
			models.Text(fmt.Sprintf("Plenty to do for a %s trip", orDefault(prefs.TravelType, "solo"))),
			models.Text(fmt.Sprintf("Pleasant in %s", orDefault(prefs.Season, "any season"))),
		},
		Cons:               []models.Text{"Crowded during peak season"},
		EstimatedTotalCost: models.Text(fmt.Sprintf("$%d", int(total)*prefs.Clamp().TravelDuration*10)),
		BestTimeToVisit:    "April to June",
		Highlights:         []models.Text{models.Text(name + " old town"), models.Text(name + " food markets")},
	}
}

// stubComparison scores both destinations; the higher total wins and ties go to the first.
func stubComparison(d1, d2 string, prefs models.Preferences) models.Comparison {
	a := stubAnalysis(d1, prefs)
	b := stubAnalysis(d2, prefs)

	winner, loser := a, b
	if b.TotalScore > a.TotalScore {
		winner, loser = b, a
	}

	return models.Comparison{
		Destination1: a,
		Destination2: b,
		Recommendation: models.Recommendation{
			Winner: winner.Name,
			Reasoning: models.Text(fmt.Sprintf("%s scores %s of 60 against %s for %s.",
				winner.Name, winner.TotalScore, loser.TotalScore, loser.Name)),
			KeyDecidingFactors: []models.Text{"budget_match", "attractions_match"},
		},
	}
}

var slotNames = [...]string{"Morning", "Afternoon", "Evening"}

func stubItinerary(destination string, prefs models.Preferences) models.Itinerary {
	days := prefs.Clamp().TravelDuration
	interests := prefs.Interests
	if len(interests) == 0 {
		interests = []string{"general tourism"}
	}

	it := models.Itinerary{
		Destination:        destination,
		DurationDays:       days,
		Overview:           fmt.Sprintf("%d days in %s focused on %s.", days, destination, strings.Join(interests, ", ")),
		BestTimeToVisit:    "Spring or early autumn",
		TotalEstimatedCost: models.Text(fmt.Sprintf("$%d", days*dailyCost(prefs.Budget))),
		PackingList:        []models.Text{"Comfortable shoes", "Travel adapter", "Reusable water bottle"},
		ImportantTips:      []models.Text{"Book popular sights in advance"},
		LocalPhrases:       []models.LocalPhrase{{Phrase: "Hello", Meaning: "Greeting"}},
		EmergencyContacts:  map[string]string{"emergency": "112"},
		Days:               make([]models.ItineraryDay, 0, days),
	}

	for d := 1; d <= days; d++ {
		interest := interests[(d-1)%len(interests)]
		slot := func(i int) *models.Slot {
			return &models.Slot{
				Activity: fmt.Sprintf("%s %s", slotNames[i], interest),
				Location: destination,
				Duration: "2-3 hours",
			}
		}
		it.Days = append(it.Days, models.ItineraryDay{
			DayNumber:          d,
			Title:              fmt.Sprintf("Day %d: %s", d, explore.TitleCase(interest)),
			Morning:            slot(0),
			Afternoon:          slot(1),
			Evening:            slot(2),
			Meals:              models.Meals{Breakfast: "Local café", Lunch: "Street food", Dinner: "Neighborhood bistro"},
			EstimatedDailyCost: models.Text(fmt.Sprintf("$%d", dailyCost(prefs.Budget))),
		})
	}
	return it
}

func dailyCost(budget string) int {
	switch budget {
	case "budget":
		return 60
	case "high":
		return 250
	case "luxury":
		return 500
	default:
		return 120
	}
}

func stubHighlights(name string) models.Highlights {
	d, _ := explore.Resolve(name)
	return models.Highlights{
		Destination: name,
		Tagline:     d.Tagline,
		CulturalHighlights: &models.CulturalHighlights{
			History:    models.Text(fmt.Sprintf("%s has a long and layered history.", name)),
			Traditions: []models.Text{"Seasonal festivals"},
		},
		FamousAttractions: []models.Attraction{
			{Name: name + " Old Town", Description: "Historic center", WhyVisit: "Architecture", BestTime: "Morning"},
		},
		CulinaryExperiences: &models.CulinaryExperiences{
			MustTryDishes: []models.Text{"Regional specialty"},
			FoodMarkets:   []models.Text{"Central market"},
		},
		ExclusiveExperiences: []models.Experience{{Experience: "Sunset walk", Description: "Guided evening tour", BestFor: "Couples"}},
		HiddenGems:           []models.Text{"Quiet back streets"},
		PhotoSpots:           []models.Text{"Viewpoint above the city"},
		LocalTips:            []models.Text{"Carry some cash"},
	}
}

func stubDestinationInfo(name string) models.DestinationInfo {
	d, _ := explore.Resolve(name)
	return models.DestinationInfo{
		Name:                 name,
		Country:              d.Country,
		Description:          models.Text(d.Tagline),
		Climate:              "Temperate",
		BestSeasons:          []models.Text{"spring", "fall"},
		EstimatedDailyCost:   models.CostRange{Budget: "$60", MidRange: "$120", Luxury: "$500"},
		TopAttractions:       []models.Text{models.Text(name + " Old Town")},
		LocalCuisine:         []models.Text{"Regional specialty"},
		CulturalSignificance: "High",
		UniqueExperiences:    []models.Text{"Sunset walk"},
		Accessibility:        "Good",
		SafetyRating:         models.Text(fmt.Sprintf("%s/10", score(name, "safety"))),
		TouristFriendliness:  "Very friendly",
	}
}

func popularDestinations() []models.Destination {
	out := explore.Catalog()
	for i := range out {
		out[i].Image = strings.ToLower(strings.ReplaceAll(out[i].Name, " ", "-")) + ".jpg"
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
