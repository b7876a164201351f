package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTimestamp(t *testing.T) {
	t.Run("Unmarshal", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			want  time.Time
		}{
			{"RFC3339", `"2026-10-18T09:30:00Z"`, time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)},
			{"RFC3339 With Offset", `"2026-10-18T11:30:00+02:00"`, time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)},
			{"Zone-less ISO With Micros", `"2026-10-18T09:30:00.123456"`, time.Date(2026, 10, 18, 9, 30, 0, 123456000, time.UTC)},
			{"Zone-less ISO", `"2026-10-18T09:30:00"`, time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)},
			{"Space Separated", `"2026-10-18 09:30:00"`, time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)},
			{"HTTP Date", `"Sun, 18 Oct 2026 09:30:00 GMT"`, time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var ts Timestamp
				if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if !ts.Equal(tt.want) {
					t.Errorf("expected %v, got %v", tt.want, ts.Time)
				}
			})
		}
	})

	t.Run("Null And Empty Decode To Zero", func(t *testing.T) {
		for _, input := range []string{`null`, `""`, `"  "`} {
			ts := NewTimestamp(time.Now())
			if err := json.Unmarshal([]byte(input), &ts); err != nil {
				t.Fatalf("expected no error for %s, got %v", input, err)
			}
			if !ts.IsZero() {
				t.Errorf("expected zero time for %s, got %v", input, ts.Time)
			}
		}
	})

	t.Run("Rejects Garbage", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
			t.Error("expected error for unrecognized timestamp")
		}
		if err := json.Unmarshal([]byte(`42`), &ts); err == nil {
			t.Error("expected error for non-string timestamp")
		}
	})

	t.Run("Marshal", func(t *testing.T) {
		ts := NewTimestamp(time.Date(2026, 10, 18, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600)))
		data, err := json.Marshal(ts)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != `"2026-10-18T07:30:00Z"` {
			t.Errorf("unexpected encoding: %s", data)
		}

		data, _ = json.Marshal(Timestamp{})
		if string(data) != `""` {
			t.Errorf("expected empty string for zero time, got %s", data)
		}
	})
}

func TestDestination(t *testing.T) {
	at := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	d := Destination{Name: "Rome", Country: "Italy", Tagline: "Eternal City", Image: "rome.jpg"}

	entry := d.Entry(at)
	if entry.Name != "Rome" || entry.Country != "Italy" || entry.Tagline != "Eternal City" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if !entry.AddedAt.Equal(at) {
		t.Errorf("expected added_at %v, got %v", at, entry.AddedAt)
	}

	back := entry.Destination()
	if back.Name != d.Name || back.Country != d.Country || back.Tagline != d.Tagline {
		t.Errorf("unexpected destination: %+v", back)
	}
}

func TestUserDecode(t *testing.T) {
	body := `{"id":"u1","email":"a@b.com","name":"Ann","wishlist":[{"name":"Rome","country":"Italy","added_at":"2026-10-18T09:30:00.000001"}]}`

	var u User
	if err := json.Unmarshal([]byte(body), &u); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u.Name != "Ann" || len(u.Wishlist) != 1 {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Wishlist[0].AddedAt.IsZero() {
		t.Error("expected added_at to be parsed")
	}
}

func TestPayloads(t *testing.T) {
	t.Run("Comparison", func(t *testing.T) {
		body := `{
			"destination1": {"name": "Paris", "total_score": 48, "scores": {"budget_match": "7", "safety": 9.5}, "estimated_total_cost": 2500},
			"destination2": {"name": "Rome", "total_score": "51.5", "best_time_to_visit": ["April", "May"]},
			"recommendation": {"winner": "rome", "key_deciding_factors": ["food"]}
		}`

		var c Comparison
		if err := json.Unmarshal([]byte(body), &c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if c.Failed() {
			t.Error("expected comparison to succeed")
		}
		if c.Destination1.Scores.BudgetMatch != 7 || c.Destination1.Scores.Safety != 9.5 {
			t.Errorf("unexpected scores: %+v", c.Destination1.Scores)
		}
		if c.Destination1.EstimatedTotalCost != "2500" {
			t.Errorf("expected numeric cost kept verbatim, got %q", c.Destination1.EstimatedTotalCost)
		}
		if c.Destination2.TotalScore.String() != "51.5" {
			t.Errorf("expected total score 51.5, got %s", c.Destination2.TotalScore)
		}
		if c.Destination2.BestTimeToVisit != "April, May" {
			t.Errorf("expected joined list, got %q", c.Destination2.BestTimeToVisit)
		}
		if !c.IsWinner(c.Destination2) || c.IsWinner(c.Destination1) {
			t.Error("expected winner match to ignore case")
		}

		if side, ok := c.Side(1); !ok || side.Name != "Paris" {
			t.Errorf("unexpected side 1: %+v", side)
		}
		if _, ok := c.Side(3); ok {
			t.Error("expected side 3 to be rejected")
		}
	})

	t.Run("Error Payloads", func(t *testing.T) {
		var (
			c Comparison
			i Itinerary
			h Highlights
		)
		for _, v := range []any{&c, &i, &h} {
			if err := json.Unmarshal([]byte(`{"error":"quota exceeded"}`), v); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		if !c.Failed() || !i.Failed() || !h.Failed() {
			t.Error("expected all payloads to report failure")
		}
	})

	t.Run("Itinerary", func(t *testing.T) {
		body := `{
			"destination": "Tokyo", "duration_days": 2, "itinerary_id": "abc",
			"days": [{"day_number": 1, "title": "Arrival", "morning": {"activity": "Tsukiji", "duration": 3}, "meals": {"dinner": "Ramen"}}],
			"local_phrases": [{"phrase": "Arigato", "meaning": "Thank you"}],
			"emergency_contacts": {"police": "110"}
		}`

		var it Itinerary
		if err := json.Unmarshal([]byte(body), &it); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if it.ItineraryID != "abc" || len(it.Days) != 1 {
			t.Fatalf("unexpected itinerary: %+v", it)
		}
		day := it.Days[0]
		if day.Morning == nil || day.Morning.Duration != "3" {
			t.Errorf("unexpected morning slot: %+v", day.Morning)
		}
		if day.Afternoon != nil {
			t.Error("expected absent afternoon slot")
		}
		if it.EmergencyContacts["police"] != "110" {
			t.Errorf("unexpected contacts: %v", it.EmergencyContacts)
		}
	})

	t.Run("Unparseable Score Is Zero", func(t *testing.T) {
		var s Score
		if err := json.Unmarshal([]byte(`"n/a"`), &s); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s != 0 {
			t.Errorf("expected 0, got %v", s)
		}
	})
}

func TestPreferences(t *testing.T) {
	t.Run("Defaults Are Valid", func(t *testing.T) {
		p := DefaultPreferences()
		if err := p.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
		if p.TravelDuration != 7 || strings.Join(p.Interests, ",") != "culture,food" {
			t.Errorf("unexpected defaults: %+v", p)
		}
	})

	t.Run("Clamp", func(t *testing.T) {
		tests := []struct {
			in, want int
		}{
			{-5, 1}, {0, 1}, {1, 1}, {15, 15}, {30, 30}, {31, 30}, {999, 30},
		}
		for _, tt := range tests {
			p := DefaultPreferences()
			p.TravelDuration = tt.in
			if got := p.Clamp().TravelDuration; got != tt.want {
				t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
			}
		}
	})

	t.Run("Clamp Copies Interests", func(t *testing.T) {
		p := DefaultPreferences()
		c := p.Clamp()
		c.Interests[0] = "beach"
		if p.Interests[0] != "culture" {
			t.Error("expected clamp to copy interests")
		}
	})

	t.Run("Clamp Encodes Empty Interests As Array", func(t *testing.T) {
		p := DefaultPreferences()
		p.Interests = nil

		data, err := json.Marshal(p.Clamp())
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !strings.Contains(string(data), `"interests":[]`) {
			t.Errorf("expected empty interests array, got %s", data)
		}

		p = DefaultPreferences().ToggleInterest("culture").ToggleInterest("food")
		if p.Interests == nil || len(p.Interests) != 0 {
			t.Errorf("expected empty non-nil interests, got %#v", p.Interests)
		}
	})

	t.Run("ToggleInterest", func(t *testing.T) {
		p := DefaultPreferences().ToggleInterest("beach")
		if strings.Join(p.Interests, ",") != "culture,food,beach" {
			t.Errorf("unexpected interests after add: %v", p.Interests)
		}
		p = p.ToggleInterest("culture")
		if strings.Join(p.Interests, ",") != "food,beach" {
			t.Errorf("unexpected interests after remove: %v", p.Interests)
		}
	})

	t.Run("Validate Reports Each Field", func(t *testing.T) {
		p := Preferences{Budget: "cheap", TravelDuration: 40, Season: "monsoon", TravelType: "couple"}
		err := p.Validate()

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		msg := verr.Error()
		for _, want := range []string{"budget must be one of", "travel_duration must be at most 30", "season must be one of"} {
			if !strings.Contains(msg, want) {
				t.Errorf("expected %q in %q", want, msg)
			}
		}
	})
}
