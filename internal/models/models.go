package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// User is the account returned by the travel API. The client only interprets Name and Wishlist.
type User struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Wishlist []WishlistEntry `json:"wishlist,omitempty"`
}

// WishlistEntry is a saved destination. Name is the key within a wishlist.
type WishlistEntry struct {
	Name    string    `json:"name"`
	Country string    `json:"country"`
	Tagline string    `json:"tagline,omitempty"`
	AddedAt Timestamp `json:"added_at"`
}

// Destination is a place that can be explored, compared, or saved.
type Destination struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Tagline string `json:"tagline,omitempty"`
	Image   string `json:"image,omitempty"`
	Custom  bool   `json:"-"`
}

// Entry converts d into a wishlist entry stamped with at.
func (d Destination) Entry(at time.Time) WishlistEntry {
	return WishlistEntry{Name: d.Name, Country: d.Country, Tagline: d.Tagline, AddedAt: NewTimestamp(at)}
}

// Destination strips the timestamp from e.
func (e WishlistEntry) Destination() Destination {
	return Destination{Name: e.Name, Country: e.Country, Tagline: e.Tagline}
}

// Timestamp wraps [time.Time] and accepts RFC 3339, zone-less ISO 8601 and RFC 1123 (HTTP date) strings, all of which the API emits.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
}

// NewTimestamp returns t in UTC as a [Timestamp].
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// UnmarshalJSON implements [json.Unmarshaler]. Null and empty strings decode to the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if string(data) == "null" {
			*t = Timestamp{}
			return nil
		}
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		*t = Timestamp{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = NewTimestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements [json.Marshaler], writing RFC 3339 in UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ComparisonLog is a locally recorded comparison run.
type ComparisonLog struct {
	ID           string    `json:"id"`
	Destination1 string    `json:"destination1"`
	Destination2 string    `json:"destination2"`
	Winner       string    `json:"winner,omitempty"`
	Failed       bool      `json:"failed"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewComparisonLog summarizes a comparison payload for the local log.
func NewComparisonLog(d1, d2 string, c Comparison) ComparisonLog {
	return ComparisonLog{
		Destination1: d1,
		Destination2: d2,
		Winner:       c.Recommendation.Winner,
		Failed:       c.Failed(),
	}
}
