package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinTravelDuration = 1
	MaxTravelDuration = 30
)

var (
	Budgets     = []string{"budget", "medium", "high", "luxury"}
	Seasons     = []string{"spring", "summer", "fall", "winter"}
	TravelTypes = []string{"solo", "couple", "family", "group"}
	Interests   = []string{"adventure", "culture", "nature", "food", "history", "beach", "nightlife", "shopping", "wellness", "photography"}
)

// Preferences is the travel profile sent with compare and itinerary requests.
//
// The server treats it opaquely; the client clamps TravelDuration and, at the CLI boundary, validates the enums.
type Preferences struct {
	Budget         string   `json:"budget" validate:"required,oneof=budget medium high luxury"`
	TravelDuration int      `json:"travel_duration" validate:"gte=1,lte=30"`
	Interests      []string `json:"interests" validate:"dive,required"`
	Season         string   `json:"season" validate:"required,oneof=spring summer fall winter"`
	TravelType     string   `json:"travel_type" validate:"required,oneof=solo couple family group"`
}

// DefaultPreferences mirrors the compare form's initial values.
func DefaultPreferences() Preferences {
	return Preferences{
		Budget:         "medium",
		TravelDuration: 7,
		Interests:      []string{"culture", "food"},
		Season:         "summer",
		TravelType:     "couple",
	}
}

// Clamp returns a copy of p with TravelDuration forced into [MinTravelDuration, MaxTravelDuration].
// Interests is never nil, so it always encodes as a JSON array.
func (p Preferences) Clamp() Preferences {
	out := p
	out.Interests = append([]string{}, p.Interests...)
	if out.TravelDuration < MinTravelDuration {
		out.TravelDuration = MinTravelDuration
	}
	if out.TravelDuration > MaxTravelDuration {
		out.TravelDuration = MaxTravelDuration
	}
	return out
}

// ToggleInterest adds interest when absent and removes it when present, preserving order.
func (p Preferences) ToggleInterest(interest string) Preferences {
	out := p
	out.Interests = []string{}
	found := false
	for _, i := range p.Interests {
		if i == interest {
			found = true
			continue
		}
		out.Interests = append(out.Interests, i)
	}
	if !found {
		out.Interests = append(out.Interests, interest)
	}
	return out
}

// Validate checks the enum fields and the duration range.
func (p Preferences) Validate() error {
	return Validate(p)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return &ValidationError{Errors: validationErrors}
		}
		return err
	}
	return nil
}

// ValidationError wraps [validator.ValidationErrors] with a readable message.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldName(err), msgForTag(err)))
	}
	return strings.Join(msgs, "; ")
}

func fieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "TravelDuration":
		return "travel_duration"
	case "TravelType":
		return "travel_type"
	default:
		return strings.ToLower(fe.Field())
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
