package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/wandrix/internal/models"
)

// prefField is a row of the preferences block below the destination inputs.
type prefField int

const (
	budgetField prefField = iota
	daysField
	interestsField
	seasonField
	typeField
	prefFieldCount
)

var prefLabels = [prefFieldCount]string{"Budget", "Trip length", "Interests", "Season", "Travel type"}

// focusCount covers both inputs and every preference row.
const focusCount = 2 + int(prefFieldCount)

// prefField reports the focused preference row; ok is false while an input has focus.
func (m *Model) prefField() (prefField, bool) {
	if m.focus < len(m.inputs) {
		return 0, false
	}
	return prefField(m.focus - len(m.inputs)), true
}

// adjustPreference moves the focused row's value by delta. On the interests row it moves the cursor.
func (m *Model) adjustPreference(delta int) {
	field, ok := m.prefField()
	if !ok {
		return
	}
	switch field {
	case budgetField:
		m.prefs.Budget = cycle(models.Budgets, m.prefs.Budget, delta)
	case daysField:
		m.prefs.TravelDuration += delta
		m.prefs = m.prefs.Clamp()
	case interestsField:
		n := len(models.Interests)
		m.interest = (m.interest + delta + n) % n
	case seasonField:
		m.prefs.Season = cycle(models.Seasons, m.prefs.Season, delta)
	case typeField:
		m.prefs.TravelType = cycle(models.TravelTypes, m.prefs.TravelType, delta)
	}
}

// toggleInterest flips the interest under the cursor.
func (m *Model) toggleInterest() {
	if field, ok := m.prefField(); ok && field == interestsField {
		m.prefs = m.prefs.ToggleInterest(models.Interests[m.interest])
	}
}

func cycle(options []string, current string, delta int) string {
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	n := len(options)
	return options[((i+delta)%n+n)%n]
}

func (m *Model) renderPreferences() string {
	var b strings.Builder
	b.WriteString(styles.label.Render("Preferences") + "\n")

	values := [prefFieldCount]string{
		m.prefs.Budget,
		fmt.Sprintf("%d days", m.prefs.TravelDuration),
		m.renderInterests(),
		m.prefs.Season,
		m.prefs.TravelType,
	}
	focused, editing := m.prefField()
	for i, label := range prefLabels {
		marker, value := "  ", values[i]
		if editing && prefField(i) == focused {
			marker = styles.ok.Render("› ")
			if prefField(i) != interestsField {
				value = "‹ " + value + " ›"
			}
		}
		fmt.Fprintf(&b, "%s%-12s %s\n", marker, label, value)
	}
	return b.String()
}

func (m *Model) renderInterests() string {
	focused, editing := m.prefField()
	cursor := editing && focused == interestsField

	parts := make([]string, 0, len(models.Interests))
	for i, interest := range models.Interests {
		box := "□"
		if slices.Contains(m.prefs.Interests, interest) {
			box = "■"
		}
		item := box + " " + interest
		if cursor && i == m.interest {
			item = styles.warn.Render(item)
		}
		parts = append(parts, item)
	}
	return strings.Join(parts, "  ")
}
