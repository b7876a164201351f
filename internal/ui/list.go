package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/wandrix/internal/models"
)

var _ list.Item = destinationItem{}

// destinationItem wraps [models.Destination] to implement [list.Item].
type destinationItem struct {
	destination models.Destination
	saved       bool
}

func (i destinationItem) FilterValue() string {
	return i.destination.Name + " " + i.destination.Country
}

func (i destinationItem) Title() string {
	if i.saved {
		return "♥ " + i.destination.Name
	}
	return i.destination.Name
}

func (i destinationItem) Description() string {
	desc := i.destination.Country
	if i.destination.Tagline != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.destination.Tagline)
	}
	return desc
}

func destinationItems(dests []models.Destination, saved func(string) bool) []list.Item {
	items := make([]list.Item, len(dests))
	for i, d := range dests {
		items[i] = destinationItem{destination: d, saved: saved(d.Name)}
	}
	return items
}
