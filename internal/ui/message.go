package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/wandrix/internal/session"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionReady MsgKind = iota
	MsgCompared
	MsgItineraryReady
	MsgWishlistToggled
)

type wishlistToggle struct {
	name    string
	outcome session.Outcome
}

// sessionReadyMsg is the constructor for [MsgSessionReady]
func sessionReadyMsg(state session.State) Msg {
	return Msg{kind: MsgSessionReady, data: state}
}

// comparedMsg is the constructor for [MsgCompared]
func comparedMsg(err error) Msg {
	return Msg{kind: MsgCompared, data: err}
}

// itineraryReadyMsg is the constructor for [MsgItineraryReady]
func itineraryReadyMsg(err error) Msg {
	return Msg{kind: MsgItineraryReady, data: err}
}

// wishlistToggledMsg is the constructor for [MsgWishlistToggled]
func wishlistToggledMsg(name string, outcome session.Outcome) Msg {
	return Msg{kind: MsgWishlistToggled, data: wishlistToggle{name: name, outcome: outcome}}
}

func msgErr(m Msg) error {
	err, _ := m.data.(error)
	return err
}
