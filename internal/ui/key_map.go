package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Plain letters are only bound outside the destination inputs so they can be typed there.
type keyMap struct {
	next     key.Binding
	prev     key.Binding
	submit   key.Binding
	browse   key.Binding
	left     key.Binding
	right    key.Binding
	toggle   key.Binding
	first    key.Binding
	second   key.Binding
	wishlist key.Binding
	back     key.Binding
	up       key.Binding
	down     key.Binding
	quit     key.Binding
	forceQ   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "compare")),
		browse:   key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "browse destinations")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous value")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next value")),
		toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle interest")),
		first:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "plan destination 1")),
		second:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "plan destination 2")),
		wishlist: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "toggle wishlist")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "new comparison")),
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQ:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.submit, k.browse},
		{k.left, k.right, k.toggle},
		{k.first, k.second, k.wishlist},
		{k.back, k.up, k.down, k.quit},
	}
}
