package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/wandrix/internal/compare"
	"github.com/desertthunder/wandrix/internal/explore"
	"github.com/desertthunder/wandrix/internal/formatter"
	"github.com/desertthunder/wandrix/internal/models"
	"github.com/desertthunder/wandrix/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FormView ViewState = iota
	BrowseView
	ResultView
	ItineraryView
)

// Session is the part of [session.Store] the TUI uses.
type Session interface {
	Init(ctx context.Context) session.State
	ToggleWishlist(ctx context.Context, destination models.Destination) (session.Outcome, error)
	IsInWishlist(name string) bool
	Snapshot() session.Snapshot
}

// Options configures a [Model].
type Options struct {
	Logger *log.Logger
	// Glamour style for the itinerary view; "dark" when empty.
	Style string
}

// Model represents the TUI application state.
//
// Comparison and itinerary state is owned by the [compare.Flow]; the model only keeps
// what the views need on top of it (inputs, focus, messages, widgets).
type Model struct {
	ctx      context.Context
	flow     *compare.Flow
	session  Session
	logger   *log.Logger
	style    string
	width    int
	height   int
	inputs   [2]textinput.Model
	focus    int
	prefs    models.Preferences
	interest int
	browsing bool
	browse   list.Model
	busy     bool
	formErr  string
	notice   string
	noticeOK bool
	auth     session.State
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model over flow and sess.
func NewModel(ctx context.Context, flow *compare.Flow, sess Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Style == "" {
		opts.Style = "dark"
	}

	m := &Model{
		ctx:      ctx,
		flow:     flow,
		session:  sess,
		logger:   opts.Logger,
		style:    opts.Style,
		width:    80,
		height:   24,
		auth:     session.Loading,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		viewport: viewport.New(76, 16),
		help:     help.New(),
		keys:     newKeyMap(),
	}

	placeholders := [2]string{"First destination (e.g. Paris)", "Second destination (e.g. Tokyo)"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 80
		ti.Width = 40
		m.inputs[i] = ti
	}

	snap := flow.Snapshot()
	m.inputs[0].SetValue(snap.Destination1)
	m.inputs[1].SetValue(snap.Destination2)
	m.inputs[0].Focus()
	m.prefs = snap.Preferences
	return m
}

// Init starts the cursor and spinner and hydrates the session.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.initSession())
}

// View returns the active view.
func (m *Model) View() string {
	switch m.CurrentView() {
	case BrowseView:
		return m.renderBrowse()
	case ResultView:
		return m.renderResult()
	case ItineraryView:
		return m.renderItinerary()
	default:
		return m.renderForm()
	}
}

// CurrentView derives the view from the flow's state.
func (m *Model) CurrentView() ViewState {
	if m.browsing {
		return BrowseView
	}
	switch m.flow.Snapshot().State {
	case compare.Result:
		return ResultView
	case compare.Itinerary:
		return ItineraryView
	default:
		return FormView
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQ) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.CurrentView() {
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case ItineraryView:
			return m.handleItineraryKeys(msg)
		default:
			return m.handleFormKeys(msg)
		}
	}

	return m.updateFocused(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionReady:
		m.auth, _ = msg.data.(session.State)
		m.logger.Debug("session ready", "state", m.auth)

	case MsgCompared:
		m.busy = false
		if err := msgErr(msg); err != nil {
			m.formErr = err.Error()
		}

	case MsgItineraryReady:
		m.busy = false
		if err := msgErr(msg); err != nil {
			m.setNotice(err.Error(), false)
			return m, nil
		}
		m.refreshItinerary()

	case MsgWishlistToggled:
		m.busy = false
		t, _ := msg.data.(wishlistToggle)
		switch {
		case !t.outcome.Success:
			m.setNotice(t.outcome.Error, false)
		case m.session.IsInWishlist(t.name):
			m.setNotice(fmt.Sprintf("♥ %s saved to your wishlist", t.name), true)
		default:
			m.setNotice(fmt.Sprintf("%s removed from your wishlist", t.name), true)
		}
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.next):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.browse):
		if _, ok := m.prefField(); ok {
			m.setFocus(0)
		}
		m.openBrowse()
		return m, nil
	}

	if _, ok := m.prefField(); ok {
		switch {
		case key.Matches(msg, m.keys.left):
			m.adjustPreference(-1)
		case key.Matches(msg, m.keys.right):
			m.adjustPreference(1)
		case key.Matches(msg, m.keys.toggle):
			m.toggleInterest()
		}
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.browse.FilterState() != list.Filtering {
		switch msg.String() {
		case "esc":
			m.browsing = false
			return m, nil
		case "enter":
			if item, ok := m.browse.SelectedItem().(destinationItem); ok {
				m.pick(item.destination.Name)
			}
			m.browsing = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.browse, cmd = m.browse.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.flow.Snapshot()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		return m, m.newComparison()
	case key.Matches(msg, m.keys.first), key.Matches(msg, m.keys.second):
		side := 1
		if key.Matches(msg, m.keys.second) {
			side = 2
		}
		return m, m.generate(snap, side)
	case key.Matches(msg, m.keys.wishlist):
		return m, m.toggleWinner(snap)
	}
	return m, nil
}

func (m *Model) handleItineraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		return m, m.newComparison()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.CurrentView() != FormView || m.focus >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves focus to i, which indexes the inputs and then the preference rows.
func (m *Model) setFocus(i int) {
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Blur()
	}
	m.focus = i
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Focus()
	}
}

func (m *Model) setNotice(text string, ok bool) {
	m.notice, m.noticeOK = text, ok
}

// submit validates the form before starting a comparison; invalid input never reaches the API.
func (m *Model) submit() tea.Cmd {
	d1, d2 := m.inputs[0].Value(), m.inputs[1].Value()
	if err := compare.Validate(d1, d2); err != nil {
		m.formErr = err.Error()
		return nil
	}

	m.formErr = ""
	m.setNotice("", false)
	m.busy = true
	prefs := m.prefs.Clamp()

	return func() tea.Msg {
		return comparedMsg(m.flow.Compare(m.ctx, d1, d2, prefs))
	}
}

func (m *Model) generate(snap compare.Snapshot, side int) tea.Cmd {
	if snap.Comparison == nil || snap.Comparison.Failed() {
		m.setNotice("Nothing to plan: the comparison failed", false)
		return nil
	}
	analysis, _ := snap.Comparison.Side(side)
	name := analysis.Name
	if name == "" {
		name = []string{snap.Destination1, snap.Destination2}[side-1]
	}

	m.setNotice("", false)
	m.busy = true
	return func() tea.Msg {
		return itineraryReadyMsg(m.flow.GenerateItinerary(m.ctx, name))
	}
}

func (m *Model) toggleWinner(snap compare.Snapshot) tea.Cmd {
	if snap.Comparison == nil || snap.Comparison.Recommendation.Winner == "" {
		m.setNotice("No winner to save", false)
		return nil
	}

	dest := winnerDestination(snap.Comparison.Recommendation.Winner)
	m.busy = true
	return func() tea.Msg {
		outcome, err := m.session.ToggleWishlist(m.ctx, dest)
		if err != nil {
			m.logger.Warn("wishlist toggle failed", "destination", dest.Name, "error", err)
		}
		return wishlistToggledMsg(dest.Name, outcome)
	}
}

// newComparison returns to the form, prefilled with the last destinations.
func (m *Model) newComparison() tea.Cmd {
	m.flow.BackToCompare()
	snap := m.flow.Snapshot()
	m.inputs[0].SetValue(snap.Destination1)
	m.inputs[1].SetValue(snap.Destination2)
	m.prefs = snap.Preferences
	m.setFocus(0)
	m.formErr = ""
	m.setNotice("", false)
	return textinput.Blink
}

func (m *Model) openBrowse() {
	saved := m.session.IsInWishlist
	l := list.New(destinationItems(explore.Catalog(), saved), list.NewDefaultDelegate(), m.width-4, m.height-4)
	l.Title = "Destinations"
	l.DisableQuitKeybindings()
	m.browse = l
	m.browsing = true
}

// pick fills the focused input and moves focus to the other one when it is empty.
func (m *Model) pick(name string) {
	m.inputs[m.focus].SetValue(name)
	other := (m.focus + 1) % len(m.inputs)
	if strings.TrimSpace(m.inputs[other].Value()) == "" {
		m.setFocus(other)
	}
}

func (m *Model) initSession() tea.Cmd {
	return func() tea.Msg {
		return sessionReadyMsg(m.session.Init(m.ctx))
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.viewport.Width = max(w-4, 20)
	m.viewport.Height = max(h-6, 5)
	if m.browsing {
		m.browse.SetSize(w-4, h-4)
	}
	if m.CurrentView() == ItineraryView {
		m.refreshItinerary()
	}
}

func (m *Model) refreshItinerary() {
	snap := m.flow.Snapshot()
	if snap.Itinerary == nil {
		m.viewport.SetContent("")
		return
	}
	md := string(formatter.ItineraryToMarkdown(*snap.Itinerary))
	m.viewport.SetContent(formatter.RenderStyle(md, m.viewport.Width, m.style))
	m.viewport.GotoTop()
}

func winnerDestination(name string) models.Destination {
	if d, ok := explore.Resolve(name); ok {
		return d
	}
	return models.Destination{Name: name}
}

func (m *Model) header() string {
	snap := m.session.Snapshot()
	status := styles.help.Render("checking session…")
	switch m.auth {
	case session.Authenticated:
		name := ""
		if snap.User != nil {
			name = snap.User.Name
		}
		status = styles.ok.Render(fmt.Sprintf("signed in as %s", name)) +
			styles.help.Render(fmt.Sprintf(" • %d saved", len(snap.Wishlist)))
	case session.Unauthenticated:
		status = styles.help.Render("not signed in (wandrix auth login)")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, styles.title.Render("✈ Wandrix"), "  ", status)
}

func (m *Model) footer(bindings ...key.Binding) string {
	var b strings.Builder
	if m.notice != "" {
		if m.noticeOK {
			b.WriteString(styles.ok.Render(m.notice))
		} else {
			b.WriteString(styles.err.Render(m.notice))
		}
		b.WriteString("\n\n")
	}
	b.WriteString(m.help.ShortHelpView(bindings))
	return b.String()
}

func (m *Model) renderForm() string {
	var b strings.Builder
	b.WriteString(m.header() + "\n")
	b.WriteString(styles.title.Render("Compare two destinations") + "\n")

	for i, in := range m.inputs {
		fmt.Fprintf(&b, "%s\n%s\n\n", styles.label.Render(fmt.Sprintf("Destination %d", i+1)), in.View())
	}

	b.WriteString(m.renderPreferences() + "\n")

	if m.busy {
		fmt.Fprintf(&b, "%s Comparing destinations…\n\n", m.spinner.View())
	} else if m.formErr != "" {
		fmt.Fprintf(&b, "%s\n\n", styles.err.Render(m.formErr))
	}

	bindings := []key.Binding{m.keys.submit, m.keys.next, m.keys.browse}
	if field, ok := m.prefField(); ok {
		bindings = append(bindings, m.keys.left, m.keys.right)
		if field == interestsField {
			bindings = append(bindings, m.keys.toggle)
		}
	}
	b.WriteString(m.footer(append(bindings, m.keys.forceQ)...))
	return b.String()
}

func (m *Model) renderBrowse() string {
	return fmt.Sprintf("%s\n\n%s", m.browse.View(), m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}))
}

func (m *Model) renderResult() string {
	snap := m.flow.Snapshot()
	var b strings.Builder
	b.WriteString(m.header() + "\n")

	c := snap.Comparison
	switch {
	case c == nil:
		b.WriteString(styles.warn.Render("No comparison available") + "\n\n")
	case c.Failed():
		b.WriteString(styles.err.Render(c.Error) + "\n\n")
	default:
		b.WriteString(styles.title.Render(fmt.Sprintf("%s vs %s", c.Destination1.Name, c.Destination2.Name)) + "\n")
		cards := []string{m.renderSide(*c, c.Destination1, 1), m.renderSide(*c, c.Destination2, 2)}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[0], " ", cards[1]) + "\n\n")

		winner := c.Recommendation.Winner
		if winner != "" {
			saved := ""
			if m.session.IsInWishlist(winner) {
				saved = styles.ok.Render(" ♥")
			}
			fmt.Fprintf(&b, "%s %s%s\n", styles.label.Render("Recommendation"), styles.winner.Render(winner), saved)
		}
		if r := c.Recommendation.Reasoning; r != "" {
			fmt.Fprintf(&b, "%s\n", lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	switch {
	case snap.Generating:
		fmt.Fprintf(&b, "%s Generating itinerary…\n\n", m.spinner.View())
	case m.busy:
		fmt.Fprintf(&b, "%s Updating wishlist…\n\n", m.spinner.View())
	}

	b.WriteString(m.footer(m.keys.first, m.keys.second, m.keys.wishlist, m.keys.back, m.keys.quit))
	return b.String()
}

func (m *Model) renderSide(c models.Comparison, a models.DestinationAnalysis, n int) string {
	var b strings.Builder
	title := fmt.Sprintf("%d. %s", n, a.Name)
	if c.IsWinner(a) {
		b.WriteString(styles.winner.Render(title+" ★") + "\n\n")
	} else {
		b.WriteString(styles.title.UnsetMarginBottom().Render(title) + "\n\n")
	}
	for _, row := range formatter.ScoreRows(a.Scores) {
		fmt.Fprintf(&b, "%s %s/10\n", styles.label.Render(row.Label), row.Value)
	}
	fmt.Fprintf(&b, "%s %s/60", styles.label.Render("Total"), a.TotalScore)
	return styles.card.Render(b.String())
}

func (m *Model) renderItinerary() string {
	if m.busy {
		return fmt.Sprintf("%s\n%s Generating itinerary…", m.header(), m.spinner.View())
	}
	return fmt.Sprintf("%s\n%s\n\n%s", m.header(), m.viewport.View(),
		m.footer(m.keys.up, m.keys.down, m.keys.back, m.keys.quit))
}
