package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ehri-project/ehri-explorer/api"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	countStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("228"))
)

// resultMsg carries the outcome of one fetch round back into the UI loop
type resultMsg struct {
	err error
}

// searchModel is the interactive archival search view. One fetch is in
// flight at most; every user action triggers at most one new round.
type searchModel struct {
	sess *api.SearchSession

	input    textinput.Model
	viewport viewport.Model
	ready    bool
	fetching bool
	errText  string
}

func newSearchModel(sess *api.SearchSession) *searchModel {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.PromptStyle = dimStyle
	ti.SetValue(sess.Query())
	ti.Focus()

	return &searchModel{
		sess:  sess,
		input: ti,
	}
}

// fetch runs one synchronous fetch round as a bubbletea command
func (m *searchModel) fetch() tea.Cmd {
	m.fetching = true
	return func() tea.Msg {
		_, err := m.sess.Fetch(context.Background())
		return resultMsg{err: err}
	}
}

// Init triggers the initial fetch
func (m *searchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetch())
}

// Update handles user input and updates the model state
func (m *searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.fetching {
				return m, nil
			}
			m.sess.SetQuery(m.input.Value())
			return m, m.fetch()
		case "left":
			// Navigation preconditions live with the caller; the session
			// itself does not clamp
			if !m.fetching && m.sess.Page() > 1 {
				m.sess.PrevPage()
				return m, m.fetch()
			}
			return m, nil
		case "right":
			if !m.fetching && m.sess.Aggregates().HasNext {
				m.sess.NextPage()
				return m, m.fetch()
			}
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

	case resultMsg:
		m.fetching = false
		if msg.err != nil {
			m.errText = userMessage(msg.err)
		} else {
			m.errText = ""
		}
		m.viewport.SetContent(m.resultsView())
		m.viewport.GotoTop()
		return m, nil

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.SetContent(m.resultsView())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the current state of the model
func (m *searchModel) View() string {
	if !m.ready {
		return "\nInitializing..."
	}

	agg := m.sess.Aggregates()
	header := headerStyle.Render(fmt.Sprintf("Archival search — %s", strings.ToUpper(m.sess.Country()))) +
		dimStyle.Render(fmt.Sprintf("  page %d of %d", m.sess.Page(), agg.Pages))

	status := m.errText
	if status != "" {
		status = errStyle.Render(status)
	} else if m.fetching {
		status = dimStyle.Render("Fetching…")
	} else {
		status = dimStyle.Render("enter search • ←/→ page • ↑/↓ scroll • esc quit")
	}

	return header + "\n" + m.input.View() + "\n" + m.viewport.View() + "\n" + status
}

// resultsView formats the current result page for the viewport
func (m *searchModel) resultsView() string {
	page := m.sess.Current()
	if page == nil {
		return ""
	}

	switch m.sess.Empty() {
	case api.NothingLinked:
		return fmt.Sprintf("There are no archival descriptions linked to %s.", strings.ToUpper(m.sess.Country()))
	case api.NothingMatched:
		return fmt.Sprintf("No archival descriptions match %q here. Try another term.", m.sess.Query())
	}

	agg := m.sess.Aggregates()

	var b strings.Builder
	fmt.Fprintf(&b, "%s matches across %s institutions\n\n",
		countStyle.Render(fmt.Sprintf("%d", agg.Total)),
		countStyle.Render(fmt.Sprintf("%d", len(agg.Holders))))

	for _, h := range agg.Holders {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%4d", h.Count)), h.Name)
	}
	fmt.Fprintln(&b)

	for _, u := range page.Units {
		fmt.Fprintf(&b, "• %s\n  %s\n", u.Title(), dimStyle.Render(u.PortalURL()))
	}

	return b.String()
}

// runSearchUI starts the interactive search view over an existing session
func runSearchUI(sess *api.SearchSession) error {
	p := tea.NewProgram(
		newSearchModel(sess),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
