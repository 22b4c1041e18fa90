package ui

import (
	"regexp"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type searchState struct {
	active   bool
	input    textinput.Model
	query    string
	regex    *regexp.Regexp
	matches  []int // display lines that match
	matchIdx int
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "regex"
	ti.CharLimit = 256
	return searchState{input: ti}
}

func (m *Model) startSearch() {
	m.search.active = true
	m.search.input.SetValue("")
	m.search.input.Focus()
}

// handleSearchKey handles keyboard input while the search prompt is open.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.search.input.Value()
		if query == "" {
			m.search.active = false
			m.search.input.Blur()
			return m, nil
		}

		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			// Invalid pattern; keep the prompt open.
			return m, nil
		}

		m.search.regex = re
		m.search.query = query
		m.search.active = false
		m.search.input.Blur()
		m.findSearchMatches()
		if len(m.search.matches) > 0 {
			m.search.matchIdx = 0
			m.scrollToSearchMatch()
		}
		m.refreshViewport()
		return m, nil

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.input.Blur()
		m.search.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

func (m *Model) clearSearch() {
	if m.search.regex == nil {
		return
	}
	m.search.regex = nil
	m.search.query = ""
	m.search.matches = nil
	m.search.matchIdx = 0
	m.refreshViewport()
}

// findSearchMatches collects the display lines matching the current pattern.
func (m *Model) findSearchMatches() {
	m.search.matches = nil
	if m.search.regex == nil {
		return
	}
	for i, line := range m.content.plain {
		if line != "" && m.search.regex.MatchString(line) {
			m.search.matches = append(m.search.matches, i)
		}
	}
	if m.search.matchIdx >= len(m.search.matches) {
		m.search.matchIdx = 0
	}
}

func (m *Model) nextSearchMatch() {
	if len(m.search.matches) == 0 {
		return
	}
	m.search.matchIdx = (m.search.matchIdx + 1) % len(m.search.matches)
	m.scrollToSearchMatch()
	m.refreshViewport()
}

func (m *Model) previousSearchMatch() {
	if len(m.search.matches) == 0 {
		return
	}
	m.search.matchIdx = (m.search.matchIdx - 1 + len(m.search.matches)) % len(m.search.matches)
	m.scrollToSearchMatch()
	m.refreshViewport()
}

// scrollToSearchMatch centers the current match when possible.
func (m *Model) scrollToSearchMatch() {
	if m.search.matchIdx >= len(m.search.matches) {
		return
	}
	target := m.search.matches[m.search.matchIdx]
	m.viewport.SetYOffset(max(target-m.viewport.Height/2, 0))
}
