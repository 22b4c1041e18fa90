package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roomlog/internal/config"
	"github.com/five82/roomlog/internal/logfile"
)

func (m *Model) openPrompt() {
	m.openActive = true
	if m.path != "" && m.path != logfile.Stdin {
		m.openInput.SetValue(m.path)
		m.openInput.CursorEnd()
	}
	m.openInput.Focus()
}

// handleOpenKey handles keyboard input while the open prompt is shown.
func (m Model) handleOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		path := strings.TrimSpace(m.openInput.Value())
		if path == "" {
			return m, nil
		}
		if path == logfile.Stdin {
			m.statusMessage = "stdin can only be read at startup"
			m.closeOpenPrompt()
			return m, nil
		}
		expanded, err := config.ExpandPath(path)
		if err != nil {
			m.statusMessage = err.Error()
			return m, nil
		}
		m.closeOpenPrompt()
		m.clearSearch()
		cmd := m.requestLoad(expanded)
		return m, cmd

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.closeOpenPrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.openInput, cmd = m.openInput.Update(msg)
	return m, cmd
}

func (m *Model) closeOpenPrompt() {
	m.openActive = false
	m.openInput.Blur()
}
