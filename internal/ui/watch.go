package ui

import (
	"errors"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roomlog/internal/logfile"
)

const maxBackoff = 30 * time.Second

// calculateBackoff doubles base for every consecutive failure, up to
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// handleTick checks the watched file for changes. Inputs without a file
// behind them are not polled.
func (m *Model) handleTick() tea.Cmd {
	if !m.cfg.Watch {
		return nil
	}
	if m.path == "" || m.path == logfile.Stdin || m.loading {
		return tickCmd(m.pollTick)
	}
	return statCmd(m.path)
}

func (m *Model) handleStat(msg statMsg) tea.Cmd {
	if msg.path != m.path {
		return tickCmd(m.pollTick)
	}
	if msg.err != nil {
		if errors.Is(msg.err, logfile.ErrNotWatchable) {
			return nil
		}
		m.statFailures++
		delay := calculateBackoff(m.statFailures, m.pollTick)
		log.Printf("watch %s: %v (retry in %s)", m.path, msg.err, delay)
		return tickCmd(delay)
	}
	m.statFailures = 0

	next := tickCmd(m.pollTick)
	if m.hasStamp && msg.stamp.Size == m.stamp.Size && msg.stamp.ModTime.Equal(m.stamp.ModTime) {
		return next
	}
	return tea.Batch(m.requestLoad(m.path), next)
}
