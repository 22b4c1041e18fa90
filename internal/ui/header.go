package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roomlog/internal/logfile"
)

// renderHeader renders the status bar: source, counts and load state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("roomlog", styles.Logo)}

	snap := m.snapshot
	switch {
	case snap.HasIndex:
		parts = append(parts,
			bg.Render(sourceLabel(snap.Source), styles.Text),
			bg.Render(fmt.Sprintf("%d rooms", snap.Index.Len()), styles.AccentText),
			bg.Render(fmt.Sprintf("%d events", snap.Records), styles.MutedText))
		if n := len(snap.Skipped); n > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("%d skipped", n), styles.WarningText))
		}
		if n := len(snap.Problems); n > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("%d warnings", n), styles.WarningText))
		}
		parts = append(parts, bg.Render("loaded "+snap.LoadedAt.Format("15:04:05"), styles.FaintText))
	case m.loading:
		parts = append(parts, bg.Render("loading "+sourceLabel(m.path), styles.MutedText))
	default:
		parts = append(parts, bg.Render("no log loaded", styles.MutedText))
	}

	if snap.LastError != nil {
		parts = append(parts, bg.Render(fmt.Sprintf("LOAD FAILED (%d)", snap.ConsecutiveFailures), styles.DangerText))
	}
	if m.cfg.Watch && m.path != "" && m.path != logfile.Stdin {
		parts = append(parts, bg.Render("watching", styles.SuccessText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"o", "Open"},
		{"r", "Reload"},
		{"v", m.variant.Next().String() + "s"},
		{"[/]", "Rooms"},
		{"/", "Search"},
		{"n/N", "Next/Prev"},
		{"?", "More"},
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	if m.search.query != "" {
		segments = append(segments, bg.Render("/"+truncate(m.search.query, 18), styles.AccentText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return bg.FillLine(strings.Join(segments, sep), m.width)
}

// renderStatus renders the line under the log pane: prompts, errors and
// search results.
func (m Model) renderStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	var line string
	switch {
	case m.openActive:
		line = bg.Render("open:", styles.AccentText) + bg.Space() + m.openInput.View()
	case m.search.active:
		line = bg.Render("search:", styles.AccentText) + bg.Space() + m.search.input.View()
	case m.statusMessage != "":
		line = bg.Render(truncate(m.statusMessage, max(m.width-2, 0)), styles.DangerText)
	case m.search.regex != nil && len(m.search.matches) == 0:
		line = bg.Render("Pattern not found: "+m.search.query, styles.DangerText)
	case m.search.regex != nil:
		line = bg.Render("/"+m.search.query, styles.AccentText) + bg.Spaces(2) +
			bg.Render(fmt.Sprintf("match %d/%d", m.search.matchIdx+1, len(m.search.matches)), styles.MutedText)
	case len(m.content.lines) > 0:
		line = bg.Render(fmt.Sprintf("line %d/%d", m.viewport.YOffset+1, len(m.content.lines)), styles.FaintText)
	}
	return bg.FillLine(line, m.width)
}

func sourceLabel(path string) string {
	if path == logfile.Stdin {
		return "stdin"
	}
	return truncateMiddle(filepath.Base(path), 40)
}

// truncate shortens value to limit runes, ending with "...".
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle keeps both ends of value and drops the middle.
func truncateMiddle(value string, limit int) string {
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
