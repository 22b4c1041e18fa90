package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/roomlog/internal/view"
)

// contentState holds the rendered view as display lines. Rooms are separated
// by a blank line, the same way the plain text output does it.
type contentState struct {
	nodes []view.Node
	lines []int    // node index per display line, -1 for a separator
	plain []string // unstyled text per display line, used by search
	rooms []int    // display line of every room header
}

func buildContent(nodes []view.Node) contentState {
	c := contentState{nodes: nodes}
	for i, n := range nodes {
		if n.Kind == view.NodeRoom {
			if i > 0 {
				c.lines = append(c.lines, -1)
				c.plain = append(c.plain, "")
			}
			c.rooms = append(c.rooms, len(c.lines))
		}
		c.lines = append(c.lines, i)
		c.plain = append(c.plain, view.PlainLine(n))
	}
	return c
}

// rebuildContent re-renders the current index with the active variant and
// theme. The previous content is replaced as a whole.
func (m *Model) rebuildContent() {
	var nodes []view.Node
	if m.snapshot.HasIndex {
		nodes = view.Render(m.snapshot.Index, view.Options{
			Variant:   m.variant,
			Formatter: m.cfg.Formatter(),
		})
	}
	m.content = buildContent(nodes)
	m.findSearchMatches()
	m.refreshViewport()
}

func (m *Model) resizeViewport() {
	m.viewport.Width = max(m.width-2, 1)
	m.viewport.Height = max(m.height-5, 1)
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderContent())
}

// renderContent renders the styled content for the viewport.
func (m *Model) renderContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.viewport.Width

	if len(m.content.lines) == 0 {
		msg, style := m.emptyMessage(styles)
		return bg.FillLine(bg.Render(ansi.Truncate(msg, width, "…"), style), width)
	}

	activeLine := -1
	if len(m.search.matches) > 0 && m.search.matchIdx < len(m.search.matches) {
		activeLine = m.search.matches[m.search.matchIdx]
	}
	matchSet := make(map[int]bool, len(m.search.matches))
	for _, idx := range m.search.matches {
		matchSet[idx] = true
	}

	var b strings.Builder
	for i, nodeIdx := range m.content.lines {
		var line string
		switch {
		case nodeIdx < 0:
			line = ""
		case i == activeLine:
			line = lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.Warning)).
				Foreground(lipgloss.Color(m.theme.Background)).
				Render(m.content.plain[i])
		case matchSet[i]:
			line = bg.Render(m.content.plain[i], styles.AccentText)
		default:
			line = styleNode(m.content.nodes[nodeIdx], styles, bg)
		}
		b.WriteString(bg.FillLine(ansi.Truncate(line, width, "…"), width))
		if i < len(m.content.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) emptyMessage(styles Styles) (string, lipgloss.Style) {
	switch {
	case m.loading:
		return "Loading " + m.path + "...", styles.MutedText
	case m.snapshot.LastError != nil && !m.snapshot.HasIndex:
		return "Could not load: " + m.snapshot.LastError.Error(), styles.DangerText
	case !m.snapshot.HasIndex:
		return "Press o to open a room log", styles.MutedText
	default:
		return "No events", styles.MutedText
	}
}

// styleNode renders one node with the theme. Message text is colored by its
// event kind.
func styleNode(n view.Node, styles Styles, bg BgStyle) string {
	indent := bg.Spaces(2 * n.Depth)
	switch n.Kind {
	case view.NodeRoom:
		return indent + bg.Render(n.Text, styles.AccentText.Bold(true))
	case view.NodeParticipant:
		return indent + bg.Render(n.Text, styles.InfoText)
	}

	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(bg.Render(fmt.Sprintf("%d.", n.Ordinal), styles.FaintText))
	b.WriteString(bg.Space())
	event := styles.EventStyle(n.Line.Kind)
	for _, span := range n.Line.Spans {
		var style lipgloss.Style
		switch span.Role {
		case view.RoleTime:
			style = styles.MutedText
		case view.RoleName:
			style = styles.Text.Bold(true)
		case view.RoleText:
			style = event
		case view.RoleEmphasis:
			style = event.Bold(true)
		case view.RoleAnnotation:
			style = styles.FaintText
		default:
			style = styles.Text
		}
		if span.Text == " " {
			b.WriteString(bg.Space())
			continue
		}
		b.WriteString(bg.Render(span.Text, style))
	}
	return b.String()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderTitledBox(m.boxTitle(), m.viewport.View(), m.width, max(m.height-3, 3)))
	b.WriteString("\n")

	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) boxTitle() string {
	if m.variant == view.VariantParticipant {
		return "Participants by room"
	}
	return "Room events"
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BorderFocus))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(m.theme.FocusBg))
	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}

// jumpRoom scrolls to the next (dir > 0) or previous room header relative
// to the top of the viewport.
func (m *Model) jumpRoom(dir int) {
	if len(m.content.rooms) == 0 {
		return
	}
	top := m.viewport.YOffset
	target := -1
	if dir > 0 {
		for _, line := range m.content.rooms {
			if line > top {
				target = line
				break
			}
		}
	} else {
		for i := len(m.content.rooms) - 1; i >= 0; i-- {
			if line := m.content.rooms[i]; line < top {
				target = line
				break
			}
		}
	}
	if target >= 0 {
		m.viewport.SetYOffset(target)
	}
}
