package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// --------------------------- Styles ------------------------------

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0"))
	errStyle      = lipgloss.NewStyle().Faint(true)
)

func (m *model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(truncateToWidth(headerStyle.Render("navl — "+m.tree.root.Path), width))
	b.WriteString("\n")

	end := m.offset + m.viewHeight()
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderEntry(m.visible[i], i == m.cursor, width))
		b.WriteString("\n")
	}
	// pad so the footer stays pinned to the bottom row
	for i := end - m.offset; i < m.viewHeight(); i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderEntry draws one visible row: cursor marker, indentation, icon, name,
// and an inline marker for nodes whose listing failed.
func (m *model) renderEntry(e visibleEntry, selected bool, width int) string {
	var b strings.Builder
	if selected {
		b.WriteString("> ")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(strings.Repeat(" ", e.depth*m.cfg.IndentWidth))
	if m.cfg.Icons {
		b.WriteString(iconFor(e.node))
		b.WriteString(" ")
	}
	b.WriteString(e.node.Name)

	line := truncateToWidth(b.String(), width)
	if selected {
		line = selectedStyle.Render(line)
	}
	if e.node.ListErr != nil {
		line += " " + errStyle.Render(listErrMarker(e.node.ListErr))
	}
	return line
}

func iconFor(n *Node) string {
	switch n.Kind {
	case kindDir:
		if n.Expanded {
			return "📂"
		}
		return "📁"
	case kindInaccessible:
		return "🔒"
	default:
		return "📄"
	}
}

func listErrMarker(err error) string {
	switch {
	case isPermission(err):
		return "[permission denied]"
	case isNotFound(err):
		return "[not found]"
	default:
		return "[unreadable]"
	}
}

// truncateToWidth truncates a string to fit within the given visual width,
// respecting Unicode character boundaries.
func truncateToWidth(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) > maxWidth {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}
