package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// --------------------------- Key bindings -------------------------

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Select  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap for the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Toggle, k.Select, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap; the footer only uses the short form.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// --------------------------- Model --------------------------------

type sessionState int

const (
	stateBrowsing sessionState = iota
	stateSelected
	stateQuit
)

// model drives one browsing session: it owns the tree, the visible-list
// projection, and the cursor/viewport into it. One input event is processed
// to completion (mutate, reproject, clamp) before the next.
type model struct {
	tree *Tree
	cfg  Config

	visible []visibleEntry
	cursor  int
	offset  int // first visible-list index drawn on screen

	width  int
	height int

	keys keyMap
	help help.Model

	state    sessionState
	selected string // absolute path recorded on select
}

// newModel starts browsing with the root expanded one level and the cursor
// on the root entry.
func newModel(tree *Tree, cfg Config) *model {
	tree.Expand(tree.root)
	return &model{
		tree:    tree,
		cfg:     cfg,
		visible: visibleEntries(tree.root),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.state = stateQuit
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if len(m.visible) > 0 {
				m.selected = m.visible[m.cursor].node.Path
				m.state = stateSelected
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Right):
			m.expandCurrent()
		case key.Matches(msg, m.keys.Left):
			m.collapseOrParent()
		case key.Matches(msg, m.keys.Toggle):
			m.toggleCurrent()
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
		}
		// anything else is intentionally a no-op
		return m, nil
	}
	return m, nil
}

func (m *model) current() *Node {
	if len(m.visible) == 0 {
		return nil
	}
	return m.visible[m.cursor].node
}

func (m *model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor += delta
	m.clampCursor()
	m.ensureCursorVisible()
}

// expandCurrent expands a collapsed directory under the cursor. The cursor
// stays on the same node, which is now expanded.
func (m *model) expandCurrent() {
	n := m.current()
	if n == nil || !n.IsDir() || n.Expanded {
		return
	}
	m.tree.Expand(n)
	m.reproject(n)
}

// collapseOrParent collapses an expanded directory under the cursor, or, on
// a leaf or collapsed node, moves the cursor to the parent entry without
// touching the parent's expansion state.
func (m *model) collapseOrParent() {
	n := m.current()
	if n == nil {
		return
	}
	if n.IsDir() && n.Expanded {
		m.tree.Collapse(n)
		m.reproject(n)
		return
	}
	if n.Parent != nil {
		for i, e := range m.visible {
			if e.node == n.Parent {
				m.cursor = i
				m.ensureCursorVisible()
				return
			}
		}
	}
}

func (m *model) toggleCurrent() {
	n := m.current()
	if n == nil {
		return
	}
	m.tree.Toggle(n)
	m.reproject(n)
}

// refresh re-lists everything that was expanded and restarts the cursor at
// the top, mirroring the previous expansion state by path.
func (m *model) refresh() {
	m.tree.Refresh()
	m.visible = visibleEntries(m.tree.root)
	m.cursor = 0
	m.offset = 0
}

// reproject recomputes the visible list after a tree mutation and puts the
// cursor back on the given node. When the node vanished from the visible
// list (its ancestor collapsed) the cursor is clamped into bounds instead.
func (m *model) reproject(focus *Node) {
	m.visible = visibleEntries(m.tree.root)
	if focus != nil {
		for i, e := range m.visible {
			if e.node == focus {
				m.cursor = i
				m.clampCursor()
				m.ensureCursorVisible()
				return
			}
		}
	}
	m.clampCursor()
	m.ensureCursorVisible()
}

func (m *model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// viewHeight is the number of visible-list rows that fit on screen, after
// the header and footer lines.
func (m *model) viewHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// ensureCursorVisible keeps offset <= cursor < offset+viewHeight.
func (m *model) ensureCursorVisible() {
	vh := m.viewHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
	if maxOff := len(m.visible) - vh; m.offset > maxOff {
		m.offset = maxOff
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
