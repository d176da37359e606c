package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func fixtureModel() *model {
	m := newModel(newTree(fixtureLister(), "/tmp/x"), defaultConfig())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStartupPreExpandsRoot(t *testing.T) {
	m := fixtureModel()

	paths, _ := pathsAndDepths(m.visible)
	want := []string{"/tmp/x", "/tmp/x/a", "/tmp/x/b.txt"}
	if len(paths) != len(want) {
		t.Fatalf("startup projection = %v; want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("startup projection = %v; want %v", paths, want)
		}
	}
	if m.cursor != 0 {
		t.Fatalf("startup cursor = %d; want 0", m.cursor)
	}
}

func TestMoveCursorClamps(t *testing.T) {
	m := fixtureModel()

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Fatalf("up at top: cursor = %d; want 0", m.cursor)
	}
	for i := 0; i < 10; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(m.visible)-1 {
		t.Fatalf("down past bottom: cursor = %d; want %d", m.cursor, len(m.visible)-1)
	}
	// vim keys drive the same transitions
	m.Update(keyRune('k'))
	if m.cursor != len(m.visible)-2 {
		t.Fatalf("k: cursor = %d; want %d", m.cursor, len(m.visible)-2)
	}
}

func TestExpandRightKeepsCursorOnNode(t *testing.T) {
	m := fixtureModel()
	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // onto a/
	a := m.current()

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !a.Expanded {
		t.Fatal("right should expand a collapsed directory")
	}
	if m.current() != a {
		t.Fatalf("cursor moved to %s; want it to stay on %s", m.current().Path, a.Path)
	}
	paths, _ := pathsAndDepths(m.visible)
	if len(paths) != 4 || paths[2] != "/tmp/x/a/c.txt" {
		t.Fatalf("projection after expand = %v", paths)
	}

	// right on an already-expanded directory is a no-op
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.current() != a || len(m.visible) != 4 {
		t.Fatal("right on expanded directory should be a no-op")
	}
}

func TestLeftCollapsesExpandedDir(t *testing.T) {
	m := fixtureModel()
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	a := m.current()

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if a.Expanded {
		t.Fatal("left should collapse an expanded directory")
	}
	if m.current() != a {
		t.Fatalf("cursor should stay on the collapsed node, got %s", m.current().Path)
	}
}

func TestLeftMovesToParentOnLeaf(t *testing.T) {
	m := fixtureModel()
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // onto c.txt
	a := m.visible[1].node

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.current() != a {
		t.Fatalf("left on a file should move to its parent; cursor on %s", m.current().Path)
	}
	if !a.Expanded {
		t.Fatal("moving to the parent must not change its expansion state")
	}

	// left on the root (no parent, not expanded after collapse) is safe
	m.Update(tea.KeyMsg{Type: tea.KeyLeft}) // collapses a
	m.Update(tea.KeyMsg{Type: tea.KeyLeft}) // moves to root
	if m.current() != m.tree.root {
		t.Fatalf("cursor should be on root, got %s", m.current().Path)
	}
}

func TestCollapseAncestorMovesCursorToAncestor(t *testing.T) {
	m := fixtureModel()
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	a := m.current()
	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // cursor inside a's subtree

	m.tree.Collapse(a)
	m.reproject(a)

	if m.current() != a {
		t.Fatalf("collapsing an ancestor should land the cursor on it; got %s", m.current().Path)
	}
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		t.Fatalf("cursor %d out of bounds after ancestor collapse", m.cursor)
	}
}

func TestToggleCollapsesAndExpands(t *testing.T) {
	m := fixtureModel()
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	a := m.current()

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !a.Expanded || m.current() != a {
		t.Fatal("toggle should expand and keep the cursor")
	}
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if a.Expanded || m.current() != a {
		t.Fatal("toggle should collapse and keep the cursor")
	}

	// toggle on a file is a no-op
	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // onto b.txt
	before := len(m.visible)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if len(m.visible) != before {
		t.Fatal("toggle on a file should not change the projection")
	}
}

func TestSelectRecordsPathAndQuits(t *testing.T) {
	m := fixtureModel()
	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // onto a/

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateSelected {
		t.Fatalf("state = %v; want stateSelected", m.state)
	}
	if m.selected != "/tmp/x/a" {
		t.Fatalf("selected = %q; want /tmp/x/a", m.selected)
	}
	if cmd == nil {
		t.Fatal("select must end the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("select should return tea.Quit")
	}
}

func TestQuitRecordsNothing(t *testing.T) {
	m := fixtureModel()

	_, cmd := m.Update(keyRune('q'))
	if m.state != stateQuit {
		t.Fatalf("state = %v; want stateQuit", m.state)
	}
	if m.selected != "" {
		t.Fatalf("quit must not record a path, got %q", m.selected)
	}
	if cmd == nil {
		t.Fatal("quit must end the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quit should return tea.Quit")
	}
}

func TestUnknownKeyIsNoOp(t *testing.T) {
	m := fixtureModel()
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	cursor, length := m.cursor, len(m.visible)

	m.Update(keyRune('x'))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if m.state != stateBrowsing || m.cursor != cursor || len(m.visible) != length {
		t.Fatal("unrecognized input must leave the model unchanged")
	}
}

func TestSelectRootWhenListingFails(t *testing.T) {
	l := &fakeLister{errs: map[string]error{"/tmp/x": fs.ErrPermission}}
	m := newModel(newTree(l, "/tmp/x"), defaultConfig())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})

	if len(m.visible) != 1 || m.cursor != 0 {
		t.Fatalf("errored root: visible=%d cursor=%d; want 1, 0", len(m.visible), m.cursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateSelected || m.selected != "/tmp/x" {
		t.Fatal("an inaccessible root must still be selectable")
	}
}

func TestViewportFollowsCursor(t *testing.T) {
	entries := make([]Entry, 20)
	for i := range entries {
		entries[i] = Entry{Name: string(rune('a'+i)) + ".txt"}
	}
	l := &fakeLister{entries: map[string][]Entry{"/big": entries}}
	m := newModel(newTree(l, "/big"), defaultConfig())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 6}) // 4 content rows

	for i := 0; i < 12; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	vh := m.viewHeight()
	if m.cursor < m.offset || m.cursor >= m.offset+vh {
		t.Fatalf("cursor %d outside viewport [%d,%d)", m.cursor, m.offset, m.offset+vh)
	}
	for i := 0; i < 12; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.cursor != 0 || m.offset != 0 {
		t.Fatalf("after scrolling back up: cursor=%d offset=%d; want 0,0", m.cursor, m.offset)
	}

	// shrinking the window only recomputes the viewport, never the tree
	before := len(m.visible)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if len(m.visible) != before {
		t.Fatal("resize must not touch the projection")
	}
	if m.cursor < m.offset || m.cursor >= m.offset+m.viewHeight() {
		t.Fatal("viewport invariant lost after resize")
	}
}

func TestRefreshKeyRebuildsTree(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "one.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	m := newModel(newTree(newDirLister(tmp, false, false), tmp), defaultConfig())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	if err := os.WriteFile(filepath.Join(tmp, "two.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	m.Update(keyRune('r'))

	paths, _ := pathsAndDepths(m.visible)
	if len(paths) != 3 {
		t.Fatalf("after refresh projection = %v; want root plus two files", paths)
	}
	if m.cursor != 0 || m.offset != 0 {
		t.Fatalf("refresh should reset cursor/offset, got %d/%d", m.cursor, m.offset)
	}
}
