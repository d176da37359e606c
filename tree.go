package main

import (
	"bufio"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// --------------------------- Data model ---------------------------

type nodeKind int

const (
	kindFile nodeKind = iota
	kindDir
	kindInaccessible
)

// Node is one filesystem entry in the in-memory tree. Children is nil until
// the first expansion fetches it (loaded reports whether that has happened);
// an empty directory keeps loaded=true with a zero-length slice.
type Node struct {
	Path     string
	Name     string
	Kind     nodeKind
	Expanded bool
	Children []*Node
	Parent   *Node // non-owning, used for collapse-to-parent navigation
	ListErr  error

	loaded bool
}

// IsDir reports whether the node was a directory at creation time. An
// inaccessible node is still a directory on disk but behaves as a leaf here.
func (n *Node) IsDir() bool { return n.Kind == kindDir }

// Entry is one item of a directory listing as produced by a Lister.
type Entry struct {
	Name  string
	IsDir bool
}

// Lister enumerates the children of a directory. Implementations return the
// entries unordered; the tree applies its own comparator.
type Lister interface {
	List(path string) ([]Entry, error)
}

// --------------------------- Filesystem adapter -------------------

// dirLister lists directories from the real filesystem, filtering dotfiles
// and gitignored entries according to its options.
type dirLister struct {
	root       string
	showHidden bool
	matcher    gitignore.Matcher // nil when gitignore filtering is off
}

func newDirLister(root string, showHidden, respectIgnore bool) *dirLister {
	l := &dirLister{root: root, showHidden: showHidden}
	if respectIgnore {
		l.matcher = loadIgnoreMatcher(root)
	}
	return l
}

// loadIgnoreMatcher reads .gitignore in the start directory, if present.
// Patterns apply to everything below the start directory; nested .gitignore
// files are not consulted.
func loadIgnoreMatcher(root string) gitignore.Matcher {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	var patterns []gitignore.Pattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}

func (l *dirLister) List(path string) ([]Entry, error) {
	ents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(ents))
	for _, e := range ents {
		name := e.Name()
		if !l.showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if l.ignored(filepath.Join(path, name), e.IsDir()) {
			continue
		}
		out = append(out, Entry{Name: name, IsDir: e.IsDir()})
	}
	sortEntries(out)
	return out, nil
}

// ignored reports whether the gitignore matcher excludes the given path.
// The .gitignore file itself stays visible.
func (l *dirLister) ignored(path string, isDir bool) bool {
	if l.matcher == nil {
		return false
	}
	if filepath.Base(path) == ".gitignore" {
		return false
	}
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	return l.matcher.Match(strings.Split(rel, string(os.PathSeparator)), isDir)
}

// sortEntries orders a listing: directories first, then case-insensitive by
// name, with a case-sensitive tiebreak so the order is deterministic.
func sortEntries(ents []Entry) {
	sort.SliceStable(ents, func(i, j int) bool {
		a, b := ents[i], ents[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if al != bl {
			return al < bl
		}
		return a.Name < b.Name
	})
}

// --------------------------- Tree ---------------------------------

// Tree owns the root node and mutates expansion state through its Lister.
type Tree struct {
	root   *Node
	lister Lister
}

func newTree(lister Lister, rootPath string) *Tree {
	name := filepath.Base(rootPath)
	if name == "/" || name == "." || name == "" {
		name = rootPath
	}
	return &Tree{
		root:   &Node{Path: rootPath, Name: name, Kind: kindDir},
		lister: lister,
	}
}

// Expand reveals a directory's children, fetching them on first use. Cached
// children are reused on re-expansion. A listing failure marks the node
// inaccessible and it behaves as a leaf from then on; expansion never fails
// the session.
func (t *Tree) Expand(n *Node) {
	if n.Kind != kindDir || n.Expanded {
		return
	}
	if !n.loaded {
		ents, err := t.lister.List(n.Path)
		if err != nil {
			n.Kind = kindInaccessible
			n.ListErr = err
			log.Printf("list %s: %v", n.Path, err)
			return
		}
		n.Children = make([]*Node, 0, len(ents))
		for _, e := range ents {
			kind := kindFile
			if e.IsDir {
				kind = kindDir
			}
			n.Children = append(n.Children, &Node{
				Path:   filepath.Join(n.Path, e.Name),
				Name:   e.Name,
				Kind:   kind,
				Parent: n,
			})
		}
		n.loaded = true
	}
	n.Expanded = true
}

// Collapse hides a directory's children. The cached listing is kept so
// re-expansion is cheap.
func (t *Tree) Collapse(n *Node) {
	if n.Kind != kindDir || !n.Expanded {
		return
	}
	n.Expanded = false
}

// Toggle expands a collapsed directory or collapses an expanded one. Files
// and inaccessible nodes are left alone.
func (t *Tree) Toggle(n *Node) {
	if n.Kind != kindDir {
		return
	}
	if n.Expanded {
		t.Collapse(n)
	} else {
		t.Expand(n)
	}
}

// Refresh rebuilds the tree from disk, re-listing every directory that was
// expanded and restoring the expanded set by path. Nodes that vanished from
// the filesystem simply drop out.
func (t *Tree) Refresh() {
	expanded := make(map[string]bool)
	collectExpanded(t.root, expanded)

	fresh := newTree(t.lister, t.root.Path)
	t.root = fresh.root
	if expanded[t.root.Path] {
		t.Expand(t.root)
	}
	t.restoreExpanded(t.root, expanded)
}

func collectExpanded(n *Node, into map[string]bool) {
	if n.Expanded {
		into[n.Path] = true
	}
	for _, c := range n.Children {
		collectExpanded(c, into)
	}
}

func (t *Tree) restoreExpanded(n *Node, expanded map[string]bool) {
	for _, c := range n.Children {
		if expanded[c.Path] {
			t.Expand(c)
			t.restoreExpanded(c, expanded)
		}
	}
}

// isPermission reports whether a listing error was an access failure, for
// the inaccessible marker in the view.
func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// isNotFound reports whether a listing error was a vanished path.
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// --------------------------- Projector ----------------------------

// visibleEntry pairs a node with its depth in the visible list.
type visibleEntry struct {
	node  *Node
	depth int
}

// visibleEntries flattens the expanded subset of the tree in DFS pre-order.
// The root is always visible at depth 0; a node's children follow it if and
// only if the node is expanded. Pure function of current tree state.
func visibleEntries(root *Node) []visibleEntry {
	var out []visibleEntry
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		out = append(out, visibleEntry{node: n, depth: depth})
		if n.Expanded {
			for _, c := range n.Children {
				walk(c, depth+1)
			}
		}
	}
	walk(root, 0)
	return out
}
