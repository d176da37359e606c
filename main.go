// navl — interactive file-tree picker for the terminal.
//
// All UI rendering goes to stderr; on select, the chosen path is the only
// thing written to stdout, so `cd "$(navl)"` works from a shell.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	var (
		showHidden = flag.Bool("hidden", false, "Show hidden files (dotfiles)")
		noIgnore   = flag.Bool("no-ignore", false, "Do not filter entries matched by .gitignore")
		configPath = flag.String("config", defaultConfigPath(), "Path to the config file")
		debug      = flag.Bool("debug", false, "Enable debug logging to navl-debug.log")
	)
	flag.Parse()

	if *debug {
		f, err := tea.LogToFile("navl-debug.log", "navl")
		if err != nil {
			fmt.Fprintf(os.Stderr, "navl: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
	} else {
		// the terminal belongs to the UI; stray log output would corrupt it
		log.SetOutput(io.Discard)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "navl: %v\n", err)
		os.Exit(1)
	}
	if *showHidden {
		cfg.ShowHidden = true
	}
	if *noIgnore {
		cfg.RespectGitignore = false
	}

	start := flag.Arg(0)
	if start == "" {
		start = "."
	}
	root, err := resolveStart(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "navl: %v\n", err)
		os.Exit(1)
	}

	tree := newTree(newDirLister(root, cfg.ShowHidden, cfg.RespectGitignore), root)
	m := newModel(tree, cfg)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "navl: %v\n", err)
		os.Exit(1)
	}
	if fm, ok := final.(*model); ok && fm.state == stateSelected {
		fmt.Println(fm.selected)
	}
}

// resolveStart turns the start argument into an absolute path and verifies
// it names an existing directory.
func resolveStart(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", path, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return abs, nil
}
