package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user-facing options read from the YAML config file.
// Command-line flags override whatever is loaded here.
type Config struct {
	// ShowHidden includes dotfiles in listings.
	ShowHidden bool `yaml:"show_hidden"`
	// RespectGitignore filters entries matched by the start directory's
	// .gitignore file.
	RespectGitignore bool `yaml:"respect_gitignore"`
	// Icons toggles the emoji file-type icons in front of entry names.
	Icons bool `yaml:"icons"`
	// IndentWidth is the number of spaces per tree level.
	IndentWidth int `yaml:"indent_width"`
}

func defaultConfig() Config {
	return Config{
		ShowHidden:       false,
		RespectGitignore: true,
		Icons:            true,
		IndentWidth:      2,
	}
}

// defaultConfigPath is the per-user config location, or "" when the user
// config directory cannot be resolved.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "navl", "config.yaml")
}

// loadConfig reads the config file at path. A missing file (or empty path)
// yields the defaults; a present but unreadable or malformed file is an
// error so typos don't silently fall back.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.IndentWidth < 1 {
		cfg.IndentWidth = 1
	}
	return cfg, nil
}
