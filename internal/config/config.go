// Package config loads the engine's runtime profile from a TOML file:
// transposition-table size, opening-book path, time-management
// coefficients, and the search's node-check interval. Config is read once
// at process start and never mutated by a running search.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the engine's top-level runtime configuration.
type Config struct {
	TT     TTConfig     `toml:"tt"`
	Book   BookConfig   `toml:"book"`
	Time   TimeConfig   `toml:"time"`
	Search SearchConfig `toml:"search"`
}

// TTConfig sizes the transposition table.
type TTConfig struct {
	SizeMiB int `toml:"size_mib"`
}

// BookConfig locates the Polyglot opening book image.
type BookConfig struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// TimeConfig holds the time-allocation coefficients, rather than
// hard-coding them in the search package.
type TimeConfig struct {
	MovesToGoDefault   int     `toml:"moves_to_go_default"`
	IncrementFraction  float64 `toml:"increment_fraction"`
	SafetyMarginMillis int     `toml:"safety_margin_millis"`
}

// SearchConfig tunes the node-check cadence the searcher uses to bound
// clock-check overhead: the clock is consulted once every N nodes.
type SearchConfig struct {
	NodeCheckInterval int `toml:"node_check_interval"`
}

// Default returns the engine's built-in configuration, used whenever no
// file is supplied or Load fails to find one.
func Default() Config {
	return Config{
		TT:   TTConfig{SizeMiB: 512},
		Book: BookConfig{Path: "", Enabled: false},
		Time: TimeConfig{
			MovesToGoDefault:   30,
			IncrementFraction:  0.75,
			SafetyMarginMillis: 50,
		},
		Search: SearchConfig{NodeCheckInterval: 2048},
	}
}

// Load reads and decodes a TOML configuration file, starting from Default
// so a partial file only overrides the fields it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
	}
	return cfg, nil
}
