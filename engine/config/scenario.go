// Package config loads simulation scenarios from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is the full description of one simulation run
type Scenario struct {
	Name     string  `yaml:"name"`
	TickRate float64 `yaml:"tick_rate"`
	Seed     uint64  `yaml:"seed"`
	LogLevel string  `yaml:"log_level"`

	Terrain Terrain     `yaml:"terrain"`
	Towers  []Placement `yaml:"towers"`
	Agents  Agents      `yaml:"agents"`

	// Targeting is an expr-lang expression over dist, dh, row, col, trow,
	// tcol and kind; lower scores are preferred. Empty means nearest.
	Targeting string `yaml:"targeting"`
	PathCache int    `yaml:"path_cache"`
	Search    string `yaml:"search"` // "astar" or "dijkstra"
}

// Terrain names a heightmap file or holds heights inline
type Terrain struct {
	File    string  `yaml:"file"`
	Heights [][]int `yaml:"heights"`
}

// Placement is a tower placed at scenario start
type Placement struct {
	Kind string `yaml:"kind"`
	Row  int    `yaml:"row"`
	Col  int    `yaml:"col"`
}

// Agents controls enemy spawning
type Agents struct {
	Cap           int         `yaml:"cap"`
	SpawnInterval uint64      `yaml:"spawn_interval"` // ticks
	Kinds         []AgentKind `yaml:"kinds"`
}

// AgentKind is the YAML form of an enemy kind
type AgentKind struct {
	Name   string  `yaml:"name"`
	Speed  float64 `yaml:"speed"`
	Health int     `yaml:"health"`
	Damage int     `yaml:"damage"`
}

// Default returns a small playable scenario: an 8x8 map of trenches and
// plateaus with a headquarters in the middle.
func Default() *Scenario {
	return &Scenario{
		Name:     "default",
		TickRate: 20,
		Seed:     5,
		LogLevel: "info",
		Terrain: Terrain{Heights: [][]int{
			{90, 0, 0, 0, 5, 5, 5, 5},
			{90, 90, 0, 90, 5, 40, 40, 5},
			{5, 90, 0, 90, 5, 40, 40, 5},
			{5, 90, 90, 90, 5, 5, 5, 5},
			{5, 5, 5, 5, 5, 5, 60, 5},
			{5, 30, 30, 5, 5, 5, 60, 5},
			{5, 30, 30, 5, 80, 80, 60, 5},
			{5, 5, 5, 5, 5, 5, 5, 5},
		}},
		Towers: []Placement{{Kind: "headquarters", Row: 3, Col: 3}},
		Agents: Agents{
			Cap:           80,
			SpawnInterval: 60,
			Kinds: []AgentKind{
				{Name: "basic", Speed: 1, Health: 10, Damage: 10},
				{Name: "runner", Speed: 2, Health: 6, Damage: 5},
				{Name: "giant", Speed: 0.5, Health: 40, Damage: 50},
			},
		},
		PathCache: 256,
		Search:    "astar",
	}
}

// Load reads a scenario file. Fields missing from the file keep their
// Default values; a relative terrain file is resolved against the
// scenario's directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Terrain.File != "" && !filepath.IsAbs(s.Terrain.File) {
		s.Terrain.File = filepath.Join(filepath.Dir(path), s.Terrain.File)
	}
	return s, nil
}

// Parse decodes and validates a scenario document. A document with its own
// terrain starts without the default map's towers.
func Parse(data []byte) (*Scenario, error) {
	var head struct {
		Terrain Terrain `yaml:"terrain"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	s := Default()
	if head.Terrain.File != "" || len(head.Terrain.Heights) > 0 {
		s.Terrain = Terrain{}
		s.Towers = nil
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	// A file that names a heightmap wins over inline heights
	if s.Terrain.File != "" {
		s.Terrain.Heights = nil
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports every invalid field
func (s *Scenario) Validate() error {
	var errs []error
	if s.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %v", s.TickRate))
	}
	if s.Terrain.File == "" && len(s.Terrain.Heights) == 0 {
		errs = append(errs, errors.New("terrain: need file or heights"))
	}
	if s.Agents.Cap < 0 {
		errs = append(errs, fmt.Errorf("agents.cap must not be negative, got %d", s.Agents.Cap))
	}
	for i, k := range s.Agents.Kinds {
		if k.Name == "" {
			errs = append(errs, fmt.Errorf("agents.kinds[%d]: missing name", i))
		}
		if k.Speed <= 0 {
			errs = append(errs, fmt.Errorf("agents.kinds[%d] %q: speed must be positive", i, k.Name))
		}
		if k.Health <= 0 {
			errs = append(errs, fmt.Errorf("agents.kinds[%d] %q: health must be positive", i, k.Name))
		}
		if k.Damage < 0 {
			errs = append(errs, fmt.Errorf("agents.kinds[%d] %q: damage must not be negative", i, k.Name))
		}
	}
	if s.PathCache < 0 {
		errs = append(errs, fmt.Errorf("path_cache must not be negative, got %d", s.PathCache))
	}
	switch strings.ToLower(s.Search) {
	case "", "astar", "dijkstra":
	default:
		errs = append(errs, fmt.Errorf("search: unknown mode %q", s.Search))
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid scenario: %w", errors.Join(errs...))
	}
	return nil
}

// ParseLevel maps a log level name to a slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
