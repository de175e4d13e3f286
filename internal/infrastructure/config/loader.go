package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Rules *RulesConfig
	Tanks *TanksConfig
}

// Validate checks every loaded part
func (c *GameConfig) Validate() error {
	if c.Rules == nil || c.Tanks == nil {
		return fmt.Errorf("%w: rules and tanks are required", ErrInvalidConfig)
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	return c.Tanks.Validate()
}

// Loader loads game configuration from JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

func (l *Loader) readJSON(path string, v any) error {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadRules loads rules.json
func (l *Loader) LoadRules() (*RulesConfig, error) {
	var cfg RulesConfig
	if err := l.readJSON("rules.json", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadTanks loads tanks.json
func (l *Loader) LoadTanks() (*TanksConfig, error) {
	var cfg TanksConfig
	if err := l.readJSON("tanks.json", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLevel loads a level JSON file
func (l *Loader) LoadLevel(name string) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := l.readJSON("levels/"+name+".json", &cfg); err != nil {
		return nil, err
	}
	if cfg.ID == "" {
		cfg.ID = name
	}
	return &cfg, nil
}

// LevelNames lists the level files shipped with the config, in file order
func (l *Loader) LevelNames() ([]string, error) {
	matches, err := fs.Glob(l.fsys, "levels/*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[len("levels/") : len(m)-len(".json")]
		names = append(names, name)
	}
	return names, nil
}

// LoadAll loads and validates all base configurations (rules, tanks)
func (l *Loader) LoadAll() (*GameConfig, error) {
	rules, err := l.LoadRules()
	if err != nil {
		return nil, err
	}

	tanks, err := l.LoadTanks()
	if err != nil {
		return nil, err
	}

	cfg := &GameConfig{
		Rules: rules,
		Tanks: tanks,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
