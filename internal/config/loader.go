package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ArenaFile   = "arena.yaml"
	ClassesFile = "classes.yaml"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadAll reads arena.yaml and classes.yaml from dir. Values are layered over
// the built-in defaults, so a document only needs the keys it changes.
func LoadAll(dir string) (*Config, *ClassesConfig, error) {
	cfg := Default()
	if err := loadYAML(filepath.Join(dir, ArenaFile), &cfg); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", ArenaFile, err)
	}
	classes, err := LoadClasses(dir)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Wander.Script != "" && !filepath.IsAbs(cfg.Wander.Script) {
		cfg.Wander.Script = filepath.Join(dir, cfg.Wander.Script)
	}
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, classes, nil
}

// LoadClasses reads only the class table. The watcher uses it to pick up
// balance edits without restarting a run.
func LoadClasses(dir string) (*ClassesConfig, error) {
	classes := DefaultClasses()
	if err := loadYAML(filepath.Join(dir, ClassesFile), &classes); err != nil {
		return nil, fmt.Errorf("load %s: %w", ClassesFile, err)
	}
	if err := classes.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ClassesFile, err)
	}
	return &classes, nil
}
