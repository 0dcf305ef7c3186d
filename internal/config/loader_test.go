package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadAllLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ArenaFile, `
arena:
  divisions: 8
population: 12
combat:
  clamp_damage: true
wander:
  script: wander.tengo
`)
	writeFile(t, dir, ClassesFile, `
classes:
  - id: archer
    health: 11
    attack: 2
    attack_anim: bow
  - id: mage
    health: 8
    attack: 1
    attack_anim: staff
  - id: fighter
    health: 20
    attack: 1
    attack_anim: sword
`)

	cfg, classes, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if cfg.Arena.Divisions != 8 {
		t.Fatalf("expected divisions 8, got %d", cfg.Arena.Divisions)
	}
	if cfg.Arena.Width != DefaultWidth || cfg.Arena.Height != DefaultHeight {
		t.Fatalf("expected default arena size, got %vx%v", cfg.Arena.Width, cfg.Arena.Height)
	}
	if cfg.Population != 12 {
		t.Fatalf("expected population 12, got %d", cfg.Population)
	}
	if !cfg.Combat.ClampDamage {
		t.Fatalf("expected clamp_damage to be read")
	}
	if cfg.Leveling.Award != DefaultAwardFormula {
		t.Fatalf("expected default award formula, got %q", cfg.Leveling.Award)
	}
	if want := filepath.Join(dir, "wander.tengo"); cfg.Wander.Script != want {
		t.Fatalf("expected script path %q, got %q", want, cfg.Wander.Script)
	}
	if len(classes.Classes) != 3 || classes.Classes[2].Health != 20 {
		t.Fatalf("unexpected classes: %+v", classes.Classes)
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	_, _, err := LoadAll(t.TempDir())
	if err == nil {
		t.Fatalf("expected error for empty config dir")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadAllRejectsPlayerOutsideArena(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ArenaFile, "player:\n  x: 5000\n")
	writeFile(t, dir, ClassesFile, "")
	if _, _, err := LoadAll(dir); err == nil {
		t.Fatalf("expected validation error for player outside arena")
	}
}

func TestNormalizedFillsZeroValues(t *testing.T) {
	got := Config{Population: 10}.Normalized()
	if got.Tick != DefaultTick {
		t.Fatalf("expected default tick, got %v", got.Tick)
	}
	if got.Arena.Divisions != DefaultDivisions {
		t.Fatalf("expected default divisions, got %d", got.Arena.Divisions)
	}
	if got.Respawn.Min != 5 {
		t.Fatalf("expected respawn min to default to half the population, got %d", got.Respawn.Min)
	}
	if got.Wander.Bias != 100 {
		t.Fatalf("expected default bias 100, got %v", got.Wander.Bias)
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestSchemasCoverBothDocuments(t *testing.T) {
	schemas, err := Schemas()
	if err != nil {
		t.Fatalf("Schemas returned error: %v", err)
	}
	for _, name := range []string{ArenaFile, ClassesFile} {
		s, ok := schemas[name]
		if !ok || s == nil {
			t.Fatalf("missing schema for %s", name)
		}
		if s.Title == "" {
			t.Fatalf("schema for %s has no title", name)
		}
	}
}

func TestLoadAllShippedAssets(t *testing.T) {
	dir := filepath.Join("..", "..", "assets")
	cfg, classes, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll(%s): %v", dir, err)
	}
	if cfg.Population != DefaultPopulation || cfg.Arena.Divisions != DefaultDivisions {
		t.Fatalf("unexpected shipped config: %+v", cfg)
	}
	if cfg.Wander.Script != filepath.Join(dir, "wander.tengo") {
		t.Fatalf("wander script not resolved against config dir: %q", cfg.Wander.Script)
	}
	if len(classes.Classes) != 3 {
		t.Fatalf("expected three classes, got %d", len(classes.Classes))
	}
}

func TestClassesValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ClassDef)
	}{
		{"zero health", func(d *ClassDef) { d.Health = 0 }},
		{"negative health", func(d *ClassDef) { d.Health = -1 }},
		{"negative attack", func(d *ClassDef) { d.Attack = -2 }},
		{"negative defense", func(d *ClassDef) { d.Defense = -0.5 }},
		{"negative speed scale", func(d *ClassDef) { d.SpeedScale = -1 }},
		{"negative attack scale", func(d *ClassDef) { d.AttackScale = -1 }},
		{"negative xp multiplier", func(d *ClassDef) { d.XPMultiplier = -0.1 }},
	}
	if err := DefaultClasses().Validate(); err != nil {
		t.Fatalf("default classes should validate: %v", err)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classes := DefaultClasses()
			tc.mutate(&classes.Classes[2])
			err := classes.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), "fighter") {
				t.Fatalf("error should name the class: %v", err)
			}
		})
	}
}

func TestLoadClassesRejectsNonPositiveHealth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ClassesFile, `
classes:
  - id: archer
    health: 10
    attack_anim: bow
  - id: mage
    health: 8
    attack_anim: staff
  - id: fighter
    health: -1
    attack_anim: sword
`)
	if _, err := LoadClasses(dir); err == nil {
		t.Fatalf("expected error for negative class health")
	}
	writeFile(t, dir, ArenaFile, "")
	if _, _, err := LoadAll(dir); err == nil {
		t.Fatalf("LoadAll accepted negative class health")
	}
}

func TestValidateRejectsSubMillisecondTick(t *testing.T) {
	cfg := Default()
	cfg.Tick = 1e-10
	if err := cfg.Normalized().Validate(); err == nil {
		t.Fatalf("expected error for tick below %v", MinTick)
	}
	cfg.Tick = MinTick
	if err := cfg.Normalized().Validate(); err != nil {
		t.Fatalf("tick of %v should validate: %v", MinTick, err)
	}
}
