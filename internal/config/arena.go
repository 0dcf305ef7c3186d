package config

import (
	"errors"
	"fmt"
)

const (
	DefaultWidth      = 1280.0
	DefaultHeight     = 720.0
	DefaultDivisions  = 16
	DefaultTick       = 1.0 / 60.0
	// MinTick keeps a paced run's ticker period at a millisecond or more.
	MinTick = 0.001
	DefaultBaseSpeed  = 4.0
	DefaultAttackStep = 1.0
	DefaultPopulation = 40
	DefaultTicks      = 60 * 60

	DefaultAwardFormula     = "xp + 2 ** level"
	DefaultThresholdFormula = "3 ** level"
)

type Config struct {
	Arena      ArenaConfig    `yaml:"arena" json:"arena"`
	Tick       float64        `yaml:"tick" json:"tick" jsonschema:"description=Simulation step in seconds"`
	Ticks      int            `yaml:"ticks" json:"ticks" jsonschema:"description=Ticks per headless run"`
	Population int            `yaml:"population" json:"population"`
	Seed       int64          `yaml:"seed" json:"seed"`
	Player     PlayerConfig   `yaml:"player" json:"player"`
	Combat     CombatConfig   `yaml:"combat" json:"combat"`
	Leveling   LevelingConfig `yaml:"leveling" json:"leveling"`
	Wander     WanderConfig   `yaml:"wander" json:"wander"`
	Respawn    RespawnConfig  `yaml:"respawn" json:"respawn"`
}

type ArenaConfig struct {
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
	Divisions int     `yaml:"divisions" json:"divisions" jsonschema:"description=Horizontal grid divisions"`
}

type PlayerConfig struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Class   string  `yaml:"class" json:"class" jsonschema:"enum=archer,enum=mage,enum=fighter"`
	Health  float64 `yaml:"health" json:"health" jsonschema:"description=Overrides the class health when positive"`
	X       float64 `yaml:"x" json:"x"`
	Y       float64 `yaml:"y" json:"y"`
}

type CombatConfig struct {
	// ClampDamage floors attack-minus-defense at zero so defense cannot heal.
	ClampDamage bool    `yaml:"clamp_damage" json:"clamp_damage"`
	AttackStep  float64 `yaml:"attack_step" json:"attack_step"`
	BaseSpeed   float64 `yaml:"base_speed" json:"base_speed"`
}

type LevelingConfig struct {
	Award     string `yaml:"award" json:"award" jsonschema:"description=Expression over level and xp giving the award a kill grants"`
	Threshold string `yaml:"threshold" json:"threshold" jsonschema:"description=Expression over level giving the xp needed to level up"`
}

type WanderConfig struct {
	Bias     float64 `yaml:"bias" json:"bias"`
	Baseline float64 `yaml:"baseline" json:"baseline"`
	Script   string  `yaml:"script" json:"script,omitempty"`
}

type RespawnConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Min     int  `yaml:"min" json:"min"`
}

func Default() Config {
	return Config{
		Arena:      ArenaConfig{Width: DefaultWidth, Height: DefaultHeight, Divisions: DefaultDivisions},
		Tick:       DefaultTick,
		Ticks:      DefaultTicks,
		Population: DefaultPopulation,
		Seed:       12345,
		Player:     PlayerConfig{Enabled: true, Class: "mage", Health: 999},
		Combat:     CombatConfig{AttackStep: DefaultAttackStep, BaseSpeed: DefaultBaseSpeed},
		Leveling:   LevelingConfig{Award: DefaultAwardFormula, Threshold: DefaultThresholdFormula},
		Wander:     WanderConfig{Bias: 100, Baseline: 1},
	}
}

// Normalized fills zero values with defaults.
func (c Config) Normalized() Config {
	d := Default()
	if c.Arena.Width <= 0 {
		c.Arena.Width = d.Arena.Width
	}
	if c.Arena.Height <= 0 {
		c.Arena.Height = d.Arena.Height
	}
	if c.Arena.Divisions <= 0 {
		c.Arena.Divisions = d.Arena.Divisions
	}
	if c.Tick <= 0 {
		c.Tick = d.Tick
	}
	if c.Ticks <= 0 {
		c.Ticks = d.Ticks
	}
	if c.Population < 0 {
		c.Population = 0
	}
	if c.Player.Class == "" {
		c.Player.Class = d.Player.Class
	}
	if c.Combat.AttackStep <= 0 {
		c.Combat.AttackStep = d.Combat.AttackStep
	}
	if c.Combat.BaseSpeed <= 0 {
		c.Combat.BaseSpeed = d.Combat.BaseSpeed
	}
	if c.Leveling.Award == "" {
		c.Leveling.Award = d.Leveling.Award
	}
	if c.Leveling.Threshold == "" {
		c.Leveling.Threshold = d.Leveling.Threshold
	}
	if c.Wander.Bias <= 0 {
		c.Wander.Bias = d.Wander.Bias
	}
	if c.Wander.Baseline < 0 {
		c.Wander.Baseline = 0
	}
	if c.Respawn.Min <= 0 {
		c.Respawn.Min = c.Population / 2
	}
	return c
}

func (c Config) Validate() error {
	var errs []error
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena size must be positive, got %vx%v", c.Arena.Width, c.Arena.Height))
	}
	if c.Arena.Divisions <= 0 {
		errs = append(errs, fmt.Errorf("arena divisions must be positive, got %d", c.Arena.Divisions))
	}
	if c.Tick < MinTick {
		errs = append(errs, fmt.Errorf("tick must be at least %v, got %v", MinTick, c.Tick))
	}
	if c.Player.X < -c.Arena.Width/2 || c.Player.X > c.Arena.Width/2 ||
		c.Player.Y < -c.Arena.Height/2 || c.Player.Y > c.Arena.Height/2 {
		errs = append(errs, fmt.Errorf("player start (%v,%v) outside arena", c.Player.X, c.Player.Y))
	}
	return errors.Join(errs...)
}
