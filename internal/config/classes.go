package config

import (
	"errors"
	"fmt"
)

type ClassesConfig struct {
	Classes []ClassDef `yaml:"classes" json:"classes"`
}

// ClassDef is the per-class stat profile. Speed and attack interval are
// expressed as scales of the combat base values.
type ClassDef struct {
	ID           string   `yaml:"id" json:"id" jsonschema:"enum=archer,enum=mage,enum=fighter"`
	Health       float64  `yaml:"health" json:"health"`
	Attack       float64  `yaml:"attack" json:"attack"`
	Defense      float64  `yaml:"defense" json:"defense"`
	SpeedScale   float64  `yaml:"speed_scale" json:"speed_scale"`
	AttackScale  float64  `yaml:"attack_scale" json:"attack_scale" jsonschema:"description=Multiplier on combat.attack_step"`
	XPMultiplier float64  `yaml:"xp_multiplier" json:"xp_multiplier"`
	AttackAnim   string   `yaml:"attack_anim" json:"attack_anim" jsonschema:"enum=sword,enum=bow,enum=staff"`
	Sprites      []string `yaml:"sprites" json:"sprites,omitempty"`
	Note         string   `yaml:"note" json:"note,omitempty"`
}

// Validate rejects stat blocks that would spawn an agent already slain or
// let a class heal its target by attacking.
func (c ClassesConfig) Validate() error {
	var errs []error
	for i, def := range c.Classes {
		name := def.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if def.Health <= 0 {
			errs = append(errs, fmt.Errorf("class %s: health must be positive, got %v", name, def.Health))
		}
		if def.Attack < 0 {
			errs = append(errs, fmt.Errorf("class %s: attack must not be negative, got %v", name, def.Attack))
		}
		if def.Defense < 0 {
			errs = append(errs, fmt.Errorf("class %s: defense must not be negative, got %v", name, def.Defense))
		}
		if def.SpeedScale < 0 || def.AttackScale < 0 {
			errs = append(errs, fmt.Errorf("class %s: scales must not be negative, got speed %v attack %v", name, def.SpeedScale, def.AttackScale))
		}
		if def.XPMultiplier < 0 {
			errs = append(errs, fmt.Errorf("class %s: xp_multiplier must not be negative, got %v", name, def.XPMultiplier))
		}
	}
	return errors.Join(errs...)
}

func DefaultClasses() ClassesConfig {
	return ClassesConfig{Classes: []ClassDef{
		{
			ID: "archer", Health: 10, Attack: 2, Defense: 0.2,
			SpeedScale: 1.2, AttackScale: 1.1, XPMultiplier: 1.0, AttackAnim: "bow",
			Sprites: []string{"Archer-Green.png", "Archer-Purple.png"},
		},
		{
			ID: "mage", Health: 8, Attack: 1, Defense: 0.1,
			SpeedScale: 0.8, AttackScale: 1.2, XPMultiplier: 1.1, AttackAnim: "staff",
			Sprites: []string{"Mage-Cyan.png"},
		},
		{
			ID: "fighter", Health: 15, Attack: 1, Defense: 0.5,
			SpeedScale: 1.0, AttackScale: 1.0, XPMultiplier: 0.9, AttackAnim: "sword",
			Sprites: []string{"Soldier-Blue.png", "Soldier-Red.png", "Soldier-Yellow.png"},
		},
	}}
}
