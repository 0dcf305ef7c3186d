package arena

import (
	"fmt"
	"strings"

	"gladiators/internal/config"
)

type Class int

const (
	Archer Class = iota
	Mage
	Fighter
)

func (c Class) String() string {
	switch c {
	case Archer:
		return "archer"
	case Mage:
		return "mage"
	case Fighter:
		return "fighter"
	}
	return "unknown"
}

func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "archer":
		return Archer, nil
	case "mage":
		return Mage, nil
	case "fighter", "soldier", "warrior":
		return Fighter, nil
	}
	return Fighter, fmt.Errorf("unknown class %q", s)
}

// ClassFromSprite picks a class from a cosmetic sprite name. Unrecognised
// sprites fight as Fighters.
func ClassFromSprite(sprite string) Class {
	lower := strings.ToLower(sprite)
	switch {
	case strings.Contains(lower, "archer"):
		return Archer
	case strings.Contains(lower, "mage"):
		return Mage
	}
	return Fighter
}

// Profile is the fixed stat block a class spawns with.
type Profile struct {
	Class          Class
	Health         float64
	Attack         float64
	Defense        float64
	Speed          float64
	AttackInterval float64
	XPMultiplier   float64
	AttackActivity Activity
	Sprites        []string
}

// ClassBook resolves class profiles. It is built once from configuration and
// read at spawn time only.
type ClassBook struct {
	byClass map[Class]Profile
}

func NewClassBook(cfg *config.ClassesConfig, combat config.CombatConfig) (*ClassBook, error) {
	cb := &ClassBook{byClass: map[Class]Profile{}}
	if cfg == nil {
		def := config.DefaultClasses()
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	baseSpeed := combat.BaseSpeed
	if baseSpeed <= 0 {
		baseSpeed = config.DefaultBaseSpeed
	}
	attackStep := combat.AttackStep
	if attackStep <= 0 {
		attackStep = config.DefaultAttackStep
	}
	for _, def := range cfg.Classes {
		class, err := ParseClass(def.ID)
		if err != nil {
			return nil, err
		}
		act, err := ParseActivity(def.AttackAnim)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", def.ID, err)
		}
		mul := def.XPMultiplier
		if mul <= 0 {
			mul = 1
		}
		cb.byClass[class] = Profile{
			Class:          class,
			Health:         def.Health,
			Attack:         def.Attack,
			Defense:        def.Defense,
			Speed:          baseSpeed * scaleOr1(def.SpeedScale),
			AttackInterval: attackStep * scaleOr1(def.AttackScale),
			XPMultiplier:   mul,
			AttackActivity: act,
			Sprites:        append([]string(nil), def.Sprites...),
		}
	}
	for _, c := range []Class{Archer, Mage, Fighter} {
		if _, ok := cb.byClass[c]; !ok {
			return nil, fmt.Errorf("class table missing %s", c)
		}
	}
	return cb, nil
}

func scaleOr1(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func (cb *ClassBook) Profile(c Class) Profile {
	return cb.byClass[c]
}

// Roster lists every sprite of every class in class order, used to cycle
// spawns through the cosmetic pool.
func (cb *ClassBook) Roster() []string {
	var out []string
	for _, c := range []Class{Fighter, Archer, Mage} {
		out = append(out, cb.byClass[c].Sprites...)
	}
	return out
}

// Instantiate builds a fresh agent of class c at pos.
func (cb *ClassBook) Instantiate(c Class, pos Vec2) Agent {
	p := cb.Profile(c)
	return Agent{
		Class:          c,
		Pos:            pos,
		Facing:         Down,
		Health:         p.Health,
		MaxHealth:      p.Health,
		Attack:         p.Attack,
		Defense:        p.Defense,
		Speed:          p.Speed,
		AttackInterval: p.AttackInterval,
		AttackTimer:    p.AttackInterval,
		Level:          Level{Level: 1, Multiplier: p.XPMultiplier},
		Activity:       Idle,
		attackActivity: p.AttackActivity,
	}
}
