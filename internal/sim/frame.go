package sim

import (
	"gladiators/internal/arena"
	"gladiators/internal/combat"
)

// Sprite is what a renderer needs to draw one agent.
type Sprite struct {
	Handle    arena.Handle    `json:"handle"`
	Class     string          `json:"class"`
	Sprite    string          `json:"sprite,omitempty"`
	Player    bool            `json:"player,omitempty"`
	Pos       arena.Vec2      `json:"pos"`
	Facing    arena.Direction `json:"facing"`
	Activity  arena.Activity  `json:"activity"`
	Health    float64         `json:"health"`
	MaxHealth float64         `json:"max_health"`
	Level     int             `json:"level"`
}

// Bout is a live engagement as of the frame's tick.
type Bout struct {
	A     arena.Handle `json:"a"`
	B     arena.Handle `json:"b"`
	Since uint64       `json:"since"`
}

// Frame is a read-only snapshot of the arena after a tick.
type Frame struct {
	Tick    uint64   `json:"tick"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Sprites []Sprite `json:"sprites"`
	Bouts   []Bout   `json:"bouts,omitempty"`
}

func (s *Sim) Frame() Frame {
	f := Frame{
		Tick:    s.env.Tick,
		Width:   s.cfg.Arena.Width,
		Height:  s.cfg.Arena.Height,
		Sprites: make([]Sprite, 0, s.store.Len()),
	}
	s.store.Each(func(a *arena.Agent) {
		f.Sprites = append(f.Sprites, Sprite{
			Handle:    a.Handle,
			Class:     a.Class.String(),
			Sprite:    a.Sprite,
			Player:    a.Player,
			Pos:       a.Pos,
			Facing:    a.Facing,
			Activity:  a.Activity,
			Health:    max(a.Health, 0),
			MaxHealth: a.MaxHealth,
			Level:     a.Level.Level,
		})
	})
	for _, e := range s.reg.All() {
		if e.State != combat.End {
			f.Bouts = append(f.Bouts, Bout{A: e.A, B: e.B, Since: e.Since})
		}
	}
	return f
}
