package arena

import "math"

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Bounds is the arena rectangle centred on the origin.
type Bounds struct {
	HalfW, HalfH float64
}

func (b Bounds) Contains(p Vec2) bool {
	return p.X >= -b.HalfW && p.X <= b.HalfW && p.Y >= -b.HalfH && p.Y <= b.HalfH
}
