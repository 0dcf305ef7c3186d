package arena

import "math/rand"

// Intent is the player's per-axis movement request, each axis -1, 0 or +1.
type Intent struct {
	X, Y int
}

// Planner advances agent positions once per tick.
type Planner struct {
	geom   Geometry
	policy WanderPolicy
	rng    *rand.Rand
}

func NewPlanner(geom Geometry, policy WanderPolicy, rng *rand.Rand) *Planner {
	if policy == nil {
		policy = DefaultWander()
	}
	return &Planner{geom: geom, policy: policy, rng: rng}
}

// SetPolicy swaps the wander policy used from the next Plan call.
func (p *Planner) SetPolicy(policy WanderPolicy) {
	if policy != nil {
		p.policy = policy
	}
}

// Plan moves every unengaged agent one step and returns the cell transitions
// the grid must apply. Engaged agents hold their ground.
func (p *Planner) Plan(s *Store, intent Intent) []Transition {
	var out []Transition
	s.Each(func(a *Agent) {
		if _, engaged := s.PartnerOf(a); engaged {
			return
		}
		var dx, dy int
		if a.Player {
			dx, dy = unitAxis(intent.X), unitAxis(intent.Y)
		} else {
			a.Facing = Sample(p.rng, p.policy.Weights(a.Facing), a.Facing)
			dx, dy = a.Facing.Step()
		}
		if t, ok := p.step(a, dx, dy); ok {
			out = append(out, t)
		}
	})
	return out
}

func (p *Planner) step(a *Agent, dx, dy int) (Transition, bool) {
	dx, dy = Reflect(p.geom.Bounds(), a.Pos, dx, dy, a.Speed)
	if dx == 0 && dy == 0 {
		a.Activity = Idle
		return Transition{}, false
	}
	if d, ok := FromStep(dx, dy); ok {
		a.Facing = d
	}
	a.Activity = Walk

	from := p.geom.CellOf(a.Pos.X, a.Pos.Y)
	a.Pos = a.Pos.Add(Vec2{X: float64(dx), Y: float64(dy)}.Scale(a.Speed))
	to := p.geom.CellOf(a.Pos.X, a.Pos.Y)
	if from == to {
		return Transition{}, false
	}
	return Transition{Handle: a.Handle, From: from, To: to}, true
}

// Reflect turns a step that would leave the arena back inward. The offending
// axis is forced to point at the interior regardless of the requested step.
func Reflect(b Bounds, pos Vec2, dx, dy int, speed float64) (int, int) {
	nx := pos.X + float64(dx)*speed
	ny := pos.Y + float64(dy)*speed
	if nx < -b.HalfW || pos.X < -b.HalfW {
		dx = 1
	} else if nx > b.HalfW || pos.X > b.HalfW {
		dx = -1
	}
	if ny < -b.HalfH || pos.Y < -b.HalfH {
		dy = 1
	} else if ny > b.HalfH || pos.Y > b.HalfH {
		dy = -1
	}
	return dx, dy
}

func unitAxis(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
