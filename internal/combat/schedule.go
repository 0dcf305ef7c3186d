package combat

import (
	"context"

	"gladiators/internal/arena"
	"gladiators/internal/logging"
	logcombat "gladiators/internal/logging/combat"
)

// Scheduler counts down attack timers of engaged agents.
type Scheduler struct {
	Engagements *Engagements
	Pub         logging.Publisher
}

func NewScheduler(reg *Engagements, pub logging.Publisher) *Scheduler {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Scheduler{Engagements: reg, Pub: pub}
}

// Schedule advances every engaged agent's timer by dt and appends an attack
// on its partner for each timer that expires. Agents are visited in store
// order so emission order is reproducible.
func (sc *Scheduler) Schedule(ctx context.Context, tick uint64, dt float64, s *arena.Store, out []AttackEvent) []AttackEvent {
	s.Each(func(a *arena.Agent) {
		partner, ok := s.PartnerOf(a)
		if !ok {
			return
		}
		if e, ok := sc.Engagements.Lookup(a.Handle, partner.Handle); ok && e.State == Start {
			e.State = Active
		}
		a.Activity = a.AttackActivity()
		a.AttackTimer -= dt
		if a.AttackTimer > 0 {
			return
		}
		a.AttackTimer = a.AttackInterval
		out = append(out, AttackEvent{Attacker: a.Handle, Target: partner.Handle, Damage: a.Attack})
		logcombat.Attack(ctx, sc.Pub, tick, Ref(a), Ref(partner), logcombat.AttackPayload{Damage: a.Attack})
	})
	return out
}
