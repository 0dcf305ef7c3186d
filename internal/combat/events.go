package combat

import (
	"gladiators/internal/arena"
	"gladiators/internal/logging"
)

// AttackEvent is emitted by the scheduler when an attack timer expires.
// Damage is the attacker's power at that moment.
type AttackEvent struct {
	Attacker arena.Handle
	Target   arena.Handle
	Damage   float64
}

// DeathEvent is emitted by the resolver when a target's health drops below
// zero. XP is the victor's award at the time of the kill.
type DeathEvent struct {
	Victor arena.Handle
	Slain  arena.Handle
	XP     float64
}

// Queues holds the per-tick messages passed between stages. Reset truncates
// both queues and keeps their capacity.
type Queues struct {
	Attacks []AttackEvent
	Deaths  []DeathEvent
}

func (q *Queues) Reset() {
	q.Attacks = q.Attacks[:0]
	q.Deaths = q.Deaths[:0]
}

// Ref describes an agent for structured logging.
func Ref(a *arena.Agent) logging.EntityRef {
	if a == nil {
		return logging.EntityRef{Kind: logging.EntityKindUnknown}
	}
	kind := logging.EntityKindGladiator
	if a.Player {
		kind = logging.EntityKindPlayer
	}
	return logging.EntityRef{ID: a.Handle.String(), Kind: kind}
}

// HandleRef describes an agent that may no longer exist.
func HandleRef(h arena.Handle) logging.EntityRef {
	return logging.EntityRef{ID: h.String(), Kind: logging.EntityKindGladiator}
}
