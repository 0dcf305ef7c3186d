package combat

import (
	"context"

	"gladiators/internal/logging"
)

const (
	// EventEngaged is emitted when two gladiators are paired in a cell.
	EventEngaged logging.EventType = "combat.engaged"
	// EventAttack is emitted when an attack timer expires.
	EventAttack logging.EventType = "combat.attack"
	// EventDamage is emitted when an attack lands on a live target.
	EventDamage logging.EventType = "combat.damage"
	// EventDefeat is emitted when a target's health drops below zero.
	EventDefeat logging.EventType = "combat.defeat"
)

// EngagedPayload records where the pairing happened.
type EngagedPayload struct {
	CellX int `json:"cellX"`
	CellY int `json:"cellY"`
}

// AttackPayload snapshots the attacker's power when the attack was scheduled.
type AttackPayload struct {
	Damage float64 `json:"damage"`
}

// DamagePayload captures what the target actually lost.
type DamagePayload struct {
	Amount       float64 `json:"amount"`
	TargetHealth float64 `json:"targetHealth"`
}

// DefeatPayload carries the experience award owed to the victor.
type DefeatPayload struct {
	XP float64 `json:"xp"`
}

func Engaged(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload EngagedPayload) {
	publish(ctx, pub, EventEngaged, logging.SeverityDebug, tick, actor, target, payload)
}

func Attack(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload AttackPayload) {
	publish(ctx, pub, EventAttack, logging.SeverityDebug, tick, actor, target, payload)
}

func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload DamagePayload) {
	publish(ctx, pub, EventDamage, logging.SeverityDebug, tick, actor, target, payload)
}

// Defeat publishes the fatal blow. Actor is the victor.
func Defeat(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload DefeatPayload) {
	publish(ctx, pub, EventDefeat, logging.SeverityInfo, tick, actor, target, payload)
}

func publish(ctx context.Context, pub logging.Publisher, typ logging.EventType, sev logging.Severity, tick uint64, actor, target logging.EntityRef, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     typ,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: sev,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
