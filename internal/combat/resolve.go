package combat

import (
	"context"
	"log/slog"

	"gladiators/internal/arena"
	"gladiators/internal/logging"
	logcombat "gladiators/internal/logging/combat"
)

// Resolver applies queued attacks to their targets.
type Resolver struct {
	Leveling Leveling
	// ClampDamage floors damage taken at zero so defense cannot heal.
	ClampDamage bool
	Pub         logging.Publisher
	Logger      *slog.Logger

	slain map[arena.Handle]struct{}
}

func NewResolver(leveling Leveling, clamp bool, pub logging.Publisher, logger *slog.Logger) *Resolver {
	if leveling == nil {
		leveling = DefaultLeveling()
	}
	if pub == nil {
		pub = logging.NopPublisher()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		Leveling:    leveling,
		ClampDamage: clamp,
		Pub:         pub,
		Logger:      logger,
		slain:       make(map[arena.Handle]struct{}),
	}
}

// Resolve consumes attacks in emission order and appends a DeathEvent for
// every target whose health falls below zero. A target is reported dead at
// most once per call. Attacks whose target is gone are skipped.
func (r *Resolver) Resolve(ctx context.Context, tick uint64, s *arena.Store, attacks []AttackEvent, out []DeathEvent) []DeathEvent {
	clear(r.slain)
	for _, ev := range attacks {
		target, ok := s.Get(ev.Target)
		if !ok {
			r.Logger.Debug("resolve: skipping attack on missing target",
				"attacker", ev.Attacker.String(), "target", ev.Target.String())
			continue
		}
		taken := ev.Damage - target.Defense
		if r.ClampDamage && taken < 0 {
			taken = 0
		}
		target.Health -= taken

		attacker, attackerOK := s.Get(ev.Attacker)
		actor := HandleRef(ev.Attacker)
		if attackerOK {
			actor = Ref(attacker)
		}
		logcombat.Damage(ctx, r.Pub, tick, actor, Ref(target), logcombat.DamagePayload{Amount: taken, TargetHealth: target.Health})

		if _, dead := r.slain[ev.Target]; dead {
			continue
		}
		if !target.Dying() {
			if taken > 0 {
				target.Activity = arena.Hurt
			}
			continue
		}
		r.slain[ev.Target] = struct{}{}
		target.Activity = arena.Dead
		xp := 0.0
		if attackerOK {
			xp = r.Leveling.Award(attacker.Level.Level, attacker.Level.XP)
		}
		out = append(out, DeathEvent{Victor: ev.Attacker, Slain: ev.Target, XP: xp})
		logcombat.Defeat(ctx, r.Pub, tick, actor, Ref(target), logcombat.DefeatPayload{XP: xp})
	}
	return out
}
