package combat

import (
	"context"
	"log/slog"

	"gladiators/internal/arena"
	"gladiators/internal/logging"
	loglifecycle "gladiators/internal/logging/lifecycle"
)

// Lifecycle rewards victors and removes the slain.
type Lifecycle struct {
	Engagements *Engagements
	Leveling    Leveling
	Pub         logging.Publisher
	Logger      *slog.Logger
}

func NewLifecycle(reg *Engagements, leveling Leveling, pub logging.Publisher, logger *slog.Logger) *Lifecycle {
	if leveling == nil {
		leveling = DefaultLeveling()
	}
	if pub == nil {
		pub = logging.NopPublisher()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{Engagements: reg, Leveling: leveling, Pub: pub, Logger: logger}
}

// Kill is a removed agent together with a snapshot of its killer taken after
// the reward. Victor is nil when the killer was already gone.
type Kill struct {
	Slain  arena.Agent
	Victor *arena.Agent
}

// Reap processes deaths in order. A victor still in the store gains the award
// scaled by its class multiplier and is released from its engagement, even
// when it is dying itself and will be reaped later in the same pass. The
// slain agent leaves the grid and the store together and its engagement is
// marked End. It returns the removed agents.
func (l *Lifecycle) Reap(ctx context.Context, tick uint64, s *arena.Store, g *arena.Grid, deaths []DeathEvent) []Kill {
	var kills []Kill
	for _, d := range deaths {
		slain, ok := s.Get(d.Slain)
		if !ok {
			l.Logger.Debug("lifecycle: slain agent already removed", "slain", d.Slain.String())
			continue
		}
		kill := Kill{Slain: *slain}
		if victor, ok := s.Get(d.Victor); ok && d.Victor != d.Slain {
			l.reward(ctx, tick, victor, d.XP)
			if victor.Partner == d.Slain {
				victor.Partner = arena.None
				victor.Activity = arena.Idle
			}
			snapshot := *victor
			kill.Victor = &snapshot
		}
		payload := loglifecycle.RemovedPayload{Class: slain.Class.String(), Level: slain.Level.Level}
		if e, ok := l.Engagements.End(d.Slain); ok {
			payload.BoutTicks = tick - e.Since
		}
		kills = append(kills, kill)
		l.remove(ctx, tick, s, g, slain, payload)
	}
	return kills
}

func (l *Lifecycle) reward(ctx context.Context, tick uint64, victor *arena.Agent, xp float64) {
	mul := victor.Level.Multiplier
	if mul <= 0 {
		mul = 1
	}
	threshold := l.Leveling.Threshold(victor.Level.Level)
	if GainXP(&victor.Level, xp*mul, threshold) {
		loglifecycle.LevelUp(ctx, l.Pub, tick, Ref(victor), loglifecycle.LevelUpPayload{Level: victor.Level.Level, XP: victor.Level.XP})
	}
}

func (l *Lifecycle) remove(ctx context.Context, tick uint64, s *arena.Store, g *arena.Grid, a *arena.Agent, payload loglifecycle.RemovedPayload) {
	h := a.Handle
	ref := Ref(a)
	cell := g.CellOf(a.Pos.X, a.Pos.Y)
	if !g.Remove(h, cell) {
		l.Logger.Warn("lifecycle: slain agent missing from its cell", "handle", h.String(), "cell_x", cell.X, "cell_y", cell.Y)
	}
	s.Remove(h)
	loglifecycle.Removed(ctx, l.Pub, tick, ref, payload)
}
