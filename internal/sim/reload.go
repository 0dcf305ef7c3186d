package sim

import (
	"context"
	"errors"

	"gladiators/internal/arena"
	"gladiators/internal/config"
	logsystem "gladiators/internal/logging/system"
	"gladiators/internal/script"
)

// ErrRestartRequired reports an edit that only a new run can pick up.
var ErrRestartRequired = errors.New("arena settings apply on the next run")

func wanderPolicy(cfg config.WanderConfig) (arena.WanderPolicy, error) {
	if cfg.Script == "" {
		return arena.BiasedWander{Bias: cfg.Bias, Baseline: cfg.Baseline}, nil
	}
	return script.LoadWanderScript(cfg.Script, cfg.Bias, cfg.Baseline)
}

func (s *Sim) loadClasses(dir string) (*arena.ClassBook, error) {
	classesCfg, err := config.LoadClasses(dir)
	if err != nil {
		return nil, err
	}
	return arena.NewClassBook(classesCfg, s.cfg.Combat)
}

// Apply reloads only what the change touched. A new class table applies to
// later spawns and a new wander policy from the next tick. Arena document
// edits are rejected with ErrRestartRequired. On error nothing is swapped.
func (s *Sim) Apply(ctx context.Context, dir string, ch config.Change) error {
	var err error
	switch ch.Kind {
	case config.ChangeClasses:
		var cb *arena.ClassBook
		if cb, err = s.loadClasses(dir); err == nil {
			s.SetClasses(cb)
		}
	case config.ChangeScript:
		var policy arena.WanderPolicy
		if policy, err = wanderPolicy(s.cfg.Wander); err == nil {
			s.SetWander(policy)
		}
	default:
		err = ErrRestartRequired
	}
	s.reported(ctx, logsystem.ReloadPayload{Kind: ch.Kind.String(), Path: ch.Path}, err)
	return err
}

func (s *Sim) reported(ctx context.Context, payload logsystem.ReloadPayload, err error) {
	if err != nil {
		payload.Error = err.Error()
		logsystem.ReloadRejected(ctx, s.pub, s.env.Tick, payload)
		return
	}
	logsystem.Reloaded(ctx, s.pub, s.env.Tick, payload)
	s.logger.Info("sim: reloaded configuration", "kind", payload.Kind, "path", payload.Path, "tick", s.env.Tick)
}
