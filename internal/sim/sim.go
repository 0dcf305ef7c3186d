package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"gladiators/internal/arena"
	"gladiators/internal/combat"
	"gladiators/internal/config"
	"gladiators/internal/logging"
	loglifecycle "gladiators/internal/logging/lifecycle"
	"gladiators/internal/util"
)

// Env is the clock and randomness shared by a run.
type Env struct {
	Tick  uint64
	Time  float64
	Delta float64
	Rng   *rand.Rand
}

type Options struct {
	Config  *config.Config
	Classes *arena.ClassBook
	// Wander overrides the configured wander policy.
	Wander arena.WanderPolicy
	Pub    logging.Publisher
	Logger *slog.Logger
	// Record keeps an event log for the Result.
	Record bool
}

// Sim owns the agent store and grid and runs the tick pipeline over them.
// It is not safe for concurrent use.
type Sim struct {
	cfg    config.Config
	env    Env
	pub    logging.Publisher
	logger *slog.Logger

	store   *arena.Store
	grid    *arena.Grid
	classes *arena.ClassBook
	player  arena.Handle

	planner   *arena.Planner
	reg       *combat.Engagements
	matcher   *combat.Matcher
	scheduler *combat.Scheduler
	resolver  *combat.Resolver
	lifecycle *combat.Lifecycle
	queues    combat.Queues

	spawnRng *rand.Rand
	roster   int
	stats    Stats
	rec      *recorder
}

func New(ctx context.Context, opts Options) (*Sim, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	classes := opts.Classes
	if classes == nil {
		var err error
		if classes, err = arena.NewClassBook(nil, cfg.Combat); err != nil {
			return nil, err
		}
	}
	leveling, err := combat.NewLeveling(cfg.Leveling)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Sim{
		cfg:      cfg,
		env:      Env{Delta: cfg.Tick, Rng: util.Derive(cfg.Seed, "wander")},
		logger:   logger,
		store:    arena.NewStore(),
		classes:  classes,
		spawnRng: util.Derive(cfg.Seed, "spawn"),
		stats:    newStats(),
	}
	pubs := []logging.Publisher{opts.Pub}
	if opts.Record {
		s.rec = &recorder{clock: &s.env}
		pubs = append(pubs, s.rec)
	}
	s.pub = logging.Fanout(pubs...)

	geom := arena.Geometry{Width: cfg.Arena.Width, Height: cfg.Arena.Height, Divisions: cfg.Arena.Divisions}
	s.grid = arena.NewGrid(geom, logger)

	policy := opts.Wander
	if policy == nil {
		if policy, err = wanderPolicy(cfg.Wander); err != nil {
			return nil, err
		}
	}
	s.planner = arena.NewPlanner(geom, policy, s.env.Rng)

	s.reg = combat.NewEngagements()
	s.matcher = combat.NewMatcher(s.reg, s.pub, logger)
	s.scheduler = combat.NewScheduler(s.reg, s.pub)
	s.resolver = combat.NewResolver(leveling, cfg.Combat.ClampDamage, s.pub, logger)
	s.lifecycle = combat.NewLifecycle(s.reg, leveling, s.pub, logger)

	if cfg.Player.Enabled {
		class, err := arena.ParseClass(cfg.Player.Class)
		if err != nil {
			return nil, fmt.Errorf("player: %w", err)
		}
		a := classes.Instantiate(class, arena.Vec2{X: cfg.Player.X, Y: cfg.Player.Y})
		a.Player = true
		if cfg.Player.Health > 0 {
			a.Health, a.MaxHealth = cfg.Player.Health, cfg.Player.Health
		}
		s.player = s.spawn(ctx, a)
	}
	for i := 0; i < cfg.Population; i++ {
		s.spawnGladiator(ctx)
	}
	return s, nil
}

func (s *Sim) spawn(ctx context.Context, a arena.Agent) arena.Handle {
	h := s.store.Spawn(a)
	s.grid.Insert(h, s.grid.CellOf(a.Pos.X, a.Pos.Y))
	ref := logging.EntityRef{ID: h.String(), Kind: logging.EntityKindGladiator}
	if a.Player {
		ref.Kind = logging.EntityKindPlayer
	}
	loglifecycle.Spawned(ctx, s.pub, s.env.Tick, ref, loglifecycle.SpawnedPayload{
		Class: a.Class.String(), SpawnX: a.Pos.X, SpawnY: a.Pos.Y,
	})
	s.stats.Spawned++
	return h
}

// spawnGladiator places the next class of the sprite roster uniformly inside
// the arena.
func (s *Sim) spawnGladiator(ctx context.Context) arena.Handle {
	b := s.grid.Geometry().Bounds()
	pos := arena.Vec2{
		X: (s.spawnRng.Float64()*2 - 1) * b.HalfW,
		Y: (s.spawnRng.Float64()*2 - 1) * b.HalfH,
	}
	sprite := ""
	class := arena.Fighter
	if roster := s.classes.Roster(); len(roster) > 0 {
		sprite = roster[s.roster%len(roster)]
		class = arena.ClassFromSprite(sprite)
	}
	s.roster++
	a := s.classes.Instantiate(class, pos)
	a.Sprite = sprite
	a.Facing = arena.Direction(s.spawnRng.Intn(8))
	return s.spawn(ctx, a)
}

// Step runs one tick: movement, grid update, matching, scheduling, damage
// resolution and reaping, in that order. Message queues never outlive the
// tick.
func (s *Sim) Step(ctx context.Context, intent arena.Intent) {
	s.env.Tick++
	s.env.Time += s.env.Delta
	tick := s.env.Tick
	s.queues.Reset()

	moves := s.planner.Plan(s.store, intent)
	s.grid.Apply(moves)
	s.stats.CellChanges += len(moves)

	s.stats.Engagements += len(s.matcher.Match(ctx, tick, s.store, s.grid))
	s.queues.Attacks = s.scheduler.Schedule(ctx, tick, s.env.Delta, s.store, s.queues.Attacks)
	s.queues.Deaths = s.resolver.Resolve(ctx, tick, s.store, s.queues.Attacks, s.queues.Deaths)
	s.stats.Attacks += len(s.queues.Attacks)
	for _, k := range s.lifecycle.Reap(ctx, tick, s.store, s.grid, s.queues.Deaths) {
		s.stats.recordKill(k)
	}
	s.queues.Reset()

	s.respawn(ctx)
}

func (s *Sim) respawn(ctx context.Context) {
	if !s.cfg.Respawn.Enabled {
		return
	}
	for s.gladiators() < s.cfg.Respawn.Min {
		s.spawnGladiator(ctx)
		s.stats.Respawned++
	}
}

func (s *Sim) gladiators() int {
	n := s.store.Len()
	if s.store.Alive(s.player) {
		n--
	}
	return n
}

// Run steps without player input until ticks have elapsed, ctx is done, or
// at most one agent is left with respawning off.
func (s *Sim) Run(ctx context.Context, ticks int) Result {
	for i := 0; i < ticks; i++ {
		if ctx.Err() != nil {
			break
		}
		if !s.cfg.Respawn.Enabled && s.store.Len() <= 1 {
			break
		}
		s.Step(ctx, arena.Intent{})
	}
	return s.Result()
}

// SetClasses swaps the class table used by later spawns. Live agents keep the
// stats they spawned with.
func (s *Sim) SetClasses(cb *arena.ClassBook) {
	if cb != nil {
		s.classes = cb
	}
}

func (s *Sim) SetWander(policy arena.WanderPolicy) {
	s.planner.SetPolicy(policy)
}

func (s *Sim) Tick() uint64          { return s.env.Tick }
func (s *Sim) Config() config.Config { return s.cfg }
func (s *Sim) Store() *arena.Store   { return s.store }
func (s *Sim) Grid() *arena.Grid     { return s.grid }

// Player returns the player agent, or false once it has been slain or when
// the run has none.
func (s *Sim) Player() (*arena.Agent, bool) {
	if s.player == arena.None {
		return nil, false
	}
	return s.store.Get(s.player)
}
