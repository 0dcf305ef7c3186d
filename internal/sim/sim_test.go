package sim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gladiators/internal/arena"
	"gladiators/internal/config"
	"gladiators/internal/logging"
	logcombat "gladiators/internal/logging/combat"
	logsystem "gladiators/internal/logging/system"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Arena = config.ArenaConfig{Width: 320, Height: 180, Divisions: 4}
	cfg.Population = 24
	cfg.Seed = 99
	return &cfg
}

func newSim(t *testing.T, cfg *config.Config, record bool) *Sim {
	t.Helper()
	s, err := New(context.Background(), Options{Config: cfg, Record: record})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func checkInvariants(t *testing.T, s *Sim) {
	t.Helper()
	store, grid := s.Store(), s.Grid()
	if grid.Len() != store.Len() {
		t.Fatalf("tick %d: grid indexes %d handles, store has %d", s.Tick(), grid.Len(), store.Len())
	}
	store.Each(func(a *arena.Agent) {
		if !grid.Contains(a.Handle, grid.CellOf(a.Pos.X, a.Pos.Y)) {
			t.Fatalf("tick %d: agent %v missing from its cell", s.Tick(), a.Handle)
		}
		if a.Dying() {
			t.Fatalf("tick %d: agent %v survived with health %v", s.Tick(), a.Handle, a.Health)
		}
		if a.Level.Level < 1 || a.Level.XP < 0 {
			t.Fatalf("tick %d: agent %v has level %+v", s.Tick(), a.Handle, a.Level)
		}
		if p, ok := store.PartnerOf(a); ok && p.Partner != a.Handle {
			t.Fatalf("tick %d: asymmetric engagement %v -> %v -> %v", s.Tick(), a.Handle, p.Handle, p.Partner)
		}
	})
}

func TestNewSpawnsPopulationAndPlayer(t *testing.T) {
	s := newSim(t, smallConfig(), false)
	if s.Store().Len() != 25 {
		t.Fatalf("store holds %d agents, want 25", s.Store().Len())
	}
	p, ok := s.Player()
	if !ok || p.Class != arena.Mage || p.Health != 999 || p.Pos != (arena.Vec2{}) {
		t.Fatalf("unexpected player %+v", p)
	}
	classes := map[arena.Class]int{}
	s.Store().Each(func(a *arena.Agent) {
		if !a.Player {
			classes[a.Class]++
		}
	})
	// roster cycles three soldiers, two archers and one mage
	if classes[arena.Fighter] != 12 || classes[arena.Archer] != 8 || classes[arena.Mage] != 4 {
		t.Fatalf("unexpected class mix %v", classes)
	}
	checkInvariants(t, s)
}

func TestStepKeepsInvariants(t *testing.T) {
	s := newSim(t, smallConfig(), false)
	ctx := context.Background()
	for i := 0; i < 3000; i++ {
		s.Step(ctx, arena.Intent{})
		checkInvariants(t, s)
		if len(s.queues.Attacks) != 0 || len(s.queues.Deaths) != 0 {
			t.Fatalf("queues carried over to tick %d", s.Tick())
		}
	}
	res := s.Result()
	if res.Stats.Kills == 0 {
		t.Fatalf("expected fighting in a crowded arena")
	}
	if res.Stats.Spawned-res.Stats.Kills != res.Survivors {
		t.Fatalf("spawned %d, killed %d, but %d survive", res.Stats.Spawned, res.Stats.Kills, res.Survivors)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	a := newSim(t, smallConfig(), true).Run(context.Background(), 1500)
	b := newSim(t, smallConfig(), true).Run(context.Background(), 1500)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two runs with the same seed diverged")
	}
	if len(a.Events) == 0 {
		t.Fatalf("recording run produced no events")
	}
}

func TestRunStopsWithLastAgentStanding(t *testing.T) {
	cfg := smallConfig()
	cfg.Population = 1
	cfg.Arena = config.ArenaConfig{Width: 40, Height: 40, Divisions: 1}
	res := newSim(t, cfg, false).Run(context.Background(), 100000)
	if res.Survivors != 1 || res.Stats.Kills != 1 || !res.PlayerAlive {
		t.Fatalf("expected the player to outlast a single fighter, got %+v", res)
	}
	if res.Leader == nil || !res.Leader.Player || res.Leader.XP <= 0 {
		t.Fatalf("player should have earned xp: %+v", res.Leader)
	}
	if res.Ticks >= 100000 {
		t.Fatalf("run did not stop early")
	}
}

func TestPlayerFollowsIntent(t *testing.T) {
	cfg := smallConfig()
	cfg.Population = 0
	s := newSim(t, cfg, false)
	p, _ := s.Player()
	speed := p.Speed

	s.Step(context.Background(), arena.Intent{X: -1})
	if p.Pos != (arena.Vec2{X: -speed}) || p.Facing != arena.Left || p.Activity != arena.Walk {
		t.Fatalf("player after left intent: %+v", p)
	}
	s.Step(context.Background(), arena.Intent{})
	if p.Pos != (arena.Vec2{X: -speed}) || p.Activity != arena.Idle {
		t.Fatalf("player should idle: %+v", p)
	}
}

func TestRespawnTopsUpPopulation(t *testing.T) {
	cfg := smallConfig()
	cfg.Respawn = config.RespawnConfig{Enabled: true, Min: 24}
	s := newSim(t, cfg, false)
	for i := 0; i < 2000; i++ {
		s.Step(context.Background(), arena.Intent{})
		if s.gladiators() < 24 {
			t.Fatalf("tick %d: population %d below minimum", s.Tick(), s.gladiators())
		}
	}
	if res := s.Result(); res.Stats.Kills > 0 && res.Stats.Respawned == 0 {
		t.Fatalf("kills happened but nobody respawned: %+v", res.Stats)
	}
}

func TestPublisherSeesCombat(t *testing.T) {
	sink := logging.NewMemorySink()
	s, err := New(context.Background(), Options{Config: smallConfig(), Pub: sink})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Run(context.Background(), 2000)
	if len(sink.OfType(logcombat.EventEngaged)) == 0 || len(sink.OfType(logcombat.EventDamage)) == 0 {
		t.Fatalf("expected engagement and damage events")
	}
}

func TestFrameReflectsStore(t *testing.T) {
	s := newSim(t, smallConfig(), false)
	s.Step(context.Background(), arena.Intent{})
	f := s.Frame()
	if f.Tick != 1 || len(f.Sprites) != s.Store().Len() {
		t.Fatalf("frame tick=%d sprites=%d", f.Tick, len(f.Sprites))
	}
	players := 0
	for _, sp := range f.Sprites {
		if sp.Player {
			players++
		}
		if sp.Health < 0 {
			t.Fatalf("frame exposes negative health")
		}
	}
	if players != 1 {
		t.Fatalf("frame has %d players", players)
	}
}

func TestFrameListsLiveBouts(t *testing.T) {
	s := newSim(t, smallConfig(), false)
	var f Frame
	for i := 0; i < 2000 && len(f.Bouts) == 0; i++ {
		s.Step(context.Background(), arena.Intent{})
		f = s.Frame()
	}
	if len(f.Bouts) == 0 {
		t.Fatalf("no bout formed in 2000 ticks")
	}
	engaged := 0
	s.Store().Each(func(a *arena.Agent) {
		if a.Engaged() {
			engaged++
		}
	})
	if engaged != 2*len(f.Bouts) {
		t.Fatalf("%d engaged agents for %d bouts", engaged, len(f.Bouts))
	}
	for _, b := range f.Bouts {
		a, ok := s.Store().Get(b.A)
		if !ok || a.Partner != b.B {
			t.Fatalf("bout %+v does not match store", b)
		}
		if b.Since == 0 || b.Since > f.Tick {
			t.Fatalf("bout %+v formed outside the run", b)
		}
	}
}

func TestApplySwapsClassesAndWander(t *testing.T) {
	dir := t.TempDir()
	classes := `
classes:
  - id: archer
    health: 1
    attack: 9
    defense: 0
    attack_anim: bow
  - id: mage
    health: 1
    attack: 9
    defense: 0
    attack_anim: staff
  - id: fighter
    health: 1
    attack: 9
    defense: 0
    attack_anim: sword
`
	if err := os.WriteFile(filepath.Join(dir, config.ClassesFile), []byte(classes), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "wander.tengo")
	if err := os.WriteFile(script, []byte(`weights := func(prev) { return {up: 1} }`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := smallConfig()
	cfg.Wander.Script = script
	s := newSim(t, cfg, false)
	classesChange := config.Change{Path: filepath.Join(dir, config.ClassesFile), Kind: config.ChangeClasses}
	if err := s.Apply(context.Background(), dir, classesChange); err != nil {
		t.Fatalf("Apply classes: %v", err)
	}
	if err := s.Apply(context.Background(), dir, config.Change{Path: script, Kind: config.ChangeScript}); err != nil {
		t.Fatalf("Apply script: %v", err)
	}
	h := s.spawnGladiator(context.Background())
	a, _ := s.Store().Get(h)
	if a.Health != 1 || a.Attack != 9 {
		t.Fatalf("spawn after reload ignored new classes: %+v", a)
	}

	if err := os.WriteFile(filepath.Join(dir, config.ClassesFile), []byte("classes: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(context.Background(), dir, classesChange); err == nil {
		t.Fatalf("expected reload error for broken yaml")
	}
}

func TestApplyReloadsOnlyTheChangedPart(t *testing.T) {
	dir := t.TempDir()
	classesPath := filepath.Join(dir, config.ClassesFile)
	script := filepath.Join(dir, "wander.tengo")
	if err := os.WriteFile(script, []byte(`weights := func(prev) { return {up: 1} }`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(classesPath, []byte("classes: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	sink := logging.NewMemorySink()
	cfg := smallConfig()
	cfg.Wander.Script = script
	s, err := New(context.Background(), Options{Config: cfg, Pub: sink})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// The broken class table is not read for a script edit.
	if err := s.Apply(context.Background(), dir, config.Change{Path: script, Kind: config.ChangeScript}); err != nil {
		t.Fatalf("script change: %v", err)
	}
	if err := s.Apply(context.Background(), dir, config.Change{Path: classesPath, Kind: config.ChangeClasses}); err == nil {
		t.Fatalf("expected error for broken class table")
	}
	arenaPath := filepath.Join(dir, config.ArenaFile)
	if err := s.Apply(context.Background(), dir, config.Change{Path: arenaPath, Kind: config.ChangeArena}); !errors.Is(err, ErrRestartRequired) {
		t.Fatalf("arena change err = %v, want ErrRestartRequired", err)
	}

	if got := sink.OfType(logsystem.EventReloaded); len(got) != 1 || got[0].Actor.Kind != logging.EntityKindWorld {
		t.Fatalf("reloaded events = %+v", got)
	}
	rejected := sink.OfType(logsystem.EventReloadRejected)
	if len(rejected) != 2 || rejected[0].Category != logging.CategorySystem {
		t.Fatalf("rejected events = %+v", rejected)
	}
	if p, ok := rejected[1].Payload.(logsystem.ReloadPayload); !ok || p.Kind != "arena" || p.Error == "" {
		t.Fatalf("arena rejection payload = %+v", rejected[1].Payload)
	}
}
