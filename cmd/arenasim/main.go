package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gladiators/internal/arena"
	"gladiators/internal/config"
	"gladiators/internal/logging"
	"gladiators/internal/sim"
)

func main() {
	var cfgDir, out, schemaDir, level string
	var seed int64
	var n, ticks, workers int
	var saveLog, watch bool
	flag.StringVar(&cfgDir, "config", "assets", "config dir")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&seed, "seed", 0, "seed (0 uses the config seed)")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&ticks, "ticks", 0, "ticks per run (0 uses the config value)")
	flag.IntVar(&workers, "workers", 8, "batch workers")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.StringVar(&schemaDir, "schema", "", "write JSON schemas of the config documents to this dir and exit")
	flag.BoolVar(&watch, "watch", false, "run in real time and reload classes and wander script on change (n==1)")
	flag.StringVar(&level, "level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	sev, ok := logging.ParseSeverity(level)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", level)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logging.SlogLevel(sev)}))
	slog.SetDefault(logger)

	if schemaDir != "" {
		if err := writeSchemas(schemaDir); err != nil {
			logger.Error("write schemas", "err", err)
			os.Exit(1)
		}
		fmt.Printf("Schemas written -> %s\n", schemaDir)
		return
	}

	cfg, classesCfg, err := config.LoadAll(cfgDir)
	if err != nil {
		logger.Error("load config", "dir", cfgDir, "err", err)
		os.Exit(1)
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if ticks <= 0 {
		ticks = cfg.Ticks
	}
	classes, err := arena.NewClassBook(classesCfg, cfg.Combat)
	if err != nil {
		logger.Error("build class table", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if n <= 1 {
		s, err := sim.New(ctx, sim.Options{
			Config:  cfg,
			Classes: classes,
			Pub:     logging.NewSlogPublisher(logger, sev),
			Logger:  logger,
			Record:  saveLog,
		})
		if err != nil {
			logger.Error("create simulation", "err", err)
			os.Exit(1)
		}

		var res sim.Result
		if watch {
			res, err = runWatched(ctx, s, cfgDir, ticks, logger)
			if err != nil {
				logger.Error("watch config", "err", err)
				os.Exit(1)
			}
		} else {
			res = s.Run(ctx, ticks)
		}

		if err := os.WriteFile(out, sim.MarshalPretty(res), 0644); err != nil {
			logger.Error("write result", "out", out, "err", err)
			os.Exit(1)
		}
		fmt.Printf("Single arenasim finished. Ticks=%d, T=%.2fs, Survivors=%d, Kills=%d -> %s\n",
			res.Ticks, res.Duration, res.Survivors, res.Stats.Kills, out)
		return
	}

	summary := runBatch(ctx, cfg, classes, n, ticks, workers, logger)
	if err := os.WriteFile(out, sim.MarshalPretty(summary), 0644); err != nil {
		logger.Error("write summary", "out", out, "err", err)
		os.Exit(1)
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
}

// runWatched paces the simulation at its tick rate and applies class table
// and wander script edits as they land in the config dir.
func runWatched(ctx context.Context, s *sim.Sim, dir string, ticks int, logger *slog.Logger) (sim.Result, error) {
	w, err := config.NewWatcher(dir)
	if err != nil {
		return sim.Result{}, err
	}
	defer w.Close()

	step := time.Duration(s.Config().Tick * float64(time.Second))
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return s.Result(), nil
		case ch := <-w.Events:
			logger.Info("config changed", "path", ch.Path, "kind", ch.Kind)
			if err := s.Apply(ctx, dir, ch); err != nil {
				logger.Warn("change not applied, keeping previous config", "path", ch.Path, "err", err)
			}
			i--
		case err := <-w.Errors:
			logger.Warn("watcher error", "err", err)
			i--
		case <-ticker.C:
			s.Step(ctx, arena.Intent{})
		}
	}
	return s.Result(), nil
}

type batchStat struct {
	Runs          int
	SumTicks      uint64
	SumSurvivors  int
	SumKills      int
	SumMaxLevel   int
	PlayerAlive   int
	LeaderByClass map[string]int
	KillsByClass  map[string]int
	DeathsByClass map[string]int
}

func runBatch(ctx context.Context, cfg *config.Config, classes *arena.ClassBook, n, ticks, workers int, logger *slog.Logger) map[string]any {
	st := batchStat{
		LeaderByClass: map[string]int{},
		KillsByClass:  map[string]int{},
		DeathsByClass: map[string]int{},
	}
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				runCfg := *cfg
				runCfg.Seed = cfg.Seed + int64(i)*7919
				s, err := sim.New(ctx, sim.Options{Config: &runCfg, Classes: classes, Logger: logger})
				if err != nil {
					logger.Error("create simulation", "run", i, "err", err)
					continue
				}
				res := s.Run(ctx, ticks)

				mu.Lock()
				st.Runs++
				st.SumTicks += res.Ticks
				st.SumSurvivors += res.Survivors
				st.SumKills += res.Stats.Kills
				st.SumMaxLevel += res.Stats.MaxLevel
				if res.PlayerAlive {
					st.PlayerAlive++
				}
				if res.Leader != nil {
					st.LeaderByClass[res.Leader.Class]++
				}
				for k, v := range res.Stats.KillsByClass {
					st.KillsByClass[k] += v
				}
				for k, v := range res.Stats.DeathsByClass {
					st.DeathsByClass[k] += v
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	runs := float64(max(st.Runs, 1))
	share := func(m map[string]int) map[string]any {
		total := 0
		for _, v := range m {
			total += v
		}
		out := map[string]any{}
		for k, v := range m {
			ratio := 0.0
			if total > 0 {
				ratio = float64(v) / float64(total)
			}
			out[k] = map[string]any{"total": v, "ratio": ratio}
		}
		return out
	}

	return map[string]any{
		"runs":            st.Runs,
		"avg_ticks":       float64(st.SumTicks) / runs,
		"avg_survivors":   float64(st.SumSurvivors) / runs,
		"avg_kills":       float64(st.SumKills) / runs,
		"avg_max_level":   float64(st.SumMaxLevel) / runs,
		"player_survival": float64(st.PlayerAlive) / runs,
		"leader_by_class": share(st.LeaderByClass),
		"kills_by_class":  share(st.KillsByClass),
		"deaths_by_class": share(st.DeathsByClass),
	}
}

func writeSchemas(dir string) error {
	schemas, err := config.Schemas()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file := strings.TrimSuffix(name, filepath.Ext(name)) + ".schema.json"
		if err := os.WriteFile(filepath.Join(dir, file), sim.MarshalPretty(schemas[name]), 0o644); err != nil {
			return err
		}
	}
	return nil
}
