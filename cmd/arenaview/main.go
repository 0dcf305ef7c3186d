package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"gladiators/internal/arena"
	"gladiators/internal/config"
	"gladiators/internal/sim"
)

// intentHold is how many ticks a key press keeps steering the player.
// Terminals report presses only, not releases.
const intentHold = 8

type Viewer struct {
	screen tcell.Screen
	sim    *sim.Sim
	dir    string
	logger *slog.Logger

	width, height int
	intent        arena.Intent
	intentTicks   int
	paused        bool
	status        string
}

func NewViewer(s *sim.Sim, dir string, logger *slog.Logger) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	v := &Viewer{screen: screen, sim: s, dir: dir, logger: logger}
	v.width, v.height = screen.Size()
	return v, nil
}

func (v *Viewer) glyph(sp sim.Sprite) (rune, tcell.Style) {
	r := '?'
	switch sp.Class {
	case "archer":
		r = 'a'
	case "mage":
		r = 'm'
	case "fighter":
		r = 'f'
	}
	if sp.Level > 1 {
		r = unicode.ToUpper(r)
	}
	if sp.Player {
		r = '@'
	}

	style := tcell.StyleDefault
	switch sp.Activity {
	case arena.Idle:
		style = style.Foreground(tcell.ColorGray)
	case arena.Walk:
		style = style.Foreground(tcell.ColorWhite)
	case arena.Sword, arena.Bow, arena.Staff:
		style = style.Foreground(tcell.ColorYellow)
	case arena.Hurt, arena.Dead:
		style = style.Foreground(tcell.ColorRed)
	}
	if sp.Player {
		style = style.Bold(true).Foreground(tcell.ColorGreen)
	}
	return r, style
}

func (v *Viewer) draw() {
	v.screen.Clear()
	f := v.sim.Frame()
	rows := v.height - 1
	if v.width < 2 || rows < 2 {
		v.screen.Show()
		return
	}
	for _, sp := range f.Sprites {
		x := int((sp.Pos.X + f.Width/2) / f.Width * float64(v.width-1))
		y := int((f.Height/2 - sp.Pos.Y) / f.Height * float64(rows-1))
		if x < 0 || x >= v.width || y < 0 || y >= rows {
			continue
		}
		r, style := v.glyph(sp)
		v.screen.SetContent(x, y, r, nil, style)
	}

	line := fmt.Sprintf("tick %d  agents %d  bouts %d", f.Tick, len(f.Sprites), len(f.Bouts))
	if p, ok := v.sim.Player(); ok {
		line += fmt.Sprintf("  you: %s lv%d hp %.0f/%.0f", p.Class, p.Level.Level, max(p.Health, 0), p.MaxHealth)
	} else {
		line += "  you: slain"
	}
	if v.paused {
		line += "  [paused]"
	}
	if v.status != "" {
		line += "  " + v.status
	}
	for i, r := range line {
		if i >= v.width {
			break
		}
		v.screen.SetContent(i, v.height-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
	v.screen.Show()
}

func (v *Viewer) steer(dx, dy int) {
	v.intent = arena.Intent{X: dx, Y: dy}
	v.intentTicks = intentHold
}

func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.steer(0, 1)
		case tcell.KeyDown:
			v.steer(0, -1)
		case tcell.KeyLeft:
			v.steer(-1, 0)
		case tcell.KeyRight:
			v.steer(1, 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'w':
				v.steer(0, 1)
			case 's':
				v.steer(0, -1)
			case 'a':
				v.steer(-1, 0)
			case 'd':
				v.steer(1, 0)
			case ' ':
				v.paused = !v.paused
			}
		}
	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) run(ctx context.Context, watcher *config.Watcher) {
	step := time.Duration(v.sim.Config().Tick * float64(time.Second))
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var changes <-chan config.Change
	if watcher != nil {
		changes = watcher.Events
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case ch := <-changes:
			switch err := v.sim.Apply(ctx, v.dir, ch); {
			case errors.Is(err, sim.ErrRestartRequired):
				v.status = filepath.Base(ch.Path) + " changed, restart to apply"
			case err != nil:
				v.logger.Warn("reload failed", "path", ch.Path, "err", err)
				v.status = "reload failed: " + err.Error()
			default:
				v.status = "reloaded " + ch.Kind.String()
			}
		case <-ticker.C:
			if !v.paused {
				intent := arena.Intent{}
				if v.intentTicks > 0 {
					intent = v.intent
					v.intentTicks--
				}
				v.sim.Step(ctx, intent)
			}
			v.draw()
		}
	}
}

func (v *Viewer) cleanup() {
	v.screen.Fini()
}

func main() {
	var cfgDir string
	var seed int64
	var watch bool
	flag.StringVar(&cfgDir, "config", "assets", "config dir")
	flag.Int64Var(&seed, "seed", 0, "seed (0 uses the config seed)")
	flag.BoolVar(&watch, "watch", true, "reload classes and wander script on change")
	flag.Parse()

	// Log output would tear the tcell screen.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, classesCfg, err := config.LoadAll(cfgDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.Player.Enabled = true
	classes, err := arena.NewClassBook(classesCfg, cfg.Combat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build class table: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	s, err := sim.New(ctx, sim.Options{Config: cfg, Classes: classes, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create simulation: %v\n", err)
		os.Exit(1)
	}

	var watcher *config.Watcher
	if watch {
		if watcher, err = config.NewWatcher(cfgDir); err != nil {
			fmt.Fprintf(os.Stderr, "watch %s: %v\n", cfgDir, err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	v, err := NewViewer(s, cfgDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer v.cleanup()

	v.run(ctx, watcher)
}
