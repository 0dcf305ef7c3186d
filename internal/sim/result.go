package sim

import (
	"context"
	"encoding/json"
	"maps"

	"gladiators/internal/arena"
	"gladiators/internal/combat"
	"gladiators/internal/logging"
)

type Event struct {
	T       float64        `json:"t"`
	Tick    uint64         `json:"tick"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// recorder turns published events into the run's event log.
type recorder struct {
	clock  *Env
	events []Event
}

func (r *recorder) Publish(_ context.Context, ev logging.Event) {
	payload := map[string]any{"actor": ev.Actor.ID}
	if len(ev.Targets) > 0 {
		ids := make([]string, 0, len(ev.Targets))
		for _, t := range ev.Targets {
			ids = append(ids, t.ID)
		}
		payload["targets"] = ids
	}
	if ev.Payload != nil {
		payload["data"] = ev.Payload
	}
	r.events = append(r.events, Event{T: r.clock.Time, Tick: ev.Tick, Type: string(ev.Type), Payload: payload})
}

type Stats struct {
	Spawned       int            `json:"spawned"`
	Respawned     int            `json:"respawned"`
	Engagements   int            `json:"engagements"`
	Attacks       int            `json:"attacks"`
	Kills         int            `json:"kills"`
	CellChanges   int            `json:"cell_changes"`
	KillsByClass  map[string]int `json:"kills_by_class"`
	DeathsByClass map[string]int `json:"deaths_by_class"`
	MaxLevel      int            `json:"max_level"`
}

func newStats() Stats {
	return Stats{KillsByClass: map[string]int{}, DeathsByClass: map[string]int{}, MaxLevel: 1}
}

func (st *Stats) recordKill(k combat.Kill) {
	st.Kills++
	st.DeathsByClass[k.Slain.Class.String()]++
	if v := k.Victor; v != nil {
		st.KillsByClass[v.Class.String()]++
		st.MaxLevel = max(st.MaxLevel, v.Level.Level)
	}
}

// Leader is the highest-levelled agent alive at the end of a run.
type Leader struct {
	Handle arena.Handle `json:"handle"`
	Class  string       `json:"class"`
	Player bool         `json:"player,omitempty"`
	Level  int          `json:"level"`
	XP     float64      `json:"xp"`
}

type Result struct {
	Seed             int64          `json:"seed"`
	Ticks            uint64         `json:"ticks"`
	Duration         float64        `json:"duration"`
	Survivors        int            `json:"survivors"`
	SurvivorsByClass map[string]int `json:"survivors_by_class"`
	PlayerAlive      bool           `json:"player_alive"`
	Leader           *Leader        `json:"leader,omitempty"`
	Stats            Stats          `json:"stats"`
	Events           []Event        `json:"events,omitempty"`
}

func (s *Sim) Result() Result {
	res := Result{
		Seed:             s.cfg.Seed,
		Ticks:            s.env.Tick,
		Duration:         s.env.Time,
		Survivors:        s.store.Len(),
		SurvivorsByClass: map[string]int{},
		Stats:            s.stats,
	}
	res.Stats.KillsByClass = maps.Clone(s.stats.KillsByClass)
	res.Stats.DeathsByClass = maps.Clone(s.stats.DeathsByClass)
	_, res.PlayerAlive = s.Player()
	s.store.Each(func(a *arena.Agent) {
		res.SurvivorsByClass[a.Class.String()]++
		if res.Leader == nil || a.Level.Level > res.Leader.Level ||
			(a.Level.Level == res.Leader.Level && a.Level.XP > res.Leader.XP) {
			res.Leader = &Leader{Handle: a.Handle, Class: a.Class.String(), Player: a.Player, Level: a.Level.Level, XP: a.Level.XP}
		}
	})
	if s.rec != nil {
		res.Events = s.rec.events
	}
	return res
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
