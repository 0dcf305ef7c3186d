package combat

import (
	"context"
	"log/slog"

	"gladiators/internal/arena"
	"gladiators/internal/logging"
	logcombat "gladiators/internal/logging/combat"
)

// Matcher pairs unengaged agents that share a grid cell.
type Matcher struct {
	Engagements *Engagements
	Pub         logging.Publisher
	Logger      *slog.Logger
}

func NewMatcher(reg *Engagements, pub logging.Publisher, logger *slog.Logger) *Matcher {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{Engagements: reg, Pub: pub, Logger: logger}
}

// Match walks occupied cells in order and pairs unengaged agents two at a
// time in handle order. An odd agent out waits for the next tick. It returns
// the engagements formed.
func (m *Matcher) Match(ctx context.Context, tick uint64, s *arena.Store, g *arena.Grid) []Engagement {
	m.Engagements.Prune(s)

	var formed []Engagement
	var free []*arena.Agent
	for _, cell := range g.Cells() {
		free = free[:0]
		for _, h := range g.AgentsIn(cell) {
			a, ok := s.Get(h)
			if !ok {
				m.Logger.Warn("match: grid holds stale handle", "handle", h.String(), "cell_x", cell.X, "cell_y", cell.Y)
				continue
			}
			if a.Partner != arena.None {
				if _, ok := s.PartnerOf(a); ok {
					continue
				}
				a.Partner = arena.None
			}
			free = append(free, a)
		}
		for i := 0; i+1 < len(free); i += 2 {
			a, b := free[i], free[i+1]
			a.Partner, b.Partner = b.Handle, a.Handle
			a.AttackTimer = a.AttackInterval
			b.AttackTimer = b.AttackInterval
			e := m.Engagements.Begin(a.Handle, b.Handle, tick)
			formed = append(formed, *e)
			logcombat.Engaged(ctx, m.Pub, tick, Ref(a), Ref(b), logcombat.EngagedPayload{CellX: cell.X, CellY: cell.Y})
		}
	}
	return formed
}
