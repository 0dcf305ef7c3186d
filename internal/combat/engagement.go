package combat

import (
	"cmp"
	"slices"

	"gladiators/internal/arena"
)

type State int

const (
	Start State = iota
	Active
	End
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Active:
		return "active"
	case End:
		return "end"
	}
	return "unknown"
}

// Engagement pairs two agents in combat. A is always the lower handle.
type Engagement struct {
	A, B  arena.Handle
	State State
	// Since is the tick the pair was matched.
	Since uint64
}

// Other returns the member of e that is not h.
func (e Engagement) Other(h arena.Handle) arena.Handle {
	if e.A == h {
		return e.B
	}
	return e.A
}

type pairKey struct{ lo, hi arena.Handle }

func keyOf(a, b arena.Handle) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Engagements indexes every engagement by its unordered pair and by member.
// An ended engagement stays listed until the next Prune.
type Engagements struct {
	byPair   map[pairKey]*Engagement
	byMember map[arena.Handle]pairKey
}

func NewEngagements() *Engagements {
	return &Engagements{
		byPair:   make(map[pairKey]*Engagement),
		byMember: make(map[arena.Handle]pairKey),
	}
}

// Begin records a new engagement in Start state. Any engagement either
// member still held is ended first.
func (r *Engagements) Begin(a, b arena.Handle, tick uint64) *Engagement {
	r.End(a)
	r.End(b)
	k := keyOf(a, b)
	e := &Engagement{A: k.lo, B: k.hi, State: Start, Since: tick}
	r.byPair[k] = e
	r.byMember[a] = k
	r.byMember[b] = k
	return e
}

// Lookup finds the engagement between a and b in any state.
func (r *Engagements) Lookup(a, b arena.Handle) (*Engagement, bool) {
	e, ok := r.byPair[keyOf(a, b)]
	return e, ok
}

// Of returns the live (non-ended) engagement h belongs to.
func (r *Engagements) Of(h arena.Handle) (*Engagement, bool) {
	k, ok := r.byMember[h]
	if !ok {
		return nil, false
	}
	e, ok := r.byPair[k]
	return e, ok
}

// End moves h's live engagement to End and releases both members.
func (r *Engagements) End(h arena.Handle) (*Engagement, bool) {
	e, ok := r.Of(h)
	if !ok {
		return nil, false
	}
	e.State = End
	delete(r.byMember, e.A)
	delete(r.byMember, e.B)
	return e, true
}

func (r *Engagements) Len() int { return len(r.byPair) }

// All returns copies of every engagement ordered by pair.
func (r *Engagements) All() []Engagement {
	out := make([]Engagement, 0, len(r.byPair))
	for _, e := range r.byPair {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(x, y Engagement) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return out
}

// Prune drops ended engagements and any whose members are gone or no longer
// point at each other. It returns how many were dropped.
func (r *Engagements) Prune(s *arena.Store) int {
	dropped := 0
	for k, e := range r.byPair {
		if e.State != End && paired(s, e.A, e.B) {
			continue
		}
		if r.byMember[e.A] == k {
			delete(r.byMember, e.A)
		}
		if r.byMember[e.B] == k {
			delete(r.byMember, e.B)
		}
		delete(r.byPair, k)
		dropped++
	}
	return dropped
}

func paired(s *arena.Store, a, b arena.Handle) bool {
	agentA, okA := s.Get(a)
	agentB, okB := s.Get(b)
	return okA && okB && agentA.Partner == b && agentB.Partner == a
}
