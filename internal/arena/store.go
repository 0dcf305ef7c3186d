package arena

// Store owns every live agent. Other components hold Handles and resolve
// them through Get, which reports absence instead of returning stale data.
type Store struct {
	slots []slot
	free  []uint32
	live  int
}

type slot struct {
	gen   uint32
	agent *Agent
}

func NewStore() *Store {
	return &Store{}
}

// Spawn stores a copy of a and returns its handle. The agent's Handle field is
// overwritten with the issued handle.
func (s *Store) Spawn(a Agent) Handle {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{})
		idx = uint32(len(s.slots))
	}
	sl := &s.slots[idx-1]
	h := makeHandle(idx, sl.gen)
	a.Handle = h
	sl.agent = &a
	s.live++
	return h
}

func (s *Store) lookup(h Handle) *slot {
	idx := h.index()
	if idx == 0 || int(idx) > len(s.slots) {
		return nil
	}
	sl := &s.slots[idx-1]
	if sl.agent == nil || sl.gen != h.gen() {
		return nil
	}
	return sl
}

func (s *Store) Get(h Handle) (*Agent, bool) {
	sl := s.lookup(h)
	if sl == nil {
		return nil, false
	}
	return sl.agent, true
}

func (s *Store) Alive(h Handle) bool {
	return s.lookup(h) != nil
}

// Remove deletes the agent and invalidates its handle. It returns false when
// h was already stale.
func (s *Store) Remove(h Handle) bool {
	sl := s.lookup(h)
	if sl == nil {
		return false
	}
	sl.agent = nil
	sl.gen++
	s.free = append(s.free, h.index())
	s.live--
	return true
}

// Each calls fn for every live agent in slot order. fn must not spawn or
// remove agents.
func (s *Store) Each(fn func(*Agent)) {
	for i := range s.slots {
		if a := s.slots[i].agent; a != nil {
			fn(a)
		}
	}
}

func (s *Store) Len() int { return s.live }

// PartnerOf returns a's partner when both the reference and the partner are
// still valid. A partner removed earlier reads as not engaged.
func (s *Store) PartnerOf(a *Agent) (*Agent, bool) {
	if a == nil || a.Partner == None {
		return nil, false
	}
	return s.Get(a.Partner)
}
