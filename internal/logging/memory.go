package logging

import (
	"context"
	"sync"
)

// MemorySink keeps every published event for tests to read back.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make([]Event, 0)}
}

func (s *MemorySink) Publish(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, cloneEvent(event))
}

func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]Event, len(s.events))
	copy(copied, s.events)
	return copied
}

// OfType filters the recorded events by type.
func (s *MemorySink) OfType(t EventType) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, ev := range s.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
