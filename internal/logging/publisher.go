package logging

import "context"

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

type EntityKind string

const (
	EntityKindUnknown   EntityKind = "unknown"
	EntityKindPlayer    EntityKind = "player"
	EntityKindGladiator EntityKind = "gladiator"
	EntityKindWorld     EntityKind = "world"
)

// Event is a structured gameplay record. Payload is one of the typed payloads
// declared by the helper packages.
type Event struct {
	Type     EventType   `json:"type"`
	Tick     uint64      `json:"tick"`
	Actor    EntityRef   `json:"actor"`
	Targets  []EntityRef `json:"targets,omitempty"`
	Severity Severity    `json:"severity"`
	Category string      `json:"category,omitempty"`
	Payload  any         `json:"payload,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

const (
	CategoryCombat    = "combat"
	CategoryLifecycle = "lifecycle"
	CategorySystem    = "system"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

type multiPublisher []Publisher

func (m multiPublisher) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		p.Publish(ctx, event)
	}
}

// Fanout publishes every event to each non-nil publisher in order.
func Fanout(pubs ...Publisher) Publisher {
	out := make(multiPublisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return NopPublisher()
	case 1:
		return out[0]
	}
	return out
}

func cloneEvent(event Event) Event {
	cloned := event
	if len(event.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), event.Targets...)
	}
	return cloned
}
