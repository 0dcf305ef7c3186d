package system

import (
	"context"

	"gladiators/internal/logging"
)

const (
	// EventReloaded is emitted when a watched edit is applied to a running sim.
	EventReloaded logging.EventType = "system.reloaded"
	// EventReloadRejected is emitted when an edit is skipped or fails to load.
	EventReloadRejected logging.EventType = "system.reload_rejected"
)

type ReloadPayload struct {
	Kind  string `json:"kind"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

var world = logging.EntityRef{Kind: logging.EntityKindWorld}

func Reloaded(ctx context.Context, pub logging.Publisher, tick uint64, payload ReloadPayload) {
	publish(ctx, pub, EventReloaded, logging.SeverityInfo, tick, payload)
}

func ReloadRejected(ctx context.Context, pub logging.Publisher, tick uint64, payload ReloadPayload) {
	publish(ctx, pub, EventReloadRejected, logging.SeverityWarn, tick, payload)
}

func publish(ctx context.Context, pub logging.Publisher, typ logging.EventType, sev logging.Severity, tick uint64, payload ReloadPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     typ,
		Tick:     tick,
		Actor:    world,
		Severity: sev,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}
