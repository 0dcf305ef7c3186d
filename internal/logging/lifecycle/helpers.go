package lifecycle

import (
	"context"

	"gladiators/internal/logging"
)

const (
	// EventSpawned is emitted when an agent enters the arena.
	EventSpawned logging.EventType = "lifecycle.spawned"
	// EventLevelUp is emitted when an award carries an agent over its threshold.
	EventLevelUp logging.EventType = "lifecycle.level_up"
	// EventRemoved is emitted when a slain agent leaves the store and grid.
	EventRemoved logging.EventType = "lifecycle.removed"
)

type SpawnedPayload struct {
	Class  string  `json:"class"`
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
}

type LevelUpPayload struct {
	Level int     `json:"level"`
	XP    float64 `json:"xp"`
}

// RemovedPayload describes the slain agent. BoutTicks counts the ticks since
// it was matched with its killer; zero when it died unengaged.
type RemovedPayload struct {
	Class     string `json:"class"`
	Level     int    `json:"level"`
	BoutTicks uint64 `json:"boutTicks,omitempty"`
}

func Spawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SpawnedPayload) {
	publish(ctx, pub, EventSpawned, tick, actor, payload)
}

func LevelUp(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload LevelUpPayload) {
	publish(ctx, pub, EventLevelUp, tick, actor, payload)
}

func Removed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RemovedPayload) {
	publish(ctx, pub, EventRemoved, tick, actor, payload)
}

func publish(ctx context.Context, pub logging.Publisher, typ logging.EventType, tick uint64, actor logging.EntityRef, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     typ,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
