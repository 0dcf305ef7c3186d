package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// SlogPublisher writes events through a slog.Logger. Events below Min are
// dropped.
type SlogPublisher struct {
	Logger *slog.Logger
	Min    Severity
}

func NewSlogPublisher(logger *slog.Logger, min Severity) *SlogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogPublisher{Logger: logger, Min: min}
}

func (p *SlogPublisher) Publish(ctx context.Context, event Event) {
	if p == nil || p.Logger == nil || event.Severity < p.Min {
		return
	}
	attrs := []slog.Attr{
		slog.Uint64("tick", event.Tick),
		slog.String("actor", formatEntity(event.Actor)),
	}
	if event.Category != "" {
		attrs = append(attrs, slog.String("category", event.Category))
	}
	if len(event.Targets) > 0 {
		parts := make([]string, 0, len(event.Targets))
		for _, t := range event.Targets {
			parts = append(parts, formatEntity(t))
		}
		attrs = append(attrs, slog.String("targets", strings.Join(parts, ",")))
	}
	if event.Payload != nil {
		if data, err := json.Marshal(event.Payload); err == nil {
			attrs = append(attrs, slog.String("payload", string(data)))
		} else {
			attrs = append(attrs, slog.Any("payload", event.Payload))
		}
	}
	p.Logger.LogAttrs(ctx, SlogLevel(event.Severity), string(event.Type), attrs...)
}

// SlogLevel maps a severity onto the matching slog level.
func SlogLevel(sev Severity) slog.Level {
	switch sev {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityWarn:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ParseSeverity accepts the names printed by Severity.String.
func ParseSeverity(s string) (Severity, bool) {
	for sev := SeverityDebug; sev <= SeverityError; sev++ {
		if strings.EqualFold(s, sev.String()) {
			return sev, true
		}
	}
	return SeverityInfo, false
}

func formatEntity(ref EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return string(ref.Kind) + ":" + ref.ID
}
