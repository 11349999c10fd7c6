// Package observability provides event-based observability for the interview
// runtime. Subsystems emit Events to an Observer instead of logging directly,
// so the composition root decides where events go (slog, fan-out, or nothing).
package observability

import (
	"context"
	"log/slog"
	"time"
)

// EventType identifies the kind of event. Each subsystem defines its own
// constants using this type (e.g., "interview.turn", "rag.build.ready").
type EventType string

// Event is a single observability event. Data keys become structured log
// attributes when emitted through the slog observer.
type Event struct {
	Type   EventType
	Level  slog.Level
	Time   time.Time
	Source string
	Data   map[string]any
}

// Observer receives events from subsystems.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
