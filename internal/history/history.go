package history

import (
	"context"
	"time"
)

// EventType defines the kind of supervisor lifecycle event.
type EventType string

const (
	EventStart    EventType = "start"
	EventStop     EventType = "stop"
	EventRestart  EventType = "restart"
	EventCooldown EventType = "cooldown"
)

// Event is one supervisor lifecycle observation exported to an external
// audit table.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Name       string    `json:"name"`
	PID        int       `json:"pid"`
	ExitCode   int       `json:"exit_code"`
	Detail     string    `json:"detail,omitempty"`
}

// Sink is a destination for history events. Implementations must be safe
// for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}
