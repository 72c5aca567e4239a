package adminauth

import (
	"context"
	"time"
)

// EventType enumerates supported session event categories.
type EventType string

const (
	EventLoginSuccess    EventType = "session.login.success"
	EventLoginFailure    EventType = "session.login.failure"
	EventCaptchaRequired EventType = "session.login.captcha_required"
	EventRestored        EventType = "session.restored"
	EventRevalidated     EventType = "session.revalidated"
	EventLogout          EventType = "session.logout"
	EventTeardown        EventType = "session.teardown"
)

// Event captures one session-adjacent signal. Consumers render toasts
// or forward telemetry; the core only emits.
type Event struct {
	ID         string
	EventType  EventType
	Username   string
	Metadata   map[string]any
	OccurredAt time.Time
}

// EventSink consumes session events.
type EventSink interface {
	Record(ctx context.Context, event Event) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, event Event) error

// Record implements EventSink.
func (f EventSinkFunc) Record(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopEventSink struct{}

func (noopEventSink) Record(context.Context, Event) error {
	return nil
}

func normalizeEventSink(s EventSink) EventSink {
	if s == nil {
		return noopEventSink{}
	}
	return s
}
