package adminauth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// KeyValueStore is the durable, origin-scoped store that holds the
// persisted session record. Delete of a missing key must be a no-op.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Request describes one outbound backend call.
type Request struct {
	Path    string
	Method  string
	Body    map[string]any
	Headers map[string]string
}

// Response is the raw outcome of a transport round trip. HTTP-level
// failures surface through Status, transport-level failures as errors
// from RequestExecutor.Do.
type Response struct {
	Status int
	Body   Envelope
}

// RequestExecutor performs network calls for the gateway. It is a
// pluggable collaborator; HTTPExecutor is the default implementation.
type RequestExecutor interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Navigator abstracts the navigation layer the gateway redirects
// through after a forced teardown.
type Navigator interface {
	CurrentPath() string
	Redirect(path string)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ADMINAUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ADMINAUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ADMINAUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ADMINAUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
