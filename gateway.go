package adminauth

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// CredentialGateway is the single process-wide place that knows the
// current bearer credential. Every outbound call flows through Execute,
// which injects the display language and credential header, normalizes
// failures, and reacts to a transport-level 401 by tearing the session
// down at most once, never from inside each caller.
type CredentialGateway struct {
	exec      RequestExecutor
	cfg       Config
	logger    Logger
	sink      EventSink
	navigator Navigator

	// onUnauthorized is the registered teardown callback. The gateway
	// depends on the callback, never on the Manager, keeping the
	// dependency direction acyclic.
	onUnauthorized func(ctx context.Context)

	mu         sync.RWMutex
	credential string

	tearingDown atomic.Bool
}

// GatewayOption customizes gateway construction.
type GatewayOption func(*CredentialGateway)

// WithGatewayLogger overrides the gateway logger.
func WithGatewayLogger(logger Logger) GatewayOption {
	return func(g *CredentialGateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithGatewayNavigator wires the navigation layer used for the 401
// teardown redirect. Without one, teardown still clears state but no
// redirect happens.
func WithGatewayNavigator(nav Navigator) GatewayOption {
	return func(g *CredentialGateway) {
		g.navigator = nav
	}
}

// WithGatewayEventSink sets the sink notified on forced teardowns.
func WithGatewayEventSink(sink EventSink) GatewayOption {
	return func(g *CredentialGateway) {
		g.sink = normalizeEventSink(sink)
	}
}

// NewCredentialGateway returns a gateway delegating to exec.
func NewCredentialGateway(exec RequestExecutor, cfg Config, opts ...GatewayOption) *CredentialGateway {
	g := &CredentialGateway{
		exec:   exec,
		cfg:    cfg.normalized(),
		logger: defLogger{},
		sink:   noopEventSink{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// OnUnauthorized registers the teardown callback invoked when the
// backend rejects the credential.
func (g *CredentialGateway) OnUnauthorized(fn func(ctx context.Context)) {
	g.onUnauthorized = fn
}

// SetCredential installs token on every future request.
func (g *CredentialGateway) SetCredential(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.credential = token
}

// ClearCredential removes the stored credential.
func (g *CredentialGateway) ClearCredential() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.credential = ""
}

// Credential returns the currently installed credential.
func (g *CredentialGateway) Credential() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.credential
}

// Execute performs one backend call. The returned error is always a
// normalized rich error: transport failures carry the sentinel
// transport text code, HTTP failures carry the status as code. A 401
// additionally triggers the teardown side effect before returning.
func (g *CredentialGateway) Execute(ctx context.Context, req Request) (Envelope, error) {
	// injection works on copies so the caller's maps stay untouched
	body := make(map[string]any, len(req.Body)+1)
	for k, v := range req.Body {
		body[k] = v
	}
	body["lang"] = g.cfg.Language
	req.Body = body

	if credential := g.Credential(); credential != "" {
		headers := make(map[string]string, len(req.Headers)+1)
		for k, v := range req.Headers {
			headers[k] = v
		}
		headers[g.cfg.CredentialHeader] = credential
		req.Headers = headers
	}

	resp, err := g.exec.Do(ctx, req)
	if err != nil {
		richErr := newTransportFailure(err)
		g.logger.Warn("request to %s failed: %s", req.Path, richErr.Message)
		return nil, richErr
	}

	if resp.Status == http.StatusUnauthorized {
		g.handleUnauthorized(ctx)
		return nil, cloneWithMetadata(ErrUnauthorized, map[string]any{
			"path":   req.Path,
			"status": resp.Status,
		})
	}

	if resp.Status >= http.StatusBadRequest {
		message := resp.Body.Message()
		if message == "" {
			message = http.StatusText(resp.Status)
		}
		richErr := goerrors.New(message, goerrors.CategoryOperation).
			WithCode(resp.Status).
			WithMetadata(map[string]any{"path": req.Path})
		g.logger.Warn("request to %s rejected: %s", req.Path, print.MaybePrettyJSON(richErr.Metadata))
		return nil, richErr
	}

	return resp.Body, nil
}

// handleUnauthorized runs the process-wide "session died server-side"
// reaction: clear the credential, invoke the registered teardown, and
// redirect to the login route unless navigation already sits on it or
// on a public prefix. Concurrent 401s collapse into a single run.
func (g *CredentialGateway) handleUnauthorized(ctx context.Context) {
	if !g.tearingDown.CompareAndSwap(false, true) {
		return
	}
	defer g.tearingDown.Store(false)

	g.logger.Warn("credential rejected by backend, tearing down session")
	g.ClearCredential()

	if g.onUnauthorized != nil {
		g.onUnauthorized(ctx)
	}

	g.emit(ctx, Event{EventType: EventTeardown})

	if g.navigator == nil {
		return
	}

	current := g.navigator.CurrentPath()
	if current == g.cfg.LoginRoute || g.isPublicPath(current) {
		// already somewhere a fresh login can happen; redirecting
		// again would loop
		return
	}
	g.navigator.Redirect(g.cfg.LoginRoute)
}

func (g *CredentialGateway) isPublicPath(path string) bool {
	for _, prefix := range g.cfg.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *CredentialGateway) emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	sink := normalizeEventSink(g.sink)
	if err := sink.Record(ctx, event); err != nil {
		g.logger.Warn("gateway event sink error: %v", err)
	}
}
