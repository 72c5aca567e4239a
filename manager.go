package adminauth

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// State is the session lifecycle state.
type State string

const (
	StateAnonymous       State = "anonymous"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateCaptchaRequired State = "captcha_required"
)

// sessionTransitions is the allowed lifecycle graph. CaptchaRequired is
// only reachable from a failed authentication attempt; teardown returns
// every state to Anonymous.
var sessionTransitions = map[State]map[State]struct{}{
	StateAnonymous: {
		StateAuthenticating: {},
		// optimistic restore authenticates straight from the cache
		StateAuthenticated: {},
	},
	StateAuthenticating: {
		StateAuthenticated:   {},
		StateCaptchaRequired: {},
		StateAnonymous:       {},
	},
	StateCaptchaRequired: {
		StateAuthenticating: {},
		StateAnonymous:      {},
	},
	StateAuthenticated: {
		StateAuthenticating: {},
		StateAnonymous:      {},
	},
}

// LoginRequest carries one login attempt.
type LoginRequest struct {
	Username    string
	Password    string
	CaptchaCode string
	// Remember persists the session; otherwise it lives for the
	// process only.
	Remember bool
}

// Validate implements the request contract: username and password are
// both required.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type captchaRequest struct {
	Username string
}

func (r captchaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
	)
}

// Manager owns the authoritative in-memory session record, its
// persistence, and the login/restore/revalidate/logout protocol.
// State transitions are a critical section; callers gate concurrent
// logins with the Loading flag exposed on the Session snapshot.
type Manager struct {
	cfg     Config
	gateway *CredentialGateway
	store   KeyValueStore
	logger  Logger
	sink    EventSink
	now     func() time.Time

	mu       sync.Mutex
	state    State
	session  Session
	remember bool

	ready     chan struct{}
	readyOnce sync.Once
}

// ManagerOption customizes manager construction.
type ManagerOption func(*Manager)

// WithManagerLogger overrides the manager logger.
func WithManagerLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerClock injects a custom clock (useful for tests).
func WithManagerClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithManagerEventSink sets the EventSink used to publish session events.
func WithManagerEventSink(sink EventSink) ManagerOption {
	return func(m *Manager) {
		m.sink = normalizeEventSink(sink)
	}
}

// NewManager returns a manager bound to the gateway and durable store.
// It registers itself as the gateway's teardown callback.
func NewManager(gateway *CredentialGateway, store KeyValueStore, cfg Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:     cfg.normalized(),
		gateway: gateway,
		store:   store,
		logger:  defLogger{},
		sink:    noopEventSink{},
		now:     time.Now,
		state:   StateAnonymous,
		ready:   make(chan struct{}),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	gateway.OnUnauthorized(m.forceTeardown)

	return m
}

// Ready is closed once Restore finished its local phase. It signals
// "initialization complete", which is distinct from "authenticated":
// an unauthenticated-but-initialized process renders the login screen
// promptly instead of blocking on the network.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns a snapshot of the session record. The snapshot does
// not alias the authoritative record.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.session
	snapshot.User = m.session.User.Clone()
	return snapshot
}

// EffectiveRole derives the role for the current session. The
// derivation is recomputed on every call because the profile can be
// refreshed independently of the stored role.
func (m *Manager) EffectiveRole() Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return DeriveRole(m.session.User, m.session.Role)
}

// Restore reads the persisted session and, when one exists, moves to
// Authenticated using the cached record before kicking off a background
// revalidation. It never blocks the caller on the network round trip;
// store failures degrade to an anonymous start instead of surfacing.
func (m *Manager) Restore(ctx context.Context) error {
	defer m.markReady()

	raw, found, err := m.store.Get(ctx, m.cfg.SessionKey)
	if err != nil {
		m.logger.Warn("session restore: store read failed: %v", err)
		return nil
	}
	if !found {
		return nil
	}

	var record persistedSession
	if err := json.Unmarshal(raw, &record); err != nil {
		m.logger.Warn("session restore: corrupt record, discarding: %v", err)
		if err := m.store.Delete(ctx, m.cfg.SessionKey); err != nil {
			m.logger.Warn("session restore: discard failed: %v", err)
		}
		return nil
	}

	if record.Credential == "" || record.User == nil {
		m.logger.Warn("session restore: incomplete record, staying anonymous")
		return nil
	}

	if expiry, ok := CredentialExpiry(record.Credential); ok && expiry.Before(m.now()) {
		m.logger.Debug("cached credential expired at %s, revalidation will confirm", expiry.Format(time.RFC3339))
	}

	m.mu.Lock()
	if err := m.transitionLocked(StateAuthenticated); err != nil {
		m.mu.Unlock()
		return err
	}
	m.session = Session{
		IsAuthenticated: true,
		User:            record.User,
		Role:            record.Role,
		MerchantID:      record.MerchantID,
		Credential:      record.Credential,
	}
	m.remember = true
	m.mu.Unlock()

	m.gateway.SetCredential(record.Credential)
	m.emit(ctx, EventRestored, record.User.Username(), nil)

	go func() {
		if err := m.Revalidate(context.Background()); err != nil {
			m.logger.Debug("background revalidation: %v", err)
		}
	}()

	return nil
}

// Revalidate asks the backend who the session belongs to. Fresh profile
// fields merge into the cached user; a domain-level 401 means the
// session was revoked server-side and forces a logout. Transport
// failures are swallowed: a stale cached session beats a forced logout
// on a flaky network.
func (m *Manager) Revalidate(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	envelope, err := m.gateway.Execute(ctx, Request{
		Path:   m.cfg.ProfileEndpoint,
		Method: http.MethodPost,
	})
	if err != nil {
		// a transport 401 already tore the session down inside the
		// gateway; everything else is a soft failure
		m.logger.Warn("session revalidation failed: %v", err)
		return nil
	}

	if code, ok := envelope.DomainCode(); ok && code == domainCodeRevoked {
		m.logger.Info("session revoked server-side, logging out")
		return m.Logout(ctx)
	}

	if !envelope.IsSuccess() {
		m.logger.Warn("unexpected revalidation response, keeping cached session")
		return nil
	}

	fresh := envelope.User()
	if fresh == nil {
		m.logger.Warn("revalidation response carried no user, keeping cached session")
		return nil
	}

	m.mu.Lock()
	if m.state != StateAuthenticated {
		// torn down while the round trip was in flight
		m.mu.Unlock()
		return nil
	}
	m.session.User = m.session.User.Merge(fresh)
	username := m.session.User.Username()
	remember := m.remember
	m.mu.Unlock()

	if remember {
		m.persist(ctx)
	}

	m.emit(ctx, EventRevalidated, username, nil)
	return nil
}

// Login runs one authentication attempt. The backend's domain success
// sentinel decides the outcome, not the HTTP status. On a rejection
// that names a captcha, and only when no code was supplied yet, the
// manager moves to CaptchaRequired and returns ErrCaptchaRequired so
// the caller can reveal a captcha field instead of a raw failure.
func (m *Manager) Login(ctx context.Context, req LoginRequest) error {
	if err := req.Validate(); err != nil {
		return cloneWithMetadata(ErrMissingCredentials, map[string]any{
			"validation": err.Error(),
		})
	}

	m.mu.Lock()
	if m.session.Loading {
		m.mu.Unlock()
		return ErrLoginInFlight
	}
	prior := m.state
	if err := m.transitionLocked(StateAuthenticating); err != nil {
		m.mu.Unlock()
		return err
	}
	m.session.Loading = true
	m.session.LastError = nil
	m.mu.Unlock()

	body := map[string]any{
		"username": req.Username,
		"password": req.Password,
	}
	if req.CaptchaCode != "" {
		body["captcha_code"] = req.CaptchaCode
	}

	envelope, err := m.gateway.Execute(ctx, Request{
		Path:   m.cfg.LoginEndpoint,
		Method: http.MethodPost,
		Body:   body,
	})
	if err != nil {
		m.settleFailedAttempt(failedLoginState(prior, StateAnonymous), err)
		m.emit(ctx, EventLoginFailure, req.Username, map[string]any{"error": err.Error()})
		return err
	}

	if !envelope.IsSuccess() {
		domainCode, _ := envelope.DomainCode()
		rejection := newDomainRejected(envelope.Message(), domainCode)

		if req.CaptchaCode == "" && IsCaptchaRequiredError(rejection) {
			m.settleFailedAttempt(failedLoginState(prior, StateCaptchaRequired), rejection)
			m.emit(ctx, EventCaptchaRequired, req.Username, nil)
			return cloneWithMetadata(ErrCaptchaRequired, map[string]any{
				"message": rejection.Message,
			})
		}

		m.settleFailedAttempt(failedLoginState(prior, StateAnonymous), rejection)
		m.emit(ctx, EventLoginFailure, req.Username, map[string]any{
			"message":     rejection.Message,
			"domain_code": domainCode,
		})
		return rejection
	}

	user := envelope.User()
	token := envelope.Token()
	if user == nil || token == "" {
		malformed := goerrors.New("login response missing user or token", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
		m.settleFailedAttempt(failedLoginState(prior, StateAnonymous), malformed)
		m.emit(ctx, EventLoginFailure, req.Username, map[string]any{"error": malformed.Message})
		return malformed
	}

	role := RoleMerchant
	if parsed, ok := ParseRole(stringValue(user["role"])); ok {
		role = parsed
	} else if data := envelope.Data(); data != nil {
		if parsed, ok := ParseRole(stringValue(data["role"])); ok {
			role = parsed
		}
	}

	merchantID := stringValue(user["merchant_id"])
	if merchantID == "" {
		if data := envelope.Data(); data != nil {
			merchantID = stringValue(data["merchant_id"])
		}
	}

	m.mu.Lock()
	if err := m.transitionLocked(StateAuthenticated); err != nil {
		m.mu.Unlock()
		return err
	}
	m.session = Session{
		IsAuthenticated: true,
		User:            user,
		Role:            role,
		MerchantID:      merchantID,
		Credential:      token,
	}
	m.remember = req.Remember
	m.mu.Unlock()

	m.gateway.SetCredential(token)

	if req.Remember {
		m.persist(ctx)
	}

	m.emit(ctx, EventLoginSuccess, user.Username(), map[string]any{"role": string(role)})
	return nil
}

// RequestCaptcha fetches a fresh captcha code for username.
func (m *Manager) RequestCaptcha(ctx context.Context, username string) (string, error) {
	if err := (captchaRequest{Username: username}).Validate(); err != nil {
		return "", cloneWithMetadata(ErrMissingUsername, map[string]any{
			"validation": err.Error(),
		})
	}

	envelope, err := m.gateway.Execute(ctx, Request{
		Path:   m.cfg.CaptchaEndpoint,
		Method: http.MethodPost,
		Body:   map[string]any{"username": username},
	})
	if err != nil {
		return "", err
	}

	code, ok := envelope.CaptchaCode()
	if !ok {
		return "", ErrCaptchaUnavailable
	}
	return code, nil
}

// Logout notifies the backend best-effort and always tears the local
// session down, ending in Anonymous regardless of network outcome.
// Calling it twice is safe.
func (m *Manager) Logout(ctx context.Context) error {
	if _, err := m.gateway.Execute(ctx, Request{
		Path:   m.cfg.LogoutEndpoint,
		Method: http.MethodPost,
	}); err != nil {
		m.logger.Debug("logout endpoint: %v", err)
	}

	username := m.Current().User.Username()
	m.forceTeardown(ctx)
	m.emit(ctx, EventLogout, username, nil)
	return nil
}

// forceTeardown resets the session to the empty record, clears the
// gateway credential, and deletes the persisted record. It is the
// gateway's registered 401 callback and converges with a concurrent
// user-initiated Logout: whichever runs second is a no-op.
func (m *Manager) forceTeardown(ctx context.Context) {
	m.mu.Lock()
	if m.state == StateAnonymous && !m.session.IsAuthenticated && !m.session.Loading {
		m.mu.Unlock()
		return
	}
	m.setStateLocked(StateAnonymous)
	m.session = Session{}
	m.remember = false
	m.mu.Unlock()

	m.gateway.ClearCredential()

	if err := m.store.Delete(ctx, m.cfg.SessionKey); err != nil {
		m.logger.Warn("persisted session delete: %v", err)
	}
}

func (m *Manager) persist(ctx context.Context) {
	m.mu.Lock()
	record := persistedSession{
		User:       m.session.User.Clone(),
		Role:       m.session.Role,
		MerchantID: m.session.MerchantID,
		Credential: m.session.Credential,
	}
	m.mu.Unlock()

	raw, err := json.Marshal(record)
	if err != nil {
		m.logger.Error("session persist: encode failed: %v", err)
		return
	}

	if err := m.store.Set(ctx, m.cfg.SessionKey, raw); err != nil {
		m.logger.Warn("session persist: store write failed: %v", err)
	}
}

// settleFailedAttempt records the failure outcome of an attempt.
func (m *Manager) settleFailedAttempt(state State, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setStateLocked(state)
	m.session.Loading = false
	m.session.LastError = cause
}

// failedLoginState picks where a failed attempt settles. A re-login
// issued from an authenticated session falls back to the session it
// never left; everything else settles on the attempt's failure state,
// keeping state and session record in agreement.
func failedLoginState(prior, fallback State) State {
	if prior == StateAuthenticated {
		return StateAuthenticated
	}
	return fallback
}

func (m *Manager) transitionLocked(to State) error {
	allowed, ok := sessionTransitions[m.state]
	if ok {
		if _, ok := allowed[to]; ok {
			m.state = to
			return nil
		}
	}
	return cloneWithMetadata(ErrInvalidTransition, map[string]any{
		"from": string(m.state),
		"to":   string(to),
	})
}

// setStateLocked forces the state without consulting the transition
// graph; teardown paths must always converge on their target.
func (m *Manager) setStateLocked(to State) {
	m.state = to
}

func (m *Manager) markReady() {
	m.readyOnce.Do(func() {
		close(m.ready)
	})
}

func (m *Manager) emit(ctx context.Context, eventType EventType, username string, metadata map[string]any) {
	event := Event{
		ID:         uuid.NewString(),
		EventType:  eventType,
		Username:   username,
		Metadata:   metadata,
		OccurredAt: m.now(),
	}

	sink := normalizeEventSink(m.sink)
	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("event sink record error: %v", err)
	}
}
