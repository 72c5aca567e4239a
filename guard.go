package adminauth

import "sync"

// Decision is the outcome of one navigation check. Allow grants the
// route; otherwise RedirectTo names where to go, and an empty
// RedirectTo is the terminal "access denied" state: rendering it beats
// a redirect loop when the landing route itself is denied.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// RouteGuard gates navigation by composing the session snapshot with
// the resource tree. It owns no rendering and no transport; any
// navigation layer calls CanAccess before committing a route change.
type RouteGuard struct {
	sessions *Manager
	tree     *ResourceTree
	cfg      Config
	logger   Logger

	mu         sync.Mutex
	returnPath string
}

// GuardOption customizes guard construction.
type GuardOption func(*RouteGuard)

// WithGuardLogger overrides the guard logger.
func WithGuardLogger(logger Logger) GuardOption {
	return func(g *RouteGuard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewRouteGuard returns a guard over the given session manager and
// resource tree.
func NewRouteGuard(sessions *Manager, tree *ResourceTree, cfg Config, opts ...GuardOption) *RouteGuard {
	g := &RouteGuard{
		sessions: sessions,
		tree:     tree,
		cfg:      cfg.normalized(),
		logger:   defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// CanAccess evaluates one navigation attempt synchronously against the
// current session snapshot and the resource tree.
func (g *RouteGuard) CanAccess(path string) Decision {
	snapshot := g.sessions.Current()

	if !snapshot.IsAuthenticated {
		g.rememberPath(path)
		return Decision{Allow: false, RedirectTo: g.cfg.LoginRoute}
	}

	role := g.sessions.EffectiveRole()
	if g.tree.Resolve(path, role) {
		return Decision{Allow: true}
	}

	if path != g.cfg.LandingRoute {
		g.logger.Debug("access to %s denied for role %s, redirecting to %s", path, role, g.cfg.LandingRoute)
		return Decision{Allow: false, RedirectTo: g.cfg.LandingRoute}
	}

	// the landing route itself is denied: a self-contradictory tree
	g.logger.Warn("landing route %s denied for role %s", path, role)
	return Decision{Allow: false}
}

// ConsumeReturnPath yields the path requested before the login
// redirect, falling back to the landing route, and clears it so the
// next login starts fresh.
func (g *RouteGuard) ConsumeReturnPath() string {
	g.mu.Lock()
	remembered := g.returnPath
	g.returnPath = ""
	g.mu.Unlock()

	if remembered == "" {
		return g.cfg.LandingRoute
	}
	return remembered
}

func (g *RouteGuard) rememberPath(path string) {
	if path == "" || path == g.cfg.LoginRoute {
		return
	}

	g.mu.Lock()
	g.returnPath = path
	g.mu.Unlock()
}
