package adminauth_test

import (
	"context"
	"net/http"
	"testing"

	adminauth "github.com/harborpay/go-adminauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T, role adminauth.Role, tree *adminauth.ResourceTree) *adminauth.RouteGuard {
	t.Helper()

	exec := &MockExecutor{}
	exec.On("Do", mock.Anything, mock.Anything).Return(&adminauth.Response{
		Status: http.StatusOK,
		Body: adminauth.Envelope{
			"code":  1,
			"token": "T1",
			"data": map[string]any{
				"user": map[string]any{"username": "alice", "role": string(role)},
			},
		},
	}, nil).Once()

	manager, _ := newTestManager(exec, adminauth.NewMemoryStore())
	require.NoError(t, manager.Login(context.Background(), adminauth.LoginRequest{
		Username: "alice", Password: "correct",
	}))

	return adminauth.NewRouteGuard(manager, tree, adminauth.DefaultConfig())
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	exec := &MockExecutor{}
	manager, _ := newTestManager(exec, adminauth.NewMemoryStore())
	guard := adminauth.NewRouteGuard(manager, adminauth.DefaultResourceTree(), adminauth.DefaultConfig())

	decision := guard.CanAccess("/orders")
	assert.False(t, decision.Allow)
	assert.Equal(t, "/login", decision.RedirectTo)

	// the rejected path is replayed after login, then cleared
	assert.Equal(t, "/orders", guard.ConsumeReturnPath())
	assert.Equal(t, "/dashboard", guard.ConsumeReturnPath())
}

func TestGuardDoesNotRememberLoginRoute(t *testing.T) {
	exec := &MockExecutor{}
	manager, _ := newTestManager(exec, adminauth.NewMemoryStore())
	guard := adminauth.NewRouteGuard(manager, adminauth.DefaultResourceTree(), adminauth.DefaultConfig())

	guard.CanAccess("/login")
	assert.Equal(t, "/dashboard", guard.ConsumeReturnPath())
}

func TestGuardAllowsPermittedRoute(t *testing.T) {
	guard := newTestGuard(t, adminauth.RoleAdmin, adminauth.DefaultResourceTree())

	decision := guard.CanAccess("/merchants")
	assert.True(t, decision.Allow)
	assert.Empty(t, decision.RedirectTo)
}

func TestGuardRedirectsDeniedRouteToLanding(t *testing.T) {
	guard := newTestGuard(t, adminauth.RoleCS, adminauth.DefaultResourceTree())

	decision := guard.CanAccess("/stripe-accounts")
	assert.False(t, decision.Allow)
	assert.Equal(t, "/dashboard", decision.RedirectTo)
}

func TestGuardAllowsUnregisteredPath(t *testing.T) {
	guard := newTestGuard(t, adminauth.RoleMerchant, adminauth.DefaultResourceTree())

	decision := guard.CanAccess("/not-in-the-tree")
	assert.True(t, decision.Allow)
}

func TestGuardTerminalDenyWhenLandingIsDenied(t *testing.T) {
	tree := adminauth.NewResourceTree(adminauth.ResourceNode{
		Path:         "/dashboard",
		AllowedRoles: []adminauth.Role{adminauth.RoleSuperAdmin},
	})
	guard := newTestGuard(t, adminauth.RoleMerchant, tree)

	// no redirect target: redirecting to the landing route would loop
	decision := guard.CanAccess("/dashboard")
	assert.False(t, decision.Allow)
	assert.Empty(t, decision.RedirectTo)
}

func TestGuardFollowsRoleChangeAcrossChecks(t *testing.T) {
	exec := &MockExecutor{}
	cfg := adminauth.DefaultConfig()

	exec.On("Do", mock.Anything, requestTo(cfg.LoginEndpoint)).Return(&adminauth.Response{
		Status: http.StatusOK,
		Body: adminauth.Envelope{
			"code":  1,
			"token": "T1",
			"data": map[string]any{
				"user": map[string]any{"username": "alice", "role": "cs"},
			},
		},
	}, nil).Once()
	exec.On("Do", mock.Anything, requestTo(cfg.ProfileEndpoint)).Return(&adminauth.Response{
		Status: http.StatusOK,
		Body: adminauth.Envelope{
			"code": 1,
			"data": map[string]any{
				"user": map[string]any{"username": "alice", "role_source_id": 1},
			},
		},
	}, nil).Once()

	manager, _ := newTestManager(exec, adminauth.NewMemoryStore())
	guard := adminauth.NewRouteGuard(manager, adminauth.DefaultResourceTree(), cfg)

	require.NoError(t, manager.Login(context.Background(), adminauth.LoginRequest{
		Username: "alice", Password: "correct",
	}))
	assert.False(t, guard.CanAccess("/settings").Allow)

	// the refreshed profile promotes the user; the next check sees it
	require.NoError(t, manager.Revalidate(context.Background()))
	assert.True(t, guard.CanAccess("/settings").Allow)
}
