package adminauth_test

import (
	"testing"

	adminauth "github.com/harborpay/go-adminauth"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := adminauth.DefaultConfig()

	assert.Equal(t, "/auth/login", cfg.LoginEndpoint)
	assert.Equal(t, "/auth/me", cfg.ProfileEndpoint)
	assert.Equal(t, "X-Admin-Token", cfg.CredentialHeader)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "/login", cfg.LoginRoute)
	assert.Equal(t, "/dashboard", cfg.LandingRoute)
	assert.Equal(t, []string{"/public"}, cfg.PublicPrefixes)
	assert.Equal(t, "session", cfg.SessionKey)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ADMINAUTH_BASE_URL", "https://admin.example.com")
	t.Setenv("ADMINAUTH_LOGIN_ENDPOINT", "/v2/login")
	t.Setenv("ADMINAUTH_CREDENTIAL_HEADER", "X-Custom-Token")
	t.Setenv("ADMINAUTH_LANGUAGE", "pt")
	t.Setenv("ADMINAUTH_PUBLIC_PREFIXES", "/public, /docs ,/status")

	cfg := adminauth.LoadConfig()

	assert.Equal(t, "https://admin.example.com", cfg.BaseURL)
	assert.Equal(t, "/v2/login", cfg.LoginEndpoint)
	assert.Equal(t, "X-Custom-Token", cfg.CredentialHeader)
	assert.Equal(t, "pt", cfg.Language)
	assert.Equal(t, []string{"/public", "/docs", "/status"}, cfg.PublicPrefixes)

	// untouched fields keep their defaults
	assert.Equal(t, "/auth/me", cfg.ProfileEndpoint)
	assert.Equal(t, "/dashboard", cfg.LandingRoute)
}
