package adminauth

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries the endpoint, header, and routing knobs shared by the
// gateway, manager, and guard.
type Config struct {
	// Backend endpoints, resolved against BaseURL by the executor.
	BaseURL         string
	LoginEndpoint   string
	ProfileEndpoint string
	LogoutEndpoint  string
	CaptchaEndpoint string

	// CredentialHeader names the custom header carrying the bearer
	// credential; the credential is never a cookie.
	CredentialHeader string

	// Language is injected into every outgoing request body.
	Language string

	// Navigation routes. PublicPrefixes are exempt from the 401
	// teardown redirect.
	LoginRoute     string
	LandingRoute   string
	PublicPrefixes []string

	// SessionKey is the durable store key for the persisted record.
	SessionKey string
}

// DefaultConfig returns the baked-in defaults for the admin panel.
func DefaultConfig() Config {
	return Config{
		LoginEndpoint:    "/auth/login",
		ProfileEndpoint:  "/auth/me",
		LogoutEndpoint:   "/auth/logout",
		CaptchaEndpoint:  "/auth/captcha",
		CredentialHeader: "X-Admin-Token",
		Language:         "en",
		LoginRoute:       "/login",
		LandingRoute:     "/dashboard",
		PublicPrefixes:   []string{"/public"},
		SessionKey:       "session",
	}
}

// LoadConfig reads configuration from the environment, loading a local
// .env file when present. Unset variables keep their defaults.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	setString(&cfg.BaseURL, "ADMINAUTH_BASE_URL")
	setString(&cfg.LoginEndpoint, "ADMINAUTH_LOGIN_ENDPOINT")
	setString(&cfg.ProfileEndpoint, "ADMINAUTH_PROFILE_ENDPOINT")
	setString(&cfg.LogoutEndpoint, "ADMINAUTH_LOGOUT_ENDPOINT")
	setString(&cfg.CaptchaEndpoint, "ADMINAUTH_CAPTCHA_ENDPOINT")
	setString(&cfg.CredentialHeader, "ADMINAUTH_CREDENTIAL_HEADER")
	setString(&cfg.Language, "ADMINAUTH_LANGUAGE")
	setString(&cfg.LoginRoute, "ADMINAUTH_LOGIN_ROUTE")
	setString(&cfg.LandingRoute, "ADMINAUTH_LANDING_ROUTE")
	setString(&cfg.SessionKey, "ADMINAUTH_SESSION_KEY")

	if v := os.Getenv("ADMINAUTH_PUBLIC_PREFIXES"); v != "" {
		prefixes := []string{}
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				prefixes = append(prefixes, p)
			}
		}
		cfg.PublicPrefixes = prefixes
	}

	return cfg
}

// normalized backfills zero-value fields so partially constructed
// configs behave.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.LoginEndpoint == "" {
		c.LoginEndpoint = def.LoginEndpoint
	}
	if c.ProfileEndpoint == "" {
		c.ProfileEndpoint = def.ProfileEndpoint
	}
	if c.LogoutEndpoint == "" {
		c.LogoutEndpoint = def.LogoutEndpoint
	}
	if c.CaptchaEndpoint == "" {
		c.CaptchaEndpoint = def.CaptchaEndpoint
	}
	if c.CredentialHeader == "" {
		c.CredentialHeader = def.CredentialHeader
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.LoginRoute == "" {
		c.LoginRoute = def.LoginRoute
	}
	if c.LandingRoute == "" {
		c.LandingRoute = def.LandingRoute
	}
	if c.SessionKey == "" {
		c.SessionKey = def.SessionKey
	}
	return c
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
