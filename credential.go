package adminauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialExpiry reports the expiry of a bearer credential when the
// backend happens to issue it as a JWT. The token is treated as opaque
// otherwise. Nothing is verified here; the result is advisory, useful
// for scheduling a proactive revalidation, and must never gate access
// on its own.
func CredentialExpiry(credential string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return time.Time{}, false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}
