package adminauth

// Session is the authoritative record of who is logged in.
//
// Invariants: IsAuthenticated is true exactly when User is non-nil, and
// Credential is non-empty whenever IsAuthenticated is true. The record
// is exclusively mutated by Manager; everything else reads a snapshot.
type Session struct {
	IsAuthenticated bool        `json:"is_authenticated"`
	User            UserProfile `json:"user,omitempty"`
	Role            Role        `json:"role,omitempty"`
	MerchantID      string      `json:"merchant_id,omitempty"`
	Credential      string      `json:"credential,omitempty"`
	Loading         bool        `json:"loading,omitempty"`
	LastError       error       `json:"-"`
}

// UserProfile is the opaque identity payload returned by the backend.
// It always carries at least a username; everything else is kept as-is
// so partial server refreshes can merge without dropping local fields.
type UserProfile map[string]any

// Username returns the profile username, empty when absent.
func (u UserProfile) Username() string {
	return stringValue(u["username"])
}

// RoleSourceID returns the raw backend role identifier when present.
func (u UserProfile) RoleSourceID() (int, bool) {
	if u == nil {
		return 0, false
	}
	v, ok := u["role_source_id"]
	if !ok {
		return 0, false
	}
	return coerceInt(v)
}

// Clone returns a shallow copy so snapshots do not alias the
// authoritative record.
func (u UserProfile) Clone() UserProfile {
	if u == nil {
		return nil
	}
	out := make(UserProfile, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Merge overlays fresh fields onto the profile, field by field, so
// locally-known fields absent from a partial server response survive.
func (u UserProfile) Merge(fresh UserProfile) UserProfile {
	if len(fresh) == 0 {
		return u.Clone()
	}
	out := u.Clone()
	if out == nil {
		out = make(UserProfile, len(fresh))
	}
	for k, v := range fresh {
		out[k] = v
	}
	return out
}

// persistedSession is the durable record kept under the configured
// session key. It must round-trip exactly through the store.
type persistedSession struct {
	User       UserProfile `json:"user"`
	Role       Role        `json:"role"`
	MerchantID string      `json:"merchant_id"`
	Credential string      `json:"credential"`
}
