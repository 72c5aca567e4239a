package adminauth

import (
	"encoding/json"
	"strconv"
)

// Backend domain status sentinels. These are domain codes inside the
// response body, distinct from transport-level HTTP statuses.
const (
	domainCodeSuccess = 1
	domainCodeRevoked = 401
)

// Envelope is the loosely shaped JSON body returned by the admin
// backend. Fields move around between endpoints (top level vs nested
// under data), so access goes through tolerant helpers instead of a
// rigid struct.
type Envelope map[string]any

// DomainCode returns the domain status carried at the top level or
// nested under data.code. Numeric strings coerce.
func (e Envelope) DomainCode() (int, bool) {
	if c, ok := coerceInt(e["code"]); ok {
		return c, true
	}
	if data, ok := e["data"].(map[string]any); ok {
		if c, ok := coerceInt(data["code"]); ok {
			return c, true
		}
	}
	return 0, false
}

// IsSuccess reports whether the envelope carries the success sentinel.
func (e Envelope) IsSuccess() bool {
	code, ok := e.DomainCode()
	return ok && code == domainCodeSuccess
}

// Message returns the human-readable failure message, if any.
func (e Envelope) Message() string {
	if msg := stringValue(e["msg"]); msg != "" {
		return msg
	}
	return stringValue(e["message"])
}

// Data returns the nested payload object, nil when absent or scalar.
func (e Envelope) Data() map[string]any {
	data, _ := e["data"].(map[string]any)
	return data
}

// Token returns the credential, looked up at the top level first and
// then under data.
func (e Envelope) Token() string {
	if token := stringValue(e["token"]); token != "" {
		return token
	}
	if data := e.Data(); data != nil {
		return stringValue(data["token"])
	}
	return ""
}

// User returns the profile payload under data.user.
func (e Envelope) User() UserProfile {
	data := e.Data()
	if data == nil {
		return nil
	}
	user, ok := data["user"].(map[string]any)
	if !ok {
		return nil
	}
	return UserProfile(user)
}

// CaptchaCode extracts the opaque captcha code from a response whose
// shape varies: a top-level code, then data.code, then the whole data
// payload, first non-empty wins.
func (e Envelope) CaptchaCode() (string, bool) {
	if code := stringValue(e["code"]); code != "" {
		return code, true
	}
	if data := e.Data(); data != nil {
		if code := stringValue(data["code"]); code != "" {
			return code, true
		}
	}
	if code := stringValue(e["data"]); code != "" {
		return code, true
	}
	return "", false
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
