package adminauth_test

import (
	"encoding/json"
	"testing"

	adminauth "github.com/harborpay/go-adminauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeDomainCodeTopLevel(t *testing.T) {
	env := adminauth.Envelope{"code": float64(1)}

	code, ok := env.DomainCode()
	require.True(t, ok)
	assert.Equal(t, 1, code)
	assert.True(t, env.IsSuccess())
}

func TestEnvelopeDomainCodeNested(t *testing.T) {
	env := adminauth.Envelope{
		"data": map[string]any{"code": float64(401)},
	}

	code, ok := env.DomainCode()
	require.True(t, ok)
	assert.Equal(t, 401, code)
	assert.False(t, env.IsSuccess())
}

func TestEnvelopeDomainCodeCoercesNumericString(t *testing.T) {
	env := adminauth.Envelope{"code": "1"}

	assert.True(t, env.IsSuccess())
}

func TestEnvelopeDomainCodeAbsent(t *testing.T) {
	env := adminauth.Envelope{"msg": "hello"}

	_, ok := env.DomainCode()
	assert.False(t, ok)
	assert.False(t, env.IsSuccess())
}

func TestEnvelopeMessageFallsBackToLongForm(t *testing.T) {
	assert.Equal(t, "bad", adminauth.Envelope{"msg": "bad"}.Message())
	assert.Equal(t, "worse", adminauth.Envelope{"message": "worse"}.Message())
	assert.Equal(t, "", adminauth.Envelope{}.Message())
}

func TestEnvelopeTokenLookup(t *testing.T) {
	assert.Equal(t, "T1", adminauth.Envelope{"token": "T1"}.Token())
	assert.Equal(t, "T2", adminauth.Envelope{
		"data": map[string]any{"token": "T2"},
	}.Token())
	assert.Equal(t, "", adminauth.Envelope{}.Token())
}

func TestEnvelopeUser(t *testing.T) {
	env := adminauth.Envelope{
		"data": map[string]any{
			"user": map[string]any{"username": "alice"},
		},
	}

	user := env.User()
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username())

	assert.Nil(t, adminauth.Envelope{"data": "scalar"}.User())
	assert.Nil(t, adminauth.Envelope{}.User())
}

func TestEnvelopeCaptchaCodeExtractionOrder(t *testing.T) {
	// top-level field first
	code, ok := adminauth.Envelope{"code": "c-top"}.CaptchaCode()
	require.True(t, ok)
	assert.Equal(t, "c-top", code)

	// then nested data.code
	code, ok = adminauth.Envelope{
		"data": map[string]any{"code": "c-nested"},
	}.CaptchaCode()
	require.True(t, ok)
	assert.Equal(t, "c-nested", code)

	// then the whole data payload
	code, ok = adminauth.Envelope{"data": "c-raw"}.CaptchaCode()
	require.True(t, ok)
	assert.Equal(t, "c-raw", code)

	_, ok = adminauth.Envelope{"msg": "nothing here"}.CaptchaCode()
	assert.False(t, ok)
}

func TestEnvelopeFromDecodedJSON(t *testing.T) {
	raw := []byte(`{"code":1,"data":{"user":{"username":"alice"},"token":"T1"}}`)

	env := adminauth.Envelope{}
	require.NoError(t, json.Unmarshal(raw, &env))

	assert.True(t, env.IsSuccess())
	assert.Equal(t, "T1", env.Token())
	assert.Equal(t, "alice", env.User().Username())
}
