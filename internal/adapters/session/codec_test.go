package session

import (
	"testing"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession(expiresAt time.Time) domain.Session {
	p := domain.Principal{ID: "u1", Email: "gildas@marmelab.com"}
	return domain.Session{
		Principal: p,
		Strategy:  domain.StrategyAdmin,
		Upstream: domain.UpstreamSession{
			AccessToken: "at",
			TokenType:   "bearer",
			ExpiresAt:   expiresAt,
			User:        p,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	codec := NewCodec("secret")
	in := sampleSession(time.Now().Add(time.Hour).UTC().Truncate(time.Second))

	value, err := codec.Encode(in)
	require.NoError(t, err)

	out, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, in.Principal, out.Principal)
	assert.Equal(t, domain.StrategyAdmin, out.Strategy)
	assert.Equal(t, "at", out.Upstream.AccessToken)
	assert.True(t, in.Upstream.ExpiresAt.Equal(out.Upstream.ExpiresAt))
}

func TestDecodeRejectsForeignSignature(t *testing.T) {
	value, err := NewCodec("secret").Encode(sampleSession(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	_, err = NewCodec("other").Decode(value)
	assert.Error(t, err)
}

func TestDecodeRejectsExpired(t *testing.T) {
	codec := NewCodec("secret")
	value, err := codec.Encode(sampleSession(time.Now().Add(-time.Minute)))
	require.NoError(t, err)

	_, err = codec.Decode(value)
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := NewCodec("secret").Decode("not-a-token")
	assert.Error(t, err)
}

func TestEncodeNeedsSecret(t *testing.T) {
	_, err := NewCodec("").Encode(sampleSession(time.Now().Add(time.Hour)))
	assert.Error(t, err)
}

func TestCookieCarriesOnlyTheAccessToken(t *testing.T) {
	value, err := NewCodec("secret").Encode(sampleSession(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(value, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)

	upstream, ok := claims["admin:session"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "at", upstream["access_token"])
	assert.NotContains(t, upstream, "refresh_token")
}
