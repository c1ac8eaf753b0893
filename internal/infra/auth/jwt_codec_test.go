package auth

import (
	"strings"
	"testing"
	"time"

	"authgate/config"
	"authgate/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *jwtCodec {
	t.Helper()

	cfg := &config.Config{
		Token: &config.TokenConfig{Secret: "test_token_secret_very_long_for_testing"},
	}

	codec, err := NewTokenCodec(cfg)
	require.NoError(t, err)

	return codec.(*jwtCodec)
}

func testToken(ttl time.Duration) *entity.AuthToken {
	now := time.Now()

	return &entity.AuthToken{
		Username:  "user2",
		Domain:    "api.test.com",
		ClientID:  "1234567",
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		UserData:  map[string]any{"userData": "userValue"},
		TokenData: map[string]any{"tokenData": "tokenValue"},
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	encoded, err := codec.Encode(testToken(20 * time.Minute))
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, "user2", decoded.Username)
	assert.Equal(t, "api.test.com", decoded.Domain)
	assert.Equal(t, "1234567", decoded.ClientID)
	assert.Equal(t, map[string]any{"userData": "userValue"}, decoded.UserData)
	assert.Equal(t, map[string]any{"tokenData": "tokenValue"}, decoded.TokenData)
	assert.WithinDuration(t, time.Now().Add(20*time.Minute), decoded.ExpiresAt, 5*time.Second)
}

func TestTokenCodec_MalformedToken(t *testing.T) {
	codec := newTestCodec(t)

	for _, bad := range []string{"Invalid token", "", "a.b.c"} {
		decoded, err := codec.Decode(bad)
		assert.Nil(t, decoded)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestTokenCodec_TamperedPayload(t *testing.T) {
	codec := newTestCodec(t)

	encoded, err := codec.Encode(testToken(time.Hour))
	require.NoError(t, err)

	// Swap the payload segment for another token's payload; the signature no
	// longer covers it.
	other, err := codec.Encode(&entity.AuthToken{
		Username:  "mallory",
		Domain:    "api.test.com",
		ClientID:  "1234567",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	parts := strings.Split(encoded, ".")
	otherParts := strings.Split(other, ".")
	require.Len(t, parts, 3)
	require.Len(t, otherParts, 3)

	forged := strings.Join([]string{parts[0], otherParts[1], parts[2]}, ".")

	decoded, err := codec.Decode(forged)
	assert.Nil(t, decoded)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	codec := newTestCodec(t)

	otherCodec, err := NewTokenCodec(&config.Config{
		Token: &config.TokenConfig{Secret: "another_secret_entirely"},
	})
	require.NoError(t, err)

	encoded, err := otherCodec.Encode(testToken(time.Hour))
	require.NoError(t, err)

	decoded, err := codec.Decode(encoded)
	assert.Nil(t, decoded)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_ExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	encoded, err := codec.Encode(testToken(-time.Second))
	require.NoError(t, err)

	decoded, err := codec.Decode(encoded)
	assert.Nil(t, decoded)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewTokenCodec_MissingSecret(t *testing.T) {
	codec, err := NewTokenCodec(&config.Config{Token: &config.TokenConfig{}})
	assert.Nil(t, codec)
	assert.Error(t, err)

	codec, err = NewTokenCodec(nil)
	assert.Nil(t, codec)
	assert.Error(t, err)
}
