package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthToken_MatchesBinding(t *testing.T) {
	token := &AuthToken{Username: "user2", Domain: "api.test.com", ClientID: "1234567"}

	assert.True(t, token.MatchesBinding("user2", "api.test.com", "1234567"))
	assert.False(t, token.MatchesBinding("user1", "api.test.com", "1234567"))
	assert.False(t, token.MatchesBinding("user2", "other.test.com", "1234567"))
	assert.False(t, token.MatchesBinding("user2", "api.test.com", "7654321"))
}

func TestAuthToken_Expired(t *testing.T) {
	now := time.Now()
	token := &AuthToken{ExpiresAt: now.Add(20 * time.Minute)}

	assert.False(t, token.Expired(now))
	assert.False(t, token.Expired(now.Add(20*time.Minute)))
	assert.True(t, token.Expired(now.Add(20*time.Minute+time.Second)))
}
