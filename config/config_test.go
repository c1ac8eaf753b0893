package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"auth": map[string]any{
			"loginField": "username",
			"siteSalt":   "",
		},
		"token": map[string]any{
			"defaultTtl": "20m",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "AUTH_LOGINFIELD", want: "auth.loginField"},
		{envKey: "AUTH_SITESALT", want: "auth.siteSalt"},
		{envKey: "TOKEN_DEFAULTTTL", want: "token.defaultTtl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestValidate_LoginField(t *testing.T) {
	cfg := &Config{
		Auth:  &AuthConfig{LoginField: "username", Storage: StorageMemory},
		Token: &TokenConfig{Secret: "test-secret", DefaultTTL: time.Minute},
	}
	require.NoError(t, cfg.Validate())

	cfg.Auth.LoginField = "email"
	require.NoError(t, cfg.Validate())

	cfg.Auth.LoginField = "phone"
	assert.Error(t, cfg.Validate())
}

func TestValidate_TokenSecretRequired(t *testing.T) {
	cfg := &Config{
		Auth:  &AuthConfig{LoginField: "username", Storage: StoragePostgres},
		Token: &TokenConfig{DefaultTTL: time.Minute},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_Storage(t *testing.T) {
	cfg := &Config{
		Auth:  &AuthConfig{LoginField: "username", Storage: "redis"},
		Token: &TokenConfig{Secret: "test-secret", DefaultTTL: time.Minute},
	}
	assert.Error(t, cfg.Validate())
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, LoginFieldUsername, cfg.Auth.LoginField)
	assert.Equal(t, StoragePostgres, cfg.Auth.Storage)
	assert.Equal(t, defaultTokenTTL, cfg.Token.DefaultTTL)
}
