package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAdminFlag(t *testing.T) {
	for _, value := range []string{"yes", "YES", "y", "true", "t", "1", " yes "} {
		assert.True(t, ParseAdminFlag(value), "value %q", value)
	}

	for _, value := range []string{"", "no", "n", "false", "0", "admin"} {
		assert.False(t, ParseAdminFlag(value), "value %q", value)
	}
}

func TestUser_Properties(t *testing.T) {
	user := &User{
		Properties: []Property{
			{Name: "roles", Value: "editor"},
			{Name: "roles", Value: "reviewer"},
			{Name: "locale", Value: "en"},
		},
	}

	assert.Equal(t, []string{"editor", "reviewer"}, user.GetProperty("roles"))
	assert.Empty(t, user.GetProperty("missing"))

	assert.True(t, user.HasProperty("roles", "editor"))
	assert.True(t, user.HasProperty("roles", ""))
	assert.False(t, user.HasProperty("roles", "admin"))
	assert.False(t, user.HasProperty("missing", ""))
}
