package auth

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"strings"
	"testing"

	"authgate/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(siteSalt string) *dualHashVerifier {
	cfg := &config.Config{
		Auth: &config.AuthConfig{LoginField: config.LoginFieldUsername, SiteSalt: siteSalt},
	}

	return NewPasswordVerifier(cfg).(*dualHashVerifier)
}

func md5hexOf(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec

	return hex.EncodeToString(sum[:])
}

func TestVerify_RejectsDisabledAccounts(t *testing.T) {
	verifier := newTestVerifier("salt")

	assert.False(t, verifier.Verify("anything", ""))
	assert.False(t, verifier.Verify("anything", "not cached"))
	assert.False(t, verifier.Verify("", ""))
}

func TestVerify_LegacyImportPermutations(t *testing.T) {
	const password = `pa"ss'word`
	const siteSalt = "site-wide-salt"

	verifier := newTestVerifier(siteSalt)

	tests := []struct {
		name   string
		stored string
	}{
		{name: "salted", stored: md5hexOf(password + siteSalt)},
		{name: "unsalted", stored: md5hexOf(password)},
		{name: "escaped salted", stored: md5hexOf(addSlashes(password) + siteSalt)},
		{name: "escaped unsalted", stored: md5hexOf(addSlashes(password))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, verifier.Verify(password, tt.stored))
			assert.False(t, verifier.Verify(password+"x", tt.stored))
		})
	}
}

func TestVerify_LegacyImportRequiresLowercaseHex(t *testing.T) {
	verifier := newTestVerifier("")

	// An uppercase 32-char digest is not the import dialect; it falls
	// through to the adaptive path and cannot match there.
	stored := strings.ToUpper(md5hexOf("pwd"))
	assert.False(t, verifier.Verify("pwd", stored))
}

func TestVerify_LegacyWriteDialect(t *testing.T) {
	verifier := newTestVerifier("ignored-for-this-dialect")

	// SHA-1("mypassword"), the 40-char uppercase scheme the old write path produced.
	stored := sha1HexUpper("mypassword")
	require.Len(t, stored, 40)

	assert.True(t, verifier.Verify("mypassword", stored))
	assert.True(t, verifier.Verify("mypassword", strings.ToLower(stored)))
	assert.False(t, verifier.Verify("mypassw0rd", stored))
}

func TestVerify_AdaptiveRoundTrip(t *testing.T) {
	verifier := newTestVerifier("legacy-salt-does-not-apply")

	hash, err := verifier.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, verifier.Verify("correct horse battery staple", hash))
	assert.False(t, verifier.Verify("correct horse battery staplex", hash))
	assert.False(t, verifier.Verify("", hash))
}

func TestVerify_AdaptiveSaltsAreUnique(t *testing.T) {
	verifier := newTestVerifier("")

	first, err := verifier.Hash("pwd2")
	require.NoError(t, err)
	second, err := verifier.Hash("pwd2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, verifier.Verify("pwd2", first))
	assert.True(t, verifier.Verify("pwd2", second))
}

func TestVerify_AdaptiveMalformedStored(t *testing.T) {
	verifier := newTestVerifier("")

	tests := []struct {
		name   string
		stored string
	}{
		{name: "not a hash at all", stored: "Invalid token"},
		{name: "wrong algorithm tag", stored: "$argon2i$v=19$m=65536,t=1,p=4$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{name: "wrong version", stored: "$argon2id$v=18$m=65536,t=1,p=4$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{name: "bad parameter block", stored: "$argon2id$v=19$m=abc$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{name: "bad salt encoding", stored: "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaGhhc2g"},
		{name: "bad key encoding", stored: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHQ$!!!"},
		{name: "threads overflow", stored: "$argon2id$v=19$m=65536,t=1,p=300$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{name: "too short", stored: "$2y$7$abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, verifier.Verify("pwd2", tt.stored))
		})
	}
}

func TestVerify_AdaptiveTamperedHashSameLength(t *testing.T) {
	verifier := newTestVerifier("")

	hash, err := verifier.Hash("pwd2")
	require.NoError(t, err)

	// Flip the last character of the embedded key; the length is unchanged
	// so the failure must come from the byte comparison itself.
	last := hash[len(hash)-1]
	replacement := byte('A')
	if last == replacement {
		replacement = 'B'
	}
	tampered := hash[:len(hash)-1] + string(replacement)

	assert.False(t, verifier.Verify("pwd2", tampered))
}

func TestAddSlashes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `plain`, want: `plain`},
		{in: `it's`, want: `it\'s`},
		{in: `say "hi"`, want: `say \"hi\"`},
		{in: `back\slash`, want: `back\\slash`},
		{in: "nul\x00byte", want: `nul\0byte`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, addSlashes(tt.in))
	}
}

func TestLegacyWriteHash(t *testing.T) {
	// Matches the historical write rule: already-hashed values pass through,
	// empty stays empty, everything else becomes uppercase SHA-1.
	assert.Equal(t, "", LegacyWriteHash(""))

	already := sha1HexUpper("whatever")
	assert.Equal(t, already, LegacyWriteHash(already))

	assert.Equal(t, "91DFD9DDB4198AFFC5C194CD8CE6D338FDE470E2", LegacyWriteHash("mypassword"))
}
