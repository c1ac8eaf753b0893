// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/md5" //nolint:gosec // Read path for hashes imported from the legacy system.
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // Legacy write-dialect compatibility.
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/argon2"

	"authgate/config"
	"authgate/internal/domain/service"
)

// Argon2id parameters for newly produced hashes. Verification of existing
// hashes always uses the parameters embedded in the stored string.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// A re-derived adaptive hash shorter than this can never be a valid stored
// hash; treating it as one would let degenerate inputs match.
const minAdaptiveHashLen = 13

// Stored hashes carry no version flag. The generation is recognised purely
// by structural shape: 32 lowercase hex characters is the imported legacy
// digest, 40 hex characters is the legacy write dialect, anything else is
// handed to the adaptive-hash path.
var (
	legacyImportPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)
	legacyWritePattern  = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)
)

// dualHashVerifier is a concrete implementation of the PasswordVerifier
// interface. It accepts both legacy digest hashes (with the historical
// salting permutations of imported datasets) and modern argon2id hashes.
type dualHashVerifier struct {
	siteSalt string
}

// NewPasswordVerifier is the constructor for dualHashVerifier.
// The site salt is the legacy site-wide salt; it only participates in the
// legacy path and may be empty.
func NewPasswordVerifier(cfg *config.Config) service.PasswordVerifier {
	siteSalt := ""
	if cfg != nil && cfg.Auth != nil {
		siteSalt = cfg.Auth.SiteSalt
	}

	return &dualHashVerifier{siteSalt: siteSalt}
}

// Hash produces an argon2id hash of the password, encoded as a PHC string.
// The salt and cost parameters are embedded in the output so Verify can
// re-derive a candidate without any out-of-band state.
func (v *dualHashVerifier) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return encodePHC(salt, key, argon2Memory, argon2Time, argon2Threads), nil
}

// Verify compares a plaintext password with a stored hash, dispatching on
// the hash generation recognised from the stored value's shape.
func (v *dualHashVerifier) Verify(password, stored string) bool {
	// Accounts whose password is not kept locally can never log in.
	if stored == "" || stored == service.PasswordNotCached {
		return false
	}

	switch {
	case legacyImportPattern.MatchString(stored):
		return v.verifyLegacyImport(password, stored)
	case legacyWritePattern.MatchString(stored):
		return v.verifyLegacyWrite(password, stored)
	default:
		return v.verifyAdaptive(password, stored)
	}
}

// verifyLegacyImport matches the 32-hex digest generation. Imported records
// were salted inconsistently, so all four historical permutations are
// candidates: salted, unsalted, and both again with slash-escaped input.
// Do not reduce this to the salted form only; it would lock out accounts
// migrated under the other conventions.
func (v *dualHashVerifier) verifyLegacyImport(password, stored string) bool {
	escaped := addSlashes(password)
	candidates := []string{
		md5Hex(password + v.siteSalt),
		md5Hex(password),
		md5Hex(escaped + v.siteSalt),
		md5Hex(escaped),
	}

	for _, candidate := range candidates {
		if candidate == stored {
			return true
		}
	}

	return false
}

// verifyLegacyWrite matches the 40-hex dialect the old write path produced.
// It stored uppercase digests, but imported rows are not uniformly cased.
func (v *dualHashVerifier) verifyLegacyWrite(password, stored string) bool {
	return sha1HexUpper(password) == strings.ToUpper(stored)
}

// verifyAdaptive re-derives a candidate hash using the parameters embedded
// in the stored string and compares it to the stored value byte for byte in
// constant time.
func (v *dualHashVerifier) verifyAdaptive(password, stored string) bool {
	salt, key, memory, time, threads, ok := decodePHC(stored)
	if !ok {
		return false
	}

	derived := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(key)))
	candidate := encodePHC(salt, derived, memory, time, threads)

	if len(candidate) != len(stored) || len(candidate) <= minAdaptiveHashLen {
		return false
	}

	// Fixed-iteration comparison over every byte. Short-circuiting on the
	// first mismatch would leak the position of the difference through
	// timing, so mismatches are accumulated instead.
	var status byte
	for i := range len(candidate) {
		status |= candidate[i] ^ stored[i]
	}

	return status == 0
}

// encodePHC renders an argon2id hash in PHC string format:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
func encodePHC(salt, key []byte, memory, time uint32, threads uint8) string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		time,
		threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// decodePHC parses a PHC-format argon2id string into its embedded salt, key
// and cost parameters. Any structural defect makes the hash unverifiable.
func decodePHC(encoded string) (salt, key []byte, memory, time uint32, threads uint8, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, false
	}

	var rawThreads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &rawThreads); err != nil {
		return nil, nil, 0, 0, 0, false
	}
	if rawThreads == 0 || rawThreads > 255 {
		return nil, nil, 0, 0, 0, false
	}

	var err error
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, 0, 0, 0, false
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(key) == 0 {
		return nil, nil, 0, 0, 0, false
	}

	return salt, key, memory, time, uint8(rawThreads), true
}

// addSlashes applies the historical slash-escaping convention for quote
// characters: single quote, double quote, backslash and NUL are prefixed
// with a backslash.
func addSlashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\'', '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec

	return hex.EncodeToString(sum[:])
}

func sha1HexUpper(s string) string {
	sum := sha1.Sum([]byte(s)) //nolint:gosec

	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// LegacyWriteHash applies the historical write rule for the password field:
// a 40-hex value is assumed already hashed and passes through unchanged, an
// empty value stays empty (stored as NULL), anything else is hashed with the
// legacy 40-character uppercase scheme.
func LegacyWriteHash(value string) string {
	if value == "" {
		return ""
	}
	if legacyWritePattern.MatchString(value) {
		return value
	}

	return sha1HexUpper(value)
}
