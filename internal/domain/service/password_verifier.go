// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordNotCached is the sentinel stored in the password field of accounts
// whose password is intentionally not kept locally. Such accounts can never
// authenticate with a password.
const PasswordNotCached = "not cached"

// PasswordVerifier defines the interface for password hashing and verification.
// Implementations must recognise the stored hash generation by its structural
// shape alone; stored records carry no version flag.
type PasswordVerifier interface {
	// Hash applies the write-path rule to a plaintext or pre-hashed value,
	// producing the string to store in the password field.
	Hash(password string) (string, error)

	// Verify compares a plaintext password with a stored hash.
	// A mismatch is an expected outcome, not an error, so the result is a
	// plain bool. Comparison on the adaptive-hash path is constant time.
	Verify(password, stored string) bool
}
