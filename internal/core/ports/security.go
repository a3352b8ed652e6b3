package ports

import "time"

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. A malformed hash yields false.
	Verify(plain, hash string) bool
	// NeedsRehash reports whether hash was produced by a different algorithm
	// than the one currently configured for new hashes.
	NeedsRehash(hash string) bool
}

// TokenCodec issues and decodes signed, expiring bearer tokens.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (token string, expiresAt time.Time, err error)
	// Decode returns the subject claim. Every failure is domain.ErrInvalidToken.
	Decode(token string) (string, error)
}
