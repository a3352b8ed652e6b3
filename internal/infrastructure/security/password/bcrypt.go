package password

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxInput is the longest plaintext bcrypt accepts.
const bcryptMaxInput = 72

type bcryptScheme struct {
	cost int
}

func newBcryptScheme(cost int) *bcryptScheme {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptScheme{cost: cost}
}

func (s *bcryptScheme) name() string { return AlgorithmBcrypt }

func (s *bcryptScheme) hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

func (s *bcryptScheme) verify(plain, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), bcryptInput(plain)) == nil
}

// bcryptInput passes plaintexts up to 72 bytes through unchanged. Longer ones
// are replaced by the base64 of their SHA-256 digest (44 bytes), so every
// byte of a long password counts and hashing never fails on length.
func bcryptInput(plain string) []byte {
	if len(plain) <= bcryptMaxInput {
		return []byte(plain)
	}
	sum := sha256.Sum256([]byte(plain))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func (s *bcryptScheme) owns(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func (s *bcryptScheme) outdated(encoded string) bool {
	cost, err := bcrypt.Cost([]byte(encoded))
	return err != nil || cost != s.cost
}
