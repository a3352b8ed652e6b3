// Package password implements salted, slow one-way hashing of account
// passwords. New hashes use the configured algorithm; verification detects
// the algorithm from the encoded hash so existing accounts keep working after
// the configuration changes.
package password

import (
	"errors"
	"fmt"
	"strings"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var ErrUnknownAlgorithm = errors.New("unknown password hash algorithm")

// Options tunes the cost of every supported algorithm.
type Options struct {
	BcryptCost int
	Argon2id   Argon2idParams
}

type scheme interface {
	name() string
	hash(plain string) (string, error)
	verify(plain, encoded string) bool
	// owns reports whether encoded was produced by this scheme.
	owns(encoded string) bool
	// outdated reports whether an owned hash was produced with other parameters.
	outdated(encoded string) bool
}

// Hasher is safe for concurrent use.
type Hasher struct {
	primary scheme
	schemes []scheme
}

// NewHasher returns a Hasher producing hashes with algorithm.
func NewHasher(algorithm string, opts Options) (*Hasher, error) {
	bc := newBcryptScheme(opts.BcryptCost)
	a2 := newArgon2idScheme(opts.Argon2id)

	h := &Hasher{schemes: []scheme{bc, a2}}
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		h.primary = bc
	case AlgorithmArgon2id:
		h.primary = a2
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	return h, nil
}

// Algorithm returns the name of the algorithm used for new hashes.
func (h *Hasher) Algorithm() string {
	return h.primary.name()
}

func (h *Hasher) Hash(plain string) (string, error) {
	return h.primary.hash(plain)
}

func (h *Hasher) Verify(plain, encoded string) bool {
	if s := h.schemeFor(encoded); s != nil {
		return s.verify(plain, encoded)
	}
	return false
}

func (h *Hasher) NeedsRehash(encoded string) bool {
	s := h.schemeFor(encoded)
	if s == nil {
		return true
	}
	return s != h.primary || s.outdated(encoded)
}

func (h *Hasher) schemeFor(encoded string) scheme {
	for _, s := range h.schemes {
		if s.owns(encoded) {
			return s
		}
	}
	return nil
}
