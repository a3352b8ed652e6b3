package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// Argon2idParams defines the cost of an argon2id hash.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams follows the RFC 9106 second recommended option.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB:   64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

type argon2idScheme struct {
	params Argon2idParams
}

func newArgon2idScheme(p Argon2idParams) *argon2idScheme {
	def := DefaultArgon2idParams()
	if p.MemoryKiB == 0 {
		p.MemoryKiB = def.MemoryKiB
	}
	if p.Iterations == 0 {
		p.Iterations = def.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = def.Parallelism
	}
	if p.SaltLength < 8 {
		p.SaltLength = def.SaltLength
	}
	if p.KeyLength < 16 {
		p.KeyLength = def.KeyLength
	}
	return &argon2idScheme{params: p}
}

func (s *argon2idScheme) name() string { return AlgorithmArgon2id }

// hash returns a PHC string:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
func (s *argon2idScheme) hash(plain string) (string, error) {
	salt := make([]byte, s.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2id salt: %w", err)
	}

	p := s.params
	key := argon2.IDKey([]byte(plain), salt, p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, p.MemoryKiB, p.Iterations, p.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

func (s *argon2idScheme) verify(plain, encoded string) bool {
	p, salt, expected, ok := decodeArgon2id(encoded)
	if !ok || !s.withinBounds(p) {
		return false
	}

	key := argon2.IDKey([]byte(plain), salt, p.Iterations, p.MemoryKiB, p.Parallelism, uint32(len(expected))) // #nosec G115 -- bounded by decodeArgon2id
	return subtle.ConstantTimeCompare(key, expected) == 1
}

func (s *argon2idScheme) owns(encoded string) bool {
	return strings.HasPrefix(encoded, argon2Prefix)
}

func (s *argon2idScheme) outdated(encoded string) bool {
	p, salt, key, ok := decodeArgon2id(encoded)
	if !ok {
		return true
	}
	return p.MemoryKiB != s.params.MemoryKiB ||
		p.Iterations != s.params.Iterations ||
		p.Parallelism != s.params.Parallelism ||
		uint32(len(salt)) != s.params.SaltLength || // #nosec G115
		uint32(len(key)) != s.params.KeyLength // #nosec G115
}

// withinBounds refuses attacker-supplied parameters far above the configured cost.
func (s *argon2idScheme) withinBounds(p Argon2idParams) bool {
	return p.MemoryKiB <= 4*s.params.MemoryKiB &&
		p.Iterations <= 4*s.params.Iterations &&
		p.Parallelism <= 4*s.params.Parallelism
}

func decodeArgon2id(encoded string) (Argon2idParams, []byte, []byte, bool) {
	var p Argon2idParams

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, false
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, false
	}
	if p.MemoryKiB == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return p, nil, nil, false
	}

	b64 := base64.RawStdEncoding.Strict()
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) < 8 || len(salt) > 64 {
		return p, nil, nil, false
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) < 16 || len(key) > 128 {
		return p, nil, nil, false
	}

	p.SaltLength = uint32(len(salt)) // #nosec G115
	p.KeyLength = uint32(len(key))   // #nosec G115
	return p, salt, key, true
}
