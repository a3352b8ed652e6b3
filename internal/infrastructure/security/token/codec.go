// Package token issues and validates the signed, expiring bearer tokens
// handed out at login. Tokens are JWTs carrying the username as subject.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/store-api/internal/core/domain"
)

var (
	ErrEmptySecret          = errors.New("token signing secret is empty")
	ErrUnsupportedAlgorithm = errors.New("unsupported token signing algorithm")
)

var signingMethods = map[string]*jwt.SigningMethodHMAC{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// Codec signs and verifies tokens with a fixed secret. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	parser *jwt.Parser
	now    func() time.Time
}

// NewCodec builds a Codec for one of HS256, HS384 or HS512.
func NewCodec(secret, algorithm string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}

	method, ok := signingMethods[strings.ToUpper(strings.TrimSpace(algorithm))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	c := &Codec{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	return c, nil
}

// Issue signs a token for subject expiring at now+ttl. A ttl <= 0 yields a
// token that is already expired. The exp claim has whole-second precision,
// so a positive expiry is rounded up to the next second and the token is
// never rejected before ttl has elapsed.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(ttl)
	if ttl > 0 {
		if whole := expiresAt.Truncate(time.Second); whole.Before(expiresAt) {
			expiresAt = whole.Add(time.Second)
		}
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature, then the expiry, then returns the subject.
// Every failure is reported as domain.ErrInvalidToken; the wrapped cause is
// for logs only.
func (c *Codec) Decode(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := c.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	return claims.Subject, nil
}
