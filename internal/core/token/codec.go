// Package token issues and verifies the HMAC-signed bearer tokens used to
// authenticate API requests. Tokens are compact JWTs carrying only the
// registered sub/iat/exp claims, signed with a single service-wide symmetric
// key: issuance and verification happen in the same trust domain.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformed = errors.New("token malformed")
var ErrSignatureInvalid = errors.New("token signature invalid")
var ErrExpired = errors.New("token expired")

// Claims are the decoded contents of a verified token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and verifies tokens with a fixed secret and lifetime, both
// injected at construction.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue builds a signed compact token asserting subject, valid from issuedAt
// until issuedAt plus the configured TTL. Timestamps are truncated to whole
// seconds by the wire format.
func (c *Codec) Issue(subject string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode parses and verifies a compact token. It fails with ErrSignatureInvalid
// when the signature does not match (tampering or a different key), ErrExpired
// when the embedded expiry has elapsed, and ErrMalformed for any structural
// problem. Only HS256 is accepted; a token claiming any other algorithm is
// rejected as a signature failure.
func (c *Codec) Decode(raw string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &rc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrSignatureInvalid
		default:
			return Claims{}, ErrMalformed
		}
	}

	out := Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		out.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		out.ExpiresAt = rc.ExpiresAt.Time
	}
	return out, nil
}

// Validate reports whether decoded claims assert expectedSubject and are still
// live at now. Expiry is strict with no leeway: now equal to the expiry
// instant counts as expired.
func Validate(c Claims, expectedSubject string, now time.Time) bool {
	return c.Subject == expectedSubject && now.Before(c.ExpiresAt)
}
