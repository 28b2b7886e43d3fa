package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/translationhub/server/internal/errors"
)

// TokenClaims is the signed payload of a session token.
type TokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HMAC-SHA256 session tokens. Verification
// is stateless; pairing a token with its session row is the session
// manager's job.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL reports the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a fresh token for the user. The expiry is now plus the
// configured lifetime, truncated to whole seconds to match the wire format.
func (c *TokenCodec) Issue(userID, email string) (string, time.Time, error) {
	now := c.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(c.ttl)

	claims := TokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return signed, expiresAt, nil
}

// Verify checks the signature and expiry and returns the embedded claims.
// Any failure, from malformed input to a stale expiry, comes back as a
// session-invalid error. No clock leeway is applied: a token is rejected
// the instant its expiry passes.
func (c *TokenCodec) Verify(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrSessionInvalid, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, apperrors.ErrSessionInvalid
	}

	return claims, nil
}
