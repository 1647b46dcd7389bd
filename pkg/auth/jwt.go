package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors what the scanning backend expects in its admin tokens.
type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSource yields the bearer token sent with every backend request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a pre-issued bearer token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errors.New("auth: empty static token")
	}
	return string(t), nil
}

// SignedTokenSource mints HS256 tokens from the secret shared with the
// backend and reuses each one until it is close to expiry.
type SignedTokenSource struct {
	secret   []byte
	identity Identity
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// refreshMargin is how long before expiry a cached token is replaced.
const refreshMargin = time.Minute

func NewSignedTokenSource(secret string, identity Identity, ttl time.Duration) *SignedTokenSource {
	if identity.Role == "" {
		identity.Role = RoleAdmin
	}
	return &SignedTokenSource{
		secret:   []byte(secret),
		identity: identity,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SignedTokenSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(refreshMargin).Before(s.expires) {
		return s.token, nil
	}

	token, expires, err := GenerateToken(s.secret, s.identity, now, s.ttl)
	if err != nil {
		return "", err
	}
	s.token, s.expires = token, expires
	return token, nil
}

func GenerateToken(secret []byte, identity Identity, now time.Time, ttl time.Duration) (string, time.Time, error) {
	if len(secret) == 0 {
		return "", time.Time{}, errors.New("auth: empty signing secret")
	}
	expires := now.Add(ttl)
	claims := &Claims{
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}
