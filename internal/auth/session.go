package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	SessionCookie   = "study_diary_session"
	DefaultLifetime = 7 * 24 * time.Hour
	sessionKeyInfo  = "study-diary session v1"
	sessionKeyLen   = 32
)

var ErrInvalidSession = errors.New("invalid session")

// Claims carried by a session token
type Claims struct {
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// SessionID is the per-login identifier (the token's jti)
func (c *Claims) SessionID() string {
	return c.ID
}

// Sessions issues and verifies HS256 session tokens
type Sessions struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewSessions derives the signing key from secret with HKDF-SHA256. An empty
// secret gets a random key, so sessions do not survive a restart.
func NewSessions(secret string, lifetime time.Duration) (*Sessions, error) {
	ikm := []byte(secret)
	if secret == "" {
		ikm = make([]byte, sessionKeyLen)
		if _, err := rand.Read(ikm); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
	}

	key := make([]byte, sessionKeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte(sessionKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}

	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Sessions{key: key, lifetime: lifetime, now: time.Now}, nil
}

// Issue returns a signed token for profile
func (s *Sessions) Issue(p Profile) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		Nickname: p.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, claims, nil
}

// Parse verifies token and returns its claims
func (s *Sessions) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !parsed.Valid || claims.ID == "" || claims.Nickname == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Lifetime is how long issued sessions stay valid
func (s *Sessions) Lifetime() time.Duration {
	return s.lifetime
}
