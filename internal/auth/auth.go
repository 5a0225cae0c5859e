// Package auth implements the single-user bearer-token login flow guarding
// the read API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nmarzin/gourmand/internal/config"
)

// ErrInvalidCredentials is returned for a bad username/password pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned for an expired, malformed or foreign token.
var ErrInvalidToken = errors.New("invalid token")

// Manager issues and validates HS256 tokens for the configured user. The
// password is hashed once at construction; only the hash is kept.
type Manager struct {
	username     string
	passwordHash []byte
	secret       []byte
	lifetime     time.Duration
}

// NewManager creates a Manager from the auth configuration.
func NewManager(cfg *config.AuthConfig) (*Manager, error) {
	if cfg.Username == "" || cfg.Password == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("auth requires username, password and secret key")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	lifetime := cfg.TokenLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}

	return &Manager{
		username:     cfg.Username,
		passwordHash: hash,
		secret:       []byte(cfg.SecretKey),
		lifetime:     lifetime,
	}, nil
}

// Login checks the credentials and issues a signed token.
func (m *Manager) Login(username, password string) (string, error) {
	if username != m.username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses the token and returns its subject, which must be the
// configured user.
func (m *Manager) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != m.username {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
