package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nmarzin/gourmand/internal/config"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(&config.AuthConfig{
		Username:      "admin",
		Password:      "s3cret",
		SecretKey:     "test-signing-key",
		TokenLifetime: time.Minute,
	})
	require.NoError(t, err)
	return m
}

func TestLoginAndValidate(t *testing.T) {
	m := newManager(t)

	token, err := m.Login("admin", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "admin", subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m := newManager(t)

	_, err := m.Login("admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = m.Login("intruder", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := newManager(t)
	_, err := m.Validate("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	m := newManager(t)

	other, err := NewManager(&config.AuthConfig{
		Username:  "admin",
		Password:  "s3cret",
		SecretKey: "a-different-key",
	})
	require.NoError(t, err)

	token, err := other.Login("admin", "s3cret")
	require.NoError(t, err)

	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerRequiresConfig(t *testing.T) {
	_, err := NewManager(&config.AuthConfig{Username: "admin"})
	require.Error(t, err)
}
