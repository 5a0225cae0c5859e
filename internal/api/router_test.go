package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nmarzin/gourmand/internal/auth"
	"github.com/nmarzin/gourmand/internal/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	manager, err := auth.NewManager(&config.AuthConfig{
		Username:      "admin",
		Password:      "s3cret",
		SecretKey:     "test-signing-key",
		TokenLifetime: time.Minute,
	})
	require.NoError(t, err)
	return SetupRouter(nil, manager, "test")
}

func postLogin(t *testing.T, router http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestLoginIssuesToken(t *testing.T) {
	router := newTestRouter(t)

	w := postLogin(t, router, "admin", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	require.Equal(t, "bearer", body.TokenType)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	w := postLogin(t, router, "admin", "wrong")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRequiresCredentials(t *testing.T) {
	router := newTestRouter(t)

	w := postLogin(t, router, "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedAcceptsIssuedToken(t *testing.T) {
	router := newTestRouter(t)

	login := postLogin(t, router, "admin", "s3cret")
	require.Equal(t, http.StatusOK, login.Code)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &body))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+body.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var protected struct {
		User string `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &protected))
	require.Equal(t, "admin", protected.User)
}

func TestAPIGroupRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sandwiches", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
