package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/identity"
)

func TestRegisterLoginLogout(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/auth/register", "", map[string]any{"name": "Alan", "email": "alan@example.com", "password": "turing-pw"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decodeBody[identity.Session](t, rec)
	assert.Equal(t, "alan@example.com", registered.User.Email)
	assert.Equal(t, "customer", registered.User.Role)

	rec = srv.do(t, http.MethodPost, "/auth/register", "", map[string]any{"email": "ALAN@example.com", "password": "another-pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "alan@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "alan@example.com", "password": "turing-pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeBody[identity.Session](t, rec)

	rec = srv.do(t, http.MethodGet, "/auth/me", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alan", decodeBody[identity.Profile](t, rec).Name)

	rec = srv.do(t, http.MethodPost, "/auth/logout", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/auth/me", session.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/auth/register", "", map[string]any{"email": "nope", "password": "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "email must be a valid email")
	assert.Contains(t, body, "password must be at least 6")
}

func TestLogoutWithoutToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWithProviderIsUnavailableLocally(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/auth/provider/google", "", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
