package session_http_handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/server"
	"github.com/init-pkg/trade-disclosure/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	sessions map[string]app.Session
}

func (this *memStore) Load(_ context.Context, token string) (app.Session, errs.Error) {
	return this.sessions[token], nil
}

func (this *memStore) Save(_ context.Context, s app.Session) errs.Error {
	this.sessions[s.Token] = s
	return nil
}

func (this *memStore) Clear(_ context.Context, token string) errs.Error {
	delete(this.sessions, token)
	return nil
}

func newApp(store app.SessionStore) *fiber.App {
	a := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler(slog.New(slog.DiscardHandler))})
	h := New(store, validation.New())
	a.Use(h.Handler())
	h.Register(a)
	a.Get("/whoami", func(c fiber.Ctx) error {
		return c.JSON(server.SessionFrom(c).Credentials())
	})
	return a
}

func TestBearerToken(t *testing.T) {
	a := fiber.New()
	var got []string
	a.Get("/", func(c fiber.Ctx) error {
		got = append(got, BearerToken(c))
		return nil
	})

	for _, h := range []string{"Bearer abc", "bearer  def ", "Basic xyz", ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		_, err := a.Test(req)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"abc", "def", "", ""}, got)
}

func TestSessionLifecycle(t *testing.T) {
	store := &memStore{sessions: map[string]app.Session{}}
	a := newApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/", strings.NewReader(`{"token":"token-12345","user":{"id":3,"username":"li"}}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := a.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer token-12345")
	res, err = a.Test(req)
	require.NoError(t, err)
	var creds app.Credentials
	require.NoError(t, json.NewDecoder(res.Body).Decode(&creds))
	assert.Equal(t, app.Credentials{Token: "token-12345", Username: "li"}, creds)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/session/", nil)
	req.Header.Set("Authorization", "Bearer token-12345")
	res, err = a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, store.sessions)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/session/", nil)
	req.Header.Set("Authorization", "Bearer token-12345")
	res, err = a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestOpenValidatesBody(t *testing.T) {
	a := newApp(&memStore{sessions: map[string]app.Session{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/", strings.NewReader(`{"token":"short","user":{"id":3,"username":"li"}}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestUnknownTokenStillForwarded(t *testing.T) {
	a := newApp(&memStore{sessions: map[string]app.Session{}})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer external-token")
	res, err := a.Test(req)
	require.NoError(t, err)

	var creds app.Credentials
	require.NoError(t, json.NewDecoder(res.Body).Decode(&creds))
	assert.Equal(t, "external-token", creds.Token)
	assert.Empty(t, creds.Username)
}
