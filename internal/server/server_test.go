// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/account-service/internal/config"
	"codeberg.org/oliverandrich/account-service/internal/handlers"
	"codeberg.org/oliverandrich/account-service/internal/i18n"
	"codeberg.org/oliverandrich/account-service/internal/services/account"
	"codeberg.org/oliverandrich/account-service/internal/server"
	"codeberg.org/oliverandrich/account-service/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*echo.Echo, *testutil.RecordingMailer) {
	t.Helper()
	require.NoError(t, i18n.Init())

	db, repo := testutil.NewTestDB(t)
	mailer := &testutil.RecordingMailer{}
	cfg := &config.Config{Server: config.ServerConfig{
		BaseURL:     "http://accounts.example.com",
		MaxBodySize: 1,
		CORSOrigins: []string{"*"},
	}}
	svc := account.NewService(repo, mailer, account.Options{
		BaseURL: cfg.Server.BaseURL,
		Hasher:  account.NewBcryptHasher(bcrypt.MinCost),
	})
	return server.New(cfg, handlers.New(svc, db)), mailer
}

func do(t *testing.T, e *echo.Echo, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = testutil.NewRequest(method, target, strings.NewReader(body))
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) account.Result {
	t.Helper()
	var res account.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
}

func TestAccountLifecycle(t *testing.T) {
	e, mailer := newTestServer(t)

	// Sign up
	rec := do(t, e, http.MethodPost, "/user/signup",
		`{"firstName":"Ada","lastName":"Lovelace","birthDate":"1815-12-10","email":"ada@example.com","password":"analytical"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, account.StatusPending, decode(t, rec).Status)

	// Sign in before verification
	rec = do(t, e, http.MethodPost, "/user/signin", `{"email":"ada@example.com","password":"analytical"}`)
	assert.Equal(t, account.CodeSignInNotVerified, decode(t, rec).Code)

	// Follow the verification link
	match := regexp.MustCompile(`http://accounts\.example\.com(/user/verify/[^"]+)"`).FindStringSubmatch(mailer.Last(t).Body)
	require.Len(t, match, 2)
	rec = do(t, e, http.MethodGet, match[1], "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, handlers.VerifiedPath, rec.Header().Get(echo.HeaderLocation))

	rec = do(t, e, http.MethodGet, handlers.VerifiedPath, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email verified")

	// Sign in
	rec = do(t, e, http.MethodPost, "/user/signin", `{"email":"ada@example.com","password":"analytical"}`)
	assert.Equal(t, account.StatusSuccess, decode(t, rec).Status)

	// Request a reset
	rec = do(t, e, http.MethodPost, "/user/requestPasswordReset",
		`{"email":"ada@example.com","redirectUrl":"http://app.example.com/reset"}`)
	assert.Equal(t, account.StatusPending, decode(t, rec).Status)

	match = regexp.MustCompile(`http://app\.example\.com/reset/([^/"]+)/([^/"]+)"`).FindStringSubmatch(mailer.Last(t).Body)
	require.Len(t, match, 3)

	// Reset the password
	body, err := json.Marshal(map[string]string{"userId": match[1], "resetString": match[2], "newPassword": "difference-engine"})
	require.NoError(t, err)
	rec = do(t, e, http.MethodPost, "/user/resetPassword", string(body))
	assert.Equal(t, account.StatusSuccess, decode(t, rec).Status)

	rec = do(t, e, http.MethodPost, "/user/signin", `{"email":"ada@example.com","password":"difference-engine"}`)
	assert.Equal(t, account.StatusSuccess, decode(t, rec).Status)
}

func TestVerify_UnknownUserRedirectsWithError(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/user/verify/unknown/token", "")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get(echo.HeaderLocation)
	assert.True(t, strings.HasPrefix(location, handlers.VerifiedPath+"?"), location)
	assert.Contains(t, location, "error=true")

	rec = do(t, e, http.MethodGet, location, "")
	assert.Contains(t, rec.Body.String(), "Verification failed")
}

func TestSignIn_SpanishMessages(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/user/signin", `{"email":"","password":""}`, "Accept-Language", "es")

	res := decode(t, rec)
	assert.Equal(t, account.CodeSignInEmpty, res.Code)
	assert.Equal(t, i18n.T(i18n.WithLocale(context.Background(), i18n.MatchLanguage("es")), account.CodeSignInEmpty), res.Message)
}

func TestTrailingSlash(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/health/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
