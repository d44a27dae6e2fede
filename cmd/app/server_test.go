package main

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"PersonaAPI/internal/classifier"
	"PersonaAPI/internal/config"
	"PersonaAPI/internal/middleware"
	"PersonaAPI/internal/repository"
	"PersonaAPI/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	e     *echo.Echo
	users *repository.MemoryUserRepository
	codec *middleware.TokenCodec
	cfg   *config.Config
}

func newTestApp(model *classifier.Model) *testApp {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	users := repository.NewMemoryUserRepository()
	authSvc := services.NewAuthService(users)
	codec := middleware.NewTokenCodec(cfg.SecretKey)
	return &testApp{
		e:     newServer(cfg, authSvc, codec, model),
		users: users,
		codec: codec,
		cfg:   cfg,
	}
}

func readBody(t *testing.T, result apitest.Result) string {
	t.Helper()
	body, err := io.ReadAll(result.Response.Body)
	require.NoError(t, err)
	return string(body)
}

func testModel() *classifier.Model {
	return &classifier.Model{
		Weights:   [7]float64{-0.35, -0.5, 0.4, 0.3, -0.6, 0.25, 0.3},
		Bias:      0.2,
		Threshold: 0,
	}
}

// registerUser drives the registration endpoint the way a browser would.
func (app *testApp) registerUser(t *testing.T, username, password string) {
	t.Helper()
	apitest.New().
		Handler(app.e).
		Post("/auth/register-process").
		FormData("username", username).
		FormData("email", username+"@example.com").
		FormData("first_name", "Test").
		FormData("last_name", "User").
		FormData("password", password).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/auth/login").
		End()
}

// sessionCookie issues a valid session cookie value without going
// through the login form.
func (app *testApp) sessionCookie(t *testing.T, username string, id int64) string {
	t.Helper()
	tok, err := app.codec.Issue(username, id, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRootRedirect(t *testing.T) {
	app := newTestApp(testModel())

	apitest.New().
		Handler(app.e).
		Get("/").
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/auth/login").
		End()

	apitest.New().
		Handler(app.e).
		Get("/").
		Cookies(apitest.NewCookie(middleware.SessionCookie).Value(app.sessionCookie(t, "bob", 1))).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/predict/").
		End()
}

func TestLoginAndRegisterPages(t *testing.T) {
	app := newTestApp(testModel())

	apitest.New().
		Handler(app.e).
		Get("/auth/login").
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(app.e).
		Get("/auth/register").
		Expect(t).
		Status(http.StatusOK).
		End()

	// An already authenticated visitor skips the login form.
	apitest.New().
		Handler(app.e).
		Get("/auth/login").
		Cookies(apitest.NewCookie(middleware.SessionCookie).Value(app.sessionCookie(t, "bob", 1))).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/predict/").
		End()
}

func TestRegisterThenLogin_SetsBearerCookie(t *testing.T) {
	app := newTestApp(testModel())
	app.registerUser(t, "bob", "secret123")

	result := apitest.New().
		Handler(app.e).
		Post("/auth/login-process").
		FormData("username", "bob").
		FormData("password", "secret123").
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/predict/").
		End()

	cookies := result.Response.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.True(t, strings.HasPrefix(cookies[0].Value, "Bearer "))
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)

	// The cookie opens the protected landing page.
	apitest.New().
		Handler(app.e).
		Get("/predict/").
		Cookies(apitest.NewCookie(middleware.SessionCookie).Value(cookies[0].Value)).
		Expect(t).
		Status(http.StatusOK).
		End()
}

func TestRegister_DuplicateUsername(t *testing.T) {
	app := newTestApp(testModel())
	app.registerUser(t, "bob", "secret123")

	result := apitest.New().
		Handler(app.e).
		Post("/auth/register-process").
		FormData("username", "bob").
		FormData("email", "second@example.com").
		FormData("first_name", "Test").
		FormData("last_name", "User").
		FormData("password", "secret123").
		Expect(t).
		Status(http.StatusOK).
		End()

	body := readBody(t, result)
	assert.Contains(t, body, "already exists")
	assert.Equal(t, 1, app.users.Count())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(testModel())
	app.registerUser(t, "bob", "secret123")

	for name, creds := range map[string][2]string{
		"unknown user":   {"nobody", "secret123"},
		"wrong password": {"bob", "wrong-password"},
	} {
		result := apitest.New().
			Handler(app.e).
			Post("/auth/login-process").
			FormData("username", creds[0]).
			FormData("password", creds[1]).
			Expect(t).
			Status(http.StatusOK).
			End()

		body := readBody(t, result)
		assert.Contains(t, body, "Invalid Credentials", name)
		assert.Empty(t, result.Response.Cookies(), name)
	}
}

func TestLogout_AlwaysClearsCookie(t *testing.T) {
	app := newTestApp(testModel())

	// Anonymous logout still clears and redirects.
	result := apitest.New().
		Handler(app.e).
		Get("/auth/logout").
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/auth/login").
		End()

	cookies := result.Response.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)

	// Same with a live session.
	result = apitest.New().
		Handler(app.e).
		Get("/auth/logout").
		Cookies(apitest.NewCookie(middleware.SessionCookie).Value(app.sessionCookie(t, "bob", 1))).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/auth/login").
		End()

	cookies = result.Response.Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}
