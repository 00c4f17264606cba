package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"moviepicker/internal/catalog"
	"moviepicker/internal/config"
	"moviepicker/internal/database"
	"moviepicker/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-session-secret-0123456789abcdef"
	testPassword = "Str0ng!Passw0rd"
)

type testEnv struct {
	t      *testing.T
	server *Server
	app    *fiber.App
	stub   *catalogStub
	mr     *miniredis.Miniredis
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Env:           "test",
		DatabaseURL:   ":memory:",
		SessionSecret: testSecret,
	}
	for _, m := range mutate {
		m(cfg)
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	stub := &catalogStub{
		titles: map[string][]string{},
		movies: map[string]*catalog.MovieData{},
	}
	s.WithCatalog(stub)
	s.authService.WithBcryptCost(bcrypt.MinCost)

	return &testEnv{t: t, server: s, app: s.NewApp(), stub: stub, mr: mr}
}

// createUser stores an account with testPassword and the given role.
func (e *testEnv) createUser(username string, role models.Role) *models.User {
	e.t.Helper()
	hash, err := e.server.authService.HashPassword(testPassword)
	require.NoError(e.t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		Role:     role,
	}
	require.NoError(e.t, e.server.userRepo.Create(context.Background(), user))
	return user
}

// login signs in through the login form and returns the session cookie.
func (e *testEnv) login(username string) *http.Cookie {
	e.t.Helper()
	resp := e.do(http.MethodPost, "/login", url.Values{
		"submit":     {"login"},
		"l_login":    {username},
		"l_password": {testPassword},
	}, nil)
	require.Equal(e.t, http.StatusFound, resp.StatusCode)
	cookie := sessionCookie(resp)
	require.NotNil(e.t, cookie)
	return cookie
}

func (e *testEnv) do(method, path string, form url.Values, cookie *http.Cookie) *http.Response {
	e.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func decodeView(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// catalogStub serves canned catalog data. Unknown titles are NotFound.
type catalogStub struct {
	titles   map[string][]string
	movies   map[string]*catalog.MovieData
	movieErr error
}

func (s *catalogStub) FetchCategoryTitles(_ context.Context, name string) ([]string, error) {
	if titles, ok := s.titles[name]; ok {
		return titles, nil
	}
	return []string{}, nil
}

func (s *catalogStub) FetchMovieMetadata(_ context.Context, title string) (*catalog.MovieData, error) {
	if s.movieErr != nil {
		return nil, s.movieErr
	}
	if m, ok := s.movies[title]; ok {
		return m, nil
	}
	return nil, models.NewNotFoundError("Movie", title)
}
