package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitLogger("test", false, &buf)
	t.Cleanup(func() { InitLogger(os.Getenv("APP_ENV"), false, os.Stdout) })
	return &buf
}

func newLoggedApp() *fiber.App {
	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(WithSessionUser(c.UserContext(), 7, "moderator"))
		return c.Next()
	})
	app.Get("/movie/:title", func(c *fiber.Ctx) error {
		c.Locals(LocalsView, "movie")
		return c.JSON(fiber.Map{"view": "movie"})
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		c.Locals(LocalsView, "not_found")
		return c.SendStatus(fiber.StatusNotFound)
	})
	return app
}

func TestStructuredLogger_RecordsRouteAndView(t *testing.T) {
	buf := captureLogs(t)
	app := newLoggedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/movie/Up", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "route=/movie/:title")
	assert.Contains(t, out, "path=/movie/Up")
	assert.Contains(t, out, "view=movie")
	assert.Contains(t, out, "user_id=7")
	assert.Contains(t, out, "user_role=moderator")
	assert.Contains(t, out, "trace_id=")
}

func TestStructuredLogger_ClientErrorsLogAtWarn(t *testing.T) {
	buf := captureLogs(t)
	app := newLoggedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "view=not_found")
}
