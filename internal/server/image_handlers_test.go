package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"moviepicker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRehostImage(t *testing.T) {
	data := pngBytes(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/poster.png":
			_, _ = w.Write(data)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.ImageRelayAllowedHosts = "127.0.0.1, upload.wikimedia.org"
	})

	relay := func(target string) *http.Response {
		return env.do(http.MethodGet, "/rehost_image?url="+url.QueryEscape(target), nil, nil)
	}

	resp := relay(upstream.URL + "/poster.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, string(data), readBody(t, resp))

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"not an image", upstream.URL + "/page.html", http.StatusBadGateway},
		{"upstream missing", upstream.URL + "/missing.png", http.StatusBadGateway},
		{"host not allowed", "https://evil.example.com/a.png", http.StatusBadRequest},
		{"lookalike host", "https://upload.wikimedia.org.evil.com/a.png", http.StatusBadRequest},
		{"bad scheme", "ftp://upload.wikimedia.org/a.png", http.StatusBadRequest},
		{"no url", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := relay(tt.target)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRehostImage_Disabled(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(http.MethodGet, "/rehost_image?url="+url.QueryEscape("https://upload.wikimedia.org/a.png"), nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
