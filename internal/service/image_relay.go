package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moviepicker/internal/models"
	"moviepicker/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxRelayImageBytes caps the size of a relayed image.
const MaxRelayImageBytes = 10 << 20

const sourceImageRelay = "image_relay"

// RelayedImage is an upstream image ready to serve.
type RelayedImage struct {
	Data        []byte
	ContentType string
}

// ImageRelayService re-serves images from allow-listed hosts, typically
// poster URLs returned by the metadata source.
type ImageRelayService struct {
	allowed    []string
	httpClient *http.Client
}

// NewImageRelayService returns a relay restricted to allowedHosts. An empty
// list disables the relay.
func NewImageRelayService(allowedHosts []string, timeout time.Duration) *ImageRelayService {
	s := &ImageRelayService{}
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			s.allowed = append(s.allowed, h)
		}
	}
	s.httpClient = &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return s.checkURL(req.URL)
		},
	}
	return s
}

// Enabled reports whether any host is allowed.
func (s *ImageRelayService) Enabled() bool {
	return len(s.allowed) > 0
}

// Allowed reports whether host, or a parent domain of it, is allow-listed.
func (s *ImageRelayService) Allowed(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, h := range s.allowed {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Fetch downloads rawURL and verifies the body decodes as an image.
func (s *ImageRelayService) Fetch(ctx context.Context, rawURL string) (img *RelayedImage, err error) {
	if !s.Enabled() {
		return nil, models.NewFieldError("url", "Image relay is disabled")
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, models.NewFieldError("url", "Invalid image URL")
	}
	if err := s.checkURL(u); err != nil {
		return nil, models.NewFieldError("url", err.Error())
	}

	ctx, span := observability.StartSpan(ctx, "image_relay.fetch", attribute.String("relay.host", u.Hostname()))
	done := observability.TrackExternal(sourceImageRelay)
	defer func() {
		if err != nil {
			done(observability.OutcomeError)
		} else {
			done(observability.OutcomeOK)
		}
		observability.EndSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, models.NewExternalSourceError(sourceImageRelay, err)
	}
	req.Header.Set("User-Agent", "moviepicker/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, models.NewExternalSourceError(sourceImageRelay, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewExternalSourceError(sourceImageRelay, fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxRelayImageBytes+1))
	if err != nil {
		return nil, models.NewExternalSourceError(sourceImageRelay, err)
	}
	if len(data) > MaxRelayImageBytes {
		return nil, models.NewExternalSourceError(sourceImageRelay, fmt.Errorf("image exceeds %d bytes", MaxRelayImageBytes))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewExternalSourceError(sourceImageRelay, fmt.Errorf("upstream body is not an image: %w", err))
	}

	return &RelayedImage{Data: data, ContentType: "image/" + format}, nil
}

func (s *ImageRelayService) checkURL(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("only http and https URLs can be relayed")
	}
	if !s.Allowed(u.Hostname()) {
		return fmt.Errorf("host %q is not allowed", u.Hostname())
	}
	return nil
}
