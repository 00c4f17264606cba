package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"moviepicker/internal/models"
)

// DefaultOMDbBaseURL is the public OMDb endpoint.
const DefaultOMDbBaseURL = "https://www.omdbapi.com/"

const sourceOMDb = "omdb"

// MovieData is the metadata shown for one catalog title.
type MovieData struct {
	// RawTitle is the title as the catalog lists it, e.g. "Up (2009 film)".
	RawTitle  string `json:"raw_title"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
	Plot      string `json:"plot"`
	Rating    string `json:"rating"`
	Year      string `json:"year"`
}

// OMDbClient looks up movies by title.
type OMDbClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type omdbResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// NewOMDbClient creates an OMDb client authenticating with apiKey.
func NewOMDbClient(baseURL, apiKey string, timeout time.Duration) *OMDbClient {
	if baseURL == "" {
		baseURL = DefaultOMDbBaseURL
	}
	return &OMDbClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Movie fetches metadata for a catalog title. Disambiguators are stripped and
// a disambiguating year is passed as the year filter.
func (c *OMDbClient) Movie(ctx context.Context, rawTitle string) (*MovieData, error) {
	title, year := SplitDisambiguation(rawTitle)

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	if year != "" {
		params.Set("y", year)
	}
	params.Set("plot", "short")

	endpoint := c.baseURL
	if strings.Contains(endpoint, "?") {
		endpoint += "&"
	} else {
		endpoint += "?"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+params.Encode(), http.NoBody)
	if err != nil {
		return nil, models.NewExternalSourceError(sourceOMDb, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewExternalSourceError(sourceOMDb, fmt.Errorf("title request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, models.NewExternalSourceError(sourceOMDb, fmt.Errorf("title returned status %d: %s", resp.StatusCode, string(snippet)))
	}

	var body omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, models.NewExternalSourceError(sourceOMDb, fmt.Errorf("failed to decode title: %w", err))
	}

	if !strings.EqualFold(body.Response, "True") {
		if strings.Contains(strings.ToLower(body.Error), "not found") {
			return nil, models.NewNotFoundError("Movie", rawTitle)
		}
		return nil, models.NewExternalSourceError(sourceOMDb, fmt.Errorf("omdb error: %s", body.Error))
	}

	data := &MovieData{
		RawTitle:  rawTitle,
		Title:     orEmpty(body.Title),
		PosterURL: orEmpty(body.Poster),
		Plot:      orEmpty(body.Plot),
		Rating:    orEmpty(body.IMDbRating),
		Year:      orEmpty(body.Year),
	}
	if data.Title == "" {
		data.Title = title
	}
	return data, nil
}

// orEmpty maps OMDb's "N/A" placeholder to the empty string.
func orEmpty(v string) string {
	v = strings.TrimSpace(v)
	if v == "N/A" {
		return ""
	}
	return v
}
