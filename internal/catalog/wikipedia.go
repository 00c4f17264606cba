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

// DefaultWikipediaAPIURL is the English Wikipedia action API endpoint.
const DefaultWikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

const (
	sourceWikipedia = "wikipedia"
	userAgent       = "moviepicker/1.0"
	// categorymembers returns at most 500 entries per page for regular clients.
	categoryPageSize = "500"
	// Guards against an API that never stops paginating.
	maxCategoryPages = 100
)

// WikipediaClient lists the article members of a Wikipedia category.
type WikipediaClient struct {
	baseURL    string
	httpClient *http.Client
}

type categoryMembersResponse struct {
	Continue *struct {
		CMContinue string `json:"cmcontinue"`
		Continue   string `json:"continue"`
	} `json:"continue"`
	Query *struct {
		CategoryMembers []struct {
			Title string `json:"title"`
		} `json:"categorymembers"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// NewWikipediaClient creates a client for the action API at baseURL.
func NewWikipediaClient(baseURL string, timeout time.Duration) *WikipediaClient {
	if baseURL == "" {
		baseURL = DefaultWikipediaAPIURL
	}
	return &WikipediaClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CategoryTitles returns the titles of name's main-namespace members in the
// order the API lists them, following continuation until exhausted.
func (c *WikipediaClient) CategoryTitles(ctx context.Context, name string) ([]string, error) {
	titles := []string{}
	seen := map[string]struct{}{}
	var cont, cmcontinue string

	for page := 0; ; page++ {
		if page == maxCategoryPages {
			return nil, models.NewExternalSourceError(sourceWikipedia, fmt.Errorf("category %q exceeded %d pages", name, maxCategoryPages))
		}

		body, err := c.fetchPage(ctx, name, cont, cmcontinue)
		if err != nil {
			return nil, models.NewExternalSourceError(sourceWikipedia, err)
		}
		if body.Error != nil {
			return nil, models.NewExternalSourceError(sourceWikipedia, fmt.Errorf("api error %s: %s", body.Error.Code, body.Error.Info))
		}
		if body.Query == nil {
			// An empty category still carries a query object.
			return nil, models.NewExternalSourceError(sourceWikipedia, fmt.Errorf("response has no query"))
		}

		for _, m := range body.Query.CategoryMembers {
			titles = append(titles, m.Title)
		}

		if body.Continue == nil || body.Continue.CMContinue == "" {
			return titles, nil
		}
		if _, dup := seen[body.Continue.CMContinue]; dup {
			return nil, models.NewExternalSourceError(sourceWikipedia, fmt.Errorf("repeated continuation token %q", body.Continue.CMContinue))
		}
		seen[body.Continue.CMContinue] = struct{}{}
		cont, cmcontinue = body.Continue.Continue, body.Continue.CMContinue
	}
}

func (c *WikipediaClient) fetchPage(ctx context.Context, name, cont, cmcontinue string) (*categoryMembersResponse, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "categorymembers")
	params.Set("cmtitle", categoryPrefix+name)
	params.Set("cmnamespace", "0")
	params.Set("cmlimit", categoryPageSize)
	params.Set("format", "json")
	if cmcontinue != "" {
		params.Set("cmcontinue", cmcontinue)
		if cont != "" {
			params.Set("continue", cont)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("categorymembers request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("categorymembers returned status %d: %s", resp.StatusCode, string(snippet))
	}

	var body categoryMembersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode categorymembers: %w", err)
	}
	return &body, nil
}
