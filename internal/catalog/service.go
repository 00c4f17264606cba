// Package catalog resolves category membership and movie metadata against
// the external encyclopedia and metadata APIs.
package catalog

import (
	"context"
	"strings"

	"moviepicker/internal/models"
	"moviepicker/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// CategorySource lists the titles in a category.
type CategorySource interface {
	CategoryTitles(ctx context.Context, name string) ([]string, error)
}

// MetadataSource fetches metadata for one title.
type MetadataSource interface {
	Movie(ctx context.Context, title string) (*MovieData, error)
}

// Service is the catalog lookup used by handlers. Responses are not cached;
// every call reaches the upstream source.
type Service struct {
	categories CategorySource
	metadata   MetadataSource
}

// NewService returns a Service over the given sources.
func NewService(categories CategorySource, metadata MetadataSource) *Service {
	return &Service{categories: categories, metadata: metadata}
}

// FetchCategoryTitles validates name and lists the category's titles.
func (s *Service) FetchCategoryTitles(ctx context.Context, name string) (titles []string, err error) {
	normalized, err := ValidateCategoryName(name)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "wikipedia.categorymembers",
		attribute.String("catalog.category", normalized))
	done := observability.TrackExternal(sourceWikipedia)
	defer func() {
		done(outcome(err))
		observability.EndSpan(span, err)
	}()

	return s.categories.CategoryTitles(ctx, normalized)
}

// FetchMovieMetadata returns metadata for title or a NotFoundError when the
// metadata source does not know it.
func (s *Service) FetchMovieMetadata(ctx context.Context, title string) (data *MovieData, err error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}

	ctx, span := observability.StartSpan(ctx, "omdb.title",
		attribute.String("catalog.title", title))
	done := observability.TrackExternal(sourceOMDb)
	defer func() {
		done(outcome(err))
		observability.EndSpan(span, err)
	}()

	return s.metadata.Movie(ctx, title)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case models.HasCode(err, models.CodeNotFound):
		return observability.OutcomeNotFound
	default:
		return observability.OutcomeError
	}
}
