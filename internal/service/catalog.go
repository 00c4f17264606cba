package service

import (
	"context"

	"moviepicker/internal/catalog"
)

// CatalogLookup is the subset of catalog.Service the services depend on.
type CatalogLookup interface {
	FetchCategoryTitles(ctx context.Context, name string) ([]string, error)
	FetchMovieMetadata(ctx context.Context, title string) (*catalog.MovieData, error)
}

var _ CatalogLookup = (*catalog.Service)(nil)
