package service

import (
	"context"
	"strings"

	"moviepicker/internal/catalog"
	"moviepicker/internal/models"
	"moviepicker/internal/repository"
)

// SavedListService manages a user's saved movies.
type SavedListService struct {
	movieRepo repository.MovieRepository
	catalog   CatalogLookup
}

func NewSavedListService(movieRepo repository.MovieRepository, lookup CatalogLookup) *SavedListService {
	return &SavedListService{movieRepo: movieRepo, catalog: lookup}
}

// List returns live metadata for every saved title, in the order saved.
// Titles the metadata source no longer knows are listed by name only; any
// other lookup failure fails the whole list.
func (s *SavedListService) List(ctx context.Context, userID uint) ([]*catalog.MovieData, error) {
	titles, err := s.movieRepo.SavedTitles(ctx, userID)
	if err != nil {
		return nil, err
	}

	movies := make([]*catalog.MovieData, 0, len(titles))
	for _, title := range titles {
		data, err := s.catalog.FetchMovieMetadata(ctx, title)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				movies = append(movies, &catalog.MovieData{RawTitle: title, Title: title})
				continue
			}
			return nil, err
		}
		movies = append(movies, data)
	}
	return movies, nil
}

// Add saves title for userID, creating the Movie on first use. Saving the
// same title again changes nothing.
func (s *SavedListService) Add(ctx context.Context, userID uint, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.NewFieldError("title", "Title is required")
	}
	movie, err := s.movieRepo.GetOrCreate(ctx, title)
	if err != nil {
		return err
	}
	return s.movieRepo.AddSaved(ctx, userID, movie.ID)
}

// Remove drops title from userID's list. Removing an absent title is a no-op.
func (s *SavedListService) Remove(ctx context.Context, userID uint, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.NewFieldError("title", "Title is required")
	}
	movie, err := s.movieRepo.GetByTitle(ctx, title)
	if err != nil {
		return err
	}
	if movie == nil {
		return nil
	}
	return s.movieRepo.RemoveSaved(ctx, userID, movie.ID)
}
