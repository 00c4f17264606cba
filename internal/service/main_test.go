package service

import (
	"context"
	"testing"

	"moviepicker/internal/catalog"
	"moviepicker/internal/config"
	"moviepicker/internal/database"
	"moviepicker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{DatabaseURL: ":memory:", Env: "test"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// catalogStub serves canned catalog data. Unknown titles are NotFound.
type catalogStub struct {
	titles     map[string][]string
	movies     map[string]*catalog.MovieData
	titlesErr  error
	movieErr   error
	movieCalls int
}

func (s *catalogStub) FetchCategoryTitles(_ context.Context, name string) ([]string, error) {
	if s.titlesErr != nil {
		return nil, s.titlesErr
	}
	if titles, ok := s.titles[name]; ok {
		return titles, nil
	}
	return []string{}, nil
}

func (s *catalogStub) FetchMovieMetadata(_ context.Context, title string) (*catalog.MovieData, error) {
	s.movieCalls++
	if s.movieErr != nil {
		return nil, s.movieErr
	}
	if m, ok := s.movies[title]; ok {
		return m, nil
	}
	return nil, models.NewNotFoundError("Movie", title)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, code), "expected %s, got %v", code, err)
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, field, appErr.Field)
}
