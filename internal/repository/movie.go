package repository

import (
	"context"
	"errors"

	"moviepicker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieRepository stores movie anchors and users' saved lists.
type MovieRepository interface {
	GetByTitle(ctx context.Context, title string) (*models.Movie, error)
	GetOrCreate(ctx context.Context, title string) (*models.Movie, error)
	SavedTitles(ctx context.Context, userID uint) ([]string, error)
	AddSaved(ctx context.Context, userID, movieID uint) error
	RemoveSaved(ctx context.Context, userID, movieID uint) error
}

type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository returns a new MovieRepository implementation.
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

// GetByTitle returns (nil, nil) when the title has never been persisted.
func (r *movieRepository) GetByTitle(ctx context.Context, title string) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &movie, nil
}

// GetOrCreate inserts title unless it exists and returns the stored row.
// Concurrent callers for the same title converge on one row.
func (r *movieRepository) GetOrCreate(ctx context.Context, title string) (*models.Movie, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoNothing: true,
	}).Create(&models.Movie{Title: title}).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var movie models.Movie
	if err := db.Where("title = ?", title).First(&movie).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &movie, nil
}

// SavedTitles lists the user's saved movies in the order they were added.
func (r *movieRepository) SavedTitles(ctx context.Context, userID uint) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Joins("JOIN user_movies ON user_movies.movie_id = movies.id").
		Where("user_movies.user_id = ?", userID).
		Order("user_movies.created_at ASC").
		Order("movies.id ASC").
		Pluck("movies.title", &titles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return titles, nil
}

// AddSaved is idempotent.
func (r *movieRepository) AddSaved(ctx context.Context, userID, movieID uint) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserMovie{UserID: userID, MovieID: movieID}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RemoveSaved deletes the entry if present.
func (r *movieRepository) RemoveSaved(ctx context.Context, userID, movieID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.UserMovie{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
