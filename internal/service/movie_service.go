package service

import (
	"context"
	"strings"
	"time"

	"moviepicker/internal/catalog"
	"moviepicker/internal/models"
	"moviepicker/internal/repository"
)

// MovieView is the data behind a movie page.
type MovieView struct {
	Movie    *catalog.MovieData `json:"movie"`
	Comments []PublicComment    `json:"comments"`
}

// PublicComment is an approved comment as shown to any visitor. It names the
// author by username only.
type PublicComment struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func newPublicComment(c *models.Comment) PublicComment {
	return PublicComment{
		ID:        c.ID,
		Content:   c.Content,
		Author:    c.User.Username,
		CreatedAt: c.CreatedAt,
	}
}

type MovieService struct {
	movieRepo    repository.MovieRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository
	catalog      CatalogLookup
	rng          catalog.IntNer
}

func NewMovieService(
	movieRepo repository.MovieRepository,
	commentRepo repository.CommentRepository,
	categoryRepo repository.CategoryRepository,
	lookup CatalogLookup,
) *MovieService {
	return &MovieService{
		movieRepo:    movieRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		catalog:      lookup,
	}
}

// WithRand replaces the source used by Random.
func (s *MovieService) WithRand(rng catalog.IntNer) *MovieService {
	s.rng = rng
	return s
}

// Show fetches live metadata for title and its public comments. A title with
// no persisted Movie has no comments.
func (s *MovieService) Show(ctx context.Context, title string) (*MovieView, error) {
	title = strings.TrimSpace(title)
	data, err := s.catalog.FetchMovieMetadata(ctx, title)
	if err != nil {
		return nil, err
	}

	view := &MovieView{Movie: data, Comments: []PublicComment{}}
	movie, err := s.movieRepo.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return view, nil
	}

	comments, err := s.commentRepo.ListPublicByMovie(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		view.Comments = append(view.Comments, newPublicComment(c))
	}
	return view, nil
}

// Random picks a persisted category uniformly, then one of its titles
// uniformly. Titles in small categories are therefore favoured.
func (s *MovieService) Random(ctx context.Context) (string, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return "", err
	}
	names := make([]string, len(categories))
	for i := range categories {
		names[i] = categories[i].Name
	}

	name, ok := catalog.PickRandom(names, s.rng)
	if !ok {
		return "", models.NewNotFoundError("Category", "any")
	}

	titles, err := s.catalog.FetchCategoryTitles(ctx, name)
	if err != nil {
		return "", err
	}
	title, ok := catalog.PickRandom(titles, s.rng)
	if !ok {
		return "", models.NewNotFoundError("Movie in category", name)
	}
	return title, nil
}
