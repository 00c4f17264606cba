package service

import (
	"context"
	"strings"

	"moviepicker/internal/models"
	"moviepicker/internal/repository"
	"moviepicker/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	movieRepo   repository.MovieRepository
}

type CreateCommentInput struct {
	UserID  uint
	Title   string
	Content string
}

func NewCommentService(commentRepo repository.CommentRepository, movieRepo repository.MovieRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, movieRepo: movieRepo}
}

// CreateComment stores a hidden comment awaiting moderation. Blank content is
// ignored and yields (nil, nil).
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, nil
	}
	if err := validation.ValidateComment(content); err != nil {
		return nil, models.NewFieldError("content", err.Error())
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewFieldError("title", "Title is required")
	}
	movie, err := s.movieRepo.GetOrCreate(ctx, title)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		UserID:  in.UserID,
		MovieID: movie.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
