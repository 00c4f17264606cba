package repository

import (
	"context"
	"errors"
	"time"

	"moviepicker/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListPublicByMovie(ctx context.Context, movieID uint) ([]*models.Comment, error)
	ListPending(ctx context.Context, since time.Time) ([]*models.Comment, error)
	SetVisible(ctx context.Context, id uint) error
	MarkDeleted(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").Preload("Movie").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListPublicByMovie returns visible, non-deleted comments oldest first.
func (r *commentRepository) ListPublicByMovie(ctx context.Context, movieID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		}).
		Where("movie_id = ? AND is_visible = ? AND is_deleted = ?", movieID, true, false).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListPending returns hidden, non-deleted comments created at or after since.
func (r *commentRepository) ListPending(ctx context.Context, since time.Time) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Movie").
		Where("created_at >= ? AND is_visible = ? AND is_deleted = ?", since, false, false).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// SetVisible approves a comment. Repeating it is harmless.
func (r *commentRepository) SetVisible(ctx context.Context, id uint) error {
	return r.setFlag(ctx, id, "is_visible")
}

// MarkDeleted rejects a comment. A deleted comment never becomes public again.
func (r *commentRepository) MarkDeleted(ctx context.Context, id uint) error {
	return r.setFlag(ctx, id, "is_deleted")
}

func (r *commentRepository) setFlag(ctx context.Context, id uint, column string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update(column, true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}
