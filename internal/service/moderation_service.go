package service

import (
	"context"
	"log/slog"
	"time"

	"moviepicker/internal/middleware"
	"moviepicker/internal/models"
	"moviepicker/internal/observability"
	"moviepicker/internal/repository"
)

// ModerationService drives the comment moderation queue.
type ModerationService struct {
	commentRepo repository.CommentRepository
	now         func() time.Time
}

// NewModerationService returns a new ModerationService.
func NewModerationService(commentRepo repository.CommentRepository) *ModerationService {
	return &ModerationService{commentRepo: commentRepo, now: time.Now}
}

// WithClock replaces the time source used to bound the queue.
func (s *ModerationService) WithClock(now func() time.Time) *ModerationService {
	s.now = now
	return s
}

// Queue lists comments still awaiting a decision within the moderation window.
func (s *ModerationService) Queue(ctx context.Context) ([]*models.Comment, error) {
	return s.commentRepo.ListPending(ctx, s.now().Add(-models.ModerationWindow))
}

// Approve makes a comment public. Approving twice is a no-op; a rejected
// comment stays hidden.
func (s *ModerationService) Approve(ctx context.Context, moderatorID, commentID uint) error {
	if err := s.commentRepo.SetVisible(ctx, commentID); err != nil {
		return err
	}
	s.record(ctx, "approve", moderatorID, commentID)
	return nil
}

// Reject hides a comment for good. Rejecting twice is a no-op.
func (s *ModerationService) Reject(ctx context.Context, moderatorID, commentID uint) error {
	if err := s.commentRepo.MarkDeleted(ctx, commentID); err != nil {
		return err
	}
	s.record(ctx, "reject", moderatorID, commentID)
	return nil
}

func (s *ModerationService) record(ctx context.Context, action string, moderatorID, commentID uint) {
	observability.ModerationDecisions.WithLabelValues(action).Inc()
	middleware.Logger.InfoContext(ctx, "comment moderated",
		slog.String("action", action),
		slog.Uint64("moderator_id", uint64(moderatorID)),
		slog.Uint64("comment_id", uint64(commentID)),
	)
}
