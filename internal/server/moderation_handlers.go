package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// ModerationQueue lists comments from the last day awaiting a decision.
// @Summary Moderation queue
// @Tags moderation
// @Produce json
// @Success 200 {object} object{view=string,comments=[]models.Comment}
// @Failure 302 "Not a moderator"
// @Router /moderation [get]
func (s *Server) ModerationQueue(c *fiber.Ctx) error {
	comments, err := s.moderationService.Queue(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return render(c, fiber.StatusOK, viewModeration, fiber.Map{"comments": comments})
}

// ApproveComment makes a comment public.
// @Summary Approve comment
// @Tags moderation
// @Param id path int true "Comment ID"
// @Success 302 "Back to the queue"
// @Failure 404 {object} models.ErrorResponse
// @Router /moderation/{id}/approve [post]
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	return s.moderate(c, s.moderationService.Approve)
}

// RejectComment hides a comment for good.
// @Summary Reject comment
// @Tags moderation
// @Param id path int true "Comment ID"
// @Success 302 "Back to the queue"
// @Failure 404 {object} models.ErrorResponse
// @Router /moderation/{id}/reject [post]
func (s *Server) RejectComment(c *fiber.Ctx) error {
	return s.moderate(c, s.moderationService.Reject)
}

func (s *Server) moderate(c *fiber.Ctx, decide moderationAction) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.respondError(c, err)
	}
	if err := decide(c.UserContext(), currentUser(c).ID, id); err != nil {
		return s.respondError(c, err)
	}
	return c.Redirect("/moderation", fiber.StatusFound)
}

type moderationAction func(ctx context.Context, moderatorID, commentID uint) error
