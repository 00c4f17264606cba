package server

import (
	"github.com/gofiber/fiber/v2"
)

// ShowSavedList renders the current user's saved movies with live metadata.
// @Summary Saved movies
// @Tags user
// @Produce json
// @Success 200 {object} object{view=string,movies=[]catalog.MovieData}
// @Failure 302 "Not logged in"
// @Router /user [get]
func (s *Server) ShowSavedList(c *fiber.Ctx) error {
	movies, err := s.savedListService.List(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return s.respondError(c, err)
	}
	return render(c, fiber.StatusOK, viewUser, fiber.Map{"movies": movies})
}

// UpdateSavedList adds or removes a title from the current user's list.
// @Summary Update saved movies
// @Tags user
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param action formData string true "add or remove"
// @Param title formData string true "Wikipedia article title"
// @Success 200 {string} string "Added."
// @Failure 400 {object} models.ErrorResponse
// @Router /user [post]
func (s *Server) UpdateSavedList(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUser(c).ID
	title := c.FormValue("title")

	switch c.FormValue("action") {
	case "add":
		if err := s.savedListService.Add(ctx, userID, title); err != nil {
			return s.respondError(c, err)
		}
		return c.SendString("Added.")
	case "remove":
		if err := s.savedListService.Remove(ctx, userID, title); err != nil {
			return s.respondError(c, err)
		}
		return c.SendString("Removed.")
	default:
		return c.Status(fiber.StatusBadRequest).SendString("Unknown action.")
	}
}
