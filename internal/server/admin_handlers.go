package server

import (
	"moviepicker/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminUsers lists accounts for role management.
// @Summary List users
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{view=string,users=[]models.User}
// @Failure 302 "Not an administrator"
// @Router /admin/users [get]
func (s *Server) AdminUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := s.adminService.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return s.respondError(c, err)
	}
	return render(c, fiber.StatusOK, viewAdminUsers, fiber.Map{
		"users":  users,
		"roles":  []models.Role{models.RoleRegular, models.RoleModerator, models.RoleAdmin},
		"limit":  limit,
		"offset": offset,
	})
}

// SetUserRole changes another user's role.
// @Summary Set user role
// @Tags admin
// @Accept x-www-form-urlencoded
// @Param id path int true "User ID"
// @Param role formData string true "regular, moderator or admin"
// @Success 302 "Back to the user list"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id}/role [post]
func (s *Server) SetUserRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.respondError(c, err)
	}
	role := models.Role(c.FormValue("role"))
	if err := s.adminService.SetRole(c.UserContext(), currentUser(c).ID, id, role); err != nil {
		return s.respondError(c, err)
	}
	return c.Redirect("/admin/users", fiber.StatusFound)
}
