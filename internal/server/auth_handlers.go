package server

import (
	"log/slog"
	"strings"
	"time"

	"moviepicker/internal/middleware"
	"moviepicker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LoginForm renders the combined login/register page.
// @Summary Login page
// @Tags auth
// @Produce json
// @Success 200 {object} object{view=string}
// @Success 302 "Already logged in"
// @Router /login [get]
func (s *Server) LoginForm(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return render(c, fiber.StatusOK, viewLogin, fiber.Map{})
}

// LoginOrRegister handles both forms of the login page, selected by submit.
// @Summary Log in or register
// @Description submit=login uses l_login/l_password; submit=register (or reg) uses r_username/r_email/r_password/r_confirm
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param submit formData string true "login or register"
// @Success 302 "Session cookie set"
// @Failure 400 {object} object{view=string,register_error=string,field=string}
// @Failure 401 {object} object{view=string,login_error=string}
// @Router /login [post]
func (s *Server) LoginOrRegister(c *fiber.Ctx) error {
	switch c.FormValue("submit") {
	case "register", "reg":
		return s.register(c)
	case "login":
		return s.login(c)
	default:
		return render(c, fiber.StatusBadRequest, viewLogin, fiber.Map{"error": "Unknown form submission"})
	}
}

func (s *Server) register(c *fiber.Ctx) error {
	in := service.RegisterInput{
		Username:        strings.TrimSpace(c.FormValue("r_username")),
		Email:           strings.TrimSpace(c.FormValue("r_email")),
		Password:        c.FormValue("r_password"),
		ConfirmPassword: c.FormValue("r_confirm"),
	}

	user, err := s.authService.Register(c.UserContext(), in)
	if err != nil {
		status := mapServiceError(err)
		if status != fiber.StatusBadRequest {
			return s.respondError(c, err)
		}
		return render(c, status, viewLogin, fiber.Map{
			"register_error": errorMessage(err),
			"field":          fieldOf(err),
			"r_username":     in.Username,
			"r_email":        in.Email,
		})
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		slog.Uint64("user_id", uint64(user.ID)), slog.String("username", user.Username))
	return s.startSession(c, user.ID)
}

func (s *Server) login(c *fiber.Ctx) error {
	login := strings.TrimSpace(c.FormValue("l_login"))
	if login == "" {
		login = strings.TrimSpace(c.FormValue("l_email"))
	}

	user, err := s.authService.Authenticate(c.UserContext(), login, c.FormValue("l_password"))
	if err != nil {
		status := mapServiceError(err)
		if status != fiber.StatusUnauthorized {
			return s.respondError(c, err)
		}
		return render(c, status, viewLogin, fiber.Map{
			"login_error": errorMessage(err),
			"l_login":     login,
		})
	}
	return s.startSession(c, user.ID)
}

func (s *Server) startSession(c *fiber.Ctx, userID uint) error {
	if err := s.issueSession(c, userID); err != nil {
		return s.respondError(c, err)
	}
	return c.Redirect("/", fiber.StatusFound)
}

// Logout clears the session cookie and revokes its token.
// @Summary Log out
// @Tags auth
// @Success 302 "Redirect to /"
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if sess := currentSession(c); sess != nil && sess.ID != "" {
		if err := s.cache.RevokeSession(c.UserContext(), sess.ID, time.Until(sess.ExpiresAt)); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to revoke session",
				slog.String("error", err.Error()))
		}
	}
	s.clearSession(c)
	return c.Redirect("/", fiber.StatusFound)
}
