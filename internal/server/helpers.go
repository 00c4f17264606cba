package server

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"moviepicker/internal/middleware"
	"moviepicker/internal/models"

	"github.com/gofiber/fiber/v2"
)

// View names rendered by the handlers.
const (
	viewIndex          = "index"
	viewCategory       = "category"
	viewAddCategory    = "add_category"
	viewMovie          = "movie"
	viewMovieNotFound  = "movie_not_found"
	viewLogin          = "login"
	viewUser           = "user"
	viewModeration     = "moderation"
	viewAdminUsers     = "admin_users"
	viewError          = "error"
	externalFailureMsg = "An upstream service is unavailable right now. Please try again later."
)

// render answers with a view document: the view name, the current user and data.
func render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	body := fiber.Map{
		"view":         view,
		"current_user": currentUser(c),
	}
	for k, v := range data {
		body[k] = v
	}
	c.Locals(middleware.LocalsView, view)
	return c.Status(status).JSON(body)
}

// mapServiceError picks the HTTP status for an application error.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation, models.CodeInvalidName:
		return fiber.StatusBadRequest
	case models.CodeAuth:
		return fiber.StatusUnauthorized
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeExternalSource:
		return fiber.StatusBadGateway
	case models.CodeAuthorization:
		return fiber.StatusFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the response for err. Authorization failures redirect
// to the login page; upstream and internal failures hide their details.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := mapServiceError(err)
	switch status {
	case fiber.StatusFound:
		return c.Redirect("/login", fiber.StatusFound)
	case fiber.StatusBadGateway:
		middleware.Logger.WarnContext(c.UserContext(), "external source failure",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
		return c.Status(status).JSON(models.ErrorResponse{
			View:  viewError,
			Error: externalFailureMsg,
			Code:  models.CodeExternalSource,
		})
	case fiber.StatusInternalServerError:
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, err)
}

// errorHandler renders errors that escape handlers, such as unknown routes.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{View: viewError, Error: fe.Message})
	}
	return s.respondError(c, err)
}

// pathParam returns the unescaped, trimmed route parameter name.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	return strings.TrimSpace(raw)
}

// parseID extracts a route parameter by name as a positive uint.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid " + param)
	}
	return uint(id), nil
}

func moviePath(title string) string {
	return "/movie/" + url.PathEscape(title)
}

// errorMessage is the user-facing text of an application error.
func errorMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

// fieldOf returns the form field an application error is scoped to.
func fieldOf(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
