package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Index lists every persisted category.
// @Summary Home page
// @Description List all categories
// @Tags categories
// @Produce json
// @Success 200 {object} object{view=string,categories=[]models.Category}
// @Router / [get]
func (s *Server) Index(c *fiber.Ctx) error {
	categories, err := s.categoryService.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return render(c, fiber.StatusOK, viewIndex, fiber.Map{"categories": categories})
}

// ShowCategory lists the titles currently in a category.
// @Summary Show category
// @Description Titles of a persisted category, fetched live from Wikipedia
// @Tags categories
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} object{view=string,category=string,titles=[]string}
// @Failure 502 {object} models.ErrorResponse
// @Router /categories/{category} [get]
func (s *Server) ShowCategory(c *fiber.Ctx) error {
	name, titles, err := s.categoryService.Titles(c.UserContext(), pathParam(c, "category"))
	if err != nil {
		return s.respondError(c, err)
	}
	return render(c, fiber.StatusOK, viewCategory, fiber.Map{
		"category": name,
		"titles":   titles,
	})
}

// NewCategoryForm renders the empty add-category form.
// @Summary Add category form
// @Tags categories
// @Produce json
// @Success 200 {object} object{view=string}
// @Failure 302 "Not logged in"
// @Router /categories [get]
func (s *Server) NewCategoryForm(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, viewAddCategory, fiber.Map{"category": ""})
}

// CreateCategory persists a new category after validating its name.
// @Summary Create category
// @Tags categories
// @Accept x-www-form-urlencoded
// @Produce json
// @Param category formData string true "Category name"
// @Success 200 {object} object{view=string,category=string,titles=[]string,message=string}
// @Failure 400 {object} object{view=string,category=string,error=string}
// @Router /categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	raw := c.FormValue("category")
	ctx := c.UserContext()

	category, err := s.categoryService.Create(ctx, currentUser(c).ID, raw)
	if err != nil {
		if status := mapServiceError(err); status == fiber.StatusBadRequest {
			return render(c, status, viewAddCategory, fiber.Map{
				"category": strings.TrimSpace(raw),
				"error":    errorMessage(err),
			})
		}
		return s.respondError(c, err)
	}

	name, titles, err := s.categoryService.Titles(ctx, category.Name)
	if err != nil {
		return s.respondError(c, err)
	}
	return render(c, fiber.StatusOK, viewCategory, fiber.Map{
		"category": name,
		"titles":   titles,
		"message":  "Category created!",
	})
}
