package server

import (
	"github.com/gofiber/fiber/v2"
)

// RehostImage relays an image from an allow-listed host.
// @Summary Relay image
// @Description Fetches an image from an allow-listed host and serves it from this origin
// @Tags images
// @Produce image/jpeg,image/png,image/gif,image/webp
// @Param url query string true "Image URL"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /rehost_image [get]
func (s *Server) RehostImage(c *fiber.Ctx) error {
	img, err := s.imageRelay.Fetch(c.UserContext(), c.Query("url"))
	if err != nil {
		return s.respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Status(fiber.StatusOK).Send(img.Data)
}
