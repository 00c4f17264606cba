package server

import (
	"net/url"

	"moviepicker/internal/models"
	"moviepicker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ShowMovie renders live metadata and approved comments for a title.
// @Summary Show movie
// @Tags movies
// @Produce json
// @Param title path string true "Wikipedia article title"
// @Success 200 {object} object{view=string,movie=catalog.MovieData,comments=[]service.PublicComment,comment_error=string}
// @Failure 404 {object} object{view=string,title=string}
// @Failure 502 {object} models.ErrorResponse
// @Router /movie/{title} [get]
func (s *Server) ShowMovie(c *fiber.Ctx) error {
	title := pathParam(c, "title")

	view, err := s.movieService.Show(c.UserContext(), title)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return render(c, fiber.StatusNotFound, viewMovieNotFound, fiber.Map{"title": title})
		}
		return s.respondError(c, err)
	}
	data := fiber.Map{
		"title":    title,
		"movie":    view.Movie,
		"comments": view.Comments,
	}
	if msg := c.Query(commentErrorParam); msg != "" {
		data["comment_error"] = msg
	}
	return render(c, fiber.StatusOK, viewMovie, data)
}

const commentErrorParam = "comment_error"

// PostComment queues a comment for moderation and returns to the movie page.
// Rejected input is reported on the movie page through the comment_error query.
// @Summary Comment on a movie
// @Tags movies
// @Accept x-www-form-urlencoded
// @Param title path string true "Wikipedia article title"
// @Param content formData string true "Comment text"
// @Success 302 "Back to the movie page"
// @Router /movie/{title}/comments [post]
func (s *Server) PostComment(c *fiber.Ctx) error {
	title := pathParam(c, "title")

	_, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  currentUser(c).ID,
		Title:   title,
		Content: c.FormValue("content"),
	})
	if err != nil {
		if mapServiceError(err) != fiber.StatusBadRequest {
			return s.respondError(c, err)
		}
		back := moviePath(title) + "?" + url.Values{commentErrorParam: {errorMessage(err)}}.Encode()
		return c.Redirect(back, fiber.StatusFound)
	}
	return c.Redirect(moviePath(title), fiber.StatusFound)
}

// RandomMovie redirects to a random title from a random category.
// @Summary Random movie
// @Tags movies
// @Success 302 "Redirect to /movie/{title}"
// @Failure 404 {object} models.ErrorResponse
// @Router /random [get]
func (s *Server) RandomMovie(c *fiber.Ctx) error {
	title, err := s.movieService.Random(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Redirect(moviePath(title), fiber.StatusFound)
}
