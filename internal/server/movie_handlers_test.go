package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"moviepicker/internal/catalog"
	"moviepicker/internal/models"
	"moviepicker/internal/service"
	"moviepicker/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowMovie(t *testing.T) {
	env := newTestEnv(t)
	env.stub.movies["Up (2009 film)"] = &catalog.MovieData{RawTitle: "Up (2009 film)", Title: "Up", Year: "2009"}

	resp := env.do(http.MethodGet, "/movie/"+url.PathEscape("Up (2009 film)"), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeView(t, resp)
	assert.Equal(t, viewMovie, body["view"])
	movie := body["movie"].(map[string]any)
	assert.Equal(t, "Up", movie["title"])
	assert.Equal(t, "2009", movie["year"])
	assert.Equal(t, []any{}, body["comments"])

	resp = env.do(http.MethodGet, "/movie/Nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body = decodeView(t, resp)
	assert.Equal(t, viewMovieNotFound, body["view"])
	assert.Equal(t, "Nope", body["title"])
}

func TestShowMovie_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.stub.movieErr = models.NewExternalSourceError("omdb", errors.New("connection refused"))

	resp := env.do(http.MethodGet, "/movie/Up", nil, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeView(t, resp)
	assert.Equal(t, viewError, body["view"])
	assert.Equal(t, externalFailureMsg, body["error"])
	assert.NotContains(t, body["error"], "connection refused")
}

func TestPostComment(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleRegular)
	cookie := env.login("alice")
	ctx := context.Background()

	resp := env.do(http.MethodPost, "/movie/Up/comments", url.Values{"content": {"Great film"}}, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/movie/Up", resp.Header.Get("Location"))

	movie, err := env.server.movieRepo.GetByTitle(ctx, "Up")
	require.NoError(t, err)
	require.NotNil(t, movie)

	// New comments wait for moderation.
	public, err := env.server.commentRepo.ListPublicByMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Empty(t, public)

	t.Run("blank is ignored", func(t *testing.T) {
		resp := env.do(http.MethodPost, "/movie/Cars/comments", url.Values{"content": {"   "}}, cookie)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		movie, err := env.server.movieRepo.GetByTitle(ctx, "Cars")
		require.NoError(t, err)
		assert.Nil(t, movie)
	})

	t.Run("too long", func(t *testing.T) {
		long := strings.Repeat("a", validation.MaxCommentLength+1)
		resp := env.do(http.MethodPost, "/movie/Up/comments", url.Values{"content": {long}}, cookie)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		location := resp.Header.Get("Location")
		assert.True(t, strings.HasPrefix(location, "/movie/Up?comment_error="), location)

		pending, err := env.server.commentRepo.ListPending(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Len(t, pending, 1)

		env.stub.movies["Up"] = &catalog.MovieData{RawTitle: "Up", Title: "Up"}
		resp = env.do(http.MethodGet, location, nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, decodeView(t, resp)["comment_error"])
	})

	t.Run("anonymous", func(t *testing.T) {
		resp := env.do(http.MethodPost, "/movie/Up/comments", url.Values{"content": {"hi"}}, nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})
}

func TestShowMovie_CommentAuthorsArePublicOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser("alice", models.RoleRegular)
	env.stub.movies["Up"] = &catalog.MovieData{RawTitle: "Up", Title: "Up"}
	ctx := context.Background()

	comment, err := env.server.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID: alice.ID, Title: "Up", Content: "Loved it",
	})
	require.NoError(t, err)
	require.NoError(t, env.server.moderationService.Approve(ctx, 1, comment.ID))

	resp := env.do(http.MethodGet, "/movie/Up", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"author":"alice"`)
	assert.NotContains(t, body, alice.Email)
	assert.NotContains(t, body, `"role"`)
}

func TestShowMovie_PaddedTitle(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("alice", models.RoleRegular)
	env.createUser("mod", models.RoleModerator)
	author := env.login("alice")
	env.stub.movies["Up"] = &catalog.MovieData{RawTitle: "Up", Title: "Up"}

	resp := env.do(http.MethodPost, "/movie/%20Up/comments", url.Values{"content": {"Spaced"}}, author)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/movie/Up", resp.Header.Get("Location"))

	pending, err := env.server.commentRepo.ListPending(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NoError(t, env.server.moderationService.Approve(context.Background(), 1, pending[0].ID))

	resp = env.do(http.MethodGet, "/movie/%20Up", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeView(t, resp)
	assert.Equal(t, "Up", body["title"])
	assert.Len(t, body["comments"], 1)
}

func TestRandomMovie(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/random", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, env.server.categoryRepo.Create(context.Background(), &models.Category{Name: "Pixar_films"}))
	env.stub.titles["Pixar_films"] = []string{"Toy Story 2"}

	resp = env.do(http.MethodGet, "/random", nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/movie/Toy%20Story%202", resp.Header.Get("Location"))
}

func TestRandomMovie_EmptyCategory(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.server.categoryRepo.Create(context.Background(), &models.Category{Name: "Empty_films"}))

	resp := env.do(http.MethodGet, "/random", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
