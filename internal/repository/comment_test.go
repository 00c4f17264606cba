package repository

import (
	"context"
	"testing"
	"time"

	"moviepicker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCommentFixtures(t *testing.T, db *gorm.DB) (*models.User, *models.Movie) {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Username: "commenter", Email: "commenter@example.com", Password: "hash"}
	require.NoError(t, NewUserRepository(db, nil).Create(ctx, user))
	movie, err := NewMovieRepository(db).GetOrCreate(ctx, "Up")
	require.NoError(t, err)
	return user, movie
}

func TestCommentRepository_Moderation(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	user, movie := seedCommentFixtures(t, db)

	approved := &models.Comment{Content: "Loved it", UserID: user.ID, MovieID: movie.ID}
	rejected := &models.Comment{Content: "Spam", UserID: user.ID, MovieID: movie.ID}
	waiting := &models.Comment{Content: "Pending", UserID: user.ID, MovieID: movie.ID}
	for _, c := range []*models.Comment{approved, rejected, waiting} {
		require.NoError(t, repo.Create(ctx, c))
		assert.False(t, c.IsVisible)
		assert.False(t, c.IsDeleted)
	}

	public, err := repo.ListPublicByMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Empty(t, public)

	require.NoError(t, repo.SetVisible(ctx, approved.ID))
	require.NoError(t, repo.SetVisible(ctx, approved.ID))
	require.NoError(t, repo.MarkDeleted(ctx, rejected.ID))
	require.NoError(t, repo.MarkDeleted(ctx, rejected.ID))

	public, err = repo.ListPublicByMovie(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Loved it", public[0].Content)
	assert.Equal(t, "commenter", public[0].User.Username)
	assert.Empty(t, public[0].User.Email)
	assert.Empty(t, public[0].User.Password)

	pending, err := repo.ListPending(ctx, time.Now().Add(-models.ModerationWindow))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, waiting.ID, pending[0].ID)
	assert.Equal(t, "Up", pending[0].Movie.Title)

	// Approving a rejected comment does not resurrect it.
	require.NoError(t, repo.SetVisible(ctx, rejected.ID))
	got, err := repo.GetByID(ctx, rejected.ID)
	require.NoError(t, err)
	assert.False(t, got.Public())
}

func TestCommentRepository_UnknownID(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	assert.True(t, models.HasCode(repo.SetVisible(ctx, 404), models.CodeNotFound))
	assert.True(t, models.HasCode(repo.MarkDeleted(ctx, 404), models.CodeNotFound))

	_, err := repo.GetByID(ctx, 404)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestCommentRepository_ListPendingExcludesOld(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	user, movie := seedCommentFixtures(t, db)

	now := time.Now()
	old := &models.Comment{Content: "Stale", UserID: user.ID, MovieID: movie.ID, CreatedAt: now.Add(-25 * time.Hour)}
	fresh := &models.Comment{Content: "Fresh", UserID: user.ID, MovieID: movie.ID, CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))

	pending, err := repo.ListPending(ctx, now.Add(-models.ModerationWindow))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Fresh", pending[0].Content)
}
