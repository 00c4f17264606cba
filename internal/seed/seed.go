// Package seed populates a development database with categories, demo users
// and comments waiting for moderation.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"moviepicker/internal/catalog"
	"moviepicker/internal/middleware"
	"moviepicker/internal/models"
	"moviepicker/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// File is the layout of a seed file.
type File struct {
	Categories []string `yaml:"categories"`
	Titles     []string `yaml:"titles"`
}

// LoadFile parses a YAML seed file.
func LoadFile(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Options controls how much demo data is generated.
type Options struct {
	NumUsers        int
	CommentsPerUser int
	Password        string
}

// Seeder writes seed data through the repositories.
type Seeder struct {
	categories repository.CategoryRepository
	users      repository.UserRepository
	movies     repository.MovieRepository
	comments   repository.CommentRepository
	faker      *gofakeit.Faker
	cost       int
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{
		categories: repository.NewCategoryRepository(db),
		users:      repository.NewUserRepository(db, nil),
		movies:     repository.NewMovieRepository(db),
		comments:   repository.NewCommentRepository(db),
		faker:      gofakeit.New(seed),
		cost:       bcrypt.DefaultCost,
	}
}

// WithBcryptCost sets the hashing cost for generated accounts.
func (s *Seeder) WithBcryptCost(cost int) *Seeder {
	s.cost = cost
	return s
}

// Categories stores every valid, not yet persisted name and returns how many
// were created. Invalid names are logged and skipped.
func (s *Seeder) Categories(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, raw := range names {
		name, err := catalog.ValidateCategoryName(raw)
		if err != nil {
			middleware.Logger.Warn("skipping invalid category", slog.String("name", raw), slog.String("error", err.Error()))
			continue
		}
		existing, err := s.categories.GetByName(ctx, name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if err := s.categories.Create(ctx, &models.Category{Name: name}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

var nonUsernameChars = regexp.MustCompile(`[^a-z0-9]+`)

// Users creates n regular accounts sharing password.
func (s *Seeder) Users(ctx context.Context, n int, password string) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		base := nonUsernameChars.ReplaceAllString(strings.ToLower(s.faker.FirstName()), "")
		if len(base) < 3 {
			base = "user"
		}
		if len(base) > 20 {
			base = base[:20]
		}
		username := fmt.Sprintf("%s%d", base, i+1)
		user := &models.User{
			Username: username,
			Email:    username + "@seed.moviepicker.local",
			Password: string(hash),
			Role:     models.RoleRegular,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return users, fmt.Errorf("create user %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// PendingComments leaves perUser hidden comments from each user on random
// titles, for exercising the moderation queue.
func (s *Seeder) PendingComments(ctx context.Context, users []*models.User, titles []string, perUser int) (int, error) {
	if len(titles) == 0 {
		return 0, nil
	}
	created := 0
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			title := titles[s.faker.IntRange(0, len(titles)-1)]
			movie, err := s.movies.GetOrCreate(ctx, title)
			if err != nil {
				return created, err
			}
			comment := &models.Comment{
				Content: s.faker.Sentence(12),
				UserID:  user.ID,
				MovieID: movie.ID,
			}
			if err := s.comments.Create(ctx, comment); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// Run applies f and generates the demo data described by opts.
func (s *Seeder) Run(ctx context.Context, f *File, opts Options) error {
	n, err := s.Categories(ctx, f.Categories)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	middleware.Logger.Info("seeded categories", slog.Int("created", n))

	if opts.NumUsers <= 0 {
		return nil
	}
	users, err := s.Users(ctx, opts.NumUsers, opts.Password)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	comments, err := s.PendingComments(ctx, users, f.Titles, opts.CommentsPerUser)
	if err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	middleware.Logger.Info("seeded demo data", slog.Int("users", len(users)), slog.Int("comments", comments))
	return nil
}
