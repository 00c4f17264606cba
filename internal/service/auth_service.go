// Package service holds the application's business logic between handlers and repositories.
package service

import (
	"context"
	"strings"
	"sync"

	"moviepicker/internal/models"
	"moviepicker/internal/repository"
	"moviepicker/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the only message a failed login ever shows.
const ErrInvalidCredentials = "Invalid username/email or password"

// Form fields that registration errors can point at.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
)

// AuthService registers and authenticates users.
type AuthService struct {
	userRepo  repository.UserRepository
	cost      int
	dummyOnce sync.Once
	dummyHash []byte
}

// RegisterInput is a registration form submission.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// NewAuthService returns an AuthService hashing with bcrypt.DefaultCost.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo, cost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// HashPassword returns the bcrypt hash of password.
func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hashed), nil
}

// Register validates the submission and creates a regular user. Only the
// bcrypt hash of the password is stored.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := validation.NormalizeEmail(in.Email)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewFieldError(FieldUsername, err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewFieldError(FieldEmail, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewFieldError(FieldPassword, err.Error())
	}
	if in.Password != in.ConfirmPassword {
		return nil, models.NewFieldError(FieldConfirm, "Passwords do not match")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewFieldError(FieldUsername, "Username is already taken")
	}
	existing, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewFieldError(FieldEmail, "Email is already registered")
	}

	hashed, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     models.RoleRegular,
	}
	// A concurrent registration can still win the race; the repository maps
	// the unique violation to a validation error.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate looks the user up by email when login contains "@", by
// username otherwise, and verifies password. Every failure returns the same
// AuthError.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(login))
	} else if login != "" {
		user, err = s.userRepo.GetByUsername(ctx, login)
	}
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Keep timing close to a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, models.NewAuthError(ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewAuthError(ErrInvalidCredentials)
	}
	return user, nil
}

// ResolveCurrentUser returns the user behind a session, or nil when userID
// is zero or no longer resolves.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("moviepicker-dummy-password"), s.cost)
	})
	return s.dummyHash
}
