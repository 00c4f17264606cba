package service

import (
	"context"
	"log/slog"

	"moviepicker/internal/middleware"
	"moviepicker/internal/models"
	"moviepicker/internal/repository"
)

// AdminService manages accounts on behalf of administrators.
type AdminService struct {
	userRepo repository.UserRepository
}

func NewAdminService(userRepo repository.UserRepository) *AdminService {
	return &AdminService{userRepo: userRepo}
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SetRole changes targetID's role. Administrators cannot change their own role.
func (s *AdminService) SetRole(ctx context.Context, actorID, targetID uint, role models.Role) error {
	if !role.Valid() {
		return models.NewFieldError("role", "Unknown role")
	}
	if actorID == targetID {
		return models.NewFieldError("role", "You cannot change your own role")
	}
	if err := s.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "user role changed",
		slog.Uint64("actor_id", uint64(actorID)),
		slog.Uint64("target_id", uint64(targetID)),
		slog.String("role", string(role)),
	)
	return nil
}
