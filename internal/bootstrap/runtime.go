// Package bootstrap wires the process-wide runtime: database, Redis and the
// development admin account.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moviepicker/internal/cache"
	"moviepicker/internal/config"
	"moviepicker/internal/database"
	"moviepicker/internal/middleware"
	"moviepicker/internal/models"
	"moviepicker/internal/repository"
	"moviepicker/internal/validation"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis and ensures the development
// admin account. The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.Connect(cfg.RedisURL)

	if err := ensureDevAdmin(context.Background(), cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}
	return db, rdb, nil
}

// ensureDevAdmin creates, or promotes, the configured admin account. It only
// runs in development with DEV_BOOTSTRAP_ADMIN set.
func ensureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "admin"
	}
	email := validation.NormalizeEmail(cfg.DevAdminEmail)
	if email == "" {
		email = "admin@moviepicker.local"
	}
	if cfg.DevAdminPassword == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	users := repository.NewUserRepository(db, nil)
	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role != models.RoleAdmin {
			if err := users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return err
			}
		}
		middleware.Logger.Info("development admin ensured", slog.String("username", existing.Username))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	middleware.Logger.Info("development admin created", slog.String("username", username), slog.String("email", email))
	return nil
}
