// Package server contains the HTTP handlers and routing for the movie catalog.
package server

import (
	"context"
	"fmt"
	"time"

	_ "moviepicker/docs" // swagger docs
	"moviepicker/internal/bootstrap"
	"moviepicker/internal/cache"
	"moviepicker/internal/catalog"
	"moviepicker/internal/config"
	"moviepicker/internal/middleware"
	"moviepicker/internal/models"
	"moviepicker/internal/repository"
	"moviepicker/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	cache          *cache.Store
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	movieRepo    repository.MovieRepository
	commentRepo  repository.CommentRepository

	catalog           service.CatalogLookup
	authService       *service.AuthService
	categoryService   *service.CategoryService
	movieService      *service.MovieService
	savedListService  *service.SavedListService
	commentService    *service.CommentService
	moderationService *service.ModerationService
	adminService      *service.AdminService
	imageRelay        *service.ImageRelayService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, rate limiting and session revocation are
// then skipped.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	store := cache.New(redisClient)
	timeout := time.Duration(cfg.ExternalTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &Server{
		config:       cfg,
		db:           db,
		redis:        redisClient,
		cache:        store,
		userRepo:     repository.NewUserRepository(db, store),
		categoryRepo: repository.NewCategoryRepository(db),
		movieRepo:    repository.NewMovieRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		imageRelay:   service.NewImageRelayService(cfg.RelayHosts(), timeout),
	}
	if cfg.MetricsEnabled {
		s.promMiddleware = middleware.InitMetrics("moviepicker")
	}

	s.catalog = catalog.NewService(
		catalog.NewWikipediaClient(cfg.WikipediaAPIURL, timeout),
		catalog.NewOMDbClient(cfg.OMDbBaseURL, cfg.OMDbAPIKey, timeout),
	)
	s.initServices()
	return s, nil
}

// WithCatalog replaces the catalog lookup behind every service.
func (s *Server) WithCatalog(lookup service.CatalogLookup) *Server {
	s.catalog = lookup
	s.initServices()
	return s
}

func (s *Server) initServices() {
	s.authService = service.NewAuthService(s.userRepo)
	s.categoryService = service.NewCategoryService(s.categoryRepo, s.catalog)
	s.movieService = service.NewMovieService(s.movieRepo, s.commentRepo, s.categoryRepo, s.catalog)
	s.savedListService = service.NewSavedListService(s.movieRepo, s.catalog)
	s.commentService = service.NewCommentService(s.commentRepo, s.movieRepo)
	s.moderationService = service.NewModerationService(s.commentRepo)
	s.adminService = service.NewAdminService(s.userRepo)
}

// NewApp builds a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "moviepicker",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8080,http://127.0.0.1:8080"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"view":  "error",
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// Resolve the session user once per request.
	app.Use(s.CurrentUser())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	authed := s.RequireRole(models.RoleRegular)

	app.Get("/", s.Index)
	app.Get("/categories", authed, s.NewCategoryForm)
	app.Post("/categories", authed, s.CreateCategory)
	app.Get("/categories/:category", s.ShowCategory)

	app.Get("/random", s.RandomMovie)
	app.Get("/movie/:title", s.ShowMovie)
	app.Post("/movie/:title/comments", authed,
		middleware.NewRateLimiter(s.redis, s.config.Env, "comment", 5, time.Minute).Handler(),
		s.PostComment)

	app.Get("/login", s.LoginForm)
	app.Post("/login",
		middleware.NewRateLimiter(s.redis, s.config.Env, "login", 10, 5*time.Minute).Handler(),
		s.LoginOrRegister)
	app.Get("/logout", s.Logout)
	app.Post("/logout", s.Logout)

	app.Get("/user", authed, s.ShowSavedList)
	app.Post("/user", authed, s.UpdateSavedList)

	moderation := app.Group("/moderation", s.RequireRole(models.RoleModerator))
	moderation.Get("/", s.ModerationQueue)
	moderation.Post("/:id/approve", s.ApproveComment)
	moderation.Post("/:id/reject", s.RejectComment)

	admin := app.Group("/admin", s.RequireRole(models.RoleAdmin))
	admin.Get("/users", s.AdminUsers)
	admin.Post("/users/:id/role", s.SetUserRole)

	app.Get("/rehost_image", s.RehostImage)
}

// LivenessCheck handles liveness checks from the orchestrator
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness checks. Redis is optional: an
// unconfigured Redis is reported but does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases the server's connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to close redis", "error", err)
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
