// Package server contains the HTTP handlers for the ArtLink API.
package server

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	_ "artlink/docs" // swagger docs
	"artlink/internal/cache"
	"artlink/internal/config"
	"artlink/internal/database"
	"artlink/internal/featureflags"
	"artlink/internal/middleware"
	"artlink/internal/models"
	"artlink/internal/repository"
	"artlink/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const appName = "ArtLink"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	repos          *repository.Repositories
	orderService   *service.OrderService
	diagnostics    *service.DiagnosticsService
}

// NewServer connects to the database and Redis and builds a server. Neither
// being reachable stops the server from starting: endpoints that need the
// database answer 503 and /test reports the problem.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Printf("database unavailable, continuing without it: %v", err)
		db = nil
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// db and redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: nil config")
	}

	flags := featureflags.NewManager(cfg.FeatureFlags)
	repos := repository.NewRepositories(db, flags)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("artlink-api"),
		featureFlags:   flags,
		repos:          repos,
		orderService:   service.NewOrderService(repos.Orders),
		diagnostics:    service.NewDiagnosticsService(cfg, db),
	}, nil
}

// NewApp returns a Fiber app with the middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: s.ErrorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Copies request and trace ids into the request context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		// Credentials cannot be combined with a wildcard origin.
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(middleware.SanitizeInput(func() bool {
		return s.featureFlags.Enabled(featureflags.SanitizeInput)
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)
	app.Get("/test", s.Diagnostics)

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "ArtLink Backend Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Post("/users", s.CreateUser)
	api.Get("/users", s.ListUsers)

	api.Post("/artworks", s.CreateArtwork)
	api.Get("/artworks", s.ListArtworks)
	api.Post("/purchase-requests", s.CreatePurchaseRequest)

	api.Post("/supplies", s.CreateSupply)
	api.Get("/supplies", s.ListSupplies)
	api.Post("/orders", s.CreateOrder)
	api.Get("/orders", s.ListOrders)

	api.Post("/posts", s.CreatePost)
	api.Get("/posts", s.ListPosts)
	api.Post("/comments", s.CreateComment)
	api.Get("/comments", s.ListComments)
}

// ErrorHandler renders errors that reach Fiber as JSON. Unknown routes become
// NOT_FOUND and anything unexpected, recovered panics included, INTERNAL_ERROR.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			return models.RespondWithError(c, fe.Code, models.NewNotFoundError("Route"))
		}
		return models.RespondWithError(c, fe.Code, fe)
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports 503 when the database cannot be reached. Redis only
// backs the list cache, so its absence is reported without failing readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "unavailable"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
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

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()
	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
