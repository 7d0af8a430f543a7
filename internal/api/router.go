package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/identity-platform/user-directory/docs"
	"github.com/identity-platform/user-directory/internal/api/handler"
	"github.com/identity-platform/user-directory/internal/api/middleware"
	"github.com/identity-platform/user-directory/internal/core/domain"
	"github.com/identity-platform/user-directory/internal/core/service"
	mongodb "github.com/identity-platform/user-directory/internal/infrastructure/db/mongo"
	"github.com/identity-platform/user-directory/internal/infrastructure/queue"
	"github.com/identity-platform/user-directory/internal/pkg/config"
)

// NewRouter builds the Echo instance with the full service graph wired in.
// The object graph is constructed once here and passed down by reference; no
// component performs ambient lookup.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("userdir"))

	// --- Routing table, fail fast on missing queue names ---
	routes, err := domain.NewQueueRouting(cfg.Queues.Create, cfg.Queues.Update, cfg.Queues.Delete)
	if err != nil {
		return nil, err
	}

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	publisher := queue.NewPublisher(rdb, log)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, log)
	userService := service.NewUserService(userRepo, log)
	producerService := service.NewProducerService(userRepo, publisher, routes, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(producerService, userService)

	authMW := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth ---
	e.POST("/Auth/getToken", authHandler.GetToken)

	// --- User directory (ADMIN only) ---
	u := e.Group("/Usuario", authMW, adminOnly)
	u.GET("", userHandler.GetAll)
	u.GET("/:id", userHandler.GetByID)
	u.GET("/getAllByRole/:role", userHandler.GetAllByRole)
	u.POST("", userHandler.Create)
	u.PUT("", userHandler.Update)
	u.DELETE("", userHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
