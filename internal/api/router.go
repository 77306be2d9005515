package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moklab/auth-service/internal/api/handler"
	"github.com/moklab/auth-service/internal/api/middleware"
	"github.com/moklab/auth-service/internal/core/domain"
	"github.com/moklab/auth-service/internal/core/ports"
	"github.com/moklab/auth-service/internal/core/service"
	"github.com/moklab/auth-service/internal/core/token"
	mongodb "github.com/moklab/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/moklab/auth-service/internal/infrastructure/db/redis"
	"github.com/moklab/auth-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	userRepo := mongodb.NewUserRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb)
	authService := service.NewAuthService(userRepo, codec, throttle, audit)
	userService := service.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("auth"))
	e.Use(middleware.Authenticate(codec, userRepo, log))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- API routes ---
	g := e.Group("/api")
	g.POST("/auth/signup", authHandler.Signup)
	g.POST("/auth/signin", authHandler.Signin)
	g.GET("/public/hello", userHandler.PublicHello)
	g.GET("/user/profile", userHandler.Profile, middleware.RequireRoles(domain.RoleUser, domain.RoleAdmin))

	admin := g.Group("/admin", middleware.RequireRoles(domain.RoleAdmin))
	admin.GET("/dashboard", userHandler.Dashboard)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.PUT("/users/:id", userHandler.UpdateUser)
	admin.DELETE("/users/:id", userHandler.DeleteUser)

	return e
}
