package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/fixmycity/civic-api/docs"
	"github.com/fixmycity/civic-api/internal/api/handler"
	"github.com/fixmycity/civic-api/internal/api/middleware"
	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
	"github.com/fixmycity/civic-api/internal/core/service"
	mongorepo "github.com/fixmycity/civic-api/internal/infrastructure/db/mongo"
	redisrepo "github.com/fixmycity/civic-api/internal/infrastructure/db/redis"
	"github.com/fixmycity/civic-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, provider ports.CheckoutProvider, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("civic"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	issueRepo := mongorepo.NewIssueRepository(db)
	paymentRepo := mongorepo.NewPaymentRepository(db)
	roleCache := redisrepo.NewRoleCache(rdb, cfg.RoleCacheTTL)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo, roleCache, log)
	issueService := service.NewIssueService(issueRepo, userRepo, cfg.Billing.FreeIssueLimit, log)
	paymentService := service.NewPaymentService(paymentRepo, issueRepo, userRepo, provider, service.Prices{
		Boost:        cfg.Billing.BoostPrice,
		Subscription: cfg.Billing.SubscriptionPrice,
	}, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	issueHandler := handler.NewIssueHandler(issueService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	// Auth proves identity, ResolveRole attaches the store-resolved role;
	// each dashboard group is gated once at its root and nested routes inherit.
	v1 := e.Group("/v1",
		middleware.Auth(cfg.JWTSecret),
		middleware.ResolveRole(userService, log),
	)

	v1.GET("/users/me", userHandler.Me)
	v1.GET("/users/me/role", userHandler.Role)
	v1.POST("/users", userHandler.Upsert)
	v1.GET("/users/:email", userHandler.Get)
	v1.PATCH("/users/:email", userHandler.UpdateProfile)

	v1.GET("/issues", issueHandler.List)
	v1.GET("/issues/:id", issueHandler.Get)
	v1.POST("/issues/:id/upvote", issueHandler.Upvote)

	citizen := v1.Group("/citizen", middleware.RequireRoles(domain.RoleCitizen))
	citizen.POST("/issues", issueHandler.Report)
	citizen.GET("/issues", issueHandler.ListMine)
	citizen.GET("/issues/stats", issueHandler.CitizenStats)
	citizen.PATCH("/issues/:id", issueHandler.Edit)
	citizen.DELETE("/issues/:id", issueHandler.Delete)
	citizen.POST("/payments/create-checkout-session", paymentHandler.CreateCheckoutSession)
	citizen.POST("/payments/verify", paymentHandler.Verify)
	citizen.GET("/payments", paymentHandler.History)

	staff := v1.Group("/staff", middleware.RequireRoles(domain.RoleStaff))
	staff.GET("/issues", issueHandler.ListAssigned)
	staff.PATCH("/issues/:id/status", issueHandler.UpdateStatus)
	staff.GET("/stats", issueHandler.StaffStats)

	admin := v1.Group("/admin", middleware.RequireRoles(domain.RoleAdmin))
	admin.GET("/stats", issueHandler.AdminStats)
	admin.POST("/issues/:id/assign", issueHandler.Assign)
	admin.POST("/issues/:id/reject", issueHandler.Reject)
	admin.PATCH("/issues/:id/status", issueHandler.UpdateStatus)
	admin.DELETE("/issues/:id", issueHandler.Delete)
	admin.GET("/users", userHandler.ListUsers)
	admin.PATCH("/users/:email/block", userHandler.SetBlocked)
	admin.POST("/staff", userHandler.CreateStaff)
	admin.GET("/staff", userHandler.ListStaff)
	admin.DELETE("/staff/:email", userHandler.DeleteStaff)

	return e
}
