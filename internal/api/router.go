package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/nimbushr/expense-system/docs"
	"github.com/nimbushr/expense-system/internal/api/handler"
	"github.com/nimbushr/expense-system/internal/api/middleware"
	"github.com/nimbushr/expense-system/internal/core/service"
	"github.com/nimbushr/expense-system/internal/infrastructure/config"
	mongostore "github.com/nimbushr/expense-system/internal/infrastructure/db/mongo"
	redisstore "github.com/nimbushr/expense-system/internal/infrastructure/db/redis"
)

// AuditRecorder is satisfied by queue.Recorder; the router only needs to
// hand events to it.
type AuditRecorder = handler.AuditRecorder

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, recorder AuditRecorder, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("expense"))

	// --- Dependencies ---
	users := mongostore.NewUserProfileRepository(db)
	reimbs := mongostore.NewReimbursementRepository(db)
	denylist := redisstore.NewTokenDenylist(rdb)

	dispatcher := service.NewDispatcher(
		service.NewAuthHandlers(users, log),
		service.NewViewHandlers(users, reimbs, log),
		service.NewMutationHandlers(users, reimbs, log),
		log,
	)

	authHandler := handler.NewAuthHandler(dispatcher, denylist, recorder, cfg.JWTSecret, cfg.TokenTTL)
	expenseHandler := handler.NewExpenseHandler(dispatcher, recorder)
	profileHandler := handler.NewProfileHandler(dispatcher)

	requireAuth := middleware.Auth(cfg.JWTSecret, denylist)
	optionalAuth := middleware.Optional(cfg.JWTSecret, denylist)

	// --- Auth routes ---
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/logout", authHandler.Logout, requireAuth)

	// --- Menu gating (works logged out too) ---
	e.GET("/v1/actions", profileHandler.AllowedActions, optionalAuth)

	// --- Employee routes ---
	e.POST("/v1/expenses", expenseHandler.Submit, requireAuth)
	e.GET("/v1/expenses/pending", expenseHandler.OwnPending, requireAuth)
	e.GET("/v1/expenses/resolved", expenseHandler.OwnResolved, requireAuth)
	e.GET("/v1/profile", profileHandler.Self, requireAuth)
	e.PUT("/v1/profile", profileHandler.UpdateSelf, requireAuth)

	// --- Manager routes (the dispatcher enforces the role) ---
	e.POST("/v1/expenses/:id/approve", expenseHandler.Approve, requireAuth)
	e.POST("/v1/expenses/:id/deny", expenseHandler.Deny, requireAuth)
	e.GET("/v1/admin/expenses/pending", expenseHandler.AllPending, requireAuth)
	e.GET("/v1/admin/expenses/resolved", expenseHandler.AllResolved, requireAuth)
	e.GET("/v1/admin/employees", profileHandler.AllEmployees, requireAuth)
	e.GET("/v1/admin/employees/:id/expenses", expenseHandler.ByEmployee, requireAuth)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
