package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/peoplehub/hrms-api/docs"
	"github.com/peoplehub/hrms-api/internal/api/handler"
	"github.com/peoplehub/hrms-api/internal/api/middleware"
	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
	"github.com/peoplehub/hrms-api/internal/core/routeauth"
)

// Deps carries everything the HTTP layer needs from the composition root.
type Deps struct {
	Log    zerolog.Logger
	Auth   ports.AuthService
	Users  ports.UserService
	Tokens ports.TokenVerifier
	Routes *routeauth.Table

	// Readiness lists the dependencies pinged by GET /health/ready.
	Readiness map[string]handler.Pinger

	// ExposeErrors returns the cause of 500 responses to the client.
	ExposeErrors bool

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       HRMS Identity API
// @version                     1.0
// @description                 Authentication, role-based access and navigation for the HR dashboard.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.ExposeErrors)

	promCfg := echoprometheus.MiddlewareConfig{Namespace: "hrms", Subsystem: "http"}
	handlerCfg := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		handlerCfg.Gatherer = d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerCfg))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)
	e.GET("/me", authHandler.Me, middleware.Guard(d.Tokens)...)

	// --- Navigation (any authenticated role) ---
	navHandler := handler.NewNavigationHandler(d.Routes)
	nav := e.Group("/v1/navigation", middleware.Guard(d.Tokens)...)
	nav.GET("", navHandler.List)
	nav.GET("/:route", navHandler.Resolve)

	// --- User administration ---
	userHandler := handler.NewUserHandler(d.Users)
	users := e.Group("/v1/users", middleware.RequireAuthenticated(d.Tokens))
	users.GET("/:id", userHandler.Get, middleware.RequireRole(domain.RoleAdmin, domain.RoleHR))
	users.PATCH("/:id/role", userHandler.ChangeRole, middleware.RequireRole(domain.RoleAdmin))
	users.POST("/:id/deactivate", userHandler.Deactivate, middleware.RequireRole(domain.RoleAdmin))

	return e
}
