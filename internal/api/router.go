package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/store-api/docs"
	"github.com/99minutos/store-api/internal/api/handler"
	"github.com/99minutos/store-api/internal/api/middleware"
	"github.com/99minutos/store-api/internal/core/ports"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Logger   zerolog.Logger
	Auth     ports.AuthService
	Users    ports.UserService
	Products ports.ProductService
	Orders   ports.OrderService
	Limiter  ports.LoginLimiter

	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handler.Pinger

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "store",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	productHandler := handler.NewProductHandler(deps.Products)
	orderHandler := handler.NewOrderHandler(deps.Orders)
	requireUser := middleware.Auth(deps.Auth, deps.Logger)

	// --- Auth ---
	e.POST("/token", authHandler.Token, middleware.LoginRateLimit(deps.Limiter, deps.Logger))

	// --- Users ---
	e.POST("/users", userHandler.Register)
	e.GET("/users/me", userHandler.Me, requireUser)
	e.PUT("/users/me", userHandler.UpdateMe, requireUser)

	// --- Catalogue ---
	e.GET("/products", productHandler.List)
	e.POST("/products", productHandler.Create, requireUser)
	e.POST("/orders", orderHandler.Create, requireUser)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
