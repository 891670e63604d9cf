package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/itqan-cloud/service-desk/internal/api/handler"
	"github.com/itqan-cloud/service-desk/internal/api/middleware"
	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
	"github.com/itqan-cloud/service-desk/internal/core/service"
)

// Deps carries the wired components the router exposes over HTTP.
type Deps struct {
	JWTSecret      string
	AuthService    ports.AuthService
	TicketService  ports.TicketService
	CounterService *service.CounterService
	Sessions       *service.SessionManager
	TicketRepo     ports.TicketRepository
	MenuRepo       ports.MenuRepository
	RoomRepo       ports.RoomRepository
	Mongo          *mongo.Database
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("servicedesk"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	ticketHandler := handler.NewTicketHandler(deps.TicketService)
	queueHandler := handler.NewQueueHandler(deps.Sessions)
	counterHandler := handler.NewCounterHandler(deps.CounterService)
	reportHandler := handler.NewReportHandler(deps.TicketRepo)
	referenceHandler := handler.NewReferenceHandler(deps.MenuRepo, deps.RoomRepo)

	authMW := middleware.Auth(deps.JWTSecret)

	// --- Auth ---
	e.POST("/auth/login", authHandler.Login)

	// --- Requester surface ---
	requester := e.Group("/v1", authMW,
		middleware.RBAC(domain.RoleEmployee, domain.RoleAdmin))
	requester.POST("/tickets", ticketHandler.Create)
	requester.POST("/cups", counterHandler.Report)
	requester.GET("/menu", referenceHandler.Menu)
	requester.GET("/rooms", referenceHandler.Rooms)

	// --- Fulfillment surface ---
	fulfillment := e.Group("/v1/queue", authMW,
		middleware.RBAC(domain.RoleOfficeBoy, domain.RoleITSupport, domain.RoleAdmin))
	fulfillment.GET("/live", queueHandler.Live)
	fulfillment.POST("/sessions/:session_id/complete", queueHandler.Complete)

	cups := e.Group("/v1/cups", authMW,
		middleware.RBAC(domain.RoleOfficeBoy, domain.RoleAdmin))
	cups.GET("", counterHandler.Dashboard)
	cups.DELETE("/:room", counterHandler.Clear)

	// --- Reporting collaborator (read-only) ---
	reports := e.Group("/v1/reports", authMW,
		middleware.RBAC(domain.RoleAdmin))
	reports.GET("/tickets", reportHandler.Tickets)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
