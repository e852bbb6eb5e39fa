package http

import (
	"todo_backend/internal/config"
	"todo_backend/internal/http/handlers"
	"todo_backend/internal/http/middleware"
	"todo_backend/internal/service"
	"todo_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config  *config.Config
	Tasks   *service.TaskService
	Store   handlers.Pinger
	Tokens  *service.TokenManager
	Hub     *ws.Hub
	Counter middleware.Counter
}

// NewRouter returns an engine with the global middleware chain and all routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.CORS(deps.Config.AllowedOrigins),
		middleware.Metrics(),
	)
	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	h := handlers.NewHandler(deps.Tasks)
	healthHandler := handlers.NewHealthHandler(deps.Store, cfg.StorageDriver, cfg.Version)

	counter := deps.Counter
	if counter == nil {
		counter = middleware.NewMemoryCounter()
	}

	// Health checks (no rate limiting)
	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.JWT(deps.Tokens)
	tenantRL := middleware.TenantRateLimit(counter, cfg.TenantRateLimit, cfg.TenantRateWindow)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.IPRateLimit(counter, cfg.APIRateLimit, cfg.APIRateWindow))
	registerTaskRoutes(v1, h, auth, tenantRL)

	// Unversioned routes kept for older clients
	registerTaskRoutes(r.Group(""), h, auth, tenantRL)

	// Task change feed
	if deps.Hub != nil {
		r.GET("/ws", ws.HandleWS(deps.Hub, deps.Tokens, cfg.AllowedOrigins))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.Handler, auth, tenantRL gin.HandlerFunc) {
	tasks := api.Group("/tasks")
	tasks.Use(auth, tenantRL)
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.PATCH("/:id/complete", h.CompleteTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	api.GET("/me", auth, h.Me)
}

