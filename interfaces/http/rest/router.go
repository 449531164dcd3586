package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"skillmap-backend/application/services"
	domaincfg "skillmap-backend/domain/config"
	"skillmap-backend/interfaces/http/rest/handlers"
	"skillmap-backend/interfaces/http/rest/middleware"
	ws "skillmap-backend/interfaces/websocket"
	"skillmap-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	pipeline       *services.PipelineService
	domainCfg      *domaincfg.DomainConfig
	wsHandler      *ws.Handler
	metrics        *observability.Collector
	allowedOrigins []string
	logger         *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	pipeline *services.PipelineService,
	domainCfg *domaincfg.DomainConfig,
	wsHandler *ws.Handler,
	metrics *observability.Collector,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		pipeline:       pipeline,
		domainCfg:      domainCfg,
		wsHandler:      wsHandler,
		metrics:        metrics,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health and observability
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/graphs", func(r chi.Router) {
			graphHandler := handlers.NewGraphHandler(rt.pipeline, rt.domainCfg, rt.logger)
			r.With(middleware.CircuitBreaker(
				middleware.DefaultCircuitBreakerConfig("graph-generation"), rt.logger,
			)).Post("/", graphHandler.CreateGraph)
			r.Get("/", graphHandler.ListGraphs)
			r.Get("/{graphID}", graphHandler.GetGraph)
			r.Get("/{graphID}/view", graphHandler.GetGraphView)
			r.Get("/{graphID}/export", graphHandler.ExportGraph)
			r.Delete("/{graphID}", graphHandler.DeleteGraph)
		})
	})

	// Layout streaming
	router.Get("/ws/graphs/{graphID}", rt.wsHandler.ServeGraph)

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
