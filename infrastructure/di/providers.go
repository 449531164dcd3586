package di

import (
	"net/http"

	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"skillmap-backend/application/layout"
	"skillmap-backend/application/ports"
	"skillmap-backend/application/services"
	domaincfg "skillmap-backend/domain/config"
	"skillmap-backend/infrastructure/config"
	"skillmap-backend/infrastructure/persistence/memory"
	"skillmap-backend/infrastructure/scrape"
	"skillmap-backend/infrastructure/search"
	"skillmap-backend/infrastructure/synthesis"
	"skillmap-backend/interfaces/http/rest"
	ws "skillmap-backend/interfaces/websocket"
	"skillmap-backend/pkg/observability"
)

// Container holds the fully wired application
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Handler http.Handler
	Hub     *ws.Hub
}

// ProvideLogger creates the application logger from configuration
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Server.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideDomainConfig provides the domain rule set
func ProvideDomainConfig() *domaincfg.DomainConfig {
	return domaincfg.DefaultDomainConfig()
}

// ProvideCollector provides the metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("skillmap")
}

// ProvideURLDiscoverer provides the search-backed URL discoverer
func ProvideURLDiscoverer(cfg *config.Config, logger *zap.Logger) ports.URLDiscoverer {
	return search.NewClient(cfg.Search.BaseURL, cfg.Search.APIKey, cfg.Search.RequestTimeout, logger)
}

// ProvidePageFetcher provides the scrape-backed page fetcher
func ProvidePageFetcher(cfg *config.Config, logger *zap.Logger) ports.PageFetcher {
	return scrape.NewClient(cfg.Scrape.BaseURL, cfg.Scrape.APIKey, cfg.Scrape.RequestTimeout, logger)
}

// ProvideSynthesizer provides the LLM synthesizer
func ProvideSynthesizer(cfg *config.Config, logger *zap.Logger) ports.Synthesizer {
	return synthesis.NewSynthesizer(cfg.Synthesis.APIKey, cfg.Synthesis.Model, logger)
}

// ProvideGraphStore provides the in-memory graph store
func ProvideGraphStore() ports.GraphStore {
	return memory.NewGraphStore()
}

// ProvideFetchService provides the bounded fetch dispatcher
func ProvideFetchService(
	fetcher ports.PageFetcher,
	dc *domaincfg.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.FetchService {
	return services.NewFetchService(fetcher, dc, metrics, logger)
}

// ProvidePipelineService provides the topic-to-graph pipeline
func ProvidePipelineService(
	discoverer ports.URLDiscoverer,
	fetcher *services.FetchService,
	synthesizer ports.Synthesizer,
	store ports.GraphStore,
	dc *domaincfg.DomainConfig,
	cfg *config.Config,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.PipelineService {
	return services.NewPipelineService(
		discoverer, fetcher, synthesizer, store,
		dc, cfg.Scrape.MaxConcurrency, metrics, logger,
	)
}

// ProvideLayoutConfig provides the layout tuning
func ProvideLayoutConfig() layout.Config {
	return layout.DefaultConfig()
}

// ProvideHub provides the websocket hub
func ProvideHub(logger *zap.Logger) *ws.Hub {
	return ws.NewHub(logger)
}

// ProvideWSHandler provides the layout streaming handler
func ProvideWSHandler(
	hub *ws.Hub,
	pipeline *services.PipelineService,
	layoutCfg layout.Config,
	dc *domaincfg.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ws.Handler {
	return ws.NewHandler(hub, pipeline, layoutCfg, dc, metrics, logger)
}

// ProvideHandler provides the configured HTTP handler
func ProvideHandler(
	pipeline *services.PipelineService,
	dc *domaincfg.DomainConfig,
	wsHandler *ws.Handler,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(pipeline, dc, wsHandler, metrics, cfg.Server.AllowedOrigins, logger).Setup()
}

// SuperSet is the complete provider set for the application
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideCollector,
	ProvideURLDiscoverer,
	ProvidePageFetcher,
	ProvideSynthesizer,
	ProvideGraphStore,
	ProvideFetchService,
	ProvidePipelineService,
	ProvideLayoutConfig,
	ProvideHub,
	ProvideWSHandler,
	ProvideHandler,
	wire.Struct(new(Container), "*"),
)
