package services

import (
	"context"

	"go.uber.org/zap"

	"skillmap-backend/application/ports"
	"skillmap-backend/domain/config"
	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/domain/core/validators"
	pkgerrors "skillmap-backend/pkg/errors"
	"skillmap-backend/pkg/observability"
)

// PipelineService runs the full topic-to-graph pipeline: discover source
// URLs, fetch them under the concurrency ceiling, synthesize a node set and
// persist the resulting graph.
type PipelineService struct {
	discoverer  ports.URLDiscoverer
	fetcher     *FetchService
	synthesizer ports.Synthesizer
	store       ports.GraphStore
	validator   *validators.GraphValidator
	cfg         *config.DomainConfig
	concurrency int
	metrics     *observability.Collector
	logger      *zap.Logger
}

// NewPipelineService creates a pipeline service
func NewPipelineService(
	discoverer ports.URLDiscoverer,
	fetcher *FetchService,
	synthesizer ports.Synthesizer,
	store ports.GraphStore,
	cfg *config.DomainConfig,
	concurrency int,
	metrics *observability.Collector,
	logger *zap.Logger,
) *PipelineService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &PipelineService{
		discoverer:  discoverer,
		fetcher:     fetcher,
		synthesizer: synthesizer,
		store:       store,
		validator:   validators.NewGraphValidator(cfg),
		cfg:         cfg,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      logger,
	}
}

// GenerateGraph builds and stores a skill graph for the given topic.
//
// Failure modes map to the error taxonomy: a provider plan limit aborts the
// fetch batch (ErrPlanLimitExceeded), zero usable documents aborts before
// synthesis (ErrEmptyResultSet), and an unusable synthesis output surfaces as
// ErrMalformedSynthesis.
func (s *PipelineService) GenerateGraph(ctx context.Context, topic string) (*aggregates.SkillGraph, error) {
	if topic == "" {
		return nil, pkgerrors.NewValidationError("topic cannot be empty")
	}

	urls, err := s.discoverer.DiscoverURLs(ctx, topic, s.cfg.MaxSourceURLs)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "url discovery failed")
	}
	s.logger.Info("Discovered source URLs",
		zap.String("topic", topic),
		zap.Int("count", len(urls)),
	)

	docs, err := s.fetcher.FetchAll(ctx, urls, s.concurrency)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		s.logger.Warn("No usable source documents for topic", zap.String("topic", topic))
		return nil, pkgerrors.ErrEmptyResultSet
	}
	s.logger.Info("Fetched source documents",
		zap.String("topic", topic),
		zap.Int("usable", len(docs)),
		zap.Int("discovered", len(urls)),
	)

	nodes, err := s.synthesizer.Synthesize(ctx, topic, docs)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateNodeSet(nodes); err != nil {
		return nil, err
	}
	if hubs := s.validator.CountHubs(nodes); hubs != 1 {
		s.logger.Warn("Synthesis produced an unexpected hub count",
			zap.String("topic", topic),
			zap.Int("hubs", hubs),
		)
	}

	graph, err := aggregates.NewSkillGraph(topic, nodes)
	if err != nil {
		return nil, pkgerrors.ErrMalformedSynthesis.WithCause(err)
	}

	if err := s.store.Save(ctx, graph); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to store graph")
	}

	s.metrics.GraphsGenerated.Inc()
	s.logger.Info("Graph generated",
		zap.String("graphID", graph.ID().String()),
		zap.String("topic", topic),
		zap.Int("nodes", graph.NodeCount()),
	)
	return graph, nil
}

// GetGraph returns a stored graph by id
func (s *PipelineService) GetGraph(ctx context.Context, id aggregates.GraphID) (*aggregates.SkillGraph, error) {
	return s.store.Get(ctx, id)
}

// ListGraphs returns all stored graphs
func (s *PipelineService) ListGraphs(ctx context.Context) ([]*aggregates.SkillGraph, error) {
	return s.store.List(ctx)
}

// DeleteGraph removes a stored graph by id
func (s *PipelineService) DeleteGraph(ctx context.Context, id aggregates.GraphID) error {
	return s.store.Delete(ctx, id)
}
