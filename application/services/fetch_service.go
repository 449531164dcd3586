package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"skillmap-backend/application/ports"
	"skillmap-backend/domain/config"
	"skillmap-backend/domain/core/entities"
	pkgerrors "skillmap-backend/pkg/errors"
	"skillmap-backend/pkg/observability"
)

// FetchService turns a list of candidate URLs into usable source documents
// under a hard external concurrency ceiling. Ordinary per-URL failures shrink
// the result set; a classified plan-limit failure aborts the whole batch and
// surfaces as a distinct error with no partial results.
type FetchService struct {
	fetcher ports.PageFetcher
	filter  *DocumentFilter
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewFetchService creates a fetch service
func NewFetchService(
	fetcher ports.PageFetcher,
	cfg *config.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *FetchService {
	return &FetchService{
		fetcher: fetcher,
		filter:  NewDocumentFilter(cfg),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchAll fetches every URL with at most limit concurrent requests in
// flight. A limit of 1 (or less) degrades to strict sequential processing in
// input order. With limit > 1, completion order is non-deterministic and
// callers must not rely on it.
//
// When any fetch fails with a plan-limit classification the call returns
// pkgerrors.ErrPlanLimitExceeded and no documents: workers already processing
// a URL finish it silently but pop no further work, and their results are
// discarded so a plan-limit failure never mixes with partial success.
func (s *FetchService) FetchAll(ctx context.Context, urls []string, limit int) ([]entities.SourceDocument, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	if limit <= 1 {
		return s.fetchSequential(ctx, urls)
	}
	return s.fetchConcurrent(ctx, urls, limit)
}

func (s *FetchService) fetchSequential(ctx context.Context, urls []string) ([]entities.SourceDocument, error) {
	docs := make([]entities.SourceDocument, 0, len(urls))
	for _, url := range urls {
		doc, err := s.fetchOne(ctx, url)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (s *FetchService) fetchConcurrent(ctx context.Context, urls []string, limit int) ([]entities.SourceDocument, error) {
	if limit > len(urls) {
		limit = len(urls)
	}

	var (
		mu      sync.Mutex
		next    int
		planErr error
		docs    []entities.SourceDocument
		wg      sync.WaitGroup
	)

	// Workers share one pending queue. The mutex makes each pop exclusive so
	// no URL is ever attempted twice; setting planErr stops further pops.
	worker := func() {
		defer wg.Done()
		for {
			mu.Lock()
			if planErr != nil || next >= len(urls) {
				mu.Unlock()
				return
			}
			url := urls[next]
			next++
			mu.Unlock()

			doc, err := s.fetchOne(ctx, url)

			mu.Lock()
			if err != nil {
				if planErr == nil {
					planErr = err
				}
			} else if doc != nil && planErr == nil {
				docs = append(docs, *doc)
			}
			mu.Unlock()
		}
	}

	wg.Add(limit)
	for i := 0; i < limit; i++ {
		go worker()
	}
	wg.Wait()

	if planErr != nil {
		return nil, planErr
	}
	return docs, nil
}

// fetchOne attempts a single URL. It returns (nil, nil) for an absorbed
// ordinary failure or a filtered-out document, and a non-nil error only for
// the batch-fatal plan-limit case.
func (s *FetchService) fetchOne(ctx context.Context, url string) (*entities.SourceDocument, error) {
	content, err := s.fetcher.FetchPage(ctx, url)
	if err != nil {
		if ClassifyFetchError(err) == FailurePlanLimit {
			s.metrics.FetchFailures.WithLabelValues("plan_limit").Inc()
			s.logger.Warn("Scrape backend reported a plan limit, aborting batch",
				zap.String("url", url),
				zap.Error(err),
			)
			return nil, pkgerrors.ErrPlanLimitExceeded.WithCause(err)
		}

		s.metrics.FetchFailures.WithLabelValues("fetch").Inc()
		s.logger.Warn("Failed to fetch source, skipping",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, nil
	}

	doc := entities.SourceDocument{URL: url, Content: content}
	if !s.filter.Accept(doc) {
		s.metrics.DocumentsDropped.Inc()
		s.logger.Debug("Dropping document below minimum length",
			zap.String("url", url),
			zap.Int("length", len(content)),
		)
		return nil, nil
	}

	s.metrics.FetchSuccesses.Inc()
	s.metrics.DocumentsKept.Inc()
	return &doc, nil
}
