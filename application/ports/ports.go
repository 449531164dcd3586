package ports

import (
	"context"

	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/domain/core/entities"
)

// URLDiscoverer finds candidate source URLs for a topic.
// An empty result is a normal outcome, not an error.
type URLDiscoverer interface {
	DiscoverURLs(ctx context.Context, topic string, limit int) ([]string, error)
}

// PageFetcher retrieves the extracted text content of a single URL from the
// scraping backend. Failures are opaque; the fetch dispatcher classifies them.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Synthesizer turns source documents into a typed, cross-linked node set
type Synthesizer interface {
	Synthesize(ctx context.Context, topic string, docs []entities.SourceDocument) ([]*entities.KnowledgeNode, error)
}

// GraphStore holds generated graphs addressable by id
type GraphStore interface {
	Save(ctx context.Context, graph *aggregates.SkillGraph) error
	Get(ctx context.Context, id aggregates.GraphID) (*aggregates.SkillGraph, error)
	List(ctx context.Context) ([]*aggregates.SkillGraph, error)
	Delete(ctx context.Context, id aggregates.GraphID) error
}
