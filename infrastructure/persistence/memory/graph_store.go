package memory

import (
	"context"
	"sort"
	"sync"

	"skillmap-backend/domain/core/aggregates"
	pkgerrors "skillmap-backend/pkg/errors"
)

// GraphStore is an in-memory graph repository. Graphs live for the process
// lifetime only; there is no durable persistence layer behind it.
type GraphStore struct {
	mu     sync.RWMutex
	graphs map[aggregates.GraphID]*aggregates.SkillGraph
}

// NewGraphStore creates an empty in-memory graph store
func NewGraphStore() *GraphStore {
	return &GraphStore{
		graphs: make(map[aggregates.GraphID]*aggregates.SkillGraph),
	}
}

// Save stores a graph, replacing any previous graph with the same id
func (s *GraphStore) Save(_ context.Context, graph *aggregates.SkillGraph) error {
	if graph == nil {
		return pkgerrors.NewValidationError("graph cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[graph.ID()] = graph
	return nil
}

// Get retrieves a graph by id
func (s *GraphStore) Get(_ context.Context, id aggregates.GraphID) (*aggregates.SkillGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	graph, ok := s.graphs[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("graph " + id.String())
	}
	return graph, nil
}

// List returns all stored graphs, newest first
func (s *GraphStore) List(_ context.Context) ([]*aggregates.SkillGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	graphs := make([]*aggregates.SkillGraph, 0, len(s.graphs))
	for _, graph := range s.graphs {
		graphs = append(graphs, graph)
	}
	sort.Slice(graphs, func(i, j int) bool {
		return graphs[i].CreatedAt().After(graphs[j].CreatedAt())
	})
	return graphs, nil
}

// Delete removes a graph by id
func (s *GraphStore) Delete(_ context.Context, id aggregates.GraphID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[id]; !ok {
		return pkgerrors.NewNotFoundError("graph " + id.String())
	}
	delete(s.graphs, id)
	return nil
}
