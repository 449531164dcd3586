package aggregates

import (
	"time"

	"github.com/google/uuid"

	"skillmap-backend/domain/core/entities"
	pkgerrors "skillmap-backend/pkg/errors"
)

// GraphID represents a unique graph identifier
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// SkillGraph is the aggregate root for one synthesized knowledge graph.
// A well-formed graph carries 12-18 nodes with exactly one hub, but the
// aggregate tolerates violations: downstream consumers (normalizer, layout)
// operate on whatever node set is present.
type SkillGraph struct {
	id        GraphID
	topic     string
	nodes     []*entities.KnowledgeNode
	byID      map[string]*entities.KnowledgeNode
	createdAt time.Time
}

// NewSkillGraph creates a graph from a synthesized node batch.
// Duplicate node ids are rejected; everything else (hub count, node count)
// is the caller's structural validation concern.
func NewSkillGraph(topic string, nodes []*entities.KnowledgeNode) (*SkillGraph, error) {
	if topic == "" {
		return nil, pkgerrors.NewValidationError("topic cannot be empty")
	}

	byID := make(map[string]*entities.KnowledgeNode, len(nodes))
	for _, node := range nodes {
		if _, exists := byID[node.ID()]; exists {
			return nil, pkgerrors.NewConflictError("duplicate node id: " + node.ID())
		}
		byID[node.ID()] = node
	}

	ordered := make([]*entities.KnowledgeNode, len(nodes))
	copy(ordered, nodes)

	return &SkillGraph{
		id:        NewGraphID(),
		topic:     topic,
		nodes:     ordered,
		byID:      byID,
		createdAt: time.Now(),
	}, nil
}

// ID returns the graph's unique identifier
func (g *SkillGraph) ID() GraphID {
	return g.id
}

// Topic returns the topic the graph was synthesized for
func (g *SkillGraph) Topic() string {
	return g.topic
}

// CreatedAt returns when the graph was synthesized
func (g *SkillGraph) CreatedAt() time.Time {
	return g.createdAt
}

// Nodes returns the node set in synthesis order.
// A copy of the slice is returned; the nodes themselves are immutable.
func (g *SkillGraph) Nodes() []*entities.KnowledgeNode {
	nodes := make([]*entities.KnowledgeNode, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// NodeCount returns the number of nodes in the graph
func (g *SkillGraph) NodeCount() int {
	return len(g.nodes)
}

// Node looks up a node by id
func (g *SkillGraph) Node(id string) (*entities.KnowledgeNode, bool) {
	node, ok := g.byID[id]
	return node, ok
}

// Hub returns the graph's hub node, or nil when zero or multiple hubs exist.
// Multiple hubs is a tolerated violation; callers needing "the" hub get the
// unambiguous answer or nothing.
func (g *SkillGraph) Hub() *entities.KnowledgeNode {
	var hub *entities.KnowledgeNode
	for _, node := range g.nodes {
		if node.Kind() == entities.KindHub {
			if hub != nil {
				return nil
			}
			hub = node
		}
	}
	return hub
}
