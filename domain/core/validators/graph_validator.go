package validators

import (
	"fmt"

	"skillmap-backend/domain/config"
	"skillmap-backend/domain/core/entities"
	pkgerrors "skillmap-backend/pkg/errors"
)

// GraphValidator enforces the structural rules a synthesized node set must
// satisfy before a graph is built from it. Soft expectations (12-18 nodes,
// exactly one hub) are NOT enforced here; downstream consumers tolerate those
// violations, so rejecting them would be stricter than the system contract.
type GraphValidator struct {
	minNodes int
}

// NewGraphValidator creates a graph validator from domain configuration
func NewGraphValidator(cfg *config.DomainConfig) *GraphValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &GraphValidator{minNodes: cfg.MinNodesPerGraph}
}

// ValidateNodeSet checks a synthesized node batch for structural validity
func (v *GraphValidator) ValidateNodeSet(nodes []*entities.KnowledgeNode) error {
	if len(nodes) < v.minNodes {
		return pkgerrors.ErrMalformedSynthesis.WithDetails(map[string]interface{}{
			"node_count": len(nodes),
			"min_nodes":  v.minNodes,
		})
	}

	seen := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		if node == nil {
			return pkgerrors.ErrMalformedSynthesis.WithCause(fmt.Errorf("nil node in synthesis output"))
		}
		if seen[node.ID()] {
			return pkgerrors.ErrMalformedSynthesis.WithCause(fmt.Errorf("duplicate node id %q", node.ID()))
		}
		seen[node.ID()] = true
	}

	return nil
}

// CountHubs reports how many hub nodes the set carries. Zero or more than one
// is a tolerated violation worth a warning log, not an error.
func (v *GraphValidator) CountHubs(nodes []*entities.KnowledgeNode) int {
	count := 0
	for _, node := range nodes {
		if node.Kind() == entities.KindHub {
			count++
		}
	}
	return count
}
