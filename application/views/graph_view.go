package views

import (
	"skillmap-backend/domain/config"
	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/domain/core/entities"
)

// RenderNode is the view model the rendering surface consumes for one node
type RenderNode struct {
	ID           string            `json:"id"`
	Label        string            `json:"label"`
	Kind         entities.NodeKind `json:"kind"`
	VisualWeight float64           `json:"visual_weight"`
}

// RenderEdge is one undirected edge between two nodes. The unordered pair
// {A,B} is unique across an edge set; A is always the lexically smaller id.
type RenderEdge struct {
	A string `json:"a"`
	B string `json:"b"`
}

// GraphView bundles the derived render sets for one graph. It is recomputed
// whenever the underlying graph changes, never stored.
type GraphView struct {
	Nodes []RenderNode `json:"nodes"`
	Edges []RenderEdge `json:"edges"`
}

// BuildView derives the full render view from a graph
func BuildView(graph *aggregates.SkillGraph, cfg *config.DomainConfig) GraphView {
	nodes := graph.Nodes()
	return GraphView{
		Nodes: BuildNodes(nodes, cfg),
		Edges: BuildEdges(nodes),
	}
}

// BuildNodes converts knowledge nodes into render nodes with per-kind visual
// weight seeding plus a capped contribution from the outbound reference count.
func BuildNodes(nodes []*entities.KnowledgeNode, cfg *config.DomainConfig) []RenderNode {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	rendered := make([]RenderNode, 0, len(nodes))
	for _, node := range nodes {
		refWeight := float64(node.RefCount()) * cfg.RefWeightStep
		if refWeight > cfg.RefWeightCap {
			refWeight = cfg.RefWeightCap
		}
		rendered = append(rendered, RenderNode{
			ID:           node.ID(),
			Label:        node.Label(),
			Kind:         node.Kind(),
			VisualWeight: baseSize(node.Kind(), cfg) + refWeight,
		})
	}
	return rendered
}

// BuildEdges normalizes the directed outbound references of a node set into a
// deduplicated undirected edge set. References to ids outside the set and
// self-references are dropped silently; a pair referenced from both
// directions, or repeatedly, collapses to a single edge. The result depends
// only on the node set, so repeated calls yield identical edges.
func BuildEdges(nodes []*entities.KnowledgeNode) []RenderEdge {
	valid := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		valid[node.ID()] = true
	}

	seen := make(map[[2]string]bool)
	edges := make([]RenderEdge, 0, len(nodes))

	for _, node := range nodes {
		for _, ref := range node.OutboundRefs() {
			if ref == node.ID() || !valid[ref] {
				continue
			}

			key := pairKey(node.ID(), ref)
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, RenderEdge{A: key[0], B: key[1]})
		}
	}

	return edges
}

// pairKey returns the canonical sorted form of an unordered id pair
func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func baseSize(kind entities.NodeKind, cfg *config.DomainConfig) float64 {
	switch kind {
	case entities.KindHub:
		return cfg.HubBaseSize
	case entities.KindPattern:
		return cfg.PatternBaseSize
	case entities.KindGotcha:
		return cfg.GotchaBaseSize
	default:
		return cfg.ConceptBaseSize
	}
}
