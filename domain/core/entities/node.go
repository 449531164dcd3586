package entities

import (
	"regexp"
	"strings"

	pkgerrors "skillmap-backend/pkg/errors"
)

// NodeKind classifies the role a node plays inside a skill graph
type NodeKind string

const (
	// KindHub is the single designated entry-point node of a graph,
	// serving as the navigational root rather than a peer concept.
	KindHub     NodeKind = "hub"
	KindConcept NodeKind = "concept"
	KindPattern NodeKind = "pattern"
	KindGotcha  NodeKind = "gotcha"
)

// ParseNodeKind normalizes a raw kind string from the synthesis boundary.
// Unknown values fall back to KindConcept instead of propagating untyped
// data into the graph. "moc" is accepted as a legacy alias for the hub.
func ParseNodeKind(raw string) NodeKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hub", "moc":
		return KindHub
	case "concept":
		return KindConcept
	case "pattern":
		return KindPattern
	case "gotcha":
		return KindGotcha
	default:
		return KindConcept
	}
}

var kebabCasePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// KnowledgeNode is one typed note in a skill graph. Nodes are created in a
// single batch by the synthesis step and are immutable afterwards; outbound
// references may point at ids that never made it into the node set, which is
// a normal condition handled downstream, never an error here.
type KnowledgeNode struct {
	id           string
	label        string
	kind         NodeKind
	description  string
	content      string
	outboundRefs []string
}

// NewKnowledgeNode creates a node with validated identity fields
func NewKnowledgeNode(id, label string, kind NodeKind, description, content string, outboundRefs []string) (*KnowledgeNode, error) {
	if !kebabCasePattern.MatchString(id) {
		return nil, pkgerrors.NewValidationError("node id must be kebab-case: " + id)
	}
	if label == "" {
		return nil, pkgerrors.NewValidationError("node label cannot be empty")
	}

	refs := make([]string, len(outboundRefs))
	copy(refs, outboundRefs)

	return &KnowledgeNode{
		id:           id,
		label:        label,
		kind:         kind,
		description:  description,
		content:      content,
		outboundRefs: refs,
	}, nil
}

// ID returns the node's unique identifier within its graph
func (n *KnowledgeNode) ID() string {
	return n.id
}

// Label returns the node's display label
func (n *KnowledgeNode) Label() string {
	return n.label
}

// Kind returns the node's role classification
func (n *KnowledgeNode) Kind() NodeKind {
	return n.kind
}

// Description returns the short summary of the node
func (n *KnowledgeNode) Description() string {
	return n.description
}

// Content returns the full note body, the literal text persisted on export
func (n *KnowledgeNode) Content() string {
	return n.content
}

// OutboundRefs returns the ordered outbound reference ids.
// A copy is returned to maintain immutability.
func (n *KnowledgeNode) OutboundRefs() []string {
	refs := make([]string, len(n.outboundRefs))
	copy(refs, n.outboundRefs)
	return refs
}

// RefCount returns the number of outbound references, dangling ones included
func (n *KnowledgeNode) RefCount() int {
	return len(n.outboundRefs)
}
