package layout

import (
	"math"

	"skillmap-backend/application/views"
	"skillmap-backend/domain/core/entities"
)

// ForceConfig describes the force policy layered on top of the solver:
// which forces exist and their parameters, not the integration method.
type ForceConfig struct {
	// RepulsionStrength scales the pairwise push between all nodes.
	RepulsionStrength float64
	// RepulsionRange bounds the repulsion's effective distance; beyond it
	// node pairs do not interact at all.
	RepulsionRange float64
	// SpringStrength scales the attractive force along each edge.
	SpringStrength float64
	// LinkRestLength is the target length of an ordinary edge.
	LinkRestLength float64
	// HubRestLength replaces LinkRestLength when either endpoint is the hub,
	// keeping the hub a hub rather than a peer.
	HubRestLength float64
	// VelocityDecay damps velocities each step, in (0,1).
	VelocityDecay float64
}

// DefaultForceConfig returns the stock force tuning
func DefaultForceConfig() ForceConfig {
	return ForceConfig{
		RepulsionStrength: 1200,
		RepulsionRange:    320,
		SpringStrength:    0.08,
		LinkRestLength:    110,
		HubRestLength:     180,
		VelocityDecay:     0.6,
	}
}

// NodePosition is one node's current layout coordinate
type NodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type simNode struct {
	id     string
	weight float64
	x, y   float64
	vx, vy float64
}

type spring struct {
	a, b int
	rest float64
}

// Simulation is the default numerical solver behind the layout controller.
// It advances in discrete steps; a step never suspends midway.
type Simulation struct {
	cfg     ForceConfig
	nodes   []*simNode
	springs []spring
}

// NewSimulation seeds a simulation from a render view. Nodes start evenly
// spaced on a circle so repeated runs over the same view are reproducible.
func NewSimulation(cfg ForceConfig, view views.GraphView) *Simulation {
	sim := &Simulation{cfg: cfg}

	index := make(map[string]int, len(view.Nodes))
	isHub := make(map[string]bool, len(view.Nodes))

	radius := 40 + 14*float64(len(view.Nodes))
	for i, rn := range view.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(max(len(view.Nodes), 1))
		sim.nodes = append(sim.nodes, &simNode{
			id:     rn.ID,
			weight: rn.VisualWeight,
			x:      radius * math.Cos(angle),
			y:      radius * math.Sin(angle),
		})
		index[rn.ID] = i
		isHub[rn.ID] = rn.Kind == entities.KindHub
	}

	for _, edge := range view.Edges {
		a, okA := index[edge.A]
		b, okB := index[edge.B]
		if !okA || !okB {
			continue
		}
		rest := cfg.LinkRestLength
		if isHub[edge.A] || isHub[edge.B] {
			rest = cfg.HubRestLength
		}
		sim.springs = append(sim.springs, spring{a: a, b: b, rest: rest})
	}

	return sim
}

// Step advances the simulation by one discrete tick
func (s *Simulation) Step() {
	// Bounded-range repulsion between all node pairs
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]
			dx, dy, dist := delta(a, b)
			if dist >= s.cfg.RepulsionRange {
				continue
			}
			force := s.cfg.RepulsionStrength * a.weight * b.weight / (dist * dist)
			fx, fy := force*dx/dist, force*dy/dist
			a.vx -= fx
			a.vy -= fy
			b.vx += fx
			b.vy += fy
		}
	}

	// Spring attraction along edges toward the rest length
	for _, sp := range s.springs {
		a, b := s.nodes[sp.a], s.nodes[sp.b]
		dx, dy, dist := delta(a, b)
		force := s.cfg.SpringStrength * (dist - sp.rest)
		fx, fy := force*dx/dist, force*dy/dist
		a.vx += fx
		a.vy += fy
		b.vx -= fx
		b.vy -= fy
	}

	// Integrate with damping
	for _, n := range s.nodes {
		n.vx *= s.cfg.VelocityDecay
		n.vy *= s.cfg.VelocityDecay
		n.x += n.vx
		n.y += n.vy
	}
}

// Motion reports the mean velocity magnitude across all nodes, the quantity
// the controller compares against its settle threshold.
func (s *Simulation) Motion() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	total := 0.0
	for _, n := range s.nodes {
		total += math.Hypot(n.vx, n.vy)
	}
	return total / float64(len(s.nodes))
}

// Positions returns a snapshot of current node coordinates
func (s *Simulation) Positions() []NodePosition {
	positions := make([]NodePosition, 0, len(s.nodes))
	for _, n := range s.nodes {
		positions = append(positions, NodePosition{ID: n.id, X: n.x, Y: n.y})
	}
	return positions
}

// delta returns the displacement from a to b with a floor on the distance so
// coincident nodes still separate instead of dividing by zero.
func delta(a, b *simNode) (dx, dy, dist float64) {
	dx = b.x - a.x
	dy = b.y - a.y
	dist = math.Hypot(dx, dy)
	if dist < 0.01 {
		dx, dy, dist = 0.01, 0.01, 0.0141
	}
	return dx, dy, dist
}
