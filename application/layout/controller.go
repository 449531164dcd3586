package layout

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"skillmap-backend/application/views"
	domaincfg "skillmap-backend/domain/config"
	"skillmap-backend/domain/core/aggregates"
)

// State is the controller's lifecycle phase
type State int

const (
	StateUninitialized State = iota
	StateSimulating
	StateSettled
)

// String returns a readable state name
func (s State) String() string {
	switch s {
	case StateSimulating:
		return "simulating"
	case StateSettled:
		return "settled"
	default:
		return "uninitialized"
	}
}

// FitCommand instructs the rendering surface to animate the viewport around
// the settled geometry.
type FitCommand struct {
	Duration time.Duration `json:"duration_ms"`
	Padding  float64       `json:"padding"`
}

// Config tunes the controller around the solver
type Config struct {
	Forces ForceConfig
	// CooldownTicks bounds the number of discrete simulation steps.
	CooldownTicks int
	// SettleThreshold is the motion level below which the layout is
	// considered settled before the cooldown budget runs out.
	SettleThreshold float64
	// Viewport fit issued on settle.
	FitDuration time.Duration
	FitPadding  float64
}

// DefaultConfig returns the stock controller tuning
func DefaultConfig() Config {
	return Config{
		Forces:          DefaultForceConfig(),
		CooldownTicks:   300,
		SettleThreshold: 0.02,
		FitDuration:     600 * time.Millisecond,
		FitPadding:      48,
	}
}

// Frame is one rendered layout snapshot
type Frame struct {
	Positions []NodePosition `json:"positions"`
	Settled   bool           `json:"settled"`
}

// Controller drives an incremental force layout over a single diagram.
// It steps cooperatively, one tick at a time; a new graph arriving supersedes
// the running simulation rather than interrupting a step in flight.
type Controller struct {
	mu        sync.Mutex
	cfg       Config
	domainCfg *domaincfg.DomainConfig
	logger    *zap.Logger

	state State
	view  views.GraphView
	sim   *Simulation
	ticks int

	selected string
	hovered  string

	onFit func(FitCommand)
}

// NewController creates a layout controller in the uninitialized state
func NewController(cfg Config, dc *domaincfg.DomainConfig, logger *zap.Logger) *Controller {
	if dc == nil {
		dc = domaincfg.DefaultDomainConfig()
	}
	return &Controller{
		cfg:       cfg,
		domainCfg: dc,
		logger:    logger,
		state:     StateUninitialized,
	}
}

// OnFit registers the callback invoked when the layout settles and the
// viewport should be refit. Advisory; at most one callback is held.
func (c *Controller) OnFit(fn func(FitCommand)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFit = fn
}

// SetGraph swaps in a new graph: render sets are recomputed, the simulation
// is reset and the controller re-enters the simulating state. Selection and
// hover are cleared since their targets belong to the superseded graph.
func (c *Controller) SetGraph(graph *aggregates.SkillGraph) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view = views.BuildView(graph, c.domainCfg)
	c.sim = NewSimulation(c.cfg.Forces, c.view)
	c.ticks = 0
	c.state = StateSimulating
	c.selected = ""
	c.hovered = ""

	c.logger.Debug("layout reset for new graph",
		zap.String("graphID", graph.ID().String()),
		zap.Int("nodes", len(c.view.Nodes)),
		zap.Int("edges", len(c.view.Edges)),
	)
}

// Step advances the simulation by one tick and returns the resulting frame.
// Once settled (by motion decay or by exhausting the cooldown budget) the
// geometry is frozen and a fit command is issued exactly once per settle.
func (c *Controller) Step() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSimulating {
		return c.frameLocked()
	}

	c.sim.Step()
	c.ticks++

	if c.ticks >= c.cfg.CooldownTicks || c.sim.Motion() < c.cfg.SettleThreshold {
		c.state = StateSettled
		c.logger.Debug("layout settled",
			zap.Int("ticks", c.ticks),
			zap.Float64("motion", c.sim.Motion()),
		)
		if c.onFit != nil {
			c.onFit(FitCommand{Duration: c.cfg.FitDuration, Padding: c.cfg.FitPadding})
		}
	}

	return c.frameLocked()
}

// State returns the controller's current lifecycle phase
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the current render sets
func (c *Controller) View() views.GraphView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Select marks a node as selected. Presentation-only: simulation state is
// untouched. An id not present in the current graph is ignored; the empty
// id clears the selection.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" {
		c.selected = ""
		return
	}
	if c.hasNodeLocked(id) {
		c.selected = id
	}
}

// Hover marks a node as hovered, with the same no-op semantics as Select
func (c *Controller) Hover(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" {
		c.hovered = ""
		return
	}
	if c.hasNodeLocked(id) {
		c.hovered = id
	}
}

// Selected returns the currently selected node id, empty when none
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Hovered returns the currently hovered node id, empty when none
func (c *Controller) Hovered() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered
}

func (c *Controller) frameLocked() Frame {
	if c.sim == nil {
		return Frame{Settled: false}
	}
	return Frame{
		Positions: c.sim.Positions(),
		Settled:   c.state == StateSettled,
	}
}

func (c *Controller) hasNodeLocked(id string) bool {
	for _, n := range c.view.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
