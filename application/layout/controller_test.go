package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillmap-backend/domain/config"
	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/domain/core/entities"
)

func mustNode(t *testing.T, id string, kind entities.NodeKind, refs ...string) *entities.KnowledgeNode {
	t.Helper()
	node, err := entities.NewKnowledgeNode(id, id, kind, "", "", refs)
	require.NoError(t, err)
	return node
}

func testGraph(t *testing.T) *aggregates.SkillGraph {
	t.Helper()
	graph, err := aggregates.NewSkillGraph("layout topic", []*entities.KnowledgeNode{
		mustNode(t, "hub", entities.KindHub, "alpha", "beta"),
		mustNode(t, "alpha", entities.KindConcept, "beta"),
		mustNode(t, "beta", entities.KindConcept),
	})
	require.NoError(t, err)
	return graph
}

func singleNodeGraph(t *testing.T) *aggregates.SkillGraph {
	t.Helper()
	graph, err := aggregates.NewSkillGraph("single", []*entities.KnowledgeNode{
		mustNode(t, "only", entities.KindHub),
	})
	require.NoError(t, err)
	return graph
}

func TestControllerStartsUninitialized(t *testing.T) {
	c := NewController(DefaultConfig(), config.DefaultDomainConfig(), zap.NewNop())

	assert.Equal(t, StateUninitialized, c.State())

	frame := c.Step()
	assert.Empty(t, frame.Positions)
	assert.False(t, frame.Settled)
}

func TestSetGraphEntersSimulating(t *testing.T) {
	c := NewController(DefaultConfig(), config.DefaultDomainConfig(), zap.NewNop())

	c.SetGraph(testGraph(t))

	assert.Equal(t, StateSimulating, c.State())
	assert.Len(t, c.View().Nodes, 3)
	assert.Len(t, c.View().Edges, 3)
}

func TestSingleNodeSettlesByMotionThreshold(t *testing.T) {
	c := NewController(DefaultConfig(), config.DefaultDomainConfig(), zap.NewNop())
	c.SetGraph(singleNodeGraph(t))

	// One node feels no forces, so motion is zero on the first tick.
	frame := c.Step()

	assert.True(t, frame.Settled)
	assert.Equal(t, StateSettled, c.State())
	require.Len(t, frame.Positions, 1)
}

func TestCooldownBudgetBoundsSimulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CooldownTicks = 25
	// A negative threshold can never be crossed, forcing the budget path.
	cfg.SettleThreshold = -1
	c := NewController(cfg, config.DefaultDomainConfig(), zap.NewNop())
	c.SetGraph(testGraph(t))

	settledAt := -1
	for i := 1; i <= 25; i++ {
		frame := c.Step()
		if frame.Settled {
			settledAt = i
			break
		}
	}

	assert.Equal(t, 25, settledAt)
	assert.Equal(t, StateSettled, c.State())
}

func TestStepAfterSettleFreezesGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CooldownTicks = 5
	cfg.SettleThreshold = -1
	c := NewController(cfg, config.DefaultDomainConfig(), zap.NewNop())
	c.SetGraph(testGraph(t))

	for i := 0; i < 5; i++ {
		c.Step()
	}
	settled := c.Step()
	again := c.Step()

	assert.True(t, settled.Settled)
	assert.Equal(t, settled.Positions, again.Positions)
}

func TestFitCommandIssuedOncePerSettle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CooldownTicks = 3
	cfg.SettleThreshold = -1
	c := NewController(cfg, config.DefaultDomainConfig(), zap.NewNop())

	var fits []FitCommand
	c.OnFit(func(fc FitCommand) { fits = append(fits, fc) })

	c.SetGraph(testGraph(t))
	for i := 0; i < 10; i++ {
		c.Step()
	}

	require.Len(t, fits, 1)
	assert.Equal(t, 600*time.Millisecond, fits[0].Duration)
	assert.InDelta(t, 48.0, fits[0].Padding, 1e-9)
}

func TestFitCommandReissuedForNewGraph(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CooldownTicks = 3
	cfg.SettleThreshold = -1
	c := NewController(cfg, config.DefaultDomainConfig(), zap.NewNop())

	fits := 0
	c.OnFit(func(FitCommand) { fits++ })

	c.SetGraph(testGraph(t))
	for i := 0; i < 5; i++ {
		c.Step()
	}
	c.SetGraph(testGraph(t))
	for i := 0; i < 5; i++ {
		c.Step()
	}

	assert.Equal(t, 2, fits)
}

func TestNewGraphSupersedesRunningSimulation(t *testing.T) {
	c := NewController(DefaultConfig(), config.DefaultDomainConfig(), zap.NewNop())
	c.SetGraph(testGraph(t))
	c.Step()
	c.Step()

	c.SetGraph(singleNodeGraph(t))

	assert.Equal(t, StateSimulating, c.State())
	assert.Len(t, c.View().Nodes, 1)
}

func TestSelectAndHoverSemantics(t *testing.T) {
	c := NewController(DefaultConfig(), config.DefaultDomainConfig(), zap.NewNop())
	c.SetGraph(testGraph(t))

	c.Select("alpha")
	assert.Equal(t, "alpha", c.Selected())

	// Unknown ids are ignored, not errors.
	c.Select("ghost")
	assert.Equal(t, "alpha", c.Selected())

	c.Select("")
	assert.Empty(t, c.Selected())

	c.Hover("beta")
	assert.Equal(t, "beta", c.Hovered())
	c.Hover("ghost")
	assert.Equal(t, "beta", c.Hovered())
	c.Hover("")
	assert.Empty(t, c.Hovered())
}

func TestSetGraphClearsSelection(t *testing.T) {
	c := NewController(DefaultConfig(), config.DefaultDomainConfig(), zap.NewNop())
	c.SetGraph(testGraph(t))
	c.Select("alpha")
	c.Hover("beta")

	c.SetGraph(singleNodeGraph(t))

	assert.Empty(t, c.Selected())
	assert.Empty(t, c.Hovered())
}

func TestSelectionDoesNotPerturbSimulation(t *testing.T) {
	c := NewController(DefaultConfig(), config.DefaultDomainConfig(), zap.NewNop())
	c.SetGraph(testGraph(t))

	before := c.Step().Positions
	c.Select("alpha")
	c.Hover("beta")

	// The next frame must follow from pure physics; selection adds no force.
	mirror := NewController(DefaultConfig(), config.DefaultDomainConfig(), zap.NewNop())
	mirror.SetGraph(testGraph(t))
	mirror.Step()

	after := c.Step().Positions
	expected := mirror.Step().Positions
	require.Equal(t, len(before), len(after))
	assert.Equal(t, expected, after)
}
