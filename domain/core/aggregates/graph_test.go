package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmap-backend/domain/core/entities"
	pkgerrors "skillmap-backend/pkg/errors"
)

func node(t *testing.T, id string, kind entities.NodeKind) *entities.KnowledgeNode {
	t.Helper()
	n, err := entities.NewKnowledgeNode(id, id, kind, "", "", nil)
	require.NoError(t, err)
	return n
}

func TestNewSkillGraph(t *testing.T) {
	graph, err := NewSkillGraph("go", []*entities.KnowledgeNode{
		node(t, "hub", entities.KindHub),
		node(t, "leaf", entities.KindConcept),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, graph.ID().String())
	assert.Equal(t, "go", graph.Topic())
	assert.Equal(t, 2, graph.NodeCount())

	got, ok := graph.Node("leaf")
	require.True(t, ok)
	assert.Equal(t, "leaf", got.ID())

	_, ok = graph.Node("ghost")
	assert.False(t, ok)
}

func TestNewSkillGraphRejectsEmptyTopic(t *testing.T) {
	_, err := NewSkillGraph("", nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewSkillGraphRejectsDuplicateIDs(t *testing.T) {
	_, err := NewSkillGraph("go", []*entities.KnowledgeNode{
		node(t, "dup", entities.KindHub),
		node(t, "dup", entities.KindConcept),
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))
}

func TestHubResolution(t *testing.T) {
	single, err := NewSkillGraph("go", []*entities.KnowledgeNode{
		node(t, "hub", entities.KindHub),
		node(t, "leaf", entities.KindConcept),
	})
	require.NoError(t, err)
	require.NotNil(t, single.Hub())
	assert.Equal(t, "hub", single.Hub().ID())

	none, err := NewSkillGraph("go", []*entities.KnowledgeNode{
		node(t, "leaf", entities.KindConcept),
	})
	require.NoError(t, err)
	assert.Nil(t, none.Hub())

	double, err := NewSkillGraph("go", []*entities.KnowledgeNode{
		node(t, "hub-a", entities.KindHub),
		node(t, "hub-b", entities.KindHub),
	})
	require.NoError(t, err)
	assert.Nil(t, double.Hub())
}

func TestNodesReturnsCopy(t *testing.T) {
	graph, err := NewSkillGraph("go", []*entities.KnowledgeNode{
		node(t, "a", entities.KindConcept),
	})
	require.NoError(t, err)

	nodes := graph.Nodes()
	nodes[0] = nil
	require.NotNil(t, graph.Nodes()[0])
}
