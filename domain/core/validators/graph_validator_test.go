package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmap-backend/domain/config"
	"skillmap-backend/domain/core/entities"
	pkgerrors "skillmap-backend/pkg/errors"
)

func node(t *testing.T, id string, kind entities.NodeKind) *entities.KnowledgeNode {
	t.Helper()
	n, err := entities.NewKnowledgeNode(id, id, kind, "", "", nil)
	require.NoError(t, err)
	return n
}

func TestValidateNodeSetMinimum(t *testing.T) {
	v := NewGraphValidator(config.DefaultDomainConfig())

	err := v.ValidateNodeSet([]*entities.KnowledgeNode{
		node(t, "a", entities.KindHub),
		node(t, "b", entities.KindConcept),
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsMalformedSynthesis(err))

	err = v.ValidateNodeSet([]*entities.KnowledgeNode{
		node(t, "a", entities.KindHub),
		node(t, "b", entities.KindConcept),
		node(t, "c", entities.KindConcept),
	})
	assert.NoError(t, err)
}

func TestValidateNodeSetRejectsDuplicatesAndNils(t *testing.T) {
	v := NewGraphValidator(nil)

	err := v.ValidateNodeSet([]*entities.KnowledgeNode{
		node(t, "a", entities.KindHub),
		node(t, "a", entities.KindConcept),
		node(t, "b", entities.KindConcept),
	})
	assert.True(t, pkgerrors.IsMalformedSynthesis(err))

	err = v.ValidateNodeSet([]*entities.KnowledgeNode{
		node(t, "a", entities.KindHub),
		nil,
		node(t, "b", entities.KindConcept),
	})
	assert.True(t, pkgerrors.IsMalformedSynthesis(err))
}

func TestCountHubs(t *testing.T) {
	v := NewGraphValidator(nil)

	assert.Equal(t, 0, v.CountHubs([]*entities.KnowledgeNode{
		node(t, "a", entities.KindConcept),
	}))
	assert.Equal(t, 2, v.CountHubs([]*entities.KnowledgeNode{
		node(t, "a", entities.KindHub),
		node(t, "b", entities.KindHub),
		node(t, "c", entities.KindGotcha),
	}))
}
