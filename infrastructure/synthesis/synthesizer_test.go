package synthesis

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillmap-backend/domain/core/entities"
	pkgerrors "skillmap-backend/pkg/errors"
)

type stubChatClient struct {
	reply string
	err   error
	seen  openai.ChatCompletionRequest
}

func (c *stubChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.seen = req
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: c.reply}},
		},
	}, nil
}

func docs() []entities.SourceDocument {
	return []entities.SourceDocument{
		{URL: "https://example.com/a", Content: "source material about goroutines"},
	}
}

const validReply = `{"nodes":[
	{"id":"go-concurrency","label":"Go Concurrency","kind":"hub","description":"entry point","content":"# Go Concurrency","refs":["goroutines","channels"]},
	{"id":"goroutines","label":"Goroutines","kind":"concept","description":"","content":"# Goroutines","refs":["channels"]},
	{"id":"channels","label":"Channels","kind":"concept","description":"","content":"# Channels","refs":[]}
]}`

func TestSynthesizeDecodesNodes(t *testing.T) {
	client := &stubChatClient{reply: validReply}
	s := newSynthesizerWithClient(client, "gpt-4o", zap.NewNop())

	nodes, err := s.Synthesize(context.Background(), "go concurrency", docs())

	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "go-concurrency", nodes[0].ID())
	assert.Equal(t, entities.KindHub, nodes[0].Kind())
	assert.Equal(t, []string{"goroutines", "channels"}, nodes[0].OutboundRefs())
	assert.Equal(t, "gpt-4o", client.seen.Model)
	require.NotNil(t, client.seen.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, client.seen.ResponseFormat.Type)
}

func TestSynthesizeStripsCodeFence(t *testing.T) {
	client := &stubChatClient{reply: "```json\n" + validReply + "\n```"}
	s := newSynthesizerWithClient(client, "gpt-4o", zap.NewNop())

	nodes, err := s.Synthesize(context.Background(), "go concurrency", docs())

	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestSynthesizeNormalizesKindsAndIDs(t *testing.T) {
	client := &stubChatClient{reply: `{"nodes":[
		{"id":"My Hub Node","label":"Hub","kind":"MOC","content":"x","refs":["Some Concept"]},
		{"id":"Some Concept","label":"Concept","kind":"whatever","content":"x","refs":[]}
	]}`}
	s := newSynthesizerWithClient(client, "gpt-4o", zap.NewNop())

	nodes, err := s.Synthesize(context.Background(), "topic", docs())

	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "my-hub-node", nodes[0].ID())
	assert.Equal(t, entities.KindHub, nodes[0].Kind())
	assert.Equal(t, []string{"some-concept"}, nodes[0].OutboundRefs())
	assert.Equal(t, entities.KindConcept, nodes[1].Kind())
}

func TestSynthesizeMalformedJSON(t *testing.T) {
	client := &stubChatClient{reply: "here is your graph: nodes go brr"}
	s := newSynthesizerWithClient(client, "gpt-4o", zap.NewNop())

	_, err := s.Synthesize(context.Background(), "topic", docs())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsMalformedSynthesis(err))
}

func TestSynthesizeMissingRequiredFields(t *testing.T) {
	client := &stubChatClient{reply: `{"nodes":[{"id":"a","kind":"concept"}]}`}
	s := newSynthesizerWithClient(client, "gpt-4o", zap.NewNop())

	_, err := s.Synthesize(context.Background(), "topic", docs())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsMalformedSynthesis(err))
}

func TestSynthesizeEmptyNodeList(t *testing.T) {
	client := &stubChatClient{reply: `{"nodes":[]}`}
	s := newSynthesizerWithClient(client, "gpt-4o", zap.NewNop())

	_, err := s.Synthesize(context.Background(), "topic", docs())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsMalformedSynthesis(err))
}

func TestSynthesizeTransportFailure(t *testing.T) {
	client := &stubChatClient{err: errors.New("connection reset")}
	s := newSynthesizerWithClient(client, "gpt-4o", zap.NewNop())

	_, err := s.Synthesize(context.Background(), "topic", docs())

	require.Error(t, err)
	assert.False(t, pkgerrors.IsMalformedSynthesis(err))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "go-basics", slugify("Go Basics"))
	assert.Equal(t, "already-kebab", slugify("already-kebab"))
	assert.Equal(t, "trim", slugify("  --Trim--  "))
	assert.Equal(t, "", slugify("???"))
}
