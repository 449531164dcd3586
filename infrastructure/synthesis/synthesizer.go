package synthesis

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"skillmap-backend/domain/core/entities"
	pkgerrors "skillmap-backend/pkg/errors"
)

const maxDocChars = 12000

// chatClient is the slice of the OpenAI client the synthesizer uses,
// abstracted for testing.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Synthesizer turns fetched source documents into a typed node set via an LLM
// chat completion constrained to JSON output. Any unusable model output maps
// to the malformed-synthesis error; the raw failure rides along as the cause.
type Synthesizer struct {
	client   chatClient
	model    string
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSynthesizer creates a synthesizer backed by the OpenAI API
func NewSynthesizer(apiKey, model string, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		client:   openai.NewClient(apiKey),
		model:    model,
		validate: validator.New(),
		logger:   logger,
	}
}

// newSynthesizerWithClient wires a custom chat client, used by tests
func newSynthesizerWithClient(client chatClient, model string, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		client:   client,
		model:    model,
		validate: validator.New(),
		logger:   logger,
	}
}

type nodePayload struct {
	ID          string   `json:"id" validate:"required"`
	Label       string   `json:"label" validate:"required"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Content     string   `json:"content" validate:"required"`
	Refs        []string `json:"refs"`
}

type graphPayload struct {
	Nodes []nodePayload `json:"nodes" validate:"required,min=1,dive"`
}

// Synthesize runs one chat completion over the documents and decodes the
// node set from the model's JSON reply.
func (s *Synthesizer) Synthesize(ctx context.Context, topic string, docs []entities.SourceDocument) ([]*entities.KnowledgeNode, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(topic, docs, maxDocChars)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, pkgerrors.NewExternalError("openai", err)
	}
	if len(resp.Choices) == 0 {
		return nil, pkgerrors.ErrMalformedSynthesis.WithDetails(map[string]interface{}{
			"reason": "no completion choices",
		})
	}

	nodes, err := s.decodeNodes(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("synthesis completed",
		zap.String("topic", topic),
		zap.Int("nodes", len(nodes)),
	)
	return nodes, nil
}

func (s *Synthesizer) decodeNodes(raw string) ([]*entities.KnowledgeNode, error) {
	var payload graphPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, pkgerrors.ErrMalformedSynthesis.WithCause(err)
	}
	if err := s.validate.Struct(payload); err != nil {
		return nil, pkgerrors.ErrMalformedSynthesis.WithCause(err)
	}

	nodes := make([]*entities.KnowledgeNode, 0, len(payload.Nodes))
	for _, p := range payload.Nodes {
		refs := make([]string, 0, len(p.Refs))
		for _, ref := range p.Refs {
			if slug := slugify(ref); slug != "" {
				refs = append(refs, slug)
			}
		}

		node, err := entities.NewKnowledgeNode(
			slugify(p.ID),
			p.Label,
			entities.ParseNodeKind(p.Kind),
			p.Description,
			p.Content,
			refs,
		)
		if err != nil {
			return nil, pkgerrors.ErrMalformedSynthesis.WithCause(err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

var (
	codeFencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	nonSlugPattern   = regexp.MustCompile(`[^a-z0-9]+`)
)

// stripCodeFence unwraps a reply the model wrapped in a markdown code block
// despite the JSON response format.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := codeFencePattern.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}

// slugify normalizes a model-produced identifier into strict kebab-case
func slugify(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	slug := nonSlugPattern.ReplaceAllString(lowered, "-")
	return strings.Trim(slug, "-")
}
