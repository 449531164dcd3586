package synthesis

import (
	"fmt"
	"strings"

	"skillmap-backend/domain/core/entities"
)

const systemPrompt = `You are a knowledge cartographer. Given source material about a topic,
produce a learning graph of 12 to 18 notes as JSON.

Respond with a single JSON object:
{"nodes":[{"id":"kebab-case-id","label":"Short Label","kind":"hub|concept|pattern|gotcha","description":"one sentence","content":"markdown note body","refs":["other-node-id"]}]}

Rules:
- exactly one node has kind "hub"; it links to the major concepts
- ids are lowercase kebab-case and unique
- refs list ids of related nodes in this same graph
- "pattern" notes describe reusable techniques, "gotcha" notes describe common mistakes
- content is a self-contained markdown note, a few paragraphs at most`

// buildUserPrompt assembles the synthesis input from the topic and the
// fetched source documents. Document bodies are clipped so a handful of large
// pages cannot blow the context window.
func buildUserPrompt(topic string, docs []entities.SourceDocument, maxDocChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\nSources:\n", topic)
	for i, doc := range docs {
		body := doc.Content
		if len(body) > maxDocChars {
			body = body[:maxDocChars]
		}
		fmt.Fprintf(&b, "\n--- source %d: %s ---\n%s\n", i+1, doc.URL, body)
	}
	return b.String()
}
