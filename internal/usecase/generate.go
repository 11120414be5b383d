package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"supportbot/internal/domain"
	"supportbot/internal/port"
)

// systemPrompt fixes the assistant's role for answer generation.
const systemPrompt = `You are a customer support assistant. Answer the query using the provided context. If unsure, say you don't know. Keep responses concise and helpful.`

// Generator turns a query plus retrieved context into a grounded answer via
// a hosted chat-completion model.
type Generator struct {
	llm port.LLM
}

func NewGenerator(llm port.LLM) *Generator {
	return &Generator{llm: llm}
}

type contextDoc struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Generate builds the grounded prompt and runs a single-turn completion.
// The full passage content is serialized into the prompt, not the display
// snippet. An empty context is allowed; the system prompt's say-you-don't-
// know instruction handles retrieval misses.
func (g *Generator) Generate(ctx context.Context, query string, passages []domain.RetrievedPassage) (string, error) {
	docs := make([]contextDoc, 0, len(passages))
	for _, p := range passages {
		docs = append(docs, contextDoc{Source: p.Source, Content: p.Content})
	}

	serialized, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("failed to serialize context: %w", err)
	}

	userPrompt := fmt.Sprintf("Query: %s\nContext: %s", query, serialized)

	answer, err := g.llm.GenerateWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	return answer, nil
}
