package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"supportbot/internal/adapter/llm"
	"supportbot/internal/domain"
	"supportbot/internal/port"
)

// Service composes the classifier, retriever and generator into the
// operation the rest of the application consumes. Component-local errors
// never escape as faults: every query produces a structured result with a
// best-effort answer.
type Service struct {
	classifier *Classifier
	retriever  *Retriever
	generator  *Generator
	store      port.VectorStore
	topK       int
	logger     *slog.Logger
}

func NewService(classifier *Classifier, retriever *Retriever, generator *Generator, store port.VectorStore, topK int, logger *slog.Logger) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		classifier: classifier,
		retriever:  retriever,
		generator:  generator,
		store:      store,
		topK:       topK,
		logger:     logger,
	}
}

// Answer retrieves context for the query and generates a grounded
// response. An empty retrieval still generates; the model is instructed to
// admit when it does not know.
func (s *Service) Answer(ctx context.Context, query string) ([]domain.RetrievedPassage, string, error) {
	passages := s.retriever.Retrieve(ctx, query, s.topK)
	response, err := s.generator.Generate(ctx, query, passages)
	return passages, response, err
}

// HandleQuery runs the full support pipeline: intent, sentiment, retrieval
// and generation. Status is error only when generation failed; the
// Response then carries a descriptive explanation instead of an answer.
func (s *Service) HandleQuery(ctx context.Context, query string) domain.QueryResult {
	result := domain.QueryResult{
		Intent:    s.classifier.ClassifyIntent(ctx, query),
		Sentiment: s.classifier.AnalyzeSentiment(ctx, query),
		Status:    domain.StatusSuccess,
	}

	passages, response, err := s.Answer(ctx, query)
	result.Context = passages
	if err != nil {
		s.logger.Error("answer generation failed", "error", err)
		result.Response = describeGenerationError(err)
		result.Status = domain.StatusError
		return result
	}

	result.Response = response
	return result
}

// Health reports whether the service can answer queries: the vector store
// must be reachable and hold at least one document.
func (s *Service) Health(ctx context.Context) error {
	count, err := s.store.Count()
	if err != nil {
		return fmt.Errorf("vector store unreachable: %w", err)
	}
	if count == 0 {
		return errors.New("knowledge base is empty; run indexing first")
	}
	return nil
}

// describeGenerationError maps a typed generation failure onto the text
// shown to the end user.
func describeGenerationError(err error) string {
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return "Error: the generation API key is not configured. Please contact the administrator."
	case errors.Is(err, llm.ErrBadStatus):
		return "Error: the generation service rejected the request. Please try again later."
	case errors.Is(err, llm.ErrMalformedResponse):
		return "Error: the generation service returned an unexpected response. Please try again later."
	case errors.Is(err, llm.ErrRequestFailed):
		return "Error: could not reach the generation service. Please try again later."
	default:
		return fmt.Sprintf("Error generating response: %v", err)
	}
}
