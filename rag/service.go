package rag

import (
	"context"
	"errors"
	"log/slog"
)

const noReviewsAnswer = "No reviews found for the restaurant"

// Service is the orchestration facade exposing the three RAG operations.
// Every operation returns a well-formed result, even in total failure.
type Service struct {
	builder   *ContextBuilder
	generator Generator
	prompts   PromptFactory
	codec     Codec
}

func NewService(builder *ContextBuilder, generator Generator) *Service {
	return &Service{
		builder:   builder,
		generator: generator,
	}
}

func emptySuggestions() StructuredResult {
	return StructuredResult{"suggestions": []any{}}
}

func notFoundResult(restaurantName string) StructuredResult {
	return StructuredResult{
		"restaurant_name": restaurantName,
		"answer":          noReviewsAnswer,
	}
}

func errorResult(restaurantName, message string) StructuredResult {
	return StructuredResult{
		"restaurant_name": restaurantName,
		"error":           message,
	}
}

// Suggest recommends restaurants for a free-text query. Blank queries, empty
// context and any upstream failure all degrade to an empty suggestion list.
func (s *Service) Suggest(ctx context.Context, query string) StructuredResult {
	documents, err := s.builder.BuildForQuery(ctx, query)
	if err != nil {
		slog.Error("failed to build query context", "error", err)
		return emptySuggestions()
	}
	if len(documents) == 0 {
		return emptySuggestions()
	}

	prompt, err := s.prompts.Suggestion(query, documents)
	if err != nil {
		slog.Error("failed to build suggestion prompt", "error", err)
		return emptySuggestions()
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Error("suggestion generation failed", "error", err)
		return emptySuggestions()
	}

	result, err := s.codec.Decode(reply, SuggestionSchema)
	if err != nil {
		slog.Error("suggestion reply failed validation", "error", err, "reply", reply)
		return emptySuggestions()
	}

	return result
}

// Summarize produces a structured review summary for one restaurant. The
// stored document is the authoritative source for location, so it overwrites
// whatever the model echoed.
func (s *Service) Summarize(ctx context.Context, restaurantName string) StructuredResult {
	bundle, err := s.builder.BuildForRestaurant(ctx, restaurantName)
	if errors.Is(err, ErrNoReviews) {
		return notFoundResult(restaurantName)
	}
	if err != nil {
		slog.Error("failed to fetch restaurant reviews", "restaurant", restaurantName, "error", err)
		return errorResult(restaurantName, "temporarily unable to fetch reviews")
	}

	prompt, err := s.prompts.Summary(bundle)
	if err != nil {
		slog.Error("failed to build summary prompt", "restaurant", restaurantName, "error", err)
		return errorResult(restaurantName, "failed to summarize reviews")
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Error("summary generation failed", "restaurant", restaurantName, "error", err)
		return errorResult(restaurantName, "failed to summarize reviews")
	}

	result, err := s.codec.Decode(reply, SummarySchema)
	if err != nil {
		slog.Error("summary reply failed validation", "restaurant", restaurantName, "error", err, "reply", reply)
		return errorResult(restaurantName, "failed to summarize reviews")
	}

	result["restaurant_name"] = bundle.RestaurantName
	result["location"] = bundle.Location

	return result
}

// Answer answers a free-form question about one restaurant using its stored
// reviews only.
func (s *Service) Answer(ctx context.Context, restaurantName, query string) StructuredResult {
	bundle, err := s.builder.BuildForRestaurant(ctx, restaurantName)
	if errors.Is(err, ErrNoReviews) {
		return notFoundResult(restaurantName)
	}
	if err != nil {
		slog.Error("failed to fetch restaurant reviews", "restaurant", restaurantName, "error", err)
		return errorResult(restaurantName, "temporarily unable to fetch reviews")
	}

	prompt, err := s.prompts.QnA(bundle, query)
	if err != nil {
		slog.Error("failed to build qna prompt", "restaurant", restaurantName, "error", err)
		return errorResult(restaurantName, "failed to answer the question")
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Error("qna generation failed", "restaurant", restaurantName, "error", err)
		return errorResult(restaurantName, "failed to answer the question")
	}

	result, err := s.codec.Decode(reply, QnASchema)
	if err != nil {
		slog.Error("qna reply failed validation", "restaurant", restaurantName, "error", err, "reply", reply)
		return errorResult(restaurantName, "failed to answer the question")
	}

	result["restaurant_name"] = restaurantName

	return result
}
