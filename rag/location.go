package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jdkato/prose/v2"
	"github.com/tmc/langchaingo/llms"
)

// LocationStrategy is one extraction attempt. An empty result with a nil
// error means "no locations found" and moves on to the next strategy.
type LocationStrategy interface {
	Name() string
	Extract(ctx context.Context, query string) ([]string, error)
}

// LocationExtractor pulls location mentions out of a free-text query by
// trying an ordered list of strategies until one yields a match. Extraction
// is best-effort: every failure degrades to an empty set, never an error.
type LocationExtractor struct {
	strategies []LocationStrategy
}

func NewLocationExtractor(strategies ...LocationStrategy) *LocationExtractor {
	return &LocationExtractor{strategies: strategies}
}

// Extract returns the location mentions found in the query, or nil when
// nothing was found.
func (e *LocationExtractor) Extract(ctx context.Context, query string) []string {
	for _, strategy := range e.strategies {
		locations, err := strategy.Extract(ctx, query)
		if err != nil {
			slog.Warn("location extraction failed", "strategy", strategy.Name(), "error", err)
			continue
		}
		if len(locations) > 0 {
			return locations
		}
	}

	return nil
}

// NERStrategy runs a local named-entity recognizer and keeps entities tagged
// as geo-political entities or locations. It never calls a remote model.
type NERStrategy struct{}

func (NERStrategy) Name() string { return "ner" }

func (NERStrategy) Extract(_ context.Context, query string) ([]string, error) {
	doc, err := prose.NewDocument(query)
	if err != nil {
		return nil, fmt.Errorf("failed to run ner: %w", err)
	}

	var locations []string
	for _, entity := range doc.Entities() {
		if entity.Label == "GPE" || entity.Label == "LOC" {
			locations = append(locations, entity.Text)
		}
	}

	return locations, nil
}

const locationPrompt = `You are an NER model tasked with extracting locations from the following query: %q.
A location can be a city, country, region, address, or any geographical entity.
Return a JSON object in this format: {"locations": ["string"], "error": "string"}.
- If locations are found, include them in the "locations" list.
- If no locations are found, set "locations" to an empty list and provide a brief explanation in "error".
- Do not include any other fields or explanations outside the JSON format.`

// LLMStrategy asks a JSON-mode model to extract locations. It backs up the
// local recognizer and only runs when that finds nothing.
type LLMStrategy struct {
	llm llms.Model
}

func NewLLMStrategy(llm llms.Model) *LLMStrategy {
	return &LLMStrategy{llm: llm}
}

func (*LLMStrategy) Name() string { return "llm" }

func (s *LLMStrategy) Extract(ctx context.Context, query string) ([]string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf(locationPrompt, query))},
		},
	}

	content, err := s.llm.GenerateContent(ctx, messages, llms.WithJSONMode(), llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(content.Choices) == 0 {
		return nil, nil
	}

	payload := content.Choices[0].Content
	if fenced, ok := fencedJSON(payload); ok {
		payload = fenced
	}

	var parsed struct {
		Locations []string `json:"locations"`
		Error     string   `json:"error"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("reply was not valid JSON: %w", err)
	}

	return parsed.Locations, nil
}
