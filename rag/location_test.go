package rag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	content string
	err     error
	calls   int
}

func (f *fakeModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.content}},
	}, nil
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return f.content, f.err
}

func TestExtractorPrefersFirstStrategy(t *testing.T) {
	local := &fakeStrategy{name: "ner", locations: []string{"Cairo"}}
	remote := &fakeStrategy{name: "llm", locations: []string{"Giza"}}
	extractor := NewLocationExtractor(local, remote)

	locations := extractor.Extract(context.Background(), "pizza in Cairo")

	assert.Equal(t, []string{"Cairo"}, locations)
	assert.Zero(t, remote.calls, "a local hit never reaches the remote model")
}

func TestExtractorFallsBackOnEmpty(t *testing.T) {
	local := &fakeStrategy{name: "ner"}
	remote := &fakeStrategy{name: "llm", locations: []string{"Giza"}}
	extractor := NewLocationExtractor(local, remote)

	assert.Equal(t, []string{"Giza"}, extractor.Extract(context.Background(), "best koshary"))
	assert.Equal(t, 1, remote.calls)
}

func TestExtractorFallsBackOnError(t *testing.T) {
	local := &fakeStrategy{name: "ner", err: fmt.Errorf("model unavailable")}
	remote := &fakeStrategy{name: "llm", locations: []string{"Giza"}}
	extractor := NewLocationExtractor(local, remote)

	assert.Equal(t, []string{"Giza"}, extractor.Extract(context.Background(), "best koshary"))
}

func TestExtractorExhaustedReturnsEmpty(t *testing.T) {
	local := &fakeStrategy{name: "ner"}
	remote := &fakeStrategy{name: "llm", err: fmt.Errorf("quota exceeded")}
	extractor := NewLocationExtractor(local, remote)

	assert.Empty(t, extractor.Extract(context.Background(), "best koshary"))
}

func TestLLMStrategyParsesReply(t *testing.T) {
	model := &fakeModel{content: `{"locations": ["Cairo", "Giza"], "error": ""}`}
	strategy := NewLLMStrategy(model)

	locations, err := strategy.Extract(context.Background(), "food between Cairo and Giza")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cairo", "Giza"}, locations)
}

func TestLLMStrategyParsesFencedReply(t *testing.T) {
	model := &fakeModel{content: "```json\n{\"locations\": [\"Alexandria\"], \"error\": \"\"}\n```"}
	strategy := NewLLMStrategy(model)

	locations, err := strategy.Extract(context.Background(), "seafood in Alexandria")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alexandria"}, locations)
}

func TestLLMStrategyNoLocations(t *testing.T) {
	model := &fakeModel{content: `{"locations": [], "error": "no locations mentioned"}`}
	strategy := NewLLMStrategy(model)

	locations, err := strategy.Extract(context.Background(), "best burger")
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestLLMStrategyInvalidJSON(t *testing.T) {
	model := &fakeModel{content: "Cairo sounds nice."}
	strategy := NewLLMStrategy(model)

	_, err := strategy.Extract(context.Background(), "best burger")
	require.Error(t, err)
}

func TestLLMStrategyCallFailure(t *testing.T) {
	model := &fakeModel{err: fmt.Errorf("quota exceeded")}
	strategy := NewLLMStrategy(model)

	_, err := strategy.Extract(context.Background(), "best burger")
	require.Error(t, err)
}
