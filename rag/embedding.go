package rag

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

// EmbeddingDim is fixed by the embedding model (all-minilm).
const EmbeddingDim = 384

// Embedder maps text to a fixed-length vector. A failed embedding means the
// text cannot be searched; callers degrade to an empty result instead of
// failing the request.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder embeds text through a local ollama model.
type OllamaEmbedder struct {
	llm *ollama.LLM
}

func NewOllamaEmbedder(llm *ollama.LLM) *OllamaEmbedder {
	return &OllamaEmbedder{llm: llm}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeds, err := e.llm.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(embeds) == 0 {
		return nil, fmt.Errorf("empty embeddings")
	}
	if len(embeds[0]) != EmbeddingDim {
		return nil, fmt.Errorf("embedding has dimension %d, want %d", len(embeds[0]), EmbeddingDim)
	}

	return embeds[0], nil
}
