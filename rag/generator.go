package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Generator produces a text completion for a prompt. Replies are typically
// Markdown containing one fenced JSON block.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMGenerator adapts a langchaingo model (ollama, googleai) to Generator.
type LLMGenerator struct {
	llm llms.Model
}

func NewLLMGenerator(llm llms.Model) *LLMGenerator {
	return &LLMGenerator{llm: llm}
}

func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return reply, nil
}

// TimeoutGenerator imposes a per-call deadline and retries once on timeout.
// Quota and availability errors are terminal for the request, not retried.
type TimeoutGenerator struct {
	inner   Generator
	timeout time.Duration
}

func NewTimeoutGenerator(inner Generator, timeout time.Duration) *TimeoutGenerator {
	return &TimeoutGenerator{
		inner:   inner,
		timeout: timeout,
	}
}

func (g *TimeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reply, err := g.generateOnce(ctx, prompt)
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		return reply, err
	}

	slog.Warn("generation timed out, retrying once")

	return g.generateOnce(ctx, prompt)
}

func (g *TimeoutGenerator) generateOnce(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	return g.inner.Generate(callCtx, prompt)
}
