package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/savorly/reviews-rag/config"
	"github.com/savorly/reviews-rag/rag"
)

type API struct {
	config  *config.Config
	handler *Handler
}

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	store, err := rag.NewReviewPg(cfg.Postgres.ConnStr())
	if err != nil {
		log.Fatal(err)
	}

	embeddingLLM, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.Address()),
		ollama.WithModel(cfg.Ollama.EmbeddingModel),
	)
	if err != nil {
		log.Fatal(err)
	}

	var embedder rag.Embedder = rag.NewOllamaEmbedder(embeddingLLM)
	if cfg.EmbeddingCache.Enabled {
		cached, err := rag.NewCachedEmbedder(embedder, cfg.EmbeddingCache.Path)
		if err != nil {
			log.Fatal(err)
		}
		defer cached.Close()
		embedder = cached
	}

	generationLLM, err := newGenerationModel(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	parserLLM, err := newParserModel(cfg, generationLLM)
	if err != nil {
		log.Fatal(err)
	}

	extractor := rag.NewLocationExtractor(
		rag.NERStrategy{},
		rag.NewLLMStrategy(parserLLM),
	)

	builder := rag.NewContextBuilder(extractor, embedder, store, builderOptions(cfg)...)
	generator := rag.NewTimeoutGenerator(rag.NewLLMGenerator(generationLLM), cfg.Generator.Timeout())
	service := rag.NewService(builder, generator)

	api := &API{
		config:  cfg,
		handler: NewHandler(service),
	}

	if err := api.Run(); err != nil {
		log.Fatalf("failed to run the api: %v", err)
	}
}

func newGenerationModel(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	if cfg.Generator.Provider == "googleai" {
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.GoogleAI.APIKey),
			googleai.WithDefaultModel(cfg.GoogleAI.Model),
		)
	}

	return ollama.New(
		ollama.WithServerURL(cfg.Ollama.Address()),
		ollama.WithModel(cfg.Ollama.GenerationModel),
	)
}

// newParserModel returns the JSON-mode model used by the location fallback.
// The ollama setup runs a smaller parser model next to the generation one.
func newParserModel(cfg *config.Config, generationLLM llms.Model) (llms.Model, error) {
	if cfg.Generator.Provider == "googleai" {
		return generationLLM, nil
	}

	return ollama.New(
		ollama.WithServerURL(cfg.Ollama.Address()),
		ollama.WithModel(cfg.Ollama.ParserModel),
	)
}

func builderOptions(cfg *config.Config) []rag.BuilderOption {
	var opts []rag.BuilderOption
	if cfg.Search.K > 0 {
		opts = append(opts, rag.WithK(cfg.Search.K))
	}
	if cfg.Search.NumCandidates > 0 {
		opts = append(opts, rag.WithNumCandidates(cfg.Search.NumCandidates))
	}
	if cfg.Search.ReviewLimit > 0 {
		opts = append(opts, rag.WithReviewLimit(cfg.Search.ReviewLimit))
	}

	return opts
}

func (a *API) Run() error {
	r := gin.Default()

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Connected"})
	})
	r.GET("/suggest", a.handler.Suggest)
	r.GET("/summary/:restaurant_name", a.handler.Summarize)
	r.POST("/query", a.handler.Query)

	return r.Run(a.config.Server.Address())
}
