package rag

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/savorly/reviews-rag/models"
)

const (
	DefaultK             = 50
	DefaultNumCandidates = 100
	DefaultReviewLimit   = 50
)

// ContextBuilder turns a query or a restaurant name into model-ready context.
type ContextBuilder struct {
	extractor *LocationExtractor
	embedder  Embedder
	store     ReviewStore

	k             int
	numCandidates int
	reviewLimit   int
}

// BuilderOption tunes the search issued by a ContextBuilder.
type BuilderOption func(*ContextBuilder)

func WithK(k int) BuilderOption {
	return func(b *ContextBuilder) { b.k = k }
}

func WithNumCandidates(n int) BuilderOption {
	return func(b *ContextBuilder) { b.numCandidates = n }
}

func WithReviewLimit(n int) BuilderOption {
	return func(b *ContextBuilder) { b.reviewLimit = n }
}

func NewContextBuilder(extractor *LocationExtractor, embedder Embedder, store ReviewStore, opts ...BuilderOption) *ContextBuilder {
	builder := &ContextBuilder{
		extractor:     extractor,
		embedder:      embedder,
		store:         store,
		k:             DefaultK,
		numCandidates: DefaultNumCandidates,
		reviewLimit:   DefaultReviewLimit,
	}
	for _, opt := range opts {
		opt(builder)
	}

	return builder
}

// BuildForQuery returns one context document per distinct restaurant, in the
// store's similarity order. Blank queries and failed embeddings yield an
// empty result without touching the store: search is impossible, not broken.
func (b *ContextBuilder) BuildForQuery(ctx context.Context, query string) ([]models.ContextDocument, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	// Location extraction and embedding are independent legs; both degrade
	// internally instead of failing the group.
	var (
		locations []string
		vector    []float32
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		locations = b.extractor.Extract(groupCtx, query)
		return nil
	})
	group.Go(func() error {
		embedded, err := b.embedder.Embed(groupCtx, query)
		if err != nil {
			slog.Warn("failed to embed query", "error", err)
			return nil
		}
		vector = embedded
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if vector == nil {
		return nil, nil
	}

	reviews, err := b.store.SearchSimilar(ctx, SimilarityQuery{
		Vector:        vector,
		K:             b.k,
		NumCandidates: b.numCandidates,
		Locations:     locations,
	})
	if err != nil {
		return nil, err
	}

	// The location match is a boost, not a gate. When the filtered search
	// comes up empty (extracted mention matches no stored value), fall back
	// to pure similarity rather than returning nothing.
	if len(reviews) == 0 && len(locations) > 0 {
		slog.Debug("location-filtered search empty, retrying unfiltered", "locations", locations)
		reviews, err = b.store.SearchSimilar(ctx, SimilarityQuery{
			Vector:        vector,
			K:             b.k,
			NumCandidates: b.numCandidates,
		})
		if err != nil {
			return nil, err
		}
	}

	// Keep the highest-ranked review per restaurant.
	seen := make(map[string]struct{}, len(reviews))
	documents := make([]models.ContextDocument, 0, len(reviews))
	for _, review := range reviews {
		if _, ok := seen[review.RestaurantName]; ok {
			continue
		}
		seen[review.RestaurantName] = struct{}{}

		documents = append(documents, models.ContextDocument{
			RestaurantName: review.RestaurantName,
			Review:         review.Review,
			Location:       review.Location,
		})
	}

	return documents, nil
}

// BuildForRestaurant fetches every stored review for one restaurant and
// concatenates them into a bundle. Returns ErrNoReviews when nothing matches.
// Rating and location come from the first hit, a simplification kept on
// purpose rather than picking a majority or most-recent document.
func (b *ContextBuilder) BuildForRestaurant(ctx context.Context, restaurantName string) (*models.ReviewBundle, error) {
	reviews, err := b.store.FindByRestaurant(ctx, restaurantName, b.reviewLimit)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}

	texts := make([]string, len(reviews))
	for i, review := range reviews {
		texts[i] = review.Review
	}

	bundle := &models.ReviewBundle{
		RestaurantName: restaurantName,
		Reviews:        strings.Join(texts, "\n"),
		Location:       reviews[0].Location,
	}
	if reviews[0].Rating != nil {
		bundle.Rating = *reviews[0].Rating
	}

	return bundle, nil
}
