package rag

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/savorly/reviews-rag/models"
)

// SimilarityQuery is a k-nearest-neighbor search over review embeddings,
// optionally narrowed by a keyword match on location or address. A row
// qualifies when ANY mention matches either field.
type SimilarityQuery struct {
	Vector        []float32
	K             int
	NumCandidates int
	Locations     []string
}

// ReviewStore is the document store behind the pipeline. Hits come back
// pre-sorted by similarity descending; the pipeline does not re-rank.
type ReviewStore interface {
	SearchSimilar(ctx context.Context, query SimilarityQuery) ([]models.Review, error)
	FindByRestaurant(ctx context.Context, restaurantName string, limit int) ([]models.Review, error)
}

// Pg implements ReviewStore on Postgres with the pgvector extension.
type Pg struct {
	db *gorm.DB
}

func NewReviewPg(connStr string) (*Pg, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}

	return &Pg{db: db}, nil
}

func (s *Pg) SearchSimilar(ctx context.Context, query SimilarityQuery) ([]models.Review, error) {
	vectorStr := vectorToStr(query.Vector)

	var reviews []models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// hnsw.ef_search is the candidate pool the index scans before the
		// final k cut, the equivalent of a KNN num_candidates knob.
		if query.NumCandidates > 0 {
			if err := tx.Exec("SET LOCAL hnsw.ef_search = ?", query.NumCandidates).Error; err != nil {
				return fmt.Errorf("failed to set candidate pool: %w", err)
			}
		}

		q := tx.Model(&models.Review{}).
			Select("restaurant_name, review, location, 1 - (review_vector <=> ?) AS similarity", vectorStr).
			Order("similarity DESC").
			Limit(query.K)

		if len(query.Locations) > 0 {
			clause, args := locationFilter(query.Locations)
			q = q.Where(clause, args...)
		}

		return q.Find(&reviews).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
	}

	return reviews, nil
}

func (s *Pg) FindByRestaurant(ctx context.Context, restaurantName string, limit int) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Select("restaurant_name", "review", "location", "rating").
		Where("restaurant_name = ?", restaurantName).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch restaurant reviews: %w", err)
	}

	return reviews, nil
}

// locationFilter builds one ILIKE term per mention per field, OR-joined, so
// a row matching any single mention qualifies.
func locationFilter(locations []string) (string, []any) {
	conditions := make([]string, 0, len(locations))
	args := make([]any, 0, 2*len(locations))
	for _, location := range locations {
		match := "%" + location + "%"
		conditions = append(conditions, "location ILIKE ? OR address ILIKE ?")
		args = append(args, match, match)
	}

	return strings.Join(conditions, " OR "), args
}

func vectorToStr(vector []float32) string {
	normalizeVector(vector)

	vectorStr := "["
	for i, v := range vector {
		if i > 0 {
			vectorStr += ","
		}
		vectorStr += fmt.Sprintf("%f", v)
	}
	vectorStr += "]"

	return vectorStr
}

func normalizeVector(vec []float32) []float32 {
	var sum float32
	for _, v := range vec {
		sum += v * v
	}
	norm := float32(math.Sqrt(float64(sum)))
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}

	return vec
}
