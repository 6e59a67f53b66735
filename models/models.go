package models

import (
	"encoding/json"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// Review is one stored restaurant review. Rows are owned by the review store
// and are read-only to the pipeline; ingestion lives elsewhere.
type Review struct {
	ID             uint64          `gorm:"primaryKey" json:"id"`
	RestaurantName string          `json:"restaurant_name"`
	Location       string          `json:"location"`
	Address        string          `json:"address"`
	Rating         *float64        `json:"rating,omitempty"`
	Review         string          `json:"review"`
	ReviewVector   pgvector.Vector `gorm:"type:vector(384)" json:"-"`
}

func (r *Review) TableName() string {
	return "restaurant_reviews"
}

// ContextDocument is the minimal projection of a review handed to the
// generative model. One per distinct restaurant within a single request.
type ContextDocument struct {
	RestaurantName string `json:"restaurant_name"`
	Review         string `json:"review"`
	Location       string `json:"location"`
}

// JSONLines serializes documents one JSON object per line, ready for prompt
// embedding.
func JSONLines(documents []ContextDocument) string {
	lines := make([]string, 0, len(documents))
	for _, document := range documents {
		data, err := json.Marshal(document)
		if err != nil {
			continue
		}
		lines = append(lines, string(data))
	}

	return strings.Join(lines, "\n")
}

// ReviewBundle aggregates every stored review for one restaurant. Rating and
// location come from the first matched document.
type ReviewBundle struct {
	RestaurantName string  `json:"restaurant_name"`
	Reviews        string  `json:"reviews"`
	Rating         float64 `json:"rating"`
	Location       string  `json:"location"`
}
