package rag

import (
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/prompts"

	"github.com/savorly/reviews-rag/models"
)

var suggestionTemplate = prompts.NewPromptTemplate(`You are a restaurant recommender. Suggest restaurants based on the user query: "{{.query}}".
Use the provided data to make recommendations.
Only recommend restaurants with positive reviews (avoid negative sentiment).
Do not recommend the same restaurant more than once.
{{.format}}
- First start with a greeting message. A short, friendly welcome message (1-2 sentences) tailored to the user's query, expressing enthusiasm for finding the best matches.
- Each suggestion must include: restaurant_name, note (why it matches the query), conclusion (recommendation summary).
- If no suitable restaurants are found, return: {"suggestions": [], "reason": "say your reason here"}
- Do not include any other fields or explanations outside the JSON format.
- Return only the JSON object, no other text.

Data:
{{.documents}}`, []string{"query", "format", "documents"})

var summaryTemplate = prompts.NewPromptTemplate(`You are a restaurant recommender.
Your task is to analyze reviews for the restaurant '{{.restaurantName}}' and provide a structured summary based on the given reviews.
**Input Reviews**:
{{.reviews}}
{{.format}}
**Instructions**:
1. Analyze the reviews to identify:
- **Must try dishes**: List specific dishes recommended based on the reviews, up to 5 dishes, if available. If no dishes are mentioned, state "".
- **Highlights**: Provide a short and concise summary of positive aspects or strengths of the restaurant (e.g., ambiance, service, food quality), if available. If none, state "".
- **Notes**: Note any negative aspects or areas for improvement shortly and concisely (e.g., slow service, pricing), if available. If none, state "".
- **Conclusion**: Provide a concise summary of the restaurant's overall experience based on the reviews.
- **Rating**: Extract numerical ratings (e.g., 1 to 5 stars) from all provided reviews. Calculate the average rating, rounded to one decimal place. If no numerical ratings are available or if ratings are non-numerical, state 'No valid ratings found'.
- Do not include any other fields or explanations outside the JSON format.
- Return only the JSON object, no other text.`, []string{"restaurantName", "reviews", "format"})

var qnaTemplate = prompts.NewPromptTemplate(`You are a restaurant Q&A assistant. Answer the user's question about the restaurant '{{.restaurantName}}', based on the user's query: '{{.query}}'.
Use the provided reviews to formulate a precise and relevant answer.
**Input Reviews**:
{{.reviews}}
{{.format}}
**Instructions**:
- 'restaurant_name': The restaurant name ({{.restaurantName}}).
- 'answer': The answer to the question, or an explicit statement that the reviews do not contain enough information.
- Do not include additional fields or explanations outside the JSON format.
- Return only the JSON object, no other text.`, []string{"restaurantName", "query", "reviews", "format"})

// PromptFactory renders task prompts around a schema instruction and the
// retrieved context.
type PromptFactory struct {
	codec Codec
}

func (f PromptFactory) Suggestion(query string, documents []models.ContextDocument) (string, error) {
	prompt, err := suggestionTemplate.Format(map[string]any{
		"query":     query,
		"format":    f.codec.Encode(SuggestionSchema),
		"documents": models.JSONLines(documents),
	})
	if err != nil {
		return "", fmt.Errorf("failed to format suggestion prompt: %w", err)
	}

	return prompt, nil
}

func (f PromptFactory) Summary(bundle *models.ReviewBundle) (string, error) {
	reviews, err := json.Marshal(bundle)
	if err != nil {
		return "", fmt.Errorf("failed to serialize review bundle: %w", err)
	}

	prompt, err := summaryTemplate.Format(map[string]any{
		"restaurantName": bundle.RestaurantName,
		"reviews":        string(reviews),
		"format":         f.codec.Encode(SummarySchema),
	})
	if err != nil {
		return "", fmt.Errorf("failed to format summary prompt: %w", err)
	}

	return prompt, nil
}

func (f PromptFactory) QnA(bundle *models.ReviewBundle, query string) (string, error) {
	reviews, err := json.Marshal(bundle)
	if err != nil {
		return "", fmt.Errorf("failed to serialize review bundle: %w", err)
	}

	prompt, err := qnaTemplate.Format(map[string]any{
		"restaurantName": bundle.RestaurantName,
		"query":          query,
		"reviews":        string(reviews),
		"format":         f.codec.Encode(QnASchema),
	})
	if err != nil {
		return "", fmt.Errorf("failed to format qna prompt: %w", err)
	}

	return prompt, nil
}
