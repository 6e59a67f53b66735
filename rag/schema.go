package rag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind constrains the shape of a required top-level field in a model reply.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindList
)

// Field is one required top-level key in an OutputSchema.
type Field struct {
	Key  string
	Kind Kind
}

// OutputSchema is the structural contract for one task: the literal JSON
// shape shown to the model, and the keys a reply must carry to be accepted.
type OutputSchema struct {
	Name     string
	Shape    string
	Required []Field
}

var (
	SuggestionSchema = OutputSchema{
		Name:  "suggestion",
		Shape: `{"greeting": "string", "suggestions": [{"restaurant_name": "string", "note": "string", "conclusion": "string"}]}`,
		Required: []Field{
			{Key: "suggestions", Kind: KindList},
		},
	}

	SummarySchema = OutputSchema{
		Name:  "summary",
		Shape: `{"restaurant_name": "string", "must_try_dishes": "list", "highlights": "string", "notes": "string", "conclusion": "string", "rating": "number"}`,
		Required: []Field{
			{Key: "must_try_dishes", Kind: KindAny},
			{Key: "highlights", Kind: KindString},
			{Key: "notes", Kind: KindString},
			{Key: "conclusion", Kind: KindString},
			{Key: "rating", Kind: KindAny},
		},
	}

	QnASchema = OutputSchema{
		Name:  "qna",
		Shape: `{"restaurant_name": "string", "answer": "string"}`,
		Required: []Field{
			{Key: "answer", Kind: KindString},
		},
	}
)

// StructuredResult is the parsed, schema-conformant reply returned to
// callers. It is always either conformant or replaced by a documented
// empty/error value, never raw model text.
type StructuredResult map[string]any

// Codec turns schemas into prompt instructions and raw model replies into
// validated results.
type Codec struct{}

// Encode renders the schema as a literal JSON-shaped instruction.
func (Codec) Encode(schema OutputSchema) string {
	return fmt.Sprintf("Return a JSON object in this format: %s.", schema.Shape)
}

// Decode extracts the first fenced JSON block from a model reply (falling
// back to the whole reply) and validates it against the schema. Failures
// wrap ErrSchemaViolation.
func (Codec) Decode(raw string, schema OutputSchema) (StructuredResult, error) {
	payload, ok := fencedJSON(raw)
	if !ok {
		payload = strings.TrimSpace(raw)
	}

	var result StructuredResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	for _, field := range schema.Required {
		value, ok := result[field.Key]
		if !ok {
			return nil, fmt.Errorf("%w: missing field %q", ErrSchemaViolation, field.Key)
		}

		switch field.Kind {
		case KindString:
			if _, ok := value.(string); !ok {
				return nil, fmt.Errorf("%w: field %q is not a string", ErrSchemaViolation, field.Key)
			}
		case KindList:
			if _, ok := value.([]any); !ok {
				return nil, fmt.Errorf("%w: field %q is not a list", ErrSchemaViolation, field.Key)
			}
		}
	}

	return result, nil
}

// fencedJSON isolates the inner text of the first ```json fenced block.
func fencedJSON(raw string) (string, bool) {
	_, after, found := strings.Cut(raw, "```json")
	if !found {
		return "", false
	}

	inner, _, found := strings.Cut(after, "```")
	if !found {
		return "", false
	}

	return strings.TrimSpace(inner), true
}
