package rag

import "errors"

// ErrNoReviews reports that a restaurant has no stored reviews. It is
// distinct from a transient store failure so callers can return the
// user-facing "no reviews found" result instead of an error object.
var ErrNoReviews = errors.New("no reviews found for restaurant")

// ErrSchemaViolation reports a model reply that could not be decoded into
// the declared output schema.
var ErrSchemaViolation = errors.New("model reply violates output schema")
