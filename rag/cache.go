package rag

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// CachedEmbedder memoizes query embeddings in a local sqlite database so
// repeated queries skip the embedding model. Cache failures are logged and
// fall through to the inner embedder.
type CachedEmbedder struct {
	inner Embedder
	db    *sql.DB
}

func NewCachedEmbedder(inner Embedder, path string) (*CachedEmbedder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS embedding_cache (
		query_hash TEXT PRIMARY KEY,
		vector TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}

	return &CachedEmbedder{
		inner: inner,
		db:    db,
	}, nil
}

func (c *CachedEmbedder) Close() error {
	return c.db.Close()
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := hashText(text)

	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT vector FROM embedding_cache WHERE query_hash = ?`, key).Scan(&raw)
	if err == nil {
		var vector []float32
		if err := json.Unmarshal([]byte(raw), &vector); err == nil && len(vector) == EmbeddingDim {
			return vector, nil
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Warn("embedding cache lookup failed", "error", err)
	}

	vector, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(vector); err == nil {
		if _, err := c.db.ExecContext(ctx, `INSERT OR REPLACE INTO embedding_cache (query_hash, vector) VALUES (?, ?)`, key, string(raw)); err != nil {
			slog.Warn("embedding cache write failed", "error", err)
		}
	}

	return vector, nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
