package rag

import (
	"context"
	"log"

	"ChatBoxAI/app/models"
)

// Embedder wraps the embeddings model and owns the degraded path: any backend
// failure yields a zero vector of the configured dimension instead of an
// error, so ingestion and retrieval stay available. A zero vector ranks
// last under cosine similarity, deprioritizing the affected chunk rather
// than corrupting the index.
type Embedder struct {
	model     models.Interface
	dimension int
}

func NewEmbedder(model models.Interface, dimension int) *Embedder {
	return &Embedder{model: model, dimension: dimension}
}

func (e *Embedder) Dimension() int {
	return e.dimension
}

// Embed always returns a vector of exactly Dimension() entries.
func (e *Embedder) Embed(ctx context.Context, text string) []float32 {
	vec, err := e.model.EmbedText(ctx, text)
	if err != nil {
		log.Printf("⚠️ Embedding failed, falling back to zero vector: %v", err)
		return make([]float32, e.dimension)
	}
	if len(vec) != e.dimension {
		log.Printf("⚠️ Embedding dimension mismatch (got %d, want %d), falling back to zero vector", len(vec), e.dimension)
		return make([]float32, e.dimension)
	}
	return vec
}
