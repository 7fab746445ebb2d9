package rag

import "context"

type VectorDoc struct {
	ID       string
	Content  string
	Metadata map[string]any
	Vector   []float32
	Score    float32
}

// VectorStore is the capability contract over an approximate nearest-neighbor
// index. Add overwrites an existing id (the overwrite is logged, never
// silent). Query ranks by descending cosine similarity and must not fail on
// a well-formed vector; Delete is idempotent.
type VectorStore interface {
	Init(ctx context.Context, vectorSize int) error
	Add(ctx context.Context, doc VectorDoc) error
	Query(ctx context.Context, vector []float32, k int) ([]VectorDoc, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (uint64, error)
	Close() error
}
