package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
)

var _ VectorStore = &MemoryStore{}

// MemoryStore is an in-process brute-force cosine store implementing the same
// contract as the qdrant backend. It backs deployments without a qdrant
// endpoint and the test suite.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	entries   []memEntry
}

type memEntry struct {
	id       string
	content  string
	metadata map[string]any
	vector   []float32
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context, vectorSize int) error {
	if vectorSize <= 0 {
		return errors.New("invalid vector size")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = vectorSize
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Add(_ context.Context, doc VectorDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension > 0 && len(doc.Vector) != s.dimension {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(doc.Vector), s.dimension)
	}

	entry := memEntry{
		id:       doc.ID,
		content:  doc.Content,
		metadata: doc.Metadata,
		vector:   doc.Vector,
	}

	for i := range s.entries {
		if s.entries[i].id == doc.ID {
			log.Printf("♻️ Vector id %s already present, overwriting", doc.ID)
			s.entries[i] = entry
			return nil
		}
	}

	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) Query(_ context.Context, vector []float32, k int) ([]VectorDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.entries) == 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score float32
	}
	ranked := make([]scored, len(s.entries))
	for i := range s.entries {
		ranked[i] = scored{idx: i, score: cosineSimilarity(s.entries[i].vector, vector)}
	}
	// stable: equal scores keep insertion order, earlier entry wins
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]VectorDoc, 0, k)
	for _, r := range ranked[:k] {
		e := s.entries[r.idx]
		out = append(out, VectorDoc{
			ID:       e.id,
			Content:  e.content,
			Metadata: e.metadata,
			Score:    r.score,
		})
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.entries)), nil
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
