package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path"

	"github.com/google/uuid"

	"ChatBoxAI/app/storage"
)

type Interface interface {
	Ingest(ctx context.Context, filename string, content []byte) (*IngestResult, error)
	IngestURL(ctx context.Context, pageURL string) (*IngestResult, error)
	Retrieve(ctx context.Context, query string, topK int) []string
	DeleteDocument(ctx context.Context, documentID int64) (bool, error)
	IndexCount(ctx context.Context) (uint64, error)
}

// IngestResult reports how far an ingestion got. DocumentID is the id of the
// first created chunk; ChunksCreated may be lower than TotalChunks when some
// chunks failed to reach a fully indexed state.
type IngestResult struct {
	DocumentID    int64 `json:"document_id"`
	ChunksCreated int   `json:"chunks_created"`
	TotalChunks   int   `json:"total_chunks"`
}

var _ Interface = &Client{}

// Client drives the ingestion and retrieval pipeline: chunker on the way in,
// embedder and vector store on both paths, chunk records in relational
// storage alongside every vector entry.
type Client struct {
	store        storage.DocumentStore
	embedder     *Embedder
	vectors      VectorStore
	maxChunkSize int
}

func NewClient(store storage.DocumentStore, embedder *Embedder, vectors VectorStore, maxChunkSize int) *Client {
	return &Client{
		store:        store,
		embedder:     embedder,
		vectors:      vectors,
		maxChunkSize: maxChunkSize,
	}
}

// ChunkID derives a stable vector id from the chunk content. Identical
// content from different documents maps to the same id; that collision is a
// known limitation of content-addressed ids, kept for re-ingestion
// stability.
func ChunkID(content string) string {
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(content)).String()
}

func (c *Client) Ingest(ctx context.Context, filename string, content []byte) (*IngestResult, error) {
	text, err := ExtractText(filename, content)
	if err != nil {
		return nil, err
	}
	return c.ingestText(ctx, filename, DocumentType(filename), text)
}

func (c *Client) IngestURL(ctx context.Context, pageURL string) (*IngestResult, error) {
	text, err := FetchPageText(pageURL)
	if err != nil {
		return nil, err
	}
	source := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		source = path.Join(u.Host, u.Path)
	}
	return c.ingestText(ctx, source, "url", text)
}

func (c *Client) ingestText(ctx context.Context, source, docType, text string) (*IngestResult, error) {
	chunks := SplitText(text, c.maxChunkSize)
	if len(chunks) == 0 {
		return nil, errors.New("document has no extractable text")
	}

	result := &IngestResult{TotalChunks: len(chunks)}

	for i, chunk := range chunks {
		chunkID, err := c.store.SaveChunk(ctx, storage.Document{
			Title:        fmt.Sprintf("%s - Chunk %d", source, i+1),
			Content:      chunk,
			Source:       source,
			FilePath:     source,
			DocumentType: docType,
			ChunkIndex:   i,
		})
		if err != nil {
			log.Printf("⚠️ Failed to persist chunk %d of %s: %v", i, source, err)
			continue
		}
		if result.DocumentID == 0 {
			result.DocumentID = chunkID
		}

		vector := c.embedder.Embed(ctx, chunk)
		vectorID := ChunkID(chunk)
		if err = c.vectors.Add(ctx, VectorDoc{
			ID:      vectorID,
			Content: chunk,
			Vector:  vector,
			Metadata: map[string]any{
				"document_id": chunkID,
				"title":       fmt.Sprintf("%s - Chunk %d", source, i+1),
				"source":      source,
				"chunk_index": i,
			},
		}); err != nil {
			log.Printf("⚠️ Failed to index chunk %d of %s: %v", i, source, err)
			continue
		}

		if err = c.store.SetEmbeddingID(ctx, chunkID, vectorID); err != nil {
			log.Printf("⚠️ Failed to record vector id on chunk %d of %s: %v", chunkID, source, err)
			continue
		}

		result.ChunksCreated++
	}

	log.Printf("✅ Ingested %s: %d/%d chunks indexed", source, result.ChunksCreated, result.TotalChunks)
	return result, nil
}

// Retrieve returns the text of the topK most similar chunks, best first. Any
// failure yields an empty result set so the generation step can still run
// without context.
func (c *Client) Retrieve(ctx context.Context, query string, topK int) []string {
	vector := c.embedder.Embed(ctx, query)
	docs, err := c.vectors.Query(ctx, vector, topK)
	if err != nil {
		log.Printf("⚠️ Vector search failed: %v", err)
		return nil
	}

	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Content)
	}
	return out
}

// DeleteDocument removes every chunk sharing the source of the chunk
// identified by documentID, vector entries first. A failing vector delete
// aborts before any chunk row is removed, so no vector entry is ever left
// without its backing record.
func (c *Client) DeleteDocument(ctx context.Context, documentID int64) (bool, error) {
	doc, err := c.store.GetChunk(ctx, documentID)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}

	chunks, err := c.store.ChunksBySource(ctx, doc.Source)
	if err != nil {
		return false, err
	}

	for _, chunk := range chunks {
		if chunk.EmbeddingID == "" {
			continue
		}
		if err = c.vectors.Delete(ctx, chunk.EmbeddingID); err != nil {
			return false, fmt.Errorf("delete vector %s: %w", chunk.EmbeddingID, err)
		}
	}

	if _, err = c.store.DeleteBySource(ctx, doc.Source); err != nil {
		return false, err
	}

	log.Printf("🗑️ Deleted document %s (%d chunks)", doc.Source, len(chunks))
	return true, nil
}

func (c *Client) IndexCount(ctx context.Context) (uint64, error) {
	return c.vectors.Count(ctx)
}
