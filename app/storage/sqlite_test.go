package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetChunk(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id, err := s.SaveChunk(ctx, Document{
		Title:        "notes.txt - Chunk 1",
		Content:      "hello world",
		Source:       "notes.txt",
		FilePath:     "notes.txt",
		DocumentType: "txt",
		ChunkIndex:   0,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	doc, err := s.GetChunk(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "hello world", doc.Content)
	assert.Equal(t, "notes.txt", doc.Source)
	assert.Empty(t, doc.EmbeddingID)

	require.NoError(t, s.SetEmbeddingID(ctx, id, "vec-1"))
	doc, err = s.GetChunk(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "vec-1", doc.EmbeddingID)
}

func TestGetChunkMissing(t *testing.T) {
	s := newTestStorage(t)
	doc, err := s.GetChunk(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestChunksBySourceAndDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.SaveChunk(ctx, Document{
			Title: "a.txt", Content: "c", Source: "a.txt", ChunkIndex: i,
		})
		require.NoError(t, err)
	}
	_, err := s.SaveChunk(ctx, Document{Title: "b.txt", Content: "c", Source: "b.txt"})
	require.NoError(t, err)

	chunks, err := s.ChunksBySource(ctx, "a.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkIndex)
	}

	deleted, err := s.DeleteBySource(ctx, "a.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	chunks, err = s.ChunksBySource(ctx, "a.txt")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	docs, err := s.ListDocuments(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentStats(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, docType := range []string{"txt", "txt", "pdf"} {
		_, err := s.SaveChunk(ctx, Document{Title: "t", Content: "c", Source: "s", DocumentType: docType})
		require.NoError(t, err)
	}

	stats, err := s.DocumentStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats["txt"])
	assert.Equal(t, 1, stats["pdf"])
}

func TestConversationsAndMessages(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	convID, err := s.CreateConversation(ctx, 7, "first question")
	require.NoError(t, err)

	conv, err := s.GetConversation(ctx, convID)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.EqualValues(t, 7, conv.UserID)
	assert.Equal(t, "first question", conv.Title)

	_, err = s.SaveMessage(ctx, Message{ConversationID: convID, Role: RoleUser, Content: "hi"})
	require.NoError(t, err)
	_, err = s.SaveMessage(ctx, Message{ConversationID: convID, Role: RoleAssistant, Content: "hello", TokensUsed: 12})
	require.NoError(t, err)

	count, err := s.MessageCount(ctx, convID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	msgs, err := s.MessagesByConversation(ctx, convID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, 12, msgs[1].TokensUsed)

	convs, err := s.ListConversations(ctx, 7, 0, 10)
	require.NoError(t, err)
	assert.Len(t, convs, 1)

	require.NoError(t, s.UpdateConversationTitle(ctx, convID, "renamed"))
	conv, err = s.GetConversation(ctx, convID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", conv.Title)

	require.NoError(t, s.DeleteConversation(ctx, convID))
	conv, err = s.GetConversation(ctx, convID)
	require.NoError(t, err)
	assert.Nil(t, conv)
	count, err = s.MessageCount(ctx, convID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
