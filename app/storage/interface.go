package storage

import "context"

type DocumentStore interface {
	SaveChunk(ctx context.Context, doc Document) (int64, error)
	SetEmbeddingID(ctx context.Context, id int64, embeddingID string) error
	GetChunk(ctx context.Context, id int64) (*Document, error)
	ListDocuments(ctx context.Context, skip, limit int) ([]Document, error)
	ChunksBySource(ctx context.Context, source string) ([]Document, error)
	DeleteBySource(ctx context.Context, source string) (int64, error)
	DocumentStats(ctx context.Context) (map[string]int, error)
}

type ConversationStore interface {
	CreateConversation(ctx context.Context, userID int64, title string) (int64, error)
	GetConversation(ctx context.Context, id int64) (*Conversation, error)
	ListConversations(ctx context.Context, userID int64, skip, limit int) ([]Conversation, error)
	MessageCount(ctx context.Context, conversationID int64) (int, error)
	SaveMessage(ctx context.Context, msg Message) (int64, error)
	MessagesByConversation(ctx context.Context, conversationID int64) ([]Message, error)
	DeleteConversation(ctx context.Context, id int64) error
	UpdateConversationTitle(ctx context.Context, id int64, title string) error
}

type Interface interface {
	DocumentStore
	ConversationStore
	Close() error
}
