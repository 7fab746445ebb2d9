package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveChunk(ctx context.Context, doc Document) (int64, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) SetEmbeddingID(ctx context.Context, id int64, embeddingID string) error {
	args := m.Called(ctx, id, embeddingID)
	return args.Error(0)
}

func (m *MockStorage) GetChunk(ctx context.Context, id int64) (*Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*Document)
	return doc, args.Error(1)
}

func (m *MockStorage) ListDocuments(ctx context.Context, skip, limit int) ([]Document, error) {
	args := m.Called(ctx, skip, limit)
	docs, _ := args.Get(0).([]Document)
	return docs, args.Error(1)
}

func (m *MockStorage) ChunksBySource(ctx context.Context, source string) ([]Document, error) {
	args := m.Called(ctx, source)
	docs, _ := args.Get(0).([]Document)
	return docs, args.Error(1)
}

func (m *MockStorage) DeleteBySource(ctx context.Context, source string) (int64, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) DocumentStats(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(map[string]int)
	return stats, args.Error(1)
}

func (m *MockStorage) CreateConversation(ctx context.Context, userID int64, title string) (int64, error) {
	args := m.Called(ctx, userID, title)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	args := m.Called(ctx, id)
	conv, _ := args.Get(0).(*Conversation)
	return conv, args.Error(1)
}

func (m *MockStorage) ListConversations(ctx context.Context, userID int64, skip, limit int) ([]Conversation, error) {
	args := m.Called(ctx, userID, skip, limit)
	convs, _ := args.Get(0).([]Conversation)
	return convs, args.Error(1)
}

func (m *MockStorage) MessageCount(ctx context.Context, conversationID int64) (int, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).(int), args.Error(1)
}

func (m *MockStorage) SaveMessage(ctx context.Context, msg Message) (int64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MessagesByConversation(ctx context.Context, conversationID int64) ([]Message, error) {
	args := m.Called(ctx, conversationID)
	msgs, _ := args.Get(0).([]Message)
	return msgs, args.Error(1)
}

func (m *MockStorage) DeleteConversation(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) UpdateConversationTitle(ctx context.Context, id int64, title string) error {
	args := m.Called(ctx, id, title)
	return args.Error(0)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}
