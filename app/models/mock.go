package models

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockModel struct {
	mock.Mock
}

func (m *MockModel) Generate(ctx context.Context, messages []Message) (*Completion, error) {
	args := m.Called(ctx, messages)
	completion, _ := args.Get(0).(*Completion)
	return completion, args.Error(1)
}

func (m *MockModel) EmbedText(ctx context.Context, input string) ([]float32, error) {
	args := m.Called(ctx, input)
	emb, _ := args.Get(0).([]float32)
	return emb, args.Error(1)
}
