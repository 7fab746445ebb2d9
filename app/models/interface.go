package models

import "context"

type Interface interface {
	Generate(ctx context.Context, messages []Message) (*Completion, error)
	EmbedText(ctx context.Context, input string) ([]float32, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Completion struct {
	Content    string
	TokensUsed int
}
