package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ChatBoxAI/app/models"
	"ChatBoxAI/app/rag"
	"ChatBoxAI/app/storage"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Outcome is the result of one chat turn. Degraded marks answers produced by
// the fallback path while the generation backend was unavailable; the
// boundary still serves them with the same shape as real answers.
type Outcome struct {
	Answer         string
	ConversationID int64
	MessageID      int64
	Sources        []string
	TokensUsed     int
	Degraded       bool
}

type Service struct {
	store     storage.ConversationStore
	model     models.Interface
	retriever rag.Interface
	topK      int
}

func NewService(store storage.ConversationStore, model models.Interface, retriever rag.Interface, topK int) *Service {
	return &Service{
		store:     store,
		model:     model,
		retriever: retriever,
		topK:      topK,
	}
}

// BuildPrompt interpolates the retrieved context into the answer template.
// An empty retrieval gets the fixed no-reference placeholder instead.
func BuildPrompt(contextDocs []string) string {
	contextText := models.NoContextPlaceholder
	if len(contextDocs) > 0 {
		contextText = strings.Join(contextDocs, "\n\n")
	}
	return fmt.Sprintf(models.AnswerSystemPrompt, contextText)
}

// Respond runs one retrieval-augmented chat turn: retrieve context, persist
// the user message, generate an answer conditioned on the conversation
// history plus the context, persist the assistant message. A generation
// failure produces the fallback answer, which is persisted like any other
// assistant turn so the conversation stays continuous through an outage.
func (s *Service) Respond(ctx context.Context, userID int64, message string, conversationID int64) (*Outcome, error) {
	sources := s.retriever.Retrieve(ctx, message, s.topK)

	if conversationID == 0 {
		id, err := s.store.CreateConversation(ctx, userID, deriveTitle(message))
		if err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		conversationID = id
	} else {
		conv, err := s.store.GetConversation(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		if conv == nil {
			return nil, ErrConversationNotFound
		}
	}

	history, err := s.store.MessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if _, err = s.store.SaveMessage(ctx, storage.Message{
		ConversationID: conversationID,
		Role:           storage.RoleUser,
		Content:        message,
	}); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	messages := make([]models.Message, 0, len(history)+2)
	messages = append(messages, models.Message{Role: storage.RoleSystem, Content: BuildPrompt(sources)})
	for _, msg := range history {
		messages = append(messages, models.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, models.Message{Role: storage.RoleUser, Content: message})

	outcome := &Outcome{
		ConversationID: conversationID,
		Sources:        sources,
	}

	completion, err := s.model.Generate(ctx, messages)
	if err != nil {
		log.Printf("⚠️ Generation failed, serving fallback answer: %v", err)
		outcome.Answer = models.FallbackAnswer
		outcome.Sources = nil
		outcome.Degraded = true
	} else {
		outcome.Answer = completion.Content
		outcome.TokensUsed = completion.TokensUsed
	}

	messageID, err := s.store.SaveMessage(ctx, storage.Message{
		ConversationID: conversationID,
		Role:           storage.RoleAssistant,
		Content:        outcome.Answer,
		TokensUsed:     outcome.TokensUsed,
	})
	if err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}
	outcome.MessageID = messageID

	return outcome, nil
}

func deriveTitle(firstMessage string) string {
	if len(firstMessage) > 50 {
		return firstMessage[:50] + "..."
	}
	return firstMessage
}
