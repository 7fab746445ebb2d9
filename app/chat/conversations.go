package chat

import (
	"context"
	"fmt"
	"time"
)

type ConversationSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int       `json:"message_count"`
}

type MessageView struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationHistory struct {
	ConversationID int64         `json:"conversation_id"`
	Title          string        `json:"title"`
	Messages       []MessageView `json:"messages"`
}

func (s *Service) UserConversations(ctx context.Context, userID int64, skip, limit int) ([]ConversationSummary, error) {
	convs, err := s.store.ListConversations(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		count, err := s.store.MessageCount(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ConversationSummary{
			ID:           conv.ID,
			Title:        conv.Title,
			Summary:      conv.Summary,
			CreatedAt:    conv.CreatedAt,
			MessageCount: count,
		})
	}
	return summaries, nil
}

func (s *Service) ConversationMessages(ctx context.Context, conversationID int64) ([]MessageView, error) {
	msgs, err := s.store.MessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, MessageView{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}
	return views, nil
}

func (s *Service) UserHistory(ctx context.Context, userID int64, limit int) ([]ConversationHistory, error) {
	convs, err := s.store.ListConversations(ctx, userID, 0, limit)
	if err != nil {
		return nil, err
	}

	history := make([]ConversationHistory, 0, len(convs))
	for _, conv := range convs {
		msgs, err := s.ConversationMessages(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		history = append(history, ConversationHistory{
			ConversationID: conv.ID,
			Title:          conv.Title,
			Messages:       msgs,
		})
	}
	return history, nil
}

func (s *Service) DeleteConversation(ctx context.Context, conversationID int64) (bool, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return false, err
	}
	if conv == nil {
		return false, nil
	}
	if err = s.store.DeleteConversation(ctx, conversationID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) UpdateTitle(ctx context.Context, conversationID int64, title string) (bool, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return false, err
	}
	if conv == nil {
		return false, nil
	}
	if err = s.store.UpdateConversationTitle(ctx, conversationID, title); err != nil {
		return false, err
	}
	return true, nil
}

// Summarize produces a naive first/last-message digest of a conversation.
func (s *Service) Summarize(ctx context.Context, conversationID int64) (string, error) {
	msgs, err := s.store.MessagesByConversation(ctx, conversationID)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "No messages in this conversation.", nil
	}

	first := truncate(msgs[0].Content, 100)
	last := truncate(msgs[len(msgs)-1].Content, 100)
	return fmt.Sprintf("The conversation starts with: %q and ends with: %q", first, last), nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
