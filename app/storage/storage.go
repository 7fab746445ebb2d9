package storage

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Document is one stored chunk of an ingested document. Chunks belonging to
// the same original document share Source and carry contiguous ChunkIndex
// values starting at 0.
type Document struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Content      string    `json:"content" db:"content"`
	Source       string    `json:"source" db:"source"`
	FilePath     string    `json:"file_path" db:"file_path"`
	DocumentType string    `json:"document_type" db:"document_type"`
	ChunkIndex   int       `json:"chunk_index" db:"chunk_index"`
	EmbeddingID  string    `json:"embedding_id" db:"embedding_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Conversation struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Summary   string    `json:"summary" db:"summary"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Message struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID int64     `json:"conversation_id" db:"conversation_id"`
	Role           string    `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	TokensUsed     int       `json:"tokens_used" db:"tokens_used"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
