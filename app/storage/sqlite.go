package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

var _ Interface = &SQLiteStorage{}

type SQLiteStorage struct {
	db *sql.DB
}

func DefaultDBPath() string {
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		return dbPath
	}
	projectDir, err := os.Getwd()
	if err != nil {
		log.Fatalf("❌ Error getting project directory: %v", err)
	}
	defaultPath := filepath.Join(projectDir, "data", "chatbox.db")
	if err := os.MkdirAll(filepath.Dir(defaultPath), os.ModePerm); err != nil {
		log.Fatalf("❌ Error creating data directory: %v", err)
	}
	log.Printf("📂 DB_PATH not set, using default: %s", defaultPath)
	return defaultPath
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db at %s: %w", dbPath, err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS documents (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            content TEXT NOT NULL,
            source TEXT NOT NULL,
            file_path TEXT NOT NULL DEFAULT '',
            document_type TEXT NOT NULL DEFAULT '',
            chunk_index INTEGER NOT NULL DEFAULT 0,
            embedding_id TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_documents_source ON documents (source);
        CREATE TABLE IF NOT EXISTS conversations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            summary TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations (user_id);
        CREATE TABLE IF NOT EXISTS messages (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            conversation_id INTEGER NOT NULL,
            role TEXT NOT NULL,
            content TEXT NOT NULL,
            tokens_used INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (conversation_id);
    `)
	if err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) SaveChunk(ctx context.Context, doc Document) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (title, content, source, file_path, document_type, chunk_index, embedding_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))`,
		doc.Title, doc.Content, doc.Source, doc.FilePath, doc.DocumentType, doc.ChunkIndex, doc.EmbeddingID,
	)
	if err != nil {
		log.Printf("⚠️ Error saving chunk %d of %s: %v", doc.ChunkIndex, doc.Source, err)
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStorage) SetEmbeddingID(ctx context.Context, id int64, embeddingID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE documents SET embedding_id = ? WHERE id = ?`, embeddingID, id)
	return err
}

func (s *SQLiteStorage) GetChunk(ctx context.Context, id int64) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, source, file_path, document_type, chunk_index, embedding_id, created_at
		 FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context, skip, limit int) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, source, file_path, document_type, chunk_index, embedding_id, created_at
		 FROM documents ORDER BY id ASC LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (s *SQLiteStorage) ChunksBySource(ctx context.Context, source string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, source, file_path, document_type, chunk_index, embedding_id, created_at
		 FROM documents WHERE source = ? ORDER BY chunk_index ASC`, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (s *SQLiteStorage) DeleteBySource(ctx context.Context, source string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("delete chunks of %s: %w", source, err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStorage) DocumentStats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_type, COUNT(*) FROM documents GROUP BY document_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var docType string
		var count int
		if err = rows.Scan(&docType, &count); err != nil {
			return nil, err
		}
		stats[docType] = count
	}
	return stats, rows.Err()
}

func (s *SQLiteStorage) CreateConversation(ctx context.Context, userID int64, title string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (user_id, title, created_at) VALUES (?, ?, datetime('now'))`,
		userID, title)
	if err != nil {
		log.Printf("⚠️ Error creating conversation for user %d: %v", userID, err)
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStorage) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	var conv Conversation
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, summary, created_at FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.Summary, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	conv.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &conv, nil
}

func (s *SQLiteStorage) ListConversations(ctx context.Context, userID int64, skip, limit int) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, summary, created_at FROM conversations
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var conv Conversation
		var createdAt string
		if err = rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.Summary, &createdAt); err != nil {
			log.Printf("⚠️ Error scanning conversation for user %d: %v", userID, err)
			continue
		}
		conv.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

func (s *SQLiteStorage) MessageCount(ctx context.Context, conversationID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID,
	).Scan(&count)
	return count, err
}

func (s *SQLiteStorage) SaveMessage(ctx context.Context, msg Message) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, tokens_used, created_at)
		 VALUES (?, ?, ?, ?, datetime('now'))`,
		msg.ConversationID, msg.Role, msg.Content, msg.TokensUsed)
	if err != nil {
		log.Printf("⚠️ Error saving %s message in conversation %d: %v", msg.Role, msg.ConversationID, err)
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStorage) MessagesByConversation(ctx context.Context, conversationID int64) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, tokens_used, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY id ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var msg Message
		var createdAt string
		if err = rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.TokensUsed, &createdAt); err != nil {
			log.Printf("⚠️ Error scanning message in conversation %d: %v", conversationID, err)
			continue
		}
		msg.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStorage) DeleteConversation(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("delete messages of conversation %d: %w", id, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete conversation %d: %w", id, err)
	}
	return tx.Commit()
}

func (s *SQLiteStorage) UpdateConversationTitle(ctx context.Context, id int64, title string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE conversations SET title = ? WHERE id = ?`, title, id)
	return err
}

func scanDocument(scan func(...any) error) (*Document, error) {
	var doc Document
	var createdAt string
	err := scan(&doc.ID, &doc.Title, &doc.Content, &doc.Source, &doc.FilePath,
		&doc.DocumentType, &doc.ChunkIndex, &doc.EmbeddingID, &createdAt)
	if err != nil {
		return nil, err
	}
	doc.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &doc, nil
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			log.Printf("⚠️ Error scanning document row: %v", err)
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}
