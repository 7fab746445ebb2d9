package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/xlab/treeprint"

	"ChatBoxAI/app/chat"
	"ChatBoxAI/app/rag"
)

const maxUploadSize = 32 << 20

type ChatRequest struct {
	UserID         int64  `json:"user_id" validate:"required"`
	Message        string `json:"message" validate:"required"`
	ConversationID int64  `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	Answer         string   `json:"answer"`
	ConversationID int64    `json:"conversation_id"`
	MessageID      int64    `json:"message_id"`
	Sources        []string `json:"sources"`
	TokensUsed     int      `json:"tokens_used"`
	Degraded       bool     `json:"degraded,omitempty"`
}

type IngestURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required"`
}

type DocumentResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Source       string    `json:"source"`
	DocumentType string    `json:"document_type"`
	CreatedAt    time.Time `json:"created_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ Error encoding response: %v", err)
	}
}

// writeError reports operator-safe messages only; internal causes stay in logs.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

func (s *Server) decodeAndValidate(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", err)
	}
	return s.validate.Struct(v)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return fallback
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.PathValue(key), 10, 64)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "user_id and message are required")
		return
	}

	outcome, err := s.chat.Respond(r.Context(), req.UserID, req.Message, req.ConversationID)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		log.Printf("❌ Chat request failed for user %d: %v", req.UserID, err)
		writeError(w, http.StatusInternalServerError, "Chat error")
		return
	}

	sources := outcome.Sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:         outcome.Answer,
		ConversationID: outcome.ConversationID,
		MessageID:      outcome.MessageID,
		Sources:        sources,
		TokensUsed:     outcome.TokensUsed,
		Degraded:       outcome.Degraded,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	history, err := s.chat.UserHistory(r.Context(), userID, queryInt(r, "limit", 50))
	if err != nil {
		log.Printf("❌ Error fetching history for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Error fetching history")
		return
	}
	if history == nil {
		history = []chat.ConversationHistory{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (s *Server) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "malformed upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !rag.SupportedExtension(header.Filename) {
		writeError(w, http.StatusBadRequest, "Only .txt, .md, and .pdf files are supported")
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload")
		return
	}

	result, err := s.rag.Ingest(r.Context(), header.Filename, content)
	if err != nil {
		log.Printf("❌ Ingestion of %s failed: %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, "Ingestion error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Document ingested successfully",
		"document_id":    result.DocumentID,
		"chunks_created": result.ChunksCreated,
		"total_chunks":   result.TotalChunks,
	})
}

func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req IngestURLRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "a valid url is required")
		return
	}

	result, err := s.rag.IngestURL(r.Context(), req.URL)
	if err != nil {
		log.Printf("❌ Ingestion of %s failed: %v", req.URL, err)
		writeError(w, http.StatusInternalServerError, "Ingestion error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Document ingested successfully",
		"document_id":    result.DocumentID,
		"chunks_created": result.ChunksCreated,
		"total_chunks":   result.TotalChunks,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context(), queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		log.Printf("❌ Error listing documents: %v", err)
		writeError(w, http.StatusInternalServerError, "Error listing documents")
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, DocumentResponse{
			ID:           doc.ID,
			Title:        doc.Title,
			Source:       doc.Source,
			DocumentType: doc.DocumentType,
			CreatedAt:    doc.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDocumentTree(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context(), 0, 10000)
	if err != nil {
		log.Printf("❌ Error listing documents: %v", err)
		writeError(w, http.StatusInternalServerError, "Error listing documents")
		return
	}

	tree := treeprint.NewWithRoot("documents")
	branches := make(map[string]treeprint.Tree)
	for _, doc := range docs {
		branch, ok := branches[doc.Source]
		if !ok {
			branch = tree.AddBranch(doc.Source)
			branches[doc.Source] = branch
		}
		status := "indexed"
		if doc.EmbeddingID == "" {
			status = "not indexed"
		}
		branch.AddNode(fmt.Sprintf("chunk %d (%d chars, %s)", doc.ChunkIndex, len(doc.Content), status))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(tree.String()))
}

func (s *Server) handleDocumentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.DocumentStats(r.Context())
	if err != nil {
		log.Printf("❌ Error collecting document stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Error collecting stats")
		return
	}

	vectorCount, err := s.rag.IndexCount(r.Context())
	if err != nil {
		log.Printf("⚠️ Vector index unreachable for stats: %v", err)
		vectorCount = 0
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents_by_type": stats,
		"vector_entries":    vectorCount,
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	found, err := s.rag.DeleteDocument(r.Context(), id)
	if err != nil {
		log.Printf("❌ Error deleting document %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Error deleting document")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	convs, err := s.chat.UserConversations(r.Context(), userID, queryInt(r, "skip", 0), queryInt(r, "limit", 20))
	if err != nil {
		log.Printf("❌ Error fetching conversations for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Error fetching conversations")
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (s *Server) handleConversationMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	msgs, err := s.chat.ConversationMessages(r.Context(), id)
	if err != nil {
		log.Printf("❌ Error fetching messages for conversation %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Error fetching messages")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	found, err := s.chat.DeleteConversation(r.Context(), id)
	if err != nil {
		log.Printf("❌ Error deleting conversation %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Error deleting conversation")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted successfully"})
}

func (s *Server) handleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	var req UpdateTitleRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	found, err := s.chat.UpdateTitle(r.Context(), id, req.Title)
	if err != nil {
		log.Printf("❌ Error updating title of conversation %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Error updating title")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Title updated successfully"})
}
