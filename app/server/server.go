package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"ChatBoxAI/app/chat"
	"ChatBoxAI/app/configs"
	"ChatBoxAI/app/rag"
	"ChatBoxAI/app/storage"
)

type Server struct {
	httpServer     *http.Server
	chat           *chat.Service
	rag            rag.Interface
	store          storage.Interface
	validate       *validator.Validate
	allowedOrigins []string
}

func New(cfg configs.ServerConfig, chatSvc *chat.Service, ragClient rag.Interface, store storage.Interface) *Server {
	s := &Server{
		chat:           chatSvc,
		rag:            ragClient,
		store:          store,
		validate:       validator.New(),
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/chat/history/{userID}", s.handleChatHistory)
	mux.HandleFunc("POST /api/documents/ingest", s.handleIngestDocument)
	mux.HandleFunc("POST /api/documents/ingest-url", s.handleIngestURL)
	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("GET /api/documents/tree", s.handleDocumentTree)
	mux.HandleFunc("GET /api/documents/stats", s.handleDocumentStats)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /api/conversations/{userID}", s.handleListConversations)
	mux.HandleFunc("GET /api/conversations/{id}/messages", s.handleConversationMessages)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.handleDeleteConversation)
	mux.HandleFunc("PUT /api/conversations/{id}/title", s.handleUpdateTitle)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.withCORS(mux),
	}

	return s
}

// Handler exposes the routed handler, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := "*"
	if len(s.allowedOrigins) > 0 {
		origin = s.allowedOrigins[0]
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
