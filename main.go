package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ChatBoxAI/app/chat"
	"ChatBoxAI/app/clients"
	"ChatBoxAI/app/rag"
	"ChatBoxAI/app/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("📂 No .env file found, relying on environment")
	}

	cfg := getConfig()

	db := getDB()
	defer db.Close()

	vectors := getVectors(cfg.Vectors)
	defer vectors.Close()

	ctx := context.Background()
	if err := vectors.Init(ctx, cfg.Vectors.Dimension); err != nil {
		log.Fatalf("🚨 Error initializing vector index: %v", err)
	}

	model := getModel(cfg.LLM)
	embedder := rag.NewEmbedder(model, cfg.Vectors.Dimension)
	ragClient := rag.NewClient(db, embedder, vectors, cfg.Ingestion.MaxChunkSize)
	chatSvc := chat.NewService(db, model, ragClient, cfg.Ingestion.TopK)

	registry := clients.NewRegistry()
	for _, client := range getClients(cfg.Clients) {
		registry.Register(client, chatSvc)
	}
	defer registry.CloseAll()

	srv := server.New(cfg.Server, chatSvc, ragClient, db)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("✅ Server listening on port %d", cfg.Server.Port)
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("🚨 Server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("♻️ Received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ Error during shutdown: %v", err)
		}
	}
}
