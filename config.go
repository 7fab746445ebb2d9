package main

import (
	"errors"
	"log"
	"os"

	"ChatBoxAI/app/clients"
	"ChatBoxAI/app/configs"
	"ChatBoxAI/app/models"
	"ChatBoxAI/app/rag"
	"ChatBoxAI/app/storage"
)

const defaultConfigPath = "config.yaml"

func getConfig() *configs.Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := configs.LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️ No config file at %s, using defaults", path)
			return configs.Default()
		}
		log.Fatalf("🚨 Error loading config %s: %v", path, err)
	}
	if err = cfg.Validate(); err != nil {
		log.Fatalf("🚨 Invalid config %s: %v", path, err)
	}
	return cfg
}

func getDB() storage.Interface {
	store, err := storage.NewSQLiteStorage(storage.DefaultDBPath())
	if err != nil {
		log.Fatalf("🚨 Error opening database: %v", err)
	}
	return store
}

func getModel(cfg configs.LLMConfig) models.Interface {
	return models.NewLLMClient(cfg)
}

func getVectors(cfg configs.VectorConfig) rag.VectorStore {
	switch cfg.Backend {
	case "qdrant":
		store, err := rag.NewQdrantStore(cfg.Host, cfg.Port, cfg.Collection)
		if err != nil {
			log.Fatalf("🚨 Error connecting to qdrant at %s:%d: %v", cfg.Host, cfg.Port, err)
		}
		return store
	default:
		return rag.NewMemoryStore()
	}
}

func getClients(cfgs []configs.ClientConfig) []clients.Interface {
	var out []clients.Interface
	for _, cfg := range cfgs {
		if !cfg.Enabled {
			continue
		}
		client, err := clients.CreateClient(cfg)
		if err != nil {
			log.Printf("⚠️ Skipping client %s: %v", cfg.Type, err)
			continue
		}
		out = append(out, client)
	}
	return out
}
