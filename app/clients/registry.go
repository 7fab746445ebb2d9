package clients

import (
	"fmt"
	"log"
	"sync"

	"ChatBoxAI/app/chat"
	"ChatBoxAI/app/configs"
)

type Registry struct {
	mu      sync.RWMutex
	clients []Interface
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make([]Interface, 0),
	}
}

func (r *Registry) Register(client Interface, svc *chat.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients = append(r.clients, client)
	client.Subscribe(svc)
}

func (r *Registry) GetAll() []Interface {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Interface, len(r.clients))
	copy(result, r.clients)
	return result
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, client := range r.clients {
		if closer, ok := client.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Printf("⚠️ Error closing client: %v\n", err)
			}
		}
	}
	r.clients = make([]Interface, 0)
}

func CreateClient(cfg configs.ClientConfig) (Interface, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("client %s is disabled", cfg.Type)
	}

	switch cfg.Type {
	case "discord":
		return NewDiscordClientFromConfig(cfg.Config)
	default:
		return nil, fmt.Errorf("unknown client type: %s", cfg.Type)
	}
}
