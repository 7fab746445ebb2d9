package configs

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	Vectors   VectorConfig    `yaml:"vectors"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Clients   []ClientConfig  `yaml:"clients,omitempty"`
}

type ServerConfig struct {
	Port           int      `yaml:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

type LLMConfig struct {
	BaseURL         string  `yaml:"base_url" validate:"required,url"`
	Model           string  `yaml:"model" validate:"required"`
	EmbeddingsModel string  `yaml:"embeddings_model" validate:"required"`
	MaxTokens       int     `yaml:"max_tokens"`
	Temperature     float64 `yaml:"temperature" validate:"min=0,max=2"`
}

type VectorConfig struct {
	Backend    string `yaml:"backend" validate:"oneof=memory qdrant"`
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection" validate:"required"`
	Dimension  int    `yaml:"dimension" validate:"min=1"`
}

type IngestionConfig struct {
	MaxChunkSize int `yaml:"max_chunk_size" validate:"min=1"`
	TopK         int `yaml:"top_k" validate:"min=1"`
}

// ClientConfig defines the configuration for a chat client connector
type ClientConfig struct {
	Type    string            `yaml:"type" json:"type"`
	Enabled bool              `yaml:"enabled" json:"enabled"`
	Config  map[string]string `yaml:"config,omitempty" json:"config,omitempty"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8000},
		LLM: LLMConfig{
			BaseURL:         "http://localhost:1234",
			Model:           "openai/gpt-oss-20b",
			EmbeddingsModel: "text-embedding-nomic-embed-text-v1.5",
			MaxTokens:       500,
			Temperature:     0.2,
		},
		Vectors: VectorConfig{
			Backend:    "memory",
			Host:       "localhost",
			Port:       6334,
			Collection: "documents",
			Dimension:  1536,
		},
		Ingestion: IngestionConfig{
			MaxChunkSize: 1000,
			TopK:         3,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configs file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configs: %w", err)
	}
	return nil
}
