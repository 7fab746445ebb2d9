package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"ChatBoxAI/app/configs"
	"ChatBoxAI/app/restclient"
)

const (
	endpoint          = "/v1/chat/completions"
	embeddingEndpoint = "/v1/embeddings"
)

var _ Interface = &LLMClient{}

type LLMClient struct {
	restClient      restclient.Interface
	cache           sync.Map
	model           string
	embeddingsModel string
	temperature     float64
	maxTokens       int
}

func NewLLMClient(cfg configs.LLMConfig) *LLMClient {
	return &LLMClient{
		restClient:      restclient.NewRestClient(cfg.BaseURL, nil),
		model:           cfg.Model,
		embeddingsModel: cfg.EmbeddingsModel,
		temperature:     cfg.Temperature,
		maxTokens:       cfg.MaxTokens,
	}
}

func (mc *LLMClient) Generate(ctx context.Context, messages []Message) (*Completion, error) {
	payload := requestPayload{
		Model:       mc.model,
		Messages:    messages,
		Temperature: mc.temperature,
		MaxTokens:   mc.maxTokens,
	}

	response, err := mc.sendRequestAndParse(ctx, payload, 3)
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("empty LLM response")
	}

	return &Completion{
		Content:    response.Choices[0].Message.Content,
		TokensUsed: response.Usage.TotalTokens,
	}, nil
}

func (mc *LLMClient) sendRequestAndParse(ctx context.Context, payload requestPayload, maxRetries int) (*ResponseLLM, error) {
	var err error
	var response []byte
	var status int
	var generatedResponse ResponseLLM

	for i := 0; i < maxRetries; i++ {
		select {
		case <-ctx.Done():
			log.Println("🚨 Request canceled before execution")
			return nil, ctx.Err()
		default:
			if err != nil {
				time.Sleep(time.Duration(math.Pow(2, float64(i))) * 100 * time.Millisecond)
			}
			response, status, err = mc.restClient.Post(ctx, endpoint, payload, nil)
			if err != nil {
				log.Printf("⚠️ Attempt %d failed: HTTP %d | Error: %v", i+1, status, err)
				continue
			}

			if err = json.Unmarshal(response, &generatedResponse); err != nil {
				log.Printf("⚠️ Error parsing response: %v", err)
				continue
			}

			return &generatedResponse, nil
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
}
