package models

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/mock"

	"ChatBoxAI/app/configs"
	"ChatBoxAI/app/restclient"
)

func newTestClient(rc restclient.Interface) *LLMClient {
	c := NewLLMClient(configs.LLMConfig{
		BaseURL:         "http://localhost:1234",
		Model:           "test-model",
		EmbeddingsModel: "test-embeddings",
		MaxTokens:       500,
		Temperature:     0.2,
	})
	c.restClient = rc
	return c
}

func TestGenerate(t *testing.T) {
	rc := &restclient.MockRestClient{}
	body := []byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"hi there"}}],"usage":{"total_tokens":42}}`)
	rc.On("Post", mock.Anything, endpoint, mock.Anything, mock.Anything).Return(body, 200, nil)

	c := newTestClient(rc)
	completion, err := c.Generate(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", completion.Content)
	assert.Equal(t, 42, completion.TokensUsed)
}

func TestGenerateEmptyChoices(t *testing.T) {
	rc := &restclient.MockRestClient{}
	rc.On("Post", mock.Anything, endpoint, mock.Anything, mock.Anything).Return([]byte(`{"choices":[]}`), 200, nil)

	c := newTestClient(rc)
	_, err := c.Generate(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
}

func TestGenerateRetriesExhausted(t *testing.T) {
	rc := &restclient.MockRestClient{}
	rc.On("Post", mock.Anything, endpoint, mock.Anything, mock.Anything).Return([]byte(nil), 500, errors.New("down"))

	c := newTestClient(rc)
	_, err := c.Generate(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	rc.AssertNumberOfCalls(t, "Post", 3)
}

func TestEmbedText(t *testing.T) {
	rc := &restclient.MockRestClient{}
	body := []byte(`{"object":"list","data":[{"embedding":[0.1,0.2,0.3]}]}`)
	rc.On("Post", mock.Anything, embeddingEndpoint, mock.Anything, mock.Anything).Return(body, 200, nil)

	c := newTestClient(rc)
	emb, err := c.EmbedText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, emb)

	// second call is served from cache
	emb, err = c.EmbedText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, emb, 3)
	rc.AssertNumberOfCalls(t, "Post", 1)
}

func TestEmbedTextNoModel(t *testing.T) {
	c := newTestClient(&restclient.MockRestClient{})
	c.embeddingsModel = ""
	_, err := c.EmbedText(context.Background(), "hello")
	require.Error(t, err)
}

func TestEmbedTextEmptyData(t *testing.T) {
	rc := &restclient.MockRestClient{}
	rc.On("Post", mock.Anything, embeddingEndpoint, mock.Anything, mock.Anything).Return([]byte(`{"data":[]}`), 200, nil)

	c := newTestClient(rc)
	_, err := c.EmbedText(context.Background(), "hello")
	require.Error(t, err)
}
