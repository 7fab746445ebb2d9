package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChatBoxAI/app/chat"
	"ChatBoxAI/app/configs"
	"ChatBoxAI/app/models"
	"ChatBoxAI/app/rag"
	"ChatBoxAI/app/storage"
)

const testDimension = 8

type stubModel struct{}

func (s *stubModel) Generate(_ context.Context, _ []models.Message) (*models.Completion, error) {
	return &models.Completion{Content: "stub answer", TokensUsed: 10}, nil
}

func (s *stubModel) EmbedText(_ context.Context, input string) ([]float32, error) {
	vec := make([]float32, testDimension)
	for i, b := range []byte(input) {
		vec[i%testDimension] += float32(b%23) / 23
	}
	return vec, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	vectors := rag.NewMemoryStore()
	require.NoError(t, vectors.Init(context.Background(), testDimension))

	model := &stubModel{}
	ragClient := rag.NewClient(store, rag.NewEmbedder(model, testDimension), vectors, 1000)
	chatSvc := chat.NewService(store, model, ragClient, 3)

	s := New(configs.ServerConfig{Port: 8000}, chatSvc, ragClient, store)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func uploadFile(t *testing.T, url, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/documents/ingest", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestChatEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/chat", ChatRequest{UserID: 1, Message: "hello"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var chatResp ChatResponse
	decodeBody(t, resp, &chatResp)
	assert.Equal(t, "stub answer", chatResp.Answer)
	assert.NotZero(t, chatResp.ConversationID)
	assert.NotNil(t, chatResp.Sources)
	assert.Equal(t, 10, chatResp.TokensUsed)
}

func TestChatValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/chat", map[string]any{"message": "no user"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/chat", map[string]any{"user_id": 1})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatUnknownConversation(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/chat", ChatRequest{UserID: 1, Message: "hi", ConversationID: 777})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func ingestTestDocument(t *testing.T, ts *httptest.Server) map[string]any {
	t.Helper()
	sentence := strings.Repeat("a", 79) + "."
	resp := uploadFile(t, ts.URL, "notes.txt", strings.Repeat(sentence, 30))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	return body
}

func TestIngestDocument(t *testing.T) {
	ts := newTestServer(t)
	body := ingestTestDocument(t, ts)
	assert.EqualValues(t, 3, body["chunks_created"])
	assert.EqualValues(t, 3, body["total_chunks"])
	assert.NotZero(t, body["document_id"])
}

func TestIngestRejectsUnsupportedExtension(t *testing.T) {
	ts := newTestServer(t)
	resp := uploadFile(t, ts.URL, "image.png", "binary")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIngestURLValidation(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/documents/ingest-url", map[string]string{"url": "not a url"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListDocumentsAndTree(t *testing.T) {
	ts := newTestServer(t)
	ingestTestDocument(t, ts)

	resp, err := http.Get(ts.URL + "/api/documents")
	require.NoError(t, err)
	var docs []DocumentResponse
	decodeBody(t, resp, &docs)
	require.Len(t, docs, 3)
	assert.Equal(t, "notes.txt", docs[0].Source)
	assert.Equal(t, "txt", docs[0].DocumentType)

	resp, err = http.Get(ts.URL + "/api/documents/tree")
	require.NoError(t, err)
	defer resp.Body.Close()
	tree, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(tree), "notes.txt")
	assert.Contains(t, string(tree), "chunk 0")
}

func TestDocumentStats(t *testing.T) {
	ts := newTestServer(t)
	ingestTestDocument(t, ts)

	resp, err := http.Get(ts.URL + "/api/documents/stats")
	require.NoError(t, err)
	var stats map[string]any
	decodeBody(t, resp, &stats)
	assert.EqualValues(t, 3, stats["vector_entries"])
}

func TestDeleteDocument(t *testing.T) {
	ts := newTestServer(t)
	body := ingestTestDocument(t, ts)
	docID := int64(body["document_id"].(float64))

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/documents/%d", ts.URL, docID), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConversationEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/chat", ChatRequest{UserID: 5, Message: "start a conversation"})
	var chatResp ChatResponse
	decodeBody(t, resp, &chatResp)

	resp, err := http.Get(fmt.Sprintf("%s/api/conversations/%d", ts.URL, 5))
	require.NoError(t, err)
	var convs []chat.ConversationSummary
	decodeBody(t, resp, &convs)
	require.Len(t, convs, 1)
	assert.Equal(t, 2, convs[0].MessageCount)

	resp, err = http.Get(fmt.Sprintf("%s/api/conversations/%d/messages", ts.URL, chatResp.ConversationID))
	require.NoError(t, err)
	var msgs []chat.MessageView
	decodeBody(t, resp, &msgs)
	require.Len(t, msgs, 2)

	resp, err = http.Get(fmt.Sprintf("%s/api/chat/history/%d", ts.URL, 5))
	require.NoError(t, err)
	var history map[string][]chat.ConversationHistory
	decodeBody(t, resp, &history)
	require.Len(t, history["history"], 1)

	titleBody, _ := json.Marshal(UpdateTitleRequest{Title: "renamed"})
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/conversations/%d/title", ts.URL, chatResp.ConversationID), bytes.NewReader(titleBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	titleResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	titleResp.Body.Close()
	assert.Equal(t, http.StatusOK, titleResp.StatusCode)

	delReq, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/conversations/%d", ts.URL, chatResp.ConversationID), nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	delResp, err = http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, delResp.StatusCode)
}
