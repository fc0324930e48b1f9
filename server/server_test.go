package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/docrag/ai/mock"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/ingestion"
	"github.com/poiesic/docrag/search"
	"github.com/poiesic/docrag/sentiment"
	"github.com/poiesic/docrag/storage/badger"
	"github.com/poiesic/docrag/storage/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	stores *badger.MemoryStores
	server *Server
}

func setupServer(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(stores.Close)

	blobs, err := blob.NewDir(t.TempDir())
	require.NoError(t, err)

	provider := mock.NewMockProvider()

	coordinator, err := ingestion.NewCoordinator(stores.Submit, blobs)
	require.NoError(t, err)

	orchestrator, err := search.NewOrchestrator(stores.Chunks, provider)
	require.NoError(t, err)

	analyzer, err := sentiment.NewAnalyzer(provider.SentimentClassifier(), "mock-model")
	require.NoError(t, err)

	return &serverFixture{
		stores: stores,
		server: NewServer(coordinator, stores.Documents, orchestrator, analyzer),
	}
}

func (f *serverFixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartUpload(t *testing.T, filename string, contents []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(contents)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServer_Health(t *testing.T) {
	f := setupServer(t)

	w := f.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_UploadSubmitsDocument(t *testing.T) {
	f := setupServer(t)

	w := f.do(t, multipartUpload(t, "report.pdf", []byte("contents")))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status   string `json:"status"`
		DocId    uint64 `json:"doc_id"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.NotZero(t, resp.DocId)
	assert.Equal(t, "report.pdf", resp.Filename)

	// The document is recorded pending and its job is queued
	doc, err := f.stores.Documents.GetDocument(context.Background(), core.ID(resp.DocId))
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, doc.Status)

	n, err := f.stores.Queue.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestServer_UploadMissingFile(t *testing.T) {
	f := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	w := f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ListDocumentsNewestFirst(t *testing.T) {
	f := setupServer(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	for i, name := range []string{"first.pdf", "second.pdf"} {
		_, err := f.stores.Documents.AddDocument(ctx, &core.Document{
			Filename:   name,
			StorageKey: name + "_key",
			UploadedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	w := f.do(t, httptest.NewRequest(http.MethodGet, "/documents", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var docs []struct {
		Id     uint64 `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
		Date   string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "second.pdf", docs[0].Name)
	assert.Equal(t, "first.pdf", docs[1].Name)
	assert.Equal(t, "pending", docs[0].Status)
	assert.Equal(t, "2025-03-01 10:30", docs[0].Date)
}

func TestServer_SearchValidation(t *testing.T) {
	f := setupServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "missing query", body: `{"top_k": 3}`, code: http.StatusBadRequest},
		{name: "empty query", body: `{"query": ""}`, code: http.StatusBadRequest},
		{name: "top_k too large", body: `{"query": "q", "top_k": 11}`, code: http.StatusBadRequest},
		{name: "top_k negative", body: `{"query": "q", "top_k": -1}`, code: http.StatusBadRequest},
		{name: "top_k omitted", body: `{"query": "q"}`, code: http.StatusOK},
		{name: "top_k at bounds", body: `{"query": "q", "top_k": 10}`, code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, postJSON(t, "/search", tt.body))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestServer_SearchEmptyStore(t *testing.T) {
	f := setupServer(t)

	w := f.do(t, postJSON(t, "/search", `{"query": "what is the revenue?"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var answer core.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &answer))
	assert.Equal(t, search.NoAnswerText, answer.Text)
	assert.Empty(t, answer.Sources)
}

func TestServer_Sentiment(t *testing.T) {
	f := setupServer(t)

	w := f.do(t, postJSON(t, "/sentiment", `{"text": "I love this product"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var report sentiment.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "Bullish (Positive)", report.Sentiment)
	assert.Equal(t, "mock-model", report.Model)
	assert.Equal(t, "I love this product", report.Snippet)
}

func TestServer_SentimentValidation(t *testing.T) {
	f := setupServer(t)

	w := f.do(t, postJSON(t, "/sentiment", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, postJSON(t, "/sentiment", `{"text": ""}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
