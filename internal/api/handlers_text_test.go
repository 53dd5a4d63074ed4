package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgallion1/bookprep/internal/config"
	"github.com/dgallion1/bookprep/internal/pipeline"
	"github.com/dgallion1/bookprep/internal/readability"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		Port:                "0",
		BookprepAPIKey:      "test-key",
		MaxQueueSize:        10,
		MaxUploadBytes:      1 << 20,
		DefaultChunkSize:    8000,
		DefaultChunkOverlap: 500,
		JobTTL:              0,
	}
	log := slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError}))
	orch := pipeline.NewOrchestrator(cfg, nil, log)
	return NewServer(orch, nil, log, cfg)
}

func doJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-key")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_MissingKey(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/readability", strings.NewReader(`{"text":"x"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_WrongKey(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/readability", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestReadabilityEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "/api/readability", `{"text":"# Title\n\nA short clean line."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report struct {
		Score int `json:"score"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.Score != 100 {
		t.Errorf("expected score 100 for clean text, got %d", report.Score)
	}
}

func TestPreprocessEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "/api/preprocess", `{"text":"hello   world  \n"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Text        string `json:"text"`
		Readability struct {
			Delta int `json:"delta"`
		} `json:"readability"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if strings.Contains(resp.Text, "   ") {
		t.Errorf("expected collapsed spaces, got %q", resp.Text)
	}
	if want := readability.Delta("hello   world  \n", resp.Text); resp.Readability.Delta != want {
		t.Errorf("expected delta %d, got %d", want, resp.Readability.Delta)
	}
}

func TestPreprocessEndpoint_DisabledPass(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "/api/preprocess", `{"text":"a   b","normalize_whitespace":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != "a   b" {
		t.Errorf("expected whitespace untouched, got %q", resp.Text)
	}
}

func TestChaptersEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "/api/chapters", `{"text":"第一章 开始\n\ncontent one\n\n第二章 继续\n\ncontent two"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("expected 2 chapters, got %d", resp.Count)
	}
}

func TestChaptersEndpoint_BadMode(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "/api/chapters", `{"text":"x","mode":"magic"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTOCEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "/api/toc", `{"text":"# One\n\ntext\n\n## Two\n\nmore"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count   int `json:"count"`
		Entries []struct {
			ID       string `json:"id"`
			Position int    `json:"position"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 entries, got %d", resp.Count)
	}
	if resp.Entries[0].Position != 1 {
		t.Errorf("expected first entry at line 1, got %d", resp.Entries[0].Position)
	}
}

func TestLLMStats_Unavailable(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
