package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dgallion1/bookprep/internal/analysis"
)

// ChunkRequest carries one chunk to the collaborator, with positional hints
// so the model reports chunk-relative line numbers consistently.
type ChunkRequest struct {
	Text       string
	ChunkIndex int
	ChunkCount int
	BaseLine   int // absolute line the chunk starts at, informational only
}

// Collaborator analyzes one chunk of manuscript text. Implementations must
// return chunk-relative positions; rebasing is the merger's job.
type Collaborator interface {
	AnalyzeChunk(ctx context.Context, req ChunkRequest) (analysis.Fragment, error)
}

// ClaudeClient calls the Anthropic Messages API for structural analysis.
type ClaudeClient struct {
	apiKey     string
	model      string
	httpClient *http.Client

	// Stats collects call latencies for the /api/stats/llm endpoint.
	Stats *LLMStats
}

func NewClaudeClient(apiKey, model string) *ClaudeClient {
	return &ClaudeClient{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		Stats: NewLLMStats(time.Hour),
	}
}

// Model returns the configured model identifier.
func (c *ClaudeClient) Model() string { return c.model }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeChunk sends one chunk and decodes the fragment the model returns.
func (c *ClaudeClient) AnalyzeChunk(ctx context.Context, req ChunkRequest) (analysis.Fragment, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []anthropicMessage{
			{Role: "user", Content: BuildChunkPrompt(req)},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return analysis.Fragment{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(body))
	if err != nil {
		return analysis.Fragment{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return analysis.Fragment{}, fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()
	if c.Stats != nil {
		c.Stats.Record(time.Since(start).Milliseconds())
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return analysis.Fragment{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return analysis.Fragment{}, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return analysis.Fragment{}, fmt.Errorf("claude api status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return analysis.Fragment{}, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return analysis.Fragment{}, fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return analysis.Fragment{}, fmt.Errorf("empty response from claude")
	}

	return DecodeFragment(apiResp.Content[0].Text)
}

// DecodeFragment parses the model's JSON text into a sanitized fragment.
func DecodeFragment(text string) (analysis.Fragment, error) {
	text = stripCodeBlock(text)
	var frag analysis.Fragment
	if err := json.Unmarshal([]byte(text), &frag); err != nil {
		return analysis.Fragment{}, fmt.Errorf("parse fragment json: %w (raw: %s)", err, truncate(text, 200))
	}
	SanitizeFragment(&frag)
	return frag, nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Close releases resources.
func (c *ClaudeClient) Close() {
	c.httpClient.CloseIdleConnections()
}
