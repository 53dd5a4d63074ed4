package api

import (
	"encoding/json"
	"net/http"
)

// handleLLMStats reports rolling latency percentiles for collaborator
// calls. Returns 503 when the server runs without a Claude client, e.g.
// in handler tests.
func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.claude == nil || s.claude.Stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.claude.Model(),
		"stats": s.claude.Stats.Snapshot(),
	})
}
