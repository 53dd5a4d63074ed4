package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/bookprep/internal/chapter"
	"github.com/dgallion1/bookprep/internal/preprocess"
	"github.com/dgallion1/bookprep/internal/readability"
	"github.com/dgallion1/bookprep/internal/toc"
)

// textRequest is the shared body for the synchronous text endpoints.
type textRequest struct {
	Text string `json:"text"`

	// Preprocess toggles; nil means pass enabled.
	NormalizeWhitespace  *bool `json:"normalize_whitespace,omitempty"`
	NormalizePunctuation *bool `json:"normalize_punctuation,omitempty"`
	WrapLongLines        *bool `json:"wrap_long_lines,omitempty"`
	FormatHeadings       *bool `json:"format_headings,omitempty"`

	// Chapter splitting mode: "heuristic" (default) or "markdown".
	Mode string `json:"mode,omitempty"`
}

func decodeTextRequest(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (req textRequest) options() preprocess.Options {
	opts := preprocess.DefaultOptions()
	if req.NormalizeWhitespace != nil {
		opts.NormalizeWhitespace = *req.NormalizeWhitespace
	}
	if req.NormalizePunctuation != nil {
		opts.NormalizePunctuation = *req.NormalizePunctuation
	}
	if req.WrapLongLines != nil {
		opts.WrapLongLines = *req.WrapLongLines
	}
	if req.FormatHeadings != nil {
		opts.FormatHeadings = *req.FormatHeadings
	}
	return opts
}

// handlePreprocess normalizes the text and reports the readability change.
func (s *Server) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTextRequest(w, r)
	if !ok {
		return
	}

	out := preprocess.Apply(req.Text, req.options())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"text": out,
		"readability": map[string]any{
			"before": readability.Analyze(req.Text),
			"after":  readability.Analyze(out),
			"delta":  readability.Delta(req.Text, out),
		},
	})
}

func (s *Server) handleReadability(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTextRequest(w, r)
	if !ok {
		return
	}

	report := readability.Analyze(req.Text)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTextRequest(w, r)
	if !ok {
		return
	}

	var chapters []chapter.Chapter
	switch req.Mode {
	case "", "heuristic":
		chapters = chapter.SplitHeuristic(req.Text)
	case "markdown":
		chapters = chapter.SplitMarkdown(req.Text)
	default:
		jsonError(w, "mode must be \"heuristic\" or \"markdown\"", http.StatusBadRequest)
		return
	}
	if chapters == nil {
		chapters = []chapter.Chapter{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"chapters": chapters,
		"count":    len(chapters),
	})
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTextRequest(w, r)
	if !ok {
		return
	}

	entries := toc.Extract(req.Text)
	if entries == nil {
		entries = []toc.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}
