package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/bookprep/internal/ai"
	"github.com/dgallion1/bookprep/internal/analysis"
	"github.com/dgallion1/bookprep/internal/chunker"
	"github.com/dgallion1/bookprep/internal/parser"
	"github.com/dgallion1/bookprep/internal/preprocess"
)

// ProgressFunc is invoked after each chunk completes with (current, total).
// It may be nil and must never influence the merge result.
type ProgressFunc func(current, total int)

// Worker processes a single manuscript analysis job.
type Worker struct {
	collab   ai.Collaborator
	log      *slog.Logger
	chunkCfg chunker.Config

	// requestDelay separates consecutive collaborator calls. Chunks are
	// analyzed strictly sequentially, never in parallel: the delay exists
	// to respect the collaborator's rate limit.
	requestDelay time.Duration

	// progress is an optional per-chunk callback, mainly for embedding the
	// worker outside the HTTP service.
	progress ProgressFunc
}

func NewWorker(collab ai.Collaborator, log *slog.Logger, chunkCfg chunker.Config, requestDelay time.Duration) *Worker {
	return &Worker{
		collab:       collab,
		log:          log,
		chunkCfg:     chunkCfg,
		requestDelay: requestDelay,
	}
}

// SetProgress installs an optional progress callback.
func (w *Worker) SetProgress(fn ProgressFunc) { w.progress = fn }

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse the uploaded manuscript into plain text.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	text := doc.Text
	if job.Title == "" && doc.Title != "" {
		job.Title = doc.Title
	}
	job.ContentHash = ContentHashHex([]byte(text))

	// Phase 2: Optional normalization before structural analysis.
	if job.Preprocess {
		job.SetStatus(StatusPreprocessing, "preprocessing")
		text = preprocess.Apply(text, job.PreprocessOptions())
	}

	// Phase 3: Chunk. Small documents skip chunk construction entirely and
	// go to the collaborator as one unit.
	job.SetStatus(StatusChunking, "chunking")
	if !chunker.NeedsChunking(text, w.chunkCfg) {
		job.SetTotalChunks(1)
		w.analyzeSingle(ctx, job, text, log)
		return
	}

	chunks := chunker.Split(text, w.chunkCfg)
	job.SetTotalChunks(len(chunks))
	log.Info("chunked manuscript", "chunks", len(chunks), "chars", len(text))

	// Phase 4: Analyze chunks strictly in sequence. One failed chunk
	// degrades to an empty fragment; it never aborts the rest.
	job.SetStatus(StatusAnalyzing, "analyzing")
	fragments := make([]analysis.Fragment, 0, len(chunks))
	failed := 0
	for i, chunk := range chunks {
		if i > 0 && w.requestDelay > 0 {
			select {
			case <-time.After(w.requestDelay):
			case <-ctx.Done():
				job.AddError(ctx.Err().Error())
				job.SetStatus(StatusFailed, "analyzing")
				return
			}
		}

		frag, err := w.analyzeWithRetry(ctx, ai.ChunkRequest{
			Text:       chunk.Content,
			ChunkIndex: chunk.Index,
			ChunkCount: len(chunks),
			BaseLine:   chunk.StartLine,
		}, log)
		if err != nil {
			log.Error("chunk analysis failed", "chunk", i, "error", err)
			job.AddError(fmt.Sprintf("chunk %d: %s", i, err))
			frag = analysis.EmptyFragment()
			failed++
		}
		fragments = append(fragments, frag)
		job.MarkChunk(err != nil)
		if w.progress != nil {
			w.progress(i+1, len(chunks))
		}
	}

	// Phase 5: Merge into the document-wide result.
	res := analysis.Merge(fragments, chunks)
	job.SetResult(res)
	log.Info("analysis merged",
		"toc_entries", len(res.TOC),
		"image_points", len(res.ImagePoints),
		"content_type", res.ContentType,
		"failed_chunks", failed,
	)

	switch {
	case failed == len(chunks):
		job.SetStatus(StatusFailed, "done")
	case failed > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// analyzeSingle handles the unchunked path for small documents.
func (w *Worker) analyzeSingle(ctx context.Context, job *Job, text string, log *slog.Logger) {
	job.SetStatus(StatusAnalyzing, "analyzing")
	frag, err := w.analyzeWithRetry(ctx, ai.ChunkRequest{
		Text:       text,
		ChunkIndex: 0,
		ChunkCount: 1,
	}, log)
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(err.Error())
		frag = analysis.EmptyFragment()
	}
	job.MarkChunk(err != nil)
	if w.progress != nil {
		w.progress(1, 1)
	}

	job.SetResult(analysis.Merge([]analysis.Fragment{frag}, nil))
	if err != nil {
		job.SetStatus(StatusFailed, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}

// analyzeWithRetry retries transient collaborator failures with jittered
// exponential backoff before giving up on the chunk.
func (w *Worker) analyzeWithRetry(ctx context.Context, req ai.ChunkRequest, log *slog.Logger) (analysis.Fragment, error) {
	var frag analysis.Fragment
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		frag, lastErr = w.collab.AnalyzeChunk(ctx, req)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable analysis error", "chunk", req.ChunkIndex, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return analysis.Fragment{}, ctx.Err()
		}
	}
	return frag, lastErr
}
