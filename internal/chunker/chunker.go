package chunker

import "strings"

// Config controls chunking behavior. Sizes are in characters of source text.
type Config struct {
	ChunkSize int // Maximum characters per chunk.
	Overlap   int // Overlap budget carried into the next chunk, in characters.
}

// DefaultConfig returns sensible defaults for LLM-bounded analysis.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 8000,
		Overlap:   500,
	}
}

// assumedLineLen converts the overlap character budget into a line count.
// This is a documented heuristic, not an exact character-overlap contract:
// the overlap exists only to give the analyzer cross-chunk context.
const assumedLineLen = 50

// ContentChunk is a bounded, line-overlapping slice of a manuscript.
// StartLine and EndLine are absolute 0-based line offsets into the original
// document, including the overlap region at the front of the chunk.
type ContentChunk struct {
	Index     int    `json:"index"`
	Content   string `json:"content"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	IsFirst   bool   `json:"is_first"`
	IsLast    bool   `json:"is_last"`
}

// NeedsChunking reports whether text exceeds the single-chunk size limit.
// Documents at or under the limit are analyzed as one unchunked unit.
func NeedsChunking(text string, cfg Config) bool {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	return len(text) > cfg.ChunkSize
}

// Split divides text into ordered, overlapping chunks. Every line of the
// source appears in at least one chunk, chunk start lines are strictly
// increasing, and consecutive chunks share a trailing window of lines so the
// analyzer keeps context across the cut.
func Split(text string, cfg Config) []ContentChunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	if cfg.Overlap <= 0 {
		cfg.Overlap = DefaultConfig().Overlap
	}

	lines := strings.Split(text, "\n")

	var chunks []ContentChunk
	var buf []string
	bufStart := 0 // absolute line index of buf[0]
	size := 0

	closeChunk := func(chunkLines []string, start int) {
		if len(chunkLines) == 0 {
			return
		}
		chunks = append(chunks, ContentChunk{
			Index:     len(chunks),
			Content:   strings.Join(chunkLines, "\n"),
			StartLine: start,
			EndLine:   start + len(chunkLines) - 1,
		})
	}

	for abs, line := range lines {
		lineSize := len(line) + 1 // account for the newline
		if size+lineSize > cfg.ChunkSize && len(buf) > 0 {
			splitAt := findSplitPoint(buf)
			chunkLines := buf[:splitAt]
			remainder := buf[splitAt:]
			closeChunk(chunkLines, bufStart)

			// Seed the next buffer: overlap window from the closed chunk,
			// then any lines cut off by the split point, then the line that
			// triggered the close. Built fresh, never mutated in place.
			overlap := overlapWindow(chunkLines, cfg.Overlap)
			next := make([]string, 0, len(overlap)+len(remainder)+1)
			next = append(next, overlap...)
			next = append(next, remainder...)
			next = append(next, line)

			bufStart = bufStart + splitAt - len(overlap)
			buf = next
			size = 0
			for _, l := range buf {
				size += len(l) + 1
			}
			continue
		}
		if len(buf) == 0 {
			bufStart = abs
		}
		buf = append(buf, line)
		size += lineSize
	}
	closeChunk(buf, bufStart)

	if len(chunks) == 0 {
		chunks = append(chunks, ContentChunk{Content: text})
	}
	chunks[0].IsFirst = true
	chunks[len(chunks)-1].IsLast = true
	return chunks
}

// findSplitPoint searches backward through the last 30% of buffered lines for
// a natural boundary: a blank line or a markdown heading line. It returns the
// index at which to cut the chunk; lines from that index on carry forward.
// When no boundary exists, the chunk closes at the exact threshold.
func findSplitPoint(buf []string) int {
	floor := len(buf) - len(buf)*30/100
	if floor < 1 {
		floor = 1
	}
	for i := len(buf) - 1; i >= floor; i-- {
		trimmed := strings.TrimSpace(buf[i])
		if trimmed == "" || isMarkdownHeading(trimmed) {
			return i
		}
	}
	return len(buf)
}

// overlapWindow returns the trailing lines of a closed chunk that seed the
// next one. The line count approximates budget/assumedLineLen, capped at half
// the closed chunk so the next chunk always starts strictly after the
// previous one, even when the overlap budget rivals the chunk size.
func overlapWindow(chunkLines []string, budget int) []string {
	k := budget / assumedLineLen
	if k > len(chunkLines)/2 {
		k = len(chunkLines) / 2
	}
	if k <= 0 {
		return nil
	}
	out := make([]string, k)
	copy(out, chunkLines[len(chunkLines)-k:])
	return out
}

func isMarkdownHeading(line string) bool {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	return i >= 1 && i <= 6 && i < len(line) && (line[i] == ' ' || line[i] == '\t')
}
