// Package analysis combines per-chunk AI analysis fragments into one
// document-wide result. The merge is the correctness-critical step: rebasing
// chunk-relative line numbers to absolute ones and keeping ordering stable
// so an N-chunk analysis is indistinguishable from a single-chunk one.
package analysis

import (
	"sort"

	"github.com/dgallion1/bookprep/internal/chunker"
	"github.com/dgallion1/bookprep/internal/toc"
)

// ImagePosition locates an insertion point within the document.
type ImagePosition struct {
	Section        string `json:"section"`
	AfterParagraph int    `json:"after_paragraph"`
	LineNumber     int    `json:"line_number"`
}

// ImagePoint is a document location flagged as suitable for an illustrative
// image. Approved is caller-owned state; the engine never touches it.
type ImagePoint struct {
	ID              string        `json:"id"`
	Position        ImagePosition `json:"position"`
	SuggestedType   string        `json:"suggested_type"`
	Context         string        `json:"context"`
	GeneratedPrompt string        `json:"generated_prompt"`
	Approved        bool          `json:"approved"`
}

// DefaultContentType is used when the collaborator fails or returns an
// unknown classification.
const DefaultContentType = "prose"

// Fragment is one chunk's worth of analysis, with chunk-relative positions.
type Fragment struct {
	TOC         []toc.Entry  `json:"table_of_contents"`
	ImagePoints []ImagePoint `json:"image_points"`
	ContentType string       `json:"content_type"`
}

// EmptyFragment is the structurally valid substitute for a failed chunk:
// no entries, no image points, the default content type. A failed chunk
// degrades to this rather than aborting the document.
func EmptyFragment() Fragment {
	return Fragment{
		TOC:         []toc.Entry{},
		ImagePoints: []ImagePoint{},
		ContentType: DefaultContentType,
	}
}

// Result is the merged, document-wide analysis.
type Result struct {
	TOC         []toc.Entry  `json:"table_of_contents"`
	ImagePoints []ImagePoint `json:"image_points"`
	ContentType string       `json:"content_type"`
}

// Merge rebases each fragment by its chunk's StartLine, concatenates in
// chunk order, sorts TOC entries and image points by absolute position, and
// resolves the content type by plurality vote. fragments[i] must correspond
// to chunks[i]; extra fragments without a chunk are rebased by zero.
func Merge(fragments []Fragment, chunks []chunker.ContentChunk) Result {
	res := Result{
		TOC:         []toc.Entry{},
		ImagePoints: []ImagePoint{},
		ContentType: DefaultContentType,
	}

	for i, frag := range fragments {
		base := 0
		if i < len(chunks) {
			base = chunks[i].StartLine
		}
		for _, e := range frag.TOC {
			e.Position += base
			res.TOC = append(res.TOC, e)
		}
		for _, p := range frag.ImagePoints {
			p.Position.LineNumber += base
			if p.ID == "" {
				p.ID = NewID()
			}
			res.ImagePoints = append(res.ImagePoints, p)
		}
	}

	sort.SliceStable(res.TOC, func(a, b int) bool {
		return res.TOC[a].Position < res.TOC[b].Position
	})
	sort.SliceStable(res.ImagePoints, func(a, b int) bool {
		return res.ImagePoints[a].Position.LineNumber < res.ImagePoints[b].Position.LineNumber
	})

	res.TOC = dedupeTOC(res.TOC)
	res.ImagePoints = dedupeImagePoints(res.ImagePoints)
	res.ContentType = voteContentType(fragments)
	return res
}

// dedupeTOC drops entries duplicated by chunk overlap (same position after
// rebasing) and reassigns ids with the shared anchor derivation so the
// merged list is globally consistent.
func dedupeTOC(entries []toc.Entry) []toc.Entry {
	out := entries[:0]
	seen := map[string]int{}
	lastPos := -1
	for _, e := range entries {
		if e.Position == lastPos && len(out) > 0 && out[len(out)-1].Title == e.Title {
			continue
		}
		lastPos = e.Position
		slug := toc.Slug(e.Title)
		seen[slug]++
		e.ID = toc.Anchor(e.Title, seen[slug])
		out = append(out, e)
	}
	return out
}

// dedupeImagePoints drops points duplicated by chunk overlap: after
// rebasing, two chunks that both saw the overlap window report the same
// absolute position. The first occurrence wins, keeping its ID.
func dedupeImagePoints(points []ImagePoint) []ImagePoint {
	out := points[:0]
	seen := map[ImagePosition]bool{}
	for _, p := range points {
		if seen[p.Position] {
			continue
		}
		seen[p.Position] = true
		out = append(out, p)
	}
	return out
}

// voteContentType resolves the document classification by plurality across
// chunk fragments. Ties break toward the first distinct value encountered
// in chunk order; this is an explicit contract, not an artifact of map
// iteration.
func voteContentType(fragments []Fragment) string {
	counts := map[string]int{}
	var order []string
	for _, f := range fragments {
		ct := f.ContentType
		if ct == "" {
			ct = DefaultContentType
		}
		if counts[ct] == 0 {
			order = append(order, ct)
		}
		counts[ct]++
	}
	best := DefaultContentType
	bestCount := 0
	for _, ct := range order {
		if counts[ct] > bestCount {
			best = ct
			bestCount = counts[ct]
		}
	}
	return best
}
