package ai

import (
	"strings"

	"github.com/dgallion1/bookprep/internal/analysis"
	"github.com/dgallion1/bookprep/internal/toc"
)

var validContentTypes = map[string]bool{
	"novel":       true,
	"non-fiction": true,
	"technical":   true,
	"poetry":      true,
	"prose":       true,
}

var validImageTypes = map[string]bool{
	"scene":      true,
	"portrait":   true,
	"diagram":    true,
	"map":        true,
	"decoration": true,
}

const (
	maxContextLen = 300
	maxPromptLen  = 400
)

// SanitizeFragment normalizes a model-produced fragment in place: clamped
// levels, positive positions, known enums, trimmed free text. Entries that
// cannot be repaired are dropped; the fragment itself always remains
// structurally valid.
func SanitizeFragment(frag *analysis.Fragment) {
	entries := frag.TOC[:0]
	for _, e := range frag.TOC {
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" || e.Position < 1 {
			continue
		}
		if e.Level < 1 {
			e.Level = 1
		}
		if e.Level > 6 {
			e.Level = 6
		}
		if e.ID == "" {
			e.ID = toc.Slug(e.Title)
		}
		entries = append(entries, e)
	}
	frag.TOC = entries
	if frag.TOC == nil {
		frag.TOC = []toc.Entry{}
	}

	points := frag.ImagePoints[:0]
	for _, p := range frag.ImagePoints {
		if p.Position.LineNumber < 1 {
			continue
		}
		if !validImageTypes[p.SuggestedType] {
			p.SuggestedType = "scene"
		}
		p.Context = truncate(strings.TrimSpace(p.Context), maxContextLen)
		p.GeneratedPrompt = truncate(strings.TrimSpace(p.GeneratedPrompt), maxPromptLen)
		p.Approved = false // caller-owned state, never set by the model
		points = append(points, p)
	}
	frag.ImagePoints = points
	if frag.ImagePoints == nil {
		frag.ImagePoints = []analysis.ImagePoint{}
	}

	if !validContentTypes[frag.ContentType] {
		frag.ContentType = analysis.DefaultContentType
	}
}
