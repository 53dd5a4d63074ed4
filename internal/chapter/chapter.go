// Package chapter partitions a manuscript into an ordered chapter sequence.
// Two variants exist: the heuristic splitter accepts anything the heading
// classifier recognizes, while the export splitter trusts only markdown
// headings, for documents that have already been normalized.
package chapter

import (
	"strings"

	"github.com/dgallion1/bookprep/internal/heading"
)

// Chapter is one contiguous slice of a manuscript rooted at a heading.
type Chapter struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Level     int    `json:"level"`
	StartLine int    `json:"start_line"` // absolute 0-based line of the heading
}

// Synthetic chapter titles. frontMatterTitle labels content preceding the
// first real heading; fullTextTitle labels the single fallback chapter the
// export variant emits for documents with no markdown headings at all.
const (
	frontMatterTitle = "Front Matter"
	fullTextTitle    = "Full Text"
)

// SplitHeuristic partitions text on classifier-detected headings of level 1
// or 2. Content before the first qualifying heading becomes a synthetic
// leading chapter, kept only when it contains something other than
// whitespace.
func SplitHeuristic(text string) []Chapter {
	return split(text, func(line string) (heading.Match, bool) {
		m := heading.Classify(line)
		return m, m.IsHeading && m.Level <= 2
	}, false)
}

// SplitMarkdown partitions strictly on markdown headings of level 1 or 2.
// A document with no such heading yields exactly one chapter spanning the
// whole text; this variant never returns zero chapters.
func SplitMarkdown(text string) []Chapter {
	return split(text, func(line string) (heading.Match, bool) {
		m := classifyMarkdownOnly(line)
		return m, m.IsHeading && m.Level <= 2
	}, true)
}

func split(text string, boundary func(string) (heading.Match, bool), guarantee bool) []Chapter {
	lines := strings.Split(text, "\n")

	var chapters []Chapter
	var body []string
	current := Chapter{Title: frontMatterTitle, Level: 1, StartLine: 0}
	started := false

	flush := func() {
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		if started || current.Content != "" {
			chapters = append(chapters, current)
		}
		body = body[:0]
	}

	for i, line := range lines {
		if m, ok := boundary(strings.TrimSpace(line)); ok {
			flush()
			current = Chapter{Title: m.Title, Level: m.Level, StartLine: i}
			started = true
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(chapters) == 0 && guarantee {
		chapters = append(chapters, Chapter{
			Title:   fullTextTitle,
			Content: strings.TrimSpace(text),
			Level:   1,
		})
	}
	return chapters
}

func classifyMarkdownOnly(line string) heading.Match {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n < 1 || n > 6 || n >= len(line) || (line[n] != ' ' && line[n] != '\t') {
		return heading.Match{}
	}
	title := strings.TrimSpace(line[n+1:])
	if title == "" {
		return heading.Match{}
	}
	return heading.Match{IsHeading: true, Title: title, Level: n}
}
