// Package toc extracts markdown headings into a positioned table of
// contents. Entry ids double as heading anchors: any renderer producing
// addressable anchors must use the same Anchor derivation so a TOC entry
// and its target always agree.
package toc

import (
	"strconv"
	"strings"
	"unicode"
)

// Entry is one heading occurrence. Position is the 1-indexed line number of
// the heading in the document.
type Entry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Level    int    `json:"level"`
	Position int    `json:"position"`
}

// Extract scans already-markdown heading lines in document order. Heuristic
// heading detection is deliberately excluded here: the TOC describes the
// document as it will render, and only markdown headings render as anchors.
func Extract(text string) []Entry {
	lines := strings.Split(text, "\n")
	entries := make([]Entry, 0, 16)
	seen := map[string]int{}

	for i, line := range lines {
		title, level, ok := parseHeading(strings.TrimSpace(line))
		if !ok {
			continue
		}
		slug := Slug(title)
		seen[slug]++
		entries = append(entries, Entry{
			ID:       Anchor(title, seen[slug]),
			Title:    title,
			Level:    level,
			Position: i + 1,
		})
	}
	return entries
}

// Anchor derives the stable identifier for the nth occurrence (1-based) of a
// heading title. The first occurrence is the bare slug; repeats gain a
// numeric suffix.
func Anchor(title string, occurrence int) string {
	slug := Slug(title)
	if occurrence <= 1 {
		return slug
	}
	return slug + "-" + strconv.Itoa(occurrence)
}

// Slug normalizes a heading title: case-folded, letters and digits of any
// script kept, everything else dropped, whitespace collapsed to single
// hyphens.
func Slug(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	s := b.String()
	if s == "" {
		s = "section"
	}
	return s
}

func parseHeading(line string) (title string, level int, ok bool) {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n < 1 || n > 6 || n >= len(line) || (line[n] != ' ' && line[n] != '\t') {
		return "", 0, false
	}
	title = strings.TrimSpace(line[n+1:])
	if title == "" {
		return "", 0, false
	}
	return title, n, true
}
