// Package heading classifies single lines of manuscript text as chapter or
// section headings. Classification is context-free and deterministic: the
// same line always yields the same result, regardless of its neighbors.
package heading

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is the result of classifying one line.
type Match struct {
	IsHeading bool   `json:"is_heading"`
	Title     string `json:"title"`
	Level     int    `json:"level"` // 1..6 when IsHeading
}

// Classify examines one line and decides whether it is a heading.
//
// Precedence, first match wins:
//  1. already-formatted markdown heading ("#" run + space)
//  2. the structural pattern table (parts, chapters, sections, front/back
//     matter markers, numbered and roman-numeral markers)
//  3. a shape heuristic for short, uppercase or caseless-script lines
//
// Every consumer inherits this order; changing it changes chapter splitting,
// preprocessing, and extraction all at once.
func Classify(line string) Match {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Match{}
	}

	if m, ok := matchMarkdown(trimmed); ok {
		return m
	}
	for _, p := range patterns {
		if m, ok := p.match(trimmed); ok {
			return m
		}
	}
	if m, ok := matchShape(trimmed); ok {
		return m
	}
	return Match{}
}

// matchMarkdown recognizes a leading run of 1-6 '#' followed by whitespace.
func matchMarkdown(line string) (Match, bool) {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n < 1 || n > 6 || n >= len(line) {
		return Match{}, false
	}
	if line[n] != ' ' && line[n] != '\t' {
		return Match{}, false
	}
	title := strings.TrimSpace(line[n+1:])
	if title == "" {
		return Match{}, false
	}
	return Match{IsHeading: true, Title: title, Level: n}, true
}

// matchShape is the heuristic fallback: a short line whose letters are all
// uppercase or belong to a caseless script, containing at least one letter
// and not ending like a sentence, reads as a chapter-level heading.
func matchShape(line string) (Match, bool) {
	n := utf8.RuneCountInString(line)
	if n < 2 || n > 50 {
		return Match{}, false
	}
	last, _ := utf8.DecodeLastRuneInString(line)
	if isTerminalPunct(last) {
		return Match{}, false
	}
	hasLetter := false
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if unicode.ToUpper(r) != r {
			// A lowercase letter disqualifies; caseless scripts (han, kana)
			// map to themselves under ToUpper and pass through.
			return Match{}, false
		}
	}
	if !hasLetter {
		return Match{}, false
	}
	return Match{IsHeading: true, Title: line, Level: 2}, true
}

func isTerminalPunct(r rune) bool {
	switch r {
	case '.', '!', '?', ',', ';', ':', '。', '！', '？', '，', '；', '：', '…':
		return true
	}
	return false
}
