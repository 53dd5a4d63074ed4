// Package preprocess normalizes raw manuscript text before structural
// analysis or formatting. Passes run in a fixed order because later passes
// depend on the invariants earlier ones establish: sentence wrapping needs
// normalized spacing, and heading formatting must see fully wrapped lines.
package preprocess

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/bookprep/internal/heading"
)

// Options toggles individual normalization passes. Line-ending
// normalization always runs.
type Options struct {
	NormalizeWhitespace  bool `json:"normalize_whitespace"`
	NormalizePunctuation bool `json:"normalize_punctuation"`
	WrapLongLines        bool `json:"wrap_long_lines"`
	FormatHeadings       bool `json:"format_headings"`
}

// DefaultOptions enables every pass.
func DefaultOptions() Options {
	return Options{
		NormalizeWhitespace:  true,
		NormalizePunctuation: true,
		WrapLongLines:        true,
		FormatHeadings:       true,
	}
}

const (
	wrapThreshold = 80 // lines longer than this get sentence-wrapped
	wrapMinRun    = 40 // minimum runes accumulated before a break is taken
	maxBlankRun   = 2  // consecutive blank lines are capped at this
)

// Apply runs the enabled passes over text and returns the normalized result.
// It is total over string input and idempotent on its own output.
func Apply(text string, opts Options) string {
	text = normalizeLineEndings(text)
	if opts.NormalizeWhitespace {
		text = normalizeWhitespace(text)
	}
	if opts.NormalizePunctuation {
		text = normalizePunctuation(text)
	}
	if opts.WrapLongLines {
		text = wrapLongLines(text)
	}
	if opts.FormatHeadings {
		text = formatHeadings(text)
	}
	return finalizeSpacing(text)
}

func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// normalizeWhitespace collapses interior space runs, strips trailing spaces
// and caps blank-line runs.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = collapseSpaces(strings.TrimRight(line, " \t"))
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > maxBlankRun {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	prevSpace := false
	for _, r := range line {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizePunctuation fixes spacing around clause punctuation: a space
// after a terminal mark before a letter, no space before commas or periods,
// and a space after a half-width period sandwiched between han characters.
func normalizePunctuation(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		// Drop a space that sits directly before ',' or '.'.
		if r == ' ' && i+1 < len(runes) && (runes[i+1] == ',' || runes[i+1] == '.') {
			continue
		}
		b.WriteRune(r)
		if i+1 >= len(runes) {
			break
		}
		next := runes[i+1]
		switch r {
		case ',', ';', ':', '!', '?':
			if unicode.IsLetter(next) {
				b.WriteRune(' ')
			}
		case '.':
			if unicode.IsLetter(next) && !isDigitAround(runes, i) {
				b.WriteRune(' ')
			}
		}
	}
	return b.String()
}

// isDigitAround guards decimal numbers like 3.14 from being split.
func isDigitAround(runes []rune, dot int) bool {
	return dot > 0 && unicode.IsDigit(runes[dot-1]) && dot+1 < len(runes) && unicode.IsDigit(runes[dot+1])
}

// wrapLongLines re-flows over-long prose lines at sentence boundaries.
// Heading lines are left alone regardless of length.
func wrapLongLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if utf8.RuneCountInString(line) <= wrapThreshold || heading.Classify(line).IsHeading {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line)...)
	}
	return strings.Join(out, "\n")
}

// wrapLine scans runes and emits a segment whenever a sentence boundary
// appears after at least wrapMinRun accumulated runes.
func wrapLine(line string) []string {
	runes := []rune(line)
	var segments []string
	var seg []rune
	for i := 0; i < len(runes); i++ {
		seg = append(seg, runes[i])
		if len(seg) < wrapMinRun {
			continue
		}
		if !sentenceBoundary(runes, i) {
			continue
		}
		// The boundary rune is included; swallow one following space.
		if i+1 < len(runes) && runes[i+1] == ' ' {
			i++
		}
		segments = append(segments, strings.TrimSpace(string(seg)))
		seg = seg[:0]
	}
	if s := strings.TrimSpace(string(seg)); s != "" {
		segments = append(segments, s)
	}
	if len(segments) == 0 {
		return []string{line}
	}
	return segments
}

// abbreviations that end in '.' but do not terminate a sentence.
var abbreviations = []string{"Mr.", "Mrs.", "Ms.", "Dr.", "St.", "vs.", "etc.", "e.g.", "i.e.", "Jr.", "Sr."}

// sentenceBoundary reports whether the rune at i ends a sentence: terminal
// punctuation followed by whitespace or end of text, and not part of a known
// abbreviation.
func sentenceBoundary(runes []rune, i int) bool {
	switch runes[i] {
	case '。', '！', '？':
		return true
	case '.', '!', '?':
	default:
		return false
	}
	if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\t' {
		return false
	}
	if runes[i] == '.' && endsWithAbbreviation(runes, i) {
		return false
	}
	return true
}

func endsWithAbbreviation(runes []rune, dot int) bool {
	head := string(runes[:dot+1])
	for _, a := range abbreviations {
		if strings.HasSuffix(head, a) {
			// Require a word boundary before the abbreviation.
			rest := head[:len(head)-len(a)]
			if rest == "" || strings.HasSuffix(rest, " ") {
				return true
			}
		}
	}
	return false
}

// formatHeadings rewrites blank-line-preceded heading candidates into
// markdown form, isolated by blank lines.
func formatHeadings(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		precededByBlank := i == 0 || strings.TrimSpace(lines[i-1]) == ""
		if !precededByBlank || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out = append(out, line)
			continue
		}
		m := heading.Classify(trimmed)
		if !m.IsHeading {
			out = append(out, line)
			continue
		}
		out = append(out, "", strings.Repeat("#", m.Level)+" "+m.Title, "")
	}
	return strings.Join(out, "\n")
}

// finalizeSpacing guarantees exactly one blank line on each side of every
// markdown heading and re-caps blank runs introduced by earlier passes.
func finalizeSpacing(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	afterHeading := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isMarkdownHeading(trimmed) {
			for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
				out = out[:len(out)-1]
			}
			if len(out) > 0 {
				out = append(out, "")
			}
			out = append(out, line, "")
			afterHeading = true
			continue
		}
		if trimmed == "" && afterHeading {
			continue // the heading already carries its single trailing blank
		}
		afterHeading = false
		out = append(out, line)
	}
	return capBlankRuns(strings.Join(out, "\n"))
}

func capBlankRuns(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blanks := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > maxBlankRun {
				continue
			}
			out = append(out, line)
			continue
		}
		blanks = 0
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isMarkdownHeading(line string) bool {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	return n >= 1 && n <= 6 && n < len(line) && (line[n] == ' ' || line[n] == '\t')
}
