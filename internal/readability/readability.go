// Package readability scores raw manuscript text with shallow structural
// heuristics. The score is a 0-100 proxy for how well text will survive
// conversion into a formatted document, not a linguistic judgment.
package readability

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/bookprep/internal/heading"
)

// Report carries the score with one issue/suggestion pair per penalty hit.
type Report struct {
	Issues      []string `json:"issues"`
	Score       int      `json:"score"`
	Suggestions []string `json:"suggestions"`
}

const (
	longLineLen      = 200
	longLineRatioPct = 30
	headingMinDocLen = 3000
	avgLineLimit     = 150
	multiSpaceLimit  = 20
)

// Analyze scores text. Penalties are independent and order-free; the score
// starts at 100 and is floored at 0.
func Analyze(text string) Report {
	r := Report{Score: 100, Issues: []string{}, Suggestions: []string{}}
	lines := strings.Split(text, "\n")

	var nonEmpty, long int
	var totalLen int
	hasHeading := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		n := utf8.RuneCountInString(line)
		totalLen += n
		if n > longLineLen {
			long++
		}
		if !hasHeading && heading.Classify(trimmed).IsHeading {
			hasHeading = true
		}
	}

	if nonEmpty > 0 && long*100 > nonEmpty*longLineRatioPct {
		r.penalize(20,
			"over 30% of lines exceed 200 characters",
			"break long paragraphs into sentence-length lines")
	}
	if !hasHeading && len(text) > headingMinDocLen {
		r.penalize(15,
			"no chapter or section headings detected",
			"add chapter headings so the document can be structured")
	}
	if nonEmpty > 0 && totalLen > nonEmpty*avgLineLimit {
		r.penalize(15,
			"average line length exceeds 150 characters",
			"reflow text so lines stay short enough to scan")
	}
	if countMultiSpaceRuns(text) > multiSpaceLimit {
		r.penalize(10,
			"frequent runs of consecutive spaces",
			"normalize whitespace before converting")
	}

	if r.Score < 0 {
		r.Score = 0
	}
	return r
}

// Delta reports the score improvement between two texts, as used for
// before/after comparison around preprocessing.
func Delta(before, after string) int {
	return Analyze(after).Score - Analyze(before).Score
}

func (r *Report) penalize(points int, issue, suggestion string) {
	r.Score -= points
	r.Issues = append(r.Issues, issue)
	r.Suggestions = append(r.Suggestions, suggestion)
}

// countMultiSpaceRuns counts maximal runs of two or more spaces.
func countMultiSpaceRuns(text string) int {
	count := 0
	run := 0
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' {
			run++
			continue
		}
		if run >= 2 {
			count++
		}
		run = 0
	}
	if run >= 2 {
		count++
	}
	return count
}
