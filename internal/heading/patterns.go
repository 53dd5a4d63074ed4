package heading

import (
	"regexp"
	"strings"
)

// pattern is one entry in the ordered structural table. Each matcher is
// independent and returns its own captured title, which keeps the precedence
// explicit and lets every convention be tested on its own.
type pattern struct {
	name  string
	level int
	re    *regexp.Regexp
}

// match keeps the full line as the title: for structural headings the marker
// ("第三章", "Chapter 7") is part of what readers expect to see in a TOC.
func (p pattern) match(line string) (Match, bool) {
	if !p.re.MatchString(line) {
		return Match{}, false
	}
	return Match{IsHeading: true, Title: strings.TrimSpace(line), Level: p.level}, true
}

const cjkNum = `[0-9０-９零一二三四五六七八九十百千两]+`

// patterns is the structural table, most specific first. Keyword class sets
// the level: part-class markers are level 1, chapter-class level 2,
// section-class level 3. Numbered and roman markers carry fixed levels.
var patterns = []pattern{
	// CJK volume / part / chapter / section conventions.
	{name: "cjk-volume", level: 1, re: regexp.MustCompile(`^第` + cjkNum + `卷([　\s].*)?$`)},
	{name: "cjk-part", level: 1, re: regexp.MustCompile(`^第` + cjkNum + `部([　\s].*)?$`)},
	{name: "cjk-chapter", level: 2, re: regexp.MustCompile(`^第` + cjkNum + `章([　\s].*)?$`)},
	{name: "cjk-section", level: 3, re: regexp.MustCompile(`^第` + cjkNum + `[节節]([　\s].*)?$`)},
	{name: "cjk-marker", level: 2,
		re: regexp.MustCompile(`^(序章|序言|序幕|前言|引子|楔子|终章|終章|尾声|尾聲|后记|後記|番外)([　\s].{0,30})?$`)},

	// English part / chapter / section conventions.
	{name: "en-part", level: 1,
		re: regexp.MustCompile(`(?i)^part\s+([0-9]+|[ivxlcdm]+|one|two|three|four|five|six|seven|eight|nine|ten)\b.{0,60}$`)},
	{name: "en-chapter", level: 2,
		re: regexp.MustCompile(`(?i)^chapter\s+([0-9]+|[ivxlcdm]+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|twenty|thirty)\b.{0,60}$`)},
	{name: "en-section", level: 3,
		re: regexp.MustCompile(`(?i)^section\s+([0-9]+|[ivxlcdm]+)\b.{0,60}$`)},
	{name: "en-marker", level: 2,
		re: regexp.MustCompile(`(?i)^(prologue|epilogue|preface|foreword|afterword|interlude|introduction)\s*$`)},

	// Generic list-style markers: "3." / "3、" and bare roman numerals.
	{name: "numbered", level: 3,
		re: regexp.MustCompile(`^[0-9]{1,3}[.、]\s*\S.{0,48}$`)},
	{name: "roman", level: 2,
		re: regexp.MustCompile(`^[IVXLCDM]{1,7}[.、]\s*\S.{0,48}$`)},
}
