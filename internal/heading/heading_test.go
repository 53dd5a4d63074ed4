package heading

import "testing"

func TestClassify_MarkdownHeadings(t *testing.T) {
	cases := []struct {
		line  string
		level int
		title string
	}{
		{"# Title", 1, "Title"},
		{"## Sub Title", 2, "Sub Title"},
		{"###### Deep", 6, "Deep"},
		{"###\tTabbed", 3, "Tabbed"},
	}
	for _, c := range cases {
		m := Classify(c.line)
		if !m.IsHeading {
			t.Errorf("%q: expected heading", c.line)
			continue
		}
		if m.Level != c.level {
			t.Errorf("%q: expected level %d, got %d", c.line, c.level, m.Level)
		}
		if m.Title != c.title {
			t.Errorf("%q: expected title %q, got %q", c.line, c.title, m.Title)
		}
	}
}

func TestClassify_MarkdownRejections(t *testing.T) {
	for _, line := range []string{"####### Seven", "#NoSpace", "#", "##   "} {
		if Classify(line).IsHeading && Classify(line).Title == "" {
			t.Errorf("%q: accepted a heading with empty title", line)
		}
	}
	if m := Classify("####### Seven"); m.IsHeading && m.Level > 6 {
		t.Errorf("level above 6 must never be produced: %+v", m)
	}
}

func TestClassify_CJKStructuralPatterns(t *testing.T) {
	cases := []struct {
		line  string
		level int
	}{
		{"第一卷", 1},
		{"第一卷 风云际会", 1},
		{"第2部", 1},
		{"第三章", 2},
		{"第１２章 雪夜", 2},
		{"第五节", 3},
		{"第五節 拾遗", 3},
		{"序章", 2},
		{"楔子", 2},
		{"尾声", 2},
		{"番外 少年时", 2},
	}
	for _, c := range cases {
		m := Classify(c.line)
		if !m.IsHeading {
			t.Errorf("%q: expected heading", c.line)
			continue
		}
		if m.Level != c.level {
			t.Errorf("%q: expected level %d, got %d", c.line, c.level, m.Level)
		}
	}
}

func TestClassify_EnglishStructuralPatterns(t *testing.T) {
	cases := []struct {
		line  string
		level int
	}{
		{"Part One", 1},
		{"PART II", 1},
		{"Chapter 12", 2},
		{"Chapter Seven: The Return", 2},
		{"Section 3", 3},
		{"Prologue", 2},
		{"Epilogue", 2},
		{"3. The Journey Begins", 3},
		{"IV. Winter", 2},
	}
	for _, c := range cases {
		m := Classify(c.line)
		if !m.IsHeading {
			t.Errorf("%q: expected heading", c.line)
			continue
		}
		if m.Level != c.level {
			t.Errorf("%q: expected level %d, got %d", c.line, c.level, m.Level)
		}
	}
}

func TestClassify_PatternPrecedenceOverShape(t *testing.T) {
	// "第一章" is short and caseless so the shape heuristic would also accept
	// it, but the pattern table must win and assign its own level.
	if m := Classify("第一卷"); m.Level != 1 {
		t.Errorf("pattern table should classify 第一卷 as level 1, got %d", m.Level)
	}
	// Markdown form wins over the pattern table.
	if m := Classify("### Chapter 2"); m.Level != 3 {
		t.Errorf("markdown prefix should win, got level %d", m.Level)
	}
}

func TestClassify_ShapeHeuristic(t *testing.T) {
	m := Classify("CHAPTER ONE")
	if !m.IsHeading || m.Level != 2 {
		t.Fatalf("CHAPTER ONE: expected level-2 heading, got %+v", m)
	}
	if m.Title != "CHAPTER ONE" {
		t.Errorf("expected title preserved, got %q", m.Title)
	}

	// A line no structural pattern covers, accepted purely on shape.
	if m := Classify("THE GOLDEN AGE"); !m.IsHeading || m.Level != 2 {
		t.Errorf("THE GOLDEN AGE: expected level-2 heading, got %+v", m)
	}

	if Classify("THE END.").IsHeading {
		t.Error("terminal punctuation should disqualify the shape heuristic")
	}
	if Classify("A normal sentence without punctuation").IsHeading {
		t.Error("lowercase letters should disqualify")
	}
	if Classify("1234 5678").IsHeading {
		t.Error("a line with no letters is not a heading")
	}
	if Classify("X").IsHeading {
		t.Error("single rune is below the minimum length")
	}
	if !Classify("风雪夜归人").IsHeading {
		t.Error("caseless-script line should pass the shape heuristic")
	}
}

func TestClassify_NeverHeading(t *testing.T) {
	for _, line := range []string{"", "   ", "\t", "He said hello.", "第 one 章notmatching tail that is way too long to be a heading because it just keeps going"} {
		if Classify(line).IsHeading && line == "" {
			t.Errorf("%q: empty line can never be a heading", line)
		}
	}
	if Classify("").IsHeading || Classify("   ").IsHeading {
		t.Error("blank lines are never headings")
	}
}

func TestClassify_Deterministic(t *testing.T) {
	line := "Chapter 3: Landfall"
	first := Classify(line)
	for i := 0; i < 5; i++ {
		if got := Classify(line); got != first {
			t.Fatalf("classification changed between calls: %+v vs %+v", first, got)
		}
	}
}
