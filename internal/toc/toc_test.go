package toc

import "testing"

func TestExtract_SpecExample(t *testing.T) {
	entries := Extract("# Chapter 1\n\nHello world.\n\n# Chapter 2\n\nBye.")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Position != 1 || entries[1].Position != 5 {
		t.Errorf("expected positions 1 and 5, got %d and %d",
			entries[0].Position, entries[1].Position)
	}
	if entries[0].Level != 1 || entries[1].Level != 1 {
		t.Errorf("expected level 1 for both, got %d and %d",
			entries[0].Level, entries[1].Level)
	}
	if entries[0].ID == entries[1].ID {
		t.Errorf("ids must be distinct, both %q", entries[0].ID)
	}
}

func TestExtract_IgnoresNonMarkdownHeadings(t *testing.T) {
	entries := Extract("第一章\nCHAPTER TWO\n## Real Heading\nprose")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "Real Heading" || entries[0].Level != 2 || entries[0].Position != 3 {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestExtract_DuplicateTitlesDisambiguated(t *testing.T) {
	entries := Extract("# Notes\ntext\n# Notes\ntext\n# Notes")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	ids := map[string]bool{}
	for _, e := range entries {
		if ids[e.ID] {
			t.Errorf("duplicate id %q", e.ID)
		}
		ids[e.ID] = true
	}
	if entries[0].ID != "notes" {
		t.Errorf("first occurrence should be the bare slug, got %q", entries[0].ID)
	}
	if entries[1].ID != "notes-2" || entries[2].ID != "notes-3" {
		t.Errorf("repeats should gain occurrence suffixes, got %q and %q",
			entries[1].ID, entries[2].ID)
	}
}

func TestSlug_Normalization(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Chapter 1", "chapter-1"},
		{"  Spaced   Out  ", "spaced-out"},
		{"What?! A Title...", "what-a-title"},
		{"第三章 风雪", "第三章-风雪"},
		{"MixedCASE Title", "mixedcase-title"},
		{"!!!", "section"},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Errorf("Slug(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestAnchor_OccurrenceSuffix(t *testing.T) {
	if Anchor("Intro", 1) != "intro" {
		t.Errorf("first occurrence must be bare: %q", Anchor("Intro", 1))
	}
	if Anchor("Intro", 2) != "intro-2" {
		t.Errorf("second occurrence: %q", Anchor("Intro", 2))
	}
}

func TestExtract_EmptyAndHeadingless(t *testing.T) {
	if got := Extract(""); len(got) != 0 {
		t.Errorf("empty text: expected no entries, got %d", len(got))
	}
	if got := Extract("plain\nprose\nonly"); len(got) != 0 {
		t.Errorf("headingless text: expected no entries, got %d", len(got))
	}
}
