package parser

import (
	"strings"
	"testing"
)

func TestTextParser_Passthrough(t *testing.T) {
	input := "Line one.\nLine two.\n\nLine four."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if doc.Text != input {
		t.Errorf("expected text to pass through unchanged, got %q", doc.Text)
	}
}

func TestTextParser_NormalizesLineEndings(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader("one\r\ntwo\r\nthree"), "crlf.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(doc.Text, "\r") {
		t.Errorf("expected CR stripped, got %q", doc.Text)
	}
	if doc.Text != "one\ntwo\nthree" {
		t.Errorf("expected joined lines, got %q", doc.Text)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
}

func TestForFile_SupportedFormats(t *testing.T) {
	for _, name := range []string{"a.txt", "b.md", "c.html", "d.htm", "e.pdf", "f.docx", "G.TXT"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false, want true", name)
		}
	}
}

func TestForFile_UnsupportedFormat(t *testing.T) {
	if _, err := ForFile("image.png"); err == nil {
		t.Error("expected error for .png")
	}
	if IsSupportedExtension("image.png") {
		t.Error("IsSupportedExtension(.png) = true, want false")
	}
}
