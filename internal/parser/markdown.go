package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files. The text passes through unchanged
// since Markdown is already the pipeline's structural representation; the
// goldmark AST is used only to pick a document title.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}

	title := titleFromFilename(filename)
	if h := firstHeading(src); h != "" {
		title = h
	}

	return Document{
		Title: title,
		Text:  strings.ReplaceAll(strings.ReplaceAll(string(src), "\r\n", "\n"), "\r", "\n"),
	}, nil
}

// firstHeading returns the text of the first top-level heading, preferring
// the earliest lowest-level one goldmark finds.
func firstHeading(src []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	best := ""
	bestLevel := 7
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		if h.Level < bestLevel {
			bestLevel = h.Level
			best = headingText(h, src)
			if bestLevel == 1 {
				break
			}
		}
	}
	return best
}

func headingText(n ast.Node, src []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
		} else {
			buf.WriteString(headingText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
