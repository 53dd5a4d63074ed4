package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. The manuscript passes through as-is
// apart from line-ending normalization, which keeps line numbers stable for
// every later stage.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Document{}, err
	}

	return Document{
		Title: titleFromFilename(filename),
		Text:  strings.Join(lines, "\n"),
	}, nil
}
