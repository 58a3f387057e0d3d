package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Form feeds separate pages, which is
// also what pdftotext emits.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b pageBuilder
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\f")
		b.addLine(parts[0])
		for _, part := range parts[1:] {
			b.breakPage()
			b.addLine(part)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return b.document(), nil
}

func splitPages(text string) Document {
	doc, _ := (&TextParser{}).Parse(strings.NewReader(text), "")
	return doc
}
