package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Explicit page breaks (<w:br w:type="page"/>)
// separate pages; each paragraph and table cell paragraph is a line.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "bookmap-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var b pageBuilder
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			addDocxParagraph(&b, it)
		case *docx.Table:
			for _, row := range it.TableRows {
				for _, cell := range row.TableCells {
					for _, para := range cell.Paragraphs {
						addDocxParagraph(&b, para)
					}
				}
			}
		}
	}

	return b.document(), nil
}

// addDocxParagraph writes the paragraph's text as one line, breaking the
// line on <w:br/> and the page on <w:br w:type="page"/>.
func addDocxParagraph(b *pageBuilder, para *docx.Paragraph) {
	var line strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch x := rc.(type) {
			case *docx.Text:
				line.WriteString(x.Text)
			case *docx.Tab:
				line.WriteByte('\t')
			case *docx.BarterRabbet:
				b.addLine(line.String())
				line.Reset()
				if x.Type == "page" {
					b.breakPage()
				}
			}
		}
	}
	b.addLine(line.String())
}
