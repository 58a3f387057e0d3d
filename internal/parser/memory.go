package parser

import "strings"

// memDocument is a fully parsed document with plain-text pages and no font
// metadata.
type memDocument struct {
	pages []memPage
}

type memPage struct {
	text string
}

// NewTextDocument builds a Document from already extracted page texts.
// Empty strings stand for pages without extractable text.
func NewTextDocument(pages ...string) Document {
	doc := &memDocument{pages: make([]memPage, len(pages))}
	for i, p := range pages {
		doc.pages[i] = memPage{text: p}
	}
	return doc
}

func (d *memDocument) NumPages() int {
	return len(d.pages)
}

func (d *memDocument) Page(n int) Page {
	if n < 1 || n > len(d.pages) {
		return memPage{}
	}
	return d.pages[n-1]
}

func (d *memDocument) Close() error {
	return nil
}

func (p memPage) Text() (string, bool) {
	if strings.TrimSpace(p.text) == "" {
		return "", false
	}
	return p.text, true
}

func (p memPage) Words() ([]Word, error) {
	return nil, nil
}

func (p memPage) Err() error {
	return nil
}

// pageBuilder accumulates lines into pages for the eager parsers.
type pageBuilder struct {
	pages   []string
	current []string
}

func (b *pageBuilder) addLine(line string) {
	line = strings.TrimRight(line, " \t\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	b.current = append(b.current, line)
}

func (b *pageBuilder) addText(text string) {
	for _, line := range strings.Split(text, "\n") {
		b.addLine(line)
	}
}

func (b *pageBuilder) breakPage() {
	b.pages = append(b.pages, strings.Join(b.current, "\n"))
	b.current = nil
}

// document closes the trailing page and returns the result. A source that
// ends right after a page break does not get an extra empty page.
func (b *pageBuilder) document() Document {
	if len(b.current) > 0 || len(b.pages) == 0 {
		b.breakPage()
	}
	return NewTextDocument(b.pages...)
}
