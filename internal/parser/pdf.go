package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFParser struct {
	FallbackPdftotext bool
}

// Parse spools r to a temp file, since ledongthuc/pdf requires a
// ReadSeeker+size. The temp file is removed when the document is closed.
func (p *PDFParser) Parse(r io.Reader, filename string) (Document, error) {
	tmp, err := os.CreateTemp("", "bookmap-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := p.OpenFile(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	return &tempDocument{Document: doc, path: tmpPath}, nil
}

// OpenFile opens the PDF at path. The returned document holds the file
// open until Close.
func (p *PDFParser) OpenFile(path string) (Document, error) {
	f, reader, err := pdflib.Open(path)
	if err == nil {
		return &pdfDocument{f: f, reader: reader}, nil
	}
	if !p.FallbackPdftotext {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}

	text, ferr := extractPdftotext(path)
	if ferr != nil {
		return nil, fmt.Errorf("open pdf %s: %w (fallback: %v)", path, err, ferr)
	}
	return splitPages(text), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

type pdfDocument struct {
	f      *os.File
	reader *pdflib.Reader
}

func (d *pdfDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) Page(n int) Page {
	if n < 1 || n > d.reader.NumPage() {
		return memPage{}
	}
	return &pdfPage{page: d.reader.Page(n)}
}

func (d *pdfDocument) Close() error {
	return d.f.Close()
}

// pdfPage lays out the page's glyphs once and serves both the text and the
// word list from that layout.
type pdfPage struct {
	page pdflib.Page

	laidOut bool
	lines   []textLine
	err     error
}

func (p *pdfPage) layout() {
	if p.laidOut {
		return
	}
	p.laidOut = true
	if p.page.V.IsNull() {
		return
	}
	content, err := pageContent(p.page)
	if err != nil {
		p.err = err
		return
	}
	p.lines = layoutLines(content.Text)
}

func (p *pdfPage) Text() (string, bool) {
	p.layout()
	if p.err != nil || len(p.lines) == 0 {
		return "", false
	}
	return joinLines(p.lines), true
}

func (p *pdfPage) Words() ([]Word, error) {
	p.layout()
	if p.err != nil {
		return nil, p.err
	}
	var words []Word
	for _, line := range p.lines {
		words = append(words, line.words...)
	}
	return words, nil
}

func (p *pdfPage) Err() error {
	p.layout()
	return p.err
}

// pageContent converts panics from malformed content streams into errors.
func pageContent(page pdflib.Page) (content pdflib.Content, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read page content: %v", r)
		}
	}()
	return page.Content(), nil
}

// tempDocument removes its backing temp file on Close.
type tempDocument struct {
	Document
	path string
}

func (d *tempDocument) Close() error {
	err := d.Document.Close()
	if rmErr := os.Remove(d.path); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}
