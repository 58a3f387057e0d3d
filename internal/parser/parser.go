package parser

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned by Open when the input file does not exist.
	ErrNotFound = fmt.Errorf("file not found: %w", fs.ErrNotExist)

	// ErrUnsupported is returned for file extensions no parser handles.
	ErrUnsupported = errors.New("unsupported file extension")
)

// Document is an open, paged source of text. Pages are numbered from 1.
// Close releases whatever handle the document holds and must be called
// once the scan is finished.
type Document interface {
	NumPages() int
	Page(n int) Page
	Close() error
}

// Page is one page of a Document.
type Page interface {
	// Text returns the extracted page text. ok is false when the page has
	// no extractable text.
	Text() (text string, ok bool)

	// Words returns the page's words with font metadata. Sources without
	// layout information return nil.
	Words() ([]Word, error)

	// Err reports why the page could not be read. A page with no text and
	// a nil Err is simply blank.
	Err() error
}

// Word is a run of non-blank glyphs sharing a baseline.
type Word struct {
	Text string
	Size float64
}

// Options tune how documents are opened.
type Options struct {
	// FallbackPdftotext retries PDFs that the Go reader cannot open with
	// the pdftotext binary, when it is installed.
	FallbackPdftotext bool
}

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Open opens the document at path. PDFs are read in place and keep their
// file handle until Close; other formats are parsed eagerly.
func Open(path string, opts Options) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	p, err := ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	if pp, ok := p.(*PDFParser); ok {
		return pp.OpenFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f, filepath.Base(path))
}

// OpenReader parses an uploaded document identified by filename.
func OpenReader(r io.Reader, filename string, opts Options) (Document, error) {
	p, err := ForFile(filename, opts)
	if err != nil {
		return nil, err
	}
	return p.Parse(r, filename)
}
