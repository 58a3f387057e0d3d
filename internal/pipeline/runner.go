package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/bookmap/internal/classify"
	"github.com/dgallion1/bookmap/internal/config"
	"github.com/dgallion1/bookmap/internal/locator"
	"github.com/dgallion1/bookmap/internal/parser"
	"github.com/dgallion1/bookmap/internal/report"
	"github.com/dgallion1/bookmap/internal/splitter"
	"github.com/dgallion1/bookmap/internal/stats"
)

// ErrNoChapters is returned by SplitChapters when the locator finds nothing
// to split on.
var ErrNoChapters = errors.New("no chapters found")

// Runner opens documents and runs the classifier and locator over them.
// A Runner holds no per-document state and may be shared.
type Runner struct {
	cfg   config.Config
	log   *slog.Logger
	stats *stats.ScanStats
}

func NewRunner(cfg config.Config, log *slog.Logger, st *stats.ScanStats) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if st == nil {
		st = stats.NewScanStats(cfg.StatsWindow)
	}
	return &Runner{cfg: cfg, log: log, stats: st}
}

// Stats returns the scan latency tracker.
func (r *Runner) Stats() *stats.ScanStats {
	return r.stats
}

// ParserOptions returns the options used to open documents.
func (r *Runner) ParserOptions() parser.Options {
	return parser.Options{FallbackPdftotext: r.cfg.PDFFallbackPdftotext}
}

func (r *Runner) locator(log *slog.Logger) *locator.Locator {
	return locator.New(locator.Options{
		MinChapter:    r.cfg.LocatorMinChapter,
		MaxChapter:    r.cfg.LocatorMaxChapter,
		ContextChars:  r.cfg.LocatorContextChars,
		ProgressEvery: r.cfg.ProgressEvery,
	}, log)
}

// MapBook classifies the document at path and assembles its book map.
func (r *Runner) MapBook(path string) (report.BookMap, error) {
	doc, err := parser.Open(path, r.ParserOptions())
	if err != nil {
		return report.BookMap{}, err
	}
	defer doc.Close()

	return r.MapDocument(doc, r.log.With("file", path)), nil
}

// MapDocument classifies an already open document. The caller closes doc.
func (r *Runner) MapDocument(doc parser.Document, log *slog.Logger) report.BookMap {
	if log == nil {
		log = r.log
	}
	start := time.Now()

	col := classify.Scan(doc, log)
	bm := report.Assemble(col)

	elapsed := time.Since(start)
	r.stats.Record(elapsed.Milliseconds(), doc.NumPages())
	log.Info("mapped document",
		"pages", doc.NumPages(),
		"chapters", bm.Summary.TotalChapters,
		"sections", len(bm.Structure.Sections),
		"figures", bm.Summary.TotalFigures,
		"tables", bm.Summary.TotalTables,
		"equations", bm.Summary.TotalEquations,
		"duration_ms", elapsed.Milliseconds(),
	)
	return bm
}

// FindChapters runs the chapter locator over the document at path.
func (r *Runner) FindChapters(path string) (*locator.Result, error) {
	doc, err := parser.Open(path, r.ParserOptions())
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return r.LocateDocument(doc, r.log.With("file", path))
}

// LocateDocument runs the chapter locator over an already open document.
// The caller closes doc.
func (r *Runner) LocateDocument(doc parser.Document, log *slog.Logger) (*locator.Result, error) {
	if log == nil {
		log = r.log
	}
	start := time.Now()
	log.Info("analyzing document for chapter pattern", "pattern", "Chapter X: ", "pages", doc.NumPages())

	res, err := r.locator(log).Locate(doc)
	if err != nil {
		return nil, fmt.Errorf("locate chapters: %w", err)
	}

	elapsed := time.Since(start)
	r.stats.Record(elapsed.Milliseconds(), doc.NumPages())
	log.Info("located chapters",
		"matches", len(res.Matches),
		"missing", len(res.Missing()),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, nil
}

// SplitChapters locates chapters in the PDF at path and writes one PDF per
// chapter into outDir.
func (r *Runner) SplitChapters(path, outDir string) ([]splitter.Output, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return nil, fmt.Errorf("split %s: %w: only .pdf can be split", path, parser.ErrUnsupported)
	}

	res, err := r.FindChapters(path)
	if err != nil {
		return nil, err
	}
	if len(res.Matches) == 0 {
		return nil, fmt.Errorf("split %s: %w", path, ErrNoChapters)
	}

	sp := splitter.New(r.log.With("file", path))
	pageCount, err := sp.PageCount(path)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}

	plan := splitter.Plan(res.Matches, pageCount)
	r.log.Info("split plan", "file", path, "chapters", len(plan), "pages", pageCount)

	outputs, err := sp.Split(path, outDir, plan)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}
	return outputs, nil
}
