// Package splitter cuts a PDF into one file per located chapter.
package splitter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgallion1/bookmap/internal/locator"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Range is an inclusive 1-based page span belonging to one chapter.
type Range struct {
	Chapter int `json:"chapter"`
	Start   int `json:"start"`
	End     int `json:"end"`
}

func (r Range) Pages() string {
	if r.Start == r.End {
		return fmt.Sprint(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Plan picks one start page per chapter and derives page ranges.
//
// A chapter number often matches more than once (table of contents, running
// headers, the heading itself). The occurrence with the larger known font
// size wins; on a tie, or when sizes are unknown, the later page wins.
// Chapters whose chosen start does not come after the previous chapter's
// start are dropped. Each range ends the page before the next one starts and
// the last runs to pageCount.
func Plan(matches []locator.Match, pageCount int) []Range {
	best := make(map[int]locator.Match)
	for _, m := range matches {
		cur, ok := best[m.Chapter]
		if !ok || preferred(m, cur) {
			best[m.Chapter] = m
		}
	}

	chapters := make([]int, 0, len(best))
	for n := range best {
		chapters = append(chapters, n)
	}
	sort.Ints(chapters)

	var plan []Range
	for _, n := range chapters {
		start := best[n].Page()
		if start > pageCount {
			continue
		}
		if len(plan) > 0 && start <= plan[len(plan)-1].Start {
			continue
		}
		plan = append(plan, Range{Chapter: n, Start: start})
	}

	for i := range plan {
		if i+1 < len(plan) {
			plan[i].End = plan[i+1].Start - 1
		} else {
			plan[i].End = pageCount
		}
	}
	return plan
}

func preferred(a, b locator.Match) bool {
	as, bs := fontSize(a), fontSize(b)
	if as != bs {
		return as > bs
	}
	return a.PageIndex > b.PageIndex
}

func fontSize(m locator.Match) float64 {
	if m.FontSize == nil {
		return 0
	}
	return *m.FontSize
}

// Output is one written chapter file.
type Output struct {
	Range
	Path string `json:"path"`
}

var disableConfigDir sync.Once

// Splitter writes chapter files with pdfcpu.
type Splitter struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Splitter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Splitter{log: log}
}

// PageCount returns the number of pages of the PDF at path.
func (s *Splitter) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// Split writes one PDF per range into outDir, named after the input file and
// the chapter number.
func (s *Splitter) Split(inFile, outDir string, plan []Range) ([]Output, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	base := strings.TrimSuffix(filepath.Base(inFile), filepath.Ext(inFile))
	outputs := make([]Output, 0, len(plan))
	for _, r := range plan {
		out := filepath.Join(outDir, fmt.Sprintf("%s_chapter_%02d.pdf", base, r.Chapter))
		if err := api.TrimFile(inFile, out, []string{r.Pages()}, conf); err != nil {
			return nil, fmt.Errorf("write chapter %d: %w", r.Chapter, err)
		}
		s.log.Info("wrote chapter", "chapter", r.Chapter, "pages", r.Pages(), "path", out)
		outputs = append(outputs, Output{Range: r, Path: out})
	}
	return outputs, nil
}
