// Package classify turns per-page text into typed structural records.
//
// Each line is tested against the heading rules (chapter, section,
// references, appendix) in that order and claimed by the first match. The
// whole page is then scanned independently for figure and table captions
// and equation numbers, so a caption line may also have been read as a
// heading.
package classify

import (
	"log/slog"
	"strings"

	"github.com/dgallion1/bookmap/internal/parser"
	"github.com/dgallion1/bookmap/internal/structure"
)

// Classifier holds the state of one forward scan. Use a fresh Classifier
// per document.
type Classifier struct {
	log     *slog.Logger
	records *structure.Collection

	// current is the most recent chapter heading; sections attach to it.
	current *structure.Chapter
}

func New(log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Classifier{
		log:     log,
		records: &structure.Collection{},
	}
}

// Scan classifies every page of doc in page order. Pages without
// extractable text are skipped.
func Scan(doc parser.Document, log *slog.Logger) *structure.Collection {
	c := New(log)
	for n := 1; n <= doc.NumPages(); n++ {
		page := doc.Page(n)
		text, ok := page.Text()
		if !ok {
			if err := page.Err(); err != nil {
				c.log.Warn("skipping unreadable page", "page", n, "error", err)
			} else {
				c.log.Debug("page has no text", "page", n)
			}
			continue
		}
		c.ClassifyPage(n, text)
	}
	return c.Records()
}

// Records returns everything classified so far.
func (c *Classifier) Records() *structure.Collection {
	return c.records
}

// ClassifyPage classifies one page and returns the records it produced, in
// the order they were added: line records first, then figures, tables and
// equations.
func (c *Classifier) ClassifyPage(page int, text string) []structure.Record {
	var out []structure.Record
	for _, line := range strings.Split(text, "\n") {
		if rec := c.classifyLine(page, strings.TrimRight(line, " \t\r")); rec != nil {
			out = append(out, rec)
		}
	}
	out = append(out, c.scanCaptions(page, text)...)
	return out
}

func (c *Classifier) classifyLine(page int, line string) structure.Record {
	if m := chapterPattern.FindStringSubmatch(line); m != nil {
		ch := &structure.Chapter{
			Number:   m[1],
			Title:    strings.TrimSpace(m[2]),
			Page:     page,
			Sections: []structure.Section{},
		}
		c.current = ch
		c.records.Add(ch)
		return ch
	}

	if m := sectionPattern.FindStringSubmatch(line); m != nil {
		sec := structure.Section{
			Number: m[1],
			Title:  strings.TrimSpace(m[2]),
			Page:   page,
			Level:  strings.Count(m[1], "."),
		}
		c.records.AddSection(sec, c.current)
		return sec
	}

	if referencesPattern.MatchString(line) {
		ref := structure.Reference{Title: strings.TrimSpace(line), Page: page}
		c.records.Add(ref)
		return ref
	}

	if m := appendixPattern.FindStringSubmatch(line); m != nil {
		app := structure.Appendix{
			Letter: m[1],
			Title:  strings.TrimSpace(m[2]),
			Page:   page,
		}
		c.records.Add(app)
		return app
	}

	return nil
}

func (c *Classifier) scanCaptions(page int, text string) []structure.Record {
	var out []structure.Record

	for _, m := range figurePattern.FindAllStringSubmatch(text, -1) {
		fig := structure.Figure{Number: m[1], Caption: strings.TrimSpace(m[2]), Page: page}
		c.records.Add(fig)
		out = append(out, fig)
	}

	for _, m := range tablePattern.FindAllStringSubmatch(text, -1) {
		tbl := structure.Table{Number: m[1], Caption: strings.TrimSpace(m[2]), Page: page}
		c.records.Add(tbl)
		out = append(out, tbl)
	}

	for _, m := range equationPattern.FindAllStringSubmatch(text, -1) {
		eq := structure.Equation{Number: m[1], Page: page}
		c.records.Add(eq)
		out = append(out, eq)
	}

	return out
}
