// Package locator finds "Chapter N: " headings for splitting a book by
// chapter. Its rule is deliberately stricter than the classifier's chapter
// heading rule: only arabic numbers followed by a colon and one space count.
// The two rules are kept separate.
package locator

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/bookmap/internal/parser"
)

var (
	chapterPattern = regexp.MustCompile(`Chapter (\d{1,2}): `)
	lineBreaks     = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// Match is one located chapter heading.
type Match struct {
	Chapter int `json:"chapter"`
	// PageIndex is zero-based.
	PageIndex   int      `json:"page_index"`
	FontSize    *float64 `json:"font_size"`
	Context     string   `json:"context"`
	MatchedText string   `json:"matched_text"`
}

// Page returns the 1-based page number.
func (m Match) Page() int {
	return m.PageIndex + 1
}

// Result holds the matches of one scan, ordered by chapter number. Matches
// with the same number keep their page order.
type Result struct {
	Matches    []Match `json:"matches"`
	TotalPages int     `json:"total_pages"`
}

// SplitPages returns the 1-based page of every match, in result order.
func (r *Result) SplitPages() []int {
	pages := make([]int, len(r.Matches))
	for i, m := range r.Matches {
		pages[i] = m.Page()
	}
	return pages
}

// Missing returns the chapter numbers between 1 and the highest found
// chapter that were not found, ascending.
func (r *Result) Missing() []int {
	found := make(map[int]bool, len(r.Matches))
	maxChapter := 0
	for _, m := range r.Matches {
		found[m.Chapter] = true
		if m.Chapter > maxChapter {
			maxChapter = m.Chapter
		}
	}

	missing := []int{}
	for n := 1; n <= maxChapter; n++ {
		if !found[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

// Options tunes a Locator. Zero values select the defaults.
type Options struct {
	MinChapter    int
	MaxChapter    int
	ContextChars  int
	ProgressEvery int
}

func DefaultOptions() Options {
	return Options{
		MinChapter:    1,
		MaxChapter:    25,
		ContextChars:  30,
		ProgressEvery: 10,
	}
}

type Locator struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options, log *slog.Logger) *Locator {
	def := DefaultOptions()
	if opts.MinChapter <= 0 {
		opts.MinChapter = def.MinChapter
	}
	if opts.MaxChapter <= 0 {
		opts.MaxChapter = def.MaxChapter
	}
	if opts.ContextChars <= 0 {
		opts.ContextChars = def.ContextChars
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = def.ProgressEvery
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Locator{opts: opts, log: log}
}

// Locate scans every page of doc. On any error the partial result is
// discarded.
func (l *Locator) Locate(doc parser.Document) (*Result, error) {
	total := doc.NumPages()
	res := &Result{Matches: []Match{}, TotalPages: total}

	for idx := 0; idx < total; idx++ {
		if idx%l.opts.ProgressEvery == 0 {
			l.log.Info("scanning page", "page", idx+1, "total", total)
		}

		matches, err := l.scanPage(doc.Page(idx+1), idx)
		if err != nil {
			return nil, fmt.Errorf("scan page %d: %w", idx+1, err)
		}
		res.Matches = append(res.Matches, matches...)
	}

	sort.SliceStable(res.Matches, func(i, j int) bool {
		return res.Matches[i].Chapter < res.Matches[j].Chapter
	})
	return res, nil
}

func (l *Locator) scanPage(page parser.Page, idx int) ([]Match, error) {
	if err := page.Err(); err != nil {
		return nil, err
	}
	text, ok := page.Text()
	if !ok {
		return nil, nil
	}

	var out []Match
	fontLooked := false
	var fontSize *float64

	for _, loc := range chapterPattern.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		if n < l.opts.MinChapter || n > l.opts.MaxChapter {
			continue
		}

		if !fontLooked {
			fontSize, err = headingFontSize(page)
			if err != nil {
				return nil, err
			}
			fontLooked = true
		}

		out = append(out, Match{
			Chapter:     n,
			PageIndex:   idx,
			FontSize:    fontSize,
			Context:     contextAround(text, loc[0], loc[1], l.opts.ContextChars),
			MatchedText: text[loc[0]:loc[1]],
		})
	}
	return out, nil
}

// headingFontSize returns the size of the first word on the page containing
// "Chapter", or nil when the page has no such word or no font metadata.
func headingFontSize(page parser.Page) (*float64, error) {
	words, err := page.Words()
	if err != nil {
		return nil, fmt.Errorf("read words: %w", err)
	}
	for _, w := range words {
		if strings.Contains(w.Text, "Chapter") {
			size := w.Size
			return &size, nil
		}
	}
	return nil, nil
}

// contextAround returns up to width characters on each side of
// text[start:end], clipped at the text bounds, with line breaks flattened.
func contextAround(text string, start, end, width int) string {
	from := start
	for i := 0; i < width && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for i := 0; i < width && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	return strings.TrimSpace(lineBreaks.Replace(text[from:to]))
}
