package locator

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

const ruleWidth = 100

// Render prints r as the operator-facing chapter table.
func Render(w io.Writer, r *Result) error {
	p := &printer{w: w}

	if r == nil || len(r.Matches) == 0 {
		p.println("\nNo chapters found! Check if the pattern 'Chapter X: ' matches exactly.")
		return p.err
	}

	rule := strings.Repeat("-", ruleWidth)
	p.println("\nFound chapters:")
	p.println(rule)
	p.printf("%-10s %-8s %-12s %-20s %s\n", "Chapter", "Page", "Font Size", "Matched Text", "Context")
	p.println(rule)

	for _, m := range r.Matches {
		p.printf("Chapter %-3d %-8d %-12s %-20s %s\n",
			m.Chapter, m.Page(), fontLabel(m.FontSize), truncate(m.MatchedText, 20), shortContext(m.Context))
	}

	p.printf("\nTotal chapters found: %d\n", len(r.Matches))
	p.printf("Page numbers for splitting: %s\n", intList(r.SplitPages()))
	if missing := r.Missing(); len(missing) > 0 {
		p.printf("Missing chapters: %s\n", intList(missing))
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

func fontLabel(size *float64) string {
	if size == nil || *size == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", *size)
}

func shortContext(s string) string {
	if utf8.RuneCountInString(s) > 40 {
		return string([]rune(s)[:37]) + "..."
	}
	return s
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) > n {
		return string([]rune(s)[:n])
	}
	return s
}

// intList formats like "[1, 5, 12]".
func intList(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
