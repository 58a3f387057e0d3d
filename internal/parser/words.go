package parser

import (
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

const (
	// rowTolerance is how far apart two baselines may be, in points, and
	// still count as the same line.
	rowTolerance = 2.0

	// wordGapFactor scales the font size into the horizontal gap that
	// starts a new word.
	wordGapFactor = 0.3
)

type textLine struct {
	y     float64
	words []Word
}

type glyphRow struct {
	y      float64
	glyphs []pdflib.Text
}

// layoutLines groups glyph runs into lines (top of page first) and splits
// each line into words on blanks or wide gaps.
func layoutLines(texts []pdflib.Text) []textLine {
	var rows []*glyphRow
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		var row *glyphRow
		for _, r := range rows {
			if math.Abs(r.y-t.Y) <= rowTolerance {
				row = r
				break
			}
		}
		if row == nil {
			row = &glyphRow{y: t.Y}
			rows = append(rows, row)
		}
		row.glyphs = append(row.glyphs, t)
	}

	// PDF Y grows upwards, so the first line has the largest Y.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]textLine, 0, len(rows))
	for _, r := range rows {
		sort.SliceStable(r.glyphs, func(i, j int) bool { return r.glyphs[i].X < r.glyphs[j].X })
		words := rowWords(r.glyphs)
		if len(words) > 0 {
			lines = append(lines, textLine{y: r.y, words: words})
		}
	}
	return lines
}

func rowWords(glyphs []pdflib.Text) []Word {
	var words []Word
	var buf strings.Builder
	var size, lastEnd float64

	flush := func() {
		if buf.Len() > 0 {
			words = append(words, Word{Text: buf.String(), Size: size})
			buf.Reset()
		}
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			flush()
			lastEnd = g.X + g.W
			continue
		}
		if buf.Len() > 0 && g.X-lastEnd > wordGapFactor*math.Max(size, 1) {
			flush()
		}
		if buf.Len() == 0 {
			size = g.FontSize
		}
		buf.WriteString(g.S)
		lastEnd = g.X + g.W
	}
	flush()
	return words
}

func joinLines(lines []textLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		parts := make([]string, len(line.words))
		for j, w := range line.words {
			parts[j] = w.Text
		}
		out[i] = strings.Join(parts, " ")
	}
	return strings.Join(out, "\n")
}
