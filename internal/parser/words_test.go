package parser

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

// glyphs lays s out left to right at y, one glyph per byte.
func glyphs(s string, x, y, size float64) []pdflib.Text {
	out := make([]pdflib.Text, 0, len(s))
	w := size * 0.5
	for i := 0; i < len(s); i++ {
		out = append(out, pdflib.Text{
			FontSize: size,
			X:        x + float64(i)*w,
			Y:        y,
			W:        w,
			S:        string(s[i]),
		})
	}
	return out
}

func TestLayoutLines_OrdersTopToBottom(t *testing.T) {
	var texts []pdflib.Text
	texts = append(texts, glyphs("body text", 72, 600, 10)...)
	texts = append(texts, glyphs("Chapter 7: The Great Divide", 72, 700, 24)...)

	lines := layoutLines(texts)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	got := joinLines(lines)
	want := "Chapter 7: The Great Divide\nbody text"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLayoutLines_WordSizes(t *testing.T) {
	texts := glyphs("Chapter 7:", 72, 700, 24)
	lines := layoutLines(texts)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	words := lines[0].words
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Text != "Chapter" || words[0].Size != 24 {
		t.Errorf("unexpected first word %+v", words[0])
	}
}

func TestLayoutLines_GapSplitsWords(t *testing.T) {
	// Two runs on one baseline with no blank glyph between them but a wide gap.
	texts := append(glyphs("Figure", 72, 500, 10), glyphs("4.2", 200, 500, 10)...)
	lines := layoutLines(texts)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if got := joinLines(lines); got != "Figure 4.2" {
		t.Errorf("expected %q, got %q", "Figure 4.2", got)
	}
}

func TestLayoutLines_BaselineTolerance(t *testing.T) {
	// A glyph 1pt off the baseline (e.g. a superscript shift) stays on the line.
	texts := glyphs("ab", 72, 500, 10)
	texts[1].Y = 501
	lines := layoutLines(texts)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}

func TestLayoutLines_Empty(t *testing.T) {
	if lines := layoutLines(nil); len(lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lines))
	}
}
