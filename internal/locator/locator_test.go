package locator

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/bookmap/internal/parser"
)

type fakePage struct {
	text     string
	words    []parser.Word
	wordsErr error
	err      error
}

func (p fakePage) Text() (string, bool) {
	if strings.TrimSpace(p.text) == "" {
		return "", false
	}
	return p.text, true
}

func (p fakePage) Words() ([]parser.Word, error) {
	return p.words, p.wordsErr
}

func (p fakePage) Err() error {
	return p.err
}

type fakeDoc []fakePage

func (d fakeDoc) NumPages() int { return len(d) }
func (d fakeDoc) Page(n int) parser.Page { return d[n-1] }
func (d fakeDoc) Close() error { return nil }

func TestLocateSingleMatch(t *testing.T) {
	doc := parser.NewTextDocument("...intro text... Chapter 7: The Great Divide ...more...")

	res, err := New(Options{}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(res.Matches))
	}

	m := res.Matches[0]
	if m.Chapter != 7 || m.PageIndex != 0 || m.Page() != 1 {
		t.Errorf("unexpected match %+v", m)
	}
	if m.MatchedText != "Chapter 7: " {
		t.Errorf("expected matched text %q, got %q", "Chapter 7: ", m.MatchedText)
	}
	if m.Context != "...intro text... Chapter 7: The Great Divide ...more..." {
		t.Errorf("unexpected context %q", m.Context)
	}
	if m.FontSize != nil {
		t.Errorf("expected no font size for a text document, got %v", *m.FontSize)
	}
}

func TestLocateIgnoresLooseHeadings(t *testing.T) {
	doc := parser.NewTextDocument(
		"Chapter 7. The Great Divide",
		"Chapter 7:The Great Divide",
		"chapter 7: lowercase",
		"Chapter VII: Roman",
	)

	res, err := New(Options{}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if len(res.Matches) != 0 {
		t.Errorf("expected no matches, got %+v", res.Matches)
	}
}

func TestLocateContextIsClipped(t *testing.T) {
	before := strings.Repeat("a", 50)
	after := strings.Repeat("b", 50)
	doc := parser.NewTextDocument(before + "Chapter 3: " + after)

	res, err := New(Options{}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	want := strings.Repeat("a", 30) + "Chapter 3: " + strings.Repeat("b", 30)
	if got := res.Matches[0].Context; got != want {
		t.Errorf("expected context %q, got %q", want, got)
	}
}

func TestLocateContextFlattensLineBreaks(t *testing.T) {
	doc := parser.NewTextDocument("Part One\nChapter 2: Models\r\nof data\n")

	res, err := New(Options{}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got := res.Matches[0].Context; got != "Part One Chapter 2: Models of data" {
		t.Errorf("unexpected context %q", got)
	}
}

func TestLocateContextCountsCharacters(t *testing.T) {
	doc := parser.NewTextDocument(strings.Repeat("é", 40) + "Chapter 5: x")

	res, err := New(Options{ContextChars: 3}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got := res.Matches[0].Context; got != "éééChapter 5: x" {
		t.Errorf("unexpected context %q", got)
	}
}

func TestLocateChapterRange(t *testing.T) {
	doc := parser.NewTextDocument("Chapter 0: Zero Chapter 25: Last Chapter 26: Over Chapter 99: Far")

	res, err := New(Options{}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Chapter != 25 {
		t.Errorf("expected only chapter 25, got %+v", res.Matches)
	}

	res, err = New(Options{MinChapter: 26, MaxChapter: 99}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got := chapters(res); !reflect.DeepEqual(got, []int{26, 99}) {
		t.Errorf("expected chapters [26 99], got %v", got)
	}
}

func TestLocateSortsByChapterStably(t *testing.T) {
	doc := parser.NewTextDocument(
		"Contents: Chapter 1: A Chapter 2: B Chapter 3: C",
		"Chapter 2: B",
		"",
		"Chapter 1: A",
	)

	res, err := New(Options{}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got := chapters(res); !reflect.DeepEqual(got, []int{1, 1, 2, 2, 3}) {
		t.Fatalf("unexpected chapter order %v", got)
	}
	if got := res.SplitPages(); !reflect.DeepEqual(got, []int{1, 4, 1, 2, 1}) {
		t.Errorf("unexpected split pages %v", got)
	}
	if res.TotalPages != 4 {
		t.Errorf("expected 4 total pages, got %d", res.TotalPages)
	}
}

func TestLocateFontSizeFromFirstChapterWord(t *testing.T) {
	doc := fakeDoc{
		{
			text: "Chapter 4: Encoding",
			words: []parser.Word{
				{Text: "Part", Size: 9},
				{Text: "Chapter", Size: 24},
				{Text: "Chapter", Size: 11},
			},
		},
		{
			text:  "see Chapter 4: Encoding",
			words: []parser.Word{{Text: "see", Size: 10}},
		},
	}

	res, err := New(Options{}, nil).Locate(doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(res.Matches))
	}
	if fs := res.Matches[0].FontSize; fs == nil || *fs != 24 {
		t.Errorf("expected font size 24, got %v", fs)
	}
	if fs := res.Matches[1].FontSize; fs != nil {
		t.Errorf("expected no font size, got %v", *fs)
	}
}

func TestLocateWordErrorDiscardsResults(t *testing.T) {
	doc := fakeDoc{
		{text: "Chapter 1: Fine"},
		{text: "Chapter 2: Broken", wordsErr: errors.New("bad content stream")},
	}

	res, err := New(Options{}, nil).Locate(doc)
	if err == nil {
		t.Fatal("expected error")
	}
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}
	if !strings.Contains(err.Error(), "page 2") {
		t.Errorf("expected page number in error, got %v", err)
	}
}

func TestLocateUnreadablePageDiscardsResults(t *testing.T) {
	doc := fakeDoc{
		{text: "Chapter 1: Fine"},
		{err: errors.New("read page content: bad stream")},
		{text: "Chapter 2: Later"},
	}

	res, err := New(Options{}, nil).Locate(doc)
	if err == nil {
		t.Fatal("expected error for unreadable page")
	}
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}
	if !strings.Contains(err.Error(), "scan page 2") {
		t.Errorf("expected page number in error, got %v", err)
	}
}

func TestMissingChapters(t *testing.T) {
	res := &Result{Matches: []Match{{Chapter: 1}, {Chapter: 2}, {Chapter: 4}, {Chapter: 5}}}
	if got := res.Missing(); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("expected [3], got %v", got)
	}

	res = &Result{Matches: []Match{{Chapter: 3}, {Chapter: 3}}}
	if got := res.Missing(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", got)
	}

	res = &Result{}
	if got := res.Missing(); len(got) != 0 {
		t.Errorf("expected no missing chapters, got %v", got)
	}
}

func chapters(res *Result) []int {
	var out []int
	for _, m := range res.Matches {
		out = append(out, m.Chapter)
	}
	return out
}
