package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/bookmap/internal/config"
	"github.com/dgallion1/bookmap/internal/parser"
)

func testConfig() config.Config {
	return config.Config{
		LocatorContextChars: 30,
		LocatorMinChapter:   1,
		LocatorMaxChapter:   25,
		ProgressEvery:       10,
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleBook = "Contents Chapter 1: Foundations Chapter 2: Storage\n" +
	"\fChapter 1: Foundations\n1.1 Reliability\nFigure 1.1: Load\n" +
	"\fChapter 2: Storage\n2.1 Indexes\nTable 2.1: Costs\n(2.1)\n" +
	"\fReferences"

func TestMapBook(t *testing.T) {
	r := NewRunner(testConfig(), nil, nil)

	bm, err := r.MapBook(writeFile(t, "book.txt", sampleBook))
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if bm.Summary.TotalChapters != 2 {
		t.Errorf("expected 2 chapters, got %d", bm.Summary.TotalChapters)
	}
	if bm.Summary.TotalFigures != 1 || bm.Summary.TotalTables != 1 || bm.Summary.TotalEquations != 1 {
		t.Errorf("unexpected summary %+v", bm.Summary)
	}
	if got := bm.Structure.Chapters[1]; got.Page != 3 || len(got.Sections) != 1 {
		t.Errorf("unexpected chapter %+v", got)
	}
	if len(bm.Structure.References) != 1 || bm.Structure.References[0].Page != 4 {
		t.Errorf("unexpected references %+v", bm.Structure.References)
	}

	if snap := r.Stats().Snapshot(); snap.Count != 1 || snap.Pages != 4 {
		t.Errorf("expected one recorded scan of 4 pages, got %+v", snap)
	}
}

func TestMapBookIsRepeatable(t *testing.T) {
	r := NewRunner(testConfig(), nil, nil)
	path := writeFile(t, "book.txt", sampleBook)

	first, err := r.MapBook(path)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	second, err := r.MapBook(path)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if len(first.Structure.Chapters[0].Sections) != len(second.Structure.Chapters[0].Sections) {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestMapBookNotFound(t *testing.T) {
	r := NewRunner(testConfig(), nil, nil)
	_, err := r.MapBook(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, parser.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindChapters(t *testing.T) {
	r := NewRunner(testConfig(), nil, nil)

	res, err := r.FindChapters(writeFile(t, "book.txt", sampleBook))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(res.Matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(res.Matches))
	}
	pages := res.SplitPages()
	want := []int{1, 2, 1, 3}
	for i := range want {
		if pages[i] != want[i] {
			t.Fatalf("expected split pages %v, got %v", want, pages)
		}
	}
	if len(res.Missing()) != 0 {
		t.Errorf("expected no missing chapters, got %v", res.Missing())
	}
}

func TestFindChaptersHonorsRange(t *testing.T) {
	cfg := testConfig()
	cfg.LocatorMaxChapter = 1
	r := NewRunner(cfg, nil, nil)

	res, err := r.FindChapters(writeFile(t, "book.txt", sampleBook))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	for _, m := range res.Matches {
		if m.Chapter != 1 {
			t.Errorf("unexpected chapter %d", m.Chapter)
		}
	}
}

func TestSplitChaptersRequiresPDF(t *testing.T) {
	r := NewRunner(testConfig(), nil, nil)
	_, err := r.SplitChapters(writeFile(t, "book.txt", sampleBook), t.TempDir())
	if !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestSplitChaptersNotFound(t *testing.T) {
	r := NewRunner(testConfig(), nil, nil)
	_, err := r.SplitChapters(filepath.Join(t.TempDir(), "missing.pdf"), t.TempDir())
	if !errors.Is(err, parser.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
