// Package report assembles classified records into a book map and
// serializes it.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bookmap/internal/structure"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Summary struct {
	TotalChapters  int `json:"total_chapters" yaml:"total_chapters"`
	TotalFigures   int `json:"total_figures" yaml:"total_figures"`
	TotalTables    int `json:"total_tables" yaml:"total_tables"`
	TotalEquations int `json:"total_equations" yaml:"total_equations"`
}

// Structure is the full record tree. Chapters carry their own sections;
// Sections is the flat list of every section, including those seen before
// the first chapter.
type Structure struct {
	Chapters   []structure.Chapter   `json:"chapters" yaml:"chapters"`
	Sections   []structure.Section   `json:"sections" yaml:"sections"`
	Figures    []structure.Figure    `json:"figures" yaml:"figures"`
	Tables     []structure.Table     `json:"tables" yaml:"tables"`
	Equations  []structure.Equation  `json:"equations" yaml:"equations"`
	References []structure.Reference `json:"references" yaml:"references"`
	Appendices []structure.Appendix  `json:"appendices" yaml:"appendices"`
}

type BookMap struct {
	Summary   Summary   `json:"summary" yaml:"summary"`
	Structure Structure `json:"structure" yaml:"structure"`
}

// Assemble copies col into a BookMap. Nothing is filtered; every list is
// non-nil so empty kinds serialize as [] rather than null.
func Assemble(col *structure.Collection) BookMap {
	if col == nil {
		col = &structure.Collection{}
	}

	chapters := make([]structure.Chapter, 0, len(col.Chapters))
	for _, ch := range col.Chapters {
		c := *ch
		c.Sections = append([]structure.Section{}, ch.Sections...)
		chapters = append(chapters, c)
	}

	return BookMap{
		Summary: Summary{
			TotalChapters:  len(col.Chapters),
			TotalFigures:   len(col.Figures),
			TotalTables:    len(col.Tables),
			TotalEquations: len(col.Equations),
		},
		Structure: Structure{
			Chapters:   chapters,
			Sections:   append([]structure.Section{}, col.Sections...),
			Figures:    append([]structure.Figure{}, col.Figures...),
			Tables:     append([]structure.Table{}, col.Tables...),
			Equations:  append([]structure.Equation{}, col.Equations...),
			References: append([]structure.Reference{}, col.References...),
			Appendices: append([]structure.Appendix{}, col.Appendices...),
		},
	}
}

// ParseFormat normalizes a user-supplied format name. The empty string
// selects JSON.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// ContentType returns the HTTP content type for a format from ParseFormat.
func ContentType(format string) string {
	if format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes bm to w in the given format.
func Encode(w io.Writer, bm BookMap, format string) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(bm); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bm); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}
	return nil
}
