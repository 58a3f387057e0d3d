package classify

import "regexp"

// Line rules, tried in this order; the first that matches claims the line.
var (
	// "Chapter 3. Storage Engines", "CHAPTER IV: Results". The number is
	// kept as written; roman numerals are never converted.
	chapterPattern = regexp.MustCompile(`^(?:Chapter|CHAPTER)\s+(\d+|[IVXLC]+)[.:]\s*(.+)`)

	// "3 Overview", "3.2 Indexes", "2.3.1 Write-Ahead Logs". A trailing dot
	// after the number ("3. Overview") is accepted but not kept.
	sectionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+(.+)`)

	referencesPattern = regexp.MustCompile(`(?i)^(?:References|Bibliography)$`)

	appendixPattern = regexp.MustCompile(`^Appendix\s+([A-Z]):\s*(.+)`)
)

// Page rules, scanned over the whole page text. Captions end at the line end
// and must contain a non-blank character; "Figure 9:" alone is not a caption.
var (
	figurePattern   = regexp.MustCompile(`Figure\s+(\d+\.?\d*)[.:][ \t]*(\S.*)`)
	tablePattern    = regexp.MustCompile(`Table\s+(\d+\.?\d*)[.:][ \t]*(\S.*)`)
	equationPattern = regexp.MustCompile(`(?i)\(\s*(?:eq|equation)?\s*(\d+\.?\d*)\s*\)`)
)
