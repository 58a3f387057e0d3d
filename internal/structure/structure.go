package structure

// Kind identifies which structural unit a Record describes.
type Kind string

const (
	KindChapter   Kind = "chapter"
	KindSection   Kind = "section"
	KindFigure    Kind = "figure"
	KindTable     Kind = "table"
	KindEquation  Kind = "equation"
	KindReference Kind = "reference"
	KindAppendix  Kind = "appendix"
)

// Record is one classified unit of document structure.
type Record interface {
	Kind() Kind
	PageNumber() int
}

// Chapter is a chapter heading. Number is kept as written, so it may be
// roman ("IV") or arabic ("4").
type Chapter struct {
	Number   string    `json:"number" yaml:"number"`
	Title    string    `json:"title" yaml:"title"`
	Page     int       `json:"page" yaml:"page"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section is a dotted-number heading such as "2.3.1". Level counts the dots.
type Section struct {
	Number string `json:"number" yaml:"number"`
	Title  string `json:"title" yaml:"title"`
	Page   int    `json:"page" yaml:"page"`
	Level  int    `json:"level" yaml:"level"`
}

type Figure struct {
	Number  string `json:"number" yaml:"number"`
	Caption string `json:"caption" yaml:"caption"`
	Page    int    `json:"page" yaml:"page"`
}

type Table struct {
	Number  string `json:"number" yaml:"number"`
	Caption string `json:"caption" yaml:"caption"`
	Page    int    `json:"page" yaml:"page"`
}

// Equation is a parenthesized equation number; it carries no caption.
type Equation struct {
	Number string `json:"number" yaml:"number"`
	Page   int    `json:"page" yaml:"page"`
}

// Reference is a "References" or "Bibliography" heading.
type Reference struct {
	Title string `json:"title" yaml:"title"`
	Page  int    `json:"page" yaml:"page"`
}

type Appendix struct {
	Letter string `json:"letter" yaml:"letter"`
	Title  string `json:"title" yaml:"title"`
	Page   int    `json:"page" yaml:"page"`
}

func (*Chapter) Kind() Kind { return KindChapter }
func (Section) Kind() Kind { return KindSection }
func (Figure) Kind() Kind { return KindFigure }
func (Table) Kind() Kind { return KindTable }
func (Equation) Kind() Kind { return KindEquation }
func (Reference) Kind() Kind { return KindReference }
func (Appendix) Kind() Kind { return KindAppendix }

func (c *Chapter) PageNumber() int { return c.Page }
func (s Section) PageNumber() int { return s.Page }
func (f Figure) PageNumber() int { return f.Page }
func (t Table) PageNumber() int { return t.Page }
func (e Equation) PageNumber() int { return e.Page }
func (r Reference) PageNumber() int { return r.Page }
func (a Appendix) PageNumber() int { return a.Page }

// Collection holds every record produced by one scan, one slice per kind,
// each in page-scan order.
type Collection struct {
	Chapters   []*Chapter
	Sections   []Section
	Figures    []Figure
	Tables     []Table
	Equations  []Equation
	References []Reference
	Appendices []Appendix
}

// Add appends rec to the slice for its kind. Sections added here have no
// parent chapter; use AddSection to attach one.
func (c *Collection) Add(rec Record) {
	switch r := rec.(type) {
	case *Chapter:
		c.Chapters = append(c.Chapters, r)
	case Section:
		c.Sections = append(c.Sections, r)
	case Figure:
		c.Figures = append(c.Figures, r)
	case Table:
		c.Tables = append(c.Tables, r)
	case Equation:
		c.Equations = append(c.Equations, r)
	case Reference:
		c.References = append(c.References, r)
	case Appendix:
		c.Appendices = append(c.Appendices, r)
	}
}

// AddSection records sec globally and, when parent is non-nil, as the
// parent's next child.
func (c *Collection) AddSection(sec Section, parent *Chapter) {
	if parent != nil {
		parent.Sections = append(parent.Sections, sec)
	}
	c.Sections = append(c.Sections, sec)
}

// Len returns the total number of records across all kinds. Child sections
// are counted once, through the global list.
func (c *Collection) Len() int {
	return len(c.Chapters) + len(c.Sections) + len(c.Figures) + len(c.Tables) +
		len(c.Equations) + len(c.References) + len(c.Appendices)
}
