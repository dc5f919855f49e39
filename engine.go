package xlsheet

// Engine is the binary writer that owns a worksheet's accumulated state.
// Coordinates are zero-based and already validated by the facade. A nil
// *Format means no format. Implementations report rejected calls as
// *EngineError.
//
// An Engine is driven by one Worksheet at a time and is not expected to be
// safe for concurrent use.
type Engine interface {
	// Cell writes
	WriteNumber(row, col int, value float64, format *Format) error
	WriteString(row, col int, value string, format *Format) error
	WriteURL(row, col int, url string, format *Format) error
	WriteBlank(row, col int, format *Format) error
	WriteComment(row, col int, text string) error
	WriteBoolean(row, col int, value bool, format *Format) error
	WriteFormula(row, col int, formula string, format *Format) error

	// Sheet state
	Select() error
	Hide() error
	Activate() error
	SetShowZeros(show bool) error
	SetPaper(paper PaperType) error
	SetTabColor(color Color) error

	// Layout
	SetColumn(firstCol, lastCol int, width float64, format *Format, opts *ColumnOptions) error
	SetRow(row int, height float64, format *Format, opts *RowOptions) error
	SetDefaultRow(height float64, hideUnusedRows bool) error
	SetPrintArea(firstRow, firstCol, lastRow, lastCol int) error
	SetAutofilter(firstRow, firstCol, lastRow, lastCol int) error
	SetGridlines(option GridlineOption) error
	MergeRange(firstRow, firstCol, lastRow, lastCol int, text string, format *Format) error

	// Objects
	InsertChart(row, col int, chart *Chart, opts *ChartOptions) error

	// AddTable registers a table over the given extent. The byte slices in
	// opts are NUL-terminated and valid only until AddTable returns; the
	// engine must copy what it keeps. opts.Columns ends with a nil entry.
	AddTable(firstRow, firstCol, lastRow, lastCol int, opts *TableOptions) error
}

// Default sizes used when a caller does not pick one.
const (
	DefaultColumnWidth = 8.43
	DefaultRowHeight   = 15.0
)

// ColumnOptions are the optional per-range flags of SetColumn.
type ColumnOptions struct {
	Hidden    bool
	Level     uint8 // outline level, 0-7
	Collapsed bool
}

// RowOptions are the optional per-row flags of SetRow.
type RowOptions struct {
	Hidden    bool
	Level     uint8 // outline level, 0-7
	Collapsed bool
}

// GridlineOption is a bitmask: bit 0 shows screen gridlines, bit 1 prints them.
type GridlineOption uint8

const (
	GridlinesHideAll    GridlineOption = 0
	GridlinesShowScreen GridlineOption = 1 << 0
	GridlinesShowPrint  GridlineOption = 1 << 1
	GridlinesShowAll    GridlineOption = GridlinesShowScreen | GridlinesShowPrint
)

// Screen reports whether screen gridlines are shown.
func (g GridlineOption) Screen() bool { return g&GridlinesShowScreen != 0 }

// Print reports whether gridlines are printed.
func (g GridlineOption) Print() bool { return g&GridlinesShowPrint != 0 }

// ObjectPosition controls how an inserted object follows cell resizing.
type ObjectPosition int

const (
	PositionDefault ObjectPosition = iota
	PositionMoveAndSize
	PositionMoveDontSize
	PositionDontMoveDontSize
)

// ChartOptions carry the offset, scale and positioning of an inserted chart.
type ChartOptions struct {
	OffsetX     int
	OffsetY     int
	ScaleX      float64
	ScaleY      float64
	Positioning ObjectPosition
}

// TableOptions is the option record handed to Engine.AddTable.
type TableOptions struct {
	Name     []byte // NUL-terminated, nil when the table is unnamed
	Style    TableStyle
	TotalRow bool
	Columns  []*TableColumn // len(headers)+1 entries, the last one nil
}

// TableColumn is the metadata of one table column.
type TableColumn struct {
	Header        []byte // NUL-terminated
	HeaderFormat  *Format
	TotalFunction TotalFunction
}

// CString returns b without its NUL terminator.
func CString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// PaperType is the paper size code used by page setup.
type PaperType int

const (
	PaperDefault   PaperType = 0
	PaperLetter    PaperType = 1
	PaperTabloid   PaperType = 3
	PaperLegal     PaperType = 5
	PaperExecutive PaperType = 7
	PaperA3        PaperType = 8
	PaperA4        PaperType = 9
	PaperA5        PaperType = 11
	PaperB4        PaperType = 12
	PaperB5        PaperType = 13
)

var paperNames = map[string]PaperType{
	"default":   PaperDefault,
	"letter":    PaperLetter,
	"tabloid":   PaperTabloid,
	"legal":     PaperLegal,
	"executive": PaperExecutive,
	"a3":        PaperA3,
	"a4":        PaperA4,
	"a5":        PaperA5,
	"b4":        PaperB4,
	"b5":        PaperB5,
}

// ParsePaper maps a paper name such as "a4" or "letter" to its code.
func ParsePaper(name string) (PaperType, bool) {
	p, ok := paperNames[name]
	return p, ok
}
