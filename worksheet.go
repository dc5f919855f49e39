package xlsheet

import (
	"fmt"
	"time"
)

// Worksheet is the typed facade over one engine worksheet. It holds a
// non-owning reference to the engine and never closes it.
//
// A Worksheet is not safe for concurrent use; callers serialise access.
type Worksheet struct {
	name   string
	engine Engine
	opts   *Options
}

// NewWorksheet creates a facade over engine.
func NewWorksheet(name string, engine Engine, opts ...Option) *Worksheet {
	return newWorksheet(name, engine, buildOptions(opts))
}

func newWorksheet(name string, engine Engine, o *Options) *Worksheet {
	return &Worksheet{name: name, engine: engine, opts: o}
}

// Name returns the worksheet name.
func (ws *Worksheet) Name() string {
	return ws.name
}

// Engine returns the engine the worksheet writes to.
func (ws *Worksheet) Engine() Engine {
	return ws.engine
}

// fail wraps an engine error and logs the rejection.
func (ws *Worksheet) fail(op, ref string, err error) error {
	we := newWriteError(op, ref, err)
	ws.opts.logger.Debug().
		Str("sheet", ws.name).
		Str("op", op).
		Str("ref", ref).
		Int("code", int(we.Code)).
		Err(err).
		Msg("engine rejected call")
	return we
}

// WriteValue writes v at cell. The format is ignored for comments.
func (ws *Worksheet) WriteValue(cell Cell, v Value, format *Format) error {
	const op = "WriteValue"
	if err := cell.Validate(); err != nil {
		return invalid(op, cell.Name(), err)
	}
	if v == nil {
		return invalid(op, cell.Name(), ErrNilValue)
	}
	if u, ok := v.(URL); ok && u.IsZero() {
		return invalid(op, cell.Name(), fmt.Errorf("%w: empty", ErrInvalidURL))
	}
	if err := ws.dispatch(cell, v, format); err != nil {
		return ws.fail(op, cell.Name(), err)
	}
	return nil
}

func (ws *Worksheet) dispatch(cell Cell, v Value, format *Format) error {
	r, c := cell.Row, cell.Col
	switch x := v.(type) {
	case Number:
		return ws.engine.WriteNumber(r, c, float64(x), format)
	case Text:
		return ws.engine.WriteString(r, c, string(x), format)
	case URL:
		return ws.engine.WriteURL(r, c, x.String(), format)
	case Blank:
		return ws.engine.WriteBlank(r, c, format)
	case Comment:
		return ws.engine.WriteComment(r, c, string(x))
	case Bool:
		return ws.engine.WriteBoolean(r, c, bool(x), format)
	case Formula:
		return ws.engine.WriteFormula(r, c, string(x), format)
	case DateTime:
		return ws.engine.WriteNumber(r, c, SerialDate(x.Time()), format)
	default:
		panic(fmt.Sprintf("xlsheet: unhandled value kind %v", v.Kind()))
	}
}

// WriteNumber writes a number.
func (ws *Worksheet) WriteNumber(cell Cell, v float64, format *Format) error {
	return ws.WriteValue(cell, Number(v), format)
}

// WriteString writes text.
func (ws *Worksheet) WriteString(cell Cell, s string, format *Format) error {
	return ws.WriteValue(cell, Text(s), format)
}

// WriteURL parses raw and writes it as a hyperlink.
func (ws *Worksheet) WriteURL(cell Cell, raw string, format *Format) error {
	u, err := ParseURL(raw)
	if err != nil {
		return invalid("WriteURL", cell.Name(), err)
	}
	return ws.WriteValue(cell, u, format)
}

// WriteBlank applies format to an empty cell.
func (ws *Worksheet) WriteBlank(cell Cell, format *Format) error {
	return ws.WriteValue(cell, Blank{}, format)
}

// WriteComment attaches a comment to cell.
func (ws *Worksheet) WriteComment(cell Cell, text string) error {
	return ws.WriteValue(cell, Comment(text), nil)
}

// WriteBoolean writes a boolean.
func (ws *Worksheet) WriteBoolean(cell Cell, v bool, format *Format) error {
	return ws.WriteValue(cell, Bool(v), format)
}

// WriteFormula writes formula text.
func (ws *Worksheet) WriteFormula(cell Cell, formula string, format *Format) error {
	return ws.WriteValue(cell, Formula(formula), format)
}

// WriteDateTime writes t as a serial day number. Pass a date number format
// to have it displayed as a date.
func (ws *Worksheet) WriteDateTime(cell Cell, t time.Time, format *Format) error {
	return ws.WriteValue(cell, DateTime(t), format)
}

// checkSpan validates that n cells starting at cell and advancing by
// (dRow, dCol) stay on the worksheet.
func checkSpan(op string, cell Cell, n, dRow, dCol int) error {
	if err := cell.Validate(); err != nil {
		return invalid(op, cell.Name(), err)
	}
	if n == 0 {
		return nil
	}
	end := cell.Offset(dRow*(n-1), dCol*(n-1))
	if err := end.Validate(); err != nil {
		return invalid(op, cell.Name(), fmt.Errorf("%d values from %s: %w", n, cell, err))
	}
	return nil
}

// WriteColumn writes values downwards from cell, one row per value.
func (ws *Worksheet) WriteColumn(cell Cell, values []Value, format *Format) error {
	if err := checkSpan("WriteColumn", cell, len(values), 1, 0); err != nil {
		return err
	}
	for i, v := range values {
		if err := ws.WriteValue(cell.Offset(i, 0), v, format); err != nil {
			return err
		}
	}
	return nil
}

// WriteRow writes values rightwards from cell, one column per value.
func (ws *Worksheet) WriteRow(cell Cell, values []Value, format *Format) error {
	if err := checkSpan("WriteRow", cell, len(values), 0, 1); err != nil {
		return err
	}
	for i, v := range values {
		if err := ws.WriteValue(cell.Offset(0, i), v, format); err != nil {
			return err
		}
	}
	return nil
}

// WriteNumbers writes numbers rightwards from cell without value dispatch.
func (ws *Worksheet) WriteNumbers(cell Cell, values []float64, format *Format) error {
	const op = "WriteNumbers"
	if err := checkSpan(op, cell, len(values), 0, 1); err != nil {
		return err
	}
	for i, v := range values {
		c := cell.Offset(0, i)
		if err := ws.engine.WriteNumber(c.Row, c.Col, v, format); err != nil {
			return ws.fail(op, c.Name(), err)
		}
	}
	return nil
}

// WriteStrings writes strings rightwards from cell without value dispatch.
func (ws *Worksheet) WriteStrings(cell Cell, values []string, format *Format) error {
	const op = "WriteStrings"
	if err := checkSpan(op, cell, len(values), 0, 1); err != nil {
		return err
	}
	for i, v := range values {
		c := cell.Offset(0, i)
		if err := ws.engine.WriteString(c.Row, c.Col, v, format); err != nil {
			return ws.fail(op, c.Name(), err)
		}
	}
	return nil
}

// Select marks the worksheet tab as selected.
func (ws *Worksheet) Select() error {
	if err := ws.engine.Select(); err != nil {
		return ws.fail("Select", "", err)
	}
	return nil
}

// Hide hides the worksheet.
func (ws *Worksheet) Hide() error {
	if err := ws.engine.Hide(); err != nil {
		return ws.fail("Hide", "", err)
	}
	return nil
}

// Activate makes the worksheet the one shown when the file is opened.
func (ws *Worksheet) Activate() error {
	if err := ws.engine.Activate(); err != nil {
		return ws.fail("Activate", "", err)
	}
	return nil
}

// ShowZeros controls whether zero values are displayed.
func (ws *Worksheet) ShowZeros(show bool) error {
	if err := ws.engine.SetShowZeros(show); err != nil {
		return ws.fail("ShowZeros", "", err)
	}
	return nil
}

// SetPaper sets the printed paper size.
func (ws *Worksheet) SetPaper(paper PaperType) error {
	if paper < 0 {
		return invalid("SetPaper", "", fmt.Errorf("paper type %d", paper))
	}
	if err := ws.engine.SetPaper(paper); err != nil {
		return ws.fail("SetPaper", "", err)
	}
	return nil
}

// SetColumn sets width, format and options for a span of columns.
// format and opts may be nil.
func (ws *Worksheet) SetColumn(cols ColumnRange, width float64, format *Format, opts *ColumnOptions) error {
	const op = "SetColumn"
	if err := cols.Validate(); err != nil {
		return invalid(op, cols.String(), err)
	}
	if width < 0 {
		return invalid(op, cols.String(), fmt.Errorf("negative width %v", width))
	}
	if opts != nil && opts.Level > 7 {
		return invalid(op, cols.String(), fmt.Errorf("outline level %d above 7", opts.Level))
	}
	if err := ws.engine.SetColumn(cols.First, cols.Last, width, format, opts); err != nil {
		return ws.fail(op, cols.String(), err)
	}
	return nil
}

// HideColumnsFrom hides every column from col through the last column.
func (ws *Worksheet) HideColumnsFrom(col int) error {
	cols, err := NewColumnRange(col, MaxColumn)
	if err != nil {
		return invalid("HideColumnsFrom", "", err)
	}
	return ws.SetColumn(cols, DefaultColumnWidth, nil, &ColumnOptions{Hidden: true})
}

// SetRow sets height, format and options for one row. format and opts may be nil.
func (ws *Worksheet) SetRow(row int, height float64, format *Format, opts *RowOptions) error {
	const op = "SetRow"
	ref := fmt.Sprintf("row %d", row+1)
	if row < 0 || row > MaxRow {
		return invalid(op, ref, fmt.Errorf("%w: row %d not in [0, %d]", ErrRowOutOfRange, row, MaxRow))
	}
	if height < 0 {
		return invalid(op, ref, fmt.Errorf("negative height %v", height))
	}
	if opts != nil && opts.Level > 7 {
		return invalid(op, ref, fmt.Errorf("outline level %d above 7", opts.Level))
	}
	if err := ws.engine.SetRow(row, height, format, opts); err != nil {
		return ws.fail(op, ref, err)
	}
	return nil
}

// SetDefaultRow sets the default row height. With hideUnusedRows, rows
// that were never written are hidden.
func (ws *Worksheet) SetDefaultRow(height float64, hideUnusedRows bool) error {
	if height < 0 {
		return invalid("SetDefaultRow", "", fmt.Errorf("negative height %v", height))
	}
	if err := ws.engine.SetDefaultRow(height, hideUnusedRows); err != nil {
		return ws.fail("SetDefaultRow", "", err)
	}
	return nil
}

// SetTabColor sets the color of the worksheet tab.
func (ws *Worksheet) SetTabColor(c Color) error {
	if err := ws.engine.SetTabColor(c); err != nil {
		return ws.fail("SetTabColor", c.String(), err)
	}
	return nil
}

// SetPrintArea restricts printing to rng.
func (ws *Worksheet) SetPrintArea(rng CellRange) error {
	const op = "SetPrintArea"
	if err := rng.Validate(); err != nil {
		return invalid(op, rng.String(), err)
	}
	if err := ws.engine.SetPrintArea(rng.First.Row, rng.First.Col, rng.Last.Row, rng.Last.Col); err != nil {
		return ws.fail(op, rng.String(), err)
	}
	return nil
}

// SetAutofilter adds an autofilter over rng; the first row holds the headers.
func (ws *Worksheet) SetAutofilter(rng CellRange) error {
	const op = "SetAutofilter"
	if err := rng.Validate(); err != nil {
		return invalid(op, rng.String(), err)
	}
	if err := ws.engine.SetAutofilter(rng.First.Row, rng.First.Col, rng.Last.Row, rng.Last.Col); err != nil {
		return ws.fail(op, rng.String(), err)
	}
	return nil
}

// SetGridlines controls screen and print gridlines independently.
func (ws *Worksheet) SetGridlines(screen, print bool) error {
	var opt GridlineOption
	if screen {
		opt |= GridlinesShowScreen
	}
	if print {
		opt |= GridlinesShowPrint
	}
	if err := ws.engine.SetGridlines(opt); err != nil {
		return ws.fail("SetGridlines", "", err)
	}
	return nil
}

// MergeRange merges rng and writes text into it.
func (ws *Worksheet) MergeRange(rng CellRange, text string, format *Format) error {
	const op = "MergeRange"
	if err := rng.Validate(); err != nil {
		return invalid(op, rng.String(), err)
	}
	if rng.First == rng.Last {
		return invalid(op, rng.String(), fmt.Errorf("%w: cannot merge a single cell", ErrInvalidReference))
	}
	if err := ws.engine.MergeRange(rng.First.Row, rng.First.Col, rng.Last.Row, rng.Last.Col, text, format); err != nil {
		return ws.fail(op, rng.String(), err)
	}
	return nil
}

// ChartOption adjusts how a chart is inserted.
type ChartOption func(*ChartOptions)

// WithScale scales the chart independently along x and y.
func WithScale(x, y float64) ChartOption {
	return func(o *ChartOptions) {
		o.ScaleX = x
		o.ScaleY = y
	}
}

// WithOffset moves the chart by the given pixels from the top-left of its cell.
func WithOffset(x, y int) ChartOption {
	return func(o *ChartOptions) {
		o.OffsetX = x
		o.OffsetY = y
	}
}

// WithPositioning picks how the chart follows cell resizing.
func WithPositioning(p ObjectPosition) ChartOption {
	return func(o *ChartOptions) { o.Positioning = p }
}

// InsertChart places chart with its top-left corner at cell. Without
// options the chart is unscaled and moves and sizes with cells.
func (ws *Worksheet) InsertChart(cell Cell, chart *Chart, opts ...ChartOption) error {
	const op = "InsertChart"
	if err := cell.Validate(); err != nil {
		return invalid(op, cell.Name(), err)
	}
	if chart == nil {
		return invalid(op, cell.Name(), ErrNilChart)
	}
	co := &ChartOptions{ScaleX: 1, ScaleY: 1, Positioning: PositionMoveAndSize}
	for _, opt := range opts {
		opt(co)
	}
	if co.ScaleX <= 0 || co.ScaleY <= 0 {
		return invalid(op, cell.Name(), fmt.Errorf("scale must be positive, got %vx%v", co.ScaleX, co.ScaleY))
	}
	if co.Positioning == PositionDefault {
		co.Positioning = PositionMoveAndSize
	}
	if err := ws.engine.InsertChart(cell.Row, cell.Col, chart, co); err != nil {
		return ws.fail(op, cell.Name(), err)
	}
	return nil
}
