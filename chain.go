package xlsheet

import "time"

// Chain runs worksheet operations in sequence and keeps the first error.
// After a failure every further call is a no-op.
//
//	err := ws.Chain().
//		WriteString(NewCell(0, 0), "Total", bold).
//		WriteFormula(NewCell(0, 1), "=SUM(B2:B9)", nil).
//		Err()
type Chain struct {
	ws  *Worksheet
	err error
}

// Chain starts a chain of operations on ws.
func (ws *Worksheet) Chain() *Chain {
	return &Chain{ws: ws}
}

// Err returns the first error met by the chain.
func (c *Chain) Err() error {
	return c.err
}

func (c *Chain) do(fn func(ws *Worksheet) error) *Chain {
	if c.err == nil {
		c.err = fn(c.ws)
	}
	return c
}

// WriteValue queues Worksheet.WriteValue.
func (c *Chain) WriteValue(cell Cell, v Value, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteValue(cell, v, format) })
}

// WriteNumber writes a number to cell.
func (c *Chain) WriteNumber(cell Cell, v float64, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteNumber(cell, v, format) })
}

// WriteString writes s to cell.
func (c *Chain) WriteString(cell Cell, s string, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteString(cell, s, format) })
}

// WriteURL writes raw as a hyperlink.
func (c *Chain) WriteURL(cell Cell, raw string, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteURL(cell, raw, format) })
}

// WriteBlank writes an empty, formatted cell.
func (c *Chain) WriteBlank(cell Cell, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteBlank(cell, format) })
}

// WriteComment attaches a note to cell.
func (c *Chain) WriteComment(cell Cell, text string) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteComment(cell, text) })
}

// WriteBoolean writes v to cell.
func (c *Chain) WriteBoolean(cell Cell, v bool, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteBoolean(cell, v, format) })
}

// WriteFormula writes formula to cell.
func (c *Chain) WriteFormula(cell Cell, formula string, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteFormula(cell, formula, format) })
}

// WriteDateTime writes t as an Excel date.
func (c *Chain) WriteDateTime(cell Cell, t time.Time, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteDateTime(cell, t, format) })
}

// WriteColumn writes values downwards from cell.
func (c *Chain) WriteColumn(cell Cell, values []Value, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteColumn(cell, values, format) })
}

// WriteRow writes values rightwards from cell.
func (c *Chain) WriteRow(cell Cell, values []Value, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteRow(cell, values, format) })
}

// WriteNumbers writes values rightwards from cell.
func (c *Chain) WriteNumbers(cell Cell, values []float64, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteNumbers(cell, values, format) })
}

// WriteStrings writes values rightwards from cell.
func (c *Chain) WriteStrings(cell Cell, values []string, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.WriteStrings(cell, values, format) })
}

// Select marks the worksheet as selected.
func (c *Chain) Select() *Chain {
	return c.do((*Worksheet).Select)
}

// Hide hides the worksheet.
func (c *Chain) Hide() *Chain {
	return c.do((*Worksheet).Hide)
}

// Activate makes the worksheet the one shown on open.
func (c *Chain) Activate() *Chain {
	return c.do((*Worksheet).Activate)
}

// ShowZeros sets whether zero values are displayed.
func (c *Chain) ShowZeros(show bool) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.ShowZeros(show) })
}

// SetPaper sets the printed paper size.
func (c *Chain) SetPaper(paper PaperType) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.SetPaper(paper) })
}

// SetColumn sets width, format and options for cols.
func (c *Chain) SetColumn(cols ColumnRange, width float64, format *Format, opts *ColumnOptions) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.SetColumn(cols, width, format, opts) })
}

// HideColumnsFrom hides col and every column after it.
func (c *Chain) HideColumnsFrom(col int) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.HideColumnsFrom(col) })
}

// SetRow sets height, format and options for row.
func (c *Chain) SetRow(row int, height float64, format *Format, opts *RowOptions) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.SetRow(row, height, format, opts) })
}

// SetDefaultRow sets the default row height, optionally hiding unused rows.
func (c *Chain) SetDefaultRow(height float64, hideUnusedRows bool) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.SetDefaultRow(height, hideUnusedRows) })
}

// SetTabColor colors the sheet tab.
func (c *Chain) SetTabColor(color Color) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.SetTabColor(color) })
}

// SetPrintArea limits printing to rng.
func (c *Chain) SetPrintArea(rng CellRange) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.SetPrintArea(rng) })
}

// SetAutofilter adds filter buttons over rng.
func (c *Chain) SetAutofilter(rng CellRange) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.SetAutofilter(rng) })
}

// SetGridlines shows or hides gridlines on screen and in print.
func (c *Chain) SetGridlines(screen, print bool) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.SetGridlines(screen, print) })
}

// MergeRange merges rng and writes text into it.
func (c *Chain) MergeRange(rng CellRange, text string, format *Format) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.MergeRange(rng, text, format) })
}

// InsertChart places chart with its top left corner at cell.
func (c *Chain) InsertChart(cell Cell, chart *Chart, opts ...ChartOption) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.InsertChart(cell, chart, opts...) })
}

// AddTable adds a table over rng. See Worksheet.AddTable.
func (c *Chain) AddTable(rng CellRange, name string, headers []string, formats []*Format, totals []TotalFunction) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.AddTable(rng, name, headers, formats, totals) })
}

// AddTableColumns is AddTable with per column settings.
func (c *Chain) AddTableColumns(rng CellRange, name string, columns []TableHeader) *Chain {
	return c.do(func(ws *Worksheet) error { return ws.AddTableColumns(rng, name, columns) })
}
