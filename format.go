package xlsheet

import "github.com/xuri/excelize/v2"

// Format is an opaque handle to a cell format owned by the workbook.
// A nil *Format means "no format".
type Format struct {
	id int
}

// FormatID wraps an engine style identifier. Engines and workbooks use it
// to hand out handles; callers normally get formats from Workbook.AddFormat.
func FormatID(id int) *Format {
	return &Format{id: id}
}

// ID returns the engine style identifier, 0 for a nil format.
func (f *Format) ID() int {
	if f == nil {
		return 0
	}
	return f.id
}

// Chart is an opaque handle to a chart definition owned by the workbook.
type Chart struct {
	def *excelize.Chart
}

// NewChart wraps a chart definition. The definition is not copied and must
// not be modified while the chart is being inserted.
func NewChart(def *excelize.Chart) *Chart {
	return &Chart{def: def}
}

// Definition returns the wrapped chart definition.
func (c *Chart) Definition() *excelize.Chart {
	if c == nil {
		return nil
	}
	return c.def
}
