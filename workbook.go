package xlsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook owns an excelize file and the worksheets written into it.
type Workbook struct {
	file   *excelize.File
	opts   *Options
	sheets map[string]*Worksheet
	order  []string
}

// NewWorkbook creates an empty workbook.
func NewWorkbook(opts ...Option) *Workbook {
	return &Workbook{
		file:   excelize.NewFile(),
		opts:   buildOptions(opts),
		sheets: make(map[string]*Worksheet),
	}
}

// File returns the underlying excelize file.
func (wb *Workbook) File() *excelize.File {
	return wb.file
}

// AddWorksheet adds a worksheet. The first call renames the default sheet
// of a new file instead of adding one.
func (wb *Workbook) AddWorksheet(name string) (*Worksheet, error) {
	if _, ok := wb.sheets[name]; ok {
		return nil, newWriteError("AddWorksheet", name, &EngineError{Code: CodeNameInvalid, Err: fmt.Errorf("worksheet %q already exists", name)})
	}

	if len(wb.order) == 0 {
		def := wb.file.GetSheetList()[0]
		if def != name {
			if err := wb.file.SetSheetName(def, name); err != nil {
				return nil, newWriteError("AddWorksheet", name, &EngineError{Code: CodeNameInvalid, Err: err})
			}
		}
	} else if _, err := wb.file.NewSheet(name); err != nil {
		return nil, newWriteError("AddWorksheet", name, &EngineError{Code: CodeNameInvalid, Err: err})
	}

	engine, err := newExcelizeEngine(wb.file, name, wb.opts)
	if err != nil {
		return nil, newWriteError("AddWorksheet", name, err)
	}
	ws := newWorksheet(name, engine, wb.opts)
	wb.sheets[name] = ws
	wb.order = append(wb.order, name)
	wb.opts.logger.Debug().Str("sheet", name).Msg("worksheet added")
	return ws, nil
}

// Worksheet returns a worksheet added earlier, or nil.
func (wb *Workbook) Worksheet(name string) *Worksheet {
	return wb.sheets[name]
}

// Worksheets returns the worksheets in the order they were added.
func (wb *Workbook) Worksheets() []*Worksheet {
	out := make([]*Worksheet, 0, len(wb.order))
	for _, name := range wb.order {
		out = append(out, wb.sheets[name])
	}
	return out
}

// AddFormat registers a cell style and returns its handle.
func (wb *Workbook) AddFormat(style *excelize.Style) (*Format, error) {
	id, err := wb.file.NewStyle(style)
	if err != nil {
		return nil, fmt.Errorf("add format: %w", err)
	}
	return FormatID(id), nil
}

// AddChart wraps a chart definition for InsertChart.
func (wb *Workbook) AddChart(def *excelize.Chart) *Chart {
	return NewChart(def)
}

// SaveAs writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	if err := wb.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

// Write writes the workbook to w.
func (wb *Workbook) Write(w io.Writer) error {
	if err := wb.file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Close releases the resources of the underlying file.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}
