package xlsheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// defaultCommentAuthor is recorded on comments when no author is configured.
const defaultCommentAuthor = "xlsheet"

// internalLinkPrefix marks a hyperlink to a location inside the workbook,
// e.g. "internal:Summary!A1".
const internalLinkPrefix = "internal:"

// ExcelizeEngine implements Engine on one worksheet of an excelize file.
// The file is not owned by the engine and is never closed by it.
type ExcelizeEngine struct {
	file   *excelize.File
	sheet  string
	author string
	log    zerolog.Logger
}

var _ Engine = (*ExcelizeEngine)(nil)

// NewExcelizeEngine creates an Engine writing to sheet in f. The sheet must
// already exist.
func NewExcelizeEngine(f *excelize.File, sheet string, opts ...Option) (*ExcelizeEngine, error) {
	return newExcelizeEngine(f, sheet, buildOptions(opts))
}

func newExcelizeEngine(f *excelize.File, sheet string, o *Options) (*ExcelizeEngine, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, &EngineError{Code: CodeNameInvalid, Err: err}
	}
	if idx < 0 {
		return nil, &EngineError{Code: CodeSheetNotFound, Err: excelize.ErrSheetNotExist{SheetName: sheet}}
	}
	author := o.commentAuthor
	if author == "" {
		author = defaultCommentAuthor
	}
	return &ExcelizeEngine{
		file:   f,
		sheet:  sheet,
		author: author,
		log:    o.logger.With().Str("sheet", sheet).Logger(),
	}, nil
}

// File returns the underlying excelize file.
func (e *ExcelizeEngine) File() *excelize.File {
	return e.file
}

// Sheet returns the worksheet name the engine writes to.
func (e *ExcelizeEngine) Sheet() string {
	return e.sheet
}

// classify maps an excelize error to an *EngineError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return err
	}
	code := CodeUnknown
	var notExist excelize.ErrSheetNotExist
	switch {
	case errors.Is(err, excelize.ErrColumnNumber), errors.Is(err, excelize.ErrMaxRows):
		code = CodeRowColOutOfRange
	case errors.Is(err, excelize.ErrCellCharsLength):
		code = CodeStringTooLong
	case errors.Is(err, excelize.ErrParameterInvalid),
		errors.Is(err, excelize.ErrColumnWidth),
		errors.Is(err, excelize.ErrMaxRowHeight):
		code = CodeParameterInvalid
	case errors.As(err, &notExist):
		code = CodeSheetNotFound
	}
	return &EngineError{Code: code, Err: err}
}

func cellName(row, col int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", classify(err)
	}
	return name, nil
}

func colName(col int) (string, error) {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return "", classify(err)
	}
	return name, nil
}

func rangeRef(firstRow, firstCol, lastRow, lastCol int) (string, string, error) {
	from, err := cellName(firstRow, firstCol)
	if err != nil {
		return "", "", err
	}
	to, err := cellName(lastRow, lastCol)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

// style applies format to the cell when one is given.
func (e *ExcelizeEngine) style(cell string, format *Format) error {
	if format.ID() == 0 {
		return nil
	}
	return classify(e.file.SetCellStyle(e.sheet, cell, cell, format.ID()))
}

// write resolves the cell name, runs set and applies the format.
func (e *ExcelizeEngine) write(row, col int, format *Format, set func(cell string) error) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	if err := set(cell); err != nil {
		return classify(err)
	}
	return e.style(cell, format)
}

func (e *ExcelizeEngine) WriteNumber(row, col int, value float64, format *Format) error {
	return e.write(row, col, format, func(cell string) error {
		return e.file.SetCellFloat(e.sheet, cell, value, -1, 64)
	})
}

func (e *ExcelizeEngine) WriteString(row, col int, value string, format *Format) error {
	return e.write(row, col, format, func(cell string) error {
		return e.file.SetCellStr(e.sheet, cell, value)
	})
}

// WriteURL writes the link text and attaches the hyperlink. Links starting
// with "internal:" point inside the workbook.
func (e *ExcelizeEngine) WriteURL(row, col int, url string, format *Format) error {
	return e.write(row, col, format, func(cell string) error {
		target, linkType := url, "External"
		if loc, ok := strings.CutPrefix(url, internalLinkPrefix); ok {
			target, linkType = loc, "Location"
		}
		if err := e.file.SetCellStr(e.sheet, cell, target); err != nil {
			return err
		}
		return e.file.SetCellHyperLink(e.sheet, cell, target, linkType)
	})
}

func (e *ExcelizeEngine) WriteBlank(row, col int, format *Format) error {
	return e.write(row, col, format, func(cell string) error {
		return e.file.SetCellValue(e.sheet, cell, nil)
	})
}

func (e *ExcelizeEngine) WriteComment(row, col int, text string) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	return classify(e.file.AddComment(e.sheet, excelize.Comment{
		Cell:   cell,
		Author: e.author,
		Text:   text,
	}))
}

func (e *ExcelizeEngine) WriteBoolean(row, col int, value bool, format *Format) error {
	return e.write(row, col, format, func(cell string) error {
		return e.file.SetCellBool(e.sheet, cell, value)
	})
}

func (e *ExcelizeEngine) WriteFormula(row, col int, formula string, format *Format) error {
	return e.write(row, col, format, func(cell string) error {
		return e.file.SetCellFormula(e.sheet, cell, strings.TrimPrefix(formula, "="))
	})
}

func (e *ExcelizeEngine) index() (int, error) {
	idx, err := e.file.GetSheetIndex(e.sheet)
	if err != nil {
		return 0, classify(err)
	}
	if idx < 0 {
		return 0, &EngineError{Code: CodeSheetNotFound, Err: excelize.ErrSheetNotExist{SheetName: e.sheet}}
	}
	return idx, nil
}

// Select marks the tab as selected. excelize tracks a single selected tab,
// which is the active one, so this is the same as Activate.
func (e *ExcelizeEngine) Select() error {
	return e.Activate()
}

func (e *ExcelizeEngine) Hide() error {
	return classify(e.file.SetSheetVisible(e.sheet, false))
}

func (e *ExcelizeEngine) Activate() error {
	idx, err := e.index()
	if err != nil {
		return err
	}
	e.file.SetActiveSheet(idx)
	return nil
}

func (e *ExcelizeEngine) SetShowZeros(show bool) error {
	return classify(e.file.SetSheetView(e.sheet, 0, &excelize.ViewOptions{ShowZeros: &show}))
}

func (e *ExcelizeEngine) SetPaper(paper PaperType) error {
	size := int(paper)
	if size == 0 {
		return nil
	}
	return classify(e.file.SetPageLayout(e.sheet, &excelize.PageLayoutOptions{Size: &size}))
}

func (e *ExcelizeEngine) SetTabColor(color Color) error {
	argb := "FF" + color.Hex()
	return classify(e.file.SetSheetProps(e.sheet, &excelize.SheetPropsOptions{TabColorRGB: &argb}))
}

func (e *ExcelizeEngine) SetColumn(firstCol, lastCol int, width float64, format *Format, opts *ColumnOptions) error {
	from, err := colName(firstCol)
	if err != nil {
		return err
	}
	to, err := colName(lastCol)
	if err != nil {
		return err
	}
	span := from + ":" + to

	if err := e.file.SetColWidth(e.sheet, from, to, width); err != nil {
		return classify(err)
	}
	if format.ID() != 0 {
		if err := e.file.SetColStyle(e.sheet, span, format.ID()); err != nil {
			return classify(err)
		}
	}
	if opts == nil {
		return nil
	}
	if opts.Hidden {
		if err := e.file.SetColVisible(e.sheet, span, false); err != nil {
			return classify(err)
		}
	}
	if opts.Level > 0 {
		for col := firstCol; col <= lastCol; col++ {
			name, err := colName(col)
			if err != nil {
				return err
			}
			if err := e.file.SetColOutlineLevel(e.sheet, name, opts.Level); err != nil {
				return classify(err)
			}
		}
	}
	if opts.Collapsed {
		e.log.Debug().Str("columns", span).Msg("collapsed outline marker not supported, ignored")
	}
	return nil
}

func (e *ExcelizeEngine) SetRow(row int, height float64, format *Format, opts *RowOptions) error {
	r := row + 1
	if err := e.file.SetRowHeight(e.sheet, r, height); err != nil {
		return classify(err)
	}
	if format.ID() != 0 {
		if err := e.file.SetRowStyle(e.sheet, r, r, format.ID()); err != nil {
			return classify(err)
		}
	}
	if opts == nil {
		return nil
	}
	if opts.Hidden {
		if err := e.file.SetRowVisible(e.sheet, r, false); err != nil {
			return classify(err)
		}
	}
	if opts.Level > 0 {
		if err := e.file.SetRowOutlineLevel(e.sheet, r, opts.Level); err != nil {
			return classify(err)
		}
	}
	if opts.Collapsed {
		e.log.Debug().Int("row", r).Msg("collapsed outline marker not supported, ignored")
	}
	return nil
}

func (e *ExcelizeEngine) SetDefaultRow(height float64, hideUnusedRows bool) error {
	custom := height != DefaultRowHeight
	return classify(e.file.SetSheetProps(e.sheet, &excelize.SheetPropsOptions{
		DefaultRowHeight: &height,
		CustomHeight:     &custom,
		ZeroHeight:       &hideUnusedRows,
	}))
}

func (e *ExcelizeEngine) SetPrintArea(firstRow, firstCol, lastRow, lastCol int) error {
	from, to, err := rangeRef(firstRow, firstCol, lastRow, lastCol)
	if err != nil {
		return err
	}
	return classify(e.file.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: fmt.Sprintf("'%s'!%s:%s", e.sheet, absolute(from), absolute(to)),
		Scope:    e.sheet,
	}))
}

// absolute turns "B12" into "$B$12".
func absolute(cell string) string {
	i := strings.IndexAny(cell, "0123456789")
	if i <= 0 {
		return cell
	}
	return "$" + cell[:i] + "$" + cell[i:]
}

func (e *ExcelizeEngine) SetAutofilter(firstRow, firstCol, lastRow, lastCol int) error {
	from, to, err := rangeRef(firstRow, firstCol, lastRow, lastCol)
	if err != nil {
		return err
	}
	return classify(e.file.AutoFilter(e.sheet, from+":"+to, nil))
}

// SetGridlines applies the screen setting. excelize cannot write the print
// gridline flag, so a request to print them is logged and dropped.
func (e *ExcelizeEngine) SetGridlines(option GridlineOption) error {
	show := option.Screen()
	if err := e.file.SetSheetView(e.sheet, 0, &excelize.ViewOptions{ShowGridLines: &show}); err != nil {
		return classify(err)
	}
	if option.Print() {
		e.log.Debug().Msg("print gridlines not supported, ignored")
	}
	return nil
}

func (e *ExcelizeEngine) MergeRange(firstRow, firstCol, lastRow, lastCol int, text string, format *Format) error {
	from, to, err := rangeRef(firstRow, firstCol, lastRow, lastCol)
	if err != nil {
		return err
	}
	if err := e.file.MergeCell(e.sheet, from, to); err != nil {
		return classify(err)
	}
	if err := e.file.SetCellStr(e.sheet, from, text); err != nil {
		return classify(err)
	}
	if format.ID() == 0 {
		return nil
	}
	return classify(e.file.SetCellStyle(e.sheet, from, to, format.ID()))
}

var positioning = map[ObjectPosition]string{
	PositionDefault:          "",
	PositionMoveAndSize:      "",
	PositionMoveDontSize:     "oneCell",
	PositionDontMoveDontSize: "absolute",
}

// InsertChart adds a copy of the chart definition anchored at the cell, so
// one definition can be inserted several times with different placement.
func (e *ExcelizeEngine) InsertChart(row, col int, chart *Chart, opts *ChartOptions) error {
	def := chart.Definition()
	if def == nil {
		return &EngineError{Code: CodeParameterInvalid, Err: ErrNilChart}
	}
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	c := *def
	if opts != nil {
		c.Format.OffsetX = opts.OffsetX
		c.Format.OffsetY = opts.OffsetY
		c.Format.ScaleX = opts.ScaleX
		c.Format.ScaleY = opts.ScaleY
		c.Format.Positioning = positioning[opts.Positioning]
	}
	return classify(e.file.AddChart(e.sheet, cell, &c))
}

// AddTable writes the header row and registers the table. excelize has no
// total row support, so when opts.TotalRow is set the table covers all but
// the last row and SUBTOTAL formulas are written into that row instead.
func (e *ExcelizeEngine) AddTable(firstRow, firstCol, lastRow, lastCol int, opts *TableOptions) error {
	if opts == nil {
		return &EngineError{Code: CodeParameterInvalid, Err: ErrInvalidTable}
	}
	tableLast := lastRow
	if opts.TotalRow {
		tableLast--
	}

	for i, tc := range opts.Columns {
		if tc == nil {
			break
		}
		if err := e.WriteString(firstRow, firstCol+i, CString(tc.Header), tc.HeaderFormat); err != nil {
			return err
		}
	}

	from, to, err := rangeRef(firstRow, firstCol, tableLast, lastCol)
	if err != nil {
		return err
	}
	err = e.file.AddTable(e.sheet, &excelize.Table{
		Range:     from + ":" + to,
		Name:      CString(opts.Name),
		StyleName: opts.Style.String(),
	})
	if err != nil {
		err = classify(err)
		var ee *EngineError
		if errors.As(err, &ee) && ee.Code == CodeUnknown {
			ee.Code = CodeNameInvalid
		}
		return err
	}

	if opts.TotalRow {
		return e.writeTotals(firstRow+1, tableLast, firstCol, lastRow, opts.Columns)
	}
	return nil
}

func (e *ExcelizeEngine) writeTotals(dataFirst, dataLast, firstCol, totalRow int, columns []*TableColumn) error {
	if dataLast < dataFirst {
		e.log.Debug().Int("row", totalRow+1).Msg("table has no data rows, totals skipped")
		return nil
	}
	for i, tc := range columns {
		if tc == nil {
			break
		}
		if tc.TotalFunction == TotalNone {
			continue
		}
		col := firstCol + i
		from, to, err := rangeRef(dataFirst, col, dataLast, col)
		if err != nil {
			return err
		}
		f := fmt.Sprintf("SUBTOTAL(%d,%s:%s)", int(tc.TotalFunction), from, to)
		if err := e.WriteFormula(totalRow, col, f, nil); err != nil {
			return err
		}
	}
	return nil
}
