package xlsheet

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelizeEngine_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := NewExcelizeEngine(f, "Nope")
	var ee *EngineError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, CodeSheetNotFound, ee.Code)

	e, err := NewExcelizeEngine(f, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", e.Sheet())
	assert.Same(t, f, e.File())
}

func TestExcelizeEngine_CellValues(t *testing.T) {
	ws, f := newExcelizeSheet(t)

	require.NoError(t, ws.WriteValue(mustCell(t, "A1"), Number(3.14), nil))
	require.NoError(t, ws.WriteString(mustCell(t, "A2"), "hello", nil))
	require.NoError(t, ws.WriteBoolean(mustCell(t, "A3"), true, nil))
	require.NoError(t, ws.WriteFormula(mustCell(t, "A4"), "=SUM(A1:A1)", nil))
	require.NoError(t, ws.WriteDateTime(mustCell(t, "A5"), time.Unix(86400, 0), nil))
	require.NoError(t, ws.WriteColumn(mustCell(t, "B1"), []Value{Text("x"), Number(2)}, nil))

	tests := map[string]string{
		"A1": "3.14",
		"A2": "hello",
		"A3": "TRUE",
		"A5": "25570",
		"B1": "x",
		"B2": "2",
	}
	for cell, want := range tests {
		got, err := f.GetCellValue("Sheet1", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	formula, err := f.GetCellFormula("Sheet1", "A4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(A1:A1)", formula)
}

func TestExcelizeEngine_FormatApplied(t *testing.T) {
	wb := NewWorkbook()
	defer wb.Close()
	ws, err := wb.AddWorksheet("Data")
	require.NoError(t, err)

	bold, err := wb.AddFormat(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	require.NotZero(t, bold.ID())

	require.NoError(t, ws.WriteString(mustCell(t, "C3"), "bold", bold))
	require.NoError(t, ws.WriteBlank(mustCell(t, "C4"), bold))

	for _, cell := range []string{"C3", "C4"} {
		id, err := wb.File().GetCellStyle("Data", cell)
		require.NoError(t, err)
		assert.Equal(t, bold.ID(), id, cell)
	}
}

func TestExcelizeEngine_URLs(t *testing.T) {
	ws, f := newExcelizeSheet(t)

	require.NoError(t, ws.WriteURL(mustCell(t, "A1"), "https://example.com/docs", nil))
	require.NoError(t, ws.WriteURL(mustCell(t, "A2"), "internal:Sheet1!C3", nil))

	ok, link, err := f.GetCellHyperLink("Sheet1", "A1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/docs", link)

	ok, link, err = f.GetCellHyperLink("Sheet1", "A2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sheet1!C3", link)

	text, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", text)
}

func TestExcelizeEngine_Comment(t *testing.T) {
	ws, f := newExcelizeSheet(t, WithCommentAuthor("reviewer"))

	require.NoError(t, ws.WriteComment(mustCell(t, "B2"), "check this"))

	comments, err := f.GetComments("Sheet1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "B2", comments[0].Cell)
	assert.Equal(t, "reviewer", comments[0].Author)
	assert.Contains(t, comments[0].Text, "check this")
}

func TestExcelizeEngine_ColumnsAndRows(t *testing.T) {
	ws, f := newExcelizeSheet(t)
	cols, err := ParseColumnRange("B:C")
	require.NoError(t, err)

	require.NoError(t, ws.SetColumn(cols, 20, nil, nil))
	require.NoError(t, ws.SetColumn(ColumnRange{First: 4, Last: 4}, 9, nil, &ColumnOptions{Hidden: true, Level: 1}))
	require.NoError(t, ws.SetRow(5, 30, nil, nil))
	require.NoError(t, ws.SetRow(6, 15, nil, &RowOptions{Hidden: true, Level: 2, Collapsed: true}))

	for _, col := range []string{"B", "C"} {
		w, err := f.GetColWidth("Sheet1", col)
		require.NoError(t, err)
		assert.Equal(t, 20.0, w, col)
	}
	visible, err := f.GetColVisible("Sheet1", "E")
	require.NoError(t, err)
	assert.False(t, visible)
	level, err := f.GetColOutlineLevel("Sheet1", "E")
	require.NoError(t, err)
	assert.Equal(t, uint8(1), level)

	h, err := f.GetRowHeight("Sheet1", 6)
	require.NoError(t, err)
	assert.Equal(t, 30.0, h)
	visible, err = f.GetRowVisible("Sheet1", 7)
	require.NoError(t, err)
	assert.False(t, visible)
	level, err = f.GetRowOutlineLevel("Sheet1", 7)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), level)
}

func TestExcelizeEngine_HideColumnsFrom(t *testing.T) {
	ws, f := newExcelizeSheet(t)

	require.NoError(t, ws.HideColumnsFrom(7))

	visible, err := f.GetColVisible("Sheet1", "G")
	require.NoError(t, err)
	assert.True(t, visible)
	for _, col := range []string{"H", "Z", "XFD"} {
		visible, err := f.GetColVisible("Sheet1", col)
		require.NoError(t, err)
		assert.False(t, visible, col)
	}
}

func TestExcelizeEngine_SheetState(t *testing.T) {
	wb := NewWorkbook()
	defer wb.Close()
	first, err := wb.AddWorksheet("First")
	require.NoError(t, err)
	second, err := wb.AddWorksheet("Second")
	require.NoError(t, err)
	f := wb.File()

	require.NoError(t, second.Activate())
	idx, err := f.GetSheetIndex("Second")
	require.NoError(t, err)
	assert.Equal(t, idx, f.GetActiveSheetIndex())

	require.NoError(t, first.Select())
	idx, err = f.GetSheetIndex("First")
	require.NoError(t, err)
	assert.Equal(t, idx, f.GetActiveSheetIndex())

	require.NoError(t, second.Hide())
	visible, err := f.GetSheetVisible("Second")
	require.NoError(t, err)
	assert.False(t, visible)

	require.NoError(t, first.ShowZeros(false))
	view, err := f.GetSheetView("First", 0)
	require.NoError(t, err)
	require.NotNil(t, view.ShowZeros)
	assert.False(t, *view.ShowZeros)

	require.NoError(t, first.SetGridlines(false, true))
	view, err = f.GetSheetView("First", 0)
	require.NoError(t, err)
	require.NotNil(t, view.ShowGridLines)
	assert.False(t, *view.ShowGridLines)

	require.NoError(t, first.SetPaper(PaperA4))
	layout, err := f.GetPageLayout("First")
	require.NoError(t, err)
	require.NotNil(t, layout.Size)
	assert.Equal(t, int(PaperA4), *layout.Size)

	require.NoError(t, first.SetTabColor(RGB(0x1F, 0x77, 0xB4)))
	props, err := f.GetSheetProps("First")
	require.NoError(t, err)
	require.NotNil(t, props.TabColorRGB)
	assert.Equal(t, "FF1F77B4", *props.TabColorRGB)

	require.NoError(t, first.SetDefaultRow(20, true))
	props, err = f.GetSheetProps("First")
	require.NoError(t, err)
	require.NotNil(t, props.DefaultRowHeight)
	assert.Equal(t, 20.0, *props.DefaultRowHeight)
	require.NotNil(t, props.ZeroHeight)
	assert.True(t, *props.ZeroHeight)
}

func TestExcelizeEngine_Ranges(t *testing.T) {
	ws, f := newExcelizeSheet(t)

	require.NoError(t, ws.WriteStrings(NewCell(1, 0), []string{"a", "b", "c"}, nil))
	require.NoError(t, ws.SetAutofilter(mustRange(t, "A2:C5")))
	require.NoError(t, ws.SetPrintArea(mustRange(t, "A1:C5")))
	require.NoError(t, ws.MergeRange(mustRange(t, "A1:C1"), "Title", nil))

	var printArea *excelize.DefinedName
	for _, dn := range f.GetDefinedName() {
		if dn.Name == "_xlnm.Print_Area" {
			dn := dn
			printArea = &dn
		}
	}
	require.NotNil(t, printArea)
	assert.Equal(t, "'Sheet1'!$A$1:$C$5", printArea.RefersTo)
	assert.Equal(t, "Sheet1", printArea.Scope)

	merged, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "C1", merged[0].GetEndAxis())
	assert.Equal(t, "Title", merged[0].GetCellValue())
}

func TestExcelizeEngine_Chart(t *testing.T) {
	wb := NewWorkbook()
	defer wb.Close()
	ws, err := wb.AddWorksheet("Data")
	require.NoError(t, err)

	require.NoError(t, ws.WriteColumn(NewCell(0, 0), []Value{Text("a"), Text("b"), Text("c")}, nil))
	require.NoError(t, ws.WriteColumn(NewCell(0, 1), []Value{Number(1), Number(2), Number(3)}, nil))

	def := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       "Amount",
			Categories: "Data!$A$1:$A$3",
			Values:     "Data!$B$1:$B$3",
		}},
	}
	chart := wb.AddChart(def)

	require.NoError(t, ws.InsertChart(mustCell(t, "D2"), chart))
	require.NoError(t, ws.InsertChart(mustCell(t, "D20"), chart, WithScale(1.5, 1), WithPositioning(PositionMoveDontSize)))
	assert.Empty(t, def.Format.Positioning, "the definition is copied, not modified")
}

func TestExcelizeEngine_TableWithTotals(t *testing.T) {
	ws, f := newExcelizeSheet(t)

	require.NoError(t, ws.WriteRow(NewCell(1, 0), []Value{Text("North"), Number(3), Number(10.5)}, nil))
	require.NoError(t, ws.WriteRow(NewCell(2, 0), []Value{Text("South"), Number(5), Number(4.5)}, nil))

	err := ws.AddTable(mustRange(t, "A1:C3"), "Sales",
		[]string{"Region", "Units", "Amount"}, nil, []TotalFunction{TotalNone, TotalCount, TotalSum})
	require.NoError(t, err)

	for cell, want := range map[string]string{"A1": "Region", "B1": "Units", "C1": "Amount"} {
		got, err := f.GetCellValue("Sheet1", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	tables, err := f.GetTables("Sheet1")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Sales", tables[0].Name)
	assert.Equal(t, "A1:C3", tables[0].Range)
	assert.Equal(t, "TableStyleMedium9", tables[0].StyleName)

	units, err := f.GetCellFormula("Sheet1", "B4")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("SUBTOTAL(%d,B2:B3)", int(TotalCount)), units)
	amount, err := f.GetCellFormula("Sheet1", "C4")
	require.NoError(t, err)
	assert.Equal(t, "SUBTOTAL(109,C2:C3)", amount)
	none, err := f.GetCellFormula("Sheet1", "A4")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExcelizeEngine_TableTotalsNeedDataRows(t *testing.T) {
	ws, f := newExcelizeSheet(t)

	err := ws.AddTable(mustRange(t, "A1:B1"), "Empty", []string{"Item", "Qty"}, nil, []TotalFunction{TotalNone, TotalSum})
	assert.ErrorIs(t, err, ErrInvalidTable)

	tables, err := f.GetTables("Sheet1")
	require.NoError(t, err)
	assert.Empty(t, tables)
	header, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Empty(t, header)
}

func TestExcelizeEngine_TableHeaderFormat(t *testing.T) {
	wb := NewWorkbook(WithTableStyle(TableStyle{Type: TableStyleDark, Number: 2}))
	defer wb.Close()
	ws, err := wb.AddWorksheet("T")
	require.NoError(t, err)
	bold, err := wb.AddFormat(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)

	err = ws.AddTableColumns(mustRange(t, "B2:C4"), "", []TableHeader{{Text: "Name", Format: bold}, {Text: "Qty"}})
	require.NoError(t, err)

	id, err := wb.File().GetCellStyle("T", "B2")
	require.NoError(t, err)
	assert.Equal(t, bold.ID(), id)

	tables, err := wb.File().GetTables("T")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "B2:C4", tables[0].Range)
	assert.Equal(t, "TableStyleDark2", tables[0].StyleName)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{excelize.ErrColumnNumber, CodeRowColOutOfRange},
		{excelize.ErrMaxRows, CodeRowColOutOfRange},
		{excelize.ErrCellCharsLength, CodeStringTooLong},
		{excelize.ErrParameterInvalid, CodeParameterInvalid},
		{excelize.ErrColumnWidth, CodeParameterInvalid},
		{excelize.ErrMaxRowHeight, CodeParameterInvalid},
		{excelize.ErrSheetNotExist{SheetName: "x"}, CodeSheetNotFound},
		{fmt.Errorf("wrapped: %w", excelize.ErrMaxRows), CodeRowColOutOfRange},
		{errors.New("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		var ee *EngineError
		require.True(t, errors.As(classify(tt.err), &ee), tt.err.Error())
		assert.Equal(t, tt.want, ee.Code, tt.err.Error())
		assert.ErrorIs(t, ee, tt.err)
	}
	assert.NoError(t, classify(nil))

	already := &EngineError{Code: CodeMemoryError}
	assert.Same(t, already, classify(already))
}

func TestExcelizeEngine_ErrorsSurfaceAsWriteError(t *testing.T) {
	ws, _ := newExcelizeSheet(t)

	err := ws.SetRow(0, 500, nil, nil)
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, CodeParameterInvalid, we.Code)
	assert.ErrorIs(t, err, excelize.ErrMaxRowHeight)
}
