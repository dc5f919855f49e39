package xlsheet

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/bytebufferpool"
	"github.com/xuri/excelize/v2"
)

// call is one recorded engine primitive.
type call struct {
	Method string
	Args   []any
}

// tableCall keeps a copy of what AddTable received, since the option record
// buffers are only valid during the call.
type tableCall struct {
	FirstRow, FirstCol, LastRow, LastCol int
	Name                                 string
	Style                                TableStyle
	TotalRow                             bool
	Entries                              int  // len(opts.Columns)
	Terminated                           bool // last entry is nil
	Headers                              []string
	Formats                              []*Format
	Totals                               []TotalFunction
}

// recorder is an Engine that records every call. fail makes the named
// method return the given code.
type recorder struct {
	calls  []call
	tables []tableCall
	fail   map[string]ErrorCode
}

var _ Engine = (*recorder)(nil)

func newRecorder() *recorder {
	return &recorder{fail: make(map[string]ErrorCode)}
}

func (r *recorder) record(method string, args ...any) error {
	r.calls = append(r.calls, call{Method: method, Args: args})
	if code, ok := r.fail[method]; ok {
		return &EngineError{Code: code}
	}
	return nil
}

func (r *recorder) methods() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Method
	}
	return out
}

func (r *recorder) last() call {
	if len(r.calls) == 0 {
		return call{}
	}
	return r.calls[len(r.calls)-1]
}

func (r *recorder) WriteNumber(row, col int, v float64, f *Format) error {
	return r.record("WriteNumber", row, col, v, f)
}

func (r *recorder) WriteString(row, col int, v string, f *Format) error {
	return r.record("WriteString", row, col, v, f)
}

func (r *recorder) WriteURL(row, col int, v string, f *Format) error {
	return r.record("WriteURL", row, col, v, f)
}

func (r *recorder) WriteBlank(row, col int, f *Format) error {
	return r.record("WriteBlank", row, col, f)
}

func (r *recorder) WriteComment(row, col int, text string) error {
	return r.record("WriteComment", row, col, text)
}

func (r *recorder) WriteBoolean(row, col int, v bool, f *Format) error {
	return r.record("WriteBoolean", row, col, v, f)
}

func (r *recorder) WriteFormula(row, col int, v string, f *Format) error {
	return r.record("WriteFormula", row, col, v, f)
}

func (r *recorder) Select() error   { return r.record("Select") }
func (r *recorder) Hide() error     { return r.record("Hide") }
func (r *recorder) Activate() error { return r.record("Activate") }

func (r *recorder) SetShowZeros(show bool) error {
	return r.record("SetShowZeros", show)
}

func (r *recorder) SetPaper(p PaperType) error {
	return r.record("SetPaper", p)
}

func (r *recorder) SetTabColor(c Color) error {
	return r.record("SetTabColor", c)
}

func (r *recorder) SetColumn(first, last int, width float64, f *Format, o *ColumnOptions) error {
	return r.record("SetColumn", first, last, width, f, o)
}

func (r *recorder) SetRow(row int, height float64, f *Format, o *RowOptions) error {
	return r.record("SetRow", row, height, f, o)
}

func (r *recorder) SetDefaultRow(height float64, hide bool) error {
	return r.record("SetDefaultRow", height, hide)
}

func (r *recorder) SetPrintArea(fr, fc, lr, lc int) error {
	return r.record("SetPrintArea", fr, fc, lr, lc)
}

func (r *recorder) SetAutofilter(fr, fc, lr, lc int) error {
	return r.record("SetAutofilter", fr, fc, lr, lc)
}

func (r *recorder) SetGridlines(o GridlineOption) error {
	return r.record("SetGridlines", o)
}

func (r *recorder) MergeRange(fr, fc, lr, lc int, text string, f *Format) error {
	return r.record("MergeRange", fr, fc, lr, lc, text, f)
}

func (r *recorder) InsertChart(row, col int, c *Chart, o *ChartOptions) error {
	var copied ChartOptions
	if o != nil {
		copied = *o
	}
	return r.record("InsertChart", row, col, c, copied)
}

func (r *recorder) AddTable(fr, fc, lr, lc int, o *TableOptions) error {
	tc := tableCall{FirstRow: fr, FirstCol: fc, LastRow: lr, LastCol: lc}
	if o != nil {
		tc.Name = CString(o.Name)
		tc.Style = o.Style
		tc.TotalRow = o.TotalRow
		tc.Entries = len(o.Columns)
		tc.Terminated = len(o.Columns) > 0 && o.Columns[len(o.Columns)-1] == nil
		for _, c := range o.Columns {
			if c == nil {
				break
			}
			tc.Headers = append(tc.Headers, CString(c.Header))
			tc.Formats = append(tc.Formats, c.HeaderFormat)
			tc.Totals = append(tc.Totals, c.TotalFunction)
		}
	}
	r.tables = append(r.tables, tc)
	return r.record("AddTable", fr, fc, lr, lc)
}

// countingPool tracks buffers handed out and not yet returned.
type countingPool struct {
	pool       bytebufferpool.Pool
	gets, puts int
}

func (p *countingPool) Get() *bytebufferpool.ByteBuffer {
	p.gets++
	return p.pool.Get()
}

func (p *countingPool) Put(b *bytebufferpool.ByteBuffer) {
	p.puts++
	p.pool.Put(b)
}

func (p *countingPool) outstanding() int {
	return p.gets - p.puts
}

// newTestSheet returns a worksheet over a recorder, with a counting pool.
func newTestSheet(t *testing.T, opts ...Option) (*Worksheet, *recorder, *countingPool) {
	t.Helper()
	rec := newRecorder()
	pool := &countingPool{}
	ws := NewWorksheet("Sheet1", rec, append([]Option{withBufferPool(pool)}, opts...)...)
	return ws, rec, pool
}

// newExcelizeSheet returns a worksheet backed by a fresh excelize file.
func newExcelizeSheet(t *testing.T, opts ...Option) (*Worksheet, *excelize.File) {
	t.Helper()
	wb := NewWorkbook(opts...)
	t.Cleanup(func() { wb.Close() })
	ws, err := wb.AddWorksheet("Sheet1")
	require.NoError(t, err)
	return ws, wb.File()
}

func mustCell(t *testing.T, ref string) Cell {
	t.Helper()
	c, err := ParseCell(ref)
	require.NoError(t, err, fmt.Sprintf("parse cell %q", ref))
	return c
}

func mustRange(t *testing.T, ref string) CellRange {
	t.Helper()
	r, err := ParseRange(ref)
	require.NoError(t, err, fmt.Sprintf("parse range %q", ref))
	return r
}
