package xlsheet

import (
	"fmt"
	"strconv"
	"strings"
)

// TotalFunction selects the aggregate shown in a table's total row. The
// values are the SUBTOTAL function numbers.
type TotalFunction int

const (
	TotalNone     TotalFunction = 0
	TotalAverage  TotalFunction = 101
	TotalCountNum TotalFunction = 102
	TotalCount    TotalFunction = 103
	TotalMax      TotalFunction = 104
	TotalMin      TotalFunction = 105
	TotalStdDev   TotalFunction = 107
	TotalSum      TotalFunction = 109
	TotalVar      TotalFunction = 110
)

var totalNames = map[TotalFunction]string{
	TotalNone:     "none",
	TotalAverage:  "average",
	TotalCountNum: "count_nums",
	TotalCount:    "count",
	TotalMax:      "max",
	TotalMin:      "min",
	TotalStdDev:   "std_dev",
	TotalSum:      "sum",
	TotalVar:      "var",
}

func (t TotalFunction) String() string {
	if s, ok := totalNames[t]; ok {
		return s
	}
	return fmt.Sprintf("total(%d)", int(t))
}

// ParseTotalFunction maps a name such as "sum" or "average" to its function.
func ParseTotalFunction(s string) (TotalFunction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for fn, name := range totalNames {
		if name == s {
			return fn, nil
		}
	}
	return TotalNone, fmt.Errorf("unknown total function %q", s)
}

// TableStyleType is the family of a built-in table style.
type TableStyleType int

const (
	TableStyleLight TableStyleType = iota
	TableStyleMedium
	TableStyleDark
)

// TableStyle selects a built-in table style such as TableStyleMedium9.
type TableStyle struct {
	Type   TableStyleType
	Number int
}

// DefaultTableStyle is the style applied when none is configured.
var DefaultTableStyle = TableStyle{Type: TableStyleMedium, Number: 9}

// String returns the style name, e.g. "TableStyleMedium9".
func (s TableStyle) String() string {
	family := "Light"
	switch s.Type {
	case TableStyleMedium:
		family = "Medium"
	case TableStyleDark:
		family = "Dark"
	}
	return fmt.Sprintf("TableStyle%s%d", family, s.Number)
}

// ParseTableStyle parses names such as "TableStyleLight11" or "medium9".
func ParseTableStyle(name string) (TableStyle, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "tablestyle")
	families := []struct {
		prefix string
		typ    TableStyleType
		max    int
	}{
		{"light", TableStyleLight, 21},
		{"medium", TableStyleMedium, 28},
		{"dark", TableStyleDark, 11},
	}
	for _, f := range families {
		if !strings.HasPrefix(s, f.prefix) {
			continue
		}
		n, err := strconv.Atoi(s[len(f.prefix):])
		if err != nil || n < 1 || n > f.max {
			return TableStyle{}, fmt.Errorf("invalid table style %q", name)
		}
		return TableStyle{Type: f.typ, Number: n}, nil
	}
	return TableStyle{}, fmt.Errorf("invalid table style %q", name)
}

// TableHeader is a header text with an optional header format.
type TableHeader struct {
	Text   string
	Format *Format
}

// AddTable adds a table over rng. headers names the columns from the left;
// formats and totals are optional and apply to the same positions. A total
// row is added below rng when at least one total function is given; rng
// must then hold at least one data row under the headers.
func (ws *Worksheet) AddTable(rng CellRange, name string, headers []string, formats []*Format, totals []TotalFunction) error {
	const op = "AddTable"
	ref := rng.String()
	if err := rng.Validate(); err != nil {
		return invalid(op, ref, err)
	}
	if err := checkTableShape(rng, len(headers), len(formats), len(totals)); err != nil {
		return invalid(op, ref, err)
	}

	totalRow := len(totals) > 0
	last := rng.Last
	if totalRow {
		last.Row++
		if last.Row > MaxRow {
			return invalid(op, ref, fmt.Errorf("%w: total row below row %d", ErrRowOutOfRange, MaxRow+1))
		}
	}

	l := newLease(ws.opts.pool)
	defer l.release()

	opts, err := marshalTable(l, name, ws.opts.tableStyle, headers, formats, totals)
	if err != nil {
		return invalid(op, ref, err)
	}
	if err := ws.engine.AddTable(rng.First.Row, rng.First.Col, last.Row, last.Col, opts); err != nil {
		return ws.fail(op, ref, err)
	}
	return nil
}

// AddTableColumns adds a table from header/format pairs without a total row.
func (ws *Worksheet) AddTableColumns(rng CellRange, name string, columns []TableHeader) error {
	headers := make([]string, len(columns))
	formats := make([]*Format, len(columns))
	for i, c := range columns {
		headers[i] = c.Text
		formats[i] = c.Format
	}
	return ws.AddTable(rng, name, headers, formats, nil)
}

func checkTableShape(rng CellRange, headers, formats, totals int) error {
	switch {
	case headers == 0:
		return fmt.Errorf("%w: no headers", ErrInvalidTable)
	case headers > rng.Cols():
		return fmt.Errorf("%w: %d headers for %d columns", ErrInvalidTable, headers, rng.Cols())
	case formats > headers:
		return fmt.Errorf("%w: %d header formats for %d headers", ErrInvalidTable, formats, headers)
	case totals > headers:
		return fmt.Errorf("%w: %d total functions for %d headers", ErrInvalidTable, totals, headers)
	case totals > 0 && rng.Rows() < 2:
		return fmt.Errorf("%w: a total row needs at least one data row", ErrInvalidTable)
	}
	return nil
}

// marshalTable builds the engine option record. Every text buffer is leased
// from l, so the caller's deferred release frees them whatever happens next.
func marshalTable(l *lease, name string, style TableStyle, headers []string, formats []*Format, totals []TotalFunction) (*TableOptions, error) {
	opts := &TableOptions{
		Style:    style,
		TotalRow: len(totals) > 0,
	}
	if name != "" {
		b, err := l.cstring(name)
		if err != nil {
			return nil, fmt.Errorf("table name: %w", err)
		}
		opts.Name = b
	}

	columns := make([]TableColumn, len(headers))
	opts.Columns = make([]*TableColumn, len(headers)+1)
	for i, h := range headers {
		b, err := l.cstring(h)
		if err != nil {
			return nil, fmt.Errorf("header %d: %w", i, err)
		}
		columns[i].Header = b
		if i < len(formats) {
			columns[i].HeaderFormat = formats[i]
		}
		if i < len(totals) {
			columns[i].TotalFunction = totals[i]
		}
		opts.Columns[i] = &columns[i]
	}
	return opts, nil
}
