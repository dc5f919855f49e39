package xlsheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTable_WithTotals(t *testing.T) {
	ws, rec, pool := newTestSheet(t)

	err := ws.AddTable(mustRange(t, "A1:C4"), "Sales",
		[]string{"Region", "Units", "Amount"}, nil, []TotalFunction{TotalSum})
	require.NoError(t, err)

	require.Len(t, rec.tables, 1)
	tc := rec.tables[0]
	assert.True(t, tc.TotalRow)
	assert.Equal(t, 4, tc.Entries, "three headers plus the nil terminator")
	assert.True(t, tc.Terminated)
	assert.Equal(t, []string{"Region", "Units", "Amount"}, tc.Headers)
	assert.Equal(t, []TotalFunction{TotalSum, TotalNone, TotalNone}, tc.Totals)
	assert.Equal(t, []*Format{nil, nil, nil}, tc.Formats)
	assert.Equal(t, "Sales", tc.Name)
	assert.Equal(t, DefaultTableStyle, tc.Style)

	assert.Equal(t, 0, tc.FirstRow)
	assert.Equal(t, 0, tc.FirstCol)
	assert.Equal(t, 4, tc.LastRow, "extent grows one row for the total row")
	assert.Equal(t, 2, tc.LastCol)

	assert.Equal(t, 0, pool.outstanding())
	assert.Equal(t, 4, pool.gets, "name and three headers")
}

func TestAddTable_WithoutTotals(t *testing.T) {
	ws, rec, pool := newTestSheet(t, WithTableStyle(TableStyle{Type: TableStyleLight, Number: 11}))
	bold := FormatID(5)

	err := ws.AddTable(mustRange(t, "B2:E10"), "", []string{"a", "b"}, []*Format{bold}, nil)
	require.NoError(t, err)

	tc := rec.tables[0]
	assert.False(t, tc.TotalRow)
	assert.Equal(t, 3, tc.Entries)
	assert.Equal(t, "", tc.Name)
	assert.Equal(t, []*Format{bold, nil}, tc.Formats)
	assert.Equal(t, []TotalFunction{TotalNone, TotalNone}, tc.Totals)
	assert.Equal(t, 9, tc.LastRow)
	assert.Equal(t, "TableStyleLight11", tc.Style.String())
	assert.Equal(t, 0, pool.outstanding())
	assert.Equal(t, 2, pool.gets)
}

func TestAddTable_HeaderTextIsNormalised(t *testing.T) {
	ws, rec, _ := newTestSheet(t)

	// "e" followed by a combining acute accent composes to U+00E9.
	require.NoError(t, ws.AddTable(mustRange(t, "A1:A3"), "", []string{"Cafe\u0301"}, nil, nil))
	assert.Equal(t, []string{"Caf\u00e9"}, rec.tables[0].Headers)
}

func TestAddTable_EngineFailureReleasesBuffers(t *testing.T) {
	ws, rec, pool := newTestSheet(t)
	rec.fail["AddTable"] = CodeNameInvalid

	err := ws.AddTable(mustRange(t, "A1:C4"), "Dup", []string{"a", "b", "c"}, nil, []TotalFunction{TotalSum})
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, CodeNameInvalid, we.Code)
	assert.Equal(t, "A1:C4", we.Ref)

	assert.Equal(t, 4, pool.gets)
	assert.Equal(t, 0, pool.outstanding())
}

func TestAddTable_NulHeaderReleasesBuffers(t *testing.T) {
	ws, rec, pool := newTestSheet(t)

	err := ws.AddTable(mustRange(t, "A1:C4"), "T", []string{"ok", "bad\x00", "c"}, nil, nil)
	assert.ErrorIs(t, err, ErrNulByte)

	assert.Empty(t, rec.calls)
	assert.Equal(t, 2, pool.gets, "name and the first header were leased")
	assert.Equal(t, 0, pool.outstanding())
}

func TestAddTable_Validation(t *testing.T) {
	ws, rec, pool := newTestSheet(t)
	rng := mustRange(t, "A1:B4")

	tests := []struct {
		name    string
		rng     CellRange
		headers []string
		formats []*Format
		totals  []TotalFunction
		want    error
	}{
		{"no headers", rng, nil, nil, nil, ErrInvalidTable},
		{"too many headers", rng, []string{"a", "b", "c"}, nil, nil, ErrInvalidTable},
		{"too many formats", rng, []string{"a"}, []*Format{nil, nil}, nil, ErrInvalidTable},
		{"too many totals", rng, []string{"a"}, nil, []TotalFunction{TotalSum, TotalSum}, ErrInvalidTable},
		{"totals without data rows", mustRange(t, "A1:B1"), []string{"a", "b"}, nil, []TotalFunction{TotalSum}, ErrInvalidTable},
		{"inverted", CellRange{First: Cell{3, 1}, Last: Cell{0, 0}}, []string{"a"}, nil, nil, ErrInvertedRange},
		{"total row below sheet", CellRange{First: Cell{MaxRow - 2, 0}, Last: Cell{MaxRow, 0}}, []string{"a"}, nil, []TotalFunction{TotalCount}, ErrRowOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ws.AddTable(tt.rng, "", tt.headers, tt.formats, tt.totals)
			assert.ErrorIs(t, err, tt.want)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
	assert.Empty(t, rec.calls)
	assert.Equal(t, 0, pool.gets)
}

func TestAddTableColumns(t *testing.T) {
	ws, rec, pool := newTestSheet(t)
	f := FormatID(9)

	err := ws.AddTableColumns(mustRange(t, "A1:B3"), "Cols", []TableHeader{{Text: "x", Format: f}, {Text: "y"}})
	require.NoError(t, err)

	tc := rec.tables[0]
	assert.False(t, tc.TotalRow)
	assert.Equal(t, []string{"x", "y"}, tc.Headers)
	assert.Equal(t, []*Format{f, nil}, tc.Formats)
	assert.Equal(t, 2, tc.LastRow)
	assert.Equal(t, 0, pool.outstanding())
}

func TestLease_ReleaseIsIdempotent(t *testing.T) {
	pool := &countingPool{}
	l := newLease(pool)

	b, err := l.cstring("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc\x00"), b)
	assert.Equal(t, "abc", CString(b))

	l.release()
	l.release()
	assert.Equal(t, 1, pool.puts)
	assert.Equal(t, 0, pool.outstanding())
}

func TestParseTotalFunction(t *testing.T) {
	for fn, name := range totalNames {
		got, err := ParseTotalFunction(name)
		require.NoError(t, err)
		assert.Equal(t, fn, got)
		assert.Equal(t, name, fn.String())
	}
	got, err := ParseTotalFunction(" SUM ")
	require.NoError(t, err)
	assert.Equal(t, TotalSum, got)

	_, err = ParseTotalFunction("median")
	assert.Error(t, err)
	assert.Equal(t, "total(99)", TotalFunction(99).String())
}

func TestParseTableStyle(t *testing.T) {
	tests := map[string]TableStyle{
		"TableStyleMedium9": {Type: TableStyleMedium, Number: 9},
		"light1":            {Type: TableStyleLight, Number: 1},
		"Dark11":            {Type: TableStyleDark, Number: 11},
	}
	for in, want := range tests {
		got, err := ParseTableStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "Medium", "Medium0", "Dark12", "Light22", "Medium9x", "Plain3"} {
		_, err := ParseTableStyle(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "TableStyleMedium9", DefaultTableStyle.String())
}
