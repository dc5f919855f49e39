package xlsheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Worksheet limits, as zero-based indexes.
const (
	MaxRow    = 1048575
	MaxColumn = 16383
)

// Cell is a zero-based worksheet coordinate.
type Cell struct {
	Row int
	Col int
}

// NewCell creates a Cell from zero-based row and column indexes.
func NewCell(row, col int) Cell {
	return Cell{Row: row, Col: col}
}

// CellAt creates a Cell from a zero-based row and spreadsheet column letters.
func CellAt(row int, column string) (Cell, error) {
	col, err := ColumnIndex(column)
	if err != nil {
		return Cell{}, err
	}
	c := Cell{Row: row, Col: col}
	return c, c.Validate()
}

// ParseCell parses a reference like "B5" or "$B$5".
func ParseCell(s string) (Cell, error) {
	name := strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if name == "" {
		return Cell{}, fmt.Errorf("%w: empty reference", ErrInvalidReference)
	}

	i := 0
	for i < len(name) && isAlpha(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return Cell{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}

	col, err := ColumnIndex(name[:i])
	if err != nil {
		return Cell{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	rowNum, err := strconv.Atoi(name[i:])
	if err != nil || rowNum < 1 || strings.ContainsAny(name[i:], "+-") {
		return Cell{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}

	c := Cell{Row: rowNum - 1, Col: col}
	return c, c.Validate()
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Validate reports whether the cell fits the worksheet limits.
func (c Cell) Validate() error {
	if c.Row < 0 || c.Row > MaxRow {
		return fmt.Errorf("%w: row %d not in [0, %d]", ErrRowOutOfRange, c.Row, MaxRow)
	}
	if c.Col < 0 || c.Col > MaxColumn {
		return fmt.Errorf("%w: column %d not in [0, %d]", ErrColumnOutOfRange, c.Col, MaxColumn)
	}
	return nil
}

// Offset returns the cell moved by the given number of rows and columns.
func (c Cell) Offset(rows, cols int) Cell {
	return Cell{Row: c.Row + rows, Col: c.Col + cols}
}

// Name returns the A1-style name, e.g. "B5". Cells outside the worksheet
// limits are formatted as "R{row}C{col}" with zero-based indexes.
func (c Cell) Name() string {
	if c.Validate() != nil {
		return fmt.Sprintf("R%dC%d", c.Row, c.Col)
	}
	return ColumnName(c.Col) + strconv.Itoa(c.Row+1)
}

func (c Cell) String() string {
	return c.Name()
}

// ColumnName converts a zero-based column index to letters.
// 0→"A", 25→"Z", 26→"AA", 16383→"XFD". Negative indexes return "".
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for col++; col > 0; col /= 26 {
		col--
		i--
		buf[i] = byte('A' + col%26)
	}
	return string(buf[i:])
}

// ColumnIndex converts column letters to a zero-based index.
// "A"→0, "Z"→25, "AA"→26. Lower case is accepted.
func ColumnIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidColumnName)
	}
	col := 0
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumnName, name)
		}
		col = col*26 + int(ch-'A') + 1
		if col-1 > MaxColumn {
			return 0, fmt.Errorf("%w: %q exceeds %s", ErrColumnOutOfRange, name, ColumnName(MaxColumn))
		}
	}
	return col - 1, nil
}

// CellRange is an inclusive rectangular block of cells.
type CellRange struct {
	First Cell
	Last  Cell
}

// NewRange creates a validated range. Inverted ranges are rejected.
func NewRange(startRow, startCol, endRow, endCol int) (CellRange, error) {
	r := CellRange{First: Cell{startRow, startCol}, Last: Cell{endRow, endCol}}
	return r, r.Validate()
}

// RangeOf creates a validated range from two cells.
func RangeOf(first, last Cell) (CellRange, error) {
	r := CellRange{First: first, Last: last}
	return r, r.Validate()
}

// ParseRange parses "A1:C5". A single reference such as "B2" is a one-cell range.
func ParseRange(s string) (CellRange, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)

	first, err := ParseCell(parts[0])
	if err != nil {
		return CellRange{}, fmt.Errorf("parse range %q: %w", s, err)
	}
	if len(parts) == 1 {
		return CellRange{First: first, Last: first}, nil
	}
	last, err := ParseCell(parts[1])
	if err != nil {
		return CellRange{}, fmt.Errorf("parse range %q: %w", s, err)
	}
	return RangeOf(first, last)
}

// Validate checks both corners and the ordering of the range.
func (r CellRange) Validate() error {
	if err := r.First.Validate(); err != nil {
		return err
	}
	if err := r.Last.Validate(); err != nil {
		return err
	}
	if r.First.Row > r.Last.Row || r.First.Col > r.Last.Col {
		return fmt.Errorf("%w: %s after %s", ErrInvertedRange, r.First, r.Last)
	}
	return nil
}

// Rows returns the number of rows covered.
func (r CellRange) Rows() int {
	return r.Last.Row - r.First.Row + 1
}

// Cols returns the number of columns covered.
func (r CellRange) Cols() int {
	return r.Last.Col - r.First.Col + 1
}

// Contains reports whether c lies inside the range.
func (r CellRange) Contains(c Cell) bool {
	return c.Row >= r.First.Row && c.Row <= r.Last.Row &&
		c.Col >= r.First.Col && c.Col <= r.Last.Col
}

// String formats the range as "A1:C5".
func (r CellRange) String() string {
	return r.First.Name() + ":" + r.Last.Name()
}

// ColumnRange is an inclusive span of columns.
type ColumnRange struct {
	First int
	Last  int
}

// NewColumnRange creates a validated column range.
func NewColumnRange(first, last int) (ColumnRange, error) {
	c := ColumnRange{First: first, Last: last}
	return c, c.Validate()
}

// ParseColumnRange parses "A:C" or a single column such as "B".
func ParseColumnRange(s string) (ColumnRange, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(strings.ReplaceAll(s, "$", ""), ":", 2)

	first, err := ColumnIndex(parts[0])
	if err != nil {
		return ColumnRange{}, fmt.Errorf("parse column range %q: %w", s, err)
	}
	last := first
	if len(parts) == 2 {
		if last, err = ColumnIndex(parts[1]); err != nil {
			return ColumnRange{}, fmt.Errorf("parse column range %q: %w", s, err)
		}
	}
	return NewColumnRange(first, last)
}

// Validate checks bounds and ordering.
func (c ColumnRange) Validate() error {
	for _, col := range [...]int{c.First, c.Last} {
		if col < 0 || col > MaxColumn {
			return fmt.Errorf("%w: column %d not in [0, %d]", ErrColumnOutOfRange, col, MaxColumn)
		}
	}
	if c.First > c.Last {
		return fmt.Errorf("%w: column %s after %s", ErrInvertedRange, ColumnName(c.First), ColumnName(c.Last))
	}
	return nil
}

// String formats the range as "A:C".
func (c ColumnRange) String() string {
	return ColumnName(c.First) + ":" + ColumnName(c.Last)
}
