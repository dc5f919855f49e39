// Package layout renders declarative YAML worksheet layouts through the
// xlsheet facade. Values may embed ${...} expressions evaluated against a
// data map.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a parsed layout.
type Document struct {
	Formats map[string]FormatSpec `yaml:"formats"`
	Sheets  []SheetSpec           `yaml:"sheets"`

	// Source is the file the document was loaded from, if any.
	Source string `yaml:"-"`
}

// FormatSpec describes a named cell format.
type FormatSpec struct {
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	FontColor string `yaml:"font_color"` // "#RRGGBB"
	Fill      string `yaml:"fill"`       // "#RRGGBB"
	NumFormat string `yaml:"num_format"` // e.g. "0.00", "yyyy-mm-dd"
	Align     string `yaml:"align"`      // left, center, right
	VAlign    string `yaml:"valign"`     // top, center, bottom
	Wrap      bool   `yaml:"wrap"`
}

// SheetSpec describes one worksheet.
type SheetSpec struct {
	Name            string          `yaml:"name"`
	Active          bool            `yaml:"active"`
	Hidden          bool            `yaml:"hidden"`
	TabColor        string          `yaml:"tab_color"`
	Paper           string          `yaml:"paper"`
	ShowZeros       *bool           `yaml:"show_zeros"`
	Gridlines       *GridlineSpec   `yaml:"gridlines"`
	DefaultRow      *DefaultRowSpec `yaml:"default_row"`
	Columns         []ColumnSpec    `yaml:"columns"`
	HideColumnsFrom string          `yaml:"hide_columns_from"`
	Rows            []RowSpec       `yaml:"rows"`
	Cells           []CellSpec      `yaml:"cells"`
	Lines           []LineSpec      `yaml:"lines"`
	Merges          []MergeSpec     `yaml:"merges"`
	Tables          []TableSpec     `yaml:"tables"`
	Charts          []ChartSpec     `yaml:"charts"`
	Autofilter      string          `yaml:"autofilter"`
	PrintArea       string          `yaml:"print_area"`
}

type GridlineSpec struct {
	Screen bool `yaml:"screen"`
	Print  bool `yaml:"print"`
}

type DefaultRowSpec struct {
	Height     float64 `yaml:"height"`
	HideUnused bool    `yaml:"hide_unused"`
}

// ColumnSpec sets width and options for a column range such as "A:C".
type ColumnSpec struct {
	Range  string  `yaml:"range"`
	Width  float64 `yaml:"width"`
	Format string  `yaml:"format"`
	Hidden bool    `yaml:"hidden"`
	Level  uint8   `yaml:"level"`
}

// RowSpec sets height and options for one row. Row is 1-based, as displayed.
type RowSpec struct {
	Row    int     `yaml:"row"`
	Height float64 `yaml:"height"`
	Format string  `yaml:"format"`
	Hidden bool    `yaml:"hidden"`
	Level  uint8   `yaml:"level"`
}

// CellSpec writes one value. Kind forces the value kind; without it the
// kind follows the evaluated value.
type CellSpec struct {
	At     string `yaml:"at"`
	Value  any    `yaml:"value"`
	Kind   string `yaml:"kind"`
	Format string `yaml:"format"`
}

// LineSpec writes a run of values. With Each, the run is repeated for every
// element of the collection, advancing one row (direction down) or one
// column (direction right) per element.
type LineSpec struct {
	At        string `yaml:"at"`
	Each      string `yaml:"each"`
	Var       string `yaml:"var"`
	Index     string `yaml:"index"`
	Direction string `yaml:"direction"`
	Values    []any  `yaml:"values"`
	Format    string `yaml:"format"`
}

type MergeSpec struct {
	Range  string `yaml:"range"`
	Text   string `yaml:"text"`
	Format string `yaml:"format"`
}

type TableSpec struct {
	Range   string            `yaml:"range"`
	Name    string            `yaml:"name"`
	Columns []TableColumnSpec `yaml:"columns"`
}

type TableColumnSpec struct {
	Header string `yaml:"header"`
	Format string `yaml:"format"`
	Total  string `yaml:"total"`
}

type ChartSpec struct {
	At          string       `yaml:"at"`
	Type        string       `yaml:"type"`
	Title       string       `yaml:"title"`
	Series      []SeriesSpec `yaml:"series"`
	Scale       []float64    `yaml:"scale"`  // [x, y]
	Offset      []int        `yaml:"offset"` // [x, y] pixels
	Positioning string       `yaml:"positioning"`
}

type SeriesSpec struct {
	Name       string `yaml:"name"`
	Categories string `yaml:"categories"`
	Values     string `yaml:"values"`
}

// Parse decodes a layout document.
func Parse(data []byte) (*Document, error) {
	return Load(bytes.NewReader(data))
}

// Load decodes a layout document from r.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode layout: empty document")
		}
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and decodes the layout at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout %q: %w", path, err)
	}
	defer f.Close()

	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// LoadData reads a YAML mapping used as expression data. An empty path
// yields an empty map.
func LoadData(path string) (map[string]any, error) {
	data := make(map[string]any)
	if path == "" {
		return data, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode data %q: %w", path, err)
	}
	return data, nil
}
