package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/javajack/xlsheet"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Option configures Render.
type Option func(*renderer)

// WithLogger sets the logger for render progress (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(r *renderer) { r.log = l }
}

type renderer struct {
	wb      *xlsheet.Workbook
	scope   *scope
	formats map[string]*xlsheet.Format
	log     zerolog.Logger
}

// Render writes every sheet of doc into wb, evaluating expressions against
// data. It stops at the first error, leaving wb partially written.
func Render(wb *xlsheet.Workbook, doc *Document, data map[string]any, opts ...Option) error {
	r := &renderer{
		wb:      wb,
		scope:   newScope(data),
		formats: make(map[string]*xlsheet.Format),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(doc.Sheets) == 0 {
		return fmt.Errorf("layout has no sheets")
	}
	if err := r.addFormats(doc.Formats); err != nil {
		return err
	}
	for i := range doc.Sheets {
		sh := &doc.Sheets[i]
		if err := r.renderSheet(sh); err != nil {
			return fmt.Errorf("sheet %q: %w", sh.Name, err)
		}
	}
	return nil
}

func (r *renderer) addFormats(specs map[string]FormatSpec) error {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st, err := specs[name].style()
		if err != nil {
			return fmt.Errorf("format %q: %w", name, err)
		}
		f, err := r.wb.AddFormat(st)
		if err != nil {
			return fmt.Errorf("format %q: %w", name, err)
		}
		r.formats[name] = f
	}
	return nil
}

func (r *renderer) format(name string) (*xlsheet.Format, error) {
	if name == "" {
		return nil, nil
	}
	f, ok := r.formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q", name)
	}
	return f, nil
}

func (r *renderer) renderSheet(sh *SheetSpec) error {
	ws, err := r.wb.AddWorksheet(sh.Name)
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func(*xlsheet.Worksheet, *SheetSpec) error
	}{
		{"page setup", r.pageSetup},
		{"columns", r.columns},
		{"rows", r.rows},
		{"cells", r.cells},
		{"lines", r.lines},
		{"merges", r.merges},
		{"tables", r.tables},
		{"charts", r.charts},
		{"ranges", r.ranges},
	}
	for _, step := range steps {
		if err := step.run(ws, sh); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	if sh.Hidden {
		if err := ws.Hide(); err != nil {
			return err
		}
	}
	if sh.Active {
		if err := ws.Activate(); err != nil {
			return err
		}
	}
	r.log.Debug().Str("sheet", sh.Name).Int("cells", len(sh.Cells)).Int("lines", len(sh.Lines)).Msg("sheet rendered")
	return nil
}

func (r *renderer) pageSetup(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	c := ws.Chain()
	if sh.Paper != "" {
		p, ok := xlsheet.ParsePaper(strings.ToLower(sh.Paper))
		if !ok {
			return fmt.Errorf("unknown paper %q", sh.Paper)
		}
		c.SetPaper(p)
	}
	if sh.TabColor != "" {
		col, err := xlsheet.ParseColor(sh.TabColor)
		if err != nil {
			return err
		}
		c.SetTabColor(col)
	}
	if sh.ShowZeros != nil {
		c.ShowZeros(*sh.ShowZeros)
	}
	if g := sh.Gridlines; g != nil {
		c.SetGridlines(g.Screen, g.Print)
	}
	if d := sh.DefaultRow; d != nil {
		c.SetDefaultRow(d.Height, d.HideUnused)
	}
	return c.Err()
}

func (r *renderer) columns(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	for _, col := range sh.Columns {
		cols, err := xlsheet.ParseColumnRange(col.Range)
		if err != nil {
			return err
		}
		f, err := r.format(col.Format)
		if err != nil {
			return err
		}
		width := col.Width
		if width == 0 {
			width = xlsheet.DefaultColumnWidth
		}
		var opts *xlsheet.ColumnOptions
		if col.Hidden || col.Level > 0 {
			opts = &xlsheet.ColumnOptions{Hidden: col.Hidden, Level: col.Level}
		}
		if err := ws.SetColumn(cols, width, f, opts); err != nil {
			return err
		}
	}
	if sh.HideColumnsFrom != "" {
		col, err := xlsheet.ColumnIndex(sh.HideColumnsFrom)
		if err != nil {
			return err
		}
		return ws.HideColumnsFrom(col)
	}
	return nil
}

func (r *renderer) rows(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	for _, row := range sh.Rows {
		if row.Row < 1 {
			return fmt.Errorf("row %d: rows are numbered from 1", row.Row)
		}
		f, err := r.format(row.Format)
		if err != nil {
			return err
		}
		height := row.Height
		if height == 0 {
			height = xlsheet.DefaultRowHeight
		}
		var opts *xlsheet.RowOptions
		if row.Hidden || row.Level > 0 {
			opts = &xlsheet.RowOptions{Hidden: row.Hidden, Level: row.Level}
		}
		if err := ws.SetRow(row.Row-1, height, f, opts); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) cells(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	for _, cs := range sh.Cells {
		cell, err := xlsheet.ParseCell(cs.At)
		if err != nil {
			return err
		}
		f, err := r.format(cs.Format)
		if err != nil {
			return err
		}
		v, err := r.value(cs.Value, cs.Kind)
		if err != nil {
			return fmt.Errorf("%s: %w", cs.At, err)
		}
		if err := ws.WriteValue(cell, v, f); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) lines(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	for _, ln := range sh.Lines {
		if err := r.line(ws, ln); err != nil {
			return fmt.Errorf("%s: %w", ln.At, err)
		}
	}
	return nil
}

func (r *renderer) line(ws *xlsheet.Worksheet, ln LineSpec) error {
	start, err := xlsheet.ParseCell(ln.At)
	if err != nil {
		return err
	}
	f, err := r.format(ln.Format)
	if err != nil {
		return err
	}
	right, err := isRight(ln.Direction)
	if err != nil {
		return err
	}

	// One run of values per element; elements advance along the direction
	// and a run is laid out across it.
	write := func(i int) error {
		vals := make([]xlsheet.Value, len(ln.Values))
		for j, raw := range ln.Values {
			if vals[j], err = r.value(raw, ""); err != nil {
				return err
			}
		}
		if right {
			return ws.WriteColumn(start.Offset(0, i), vals, f)
		}
		return ws.WriteRow(start.Offset(i, 0), vals, f)
	}

	if ln.Each == "" {
		return write(0)
	}

	coll, err := r.scope.eval(ln.Each)
	if err != nil {
		return err
	}
	list, err := items(coll)
	if err != nil {
		return fmt.Errorf("each %q: %w", ln.Each, err)
	}

	name := ln.Var
	if name == "" {
		name = "item"
	}
	index := ln.Index
	if index == "" {
		index = "index"
	}
	b := r.scope.bind(name, index)
	defer b.close()
	for i, item := range list {
		b.set(item, i)
		if err := write(i); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func isRight(direction string) (bool, error) {
	switch strings.ToLower(direction) {
	case "", "down":
		return false, nil
	case "right":
		return true, nil
	}
	return false, fmt.Errorf("unknown direction %q", direction)
}

func (r *renderer) merges(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	for _, m := range sh.Merges {
		rng, err := xlsheet.ParseRange(m.Range)
		if err != nil {
			return err
		}
		f, err := r.format(m.Format)
		if err != nil {
			return err
		}
		text, err := r.scope.interpolateString(m.Text)
		if err != nil {
			return err
		}
		if err := ws.MergeRange(rng, text, f); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) tables(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	for _, t := range sh.Tables {
		rng, err := xlsheet.ParseRange(t.Range)
		if err != nil {
			return err
		}
		headers := make([]string, len(t.Columns))
		formats := make([]*xlsheet.Format, len(t.Columns))
		totals := make([]xlsheet.TotalFunction, len(t.Columns))
		anyTotal := false
		for i, c := range t.Columns {
			if headers[i], err = r.scope.interpolateString(c.Header); err != nil {
				return err
			}
			if formats[i], err = r.format(c.Format); err != nil {
				return err
			}
			if c.Total != "" {
				if totals[i], err = xlsheet.ParseTotalFunction(c.Total); err != nil {
					return err
				}
				anyTotal = anyTotal || totals[i] != xlsheet.TotalNone
			}
		}
		if !anyTotal {
			totals = nil
		}
		if err := ws.AddTable(rng, t.Name, headers, formats, totals); err != nil {
			return err
		}
	}
	return nil
}

var chartTypes = map[string]excelize.ChartType{
	"area":     excelize.Area,
	"bar":      excelize.Bar,
	"column":   excelize.Col,
	"doughnut": excelize.Doughnut,
	"line":     excelize.Line,
	"pie":      excelize.Pie,
	"radar":    excelize.Radar,
	"scatter":  excelize.Scatter,
}

var positions = map[string]xlsheet.ObjectPosition{
	"":                    xlsheet.PositionDefault,
	"move_and_size":       xlsheet.PositionMoveAndSize,
	"move_dont_size":      xlsheet.PositionMoveDontSize,
	"dont_move_dont_size": xlsheet.PositionDontMoveDontSize,
}

func (r *renderer) charts(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	for _, cs := range sh.Charts {
		cell, err := xlsheet.ParseCell(cs.At)
		if err != nil {
			return err
		}
		def, err := r.chartDefinition(cs)
		if err != nil {
			return fmt.Errorf("%s: %w", cs.At, err)
		}
		opts, err := chartOptions(cs)
		if err != nil {
			return fmt.Errorf("%s: %w", cs.At, err)
		}
		if err := ws.InsertChart(cell, r.wb.AddChart(def), opts...); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) chartDefinition(cs ChartSpec) (*excelize.Chart, error) {
	typ, ok := chartTypes[strings.ToLower(cs.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown chart type %q", cs.Type)
	}
	if len(cs.Series) == 0 {
		return nil, fmt.Errorf("chart has no series")
	}
	def := &excelize.Chart{Type: typ}
	for _, s := range cs.Series {
		name, err := r.scope.interpolateString(s.Name)
		if err != nil {
			return nil, err
		}
		def.Series = append(def.Series, excelize.ChartSeries{
			Name:       name,
			Categories: s.Categories,
			Values:     s.Values,
		})
	}
	if cs.Title != "" {
		title, err := r.scope.interpolateString(cs.Title)
		if err != nil {
			return nil, err
		}
		def.Title = []excelize.RichTextRun{{Text: title}}
	}
	return def, nil
}

func chartOptions(cs ChartSpec) ([]xlsheet.ChartOption, error) {
	var opts []xlsheet.ChartOption
	switch len(cs.Scale) {
	case 0:
	case 2:
		opts = append(opts, xlsheet.WithScale(cs.Scale[0], cs.Scale[1]))
	default:
		return nil, fmt.Errorf("scale wants [x, y], got %d values", len(cs.Scale))
	}
	switch len(cs.Offset) {
	case 0:
	case 2:
		opts = append(opts, xlsheet.WithOffset(cs.Offset[0], cs.Offset[1]))
	default:
		return nil, fmt.Errorf("offset wants [x, y], got %d values", len(cs.Offset))
	}
	p, ok := positions[strings.ToLower(cs.Positioning)]
	if !ok {
		return nil, fmt.Errorf("unknown positioning %q", cs.Positioning)
	}
	if p != xlsheet.PositionDefault {
		opts = append(opts, xlsheet.WithPositioning(p))
	}
	return opts, nil
}

func (r *renderer) ranges(ws *xlsheet.Worksheet, sh *SheetSpec) error {
	if sh.Autofilter != "" {
		rng, err := xlsheet.ParseRange(sh.Autofilter)
		if err != nil {
			return err
		}
		if err := ws.SetAutofilter(rng); err != nil {
			return err
		}
	}
	if sh.PrintArea != "" {
		rng, err := xlsheet.ParseRange(sh.PrintArea)
		if err != nil {
			return err
		}
		if err := ws.SetPrintArea(rng); err != nil {
			return err
		}
	}
	return nil
}

// value evaluates raw and converts it to a cell value of the given kind.
func (r *renderer) value(raw any, kind string) (xlsheet.Value, error) {
	v, err := r.scope.interpolate(raw)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		return xlsheet.ValueOf(v)
	}
	k, err := xlsheet.ParseKind(strings.ToLower(kind))
	if err != nil {
		return nil, err
	}
	return convert(v, k)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func convert(v any, k xlsheet.Kind) (xlsheet.Value, error) {
	text := ""
	if v != nil {
		text = fmt.Sprint(v)
	}
	switch k {
	case xlsheet.KindNumber:
		if s, ok := v.(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("number: %w", err)
			}
			return xlsheet.Number(f), nil
		}
		out, err := xlsheet.ValueOf(v)
		if err != nil {
			return nil, err
		}
		if out.Kind() != xlsheet.KindNumber {
			return nil, fmt.Errorf("number: cannot convert %T", v)
		}
		return out, nil
	case xlsheet.KindText:
		return xlsheet.Text(text), nil
	case xlsheet.KindURL:
		if u, ok := v.(xlsheet.URL); ok {
			return u, nil
		}
		return xlsheet.ParseURL(text)
	case xlsheet.KindBlank:
		return xlsheet.Blank{}, nil
	case xlsheet.KindComment:
		return xlsheet.Comment(text), nil
	case xlsheet.KindBool:
		if b, ok := v.(bool); ok {
			return xlsheet.Bool(b), nil
		}
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("bool: %w", err)
		}
		return xlsheet.Bool(b), nil
	case xlsheet.KindFormula:
		return xlsheet.Formula(text), nil
	case xlsheet.KindDateTime:
		if t, ok := v.(time.Time); ok {
			return xlsheet.DateTime(t), nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return xlsheet.DateTime(t), nil
			}
		}
		return nil, fmt.Errorf("datetime: cannot parse %q", text)
	}
	return nil, fmt.Errorf("unsupported kind %v", k)
}
