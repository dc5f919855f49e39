package layout

import (
	"fmt"
	"strings"

	"github.com/javajack/xlsheet"
)

// Severity indicates how serious a validation issue is.
type Severity int

const (
	SeverityError   Severity = iota // Render will fail
	SeverityWarning                 // Render succeeds but the output is probably not what was meant
)

// Issue is one problem found in a layout.
type Issue struct {
	Severity Severity
	Where    string
	Message  string
}

// String formats the issue as "[ERROR] Sheet1 cells[0]: message" or "[WARN] ...".
func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, i.Where, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks a layout for structural and expression errors without
// data. Expressions are compiled for syntax only.
func Validate(doc *Document) []Issue {
	v := &validator{doc: doc}
	v.formats()
	if len(doc.Sheets) == 0 {
		v.errorf("layout", "no sheets defined")
	}
	seen := make(map[string]bool)
	for i := range doc.Sheets {
		sh := &doc.Sheets[i]
		where := fmt.Sprintf("sheets[%d]", i)
		if sh.Name == "" {
			v.errorf(where, "sheet name is empty")
		} else {
			where = sh.Name
			key := strings.ToLower(sh.Name)
			if seen[key] {
				v.errorf(where, "duplicate sheet name")
			}
			seen[key] = true
		}
		v.sheet(where, sh)
	}
	return v.issues
}

type validator struct {
	doc    *Document
	issues []Issue
}

func (v *validator) errorf(where, format string, args ...any) {
	v.issues = append(v.issues, Issue{Severity: SeverityError, Where: where, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) warnf(where, format string, args ...any) {
	v.issues = append(v.issues, Issue{Severity: SeverityWarning, Where: where, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) formats() {
	for name, spec := range v.doc.Formats {
		if _, err := spec.style(); err != nil {
			v.errorf("formats."+name, "%v", err)
		}
	}
}

func (v *validator) format(where, name string) {
	if name == "" {
		return
	}
	if _, ok := v.doc.Formats[name]; !ok {
		v.errorf(where, "unknown format %q", name)
	}
}

func (v *validator) cell(where, ref string) {
	if _, err := xlsheet.ParseCell(ref); err != nil {
		v.errorf(where, "%v", err)
	}
}

func (v *validator) rng(where, ref string) {
	if _, err := xlsheet.ParseRange(ref); err != nil {
		v.errorf(where, "%v", err)
	}
}

// text checks the syntax of every ${...} segment in s.
func (v *validator) text(where, s string) {
	for _, seg := range splitSegments(s) {
		if !seg.expr {
			continue
		}
		if err := checkSyntax(seg.text); err != nil {
			v.errorf(where, "invalid expression syntax %q: %v", seg.text, err)
		}
	}
}

func (v *validator) value(where string, raw any) {
	if s, ok := raw.(string); ok {
		v.text(where, s)
	}
}

func (v *validator) sheet(where string, sh *SheetSpec) {
	if sh.Paper != "" {
		if _, ok := xlsheet.ParsePaper(strings.ToLower(sh.Paper)); !ok {
			v.errorf(where, "unknown paper %q", sh.Paper)
		}
	}
	if sh.TabColor != "" {
		if _, err := xlsheet.ParseColor(sh.TabColor); err != nil {
			v.errorf(where, "tab_color: %v", err)
		}
	}
	if sh.Hidden && sh.Active {
		v.warnf(where, "sheet is both hidden and active")
	}
	if d := sh.DefaultRow; d != nil && d.Height < 0 {
		v.errorf(where, "default_row height %v is negative", d.Height)
	}

	for i, c := range sh.Columns {
		at := fmt.Sprintf("%s columns[%d]", where, i)
		if _, err := xlsheet.ParseColumnRange(c.Range); err != nil {
			v.errorf(at, "%v", err)
		}
		if c.Width < 0 {
			v.errorf(at, "width %v is negative", c.Width)
		}
		if c.Level > 7 {
			v.errorf(at, "outline level %d exceeds 7", c.Level)
		}
		v.format(at, c.Format)
	}
	if sh.HideColumnsFrom != "" {
		if _, err := xlsheet.ColumnIndex(sh.HideColumnsFrom); err != nil {
			v.errorf(where+" hide_columns_from", "%v", err)
		}
	}
	for i, r := range sh.Rows {
		at := fmt.Sprintf("%s rows[%d]", where, i)
		if r.Row < 1 || r.Row > xlsheet.MaxRow+1 {
			v.errorf(at, "row %d out of range", r.Row)
		}
		if r.Height < 0 {
			v.errorf(at, "height %v is negative", r.Height)
		}
		if r.Level > 7 {
			v.errorf(at, "outline level %d exceeds 7", r.Level)
		}
		v.format(at, r.Format)
	}

	for i, c := range sh.Cells {
		at := fmt.Sprintf("%s cells[%d]", where, i)
		v.cell(at, c.At)
		v.format(at, c.Format)
		v.value(at, c.Value)
		if c.Kind != "" {
			if _, err := xlsheet.ParseKind(strings.ToLower(c.Kind)); err != nil {
				v.errorf(at, "%v", err)
			}
		}
	}
	for i, l := range sh.Lines {
		v.line(fmt.Sprintf("%s lines[%d]", where, i), l)
	}
	for i, m := range sh.Merges {
		at := fmt.Sprintf("%s merges[%d]", where, i)
		if rng, err := xlsheet.ParseRange(m.Range); err != nil {
			v.errorf(at, "%v", err)
		} else if rng.Rows() == 1 && rng.Cols() == 1 {
			v.errorf(at, "merge range %s is a single cell", m.Range)
		}
		v.format(at, m.Format)
		v.text(at, m.Text)
	}
	names := make(map[string]bool)
	for i, t := range sh.Tables {
		at := fmt.Sprintf("%s tables[%d]", where, i)
		if t.Name != "" {
			if names[strings.ToLower(t.Name)] {
				v.errorf(at, "duplicate table name %q", t.Name)
			}
			names[strings.ToLower(t.Name)] = true
		}
		v.table(at, t)
	}
	for i, c := range sh.Charts {
		v.chart(fmt.Sprintf("%s charts[%d]", where, i), c)
	}
	if sh.Autofilter != "" {
		v.rng(where+" autofilter", sh.Autofilter)
	}
	if sh.PrintArea != "" {
		v.rng(where+" print_area", sh.PrintArea)
	}
}

func (v *validator) line(at string, l LineSpec) {
	v.cell(at, l.At)
	v.format(at, l.Format)
	if _, err := isRight(l.Direction); err != nil {
		v.errorf(at, "%v", err)
	}
	if len(l.Values) == 0 {
		v.warnf(at, "line has no values")
	}
	for _, raw := range l.Values {
		v.value(at, raw)
	}
	if l.Each == "" {
		if l.Var != "" || l.Index != "" {
			v.warnf(at, "var and index are ignored without each")
		}
		return
	}
	if err := checkSyntax(l.Each); err != nil {
		v.errorf(at, "invalid each expression %q: %v", l.Each, err)
	}
	if l.Var == "" {
		v.warnf(at, "each without var binds the element as %q", "item")
	}
	if l.Var != "" && l.Var == l.Index {
		v.errorf(at, "var and index are both %q", l.Var)
	}
}

func (v *validator) table(at string, t TableSpec) {
	rng, err := xlsheet.ParseRange(t.Range)
	if err != nil {
		v.errorf(at, "%v", err)
		return
	}
	if len(t.Columns) != rng.Cols() {
		v.errorf(at, "%d columns declared for a range %d wide", len(t.Columns), rng.Cols())
	}
	hasTotal := false
	for j, c := range t.Columns {
		col := fmt.Sprintf("%s columns[%d]", at, j)
		hasTotal = hasTotal || (c.Total != "" && strings.ToLower(c.Total) != "none")
		if c.Header == "" {
			v.errorf(col, "header is empty")
		}
		v.text(col, c.Header)
		v.format(col, c.Format)
		if c.Total != "" {
			if _, err := xlsheet.ParseTotalFunction(c.Total); err != nil {
				v.errorf(col, "%v", err)
			}
		}
	}
	if hasTotal && rng.Rows() < 2 {
		v.errorf(at, "a total row needs at least one data row under the headers")
	}
}

func (v *validator) chart(at string, c ChartSpec) {
	v.cell(at, c.At)
	if _, ok := chartTypes[strings.ToLower(c.Type)]; !ok {
		v.errorf(at, "unknown chart type %q", c.Type)
	}
	if len(c.Series) == 0 {
		v.errorf(at, "chart has no series")
	}
	for j, s := range c.Series {
		if s.Values == "" {
			v.errorf(fmt.Sprintf("%s series[%d]", at, j), "values reference is empty")
		}
		v.text(at, s.Name)
	}
	v.text(at, c.Title)
	if _, err := chartOptions(c); err != nil {
		v.errorf(at, "%v", err)
	}
	for _, s := range c.Scale {
		if s <= 0 {
			v.errorf(at, "scale %v must be positive", s)
		}
	}
}
