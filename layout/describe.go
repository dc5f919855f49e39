package layout

import (
	"fmt"
	"sort"
	"strings"
)

// Describe returns a human-readable tree of the sheets in doc and the
// cells, lines and objects each one writes. Useful while writing layouts.
func Describe(doc *Document) string {
	var b strings.Builder
	b.WriteString("Layout: ")
	if doc.Source != "" {
		b.WriteString(doc.Source)
	} else {
		b.WriteString("<reader>")
	}
	b.WriteByte('\n')

	if len(doc.Formats) > 0 {
		names := make([]string, 0, len(doc.Formats))
		for name := range doc.Formats {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "  Formats: %s\n", strings.Join(names, ", "))
	}
	for i := range doc.Sheets {
		describeSheet(&b, &doc.Sheets[i])
	}
	return b.String()
}

func describeSheet(b *strings.Builder, sh *SheetSpec) {
	var flags []string
	if sh.Active {
		flags = append(flags, "active")
	}
	if sh.Hidden {
		flags = append(flags, "hidden")
	}
	if sh.Paper != "" {
		flags = append(flags, "paper="+sh.Paper)
	}
	if sh.TabColor != "" {
		flags = append(flags, "tab="+sh.TabColor)
	}
	fmt.Fprintf(b, "  Sheet %q", sh.Name)
	if len(flags) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(flags, " "))
	}
	b.WriteByte('\n')

	for _, c := range sh.Columns {
		fmt.Fprintf(b, "    columns %s width=%v%s\n", c.Range, c.Width, formatSuffix(c.Format))
	}
	if sh.HideColumnsFrom != "" {
		fmt.Fprintf(b, "    columns %s: hidden\n", sh.HideColumnsFrom)
	}
	for _, r := range sh.Rows {
		fmt.Fprintf(b, "    row %d height=%v%s\n", r.Row, r.Height, formatSuffix(r.Format))
	}
	for _, c := range sh.Cells {
		kind := c.Kind
		if kind == "" {
			kind = "auto"
		}
		fmt.Fprintf(b, "    %s: %v (%s)%s\n", c.At, c.Value, kind, formatSuffix(c.Format))
	}
	for _, l := range sh.Lines {
		dir := l.Direction
		if dir == "" {
			dir = "down"
		}
		if l.Each != "" {
			fmt.Fprintf(b, "    %s: each %s as %s %s\n", l.At, l.Each, l.Var, dir)
		} else {
			fmt.Fprintf(b, "    %s: line\n", l.At)
		}
		for _, v := range l.Values {
			fmt.Fprintf(b, "      %v\n", v)
		}
	}
	for _, m := range sh.Merges {
		fmt.Fprintf(b, "    merge %s: %s%s\n", m.Range, m.Text, formatSuffix(m.Format))
	}
	for _, t := range sh.Tables {
		headers := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			headers[i] = c.Header
			if c.Total != "" {
				headers[i] += "=" + c.Total
			}
		}
		fmt.Fprintf(b, "    table %s %s: %s\n", t.Name, t.Range, strings.Join(headers, " | "))
	}
	for _, c := range sh.Charts {
		fmt.Fprintf(b, "    chart %s at %s (%d series)\n", c.Type, c.At, len(c.Series))
	}
	if sh.Autofilter != "" {
		fmt.Fprintf(b, "    autofilter %s\n", sh.Autofilter)
	}
	if sh.PrintArea != "" {
		fmt.Fprintf(b, "    print area %s\n", sh.PrintArea)
	}
}

func formatSuffix(name string) string {
	if name == "" {
		return ""
	}
	return " format=" + name
}
