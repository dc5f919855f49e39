package layout

import (
	"fmt"

	"github.com/javajack/xlsheet"
	"github.com/xuri/excelize/v2"
)

var horizontal = map[string]bool{"": true, "left": true, "center": true, "right": true, "fill": true, "justify": true}
var vertical = map[string]bool{"": true, "top": true, "center": true, "bottom": true}

// style builds the excelize style for a format spec.
func (f FormatSpec) style() (*excelize.Style, error) {
	st := &excelize.Style{}
	if f.Bold || f.Italic || f.FontColor != "" {
		font := &excelize.Font{Bold: f.Bold, Italic: f.Italic}
		if f.FontColor != "" {
			c, err := xlsheet.ParseColor(f.FontColor)
			if err != nil {
				return nil, fmt.Errorf("font_color: %w", err)
			}
			font.Color = c.Hex()
		}
		st.Font = font
	}
	if f.Fill != "" {
		c, err := xlsheet.ParseColor(f.Fill)
		if err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
		st.Fill = excelize.Fill{Type: "pattern", Color: []string{c.Hex()}, Pattern: 1}
	}
	if f.NumFormat != "" {
		nf := f.NumFormat
		st.CustomNumFmt = &nf
	}
	if !horizontal[f.Align] {
		return nil, fmt.Errorf("align: unknown value %q", f.Align)
	}
	if !vertical[f.VAlign] {
		return nil, fmt.Errorf("valign: unknown value %q", f.VAlign)
	}
	if f.Align != "" || f.VAlign != "" || f.Wrap {
		st.Alignment = &excelize.Alignment{Horizontal: f.Align, Vertical: f.VAlign, WrapText: f.Wrap}
	}
	return st, nil
}
