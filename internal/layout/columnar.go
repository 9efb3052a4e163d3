package layout

// Columnar defaults.
const (
	DefaultMaxColumns     = 4
	DefaultMinColumnWidth = 320.0
)

// ColumnarParams configures the sections layout.
type ColumnarParams struct {
	// MaxColumns caps the number of section columns (default 4).
	MaxColumns int

	// MinColumnWidth is the narrowest a section column may get before
	// the layout drops a column (default 320).
	MinColumnWidth float64

	InterColumnSpacing float64
	InterItemSpacing   float64
	Insets             Insets
}

func (p ColumnarParams) withDefaults() ColumnarParams {
	if p.MaxColumns <= 0 {
		p.MaxColumns = DefaultMaxColumns
	}
	if p.MinColumnWidth <= 0 {
		p.MinColumnWidth = DefaultMinColumnWidth
	}
	return p
}

// ColumnarColumns returns how many section columns fit: bounded by
// MaxColumns, by the minimum column width and by the number of sections,
// and never less than one.
func ColumnarColumns(sections int, width float64, p ColumnarParams) int {
	p = p.withDefaults()
	inner := width - p.Insets.Left - p.Insets.Right

	cols := p.MaxColumns
	for cols > 1 && columnWidth(inner, p.InterColumnSpacing, cols) < p.MinColumnWidth {
		cols--
	}
	if sections > 0 && sections < cols {
		cols = sections
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Columnar lays out sections one per column, wrapping to a new row band
// after the last column. Each band starts below the tallest section of the
// band above it. Inside a section, the header comes first and items flow
// left to right on a 12-column sub-grid, top-aligned, starting a new row
// whenever an item does not fit.
//
// Returns one placement per item, in section order then item order.
func Columnar(sections []SectionBlock, width float64, p ColumnarParams) []Placement {
	p = p.withDefaults()
	cols := ColumnarColumns(len(sections), width, p)
	inner := width - p.Insets.Left - p.Insets.Right
	colW := columnWidth(inner, p.InterColumnSpacing, cols)

	var out []Placement
	bandTop := p.Insets.Top
	bandBottom := bandTop

	for si, sec := range sections {
		col := si % cols
		if col == 0 && si > 0 {
			bandTop = bandBottom + p.InterColumnSpacing
			bandBottom = bandTop
		}
		x := p.Insets.Left + float64(col)*(colW+p.InterColumnSpacing)

		placed, height := placeSection(sec, x, bandTop, colW, p.InterItemSpacing)
		for i := range placed {
			placed[i].Section = si
			placed[i].Column = col
		}
		out = append(out, placed...)

		if bottom := bandTop + height; bottom > bandBottom {
			bandBottom = bottom
		}
	}
	return out
}

// placeSection flows a section's items on the sub-grid and returns their
// placements and the section's total height.
func placeSection(sec SectionBlock, x, y, width, spacing float64) ([]Placement, float64) {
	cell := (width - spacing*float64(GridColumns-1)) / float64(GridColumns)
	if cell < 0 {
		cell = 0
	}

	out := make([]Placement, 0, len(sec.Items))
	rowTop := y + sec.HeaderHeight
	if sec.HeaderHeight > 0 && len(sec.Items) > 0 {
		rowTop += spacing
	}
	rowHeight := 0.0
	cursor := 0

	for i, it := range sec.Items {
		span := it.span()
		if cursor > 0 && cursor+span > GridColumns {
			rowTop += rowHeight + spacing
			rowHeight = 0
			cursor = 0
		}
		out = append(out, Placement{
			Item:   i,
			X:      x + float64(cursor)*(cell+spacing),
			Y:      rowTop,
			Width:  float64(span)*cell + float64(span-1)*spacing,
			Height: it.Height,
		})
		if it.Height > rowHeight {
			rowHeight = it.Height
		}
		cursor += span
	}

	return out, rowTop + rowHeight - y
}
