package layout

// Masonry defaults.
var (
	// MasonryBreakpoints are the widths at which another column is added.
	MasonryBreakpoints = []float64{300, 600, 900, 1200}

	// MasonryMaxColumnWidth caps the width of a single column.
	MasonryMaxColumnWidth = 500.0
)

const maxMasonryColumns = 32

// MasonryParams configures the masonry layout.
type MasonryParams struct {
	Spacing float64
	Insets  Insets
}

// MasonryColumns returns the column count for a width: the number of
// breakpoints at or below it (at least one), raised until no column is
// wider than MasonryMaxColumnWidth.
func MasonryColumns(width, spacing float64) int {
	n := 0
	for _, bp := range MasonryBreakpoints {
		if width >= bp {
			n++
		}
	}
	if n < 1 {
		n = 1
	}
	for n < maxMasonryColumns && columnWidth(width, spacing, n) > MasonryMaxColumnWidth {
		n++
	}
	return n
}

// Masonry places each block in the currently shortest column. Ties go to
// the lowest column index. Placements are returned in input order with
// Section set to the block's index.
func Masonry(blocks []Block, width float64, p MasonryParams) []Placement {
	inner := width - p.Insets.Left - p.Insets.Right
	if inner < 0 {
		inner = 0
	}
	cols := MasonryColumns(inner, p.Spacing)
	colW := columnWidth(inner, p.Spacing, cols)

	heights := make([]float64, cols)
	out := make([]Placement, 0, len(blocks))
	for i, b := range blocks {
		col := shortest(heights)
		out = append(out, Placement{
			Section: i,
			Item:    WholeSection,
			Column:  col,
			X:       p.Insets.Left + float64(col)*(colW+p.Spacing),
			Y:       p.Insets.Top + heights[col],
			Width:   colW,
			Height:  b.Height,
		})
		heights[col] += b.Height + p.Spacing
	}
	return out
}

// shortest returns the index of the lowest column; ties go left.
func shortest(heights []float64) int {
	best := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}
	return best
}

func columnWidth(width, spacing float64, cols int) float64 {
	if cols < 1 {
		cols = 1
	}
	w := (width - spacing*float64(cols-1)) / float64(cols)
	if w < 0 {
		return 0
	}
	return w
}
