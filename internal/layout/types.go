package layout

// GridColumns is the width of the sections sub-grid.
const GridColumns = 12

// WholeSection is the Placement.Item value for placements that cover an
// entire section (masonry cards, sidebar blocks, the panel card).
const WholeSection = -1

// Block is one item to be placed: its estimated height and, for the
// sections layout, its width on the 12-column sub-grid.
type Block struct {
	Height   float64
	GridSpan int
}

func (b Block) span() int {
	if b.GridSpan <= 0 || b.GridSpan > GridColumns {
		return GridColumns
	}
	return b.GridSpan
}

// SectionBlock is a section as the columnar layouts see it.
type SectionBlock struct {
	HeaderHeight float64
	Items        []Block
	Sidebar      bool
}

// Height returns the stacked height of the section laid out as a single
// full-width run of items separated by spacing.
func (s SectionBlock) Height(spacing float64) float64 {
	h := s.HeaderHeight
	for i, it := range s.Items {
		if i > 0 || s.HeaderHeight > 0 {
			h += spacing
		}
		h += it.Height
	}
	return h
}

// Placement is the computed position of one item or section.
type Placement struct {
	Section int     `json:"section"`
	Item    int     `json:"item"`
	Column  int     `json:"column"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Insets are the content margins around a layout.
type Insets struct {
	Top, Left, Bottom, Right float64
}
