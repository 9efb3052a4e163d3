package layout

// Sidebar constants. These mirror the server's sidebar view and are not
// configurable.
const (
	SidebarBreakpoint   = 760.0
	SidebarMainGrow     = 2.0
	SidebarMainMaxWidth = 1620.0
	SidebarSideGrow     = 1.0
	SidebarSideMaxWidth = 380.0
)

// SidebarParams configures the sidebar layout.
type SidebarParams struct {
	Spacing float64
	Insets  Insets
}

// SplitSidebar decides which sections go to the sidebar. Sections flagged
// Sidebar go there; when none are flagged, the last section does (as long
// as there is more than one).
func SplitSidebar(sections []SectionBlock) (main, side []int) {
	flagged := false
	for _, s := range sections {
		if s.Sidebar {
			flagged = true
			break
		}
	}

	for i, s := range sections {
		switch {
		case flagged && s.Sidebar:
			side = append(side, i)
		case !flagged && len(sections) > 1 && i == len(sections)-1:
			side = append(side, i)
		default:
			main = append(main, i)
		}
	}
	return main, side
}

// SidebarWidths distributes the available width between the main and
// sidebar columns by flex-grow (2:1), capping each at its max width and
// giving the remainder to the other column.
func SidebarWidths(available float64) (mainW, sideW float64) {
	if available <= 0 {
		return 0, 0
	}

	type flexItem struct {
		grow, max, width float64
		frozen           bool
	}
	items := []*flexItem{
		{grow: SidebarMainGrow, max: SidebarMainMaxWidth},
		{grow: SidebarSideGrow, max: SidebarSideMaxWidth},
	}

	free := available
	for {
		var growSum float64
		for _, it := range items {
			if !it.frozen {
				growSum += it.grow
			}
		}
		if growSum == 0 {
			break
		}

		clamped := false
		for _, it := range items {
			if it.frozen {
				continue
			}
			if share := free * it.grow / growSum; share > it.max {
				it.width = it.max
				it.frozen = true
				free -= it.max
				clamped = true
			}
		}
		if clamped {
			continue
		}
		for _, it := range items {
			if !it.frozen {
				it.width = free * it.grow / growSum
				it.frozen = true
			}
		}
		break
	}

	return items[0].width, items[1].width
}

// Sidebar lays sections out as a main column and a sidebar column at or
// above SidebarBreakpoint, centring the pair when both columns hit their
// max width. Below the breakpoint it falls back to a single column with
// the main sections first and the sidebar sections after them.
//
// Returns one whole-section placement per section, in input order.
func Sidebar(sections []SectionBlock, width float64, p SidebarParams) []Placement {
	mainIdx, sideIdx := SplitSidebar(sections)
	out := make([]Placement, len(sections))
	inner := width - p.Insets.Left - p.Insets.Right
	if inner < 0 {
		inner = 0
	}

	stack := func(indices []int, column int, x, w float64) {
		y := p.Insets.Top
		for _, i := range indices {
			h := sections[i].Height(p.Spacing)
			out[i] = Placement{Section: i, Item: WholeSection, Column: column, X: x, Y: y, Width: w, Height: h}
			y += h + p.Spacing
		}
	}

	if width < SidebarBreakpoint || len(sideIdx) == 0 {
		stack(append(append([]int(nil), mainIdx...), sideIdx...), 0, p.Insets.Left, inner)
		return out
	}

	mainW, sideW := SidebarWidths(inner - p.Spacing)
	left := p.Insets.Left + (inner-(mainW+p.Spacing+sideW))/2
	stack(mainIdx, 0, left, mainW)
	stack(sideIdx, 1, left+mainW+p.Spacing, sideW)
	return out
}
