package layout

// Panel places only the first section, full width with no margins. When
// viewportHeight is positive the card fills it; otherwise it keeps its
// own height. Every other section is ignored.
func Panel(sections []SectionBlock, width, viewportHeight float64) []Placement {
	if len(sections) == 0 {
		return nil
	}

	h := sections[0].Height(0)
	if viewportHeight > 0 {
		h = viewportHeight
	}
	return []Placement{{
		Section: 0,
		Item:    WholeSection,
		Width:   width,
		Height:  h,
	}}
}
