package pipeline

import (
	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/layout"
)

// sectionHeaderHeight is reserved above titled sections in sections views.
const sectionHeaderHeight = 40.0

// LayoutParams holds the spacing shared by all layout engines.
type LayoutParams struct {
	Spacing float64
	Insets  layout.Insets
}

// listCards are card types whose rows are flattened into consecutive items
// but render as one card.
var listCards = map[string]bool{
	"entities":      true,
	"glance":        true,
	"entity-filter": true,
	"logbook":       true,
}

// arrange places the visible parts of cfg for a view layout. Placement
// Section and Item indices refer to cfg, not to the filtered input the
// engines saw.
func arrange(kind dashboard.Layout, cfg *dashboard.Config, entities dashboard.EntityLookup, width float64, p LayoutParams) ([]layout.Placement, int) {
	if cfg == nil {
		return []layout.Placement{}, 0
	}

	var (
		placements []layout.Placement
		secIndex   []int
		itemIndex  [][]int
	)

	switch kind {
	case dashboard.LayoutSections:
		var blocks []layout.SectionBlock
		blocks, secIndex, itemIndex = gridBlocks(cfg, entities)
		placements = layout.Columnar(blocks, width, layout.ColumnarParams{
			MaxColumns:         cfg.Columns,
			InterColumnSpacing: p.Spacing,
			InterItemSpacing:   p.Spacing,
			Insets:             p.Insets,
		})
	case dashboard.LayoutSidebar:
		var blocks []layout.SectionBlock
		blocks, secIndex = cardBlocks(cfg, entities, p.Spacing)
		placements = layout.Sidebar(blocks, width, layout.SidebarParams{Spacing: p.Spacing, Insets: p.Insets})
	case dashboard.LayoutPanel:
		var blocks []layout.SectionBlock
		blocks, secIndex = cardBlocks(cfg, entities, p.Spacing)
		placements = layout.Panel(blocks, width, 0)
	default:
		var blocks []layout.SectionBlock
		blocks, secIndex = cardBlocks(cfg, entities, p.Spacing)
		flat := make([]layout.Block, len(blocks))
		for i, b := range blocks {
			flat[i] = b.Items[0]
		}
		placements = layout.Masonry(flat, width, layout.MasonryParams{Spacing: p.Spacing, Insets: p.Insets})
	}

	columns := 0
	for i := range placements {
		pl := &placements[i]
		if pl.Item != layout.WholeSection && itemIndex != nil {
			pl.Item = itemIndex[pl.Section][pl.Item]
		}
		pl.Section = secIndex[pl.Section]
		columns = max(columns, pl.Column+1)
	}
	if placements == nil {
		placements = []layout.Placement{}
	}
	return placements, columns
}

// cardBlocks turns each section with visible items into a single block
// sized from its cards.
func cardBlocks(cfg *dashboard.Config, entities dashboard.EntityLookup, spacing float64) ([]layout.SectionBlock, []int) {
	var (
		blocks []layout.SectionBlock
		index  []int
	)
	for si, sec := range cfg.Sections {
		visible := sec.VisibleItems(entities)
		if len(visible) == 0 {
			continue
		}
		blocks = append(blocks, layout.SectionBlock{
			Items:   []layout.Block{{Height: estimateCardsHeight(sec, visible, spacing)}},
			Sidebar: sec.IsSidebar(),
		})
		index = append(index, si)
	}
	return blocks, index
}

// estimateCardsHeight sums the heights of the cards a classic section was
// flattened from. A run of rows from one list card counts as one card.
func estimateCardsHeight(sec dashboard.Section, items []dashboard.Item, spacing float64) float64 {
	if listCards[sec.CardType] {
		return layout.EstimateHeight(sec.CardType, len(items))
	}

	var (
		h     float64
		cards int
	)
	for i := 0; i < len(items); {
		typ := items[i].CardType
		n := 1
		if listCards[typ] {
			for i+n < len(items) && items[i+n].CardType == typ {
				n++
			}
		}
		if cards > 0 {
			h += spacing
		}
		h += layout.EstimateHeight(typ, n)
		cards++
		i += n
	}
	return h
}

// gridBlocks converts sections-view sections into sub-grid blocks. Hidden
// items are left out; a section keeps its header even when empty.
func gridBlocks(cfg *dashboard.Config, entities dashboard.EntityLookup) ([]layout.SectionBlock, []int, [][]int) {
	blocks := make([]layout.SectionBlock, 0, len(cfg.Sections))
	secIndex := make([]int, 0, len(cfg.Sections))
	itemIndex := make([][]int, 0, len(cfg.Sections))

	for si, sec := range cfg.Sections {
		var (
			block layout.SectionBlock
			items []int
		)
		if sec.Title != "" {
			block.HeaderHeight = sectionHeaderHeight
		}
		for ii, it := range sec.Items {
			if !it.IsVisible(entities) {
				continue
			}
			count := 1
			if it.EntitiesSection != nil {
				count = len(it.EntitiesSection.Items)
			}
			block.Items = append(block.Items, layout.Block{
				Height:   layout.EstimateGridHeight(it.CardType, it.GridRows(), count),
				GridSpan: it.GridSpan(),
			})
			items = append(items, ii)
		}
		if len(block.Items) == 0 && block.HeaderHeight == 0 {
			continue
		}
		blocks = append(blocks, block)
		secIndex = append(secIndex, si)
		itemIndex = append(itemIndex, items)
	}
	return blocks, secIndex, itemIndex
}
