package strategy

import (
	"sort"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

// Titles and paths of the synthetic home views.
const (
	homeViewTitle  = "Home"
	homeViewPath   = "home"
	otherViewTitle = "Other areas"
	otherViewPath  = "other"
)

// resolveHome builds one sections view per floor (lowest level first) and
// a trailing view for areas without a floor and unassigned entities. With
// no floors at all it collapses to a single view.
func (r *Resolver) resolveHome(opts strategyOptions, snap *registry.Snapshot) *dashboard.Dashboard {
	groups, unassigned := r.groupByArea(snap, opts.hiddenArea)

	floors := append([]registry.Floor(nil), snap.Floors...)
	sort.SliceStable(floors, func(i, j int) bool {
		if floors[i].Level != floors[j].Level {
			return floors[i].Level < floors[j].Level
		}
		return floors[i].ID < floors[j].ID
	})

	title := opts.title
	if title == "" {
		title = homeViewTitle
	}
	d := &dashboard.Dashboard{Title: title}

	// First floor listing an area owns it.
	floorOf := make(map[string]string)
	for _, f := range floors {
		for _, areaID := range f.AreaIDs {
			if _, taken := floorOf[areaID]; !taken {
				floorOf[areaID] = f.ID
			}
		}
	}

	byFloor := make(map[string][]*areaGroup)
	var floorless []*areaGroup
	for _, g := range groups {
		if fid, ok := floorOf[g.areaID]; ok {
			byFloor[fid] = append(byFloor[fid], g)
		} else {
			floorless = append(floorless, g)
		}
	}

	for _, f := range floors {
		areas := byFloor[f.ID]
		sortByPriority(areas, opts.areaOrder)
		d.Views = append(d.Views, dashboard.View{
			Title:       f.Name,
			Path:        f.ID,
			Layout:      dashboard.LayoutSections,
			RawSections: areaSections(areas, nil),
		})
	}

	sortByPriority(floorless, opts.areaOrder)
	switch {
	case len(floors) == 0:
		d.Views = append(d.Views, dashboard.View{
			Title:       title,
			Path:        homeViewPath,
			Layout:      dashboard.LayoutSections,
			RawSections: areaSections(floorless, unassigned),
		})
	case len(floorless) > 0 || len(unassigned) > 0:
		d.Views = append(d.Views, dashboard.View{
			Title:       otherViewTitle,
			Path:        otherViewPath,
			Layout:      dashboard.LayoutSections,
			RawSections: areaSections(floorless, unassigned),
		})
	}

	r.logger.Debug("resolved home strategy", "floors", len(floors), "views", len(d.Views))
	return d
}

// areaSections renders one grid section of tiles per area, followed by
// an Unassigned section when there are unassigned entities.
func areaSections(areas []*areaGroup, unassigned []string) []map[string]any {
	sections := make([]map[string]any, 0, len(areas)+1)
	for _, g := range areas {
		sections = append(sections, tileSection(g.name, g.entityIDs))
	}
	if len(unassigned) > 0 {
		sections = append(sections, tileSection(UnassignedTitle, unassigned))
	}
	return sections
}

func tileSection(title string, entityIDs []string) map[string]any {
	cards := make([]any, len(entityIDs))
	for i, id := range entityIDs {
		cards[i] = map[string]any{"type": "tile", "entity": id}
	}
	return map[string]any{
		"type":  "grid",
		"title": title,
		"cards": cards,
	}
}
