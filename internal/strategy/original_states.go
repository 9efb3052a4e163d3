package strategy

import (
	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

// resolveOriginalStates builds the single-view overview: one entities card
// per area, ordered by areas.order and then by name, followed by an
// Unassigned card.
func (r *Resolver) resolveOriginalStates(opts strategyOptions, snap *registry.Snapshot) *dashboard.Dashboard {
	groups, unassigned := r.groupByArea(snap, opts.hiddenArea)

	ordered := make([]*areaGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sortByPriority(ordered, opts.areaOrder)

	cards := make([]map[string]any, 0, len(ordered)+1)
	for _, g := range ordered {
		cards = append(cards, entitiesCard(g.name, g.entityIDs))
	}
	if len(unassigned) > 0 {
		cards = append(cards, entitiesCard(UnassignedTitle, unassigned))
	}

	title := opts.title
	if title == "" {
		title = "Home"
	}

	r.logger.Debug("resolved original-states strategy", "areas", len(ordered), "unassigned", len(unassigned))

	return &dashboard.Dashboard{
		Title: title,
		Views: []dashboard.View{{
			Title:    title,
			Path:     "home",
			Layout:   dashboard.LayoutMasonry,
			RawCards: cards,
		}},
	}
}

func entitiesCard(title string, entityIDs []string) map[string]any {
	rows := make([]any, len(entityIDs))
	for i, id := range entityIDs {
		rows[i] = id
	}
	return map[string]any{
		"type":     "entities",
		"title":    title,
		"entities": rows,
	}
}
