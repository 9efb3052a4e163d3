package lovelace

import (
	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
)

// DashboardConfigFromView converts a view with a default Parser.
func DashboardConfigFromView(view dashboard.View, columns int) *dashboard.Config {
	return defaultParser.DashboardConfigFromView(view, columns)
}

// DashboardConfigFromView converts one view into a normalized Config.
//
// Classic views (masonry, panel, sidebar) get one Section per top-level
// card; stacks flatten into a single Section that keeps their members'
// order. Sections views get one Section per raw section and take their
// column count from max_columns. A strategy view with no cards yields an
// unresolved strategy marker. Cards that fail to decode are skipped.
//
// Parameters:
//   - view: the parsed view
//   - columns: grid columns for classic views (<= 0 means the default)
//
// Returns:
//   - *dashboard.Config: the normalized config, never nil
func (p *Parser) DashboardConfigFromView(view dashboard.View, columns int) *dashboard.Config {
	cfg := &dashboard.Config{
		Title:   view.Title,
		Columns: columns,
	}

	if view.Layout == dashboard.LayoutSections {
		cfg.Columns = view.EffectiveMaxColumns()
		cfg.Sections = p.sectionsFromRawSections(view.RawSections)
	} else {
		cfg.Sections = p.sectionsFromCards(view.RawCards)
	}

	if len(cfg.Sections) == 0 && view.Strategy != nil {
		cfg.StrategyConfig = view.Strategy
	}

	cfg.Normalize()
	return cfg
}

// sectionsFromCards builds one Section per top-level card.
func (p *Parser) sectionsFromCards(raw []map[string]any) []dashboard.Section {
	sections := make([]dashboard.Section, 0, len(raw))
	for i, rc := range raw {
		card, ok := p.decode(rc, i)
		if !ok {
			continue
		}

		sec := dashboard.Section{
			Title:    card.Title,
			CardType: card.Type,
			Icon:     card.Icon,
		}
		if pos := viewLayoutPosition(card.Options); pos != "" {
			sec.CustomProperties = map[string]any{dashboard.PropPosition: pos}
		}

		appendClassicItems(&sec, card, nil)
		if len(sec.Items) == 0 {
			continue
		}
		if sec.Title == "" {
			sec.Title = firstChildTitle(card)
		}
		for row := range sec.Items {
			sec.Items[row].Row = row
		}
		sections = append(sections, sec)
	}
	return sections
}

// appendClassicItems flattens a card into items of sec. Entity rows of
// list cards become individual items and their row names become section
// name overrides.
func appendClassicItems(sec *dashboard.Section, card Card, inherited []dashboard.Condition) {
	conds := mergeConditions(inherited, card.Visibility)

	switch card.Kind {
	case KindStack, KindConditional:
		for _, child := range card.Children {
			appendClassicItems(sec, child, conds)
		}
	case KindEntities, KindBadges:
		for _, ref := range card.Entities {
			sec.Items = append(sec.Items, dashboard.Item{
				EntityID:             ref.EntityID,
				CardType:             card.Type,
				VisibilityConditions: conds,
			})
			addNameOverride(sec, ref)
		}
	case KindHeading:
		if sec.Title == "" && len(sec.Items) == 0 {
			sec.Title = card.Title
			sec.Icon = card.Icon
			return
		}
		sec.Items = append(sec.Items, staticItem(card, conds))
	default:
		sec.Items = append(sec.Items, entityItems(card, conds)...)
	}
}

// sectionsFromRawSections builds one Section per sections-view section.
func (p *Parser) sectionsFromRawSections(raw []map[string]any) []dashboard.Section {
	sections := make([]dashboard.Section, 0, len(raw))
	for _, rs := range raw {
		sec := dashboard.Section{
			Title:    asString(rs["title"]),
			CardType: asString(rs["type"]),
			Icon:     asString(rs["icon"]),
		}
		if sec.CardType == "" {
			sec.CardType = "grid"
		}
		sectionConds := parseConditions(rs["visibility"])

		for i, rc := range asMaps(rs["cards"]) {
			card, ok := p.decode(rc, i)
			if !ok {
				continue
			}
			appendGridItems(&sec, card, sectionConds)
		}

		for row := range sec.Items {
			sec.Items[row].Row = row
		}
		sections = append(sections, sec)
	}
	return sections
}

// appendGridItems adds a card to a sections-view section. List cards stay
// one block with their rows in EntitiesSection.
func appendGridItems(sec *dashboard.Section, card Card, inherited []dashboard.Condition) {
	conds := mergeConditions(inherited, card.Visibility)

	switch card.Kind {
	case KindStack, KindConditional:
		for _, child := range card.Children {
			appendGridItems(sec, child, conds)
		}
	case KindEntities, KindBadges:
		nested := &dashboard.Section{Title: card.Title, CardType: card.Type, Icon: card.Icon}
		for row, ref := range card.Entities {
			nested.Items = append(nested.Items, dashboard.Item{EntityID: ref.EntityID, Row: row})
			addNameOverride(nested, ref)
		}
		sec.Items = append(sec.Items, dashboard.Item{
			CardType:             card.Type,
			EntitiesSection:      nested,
			CustomProperties:     gridProperties(card.Options),
			VisibilityConditions: conds,
		})
	case KindHeading:
		if sec.Title == "" && len(sec.Items) == 0 {
			sec.Title = card.Title
			sec.Icon = card.Icon
			return
		}
		it := staticItem(card, conds)
		it.CustomProperties = mergeProps(it.CustomProperties, gridProperties(card.Options))
		sec.Items = append(sec.Items, it)
	default:
		items := entityItems(card, conds)
		for i := range items {
			items[i].CustomProperties = mergeProps(items[i].CustomProperties, gridProperties(card.Options))
		}
		sec.Items = append(sec.Items, items...)
	}
}

// decode wraps DecodeCard and logs what was dropped.
func (p *Parser) decode(raw map[string]any, index int) (Card, bool) {
	d := decoder{path: make(map[uintptr]bool)}
	card, err := d.decode(raw, 0)
	if err != nil {
		p.logger.Debug("skipping card", "index", index, "type", asString(raw["type"]), "error", err)
		return card, false
	}
	if d.skipped > 0 {
		p.logger.Debug("skipped nested cards", "index", index, "type", card.Type, "count", d.skipped)
	}
	return card, true
}

func entityItems(card Card, conds []dashboard.Condition) []dashboard.Item {
	if len(card.Entities) == 0 {
		return []dashboard.Item{staticItem(card, conds)}
	}
	items := make([]dashboard.Item, 0, len(card.Entities))
	for _, ref := range card.Entities {
		items = append(items, dashboard.Item{
			EntityID:             ref.EntityID,
			DisplayName:          ref.Name,
			CardType:             card.Type,
			CustomProperties:     copyProps(card.Options),
			VisibilityConditions: conds,
		})
	}
	return items
}

func staticItem(card Card, conds []dashboard.Condition) dashboard.Item {
	props := copyProps(card.Options)
	if card.Kind == KindHeading && card.Title != "" {
		props = mergeProps(props, map[string]any{"heading": card.Title})
	}
	return dashboard.Item{
		CardType:             card.Type,
		CustomProperties:     props,
		VisibilityConditions: conds,
	}
}

func addNameOverride(sec *dashboard.Section, ref EntityRef) {
	if ref.Name == "" {
		return
	}
	if sec.NameOverrides == nil {
		sec.NameOverrides = make(map[string]string)
	}
	sec.NameOverrides[ref.EntityID] = ref.Name
}

func firstChildTitle(card Card) string {
	for _, child := range card.Children {
		if child.Title != "" {
			return child.Title
		}
		if t := firstChildTitle(child); t != "" {
			return t
		}
	}
	return ""
}

// gridProperties extracts the sections sub-grid size from grid_options
// (or the older layout_options).
func gridProperties(opts map[string]any) map[string]any {
	props := map[string]any{}

	if grid, ok := asMap(opts["grid_options"]); ok {
		if asString(grid["columns"]) == "full" {
			props[dashboard.PropGridSpan] = 12
		} else if n, ok := asInt(grid["columns"]); ok && n > 0 {
			props[dashboard.PropGridSpan] = n
		}
		if n, ok := asInt(grid["rows"]); ok && n > 0 {
			props[dashboard.PropGridRows] = n
		}
	} else if legacy, ok := asMap(opts["layout_options"]); ok {
		// layout_options used a 4-column grid
		if asString(legacy["grid_columns"]) == "full" {
			props[dashboard.PropGridSpan] = 12
		} else if n, ok := asInt(legacy["grid_columns"]); ok && n > 0 {
			props[dashboard.PropGridSpan] = n * 3
		}
		if n, ok := asInt(legacy["grid_rows"]); ok && n > 0 {
			props[dashboard.PropGridRows] = n
		}
	}

	if len(props) == 0 {
		return nil
	}
	return props
}

func viewLayoutPosition(opts map[string]any) string {
	vl, ok := asMap(opts["view_layout"])
	if !ok {
		return ""
	}
	return asString(vl["position"])
}

func mergeConditions(a, b []dashboard.Condition) []dashboard.Condition {
	if len(b) == 0 {
		return a
	}
	out := make([]dashboard.Condition, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func copyProps(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func mergeProps(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
