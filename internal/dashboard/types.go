package dashboard

import (
	"math"
	"strings"
)

// DefaultColumns is the grid column count used when a config does not set one.
const DefaultColumns = 3

// DefaultMaxColumns is the sections-view column cap used when a view does
// not set max_columns.
const DefaultMaxColumns = 4

// Layout is the layout family a view is arranged with.
type Layout string

// Layout families.
const (
	LayoutMasonry  Layout = "masonry"
	LayoutPanel    Layout = "panel"
	LayoutSidebar  Layout = "sidebar"
	LayoutSections Layout = "sections"
)

// ParseLayout maps a view "type" value to a Layout.
// Unknown and empty values fall back to masonry.
func ParseLayout(s string) Layout {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutPanel:
		return LayoutPanel
	case LayoutSidebar:
		return LayoutSidebar
	case LayoutSections:
		return LayoutSections
	default:
		return LayoutMasonry
	}
}

// Condition is a single visibility requirement: the entity must currently
// be in exactly State.
type Condition struct {
	Entity string `json:"entity" yaml:"entity"`
	State  string `json:"state" yaml:"state"`
}

// Item is one placeable card or entity tile.
type Item struct {
	EntityID    string `json:"entity_id,omitempty" yaml:"entity_id,omitempty"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Column      int    `json:"column" yaml:"column"`
	Row         int    `json:"row" yaml:"row"`
	ColumnSpan  int    `json:"column_span,omitempty" yaml:"column_span,omitempty"`
	RowSpan     int    `json:"row_span,omitempty" yaml:"row_span,omitempty"`
	CardType    string `json:"card_type,omitempty" yaml:"card_type,omitempty"`

	// EntitiesSection carries the nested rows of a composite card
	// (entities, glance) so the renderer can draw it as one block.
	EntitiesSection *Section `json:"entities_section,omitempty" yaml:"entities_section,omitempty"`

	// CustomProperties holds card options the model does not interpret
	// (grid_options, card_mod, chip style and similar).
	CustomProperties map[string]any `json:"custom_properties,omitempty" yaml:"custom_properties,omitempty"`

	// VisibilityConditions must all hold for the item to be shown.
	// An empty list means always shown.
	VisibilityConditions []Condition `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// Section is an ordered group of items, typically one Lovelace card or one
// column of a sections view.
type Section struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	CardType string `json:"card_type,omitempty" yaml:"card_type,omitempty"`
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Items    []Item `json:"items" yaml:"items"`

	// EntityIDs is derived from Items by Normalize.
	EntityIDs []string `json:"entity_ids,omitempty" yaml:"-"`

	// NameOverrides maps entity ID to a display name that wins over the
	// entity's friendly name.
	NameOverrides map[string]string `json:"name_overrides,omitempty" yaml:"name_overrides,omitempty"`

	CustomProperties map[string]any `json:"custom_properties,omitempty" yaml:"custom_properties,omitempty"`
}

// Config is the concrete layout of a single view.
//
// A Config either carries Sections or, before resolution, a strategy marker
// (StrategyType and StrategyConfig) and no Sections.
type Config struct {
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
	Columns  int       `json:"columns,omitempty" yaml:"columns,omitempty"`

	StrategyType   string         `json:"-" yaml:"-"`
	StrategyConfig map[string]any `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// View is one tab of a dashboard as delivered by the server, plus the
// resolved layout family.
type View struct {
	Title      string `json:"title,omitempty"`
	Path       string `json:"path,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Layout     Layout `json:"type"`
	MaxColumns int    `json:"max_columns,omitempty"`

	// RawCards are the view's top-level cards (classic layouts).
	RawCards []map[string]any `json:"cards,omitempty"`

	// RawSections are the view's sections (sections layout), each
	// {"title": string, "cards": [...]}. Nil for classic views.
	RawSections []map[string]any `json:"sections,omitempty"`

	// Strategy is set when the view itself is strategy-generated.
	Strategy map[string]any `json:"strategy,omitempty"`
}

// Dashboard is a parsed multi-view dashboard.
type Dashboard struct {
	Title string `json:"title,omitempty"`
	Views []View `json:"views"`

	// Strategy is set when the whole dashboard is strategy-generated and
	// has not been resolved yet.
	Strategy map[string]any `json:"strategy,omitempty"`
}

// ViewAt returns the view at index, or false when out of range.
func (d *Dashboard) ViewAt(index int) (View, bool) {
	if d == nil || index < 0 || index >= len(d.Views) {
		return View{}, false
	}
	return d.Views[index], true
}

// EffectiveMaxColumns returns MaxColumns or the default of 4.
func (v View) EffectiveMaxColumns() int {
	if v.MaxColumns <= 0 {
		return DefaultMaxColumns
	}
	return v.MaxColumns
}

// StrategyType returns the "type" of a strategy config map, or "".
func StrategyType(cfg map[string]any) string {
	t, _ := cfg["type"].(string)
	return t
}

// GridSpan returns the item's width on the 12-column sections sub-grid.
// It defaults to the full 12 columns.
func (it Item) GridSpan() int {
	if span, ok := intProperty(it.CustomProperties, PropGridSpan); ok && span > 0 {
		if span > 12 {
			return 12
		}
		return span
	}
	return 12
}

// GridRows returns the item's height in sections grid rows, or 0 when the
// card does not declare one.
func (it Item) GridRows() int {
	if rows, ok := intProperty(it.CustomProperties, PropGridRows); ok && rows > 0 {
		return rows
	}
	return 0
}

// intProperty reads a whole number from props. JSON decodes numbers as
// float64 and YAML as int, so both are accepted.
func intProperty(props map[string]any, key string) (int, bool) {
	switch n := props[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// IsSidebar reports whether the section was placed in the sidebar column
// by its view_layout.
func (s Section) IsSidebar() bool {
	pos, _ := s.CustomProperties[PropPosition].(string)
	return pos == "sidebar"
}

// Keys of CustomProperties that the model itself interprets.
const (
	PropGridSpan = "grid_span"
	PropGridRows = "grid_rows"
	PropPosition = "position"
)
