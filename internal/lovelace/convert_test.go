package lovelace

import (
	"reflect"
	"testing"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
)

func TestDashboardConfigFromView_Classic(t *testing.T) {
	view := dashboard.View{
		Title:  "Main",
		Layout: dashboard.LayoutMasonry,
		RawCards: []map[string]any{
			{"type": "entities", "title": "Lights", "entities": []any{
				"light.a",
				map[string]any{"entity": "light.b", "name": "Bee"},
			}},
			{"type": "no-such-card", "entity": "light.ignored"},
			{"type": "vertical-stack", "cards": []any{
				map[string]any{"type": "entity", "entity": "sensor.x", "title": "Sensors"},
				map[string]any{"type": "horizontal-stack", "cards": []any{
					map[string]any{"type": "button", "entity": "switch.y"},
				}},
			}},
			{"type": "markdown", "content": "hello"},
		},
	}

	cfg := DashboardConfigFromView(view, 0)

	if cfg.Columns != dashboard.DefaultColumns {
		t.Errorf("Columns = %d, want %d", cfg.Columns, dashboard.DefaultColumns)
	}
	if len(cfg.Sections) != 3 {
		t.Fatalf("len(Sections) = %d, want 3", len(cfg.Sections))
	}

	lights := cfg.Sections[0]
	if lights.Title != "Lights" || !reflect.DeepEqual(lights.EntityIDs, []string{"light.a", "light.b"}) {
		t.Errorf("lights section = %q %v", lights.Title, lights.EntityIDs)
	}
	if lights.NameOverrides["light.b"] != "Bee" {
		t.Errorf("NameOverrides = %v, want light.b: Bee", lights.NameOverrides)
	}

	stack := cfg.Sections[1]
	if stack.Title != "Sensors" {
		t.Errorf("stack title = %q, want Sensors", stack.Title)
	}
	if !reflect.DeepEqual(stack.EntityIDs, []string{"sensor.x", "switch.y"}) {
		t.Errorf("stack EntityIDs = %v", stack.EntityIDs)
	}
	if stack.Items[1].Row != 1 {
		t.Errorf("stack item 1 row = %d, want 1", stack.Items[1].Row)
	}

	md := cfg.Sections[2]
	if len(md.Items) != 1 || md.Items[0].CardType != "markdown" || md.Items[0].EntityID != "" {
		t.Errorf("markdown section = %+v", md.Items)
	}
	if md.Items[0].CustomProperties["content"] != "hello" {
		t.Errorf("markdown props = %v", md.Items[0].CustomProperties)
	}
}

func TestDashboardConfigFromView_Sections(t *testing.T) {
	view := dashboard.View{
		Layout: dashboard.LayoutSections,
		RawSections: []map[string]any{
			{"type": "grid", "cards": []any{
				map[string]any{"type": "heading", "heading": "Kitchen"},
				map[string]any{"type": "tile", "entity": "light.kitchen", "grid_options": map[string]any{"columns": 6}},
				map[string]any{"type": "entities", "title": "More", "entities": []any{"sensor.t", "sensor.h"}},
			}},
			{"title": "Porch", "cards": []any{
				map[string]any{"type": "tile", "entity": "light.porch", "layout_options": map[string]any{"grid_columns": 2}},
				map[string]any{"type": "tile", "entity": "light.wide", "grid_options": map[string]any{"columns": "full"}},
			}},
		},
	}

	cfg := DashboardConfigFromView(view, 3)

	if cfg.Columns != dashboard.DefaultMaxColumns {
		t.Errorf("Columns = %d, want %d", cfg.Columns, dashboard.DefaultMaxColumns)
	}
	if len(cfg.Sections) != 2 {
		t.Fatalf("len(Sections) = %d, want 2", len(cfg.Sections))
	}

	kitchen := cfg.Sections[0]
	if kitchen.Title != "Kitchen" {
		t.Errorf("Title = %q, want Kitchen", kitchen.Title)
	}
	if len(kitchen.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(kitchen.Items))
	}
	if span := kitchen.Items[0].GridSpan(); span != 6 {
		t.Errorf("tile GridSpan() = %d, want 6", span)
	}
	block := kitchen.Items[1]
	if block.EntitiesSection == nil || block.EntitiesSection.Title != "More" {
		t.Fatalf("entities block = %+v, want nested section More", block)
	}
	want := []string{"light.kitchen", "sensor.t", "sensor.h"}
	if !reflect.DeepEqual(kitchen.EntityIDs, want) {
		t.Errorf("EntityIDs = %v, want %v", kitchen.EntityIDs, want)
	}

	porch := cfg.Sections[1]
	if porch.Items[0].GridSpan() != 6 {
		t.Errorf("legacy GridSpan() = %d, want 6", porch.Items[0].GridSpan())
	}
	if porch.Items[1].GridSpan() != 12 {
		t.Errorf("full GridSpan() = %d, want 12", porch.Items[1].GridSpan())
	}
}

func TestDashboardConfigFromView_SectionsMaxColumns(t *testing.T) {
	cfg := DashboardConfigFromView(dashboard.View{Layout: dashboard.LayoutSections, MaxColumns: 2}, 3)
	if cfg.Columns != 2 {
		t.Errorf("Columns = %d, want 2", cfg.Columns)
	}
}

func TestDashboardConfigFromView_ConditionalVisibility(t *testing.T) {
	view := dashboard.View{RawCards: []map[string]any{
		{
			"type":       "conditional",
			"conditions": []any{map[string]any{"entity": "input_boolean.guest", "state": "on"}},
			"card":       map[string]any{"type": "tile", "entity": "light.guest"},
		},
	}}

	cfg := DashboardConfigFromView(view, 3)
	if len(cfg.Sections) != 1 || len(cfg.Sections[0].Items) != 1 {
		t.Fatalf("sections = %+v", cfg.Sections)
	}
	conds := cfg.Sections[0].Items[0].VisibilityConditions
	want := []dashboard.Condition{{Entity: "input_boolean.guest", State: "on"}}
	if !reflect.DeepEqual(conds, want) {
		t.Errorf("VisibilityConditions = %v, want %v", conds, want)
	}
}

func TestDashboardConfigFromView_SidebarPosition(t *testing.T) {
	view := dashboard.View{
		Layout: dashboard.LayoutSidebar,
		RawCards: []map[string]any{
			{"type": "tile", "entity": "light.main"},
			{"type": "tile", "entity": "sensor.side", "view_layout": map[string]any{"position": "sidebar"}},
		},
	}

	cfg := DashboardConfigFromView(view, 3)
	if cfg.Sections[0].IsSidebar() {
		t.Error("section 0 should be main")
	}
	if !cfg.Sections[1].IsSidebar() {
		t.Error("section 1 should be sidebar")
	}
}

func TestDashboardConfigFromView_StrategyView(t *testing.T) {
	view := dashboard.View{Strategy: map[string]any{"type": "home"}}

	cfg := DashboardConfigFromView(view, 3)
	if !cfg.IsStrategy() || cfg.StrategyType != "home" {
		t.Errorf("cfg = %+v, want unresolved home strategy", cfg)
	}
}
