package dashboard

import (
	"testing"

	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

type mapLookup map[string]registry.Entity

func (m mapLookup) Entity(id string) (registry.Entity, bool) {
	e, ok := m[id]
	return e, ok
}

func TestItem_IsVisible(t *testing.T) {
	entities := mapLookup{
		"input_boolean.guest": {ID: "input_boolean.guest", State: "on"},
		"sun.sun":             {ID: "sun.sun", State: "below_horizon"},
	}

	tests := []struct {
		name  string
		conds []Condition
		want  bool
	}{
		{"no conditions", nil, true},
		{"matching state", []Condition{{Entity: "input_boolean.guest", State: "on"}}, true},
		{"mismatched state", []Condition{{Entity: "input_boolean.guest", State: "off"}}, false},
		{"absent entity", []Condition{{Entity: "input_boolean.missing", State: "on"}}, false},
		{"all must hold", []Condition{
			{Entity: "input_boolean.guest", State: "on"},
			{Entity: "sun.sun", State: "above_horizon"},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{EntityID: "light.a", VisibilityConditions: tt.conds}
			if got := it.IsVisible(entities); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSection_VisibleItems(t *testing.T) {
	entities := mapLookup{"input_boolean.guest": {ID: "input_boolean.guest", State: "off"}}
	s := Section{Items: []Item{
		{EntityID: "light.a"},
		{EntityID: "light.guest", VisibilityConditions: []Condition{{Entity: "input_boolean.guest", State: "on"}}},
		{EntityID: "light.b"},
	}}

	got := s.VisibleItems(entities)
	if len(got) != 2 || got[0].EntityID != "light.a" || got[1].EntityID != "light.b" {
		t.Errorf("VisibleItems() = %+v, want [light.a light.b]", got)
	}
}

func TestSection_DisplayName(t *testing.T) {
	entities := mapLookup{
		"light.a": {ID: "light.a", Attributes: map[string]any{"friendly_name": "Friendly A"}},
	}

	tests := []struct {
		name     string
		section  Section
		item     *Item
		entityID string
		want     string
	}{
		{"override wins", Section{NameOverrides: map[string]string{"light.a": "Override"}}, &Item{DisplayName: "Item"}, "light.a", "Override"},
		{"item name next", Section{}, &Item{DisplayName: "Item"}, "light.a", "Item"},
		{"friendly name next", Section{}, &Item{}, "light.a", "Friendly A"},
		{"entity id last", Section{}, nil, "light.missing", "light.missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.section.DisplayName(tt.entityID, tt.item, entities); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItem_IsVisibleWithSnapshot(t *testing.T) {
	snap := registry.Empty().WithEntity(registry.Entity{ID: "binary_sensor.door", State: "on"})
	it := Item{VisibilityConditions: []Condition{{Entity: "binary_sensor.door", State: "on"}}}

	if !it.IsVisible(snap) {
		t.Error("IsVisible() = false, want true")
	}
}
