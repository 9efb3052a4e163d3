package lovelace

import (
	"errors"
	"reflect"
	"testing"
)

func refIDs(refs []EntityRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.EntityID)
	}
	return ids
}

func TestExtractEntitiesFromCard_NestedStacks(t *testing.T) {
	card := map[string]any{
		"type": "vertical-stack",
		"cards": []any{
			map[string]any{
				"type": "horizontal-stack",
				"cards": []any{
					map[string]any{"type": "entity", "entity": "light.a"},
					map[string]any{"type": "entity", "entity": "light.b"},
					map[string]any{"type": "entity", "entity": "light.c"},
				},
			},
		},
	}

	got := refIDs(ExtractEntitiesFromCard(card))
	want := []string{"light.a", "light.b", "light.c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEntitiesFromCard() = %v, want %v", got, want)
	}
}

func TestExtractEntitiesFromCard_Shapes(t *testing.T) {
	tests := []struct {
		name string
		card map[string]any
		want []string
	}{
		{
			name: "entities rows mixed",
			card: map[string]any{"type": "entities", "entities": []any{
				"light.a",
				map[string]any{"entity": "switch.b", "name": "Bee"},
				map[string]any{"type": "divider"},
				"",
			}},
			want: []string{"light.a", "switch.b"},
		},
		{
			name: "glance",
			card: map[string]any{"type": "glance", "entities": []any{"sensor.x", "sensor.y"}},
			want: []string{"sensor.x", "sensor.y"},
		},
		{
			name: "markdown has none",
			card: map[string]any{"type": "markdown", "content": "hi"},
			want: []string{},
		},
		{
			name: "custom card keeps entity keys",
			card: map[string]any{"type": "custom:mushroom-light-card", "entity": "light.m"},
			want: []string{"light.m"},
		},
		{
			name: "badges row",
			card: map[string]any{"type": "badges", "entities": []any{"sensor.t", "sensor.h"}},
			want: []string{"sensor.t", "sensor.h"},
		},
		{
			name: "custom badge card reads badges list",
			card: map[string]any{"type": "custom:badge-card", "badges": []any{
				"sensor.t",
				map[string]any{"entity": "sensor.h"},
			}},
			want: []string{"sensor.t", "sensor.h"},
		},
		{
			name: "conditional child",
			card: map[string]any{
				"type":       "conditional",
				"conditions": []any{map[string]any{"entity": "sun.sun", "state": "below_horizon"}},
				"card":       map[string]any{"type": "tile", "entity": "light.porch"},
			},
			want: []string{"light.porch"},
		},
		{
			name: "grid with an unknown child",
			card: map[string]any{"type": "grid", "cards": []any{
				map[string]any{"type": "bogus-card", "entity": "light.x"},
				map[string]any{"type": "tile", "entity": "light.y"},
			}},
			want: []string{"light.y"},
		},
		{
			name: "unknown card",
			card: map[string]any{"type": "not-a-card", "entity": "light.z"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refIDs(ExtractEntitiesFromCard(tt.card))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractEntitiesFromCard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractEntitiesFromCard_SelfReference(t *testing.T) {
	stack := map[string]any{"type": "vertical-stack"}
	stack["cards"] = []any{
		map[string]any{"type": "tile", "entity": "light.a"},
		stack,
	}

	got := refIDs(ExtractEntitiesFromCard(stack))
	if !reflect.DeepEqual(got, []string{"light.a"}) {
		t.Errorf("ExtractEntitiesFromCard() = %v, want [light.a]", got)
	}
}

func TestExtractEntitiesFromCard_SharedChildIsNotACycle(t *testing.T) {
	shared := map[string]any{"type": "tile", "entity": "light.shared"}
	card := map[string]any{"type": "horizontal-stack", "cards": []any{shared, shared}}

	got := refIDs(ExtractEntitiesFromCard(card))
	want := []string{"light.shared", "light.shared"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEntitiesFromCard() = %v, want %v", got, want)
	}
}

func TestDecodeCard_DepthBound(t *testing.T) {
	leaf := map[string]any{"type": "tile", "entity": "light.deep"}
	card := leaf
	for i := 0; i < maxCardDepth+5; i++ {
		card = map[string]any{"type": "vertical-stack", "cards": []any{card}}
	}

	c, err := DecodeCard(card)
	if err != nil {
		t.Fatalf("DecodeCard() error = %v", err)
	}
	if refs := c.EntityRefs(); len(refs) != 0 {
		t.Errorf("EntityRefs() = %v, want none past the depth bound", refIDs(refs))
	}
}

func TestDecodeCard_Errors(t *testing.T) {
	tests := []struct {
		name string
		card map[string]any
		want error
	}{
		{"nil", nil, ErrInvalidCard},
		{"missing type", map[string]any{"entity": "light.a"}, ErrInvalidCard},
		{"unknown type", map[string]any{"type": "fancy"}, ErrUnknownCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCard(tt.card); !errors.Is(err, tt.want) {
				t.Errorf("DecodeCard() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeCard_Kinds(t *testing.T) {
	tests := []struct {
		cardType string
		want     Kind
	}{
		{"tile", KindEntity},
		{"entities", KindEntities},
		{"grid", KindStack},
		{"conditional", KindConditional},
		{"heading", KindHeading},
		{"markdown", KindStatic},
		{"custom:button-card", KindCustom},
		{"badges", KindBadges},
	}

	for _, tt := range tests {
		t.Run(tt.cardType, func(t *testing.T) {
			c, err := DecodeCard(map[string]any{"type": tt.cardType})
			if err != nil {
				t.Fatalf("DecodeCard() error = %v", err)
			}
			if c.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", c.Kind, tt.want)
			}
		})
	}
}

func TestDecodeCard_VisibilityAndOptions(t *testing.T) {
	c, err := DecodeCard(map[string]any{
		"type":   "tile",
		"entity": "light.a",
		"visibility": []any{
			map[string]any{"condition": "state", "entity": "input_boolean.guest", "state": "on"},
			map[string]any{"condition": "screen", "media_query": "(min-width: 600px)"},
		},
		"color": "amber",
	})
	if err != nil {
		t.Fatalf("DecodeCard() error = %v", err)
	}

	if len(c.Visibility) != 1 || c.Visibility[0].Entity != "input_boolean.guest" {
		t.Errorf("Visibility = %+v, want one state condition", c.Visibility)
	}
	if c.Options["color"] != "amber" {
		t.Errorf("Options = %v, want color passthrough", c.Options)
	}
	if _, ok := c.Options["entity"]; ok {
		t.Error("Options should not contain consumed keys")
	}
}
