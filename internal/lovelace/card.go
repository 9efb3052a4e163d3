package lovelace

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
)

// maxCardDepth bounds stack nesting. Real dashboards rarely nest more than
// three or four levels.
const maxCardDepth = 16

// Kind is the closed set of card shapes the parser understands.
type Kind int

// Card kinds.
const (
	// KindEntity is a card bound to one entity (tile, button, gauge, ...).
	KindEntity Kind = iota
	// KindEntities is a card listing entity rows (entities, glance, ...).
	KindEntities
	// KindStack groups child cards (horizontal-stack, vertical-stack, grid).
	KindStack
	// KindConditional wraps one child card behind state conditions.
	KindConditional
	// KindHeading is a section heading.
	KindHeading
	// KindStatic is a built-in card with no entity binding (markdown, iframe, ...).
	KindStatic
	// KindCustom is an opaque custom:* card. Entity keys are still read.
	KindCustom
	// KindBadges is a row of entity badges.
	KindBadges
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindEntities:
		return "entities"
	case KindStack:
		return "stack"
	case KindConditional:
		return "conditional"
	case KindHeading:
		return "heading"
	case KindStatic:
		return "static"
	case KindCustom:
		return "custom"
	case KindBadges:
		return "badges"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// cardKinds maps every built-in card type to its kind.
var cardKinds = map[string]Kind{
	"alarm-panel":      KindEntity,
	"button":           KindEntity,
	"entity":           KindEntity,
	"gauge":            KindEntity,
	"humidifier":       KindEntity,
	"light":            KindEntity,
	"media-control":    KindEntity,
	"picture-entity":   KindEntity,
	"plant-status":     KindEntity,
	"sensor":           KindEntity,
	"statistic":        KindEntity,
	"thermostat":       KindEntity,
	"tile":             KindEntity,
	"todo-list":        KindEntity,
	"weather-forecast": KindEntity,

	"calendar":         KindEntities,
	"entities":         KindEntities,
	"entity-filter":    KindEntities,
	"glance":           KindEntities,
	"history-graph":    KindEntities,
	"logbook":          KindEntities,
	"map":              KindEntities,
	"picture-glance":   KindEntities,
	"statistics-graph": KindEntities,

	"grid":             KindStack,
	"horizontal-stack": KindStack,
	"vertical-stack":   KindStack,

	"badges": KindBadges,

	"conditional": KindConditional,
	"heading":     KindHeading,

	"area":             KindStatic,
	"clock":            KindStatic,
	"iframe":           KindStatic,
	"markdown":         KindStatic,
	"picture":          KindStatic,
	"picture-elements": KindStatic,
	"shopping-list":    KindStatic,
}

// consumedKeys are card keys the decoder turns into typed fields.
var consumedKeys = map[string]bool{
	"type":       true,
	"title":      true,
	"heading":    true,
	"icon":       true,
	"name":       true,
	"entity":     true,
	"entities":   true,
	"badges":     true,
	"cards":      true,
	"card":       true,
	"conditions": true,
	"visibility": true,
}

// EntityRef is one entity reference found in a card.
type EntityRef struct {
	EntityID string
	Name     string
	Icon     string
}

// Card is a decoded Lovelace card.
type Card struct {
	Kind  Kind
	Type  string
	Title string
	Icon  string

	// Entities are the card's own references (not its children's).
	Entities []EntityRef

	// Children holds stack members or the single conditional child.
	Children []Card

	// Visibility holds the state conditions that gate the card.
	Visibility []dashboard.Condition

	// Options are the remaining keys, passed through untouched.
	Options map[string]any
}

// EntityRefs returns the card's references followed by its children's,
// depth first, in declared order.
func (c Card) EntityRefs() []EntityRef {
	refs := append([]EntityRef(nil), c.Entities...)
	for _, child := range c.Children {
		refs = append(refs, child.EntityRefs()...)
	}
	return refs
}

// DecodeCard matches a raw card map against the known card shapes.
//
// Stack children that fail to decode are dropped; the stack itself still
// decodes. Cards that refer back to one of their ancestors, or that nest
// deeper than the recursion bound, fail with ErrInvalidCard.
//
// Returns:
//   - Card: the decoded card
//   - error: ErrInvalidCard or ErrUnknownCard (wrapped)
func DecodeCard(raw map[string]any) (Card, error) {
	d := decoder{path: make(map[uintptr]bool)}
	return d.decode(raw, 0)
}

type decoder struct {
	// path holds the identities of the maps on the current recursion path.
	path map[uintptr]bool
	// skipped counts children dropped while decoding.
	skipped int
}

func (d *decoder) decode(raw map[string]any, depth int) (Card, error) {
	if raw == nil {
		return Card{}, fmt.Errorf("%w: nil card", ErrInvalidCard)
	}
	if depth > maxCardDepth {
		return Card{}, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidCard, maxCardDepth)
	}

	id := reflect.ValueOf(raw).Pointer()
	if d.path[id] {
		return Card{}, fmt.Errorf("%w: card contains itself", ErrInvalidCard)
	}
	d.path[id] = true
	defer delete(d.path, id)

	cardType := strings.TrimSpace(asString(raw["type"]))
	if cardType == "" {
		return Card{}, fmt.Errorf("%w: missing type", ErrInvalidCard)
	}

	kind, known := cardKinds[cardType]
	if !known {
		if !strings.HasPrefix(cardType, "custom:") {
			return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, cardType)
		}
		kind = KindCustom
	}

	card := Card{
		Kind:       kind,
		Type:       cardType,
		Title:      asString(raw["title"]),
		Icon:       asString(raw["icon"]),
		Visibility: parseConditions(raw["visibility"]),
		Options:    options(raw),
	}

	switch kind {
	case KindEntity, KindCustom:
		if ref, ok := parseEntityRef(raw); ok {
			card.Entities = append(card.Entities, ref)
		}
		if kind == KindCustom {
			card.Entities = append(card.Entities, parseEntityRows(raw["entities"])...)
			card.Entities = append(card.Entities, parseEntityRows(raw["badges"])...)
		}
	case KindBadges:
		card.Entities = append(parseEntityRows(raw["badges"]), parseEntityRows(raw["entities"])...)
	case KindEntities:
		card.Entities = parseEntityRows(raw["entities"])
		if ref, ok := parseEntityRef(raw); ok {
			// picture-glance and map accept a single camera/entity too
			card.Entities = append(card.Entities, ref)
		}
	case KindStack:
		for _, child := range asMaps(raw["cards"]) {
			c, err := d.decode(child, depth+1)
			if err != nil {
				d.skipped++
				continue
			}
			card.Children = append(card.Children, c)
		}
	case KindConditional:
		card.Visibility = append(card.Visibility, parseConditions(raw["conditions"])...)
		if child, ok := asMap(raw["card"]); ok {
			c, err := d.decode(child, depth+1)
			if err != nil {
				d.skipped++
			} else {
				card.Children = append(card.Children, c)
			}
		}
	case KindHeading:
		if h := asString(raw["heading"]); h != "" {
			card.Title = h
		}
	}

	return card, nil
}

// parseEntityRef reads the card-level "entity" key.
func parseEntityRef(raw map[string]any) (EntityRef, bool) {
	id := strings.TrimSpace(asString(raw["entity"]))
	if id == "" {
		return EntityRef{}, false
	}
	return EntityRef{
		EntityID: id,
		Name:     asString(raw["name"]),
		Icon:     asString(raw["icon"]),
	}, true
}

// parseEntityRows reads an "entities" list whose rows are either bare IDs
// or objects with an "entity" key. Rows without an entity (dividers,
// section labels, weblinks) are skipped.
func parseEntityRows(v any) []EntityRef {
	rows, ok := asSlice(v)
	if !ok {
		return nil
	}

	refs := make([]EntityRef, 0, len(rows))
	for _, row := range rows {
		switch r := row.(type) {
		case string:
			if id := strings.TrimSpace(r); id != "" {
				refs = append(refs, EntityRef{EntityID: id})
			}
		case map[string]any:
			if ref, ok := parseEntityRef(r); ok {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// parseConditions reads state conditions from "visibility" or the
// conditional card's "conditions". Only plain state equality is kept;
// screen, user and numeric conditions do not gate items.
func parseConditions(v any) []dashboard.Condition {
	var conds []dashboard.Condition
	for _, raw := range asMaps(v) {
		kind := asString(raw["condition"])
		if kind != "" && kind != "state" {
			continue
		}
		entity := asString(raw["entity"])
		state, ok := raw["state"].(string)
		if entity == "" || !ok {
			continue
		}
		conds = append(conds, dashboard.Condition{Entity: entity, State: state})
	}
	return conds
}

// options copies the keys the decoder does not interpret.
func options(raw map[string]any) map[string]any {
	var opts map[string]any
	for k, v := range raw {
		if consumedKeys[k] {
			continue
		}
		if opts == nil {
			opts = make(map[string]any)
		}
		opts[k] = v
	}
	return opts
}
