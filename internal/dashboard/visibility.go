package dashboard

import "github.com/nerrad567/gray-logic-dashboard/internal/registry"

// EntityLookup resolves entities by ID. *registry.Snapshot implements it.
type EntityLookup interface {
	Entity(id string) (registry.Entity, bool)
}

// IsVisible reports whether every visibility condition holds.
// A condition on an entity that is absent from the lookup does not hold.
func (it Item) IsVisible(entities EntityLookup) bool {
	for _, cond := range it.VisibilityConditions {
		e, ok := entities.Entity(cond.Entity)
		if !ok || e.State != cond.State {
			return false
		}
	}
	return true
}

// VisibleItems returns the section's items whose conditions hold, in order.
func (s Section) VisibleItems(entities EntityLookup) []Item {
	out := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.IsVisible(entities) {
			out = append(out, it)
		}
	}
	return out
}

// DisplayName resolves the label for an entity shown in this section.
// Priority: section name override, item display name, friendly name,
// entity ID.
func (s Section) DisplayName(entityID string, item *Item, entities EntityLookup) string {
	if name, ok := s.NameOverrides[entityID]; ok && name != "" {
		return name
	}
	if item != nil && item.DisplayName != "" {
		return item.DisplayName
	}
	if entities != nil {
		if e, ok := entities.Entity(entityID); ok {
			return e.FriendlyName()
		}
	}
	return entityID
}
