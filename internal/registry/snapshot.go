package registry

import (
	"sort"
)

// Snapshot is an immutable view of entity states and registries.
// Maps are one-directional lookups; nothing in a Snapshot points back
// at its owner.
type Snapshot struct {
	// Entities keyed by entity ID.
	Entities map[string]Entity

	// AreaNames maps area ID to display name.
	AreaNames map[string]string

	// EntityAreas maps entity ID to area ID (direct assignment).
	EntityAreas map[string]string

	// DeviceAreas maps device ID to area ID.
	DeviceAreas map[string]string

	// Floors in the order the server delivered them.
	Floors []Floor

	// EntityRegistry holds the raw entity registry records.
	EntityRegistry []EntityRecord
}

// Empty returns a snapshot with all maps allocated and no content.
func Empty() *Snapshot {
	return &Snapshot{
		Entities:    map[string]Entity{},
		AreaNames:   map[string]string{},
		EntityAreas: map[string]string{},
		DeviceAreas: map[string]string{},
	}
}

// FromRecords builds a snapshot from raw registry payloads.
//
// Registry metadata from entityRecords is folded into the matching
// entities, direct area assignments are taken from entity records, and
// floors receive their AreaIDs from the area records' floor_id.
//
// Parameters:
//   - states: current entity states (registry fields may be empty)
//   - areas: area registry entries
//   - devices: device registry entries
//   - floors: floor registry entries; may be nil when floors are unsupported
//   - entityRecords: entity registry entries
//
// Returns:
//   - *Snapshot: a fully-populated snapshot that owns copies of its inputs
func FromRecords(states []Entity, areas []AreaRecord, devices []DeviceRecord, floors []Floor, entityRecords []EntityRecord) *Snapshot {
	s := Empty()

	for _, e := range states {
		s.Entities[e.ID] = e.DeepCopy()
	}

	floorAreas := make(map[string][]string)
	for _, a := range areas {
		s.AreaNames[a.AreaID] = a.Name
		if a.FloorID != nil && *a.FloorID != "" {
			floorAreas[*a.FloorID] = append(floorAreas[*a.FloorID], a.AreaID)
		}
	}

	for _, d := range devices {
		if d.AreaID != nil && *d.AreaID != "" {
			s.DeviceAreas[d.ID] = *d.AreaID
		}
	}

	s.Floors = make([]Floor, 0, len(floors))
	for _, f := range floors {
		f.AreaIDs = append(append([]string(nil), f.AreaIDs...), floorAreas[f.ID]...)
		f.AreaIDs = dedupe(f.AreaIDs)
		s.Floors = append(s.Floors, f)
	}

	s.EntityRegistry = append([]EntityRecord(nil), entityRecords...)
	s.applyEntityRecords()

	return s
}

// applyEntityRecords folds registry metadata into entities and the
// entity → area map. Entities that are registered but have no state yet
// are left out: the snapshot only describes entities the server reports.
func (s *Snapshot) applyEntityRecords() {
	for _, rec := range s.EntityRegistry {
		if rec.AreaID != nil && *rec.AreaID != "" {
			s.EntityAreas[rec.EntityID] = *rec.AreaID
		}

		e, ok := s.Entities[rec.EntityID]
		if !ok {
			continue
		}
		e.EntityCategory = deref(rec.EntityCategory)
		e.HiddenBy = deref(rec.HiddenBy)
		e.DisabledBy = deref(rec.DisabledBy)
		e.Platform = rec.Platform
		e.DeviceID = deref(rec.DeviceID)
		s.Entities[rec.EntityID] = e
	}
}

// Clone returns a deep copy that can be modified and then published as a
// new snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return Empty()
	}

	cp := &Snapshot{
		Entities:       make(map[string]Entity, len(s.Entities)),
		AreaNames:      copyStrings(s.AreaNames),
		EntityAreas:    copyStrings(s.EntityAreas),
		DeviceAreas:    copyStrings(s.DeviceAreas),
		Floors:         make([]Floor, len(s.Floors)),
		EntityRegistry: append([]EntityRecord(nil), s.EntityRegistry...),
	}
	for id, e := range s.Entities {
		cp.Entities[id] = e.DeepCopy()
	}
	for i, f := range s.Floors {
		f.AreaIDs = append([]string(nil), f.AreaIDs...)
		cp.Floors[i] = f
	}
	return cp
}

// WithEntity returns a copy of the snapshot with one entity replaced.
// Registry metadata already known for the entity is preserved.
func (s *Snapshot) WithEntity(e Entity) *Snapshot {
	cp := s.Clone()
	if prev, ok := cp.Entities[e.ID]; ok && e.Platform == "" && e.DeviceID == "" {
		e.EntityCategory = prev.EntityCategory
		e.HiddenBy = prev.HiddenBy
		e.DisabledBy = prev.DisabledBy
		e.Platform = prev.Platform
		e.DeviceID = prev.DeviceID
	}
	cp.Entities[e.ID] = e.DeepCopy()
	return cp
}

// Entity returns the entity with the given ID.
func (s *Snapshot) Entity(id string) (Entity, bool) {
	if s == nil {
		return Entity{}, false
	}
	e, ok := s.Entities[id]
	return e, ok
}

// State returns the current state of an entity.
// The second result is false when the entity is absent.
func (s *Snapshot) State(id string) (string, bool) {
	e, ok := s.Entity(id)
	if !ok {
		return "", false
	}
	return e.State, true
}

// IsAvailable reports whether the entity exists and has a real state.
// Items that reference a missing entity are still emitted by the
// dashboard builders; renderers use this to show them as unavailable.
func (s *Snapshot) IsAvailable(id string) bool {
	e, ok := s.Entity(id)
	return ok && e.IsAvailable()
}

// AreaOf resolves the area an entity belongs to, first through the direct
// entity assignment and then through its device.
func (s *Snapshot) AreaOf(entityID string) (string, bool) {
	if s == nil {
		return "", false
	}
	if areaID, ok := s.EntityAreas[entityID]; ok && areaID != "" {
		return areaID, true
	}
	if e, ok := s.Entities[entityID]; ok && e.DeviceID != "" {
		if areaID, ok := s.DeviceAreas[e.DeviceID]; ok && areaID != "" {
			return areaID, true
		}
	}
	return "", false
}

// AreaName returns the display name of an area, falling back to its ID.
func (s *Snapshot) AreaName(areaID string) string {
	if s != nil {
		if name, ok := s.AreaNames[areaID]; ok && name != "" {
			return name
		}
	}
	return areaID
}

// EntityIDs returns all entity IDs in lexical order.
func (s *Snapshot) EntityIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Entities))
	for id := range s.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FloorOfArea returns the floor an area is assigned to.
func (s *Snapshot) FloorOfArea(areaID string) (Floor, bool) {
	if s == nil {
		return Floor{}, false
	}
	for _, f := range s.Floors {
		for _, id := range f.AreaIDs {
			if id == areaID {
				return f, true
			}
		}
	}
	return Floor{}, false
}

func copyStrings(m map[string]string) map[string]string {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
