package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

// records holds the latest decoded payload of every registry kind.
type records struct {
	states        map[string]registry.Entity
	areas         []registry.AreaRecord
	devices       []registry.DeviceRecord
	floors        []registry.Floor
	entityRecords []registry.EntityRecord
}

func newRecords() *records {
	return &records{states: make(map[string]registry.Entity)}
}

// apply decodes payload as a full list of kind and replaces the current
// one. The records are left unchanged on error.
func (r *records) apply(kind string, payload []byte) error {
	var err error
	switch kind {
	case mqtt.KindEntities:
		var states []registry.Entity
		if err = decodeList(payload, &states); err == nil {
			r.states = make(map[string]registry.Entity, len(states))
			for _, e := range states {
				if e.ID != "" {
					r.states[e.ID] = e
				}
			}
		}
	case mqtt.KindAreas:
		var areas []registry.AreaRecord
		if err = decodeList(payload, &areas); err == nil {
			r.areas = areas
		}
	case mqtt.KindDevices:
		var devices []registry.DeviceRecord
		if err = decodeList(payload, &devices); err == nil {
			r.devices = devices
		}
	case mqtt.KindFloors:
		var floors []registry.Floor
		if err = decodeList(payload, &floors); err == nil {
			r.floors = floors
		}
	case mqtt.KindEntityRegistry:
		var entries []registry.EntityRecord
		if err = decodeList(payload, &entries); err == nil {
			r.entityRecords = entries
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, kind, err)
	}
	return nil
}

// setState replaces one entity's state. Registry metadata already known
// for it is kept.
func (r *records) setState(e registry.Entity) {
	if prev, ok := r.states[e.ID]; ok && e.Platform == "" && e.DeviceID == "" {
		e.EntityCategory = prev.EntityCategory
		e.HiddenBy = prev.HiddenBy
		e.DisabledBy = prev.DisabledBy
		e.Platform = prev.Platform
		e.DeviceID = prev.DeviceID
	}
	r.states[e.ID] = e
}

func (r *records) removeState(entityID string) {
	delete(r.states, entityID)
}

// snapshot builds an immutable snapshot from the current records.
func (r *records) snapshot() *registry.Snapshot {
	ids := make([]string, 0, len(r.states))
	for id := range r.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	states := make([]registry.Entity, 0, len(ids))
	for _, id := range ids {
		states = append(states, r.states[id])
	}
	return registry.FromRecords(states, r.areas, r.devices, r.floors, r.entityRecords)
}

// decodeList accepts a JSON array. An empty payload clears the list.
func decodeList(payload []byte, v any) error {
	if len(payload) == 0 {
		payload = []byte("[]")
	}
	return json.Unmarshal(payload, v)
}

// SnapshotFromPayloads builds a snapshot from raw registry payloads keyed
// by kind, as published on the registry topics. Kinds are applied in
// sorted order and every failure is reported.
func SnapshotFromPayloads(payloads map[string][]byte) (*registry.Snapshot, error) {
	kinds := make([]string, 0, len(payloads))
	for kind := range payloads {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	r := newRecords()
	var errs []error
	for _, kind := range kinds {
		if err := r.apply(kind, payloads[kind]); err != nil {
			errs = append(errs, err)
		}
	}
	return r.snapshot(), errors.Join(errs...)
}
