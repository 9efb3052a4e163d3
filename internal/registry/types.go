package registry

import (
	"fmt"
	"strings"
	"time"
)

// Well-known entity domains.
const (
	DomainLight             = "light"
	DomainSwitch            = "switch"
	DomainSensor            = "sensor"
	DomainBinarySensor      = "binary_sensor"
	DomainClimate           = "climate"
	DomainCover             = "cover"
	DomainCamera            = "camera"
	DomainLock              = "lock"
	DomainFan               = "fan"
	DomainMediaPlayer       = "media_player"
	DomainAutomation        = "automation"
	DomainScene             = "scene"
	DomainScript            = "script"
	DomainInputBoolean      = "input_boolean"
	DomainInputNumber       = "input_number"
	DomainInputSelect       = "input_select"
	DomainInputDatetime     = "input_datetime"
	DomainInputText         = "input_text"
	DomainInputButton       = "input_button"
	DomainWeather           = "weather"
	DomainNumber            = "number"
	DomainSelect            = "select"
	DomainButton            = "button"
	DomainHumidifier        = "humidifier"
	DomainVacuum            = "vacuum"
	DomainAlarmControlPanel = "alarm_control_panel"
	DomainTimer             = "timer"
	DomainCounter           = "counter"
	DomainPerson            = "person"
	DomainSiren             = "siren"
	DomainUpdate            = "update"
	DomainCalendar          = "calendar"
)

// Sentinel states reported by the server for entities it cannot reach.
const (
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
)

// Entity is a single addressable thing in the home together with its
// current state and registry metadata.
type Entity struct {
	ID          string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	LastChanged time.Time      `json:"last_changed,omitzero"`
	LastUpdated time.Time      `json:"last_updated,omitzero"`

	// Registry-sourced fields, filled from EntityRecord.
	EntityCategory string `json:"entity_category,omitempty"` // "config", "diagnostic" or empty
	HiddenBy       string `json:"hidden_by,omitempty"`       // "user", "integration" or empty
	DisabledBy     string `json:"disabled_by,omitempty"`
	Platform       string `json:"platform,omitempty"`
	DeviceID       string `json:"device_id,omitempty"`
}

// Domain returns the part of the entity ID before the first ".".
// It is always derived, never stored.
func (e Entity) Domain() string {
	return DomainOf(e.ID)
}

// FriendlyName returns attributes.friendly_name when it is a non-empty
// string, otherwise the entity ID.
func (e Entity) FriendlyName() string {
	if name, ok := e.Attributes["friendly_name"].(string); ok && name != "" {
		return name
	}
	return e.ID
}

// IsAvailable reports whether the entity has a real state.
func (e Entity) IsAvailable() bool {
	return e.State != StateUnavailable && e.State != ""
}

// DeepCopy returns a copy of the entity with its own attribute map.
func (e Entity) DeepCopy() Entity {
	cp := e
	if e.Attributes != nil {
		cp.Attributes = make(map[string]any, len(e.Attributes))
		for k, v := range e.Attributes {
			cp.Attributes[k] = v
		}
	}
	return cp
}

// DomainOf returns the domain prefix of an entity ID, or "" when the ID
// contains no ".".
func DomainOf(entityID string) string {
	domain, _, ok := strings.Cut(entityID, ".")
	if !ok {
		return ""
	}
	return domain
}

// ValidateEntityID checks that an ID has the "domain.object" shape.
func ValidateEntityID(entityID string) error {
	domain, object, ok := strings.Cut(entityID, ".")
	if !ok || domain == "" || object == "" {
		return fmt.Errorf("%w: %q", ErrInvalidEntityID, entityID)
	}
	return nil
}

// EntityRecord is a raw entity registry entry as delivered by the server.
// Nullable fields use pointers so that absent and empty can be told apart.
type EntityRecord struct {
	EntityID       string  `json:"entity_id"`
	Name           *string `json:"name"`
	AreaID         *string `json:"area_id"`
	DeviceID       *string `json:"device_id"`
	DisabledBy     *string `json:"disabled_by"`
	EntityCategory *string `json:"entity_category"`
	HiddenBy       *string `json:"hidden_by"`
	Platform       string  `json:"platform"`
}

// AreaRecord is a raw area registry entry.
type AreaRecord struct {
	AreaID  string  `json:"area_id"`
	Name    string  `json:"name"`
	FloorID *string `json:"floor_id"`
	Icon    *string `json:"icon"`
}

// DeviceRecord is a raw device registry entry. Only the fields needed to
// resolve areas are kept.
type DeviceRecord struct {
	ID     string  `json:"id"`
	AreaID *string `json:"area_id"`
	Name   *string `json:"name"`
}

// Floor is one level of the building.
// Lower levels are nearer the ground; negative levels are basements.
type Floor struct {
	ID      string   `json:"floor_id"`
	Name    string   `json:"name"`
	Level   int      `json:"level"`
	AreaIDs []string `json:"area_ids,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
