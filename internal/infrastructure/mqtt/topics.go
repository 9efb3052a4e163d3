package mqtt

import "strings"

// DefaultTopicPrefix roots every dashboard topic when none is configured.
const DefaultTopicPrefix = "graydash"

// Registry payload kinds published under {prefix}/registry/{kind}.
const (
	KindEntities       = "entities"
	KindAreas          = "areas"
	KindDevices        = "devices"
	KindFloors         = "floors"
	KindEntityRegistry = "entity_registry"
)

// DefaultDashboard names the Lovelace dashboard with an empty url path.
const DefaultDashboard = "default"

// Topics builds and parses the dashboard topic hierarchy:
//
//	{prefix}/registry/{kind}        full registry payloads (retained)
//	{prefix}/state/{entity_id}      single entity state changes
//	{prefix}/lovelace/{dashboard}   raw Lovelace documents (retained)
//	{prefix}/dashboard/resolved     resolved dashboard output (retained)
//	{prefix}/system/status          online/offline status and LWT
type Topics struct {
	Prefix string
}

// NewTopics returns Topics rooted at prefix, or DefaultTopicPrefix if empty.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{Prefix: prefix}
}

func (t Topics) root() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// Registry returns the topic for one registry payload kind.
func (t Topics) Registry(kind string) string {
	return t.root() + "/registry/" + kind
}

// AllRegistry matches every registry kind.
func (t Topics) AllRegistry() string {
	return t.root() + "/registry/+"
}

// State returns the topic carrying one entity's state.
func (t Topics) State(entityID string) string {
	return t.root() + "/state/" + entityID
}

// AllStates matches every entity state topic.
func (t Topics) AllStates() string {
	return t.root() + "/state/+"
}

// Lovelace returns the topic carrying a dashboard document.
func (t Topics) Lovelace(dashboard string) string {
	if dashboard == "" {
		dashboard = DefaultDashboard
	}
	return t.root() + "/lovelace/" + dashboard
}

// DashboardResolved returns the topic the resolved dashboard is published on.
func (t Topics) DashboardResolved() string {
	return t.root() + "/dashboard/resolved"
}

// SystemStatus returns the online/offline status topic.
func (t Topics) SystemStatus() string {
	return t.root() + "/system/status"
}

// ParseRegistry returns the kind of a registry topic.
func (t Topics) ParseRegistry(topic string) (string, bool) {
	return t.leaf(topic, "registry")
}

// ParseState returns the entity id of a state topic.
func (t Topics) ParseState(topic string) (string, bool) {
	return t.leaf(topic, "state")
}

// ParseLovelace returns the dashboard name of a Lovelace topic.
func (t Topics) ParseLovelace(topic string) (string, bool) {
	return t.leaf(topic, "lovelace")
}

// leaf returns the final level of {prefix}/{category}/{leaf}.
func (t Topics) leaf(topic, category string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, t.root()+"/"+category+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
