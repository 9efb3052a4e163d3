package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := NewTopics("home/")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Registry", topics.Registry(KindAreas), "home/registry/areas"},
		{"AllRegistry", topics.AllRegistry(), "home/registry/+"},
		{"State", topics.State("light.kitchen"), "home/state/light.kitchen"},
		{"AllStates", topics.AllStates(), "home/state/+"},
		{"Lovelace", topics.Lovelace("energy"), "home/lovelace/energy"},
		{"Lovelace default", topics.Lovelace(""), "home/lovelace/default"},
		{"DashboardResolved", topics.DashboardResolved(), "home/dashboard/resolved"},
		{"SystemStatus", topics.SystemStatus(), "home/system/status"},
		{"zero value prefix", Topics{}.State("x.y"), "graydash/state/x.y"},
		{"empty prefix", NewTopics("").SystemStatus(), "graydash/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestTopicParsers(t *testing.T) {
	topics := NewTopics("graydash")

	tests := []struct {
		name   string
		parse  func(string) (string, bool)
		topic  string
		want   string
		wantOK bool
	}{
		{"state", topics.ParseState, "graydash/state/sensor.temp", "sensor.temp", true},
		{"state wrong prefix", topics.ParseState, "other/state/sensor.temp", "", false},
		{"state nested", topics.ParseState, "graydash/state/a/b", "", false},
		{"state empty", topics.ParseState, "graydash/state/", "", false},
		{"registry", topics.ParseRegistry, "graydash/registry/floors", "floors", true},
		{"registry from state", topics.ParseRegistry, "graydash/state/floors", "", false},
		{"lovelace", topics.ParseLovelace, "graydash/lovelace/default", "default", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.parse(tt.topic)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parse(%q) = %q, %v, want %q, %v", tt.topic, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
