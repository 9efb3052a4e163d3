package influxdb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(context.Background(), config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), config.InfluxDBConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:1",
		Org:     "home",
		Bucket:  "graydash",
	})
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestNewEntityStatePoint(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		state     string
		wantValue bool
	}{
		{"numeric", "21.5", true},
		{"integer", "3", true},
		{"text", "on", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewEntityStatePoint("sensor.temp", "sensor", tt.state, ts)
			if p.Name() != MeasurementEntityStates {
				t.Errorf("Name() = %q", p.Name())
			}

			fields := map[string]any{}
			for _, f := range p.FieldList() {
				fields[f.Key] = f.Value
			}
			if fields[FieldState] != tt.state {
				t.Errorf("state field = %v, want %q", fields[FieldState], tt.state)
			}
			if _, ok := fields[FieldValue]; ok != tt.wantValue {
				t.Errorf("value field present = %v, want %v", ok, tt.wantValue)
			}

			tags := map[string]string{}
			for _, tag := range p.TagList() {
				tags[tag.Key] = tag.Value
			}
			if tags["entity_id"] != "sensor.temp" || tags["domain"] != "sensor" {
				t.Errorf("tags = %v", tags)
			}
		})
	}
}

func TestHistoryQuery(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	q := HistoryQuery("graydash", "sensor.temp", FieldValue, start, end)

	for _, want := range []string{
		`from(bucket: "graydash")`,
		"range(start: 2026-03-01T00:00:00Z, stop: 2026-03-02T00:00:00Z)",
		`r._measurement == "entity_states"`,
		`r.entity_id == "sensor.temp"`,
		`r._field == "value"`,
		`sort(columns: ["_time"])`,
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}
}

func TestDisconnectedClient(t *testing.T) {
	var c *Client
	if c.IsConnected() {
		t.Error("nil client reports connected")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}

	c = &Client{}
	c.WriteEntityState("sensor.x", "sensor", "1", time.Now())
	c.Flush()
	if _, err := c.QueryNumeric(context.Background(), "sensor.x", time.Now(), time.Now()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("QueryNumeric() error = %v, want ErrNotConnected", err)
	}
	if _, err := c.QueryStates(context.Background(), "sensor.x", time.Now(), time.Now()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("QueryStates() error = %v, want ErrNotConnected", err)
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}
