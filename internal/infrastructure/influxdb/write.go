package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementEntityStates holds one point per entity state change.
const MeasurementEntityStates = "entity_states"

// Field names in MeasurementEntityStates.
const (
	FieldValue = "value"
	FieldState = "state"
)

// NewEntityStatePoint builds the point for a state change. Every point
// carries the raw state string; states that parse as numbers also get a
// float value field so they can be graphed.
func NewEntityStatePoint(entityID, domain, state string, ts time.Time) *write.Point {
	fields := map[string]interface{}{
		FieldState: state,
	}
	if v, err := strconv.ParseFloat(state, 64); err == nil {
		fields[FieldValue] = v
	}

	return write.NewPoint(
		MeasurementEntityStates,
		map[string]string{
			"entity_id": entityID,
			"domain":    domain,
		},
		fields,
		ts,
	)
}

// WriteEntityState records a state change. The write is batched and
// non-blocking; failures arrive through SetOnError.
//
// Example:
//
//	client.WriteEntityState("sensor.living_temperature", "sensor", "21.5", time.Now())
func (c *Client) WriteEntityState(entityID, domain, state string, ts time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(NewEntityStatePoint(entityID, domain, state, ts))
}
