package influxdb

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Sample is one numeric reading.
type Sample struct {
	Time  time.Time
	Value float64
}

// StateSample is one raw state change.
type StateSample struct {
	Time  time.Time
	State string
}

// HistoryQuery returns the Flux query selecting one field of an entity's
// state points within [start, end), oldest first.
func HistoryQuery(bucket, entityID, field string, start, end time.Time) string {
	return fmt.Sprintf(`from(bucket: %s)
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == %s and r.entity_id == %s and r._field == %s)
  |> sort(columns: ["_time"])`,
		strconv.Quote(bucket),
		start.UTC().Format(time.RFC3339Nano),
		end.UTC().Format(time.RFC3339Nano),
		strconv.Quote(MeasurementEntityStates),
		strconv.Quote(entityID),
		strconv.Quote(field),
	)
}

// QueryNumeric returns the numeric history of an entity.
func (c *Client) QueryNumeric(ctx context.Context, entityID string, start, end time.Time) ([]Sample, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}

	result, err := c.queryAPI.Query(ctx, HistoryQuery(c.cfg.Bucket, entityID, FieldValue, start, end))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer result.Close()

	var samples []Sample
	for result.Next() {
		rec := result.Record()
		v, ok := rec.Value().(float64)
		if !ok {
			continue
		}
		samples = append(samples, Sample{Time: rec.Time(), Value: v})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return samples, nil
}

// QueryStates returns the raw state changes of an entity.
func (c *Client) QueryStates(ctx context.Context, entityID string, start, end time.Time) ([]StateSample, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}

	result, err := c.queryAPI.Query(ctx, HistoryQuery(c.cfg.Bucket, entityID, FieldState, start, end))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer result.Close()

	var states []StateSample
	for result.Next() {
		rec := result.Record()
		s, ok := rec.Value().(string)
		if !ok {
			continue
		}
		states = append(states, StateSample{Time: rec.Time(), State: s})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return states, nil
}
