package history

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/influxdb"
)

// Source supplies raw history for one entity within [start, end).
type Source interface {
	NumericSeries(ctx context.Context, entityID string, start, end time.Time) ([]Point, error)
	StateChanges(ctx context.Context, entityID string, start, end time.Time) ([]StateChange, error)
}

// InfluxQuerier is the part of the InfluxDB client used as a Source.
type InfluxQuerier interface {
	QueryNumeric(ctx context.Context, entityID string, start, end time.Time) ([]influxdb.Sample, error)
	QueryStates(ctx context.Context, entityID string, start, end time.Time) ([]influxdb.StateSample, error)
}

// InfluxSource adapts an InfluxDB client to Source.
type InfluxSource struct {
	q InfluxQuerier
}

// NewInfluxSource wraps q.
func NewInfluxSource(q InfluxQuerier) *InfluxSource {
	return &InfluxSource{q: q}
}

func (s *InfluxSource) NumericSeries(ctx context.Context, entityID string, start, end time.Time) ([]Point, error) {
	samples, err := s.q.QueryNumeric(ctx, entityID, start, end)
	if err != nil {
		return nil, err
	}
	points := make([]Point, len(samples))
	for i, smp := range samples {
		points[i] = Point{Value: smp.Value, Timestamp: smp.Time}
	}
	return points, nil
}

func (s *InfluxSource) StateChanges(ctx context.Context, entityID string, start, end time.Time) ([]StateChange, error) {
	samples, err := s.q.QueryStates(ctx, entityID, start, end)
	if err != nil {
		return nil, err
	}
	changes := make([]StateChange, len(samples))
	for i, smp := range samples {
		changes[i] = StateChange{State: smp.State, Time: smp.Time}
	}
	return changes, nil
}
