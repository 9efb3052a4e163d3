package history

import "time"

// DefaultMaxPoints bounds a numeric series when the caller passes 0.
const DefaultMaxPoints = 100

// Point is one numeric history sample.
type Point struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Segment is a span of time during which an entity held one state.
type Segment struct {
	State string    `json:"state"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the segment.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// StateChange is a raw state transition read from a Source.
type StateChange struct {
	State string
	Time  time.Time
}
