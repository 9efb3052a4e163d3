package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

const (
	keyPrefix  = "history:"
	defaultTTL = 5 * time.Minute
)

// Logger is the logging interface used by the Manager.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Options configures a Manager.
type Options struct {
	// TTL is how long fetched series stay cached. Zero means 5 minutes.
	TTL time.Duration
	// MaxPoints replaces DefaultMaxPoints when positive.
	MaxPoints int
}

// Manager fetches and caches entity history.
//
// Thread Safety:
//   - All methods are safe for concurrent use; concurrency is delegated to
//     the Source and KV implementations.
type Manager struct {
	source    Source
	kv        KV
	ttl       time.Duration
	maxPoints int
	logger    Logger
}

// NewManager creates a Manager. A nil kv disables caching.
func NewManager(source Source, kv KV, opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	maxPoints := opts.MaxPoints
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	return &Manager{
		source:    source,
		kv:        kv,
		ttl:       ttl,
		maxPoints: maxPoints,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for cache diagnostics.
func (m *Manager) SetLogger(l Logger) {
	m.logger = l
}

// FetchHistory returns the numeric series of entityID between start and
// end, downsampled to at most maxPoints (the Manager default when 0).
func (m *Manager) FetchHistory(ctx context.Context, entityID string, start, end time.Time, maxPoints int) ([]Point, error) {
	if err := m.validate(entityID, start, end); err != nil {
		return nil, err
	}
	if maxPoints <= 0 {
		maxPoints = m.maxPoints
	}

	key := fmt.Sprintf("%spoints:%s:%d:%d:%d", keyPrefix, entityID, start.Unix(), end.Unix(), maxPoints)
	var cached []Point
	if m.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	points, err := m.source.NumericSeries(ctx, entityID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", entityID, err)
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	points = Downsample(points, maxPoints)
	if points == nil {
		points = []Point{}
	}

	m.cacheSet(ctx, key, points)
	return points, nil
}

// FetchTimeline returns the contiguous state segments of entityID between
// start and end.
func (m *Manager) FetchTimeline(ctx context.Context, entityID string, start, end time.Time) ([]Segment, error) {
	if err := m.validate(entityID, start, end); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%stimeline:%s:%d:%d", keyPrefix, entityID, start.Unix(), end.Unix())
	var cached []Segment
	if m.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	changes, err := m.source.StateChanges(ctx, entityID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching timeline for %s: %w", entityID, err)
	}
	segments := Segments(changes, start, end)

	m.cacheSet(ctx, key, segments)
	return segments, nil
}

// ClearCache removes every cached series.
func (m *Manager) ClearCache(ctx context.Context) error {
	if m.kv == nil {
		return nil
	}
	keys, err := m.kv.ScanKeys(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("scanning history cache: %w", err)
	}
	if err := m.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clearing history cache: %w", err)
	}
	m.logger.Debug("history cache cleared", "keys", len(keys))
	return nil
}

func (m *Manager) validate(entityID string, start, end time.Time) error {
	if m.source == nil {
		return ErrNoSource
	}
	if err := registry.ValidateEntityID(entityID); err != nil {
		return err
	}
	if !end.After(start) {
		return ErrInvalidRange
	}
	return nil
}

// cacheGet decodes a cached value into dst. Cache failures are logged and
// treated as misses.
func (m *Manager) cacheGet(ctx context.Context, key string, dst any) bool {
	if m.kv == nil {
		return false
	}
	raw, err := m.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			m.logger.Warn("history cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		m.logger.Warn("history cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (m *Manager) cacheSet(ctx context.Context, key string, v any) {
	if m.kv == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := m.kv.Set(ctx, key, string(raw), m.ttl); err != nil {
		m.logger.Warn("history cache write failed", "key", key, "error", err)
	}
}
