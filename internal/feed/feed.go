package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-dashboard/internal/pipeline"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
	"github.com/nerrad567/gray-logic-dashboard/internal/store"
)

// persistTimeout bounds each store write made from a message handler.
const persistTimeout = 5 * time.Second

// Broker is the subset of *mqtt.Client the feed uses.
type Broker interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	PublishJSON(topic string, v any) error
}

// Store persists registry payloads and documents. *store.SQLiteRepository
// satisfies it.
type Store interface {
	SaveDocument(ctx context.Context, urlPath string, body []byte) error
	GetDocument(ctx context.Context, urlPath string) (*store.Document, error)
	DeleteDocument(ctx context.Context, urlPath string) error
	SaveRegistry(ctx context.Context, kind string, payload []byte) error
	LoadRegistry(ctx context.Context) (map[string][]byte, error)
}

// Recorder receives every entity state change. *influxdb.Client
// satisfies it.
type Recorder interface {
	WriteEntityState(entityID, domain, state string, ts time.Time)
}

// Logger defines the logging interface used by the feed.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configure a Feed.
type Options struct {
	Broker      Broker
	Topics      mqtt.Topics
	Coordinator *pipeline.Coordinator

	// Store and Recorder are optional.
	Store    Store
	Recorder Recorder

	// Dashboard is the Lovelace dashboard to follow; empty means
	// mqtt.DefaultDashboard.
	Dashboard string

	// Debounce delays snapshot rebuilds so bursts of messages produce one
	// build. Zero rebuilds on every message.
	Debounce time.Duration

	// QoS for subscriptions.
	QoS byte

	Logger Logger
}

// Feed applies broker messages to a pipeline.Coordinator.
//
// Thread Safety: message handlers may run concurrently; all state is
// guarded by mu.
type Feed struct {
	broker    Broker
	topics    mqtt.Topics
	coord     *pipeline.Coordinator
	store     Store
	recorder  Recorder
	dashboard string
	debounce  time.Duration
	qos       byte
	logger    Logger
	now       func() time.Time

	mu      sync.Mutex
	records *records
	timer   *time.Timer
	dirty   bool
	stopped bool

	unsubscribe func()
	subscribed  []string
}

// New creates a Feed. Call Restore and then Start.
func New(opts Options) (*Feed, error) {
	if opts.Broker == nil {
		return nil, errors.New("feed: broker is required")
	}
	if opts.Coordinator == nil {
		return nil, errors.New("feed: coordinator is required")
	}
	if opts.Topics.Prefix == "" {
		opts.Topics = mqtt.NewTopics("")
	}
	if opts.Dashboard == "" {
		opts.Dashboard = mqtt.DefaultDashboard
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}

	return &Feed{
		broker:    opts.Broker,
		topics:    opts.Topics,
		coord:     opts.Coordinator,
		store:     opts.Store,
		recorder:  opts.Recorder,
		dashboard: opts.Dashboard,
		debounce:  opts.Debounce,
		qos:       opts.QoS,
		logger:    opts.Logger,
		now:       time.Now,
		records:   newRecords(),
	}, nil
}

// Restore rebuilds from persisted registry payloads and the persisted
// document, if a store is configured. Undecodable payloads are skipped.
func (f *Feed) Restore(ctx context.Context) error {
	if f.store == nil {
		return nil
	}

	payloads, err := f.store.LoadRegistry(ctx)
	if err != nil {
		return fmt.Errorf("loading registry payloads: %w", err)
	}

	f.mu.Lock()
	for kind, payload := range payloads {
		if err := f.records.apply(kind, payload); err != nil {
			f.logger.Warn("skipping persisted registry payload", "kind", kind, "error", err)
		}
	}
	snap := f.records.snapshot()
	f.mu.Unlock()

	f.coord.UpdateSnapshot(snap)

	doc, err := f.store.GetDocument(ctx, f.dashboard)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("loading document: %w", err)
	default:
		if _, err := f.coord.UpdateDocument(doc.Body); err != nil {
			f.logger.Warn("persisted document rejected", "dashboard", f.dashboard, "error", err)
		}
	}

	f.logger.Info("dashboard restored from store",
		"registry_kinds", len(payloads), "entities", len(snap.Entities))
	return nil
}

// Start subscribes to the registry, state and Lovelace topics and begins
// publishing resolved summaries.
func (f *Feed) Start() error {
	f.unsubscribe = f.coord.OnChange(f.publishResolved)

	subs := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{f.topics.AllRegistry(), f.handleRegistry},
		{f.topics.AllStates(), f.handleState},
		{f.topics.Lovelace(f.dashboard), f.handleLovelace},
	}
	for _, s := range subs {
		if err := f.broker.Subscribe(s.topic, f.qos, s.handler); err != nil {
			f.Stop()
			return fmt.Errorf("subscribing to %s: %w", s.topic, err)
		}
		f.subscribed = append(f.subscribed, s.topic)
		f.logger.Info("subscribed", "topic", s.topic)
	}

	if cur := f.coord.Current(); cur != nil {
		f.publishResolved(cur)
	}
	return nil
}

// Stop unsubscribes, cancels a pending rebuild and flushes it.
func (f *Feed) Stop() {
	for _, topic := range f.subscribed {
		if err := f.broker.Unsubscribe(topic); err != nil {
			f.logger.Warn("unsubscribe failed", "topic", topic, "error", err)
		}
	}
	f.subscribed = nil
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}

	f.mu.Lock()
	f.stopped = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()
}

// Flush rebuilds immediately if a debounced rebuild is pending.
func (f *Feed) Flush() {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if !f.dirty {
		f.mu.Unlock()
		return
	}
	f.dirty = false
	snap := f.records.snapshot()
	f.mu.Unlock()

	f.coord.UpdateSnapshot(snap)
}

func (f *Feed) handleRegistry(topic string, payload []byte) error {
	kind, ok := f.topics.ParseRegistry(topic)
	if !ok {
		return fmt.Errorf("%w: unexpected topic %s", ErrInvalidPayload, topic)
	}

	f.mu.Lock()
	err := f.records.apply(kind, payload)
	f.mu.Unlock()
	if err != nil {
		return err
	}

	f.persist(func(ctx context.Context) error { return f.store.SaveRegistry(ctx, kind, payload) })
	f.logger.Debug("registry payload applied", "kind", kind, "bytes", len(payload))
	f.markDirty()
	return nil
}

func (f *Feed) handleState(topic string, payload []byte) error {
	entityID, ok := f.topics.ParseState(topic)
	if !ok {
		return fmt.Errorf("%w: unexpected topic %s", ErrInvalidPayload, topic)
	}
	if err := registry.ValidateEntityID(entityID); err != nil {
		return err
	}

	if len(payload) == 0 {
		f.mu.Lock()
		f.records.removeState(entityID)
		f.mu.Unlock()
		f.markDirty()
		return nil
	}

	var e registry.Entity
	if err := json.Unmarshal(payload, &e); err != nil {
		return fmt.Errorf("%w: state %s: %w", ErrInvalidPayload, entityID, err)
	}
	if e.ID == "" {
		e.ID = entityID
	}
	if e.ID != entityID {
		return fmt.Errorf("%w: payload entity %s on topic for %s", ErrInvalidPayload, e.ID, entityID)
	}

	f.mu.Lock()
	f.records.setState(e)
	f.mu.Unlock()

	if f.recorder != nil {
		ts := e.LastChanged
		if ts.IsZero() {
			ts = f.now()
		}
		f.recorder.WriteEntityState(e.ID, e.Domain(), e.State, ts)
	}
	f.markDirty()
	return nil
}

func (f *Feed) handleLovelace(topic string, payload []byte) error {
	if len(payload) == 0 {
		f.coord.ClearDocument()
		f.persist(func(ctx context.Context) error { return f.store.DeleteDocument(ctx, f.dashboard) })
		f.logger.Info("lovelace document cleared", "dashboard", f.dashboard)
		return nil
	}

	res, err := f.coord.UpdateDocument(payload)
	if err != nil {
		return err
	}
	f.persist(func(ctx context.Context) error { return f.store.SaveDocument(ctx, f.dashboard, payload) })
	f.logger.Info("lovelace document applied",
		"dashboard", f.dashboard, "generation", res.Generation, "views", len(res.Views))
	return nil
}

// markDirty schedules a rebuild, restarting the debounce window.
func (f *Feed) markDirty() {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.dirty = true
	if f.debounce <= 0 {
		f.mu.Unlock()
		f.Flush()
		return
	}
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.debounce, f.Flush)
	f.mu.Unlock()
}

func (f *Feed) persist(fn func(ctx context.Context) error) {
	if f.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		f.logger.Error("persisting dashboard input failed", "error", err)
	}
}

func (f *Feed) publishResolved(res *pipeline.Result) {
	if err := f.broker.PublishJSON(f.topics.DashboardResolved(), pipeline.Summarize(res)); err != nil {
		f.logger.Warn("publishing resolved dashboard failed",
			"generation", res.Generation, "error", err)
	}
}
