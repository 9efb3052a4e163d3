package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/lovelace"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
	"github.com/nerrad567/gray-logic-dashboard/internal/strategy"
)

// Logger defines the logging interface used by the coordinator.
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

// Default build settings.
const (
	DefaultWidth   = 1024.0
	DefaultSpacing = 8.0
)

// Options configure a Coordinator.
type Options struct {
	// Columns is the grid column count for classic views and the default
	// grid.
	Columns int

	// Width is the viewport width published results are laid out for.
	Width float64

	Layout LayoutParams

	// FallbackStrategy is resolved when there is no document, or the
	// document's strategy is not supported. Empty disables it.
	FallbackStrategy string

	// Visibility filters the default grid.
	Visibility registry.VisibilityRules

	// Resolver and Parser default to instances built from the options
	// above when nil.
	Resolver *strategy.Resolver
	Parser   *lovelace.Parser
}

// ChangeFunc is called with every published result.
type ChangeFunc func(*Result)

// Coordinator owns the current snapshot, document and native config and
// publishes a rebuilt Result after every change.
//
// Thread Safety: all methods are safe for concurrent use. Change callbacks
// run on the updating goroutine, outside the state lock, one result at a
// time and in generation order. A callback must not update the
// Coordinator.
type Coordinator struct {
	opts     Options
	resolver *strategy.Resolver
	parser   *lovelace.Parser
	logger   Logger
	now      func() time.Time

	mu         sync.RWMutex
	snap       *registry.Snapshot
	doc        *dashboard.Dashboard
	native     *dashboard.Config
	generation uint64
	current    *Result

	subMu  sync.Mutex
	subs   map[int]ChangeFunc
	nextID int

	// notifyMu serialises callbacks; notified is the last generation
	// delivered to them.
	notifyMu sync.Mutex
	notified uint64
}

// New creates a Coordinator with an empty snapshot and no document.
// Nothing is built until the first update or Rebuild.
func New(opts Options) *Coordinator {
	if opts.Columns <= 0 {
		opts.Columns = dashboard.DefaultColumns
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	c := &Coordinator{
		opts:     opts,
		resolver: opts.Resolver,
		parser:   opts.Parser,
		logger:   noopLogger{},
		now:      time.Now,
		snap:     registry.Empty(),
		subs:     make(map[int]ChangeFunc),
	}
	if c.resolver == nil {
		c.resolver = strategy.NewResolver(strategy.Options{Visibility: opts.Visibility})
	}
	if c.parser == nil {
		c.parser = lovelace.New()
	}
	return c
}

// SetLogger sets the logger for the coordinator. Call it before the first
// update.
func (c *Coordinator) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	c.logger = logger
}

// UpdateSnapshot replaces the registry snapshot and rebuilds.
// A nil snapshot is treated as empty.
func (c *Coordinator) UpdateSnapshot(snap *registry.Snapshot) *Result {
	if snap == nil {
		snap = registry.Empty()
	}
	c.mu.Lock()
	c.snap = snap
	in := c.nextInputsLocked()
	c.mu.Unlock()
	return c.run(in)
}

// UpdateDocument parses a Lovelace document and rebuilds with it.
// A malformed document is rejected and the previous one stays in effect.
func (c *Coordinator) UpdateDocument(data []byte) (*Result, error) {
	doc, err := c.parser.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	c.mu.Lock()
	c.doc = doc
	in := c.nextInputsLocked()
	c.mu.Unlock()
	return c.run(in), nil
}

// ClearDocument drops the Lovelace document and rebuilds.
func (c *Coordinator) ClearDocument() *Result {
	c.mu.Lock()
	c.doc = nil
	in := c.nextInputsLocked()
	c.mu.Unlock()
	return c.run(in)
}

// SetNativeConfig installs a native dashboard config, which takes priority
// over any document. nil removes it.
func (c *Coordinator) SetNativeConfig(cfg *dashboard.Config) *Result {
	if cfg != nil {
		cfg.Normalize()
	}
	c.mu.Lock()
	c.native = cfg
	in := c.nextInputsLocked()
	c.mu.Unlock()
	return c.run(in)
}

// Rebuild rebuilds from the current inputs.
func (c *Coordinator) Rebuild() *Result {
	c.mu.Lock()
	in := c.nextInputsLocked()
	c.mu.Unlock()
	return c.run(in)
}

// Current returns the latest published result, or nil before the first
// build.
func (c *Coordinator) Current() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Generation returns the generation of the most recent update, which may
// be newer than Current while a build is in flight.
func (c *Coordinator) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// OnChange registers fn for every published result and returns a function
// that removes it.
func (c *Coordinator) OnChange(fn ChangeFunc) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// LayoutView lays out one view of the current result for another width.
// The published result is not changed.
//
// Returns:
//   - ViewLayout: placements for the requested width
//   - error: ErrNotBuilt before the first build, ErrViewNotFound for a bad index
func (c *Coordinator) LayoutView(index int, width float64) (ViewLayout, error) {
	res := c.Current()
	if res == nil {
		return ViewLayout{}, ErrNotBuilt
	}
	vl, ok := res.View(index)
	if !ok {
		return ViewLayout{}, fmt.Errorf("%w: index %d of %d", ErrViewNotFound, index, len(res.Views))
	}
	if width <= 0 || width == vl.Width {
		return vl, nil
	}
	view := dashboard.View{Title: vl.Title, Path: vl.Path, Layout: vl.Layout}
	return c.layoutView(index, view, vl.Config, res.snap, width), nil
}

func (c *Coordinator) nextInputsLocked() inputs {
	c.generation++
	return inputs{
		generation: c.generation,
		snap:       c.snap,
		doc:        c.doc,
		native:     c.native,
		width:      c.opts.Width,
	}
}

// run builds outside the lock and publishes the result unless a newer
// generation was published meanwhile. It returns the current result.
func (c *Coordinator) run(in inputs) *Result {
	res := c.build(in)

	c.mu.Lock()
	if c.current != nil && c.current.Generation >= res.Generation {
		current := c.current
		c.mu.Unlock()
		c.logger.Debug("discarding stale dashboard build",
			"generation", res.Generation, "current", current.Generation)
		return current
	}
	c.current = res
	c.mu.Unlock()

	c.logger.Debug("dashboard rebuilt",
		"generation", res.Generation, "source", res.Source, "views", len(res.Views))
	c.notify(res)
	return res
}

// notify delivers res unless a newer result was delivered first.
func (c *Coordinator) notify(res *Result) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if res.Generation <= c.notified {
		return
	}
	c.notified = res.Generation

	c.subMu.Lock()
	fns := make([]ChangeFunc, 0, len(c.subs))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(res)
	}
}
