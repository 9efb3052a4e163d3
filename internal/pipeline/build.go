package pipeline

import (
	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

// inputs is what one build reads. Snapshots and parsed documents are
// never mutated after they are stored, so a build can share them.
type inputs struct {
	generation uint64
	snap       *registry.Snapshot
	doc        *dashboard.Dashboard
	native     *dashboard.Config
	width      float64
}

// resolved is a dashboard plus, for dashboards that were not produced
// from Lovelace views, the configs of its views.
type resolved struct {
	source  Source
	dash    *dashboard.Dashboard
	configs []*dashboard.Config
}

// build produces a Result from in. It touches no Coordinator state.
func (c *Coordinator) build(in inputs) *Result {
	r := c.resolve(in)

	views := r.dash.Views
	configs := r.configs
	if configs == nil {
		views = make([]dashboard.View, len(r.dash.Views))
		configs = make([]*dashboard.Config, len(r.dash.Views))
		for i, view := range r.dash.Views {
			views[i], configs[i] = c.viewConfig(view, in.snap)
		}
		// Publish the resolved views; the stored document stays as parsed.
		dash := *r.dash
		dash.Views = views
		r.dash = &dash
	}

	res := &Result{
		Generation: in.generation,
		Source:     r.source,
		Dashboard:  r.dash,
		Views:      make([]ViewLayout, len(r.dash.Views)),
		BuiltAt:    c.now(),
		snap:       in.snap,
	}
	for i, view := range views {
		res.Views[i] = c.layoutView(i, view, configs[i], in.snap, in.width)
	}
	return res
}

// resolve picks the input with the highest priority: a native config,
// then the Lovelace document, then the fallback strategy, then the
// default grid.
func (c *Coordinator) resolve(in inputs) resolved {
	switch {
	case in.native != nil && !in.native.IsStrategy():
		return resolved{
			source:  SourceNative,
			dash:    singleView(in.native.Title, "native"),
			configs: []*dashboard.Config{in.native},
		}
	case in.native != nil:
		return c.resolveStrategy(SourceNative, in.native.StrategyConfig, in.snap)
	case in.doc != nil && in.doc.Strategy != nil:
		return c.resolveStrategy(SourceStrategy, in.doc.Strategy, in.snap)
	case in.doc != nil:
		return resolved{source: SourceDocument, dash: in.doc}
	}
	if d := c.fallback(in.snap); d != nil {
		return resolved{source: SourceFallback, dash: d}
	}
	return c.defaultDashboard(in.snap)
}

// resolveStrategy resolves a dashboard strategy. When the strategy is not
// supported the fallback strategy and then the default grid are used.
func (c *Coordinator) resolveStrategy(source Source, strategyConfig map[string]any, snap *registry.Snapshot) resolved {
	if d, ok := c.resolver.Resolve(strategyConfig, snap); ok {
		return resolved{source: source, dash: d}
	}
	c.logger.Warn("dashboard strategy could not be resolved",
		"strategy", dashboard.StrategyType(strategyConfig))
	if d := c.fallback(snap); d != nil {
		return resolved{source: SourceFallback, dash: d}
	}
	return c.defaultDashboard(snap)
}

func (c *Coordinator) fallback(snap *registry.Snapshot) *dashboard.Dashboard {
	if c.opts.FallbackStrategy == "" {
		return nil
	}
	d, ok := c.resolver.Resolve(map[string]any{"type": c.opts.FallbackStrategy}, snap)
	if !ok {
		return nil
	}
	return d
}

func (c *Coordinator) defaultDashboard(snap *registry.Snapshot) resolved {
	cfg := c.defaultConfig(snap)
	return resolved{
		source:  SourceDefault,
		dash:    singleView(cfg.Title, "home"),
		configs: []*dashboard.Config{cfg},
	}
}

// defaultConfig is a grid of every entity the visibility rules allow.
func (c *Coordinator) defaultConfig(snap *registry.Snapshot) *dashboard.Config {
	var ids []string
	for _, id := range snap.EntityIDs() {
		if e, _ := snap.Entity(id); c.opts.Visibility.Show(e) {
			ids = append(ids, id)
		}
	}
	return dashboard.DefaultConfig(ids, c.opts.Columns)
}

// viewConfig converts a view. A per-view strategy is replaced by the first
// view it generates, keeping the original title and path.
func (c *Coordinator) viewConfig(view dashboard.View, snap *registry.Snapshot) (dashboard.View, *dashboard.Config) {
	cfg := c.parser.DashboardConfigFromView(view, c.opts.Columns)
	if !cfg.IsStrategy() {
		return view, cfg
	}

	d, ok := c.resolver.Resolve(cfg.StrategyConfig, snap)
	if !ok || len(d.Views) == 0 {
		c.logger.Warn("view strategy could not be resolved, using default grid",
			"view", view.Title, "strategy", cfg.StrategyType)
		view.Layout = dashboard.LayoutMasonry
		return view, c.defaultConfig(snap)
	}
	generated := d.Views[0]
	if view.Title != "" {
		generated.Title = view.Title
	}
	if view.Path != "" {
		generated.Path = view.Path
	}
	return generated, c.parser.DashboardConfigFromView(generated, c.opts.Columns)
}

func (c *Coordinator) layoutView(index int, view dashboard.View, cfg *dashboard.Config, snap *registry.Snapshot, width float64) ViewLayout {
	placements, columns := arrange(view.Layout, cfg, snap, width, c.opts.Layout)
	return ViewLayout{
		Index:      index,
		Title:      view.Title,
		Path:       view.Path,
		Layout:     view.Layout,
		Config:     cfg,
		Width:      width,
		Columns:    columns,
		Placements: placements,
	}
}

func singleView(title, path string) *dashboard.Dashboard {
	return &dashboard.Dashboard{
		Title: title,
		Views: []dashboard.View{{
			Title:  title,
			Path:   path,
			Layout: dashboard.LayoutMasonry,
		}},
	}
}
