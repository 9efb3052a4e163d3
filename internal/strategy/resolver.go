package strategy

import (
	"sort"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

// Strategy type names.
const (
	TypeOriginalStates = "original-states"
	TypeHome           = "home"
)

// UnassignedTitle is the title of the group that collects entities
// without an area.
const UnassignedTitle = "Unassigned"

// Logger defines the logging interface used by the Resolver.
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

// Options tune how dashboards are generated.
type Options struct {
	// DomainOrder overrides DefaultDomainOrder when non-empty.
	DomainOrder []string

	// Visibility adds hidden domains and platforms to the built-in set.
	Visibility registry.VisibilityRules
}

// Resolver synthesizes dashboards from registry snapshots.
// It is stateless apart from its options and safe for concurrent use.
type Resolver struct {
	ranker     domainRanker
	visibility registry.VisibilityRules
	logger     Logger
}

// NewResolver creates a Resolver.
func NewResolver(opts Options) *Resolver {
	return &Resolver{
		ranker:     newDomainRanker(opts.DomainOrder),
		visibility: opts.Visibility,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the resolver.
func (r *Resolver) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

var defaultResolver = NewResolver(Options{})

// Resolve resolves a strategy with default options.
func Resolve(strategyConfig map[string]any, snap *registry.Snapshot) (*dashboard.Dashboard, bool) {
	return defaultResolver.Resolve(strategyConfig, snap)
}

// Resolve turns a strategy config into a concrete dashboard.
//
// The generated views carry synthesized Lovelace cards (classic views) or
// sections (sections views), so the result goes through the same
// conversion as a server-supplied document.
//
// Parameters:
//   - strategyConfig: the full strategy map; "type" selects the generator
//   - snap: the registry snapshot to generate from (nil is treated as empty)
//
// Returns:
//   - *dashboard.Dashboard: the resolved dashboard
//   - bool: false when the strategy type is not supported
func (r *Resolver) Resolve(strategyConfig map[string]any, snap *registry.Snapshot) (*dashboard.Dashboard, bool) {
	if snap == nil {
		snap = registry.Empty()
	}
	opts := parseStrategyOptions(strategyConfig)

	switch t := dashboard.StrategyType(strategyConfig); t {
	case TypeOriginalStates:
		return r.resolveOriginalStates(opts, snap), true
	case TypeHome:
		return r.resolveHome(opts, snap), true
	default:
		r.logger.Warn("unsupported dashboard strategy", "type", t)
		return nil, false
	}
}

// strategyOptions are the strategy-config keys the generators read.
type strategyOptions struct {
	title      string
	areaOrder  []string
	hiddenArea map[string]bool
}

func parseStrategyOptions(cfg map[string]any) strategyOptions {
	opts := strategyOptions{hiddenArea: map[string]bool{}}
	opts.title, _ = cfg["title"].(string)

	areas, _ := cfg["areas"].(map[string]any)
	opts.areaOrder = stringList(areas["order"])
	for _, v := range stringList(areas["hidden"]) {
		opts.hiddenArea[v] = true
	}
	return opts
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, el := range raw {
		if s, ok := el.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// areaGroup is the visible entities of one area, already ordered.
type areaGroup struct {
	areaID    string
	name      string
	entityIDs []string
}

// groupByArea collects the visible entities of the snapshot per area.
// Entities that resolve to no area land in the unassigned list; entities
// of hidden areas are dropped.
func (r *Resolver) groupByArea(snap *registry.Snapshot, hidden map[string]bool) (map[string]*areaGroup, []string) {
	groups := make(map[string]*areaGroup)
	var unassigned []string

	for _, id := range snap.EntityIDs() {
		e := snap.Entities[id]
		if !r.visibility.Show(e) {
			continue
		}

		areaID, ok := snap.AreaOf(id)
		if !ok {
			unassigned = append(unassigned, id)
			continue
		}
		if hidden[areaID] {
			continue
		}

		g, ok := groups[areaID]
		if !ok {
			g = &areaGroup{areaID: areaID, name: snap.AreaName(areaID)}
			groups[areaID] = g
		}
		g.entityIDs = append(g.entityIDs, id)
	}

	for _, g := range groups {
		r.sortEntities(g.entityIDs)
	}
	r.sortEntities(unassigned)

	return groups, unassigned
}

func (r *Resolver) sortEntities(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool { return r.ranker.less(ids[i], ids[j]) })
}

// sortByPriority puts areas named in order first, in that order, then the
// rest by name.
func sortByPriority(groups []*areaGroup, order []string) {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		ri, okI := rank[groups[i].areaID]
		rj, okJ := rank[groups[j].areaID]
		switch {
		case okI && okJ:
			return ri < rj
		case okI:
			return true
		case okJ:
			return false
		}
		if groups[i].name != groups[j].name {
			return groups[i].name < groups[j].name
		}
		return groups[i].areaID < groups[j].areaID
	})
}
