package pipeline

import (
	"time"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/layout"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

// Source records which input produced a Result.
type Source string

const (
	// SourceDocument is a Lovelace document with explicit views.
	SourceDocument Source = "document"
	// SourceStrategy is a document whose views come from its strategy.
	SourceStrategy Source = "strategy"
	// SourceNative is a native dashboard config file.
	SourceNative Source = "native"
	// SourceFallback is the configured fallback strategy.
	SourceFallback Source = "fallback"
	// SourceDefault is the built-in grid of every visible entity.
	SourceDefault Source = "default"
)

// Result is one published build. It is never modified after publication.
type Result struct {
	Generation uint64               `json:"generation"`
	Source     Source               `json:"source"`
	Dashboard  *dashboard.Dashboard `json:"dashboard"`
	Views      []ViewLayout         `json:"views"`
	BuiltAt    time.Time            `json:"built_at"`

	snap *registry.Snapshot
}

// ViewLayout is one view's resolved config and placements.
type ViewLayout struct {
	Index      int                `json:"index"`
	Title      string             `json:"title,omitempty"`
	Path       string             `json:"path,omitempty"`
	Layout     dashboard.Layout   `json:"layout"`
	Config     *dashboard.Config  `json:"config"`
	Width      float64            `json:"width"`
	Columns    int                `json:"columns"`
	Placements []layout.Placement `json:"placements"`
}

// View returns the layout at index.
func (r *Result) View(index int) (ViewLayout, bool) {
	if r == nil || index < 0 || index >= len(r.Views) {
		return ViewLayout{}, false
	}
	return r.Views[index], true
}

// Snapshot returns the registry snapshot the result was built from.
func (r *Result) Snapshot() *registry.Snapshot {
	if r == nil {
		return nil
	}
	return r.snap
}
