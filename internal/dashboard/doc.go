// Package dashboard defines the normalized dashboard model: dashboards made
// of views, views laid out as sections, and sections made of items.
//
// Model values are snapshots. The parser and strategy resolver build a new
// Dashboard or Config for every input push; nothing mutates a published
// value. Derived fields (Section.EntityIDs, Config.StrategyType) are
// recomputed by Normalize and are never maintained by hand.
//
// Besides the Lovelace-derived model, the package reads a native config
// format (JSON or YAML) and can build a fallback grid of all entities with
// DefaultConfig.
package dashboard
