// Package strategy generates dashboards from the registries when the server
// supplies a strategy marker instead of an explicit layout.
//
// Two generators are supported:
//
//   - original-states: a single masonry view with one entities card per
//     area (area-name order) and a trailing Unassigned card.
//   - home: one sections view per floor, lowest level first, plus a view
//     for areas without a floor. Each area becomes one section.
//
// Within an area, entities are ordered by a declared domain table
// (DefaultDomainOrder, overridable through Options) and then by entity ID.
// Every grouping step sorts explicitly, so identical snapshots always
// produce identical dashboards.
//
// Generated views carry synthesized Lovelace cards and go through the same
// lovelace conversion as server-supplied documents.
package strategy
