// Package registry holds the read-only view of the home that every dashboard
// computation works from: entity states, the area/device/floor registries and
// the raw entity registry records.
//
// A Snapshot is built once per registry push and never mutated afterwards.
// Consumers (the Lovelace parser, the strategy resolver and the layout
// pipeline) receive a *Snapshot and only read from it; producers build a new
// one with Clone or FromRecords and swap it in.
//
// # Area resolution
//
// An entity's area is resolved in this order:
//
//  1. the direct entity → area assignment
//  2. the entity's device → area assignment
//
// Anything that resolves to neither is "unassigned".
//
// # Usage
//
//	snap := registry.FromRecords(states, areas, devices, floors, entityRecords)
//	if areaID, ok := snap.AreaOf("light.kitchen"); ok {
//	    fmt.Println(snap.AreaName(areaID))
//	}
package registry
