// Package feed connects the MQTT topic tree to the dashboard pipeline.
//
// Registry payloads ({prefix}/registry/{kind}) replace one registry kind
// wholesale; state messages ({prefix}/state/{entity_id}) patch a single
// entity. Both mark the snapshot dirty, and a debounce timer folds bursts
// into one rebuild. Lovelace documents ({prefix}/lovelace/{dashboard}) go
// straight to the coordinator.
//
// Accepted registry payloads and documents are persisted so the dashboard
// can be rebuilt at boot before the broker replays retained messages.
// State changes are optionally recorded for history queries, and every
// published build is summarised on {prefix}/dashboard/resolved.
package feed
