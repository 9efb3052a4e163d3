// Package lovelace parses Lovelace dashboard documents into the dashboard
// model.
//
// Documents arrive as JSON from the server or as YAML from disk. Each raw
// card is matched against a closed set of card kinds (entity, entities,
// stack, conditional, heading, static) plus an opaque kind for custom:*
// cards; anything else is skipped rather than failing the whole document.
//
// Stack recursion keeps the identities of the cards on the current path
// and stops at a fixed depth, so self-referential input terminates.
//
// # Usage
//
//	d, err := lovelace.ParseDocument(raw)
//	if errors.Is(err, lovelace.ErrMalformedInput) {
//	    // no views: fall back to a strategy or the default grid
//	}
//	view, _ := d.ViewAt(0)
//	cfg := lovelace.DashboardConfigFromView(view, dashboard.DefaultColumns)
package lovelace
