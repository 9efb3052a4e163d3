// Package pipeline turns the latest registry snapshot and Lovelace document
// into a laid-out dashboard.
//
// A Coordinator owns the inputs. Every update bumps a generation counter
// and rebuilds: parse the document (or resolve its strategy, or the
// configured fallback strategy, or a default grid of every visible
// entity), convert each view to a dashboard.Config and place its cards
// with the view's layout engine. Builds run outside the lock; a build that
// finishes after a newer one has been published is discarded.
package pipeline
