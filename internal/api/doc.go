// Package api implements the HTTP REST API and WebSocket server for the
// dashboard.
//
// This package provides:
//   - REST endpoints for the resolved dashboard, per-view layouts at any
//     width, and entity history and timelines
//   - A document upload endpoint that replaces the Lovelace document
//   - WebSocket hub broadcasting "dashboard.updated" after every rebuild
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Graceful Degradation
//
// History endpoints answer 503 when no history service is configured; the
// dashboard endpoints only need the pipeline coordinator.
package api
