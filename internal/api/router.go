package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each component check of the health endpoint.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", s.handleGetDashboard)
			r.Put("/", s.handlePutDashboard)
			r.Delete("/", s.handleDeleteDashboard)
			r.Get("/summary", s.handleGetSummary)
		})

		r.Route("/views/{index}", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Get("/layout", s.handleGetViewLayout)
		})

		r.Get("/history/{entity_id}", s.handleGetHistory)
		r.Get("/timeline/{entity_id}", s.handleGetTimeline)
		r.Delete("/history/cache", s.handleClearHistoryCache)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth reports the server version and the state of every
// registered component. Any failing component makes the response 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]string, len(s.health))
	healthy := true
	for name, checker := range s.health {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := checker.HealthCheck(ctx)
		cancel()
		if err != nil {
			components[name] = err.Error()
			healthy = false
			continue
		}
		components[name] = "ok"
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	body := map[string]any{
		"status":     status,
		"version":    s.version,
		"components": components,
		"ws_clients": s.hub.ClientCount(),
	}
	if res := s.coord.Current(); res != nil {
		body["generation"] = res.Generation
	}
	writeJSON(w, code, body)
}
