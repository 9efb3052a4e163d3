package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-dashboard/internal/history"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

const (
	defaultHistoryHours = 24
	maxHistoryHours     = 24 * 30
	maxHistoryPoints    = 2000
	maxQueryParamLen    = 255
)

// historyResponse is the body of the history endpoint.
type historyResponse struct {
	EntityID string          `json:"entity_id"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Points   []history.Point `json:"points"`
	Count    int             `json:"count"`
}

// timelineResponse is the body of the timeline endpoint.
type timelineResponse struct {
	EntityID string            `json:"entity_id"`
	Start    time.Time         `json:"start"`
	End      time.Time         `json:"end"`
	Segments []history.Segment `json:"segments"`
}

// handleGetHistory returns a downsampled numeric series.
//
// Query parameters: hours (default 24, max 720) and points (default from
// config, max 2000).
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "history unavailable")
		return
	}
	entityID, ok := entityParam(w, r)
	if !ok {
		return
	}
	start, end, ok := s.historyWindow(w, r)
	if !ok {
		return
	}

	points := 0
	if raw := r.URL.Query().Get("points"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryPoints {
			writeBadRequest(w, "points must be between 1 and 2000")
			return
		}
		points = n
	}

	series, err := s.history.FetchHistory(r.Context(), entityID, start, end, points)
	if err != nil {
		s.writeHistoryError(w, entityID, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		EntityID: entityID,
		Start:    start,
		End:      end,
		Points:   series,
		Count:    len(series),
	})
}

// handleGetTimeline returns the state segments of an entity.
func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "history unavailable")
		return
	}
	entityID, ok := entityParam(w, r)
	if !ok {
		return
	}
	start, end, ok := s.historyWindow(w, r)
	if !ok {
		return
	}

	segments, err := s.history.FetchTimeline(r.Context(), entityID, start, end)
	if err != nil {
		s.writeHistoryError(w, entityID, err)
		return
	}
	writeJSON(w, http.StatusOK, timelineResponse{
		EntityID: entityID,
		Start:    start,
		End:      end,
		Segments: segments,
	})
}

// handleClearHistoryCache drops every cached series.
func (s *Server) handleClearHistoryCache(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "history unavailable")
		return
	}
	if err := s.history.ClearCache(r.Context()); err != nil {
		s.logger.Error("failed to clear history cache", "error", err)
		writeInternalError(w, "failed to clear history cache")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entityParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	entityID := chi.URLParam(r, "entity_id")
	if len(entityID) > maxQueryParamLen || registry.ValidateEntityID(entityID) != nil {
		writeBadRequest(w, "invalid entity ID")
		return "", false
	}
	return entityID, true
}

// historyWindow resolves ?hours= into a window ending now. The end is
// truncated to the minute so repeated requests share cache entries.
func (s *Server) historyWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	hours := defaultHistoryHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryHours {
			writeBadRequest(w, "hours must be between 1 and 720")
			return time.Time{}, time.Time{}, false
		}
		hours = n
	}
	end := s.now().UTC().Truncate(time.Minute)
	return end.Add(-time.Duration(hours) * time.Hour), end, true
}

func (s *Server) writeHistoryError(w http.ResponseWriter, entityID string, err error) {
	switch {
	case errors.Is(err, registry.ErrInvalidEntityID), errors.Is(err, history.ErrInvalidRange):
		writeBadRequest(w, err.Error())
	case errors.Is(err, history.ErrNoSource):
		writeUnavailable(w, "history unavailable")
	default:
		s.logger.Error("history query failed", "entity_id", entityID, "error", err)
		writeInternalError(w, "failed to load history")
	}
}
