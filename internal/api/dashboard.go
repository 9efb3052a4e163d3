package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-dashboard/internal/lovelace"
	"github.com/nerrad567/gray-logic-dashboard/internal/pipeline"
)

// maxLayoutWidth caps the width query parameter.
const maxLayoutWidth = 16384

// handleGetDashboard returns the full current result.
func (s *Server) handleGetDashboard(w http.ResponseWriter, _ *http.Request) {
	res := s.coord.Current()
	if res == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeNotBuilt, "dashboard not built yet")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleGetSummary returns the current result without placements.
func (s *Server) handleGetSummary(w http.ResponseWriter, _ *http.Request) {
	res := s.coord.Current()
	if res == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeNotBuilt, "dashboard not built yet")
		return
	}
	writeJSON(w, http.StatusOK, pipeline.Summarize(res))
}

// handlePutDashboard replaces the Lovelace document with the request
// body (JSON or YAML). A rejected document leaves the current one in place.
func (s *Server) handlePutDashboard(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "document too large")
			return
		}
		writeBadRequest(w, "failed to read request body")
		return
	}
	if len(body) == 0 {
		writeBadRequest(w, "document body is required")
		return
	}

	res, err := s.coord.UpdateDocument(body)
	if err != nil {
		if errors.Is(err, lovelace.ErrMalformedInput) {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
			return
		}
		writeInternalError(w, "failed to apply document")
		return
	}

	if s.documents != nil {
		if err := s.documents.SaveDocument(r.Context(), s.dashboard, body); err != nil {
			s.logger.Error("failed to persist uploaded document", "error", err)
		}
	}

	s.logger.Info("dashboard document replaced",
		"generation", res.Generation, "views", len(res.Views), "bytes", len(body))
	writeJSON(w, http.StatusOK, pipeline.Summarize(res))
}

// handleDeleteDashboard drops the Lovelace document so the fallback
// strategy or default grid takes over.
func (s *Server) handleDeleteDashboard(w http.ResponseWriter, r *http.Request) {
	res := s.coord.ClearDocument()
	if s.documents != nil {
		if err := s.documents.DeleteDocument(r.Context(), s.dashboard); err != nil {
			s.logger.Error("failed to delete persisted document", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, pipeline.Summarize(res))
}

// handleGetView returns one view as laid out for the configured width.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	s.writeViewLayout(w, r, 0)
}

// handleGetViewLayout lays out one view for the ?width= query parameter.
func (s *Server) handleGetViewLayout(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("width")
	if raw == "" {
		writeBadRequest(w, "width is required")
		return
	}
	width, err := strconv.ParseFloat(raw, 64)
	if err != nil || width <= 0 || width > maxLayoutWidth {
		writeBadRequest(w, "width must be a number between 1 and 16384")
		return
	}
	s.writeViewLayout(w, r, width)
}

func (s *Server) writeViewLayout(w http.ResponseWriter, r *http.Request, width float64) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeBadRequest(w, "invalid view index")
		return
	}

	vl, err := s.coord.LayoutView(index, width)
	switch {
	case errors.Is(err, pipeline.ErrNotBuilt):
		writeError(w, http.StatusServiceUnavailable, ErrCodeNotBuilt, "dashboard not built yet")
	case errors.Is(err, pipeline.ErrViewNotFound):
		writeNotFound(w, "view not found")
	case err != nil:
		writeInternalError(w, "failed to lay out view")
	default:
		writeJSON(w, http.StatusOK, vl)
	}
}
