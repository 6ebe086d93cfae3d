package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GetMatch handles GET /api/v1/matches/{id}
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid match id")
		return
	}

	match, err := h.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		h.logger.Errorw("Match lookup failed", "match", matchID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Lookup failed")
		return
	}
	if match == nil {
		h.errorResponse(w, http.StatusNotFound, "Match not found")
		return
	}

	h.jsonResponse(w, http.StatusOK, match)
}

// AnalyzeMatch handles POST /api/v1/matches/{id}/analyze. The analysis
// itself runs on the worker pool; the response only acknowledges the
// enqueue.
func (h *Handler) AnalyzeMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid match id")
		return
	}

	match, err := h.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		h.logger.Errorw("Match lookup failed", "match", matchID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Lookup failed")
		return
	}
	if match == nil {
		h.errorResponse(w, http.StatusNotFound, "Match not found")
		return
	}

	if !h.pool.Enqueue(matchID) {
		h.errorResponse(w, http.StatusServiceUnavailable, "Analysis queue full")
		return
	}

	h.jsonResponse(w, http.StatusAccepted, map[string]string{
		"status":   "queued",
		"match_id": matchID.String(),
	})
}

// GetMatchInsights handles GET /api/v1/matches/{id}/insights
func (h *Handler) GetMatchInsights(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid match id")
		return
	}

	insights, err := h.insights.ListInsights(r.Context(), matchID)
	if err != nil {
		h.logger.Errorw("Insight lookup failed", "match", matchID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Lookup failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"match_id": matchID.String(),
		"insights": insights,
	})
}
