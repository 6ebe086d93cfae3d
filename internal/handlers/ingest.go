package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// IngestMatch handles POST /api/v1/ingest/matches. It pulls the match
// from the provider synchronously; the optional analysis runs async on
// the worker pool.
func (h *Handler) IngestMatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.IngestMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	match, created, err := h.ingestor.IngestMatch(r.Context(), req.ProviderMatchID)
	if err != nil {
		h.logger.Errorw("Match ingestion failed", "provider_id", req.ProviderMatchID, "error", err)
		h.errorResponse(w, http.StatusBadGateway, "Ingestion failed")
		return
	}

	resp := models.IngestMatchResponse{
		MatchID: match.ID.String(),
		Created: created,
	}
	if req.Analyze {
		resp.Analysis = "queued"
		if !h.pool.Enqueue(match.ID) {
			h.logger.Warnw("Analysis queue full", "match", match.ID)
			resp.Analysis = "queue_full"
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.jsonResponse(w, status, resp)
}
