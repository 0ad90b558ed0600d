package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/export"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
	"go.uber.org/zap"
)

type ResponseHandler struct {
	service ports.ResponseService
	metrics *Metrics
	log     *zap.Logger
}

func NewResponseHandler(service ports.ResponseService, metrics *Metrics, log *zap.Logger) *ResponseHandler {
	return &ResponseHandler{
		service: service,
		metrics: metrics,
		log:     log,
	}
}

type submitResponse struct {
	ID uuid.UUID `json:"id"`
}

// SubmitResponse godoc
// @Summary      Submits a response to a public form
// @Tags         responses
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      404
// @Failure      429
// @Router       /responses [post]
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FormID == uuid.Nil {
		writeDetail(w, http.StatusBadRequest, domain.ErrInvalidFormID.Error())
		return
	}

	resp, err := h.service.Submit(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.metrics.submitted()

	writeJSON(w, http.StatusCreated, submitResponse{ID: resp.ID})
}

func (h *ResponseHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "missing user context")
		return
	}

	_, responses, err := h.service.ListResponses(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, responses)
}

// ExportCSV serves every response of a form as a CSV attachment.
func (h *ResponseHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "missing user context")
		return
	}

	form, responses, err := h.service.ListResponses(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	body, err := export.ResponsesCSV(form, responses, export.Options{})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(form)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
