package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
	"go.uber.org/zap"
)

type FormHandler struct {
	service   ports.FormService
	analytics ports.AnalyticsService
	log       *zap.Logger
}

func NewFormHandler(service ports.FormService, analytics ports.AnalyticsService, log *zap.Logger) *FormHandler {
	return &FormHandler{
		service:   service,
		analytics: analytics,
		log:       log,
	}
}

type formRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []domain.Question `json:"questions"`
}

// publicForm is what anonymous respondents see of a form.
type publicForm struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []domain.Question `json:"questions"`
}

func (h *FormHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.service.Create(r.Context(), ports.CreateFormInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, form)
}

func (h *FormHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.service.Update(r.Context(), ports.UpdateFormInput{
		ID:          chi.URLParam(r, "id"),
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "missing user context")
		return
	}

	form, err := h.service.GetForm(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// GetPublicForm godoc
// @Summary      Fetches a form for respondents
// @Description  No authentication. Timestamps and the owner are left out.
// @Tags         forms
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /forms/public/{id} [get]
func (h *FormHandler) GetPublicForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.service.GetPublicForm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, publicForm{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		Questions:   form.Questions,
	})
}

func (h *FormHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "missing user context")
		return
	}

	analytics, err := h.analytics.GetAnalytics(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}
