package http

import (
	"net/http"

	"github.com/vncsmyrnk/eforms/internal/core/ports"
	"go.uber.org/zap"
)

type UserHandler struct {
	service ports.UserService
	log     *zap.Logger
}

func NewUserHandler(service ports.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "missing user context")
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
