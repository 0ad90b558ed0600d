package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"go.uber.org/zap"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeError maps service errors to a status code. Anything unrecognised is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeDetail(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, domain.ErrInvalidFormID), errors.Is(err, domain.ErrInvalidAnswer):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrFormNotFound):
		writeDetail(w, http.StatusNotFound, domain.ErrFormNotFound.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeDetail(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeDetail(w, http.StatusConflict, domain.ErrEmailTaken.Error())
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeDetail(w, http.StatusInternalServerError, domain.ErrInternal.Error())
	}
}
