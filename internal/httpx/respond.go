package httpx

import (
	"encoding/json"
	"net/http"

	"tokoline-be/internal/apperror"
	"tokoline-be/internal/logger"

	"go.uber.org/zap"
)

var kindStatus = map[apperror.Kind]int{
	apperror.Validation:    http.StatusBadRequest,
	apperror.NotFound:      http.StatusNotFound,
	apperror.Conflict:      http.StatusConflict,
	apperror.External:      http.StatusBadGateway,
	apperror.UnknownStatus: http.StatusBadRequest,
	apperror.Internal:      http.StatusInternalServerError,
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

func respondError(w http.ResponseWriter, r *http.Request, err error, production bool) {
	kind := apperror.KindOf(err)
	status := kindStatus[kind]
	if status == 0 {
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if kind == apperror.Internal {
		logger.FromCtx(r.Context()).Error("unexpected error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		if production {
			message = "internal server error"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.New(apperror.Validation, "invalid JSON payload")
	}
	return nil
}
