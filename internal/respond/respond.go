package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"procurement/internal/apperr"
)

type errorBody struct {
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error - единая точка превращения ошибки в ответ.
// Неизвестные ошибки логируются и отдаются клиенту без подробностей.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		JSON(w, http.StatusInternalServerError, errorBody{Message: "internal server error"})
		return
	}
	JSON(w, appErr.Status(), errorBody{Message: appErr.Message, Fields: appErr.Fields})
}
