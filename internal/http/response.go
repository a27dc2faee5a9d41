package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
}

// validationErrors are reported to the caller verbatim with 422.
var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidMonth,
	core.ErrInvalidYear,
	core.ErrEmptyTitle,
	core.ErrEmptyCategory,
	core.ErrEmptyGoalName,
	core.ErrInvalidTarget,
	core.ErrTitleTooLong,
	core.ErrUnknownLabel,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to status codes. Internal errors are
// logged and hidden from the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err.Error(),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidPeriod), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}
