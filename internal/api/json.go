package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/folio/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeResult writes a mutation result. A persistence warning still
// answers 200 and carries the message in the warning field.
func writeResult(w http.ResponseWriter, op string, data any, err error) {
	if err != nil && !apperr.IsWarning(err) {
		writeError(w, op, err)
		return
	}
	resp := MutationResponse{Data: data}
	if err != nil {
		resp.Warning = "change applied for this session only: " + err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotEditing):
		writeJSON(w, http.StatusConflict, errorBody("no active edit session"))
	case errors.Is(err, apperr.ErrSessionActive):
		writeJSON(w, http.StatusConflict, errorBody("edit session already active"))
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrIndexOutOfRange):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalidField), errors.Is(err, apperr.ErrInvalidValue),
		errors.Is(err, apperr.ErrMalformedData):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
