package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	stripeapp "github.com/tbeaudouin05/otmens-intake/api/services/stripe/app"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", "err", err)
	}
}

// writeError maps app errors onto HTTP. Unknown errors are logged and
// answered with fallback so internals never reach the client.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var pe *stripeapp.ProcessorError
	if errors.As(err, &pe) {
		slog.Warn("stripe request failed", "op", pe.Op, "code", pe.Code, "status", pe.HTTPStatus(), "err", pe.Message)
		writeJSON(w, pe.HTTPStatus(), errorBody{Error: pe.Message, Code: pe.Code})
		return
	}
	var re *stripeapp.RequestError
	if errors.As(err, &re) {
		switch {
		case errors.Is(err, stripeapp.ErrConfig):
			slog.Error("configuration error", "err", re.Message)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: re.Message})
		default:
			writeJSON(w, http.StatusBadRequest, errorBody{Error: re.Message})
		}
		return
	}
	if errors.Is(err, stripeapp.ErrBadEvent) || errors.Is(err, stripeapp.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fallback})
		return
	}
	slog.Error("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: fallback})
}
