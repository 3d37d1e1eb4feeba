package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

// Envelope is the JSON body written by dispatch handlers.
type Envelope struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Data   any    `json:"data"`
}

// WriteJSON writes data with status 200 inside an Envelope.
func WriteJSON(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, Envelope{Status: http.StatusOK, Msg: "ok", Data: data})
}

// WriteError writes err as an Envelope with the matching HTTP status.
// MethodNotAllowedError also sets the Allow header.
func WriteError(w http.ResponseWriter, err error) {
	code := StatusFromError(err)

	var mna *util.MethodNotAllowedError
	if errors.As(err, &mna) && len(mna.Allowed) > 0 {
		w.Header().Set("Allow", strings.Join(mna.Allowed, ", "))
	}

	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = http.StatusText(code)
	}

	writeEnvelope(w, code, Envelope{Status: code, Msg: msg})
}

// StatusFromError maps the error taxonomy to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, util.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, util.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, util.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeEnvelope(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}
