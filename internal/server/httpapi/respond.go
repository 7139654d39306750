// Package httpapi is the HTTP boundary: routing, identity resolution, the
// error-to-status adapter and response shaping. Handlers stay thin; decisions
// live in auth and the store operations in services.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/userdir/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeMappedErr is the single adapter from the typed error taxonomy to
// boundary status codes. Unmatched errors become an opaque 500; internal
// detail never leaves the process.
func writeMappedErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrMalformedToken):
		writeErr(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeErr(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrInvalidRole), errors.Is(err, common.ErrorInvalidArgument):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		writeErr(w, http.StatusForbidden, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrDuplicateUsername):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "unexpected failure")
	}
}
