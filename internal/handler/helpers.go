package handler

import (
	"encoding/json"
	"net/http"

	"adrelay/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the error kind to an HTTP status. The kind travels in the
// body so clients can branch without parsing the message text.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	var status int
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUnauthorized, apperr.KindPolicyDenied:
		status = http.StatusForbidden
	case apperr.KindDuplicateDelivery, apperr.KindAlreadyDelivered:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]string{
		"status": "error",
		"kind":   kind.String(),
		"error":  err.Error(),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "malformed request body"))
		return false
	}
	return true
}
