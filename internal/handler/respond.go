package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/outmind-app/outmind/internal/fault"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps the error taxonomy onto HTTP statuses.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case fault.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case fault.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case fault.IsPartial(err):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// parseIDParam coerces the string-typed {id} route parameter to an int64
// primary key.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
