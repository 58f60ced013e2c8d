// Package respond writes the JSON envelopes shared by every handler.
package respond

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/validation"
	"github.com/gorilla/mux"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": errorType, "message": message}.
func Error(w http.ResponseWriter, status int, errorType, message string) {
	JSON(w, status, map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}

// Validation writes a 400 listing every failing field.
func Validation(w http.ResponseWriter, errs validation.Errors) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "validation_error",
		"message": errs.Error(),
		"fields":  errs,
	})
}

// Decode reads a JSON body into dst, writing a 400 and returning false on failure.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return false
	}
	return true
}

// PathID parses the numeric route variable key, writing a 400 and returning false when invalid.
func PathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id < 1 {
		Error(w, http.StatusBadRequest, "invalid_id", key+" must be a positive integer")
		return 0, false
	}
	return id, true
}
