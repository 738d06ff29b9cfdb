package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Response is the uniform envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

// writeError maps the error taxonomy onto status codes and messages.
// Internal errors keep their diagnostic detail in the message; nothing else
// leaks past the boundary.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeFail(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, common.ErrorConflict):
		writeFail(w, http.StatusBadRequest, "username or email already in use")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorInvalidToken):
		writeFail(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		writeFail(w, http.StatusNotFound, "file not found")
	default:
		writeFail(w, http.StatusInternalServerError, "an error occurred: "+err.Error())
	}
}
