package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/playperu/lovequiz/internal/quiz"
)

// maxBodyBytes bounds request bodies. A full submission is well under 16 KiB.
const maxBodyBytes = 1 << 20

// Error codes carried in ErrorResponse.ErrorCode.
const (
	codeValidation          = "VALIDATION_ERROR"
	codeInvalidSession      = "INVALID_SESSION"
	codeFingerprintMismatch = "FINGERPRINT_MISMATCH"
	codeDatabase            = "DATABASE_ERROR"
	codeInternal            = "INTERNAL_ERROR"
	codeNotFound            = "NOT_FOUND"
	codeAccessDenied        = "ACCESS_DENIED"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode,omitempty"`

	Fields []quiz.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, b []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, ErrorCode: code})
}

// writeValidationError reports a rejected payload with its field list.
func writeValidationError(w http.ResponseWriter, msg string, err error) {
	resp := ErrorResponse{Error: msg, ErrorCode: codeValidation}
	var verr *quiz.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSON(w, http.StatusBadRequest, resp)
}
