package server

import (
	"net/http"
	"strings"

	"github.com/playperu/lovequiz/internal/quiz"
)

type ShareRequest struct {
	ResultID  string `json:"resultId" validate:"required,uuid"`
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

type ShareResponse struct {
	Success   bool   `json:"success"`
	PublicURL string `json:"publicUrl"`
	Created   bool   `json:"created"`
}

// handleShare returns the public link for a result. Results are public by
// ID, so nothing is written and created is always false.
func handleShare(siteURL string) http.HandlerFunc {
	base := strings.TrimRight(siteURL, "/")
	return func(w http.ResponseWriter, r *http.Request) {
		var req ShareRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
			return
		}
		if err := quiz.Validate(&req); err != nil {
			writeValidationError(w, "invalid share request", err)
			return
		}

		writeJSON(w, http.StatusOK, ShareResponse{
			Success:   true,
			PublicURL: base + "/quiz/results/" + strings.ToLower(req.ResultID),
		})
	}
}
