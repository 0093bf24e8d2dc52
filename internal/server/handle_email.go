package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/lovequiz/internal/quiz"
)

type UpdateEmailRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

type UpdateEmailResponse struct {
	Success bool `json:"success"`
}

func handleUpdateEmail(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateEmailRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
			return
		}
		if err := quiz.Validate(&req); err != nil {
			writeValidationError(w, "invalid request payload", err)
			return
		}

		id := chi.URLParam(r, "id")
		err := store.UpdateResultEmail(r.Context(), id, req.SessionID, req.Email)
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrAccessDenied):
			// Missing and foreign results look the same to the caller.
			writeError(w, http.StatusForbidden, codeAccessDenied, "access denied")
			return
		case err != nil:
			logger.Error("saving email", "result_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, codeDatabase, "failed to save email")
			return
		}

		writeJSON(w, http.StatusOK, UpdateEmailResponse{Success: true})
	}
}
