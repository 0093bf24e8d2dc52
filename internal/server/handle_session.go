package server

import (
	"log/slog"
	"net/http"
	"strings"
)

type CreateSessionRequest struct {
	FingerprintHash   string `json:"fingerprintHash"`
	ExistingSessionID string `json:"existingSessionId,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

func handleCreateSession(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
			return
		}

		req.FingerprintHash = strings.TrimSpace(req.FingerprintHash)
		if req.FingerprintHash == "" {
			writeError(w, http.StatusBadRequest, codeValidation, "fingerprintHash is required")
			return
		}

		id, err := store.CreateSession(r.Context(), req.FingerprintHash, req.ExistingSessionID)
		if err != nil {
			logger.Error("session creation failed", "error", err)
			writeError(w, http.StatusInternalServerError, codeDatabase, "session creation failed")
			return
		}

		writeJSON(w, http.StatusOK, CreateSessionResponse{SessionID: id})
	}
}
