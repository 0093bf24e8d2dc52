package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/lovequiz/internal/quiz"
)

type SubmitResponse struct {
	Success       bool          `json:"success"`
	ResultID      string        `json:"resultId"`
	ArchetypeSlug string        `json:"archetypeSlug"`
	Scores        quiz.DBScores `json:"scores"`
	Confidence    float64       `json:"confidence"`
	IsBalanced    bool          `json:"isBalanced"`
}

// handleComplete scores and stores a finished quiz. Retries carrying the same
// session, fingerprint and answers resolve to the originally stored result.
func handleComplete(logger *slog.Logger, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
			return
		}

		req, err := quiz.DecodeSubmitRequest(body)
		if err != nil {
			logger.Warn("submission rejected", "error", err)
			writeValidationError(w, "invalid request payload", err)
			return
		}

		key := quiz.IdempotencyKey(req.SessionID, req.FingerprintHash, req.Answers)

		cached, ok, err := deps.Replay.Get(ctx, key)
		if err != nil {
			logger.Warn("replay cache unavailable", "error", err)
		}
		if ok {
			logger.Info("submission served from replay cache", "session_id", req.SessionID)
			writeRawJSON(w, http.StatusOK, cached)
			return
		}

		if err := deps.Store.VerifySession(ctx, req.SessionID, req.FingerprintHash); err != nil {
			writeStoreError(w, logger, err)
			return
		}

		scored := deps.Engine.Score(req.Answers)
		scores := scored.Results.DBScores()

		id, err := deps.Store.InsertResult(ctx, NewResult{
			SessionID:       req.SessionID,
			FingerprintHash: req.FingerprintHash,
			ArchetypeSlug:   scored.ArchetypeSlug(),
			Scores:          scores,
			Answers:         req.Answers,
			Email:           req.Email,
			DurationSeconds: req.DurationSeconds,
			IdempotencyKey:  key,
			UTMSource:       req.UTMSource,
			UTMMedium:       req.UTMMedium,
			UTMCampaign:     req.UTMCampaign,
		})
		if errors.Is(err, ErrDuplicate) {
			id, err = deps.Store.ResultIDByIdempotencyKey(ctx, key)
			if err != nil {
				logger.Error("replay lookup failed", "error", err)
				writeError(w, http.StatusInternalServerError, codeDatabase, "failed to load stored result")
				return
			}
			logger.Info("duplicate submission replayed", "result_id", id)
		} else if err != nil {
			writeStoreError(w, logger, err)
			return
		}

		payload, err := json.Marshal(SubmitResponse{
			Success:       true,
			ResultID:      id,
			ArchetypeSlug: scored.ArchetypeSlug(),
			Scores:        scores,
			Confidence:    scored.Confidence,
			IsBalanced:    scored.IsBalanced,
		})
		if err != nil {
			logger.Error("encoding submission response", "error", err)
			writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
			return
		}

		if err := deps.Replay.Set(ctx, key, payload); err != nil {
			logger.Warn("replay cache write failed", "error", err)
		}

		writeRawJSON(w, http.StatusOK, payload)
	}
}

func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidSession):
		writeError(w, http.StatusBadRequest, codeInvalidSession, "invalid or expired session")
	case errors.Is(err, ErrFingerprintMismatch):
		writeError(w, http.StatusBadRequest, codeFingerprintMismatch, "session does not belong to this device")
	default:
		logger.Error("store error", "error", err)
		writeError(w, http.StatusInternalServerError, codeDatabase, "database error")
	}
}
