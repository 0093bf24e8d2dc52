package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/lovequiz/internal/quiz"
)

type ResultView struct {
	ID            string               `json:"id"`
	ArchetypeSlug string               `json:"archetypeSlug"`
	Archetype     quiz.ArchetypePublic `json:"archetype"`
	Scores        quiz.DBScores        `json:"scores"`
	Confidence    float64              `json:"confidence"`
	IsBalanced    bool                 `json:"isBalanced"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type ResultResponse struct {
	Success bool       `json:"success"`
	Result  ResultView `json:"result"`
}

// handleGetResult returns a stored result. The classification is recomputed
// from the stored scores rather than trusted from the row.
func handleGetResult(logger *slog.Logger, store Store, engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		res, err := store.Result(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "result not found")
			return
		}
		if err != nil {
			logger.Error("loading result", "result_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, codeDatabase, "database error")
			return
		}

		if session := r.Header.Get(sessionHeader); session != "" && session != res.SessionID {
			writeError(w, http.StatusForbidden, codeAccessDenied, "access denied")
			return
		}

		scores, err := quiz.ParseDBScores(res.Scores)
		if err != nil {
			logger.Error("stored scores failed validation", "result_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, codeInternal, "stored result is corrupt")
			return
		}

		c := engine.ClassifyResults(scores.Results())
		if c.Archetype.ID != res.ArchetypeSlug {
			logger.Warn("stored archetype differs from recomputed",
				"result_id", id,
				"stored", res.ArchetypeSlug,
				"recomputed", c.Archetype.ID,
			)
		}

		writeJSON(w, http.StatusOK, ResultResponse{
			Success: true,
			Result: ResultView{
				ID:            res.ID,
				ArchetypeSlug: res.ArchetypeSlug,
				Archetype:     c.Archetype,
				Scores:        scores,
				Confidence:    c.Confidence,
				IsBalanced:    c.IsBalanced,
				CreatedAt:     res.CreatedAt,
			},
		})
	}
}
