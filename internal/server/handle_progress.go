package server

import (
	"net/http"

	"github.com/playperu/lovequiz/internal/quiz"
)

type ProgressRequest struct {
	Answers quiz.DBAnswerMap `json:"answers"`
}

func handleProgress(engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProgressRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
			return
		}
		if err := quiz.ValidateAnswers(req.Answers); err != nil {
			writeValidationError(w, "invalid answers", err)
			return
		}

		writeJSON(w, http.StatusOK, engine.Preview(req.Answers))
	}
}
