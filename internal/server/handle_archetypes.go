package server

import (
	"net/http"

	"github.com/playperu/lovequiz/internal/quiz"
)

type GridResponse struct {
	Cells []quiz.GridCell `json:"cells"`
}

func handleListArchetypes() http.HandlerFunc {
	archetypes := quiz.PublicArchetypes()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, archetypes)
	}
}

func handleArchetypeGrid() http.HandlerFunc {
	resp := GridResponse{Cells: quiz.Grid().Cells()}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
