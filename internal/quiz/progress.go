package quiz

// Progress is a live preview of a quiz in flight.
type Progress struct {
	CompletionPercentage int         `json:"completionPercentage"`
	Complete             bool        `json:"complete"`
	Scores               QuizResults `json:"scores"`
	ArchetypeSlug        string      `json:"archetypeSlug,omitempty"`
}

// Preview scores a partial answer map. The archetype is only revealed once
// every question has been answered.
func (e *Engine) Preview(answers DBAnswerMap) Progress {
	state := Deserialize(answers)
	p := Progress{
		CompletionPercentage: CompletionPercentage(state),
		Complete:             IsQuizComplete(state),
		Scores:               CalculateAllResults(state.Responses()),
	}
	if p.Complete {
		p.ArchetypeSlug = e.ClassifyResults(p.Scores).Archetype.ID
	}
	return p
}
