package quiz

// ScoredQuiz is the outcome of scoring one answer map.
type ScoredQuiz struct {
	Responses  []QuizResponse
	Results    QuizResults
	Archetype  ArchetypePublic
	Confidence float64
	IsBalanced bool
}

// ArchetypeSlug is the archetype ID stored alongside the result.
func (s ScoredQuiz) ArchetypeSlug() string { return s.Archetype.ID }

// Score runs the full pipeline: deserialize, score all six dimensions and
// classify. It is safe on partial answer maps.
func (e *Engine) Score(answers DBAnswerMap) ScoredQuiz {
	responses := Deserialize(answers).Responses()
	results := CalculateAllResults(responses)
	c := e.ClassifyResults(results)
	return ScoredQuiz{
		Responses:  responses,
		Results:    results,
		Archetype:  c.Archetype,
		Confidence: c.Confidence,
		IsBalanced: c.IsBalanced,
	}
}

// ClassifyResults classifies from the attachment and communication scores
// only. Primary fields are ignored.
func (e *Engine) ClassifyResults(r QuizResults) Classification {
	return e.Classify(r.Attachment.Scores, r.Communication.Scores)
}
