package quiz

import "sort"

// Serialize compacts an AnswerState to its storage form. Likert answers keep
// v, scenario answers keep k; an entry carrying neither is dropped.
func Serialize(state AnswerState) DBAnswerMap {
	out := make(DBAnswerMap, len(state))
	for id, a := range state {
		entry := DBAnswer{T: a.Timestamp, K: a.SelectedKey}
		if a.Value > 0 {
			v := a.Value
			entry.V = &v
		}
		if entry.V == nil && entry.K == "" {
			continue
		}
		out[id] = entry
	}
	return out
}

// Deserialize expands a stored answer map. A nil map yields an empty state.
func Deserialize(m DBAnswerMap) AnswerState {
	state := make(AnswerState, len(m))
	for id, e := range m {
		a := Answer{Timestamp: e.T, SelectedKey: e.K}
		if e.V != nil {
			a.Value = *e.V
		}
		state[id] = a
	}
	return state
}

// Responses adapts the state for the scorers, ordered by question ID.
func (s AnswerState) Responses() []QuizResponse {
	out := make([]QuizResponse, 0, len(s))
	for id, a := range s {
		out = append(out, QuizResponse{
			QuestionID:  id,
			Value:       a.Value,
			SelectedKey: a.SelectedKey,
			Timestamp:   a.Timestamp,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

// StateFromResponses is the inverse of Responses. Later duplicates win.
func StateFromResponses(responses []QuizResponse) AnswerState {
	state := make(AnswerState, len(responses))
	for _, r := range responses {
		state[r.QuestionID] = Answer{Value: r.Value, Timestamp: r.Timestamp, SelectedKey: r.SelectedKey}
	}
	return state
}
