package quiz

import (
	"math"
	"sort"
)

// tally accumulates effective likert values for one target.
type tally struct {
	sum float64
	n   int
}

func (t tally) mean() float64 { return t.sum / float64(t.n) }

// normalizeScore maps a 1-5 value onto 0-100.
func normalizeScore(raw float64) float64 {
	return clampPercent(math.Round((raw - 1) / 4 * 100))
}

func clampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// effectiveValue applies reverse scoring.
func effectiveValue(q Question, v int) float64 {
	if q.Reverse {
		return float64(6 - v)
	}
	return float64(v)
}

// answered yields each catalog question of the section with its first
// type-correct response.
func answered(responses []QuizResponse, section Section, fn func(Question, QuizResponse)) {
	seen := make(map[string]bool)
	for _, r := range responses {
		if seen[r.QuestionID] {
			continue
		}
		q, ok := QuestionByID(r.QuestionID)
		if !ok || q.Target.Section != section {
			continue
		}
		if !q.accepts(Answer{Value: r.Value, SelectedKey: r.SelectedKey}) {
			continue
		}
		seen[r.QuestionID] = true
		fn(q, r)
	}
}

// tallyLikert sums the effective likert values per target in a section.
func tallyLikert(responses []QuizResponse, section Section) map[Target]tally {
	out := make(map[Target]tally)
	answered(responses, section, func(q Question, r QuizResponse) {
		if q.Type != Likert || q.Unscored {
			return
		}
		t := out[q.Target]
		t.sum += effectiveValue(q, r.Value)
		t.n++
		out[q.Target] = t
	})
	return out
}

func scoreOf(tallies map[Target]tally, target Target) float64 {
	t, ok := tallies[target]
	if !ok || t.n == 0 {
		return 0
	}
	return normalizeScore(t.mean())
}

// ScoreAttachment scores the four attachment dimensions.
func ScoreAttachment(responses []QuizResponse) AttachmentResult {
	tallies := tallyLikert(responses, SectionAttachment)

	var scores AttachmentScores
	for _, d := range AttachmentDimensions {
		scores.set(d, scoreOf(tallies, Target{Section: SectionAttachment, Category: string(d)}))
	}
	return AttachmentResult{
		Scores:  scores,
		Primary: derivePrimary(AttachmentDimensions, scores.Get),
	}
}

// ScoreCommunication scores the four communication styles. A scenario
// answer adds its option bonus on top of the likert score, capped at 100.
func ScoreCommunication(responses []QuizResponse) CommunicationResult {
	tallies := tallyLikert(responses, SectionCommunication)

	var scores CommunicationScores
	for _, s := range CommunicationStyles {
		scores.set(s, scoreOf(tallies, Target{Section: SectionCommunication, Category: string(s)}))
	}

	answered(responses, SectionCommunication, func(q Question, r QuizResponse) {
		if q.Type != Scenario {
			return
		}
		opt, _ := q.Option(r.SelectedKey)
		style := CommunicationStyle(opt.Target.Category)
		scores.set(style, clampPercent(scores.Get(style)+opt.Bonus))
	})

	return CommunicationResult{
		Scores:  scores,
		Primary: derivePrimary(CommunicationStyles, scores.Get),
	}
}

// ScoreConfidence returns dating confidence in 0-100.
func ScoreConfidence(responses []QuizResponse) float64 {
	return scoreOf(tallyLikert(responses, SectionConfidence), Target{Section: SectionConfidence})
}

// ScoreEmotionalAvailability returns emotional availability in 0-100.
func ScoreEmotionalAvailability(responses []QuizResponse) float64 {
	return scoreOf(tallyLikert(responses, SectionEmotional), Target{Section: SectionEmotional})
}

func ScoreIntimacy(responses []QuizResponse) IntimacyResult {
	tallies := tallyLikert(responses, SectionIntimacy)
	return IntimacyResult{
		Comfort:    scoreOf(tallies, Target{Section: SectionIntimacy, Category: string(Comfort)}),
		Boundaries: scoreOf(tallies, Target{Section: SectionIntimacy, Category: string(Boundary)}),
	}
}

// ScoreLoveLanguages scores giving and receiving per language. The combined
// score is the normalized mean of both directions; Ranked orders languages by
// combined score, keeping catalog order among equals.
func ScoreLoveLanguages(responses []QuizResponse) LoveLanguageResult {
	tallies := tallyLikert(responses, SectionLoveLanguage)

	var (
		scores      LoveLanguageScores
		giveReceive GiveReceiveScores
	)
	for _, l := range LoveLanguages {
		give := Target{Section: SectionLoveLanguage, Category: string(l), Direction: Give}
		receive := Target{Section: SectionLoveLanguage, Category: string(l), Direction: Receive}

		giveReceive.set(l, GiveReceive{
			Give:    scoreOf(tallies, give),
			Receive: scoreOf(tallies, receive),
		})

		combined := tallies[give]
		combined.sum += tallies[receive].sum
		combined.n += tallies[receive].n
		if combined.n > 0 {
			scores.set(l, normalizeScore(combined.mean()))
		}
	}

	ranked := make([]LoveLanguage, len(LoveLanguages))
	copy(ranked, LoveLanguages)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores.Get(ranked[i]) > scores.Get(ranked[j])
	})

	return LoveLanguageResult{Ranked: ranked, Scores: scores, GiveReceive: giveReceive}
}

// CalculateAllResults runs all six scorers. It is safe on partial answer
// sets, so it also serves progress previews.
func CalculateAllResults(responses []QuizResponse) QuizResults {
	return QuizResults{
		Attachment:    ScoreAttachment(responses),
		Communication: ScoreCommunication(responses),
		Confidence:    ScoreConfidence(responses),
		Emotional:     ScoreEmotionalAvailability(responses),
		Intimacy:      ScoreIntimacy(responses),
		LoveLanguages: ScoreLoveLanguages(responses),
	}
}

// answeredCount counts catalog questions with a type-correct answer.
func answeredCount(state AnswerState) int {
	n := 0
	for _, q := range catalog {
		if a, ok := state[q.ID]; ok && q.accepts(a) {
			n++
		}
	}
	return n
}

// IsQuizComplete reports whether every catalog question has a type-correct
// answer.
func IsQuizComplete(state AnswerState) bool {
	return answeredCount(state) == len(catalog)
}

// CompletionPercentage returns the rounded share of answered questions.
func CompletionPercentage(state AnswerState) int {
	return int(math.Round(float64(answeredCount(state)) / float64(len(catalog)) * 100))
}
