package quiz

import "fmt"

type QuestionType string

const (
	Likert   QuestionType = "likert"
	Scenario QuestionType = "scenario"
)

type Section string

const (
	SectionAttachment    Section = "attachment"
	SectionCommunication Section = "communication"
	SectionConfidence    Section = "confidence"
	SectionEmotional     Section = "emotional"
	SectionIntimacy      Section = "intimacy"
	SectionLoveLanguage  Section = "love_language"
)

// Sections lists the quiz sections in the order they are presented.
var Sections = []Section{
	SectionAttachment,
	SectionCommunication,
	SectionConfidence,
	SectionEmotional,
	SectionIntimacy,
	SectionLoveLanguage,
}

// Target names the dimension a question (or scenario option) contributes to.
// Category is empty for scalar sections; Direction is set only for love
// language items.
type Target struct {
	Section   Section
	Category  string
	Direction Direction
}

// Option is one choice of a scenario question. Selecting it adds Bonus points
// to Target, capped at 100.
type Option struct {
	Key    string
	Target Target
	Bonus  float64
}

type Question struct {
	ID      string
	Type    QuestionType
	Target  Target
	Reverse bool
	Options []Option
	// Unscored items count towards completion but not towards any score.
	Unscored bool
}

// Option returns the option with the given key.
func (q Question) Option(key string) (Option, bool) {
	for _, o := range q.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// accepts reports whether a answers q with a value of the right type.
func (q Question) accepts(a Answer) bool {
	switch q.Type {
	case Likert:
		return a.Value >= 1 && a.Value <= 5
	case Scenario:
		_, ok := q.Option(a.SelectedKey)
		return ok
	}
	return false
}

// scenarioBonus is worth roughly one extra strongly-agreed likert item.
const scenarioBonus = 25

func attachmentQ(id string, d AttachmentDimension) Question {
	return Question{ID: id, Type: Likert, Target: Target{Section: SectionAttachment, Category: string(d)}}
}

func communicationQ(id string, s CommunicationStyle) Question {
	return Question{ID: id, Type: Likert, Target: Target{Section: SectionCommunication, Category: string(s)}}
}

func scalarQ(id string, s Section, reverse bool) Question {
	return Question{ID: id, Type: Likert, Target: Target{Section: s}, Reverse: reverse}
}

func unscoredQ(id string, s Section) Question {
	q := scalarQ(id, s, false)
	q.Unscored = true
	return q
}

func intimacyQ(id string, d IntimacyDimension, reverse bool) Question {
	return Question{ID: id, Type: Likert, Target: Target{Section: SectionIntimacy, Category: string(d)}, Reverse: reverse}
}

func loveQ(id string, l LoveLanguage, d Direction) Question {
	return Question{ID: id, Type: Likert, Target: Target{Section: SectionLoveLanguage, Category: string(l), Direction: d}}
}

func styleOption(key string, s CommunicationStyle) Option {
	return Option{Key: key, Target: Target{Section: SectionCommunication, Category: string(s)}, Bonus: scenarioBonus}
}

var catalog = []Question{
	attachmentQ("S1", Secure),
	attachmentQ("S2", Secure),
	attachmentQ("S3", Secure),
	attachmentQ("AX1", Anxious),
	attachmentQ("AX2", Anxious),
	attachmentQ("AX3", Anxious),
	attachmentQ("AV1", Avoidant),
	attachmentQ("AV2", Avoidant),
	attachmentQ("AV3", Avoidant),
	attachmentQ("D1", Disorganized),
	attachmentQ("D2", Disorganized),
	attachmentQ("D3", Disorganized),

	communicationQ("COM_PASSIVE_1", Passive),
	communicationQ("COM_PASSIVE_2", Passive),
	communicationQ("COM_AGGRESSIVE_1", Aggressive),
	communicationQ("COM_AGGRESSIVE_2", Aggressive),
	communicationQ("COM_PAGG_1", PassiveAggressive),
	communicationQ("COM_PAGG_2", PassiveAggressive),
	communicationQ("COM_ASSERTIVE_1", Assertive),
	communicationQ("COM_ASSERTIVE_2", Assertive),
	{
		ID:     "COM_SCENARIO_1",
		Type:   Scenario,
		Target: Target{Section: SectionCommunication},
		Options: []Option{
			styleOption("A", Passive),
			styleOption("B", Aggressive),
			styleOption("C", PassiveAggressive),
			styleOption("D", Assertive),
		},
	},

	scalarQ("C1", SectionConfidence, false),
	scalarQ("C2", SectionConfidence, true),
	scalarQ("C3", SectionConfidence, false),
	scalarQ("C4", SectionConfidence, true),
	scalarQ("C5", SectionConfidence, false),
	unscoredQ("C6", SectionConfidence),

	scalarQ("EA1", SectionEmotional, false),
	scalarQ("EA2", SectionEmotional, true),
	scalarQ("EA3", SectionEmotional, false),
	scalarQ("EA4", SectionEmotional, true),
	scalarQ("EA5", SectionEmotional, false),

	intimacyQ("IC1", Comfort, false),
	intimacyQ("IC2", Comfort, false),
	intimacyQ("IC3", Comfort, false),
	intimacyQ("BA1", Boundary, false),
	intimacyQ("BA2", Boundary, false),
	intimacyQ("BA3", Boundary, true),

	loveQ("LL1", Words, Give),
	loveQ("LL2", Words, Receive),
	loveQ("LL3", Time, Give),
	loveQ("LL4", Time, Receive),
	loveQ("LL5", Service, Give),
	loveQ("LL6", Service, Receive),
	loveQ("LL7", Gifts, Give),
	loveQ("LL8", Gifts, Receive),
	loveQ("LL9", Touch, Give),
	loveQ("LL10", Touch, Receive),
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, q := range catalog {
		idx[q.ID] = i
	}
	return idx
}()

// expectedReversed are the negatively phrased items.
var expectedReversed = []string{"C2", "C4", "EA2", "EA4", "BA3"}

// Questions returns a copy of the catalog in presentation order.
func Questions() []Question {
	out := make([]Question, len(catalog))
	copy(out, catalog)
	return out
}

func QuestionCount() int { return len(catalog) }

func QuestionByID(id string) (Question, bool) {
	i, ok := catalogIndex[id]
	if !ok {
		return Question{}, false
	}
	return catalog[i], true
}

// CheckCatalog reports configuration drift in the catalog: missing or
// unflagged reverse-scored items and duplicate IDs.
func CheckCatalog() []string {
	var problems []string
	for _, id := range expectedReversed {
		q, ok := QuestionByID(id)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("reverse-scored question %s not found", id))
		case !q.Reverse:
			problems = append(problems, fmt.Sprintf("question %s should be reverse scored", id))
		}
	}
	if len(catalogIndex) != len(catalog) {
		problems = append(problems, fmt.Sprintf("catalog has %d questions but %d unique IDs", len(catalog), len(catalogIndex)))
	}
	return problems
}
