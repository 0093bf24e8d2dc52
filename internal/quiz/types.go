// Package quiz implements scoring and archetype classification for the
// dating personality quiz. It has zero infrastructure dependencies: every
// function here is a pure computation over caller-owned data.
package quiz

type AttachmentDimension string

const (
	Secure       AttachmentDimension = "secure"
	Anxious      AttachmentDimension = "anxious"
	Avoidant     AttachmentDimension = "avoidant"
	Disorganized AttachmentDimension = "disorganized"
)

// AttachmentDimensions is the display order of the attachment axis.
var AttachmentDimensions = []AttachmentDimension{Secure, Anxious, Avoidant, Disorganized}

type CommunicationStyle string

const (
	Passive           CommunicationStyle = "passive"
	Aggressive        CommunicationStyle = "aggressive"
	PassiveAggressive CommunicationStyle = "passive_aggressive"
	Assertive         CommunicationStyle = "assertive"
)

// CommunicationStyles is the display order of the communication axis.
var CommunicationStyles = []CommunicationStyle{Passive, Aggressive, PassiveAggressive, Assertive}

type LoveLanguage string

const (
	Words   LoveLanguage = "words"
	Time    LoveLanguage = "time"
	Service LoveLanguage = "service"
	Gifts   LoveLanguage = "gifts"
	Touch   LoveLanguage = "touch"
)

var LoveLanguages = []LoveLanguage{Words, Time, Service, Gifts, Touch}

type Direction string

const (
	Give    Direction = "give"
	Receive Direction = "receive"
)

type IntimacyDimension string

const (
	Comfort  IntimacyDimension = "comfort"
	Boundary IntimacyDimension = "boundary"
)

// QuizResponse is one answered question as seen by the scorers.
type QuizResponse struct {
	QuestionID  string
	Value       int // 1-5 for likert items, 0 when absent
	SelectedKey string
	Timestamp   int64 // unix milliseconds
}

// Answer is the client-side record of a single answer.
type Answer struct {
	Value       int    `json:"value"`
	Timestamp   int64  `json:"timestamp"`
	SelectedKey string `json:"selectedKey,omitempty"`
}

// AnswerState maps question IDs to answers.
type AnswerState map[string]Answer

// DBAnswer is the compact storage form of an Answer.
type DBAnswer struct {
	V *int   `json:"v,omitempty" yaml:"v,omitempty" validate:"required_without=K,omitempty,min=1,max=5"`
	T int64  `json:"t" yaml:"t" validate:"gt=0"`
	K string `json:"k,omitempty" yaml:"k,omitempty" validate:"required_without=V"`
}

// DBAnswerMap is the wire and storage form of an AnswerState.
type DBAnswerMap map[string]DBAnswer

type AttachmentScores struct {
	Secure       float64 `json:"secure"`
	Anxious      float64 `json:"anxious"`
	Avoidant     float64 `json:"avoidant"`
	Disorganized float64 `json:"disorganized"`
}

func (s AttachmentScores) Get(d AttachmentDimension) float64 {
	switch d {
	case Secure:
		return s.Secure
	case Anxious:
		return s.Anxious
	case Avoidant:
		return s.Avoidant
	case Disorganized:
		return s.Disorganized
	}
	return 0
}

func (s *AttachmentScores) set(d AttachmentDimension, v float64) {
	switch d {
	case Secure:
		s.Secure = v
	case Anxious:
		s.Anxious = v
	case Avoidant:
		s.Avoidant = v
	case Disorganized:
		s.Disorganized = v
	}
}

type CommunicationScores struct {
	Passive           float64 `json:"passive"`
	Aggressive        float64 `json:"aggressive"`
	PassiveAggressive float64 `json:"passive_aggressive"`
	Assertive         float64 `json:"assertive"`
}

func (s CommunicationScores) Get(c CommunicationStyle) float64 {
	switch c {
	case Passive:
		return s.Passive
	case Aggressive:
		return s.Aggressive
	case PassiveAggressive:
		return s.PassiveAggressive
	case Assertive:
		return s.Assertive
	}
	return 0
}

func (s *CommunicationScores) set(c CommunicationStyle, v float64) {
	switch c {
	case Passive:
		s.Passive = v
	case Aggressive:
		s.Aggressive = v
	case PassiveAggressive:
		s.PassiveAggressive = v
	case Assertive:
		s.Assertive = v
	}
}

type LoveLanguageScores struct {
	Words   float64 `json:"words"`
	Time    float64 `json:"time"`
	Service float64 `json:"service"`
	Gifts   float64 `json:"gifts"`
	Touch   float64 `json:"touch"`
}

func (s LoveLanguageScores) Get(l LoveLanguage) float64 {
	switch l {
	case Words:
		return s.Words
	case Time:
		return s.Time
	case Service:
		return s.Service
	case Gifts:
		return s.Gifts
	case Touch:
		return s.Touch
	}
	return 0
}

func (s *LoveLanguageScores) set(l LoveLanguage, v float64) {
	switch l {
	case Words:
		s.Words = v
	case Time:
		s.Time = v
	case Service:
		s.Service = v
	case Gifts:
		s.Gifts = v
	case Touch:
		s.Touch = v
	}
}

type GiveReceive struct {
	Give    float64 `json:"give"`
	Receive float64 `json:"receive"`
}

type GiveReceiveScores struct {
	Words   GiveReceive `json:"words"`
	Time    GiveReceive `json:"time"`
	Service GiveReceive `json:"service"`
	Gifts   GiveReceive `json:"gifts"`
	Touch   GiveReceive `json:"touch"`
}

func (s *GiveReceiveScores) set(l LoveLanguage, gr GiveReceive) {
	switch l {
	case Words:
		s.Words = gr
	case Time:
		s.Time = gr
	case Service:
		s.Service = gr
	case Gifts:
		s.Gifts = gr
	case Touch:
		s.Touch = gr
	}
}

type AttachmentResult struct {
	Primary Primary[AttachmentDimension] `json:"primary"`
	Scores  AttachmentScores             `json:"scores"`
}

type CommunicationResult struct {
	Primary Primary[CommunicationStyle] `json:"primary"`
	Scores  CommunicationScores         `json:"scores"`
}

type IntimacyResult struct {
	Comfort    float64 `json:"comfort"`
	Boundaries float64 `json:"boundaries"`
}

type LoveLanguageResult struct {
	Ranked      []LoveLanguage     `json:"ranked"`
	Scores      LoveLanguageScores `json:"scores"`
	GiveReceive GiveReceiveScores  `json:"giveReceive"`
}

// QuizResults is the aggregate of all six dimension results. It is never
// mutated after CalculateAllResults returns it.
type QuizResults struct {
	Attachment    AttachmentResult    `json:"attachment"`
	Communication CommunicationResult `json:"communication"`
	Confidence    float64             `json:"confidence"`
	Emotional     float64             `json:"emotional"`
	Intimacy      IntimacyResult      `json:"intimacy"`
	LoveLanguages LoveLanguageResult  `json:"loveLanguages"`
}

// DBScores is the persisted score record. Collaborators (UI, email
// templates) depend on its exact JSON shape.
type DBScores QuizResults

// DBScores strips the results down to the stored shape.
func (r QuizResults) DBScores() DBScores {
	ranked := make([]LoveLanguage, len(r.LoveLanguages.Ranked))
	copy(ranked, r.LoveLanguages.Ranked)
	out := DBScores(r)
	out.LoveLanguages.Ranked = ranked
	return out
}

// Results converts a stored record back to results for re-classification.
func (s DBScores) Results() QuizResults { return QuizResults(s) }
