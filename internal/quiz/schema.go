package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input rejected by the schema checks.
var ErrValidation = errors.New("validation failed")

// FieldError is a single rejected field, addressed by its JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of one payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if f.Field == "" {
			parts[i] = f.Message
			continue
		}
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		w := sl.Current().Interface().(attachmentWire)
		if !w.Primary.validIn(AttachmentDimensions) {
			sl.ReportError(w.Primary, "primary", "Primary", "primary", "")
		}
	}, attachmentWire{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		w := sl.Current().Interface().(communicationWire)
		if !w.Primary.validIn(CommunicationStyles) {
			sl.ReportError(w.Primary, "primary", "Primary", "primary", "")
		}
	}, communicationWire{})
	return v
}

// validationError converts validator and decoding failures to a
// *ValidationError.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, FieldError{
				Field:   fieldPath(fe.Namespace()),
				Message: describeTag(fe),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{Fields: []FieldError{{
			Field:   typeErr.Field,
			Message: "must be a " + typeErr.Type.Kind().String(),
		}}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ValidationError{Fields: []FieldError{{Message: "malformed JSON: " + syntaxErr.Error()}}}
	}
	return &ValidationError{Fields: []FieldError{{Message: err.Error()}}}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "requires v or k"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have exactly " + fe.Param() + " entries"
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "primary":
		return "must be a category, a list of 2-4 categories or \"mixed\""
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

// SubmitRequest is the quiz submission payload.
type SubmitRequest struct {
	SessionID       string      `json:"sessionId" validate:"required"`
	FingerprintHash string      `json:"fingerprintHash" validate:"required"`
	Answers         DBAnswerMap `json:"answers" validate:"required,dive"`
	Email           string      `json:"email,omitempty" validate:"omitempty,email"`
	DurationSeconds *float64    `json:"durationSeconds,omitempty" validate:"omitempty,gt=0"`
	UTMSource       string      `json:"utmSource,omitempty"`
	UTMMedium       string      `json:"utmMedium,omitempty"`
	UTMCampaign     string      `json:"utmCampaign,omitempty"`
}

// Validate checks the submission shape. It must pass before any scoring runs.
func (r *SubmitRequest) Validate() error {
	return Validate(r)
}

// Validate checks a struct carrying validate tags, reporting failures as a
// *ValidationError.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// DecodeSubmitRequest parses and validates a submission body.
func DecodeSubmitRequest(data []byte) (SubmitRequest, error) {
	var req SubmitRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return SubmitRequest{}, validationError(err)
	}
	if err := req.Validate(); err != nil {
		return SubmitRequest{}, err
	}
	return req, nil
}

// ValidateAnswers checks a bare answer map, as sent by progress previews.
func ValidateAnswers(answers DBAnswerMap) error {
	return Validate(answersPayload{Answers: answers})
}

// answersPayload gives bare answer maps a root so field paths read
// "answers[ID].v".
type answersPayload struct {
	Answers DBAnswerMap `json:"answers" validate:"dive"`
}

// Wire shapes for stored score records. Pointers make missing keys
// distinguishable from zero scores.

type percentMap map[string]*float64

type attachmentWire struct {
	Primary Primary[AttachmentDimension] `json:"primary"`
	Scores  percentMap                   `json:"scores" validate:"required,len=4,dive,keys,oneof=secure anxious avoidant disorganized,endkeys,required,gte=0,lte=100"`
}

type communicationWire struct {
	Primary Primary[CommunicationStyle] `json:"primary"`
	Scores  percentMap                  `json:"scores" validate:"required,len=4,dive,keys,oneof=passive aggressive passive_aggressive assertive,endkeys,required,gte=0,lte=100"`
}

type intimacyWire struct {
	Comfort    *float64 `json:"comfort" validate:"required,gte=0,lte=100"`
	Boundaries *float64 `json:"boundaries" validate:"required,gte=0,lte=100"`
}

type giveReceiveWire struct {
	Give    *float64 `json:"give" validate:"required,gte=0,lte=100"`
	Receive *float64 `json:"receive" validate:"required,gte=0,lte=100"`
}

type loveLanguagesWire struct {
	Ranked      []LoveLanguage              `json:"ranked" validate:"required,min=1,max=5,dive,oneof=words time service gifts touch"`
	Scores      percentMap                  `json:"scores" validate:"required,len=5,dive,keys,oneof=words time service gifts touch,endkeys,required,gte=0,lte=100"`
	GiveReceive map[string]*giveReceiveWire `json:"giveReceive" validate:"required,len=5,dive,keys,oneof=words time service gifts touch,endkeys,required"`
}

type dbScoresWire struct {
	Attachment    *attachmentWire    `json:"attachment" validate:"required"`
	Communication *communicationWire `json:"communication" validate:"required"`
	Confidence    *float64           `json:"confidence" validate:"required,gte=0,lte=100"`
	Emotional     *float64           `json:"emotional" validate:"required,gte=0,lte=100"`
	Intimacy      *intimacyWire      `json:"intimacy" validate:"required"`
	LoveLanguages *loveLanguagesWire `json:"loveLanguages" validate:"required"`
}

// ParseDBScores strictly re-validates a stored score record. Every key must
// be present, every number must lie in [0,100] and every primary must have
// an accepted shape.
func ParseDBScores(data []byte) (DBScores, error) {
	var w dbScoresWire
	if err := json.Unmarshal(data, &w); err != nil {
		return DBScores{}, validationError(err)
	}
	if err := validate.Struct(&w); err != nil {
		return DBScores{}, validationError(err)
	}

	var out DBScores
	out.Attachment.Primary = w.Attachment.Primary
	for _, d := range AttachmentDimensions {
		out.Attachment.Scores.set(d, *w.Attachment.Scores[string(d)])
	}
	out.Communication.Primary = w.Communication.Primary
	for _, s := range CommunicationStyles {
		out.Communication.Scores.set(s, *w.Communication.Scores[string(s)])
	}
	out.Confidence = *w.Confidence
	out.Emotional = *w.Emotional
	out.Intimacy = IntimacyResult{Comfort: *w.Intimacy.Comfort, Boundaries: *w.Intimacy.Boundaries}

	out.LoveLanguages.Ranked = w.LoveLanguages.Ranked
	for _, l := range LoveLanguages {
		out.LoveLanguages.Scores.set(l, *w.LoveLanguages.Scores[string(l)])
		gr := w.LoveLanguages.GiveReceive[string(l)]
		out.LoveLanguages.GiveReceive.set(l, GiveReceive{Give: *gr.Give, Receive: *gr.Receive})
	}
	return out, nil
}
