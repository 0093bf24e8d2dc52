package quiz

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScores(t *testing.T) DBScores {
	t.Helper()
	return CalculateAllResults([]QuizResponse{
		likert("S1", 5), likert("AX1", 5), likert("AV1", 2),
		likert("COM_ASSERTIVE_1", 4), scenario("COM_SCENARIO_1", "D"),
		likert("C1", 4), likert("EA1", 3), likert("IC1", 5), likert("BA3", 2),
		likert("LL3", 5), likert("LL2", 4),
	}).DBScores()
}

// mutateScores applies fn to the generic JSON form of valid scores.
func mutateScores(t *testing.T, fn func(m map[string]any)) []byte {
	t.Helper()
	raw, err := json.Marshal(sampleScores(t))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	fn(m)
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return out
}

func obj(m map[string]any, path ...string) map[string]any {
	for _, p := range path {
		m = m[p].(map[string]any)
	}
	return m
}

func TestParseDBScores_RoundTrip(t *testing.T) {
	want := sampleScores(t)
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := ParseDBScores(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []AttachmentDimension{Secure, Anxious}, got.Attachment.Primary.Top)
}

func TestParseDBScores_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		field string
	}{
		{"malformed json", []byte(`{"attachment":`), ""},
		{"missing score", mutateScores(t, func(m map[string]any) {
			delete(obj(m, "attachment", "scores"), "secure")
		}), "attachment.scores"},
		{"unknown score key", mutateScores(t, func(m map[string]any) {
			obj(m, "communication", "scores")["shouty"] = 10
		}), "communication.scores"},
		{"score above range", mutateScores(t, func(m map[string]any) {
			obj(m, "attachment", "scores")["avoidant"] = 101
		}), "attachment.scores[avoidant]"},
		{"negative scalar", mutateScores(t, func(m map[string]any) {
			m["emotional"] = -1
		}), "emotional"},
		{"missing scalar", mutateScores(t, func(m map[string]any) {
			delete(m, "confidence")
		}), "confidence"},
		{"scalar wrong type", mutateScores(t, func(m map[string]any) {
			m["confidence"] = "high"
		}), "confidence"},
		{"unknown primary", mutateScores(t, func(m map[string]any) {
			obj(m, "attachment")["primary"] = "clingy"
		}), "attachment.primary"},
		{"primary list with unknown", mutateScores(t, func(m map[string]any) {
			obj(m, "communication")["primary"] = []string{"assertive", "sarcastic"}
		}), "communication.primary"},
		{"unknown ranked language", mutateScores(t, func(m map[string]any) {
			obj(m, "loveLanguages")["ranked"] = []string{"words", "cuddles"}
		}), "loveLanguages.ranked"},
		{"empty ranked", mutateScores(t, func(m map[string]any) {
			obj(m, "loveLanguages")["ranked"] = []string{}
		}), "loveLanguages.ranked"},
		{"missing receive", mutateScores(t, func(m map[string]any) {
			delete(obj(m, "loveLanguages", "giveReceive", "time"), "receive")
		}), "loveLanguages.giveReceive[time].receive"},
		{"missing intimacy", mutateScores(t, func(m map[string]any) {
			delete(m, "intimacy")
		}), "intimacy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDBScores(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			if tt.field != "" {
				assert.True(t, hasField(verr, tt.field), "fields %+v lack %q", verr.Fields, tt.field)
			}
		})
	}
}

func hasField(err *ValidationError, prefix string) bool {
	for _, f := range err.Fields {
		if strings.HasPrefix(f.Field, prefix) {
			return true
		}
	}
	return false
}

func validSubmit() SubmitRequest {
	return SubmitRequest{
		SessionID:       "8d4c6a1e-2d7a-4a3b-9f3e-0c5d1c2b7a10",
		FingerprintHash: "fp-abc",
		Answers: DBAnswerMap{
			"S1":             {V: intp(4), T: 1_700_000_000_000},
			"COM_SCENARIO_1": {K: "D", T: 1_700_000_000_100},
		},
	}
}

func TestSubmitRequest_Validate(t *testing.T) {
	negative := -3.0
	tests := []struct {
		name   string
		mutate func(r *SubmitRequest)
		field  string
	}{
		{"valid", func(r *SubmitRequest) {}, ""},
		{"valid with extras", func(r *SubmitRequest) {
			d := 312.5
			r.Email = "someone@example.com"
			r.DurationSeconds = &d
			r.UTMSource = "newsletter"
		}, ""},
		{"missing session", func(r *SubmitRequest) { r.SessionID = "" }, "sessionId"},
		{"missing fingerprint", func(r *SubmitRequest) { r.FingerprintHash = "" }, "fingerprintHash"},
		{"missing answers", func(r *SubmitRequest) { r.Answers = nil }, "answers"},
		{"answer without v or k", func(r *SubmitRequest) {
			r.Answers["S2"] = DBAnswer{T: 5}
		}, "answers[S2]"},
		{"value out of range", func(r *SubmitRequest) {
			r.Answers["S2"] = DBAnswer{V: intp(6), T: 5}
		}, "answers[S2].v"},
		{"zero timestamp", func(r *SubmitRequest) {
			r.Answers["S2"] = DBAnswer{V: intp(2)}
		}, "answers[S2].t"},
		{"bad email", func(r *SubmitRequest) { r.Email = "not-an-email" }, "email"},
		{"negative duration", func(r *SubmitRequest) { r.DurationSeconds = &negative }, "durationSeconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validSubmit()
			tt.mutate(&r)

			err := r.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, ErrValidation)
			assert.True(t, hasField(verr, tt.field), "fields %+v lack %q", verr.Fields, tt.field)
		})
	}
}

func TestDecodeSubmitRequest(t *testing.T) {
	body := `{"sessionId":"s","fingerprintHash":"f","answers":{"S1":{"v":3,"t":10},"COM_SCENARIO_1":{"k":"A","t":11}},"utmCampaign":"spring"}`

	req, err := DecodeSubmitRequest([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "spring", req.UTMCampaign)
	require.NotNil(t, req.Answers["S1"].V)
	assert.Equal(t, 3, *req.Answers["S1"].V)

	_, err = DecodeSubmitRequest([]byte(`{"sessionId":"s","fingerprintHash":"f","answers":{"S1":{"v":2.5,"t":10}}}`))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = DecodeSubmitRequest([]byte(`not json`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateAnswers(t *testing.T) {
	assert.NoError(t, ValidateAnswers(DBAnswerMap{"S1": {V: intp(1), T: 1}}))
	assert.NoError(t, ValidateAnswers(DBAnswerMap{}))
	assert.ErrorIs(t, ValidateAnswers(DBAnswerMap{"S1": {T: 1}}), ErrValidation)
}

func TestValidateAnswers_FieldPaths(t *testing.T) {
	tests := []struct {
		name    string
		answers DBAnswerMap
		field   string
	}{
		{"value out of range", DBAnswerMap{"S1": {V: intp(7), T: 1}}, "answers[S1].v"},
		{"zero timestamp", DBAnswerMap{"AX2": {V: intp(3)}}, "answers[AX2].t"},
		{"neither v nor k", DBAnswerMap{"COM_SCENARIO_1": {T: 1}}, "answers[COM_SCENARIO_1].k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			require.ErrorAs(t, ValidateAnswers(tt.answers), &verr)

			var fields []string
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}
