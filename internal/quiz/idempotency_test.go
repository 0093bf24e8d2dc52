package quiz

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestIdempotencyKey_Stable(t *testing.T) {
	a := DBAnswerMap{
		"S1":             {V: intp(4), T: 100},
		"COM_SCENARIO_1": {K: "B", T: 101},
	}
	retried := DBAnswerMap{
		"COM_SCENARIO_1": {K: "B", T: 900},
		"S1":             {V: intp(4), T: 901},
	}

	k1 := IdempotencyKey("sess-1", "fp-1", a)
	k2 := IdempotencyKey("sess-1", "fp-1", retried)

	assert.Equal(t, k1, k2, "timestamps must not affect the key")
	assert.True(t, strings.HasPrefix(k1, "quiz:v1:"))
	assert.Len(t, strings.TrimPrefix(k1, "quiz:v1:"), 64)
}

func TestIdempotencyKey_Changes(t *testing.T) {
	base := DBAnswerMap{"S1": {V: intp(4), T: 1}, "S2": {V: intp(2), T: 2}}
	key := IdempotencyKey("sess-1", "fp-1", base)

	tests := []struct {
		name    string
		session string
		fp      string
		answers DBAnswerMap
	}{
		{"answer value", "sess-1", "fp-1", DBAnswerMap{"S1": {V: intp(5), T: 1}, "S2": {V: intp(2), T: 2}}},
		{"extra answer", "sess-1", "fp-1", DBAnswerMap{"S1": {V: intp(4), T: 1}, "S2": {V: intp(2), T: 2}, "S3": {V: intp(1), T: 3}}},
		{"session", "sess-2", "fp-1", base},
		{"fingerprint", "sess-1", "fp-2", base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, key, IdempotencyKey(tt.session, tt.fp, tt.answers))
		})
	}
}

func TestIdempotencyKey_CanonicalPayload(t *testing.T) {
	answers := DBAnswerMap{
		"S1":             {V: intp(3), T: 5},
		"COM_SCENARIO_1": {K: "A&B", T: 6},
	}
	canonical := `{"v":1,"sessionId":"s","fingerprintHash":"f","answers":[["COM_SCENARIO_1",{"k":"A&B"}],["S1",{"v":3}]]}`
	sum := sha256.Sum256([]byte(canonical))

	assert.Equal(t, "quiz:v1:"+hex.EncodeToString(sum[:]), IdempotencyKey("s", "f", answers))
}

func TestIdempotencyKey_Empty(t *testing.T) {
	canonical := `{"v":1,"sessionId":"s","fingerprintHash":"f","answers":[]}`
	sum := sha256.Sum256([]byte(canonical))

	assert.Equal(t, "quiz:v1:"+hex.EncodeToString(sum[:]), IdempotencyKey("s", "f", nil))
}
