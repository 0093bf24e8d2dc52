package quiz

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
)

const idempotencyPrefix = "quiz:v1:"

type canonicalAnswer struct {
	V *int   `json:"v,omitempty"`
	K string `json:"k,omitempty"`
}

type canonicalSubmission struct {
	V               int     `json:"v"`
	SessionID       string  `json:"sessionId"`
	FingerprintHash string  `json:"fingerprintHash"`
	Answers         [][]any `json:"answers"`
}

// IdempotencyKey derives the content-addressed submission key. Answers are
// ordered by question ID and timestamps are excluded, so retries of the same
// submission hash identically no matter when they are sent.
func IdempotencyKey(sessionID, fingerprintHash string, answers DBAnswerMap) string {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, strings.Compare)

	payload := canonicalSubmission{
		V:               1,
		SessionID:       sessionID,
		FingerprintHash: fingerprintHash,
		Answers:         make([][]any, 0, len(ids)),
	}
	for _, id := range ids {
		a := answers[id]
		payload.Answers = append(payload.Answers, []any{id, canonicalAnswer{V: a.V, K: a.K}})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding plain strings, ints and structs cannot fail.
	_ = enc.Encode(payload)

	sum := sha256.Sum256(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return idempotencyPrefix + hex.EncodeToString(sum[:])
}
