package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestShare(t *testing.T) {
	env := setupServer(t, nil)
	resultID := uuid.NewString()

	w := env.do(t, http.MethodPost, "/api/quiz/share", ShareRequest{
		ResultID:  resultID,
		SessionID: uuid.NewString(),
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp ShareResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Created {
		t.Error("expected created to be false")
	}
	if want := "https://quiz.example/quiz/results/" + resultID; resp.PublicURL != want {
		t.Errorf("publicUrl = %q, want %q", resp.PublicURL, want)
	}
}

func TestShareValidation(t *testing.T) {
	env := setupServer(t, nil)
	valid := uuid.NewString()

	tests := []struct {
		name  string
		body  ShareRequest
		field string
	}{
		{"missing result", ShareRequest{SessionID: valid}, "resultId"},
		{"missing session", ShareRequest{ResultID: valid}, "sessionId"},
		{"result not a uuid", ShareRequest{ResultID: "result-1", SessionID: valid}, "resultId"},
		{"session not a uuid", ShareRequest{ResultID: valid, SessionID: "abc"}, "sessionId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/quiz/share", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			resp := decodeError(t, w)
			if resp.ErrorCode != codeValidation {
				t.Errorf("expected %s, got %s", codeValidation, resp.ErrorCode)
			}
			if len(resp.Fields) != 1 || resp.Fields[0].Field != tt.field {
				t.Errorf("fields = %+v, want one error on %s", resp.Fields, tt.field)
			}
		})
	}

	w := env.doRaw(t, http.MethodPost, "/api/quiz/share", strings.NewReader(`{"resultId":`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", w.Code)
	}
}
