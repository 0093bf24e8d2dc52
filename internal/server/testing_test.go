package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/playperu/lovequiz/internal/database"
	"github.com/playperu/lovequiz/internal/migrations"
	"github.com/playperu/lovequiz/internal/quiz"
)

// memReplay is an in-process ReplayCache that counts hits.
type memReplay struct {
	mu    sync.Mutex
	items map[string][]byte
	hits  int
}

func newMemReplay() *memReplay { return &memReplay{items: make(map[string][]byte)} }

func (m *memReplay) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[key]
	if ok {
		m.hits++
	}
	return b, ok, nil
}

func (m *memReplay) Set(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = payload
	return nil
}

type testEnv struct {
	handler http.Handler
	db      *sql.DB
	store   *SQLiteStore
}

func setupServer(t *testing.T, replay ReplayCache) testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewSQLiteStore(db)
	srv := New(":0", logger, Deps{
		Store:   store,
		Replay:  replay,
		Engine:  quiz.NewEngine(logger),
		SiteURL: "https://quiz.example/",
	}, nil)

	return testEnv{handler: srv.Handler(), db: db, store: store}
}

func (e testEnv) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e testEnv) createSession(t *testing.T, fingerprint string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/quiz/session", CreateSessionRequest{FingerprintHash: fingerprint}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("create session: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp CreateSessionResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.SessionID
}

func (e testEnv) countResults(t *testing.T) int {
	t.Helper()
	var n int
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM quiz_results`).Scan(&n); err != nil {
		t.Fatalf("count results: %v", err)
	}
	return n
}

// fullAnswers answers every catalog question; ts offsets the timestamps.
func fullAnswers(value int, key string, ts int64) quiz.DBAnswerMap {
	answers := make(quiz.DBAnswerMap)
	for i, q := range quiz.Questions() {
		entry := quiz.DBAnswer{T: ts + int64(i)}
		if q.Type == quiz.Scenario {
			entry.K = key
		} else {
			v := value
			entry.V = &v
		}
		answers[q.ID] = entry
	}
	return answers
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func (e testEnv) doRaw(t *testing.T, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}
