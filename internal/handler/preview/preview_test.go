package preview

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/playperu/lovequiz/internal/quiz"
)

func dial(t *testing.T) (*websocket.Conn, context.Context) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewHandler(logger, quiz.NewEngine(logger)).Routes())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/preview"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })

	return conn, ctx
}

func exchange(t *testing.T, ctx context.Context, conn *websocket.Conn, typ websocket.MessageType, msg string) []byte {
	t.Helper()
	require.NoError(t, conn.Write(ctx, typ, []byte(msg)))
	_, reply, err := conn.Read(ctx)
	require.NoError(t, err)
	return reply
}

func fullAnswers(value int) quiz.DBAnswerMap {
	answers := make(quiz.DBAnswerMap)
	for i, q := range quiz.Questions() {
		entry := quiz.DBAnswer{T: int64(1000 + i)}
		if q.Type == quiz.Scenario {
			entry.K = "D"
		} else {
			v := value
			entry.V = &v
		}
		answers[q.ID] = entry
	}
	return answers
}

func TestPreviewStreamsProgress(t *testing.T) {
	conn, ctx := dial(t)

	reply := exchange(t, ctx, conn, websocket.MessageText, `{"S1":{"v":4,"t":1}}`)
	var partial quiz.Progress
	require.NoError(t, json.Unmarshal(reply, &partial))
	assert.False(t, partial.Complete)
	assert.Empty(t, partial.ArchetypeSlug)
	assert.Greater(t, partial.CompletionPercentage, 0)

	full, err := json.Marshal(fullAnswers(4))
	require.NoError(t, err)

	reply = exchange(t, ctx, conn, websocket.MessageText, string(full))
	var done quiz.Progress
	require.NoError(t, json.Unmarshal(reply, &done))
	assert.True(t, done.Complete)
	assert.Equal(t, 100, done.CompletionPercentage)

	_, ok := quiz.ArchetypeByID(done.ArchetypeSlug)
	assert.True(t, ok, "unknown archetype %q", done.ArchetypeSlug)
}

func TestPreviewRejectsBadFrames(t *testing.T) {
	conn, ctx := dial(t)

	tests := []struct {
		name  string
		typ   websocket.MessageType
		msg   string
		error string
		field string
	}{
		{"malformed json", websocket.MessageText, `{"S1":`, "malformed answer map", ""},
		{"out of range", websocket.MessageText, `{"S1":{"v":7,"t":1}}`, "invalid answers", "answers[S1].v"},
		{"binary frame", websocket.MessageBinary, `{}`, "expected a text frame", ""},
	}

	// Each rejection leaves the connection usable for the next frame.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var frame ErrorFrame
			require.NoError(t, json.Unmarshal(exchange(t, ctx, conn, tt.typ, tt.msg), &frame))
			assert.Equal(t, tt.error, frame.Error)

			if tt.field != "" {
				var fields []string
				for _, f := range frame.Fields {
					fields = append(fields, f.Field)
				}
				assert.Contains(t, fields, tt.field)
			}
		})
	}
}
