// Package preview streams live score previews over a WebSocket while a quiz
// is being taken.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/lovequiz/internal/quiz"
)

// maxMessageBytes bounds one answer map frame.
const maxMessageBytes = 64 << 10

// ErrorFrame is sent instead of a preview when a frame is rejected. The
// connection stays open.
type ErrorFrame struct {
	Error  string            `json:"error"`
	Fields []quiz.FieldError `json:"fields,omitempty"`
}

type Handler struct {
	logger      *slog.Logger
	engine      *quiz.Engine
	idleTimeout time.Duration
}

func NewHandler(logger *slog.Logger, engine *quiz.Engine) *Handler {
	return &Handler{logger: logger, engine: engine, idleTimeout: 10 * time.Minute}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/preview", h.preview)
	return r
}

// preview reads answer maps and replies to each with a quiz.Progress.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxMessageBytes)

	ctx, cancel := context.WithTimeout(r.Context(), h.idleTimeout)
	defer cancel()

	for {
		typ, msg, err := conn.Read(ctx)
		if err != nil {
			h.logger.Debug("websocket read ended", "error", err)
			return
		}

		reply := h.respond(typ, msg)
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (h *Handler) respond(typ websocket.MessageType, msg []byte) any {
	if typ != websocket.MessageText {
		return ErrorFrame{Error: "expected a text frame"}
	}

	var answers quiz.DBAnswerMap
	if err := json.Unmarshal(msg, &answers); err != nil {
		return ErrorFrame{Error: "malformed answer map"}
	}
	if err := quiz.ValidateAnswers(answers); err != nil {
		frame := ErrorFrame{Error: "invalid answers"}
		var verr *quiz.ValidationError
		if errors.As(err, &verr) {
			frame.Fields = verr.Fields
		}
		return frame
	}

	return h.engine.Preview(answers)
}
