package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"flashquiz/internal/app"
	"flashquiz/internal/domain"
)

// WSHandler drives one quiz session per websocket connection. The browser
// renders what it is told; deadlines are enforced here, in the driving loop,
// because the session engine's timer is advisory.
type WSHandler struct {
	service        *app.QuizService
	defaultCount   int
	defaultSeconds int
	upgrader       websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, defaultCount, defaultSeconds int) *WSHandler {
	return &WSHandler{
		service:        service,
		defaultCount:   defaultCount,
		defaultSeconds: defaultSeconds,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// writeWait bounds each websocket write so a client that stops reading
// cannot pin the writer goroutine forever.
const writeWait = 10 * time.Second

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type questionPayload struct {
	Index            int      `json:"index"`
	Total            int      `json:"total"`
	Prompt           string   `json:"prompt"`
	Options          []string `json:"options"`
	RemainingSeconds int      `json:"remainingSeconds"`
	Score            int      `json:"score"`
}

type tickPayload struct {
	RemainingSeconds int `json:"remainingSeconds"`
}

type answerResultPayload struct {
	Correct  bool `json:"correct"`
	TimedOut bool `json:"timedOut"`
	Score    int  `json:"score"`
}

type summaryPayload struct {
	domain.AttemptSummary
	Percent int  `json:"percent"`
	Saved   bool `json:"saved"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request, starts a session from the query parameters,
// and runs it to completion: a question message, then an answer or timeout,
// until the summary is sent.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	opts := app.StartOptions{
		Category:           r.URL.Query().Get("category"),
		Difficulty:         r.URL.Query().Get("difficulty"),
		Count:              queryInt(r, "count", h.defaultCount),
		SecondsPerQuestion: queryInt(r, "seconds", h.defaultSeconds),
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, view, err := h.service.StartQuiz(r.Context(), opts)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	inbound := make(chan inboundMessage)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-writerDone:
				return
			}
		}
	}()

	send <- questionMessage(session, view)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

loop:
	for {
		select {
		case msg := <-inbound:
			if msg.Type != "answer" {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			correct, done, err := session.Answer(payload.OptionIndex)
			if errors.Is(err, domain.ErrDeadlinePassed) {
				done = h.expire(r.Context(), session, send)
				if done {
					break loop
				}
				continue
			}
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResultPayload{
				Correct: correct,
				Score:   session.Score(),
			}}
			if done {
				h.finish(r.Context(), session, send)
				break loop
			}
			next, _, _ := session.CurrentView()
			send <- questionMessage(session, next)

		case <-ticker.C:
			_, remaining, err := session.CurrentView()
			if err != nil {
				break loop
			}
			if remaining > 0 {
				// Ticks are advisory; drop them for slow clients rather
				// than block the session loop.
				select {
				case send <- outboundMessage[any]{Type: "tick", Payload: tickPayload{
					RemainingSeconds: int(remaining.Round(time.Second).Seconds()),
				}}:
				default:
				}
				continue
			}
			if h.expire(r.Context(), session, send) {
				break loop
			}

		case <-readerDone:
			break loop // client went away; the session is simply abandoned

		case <-r.Context().Done():
			break loop
		}
	}

	close(send)
	<-writerDone
}

// expire times out the current question and reports whether the session
// completed (summary already sent).
func (h *WSHandler) expire(ctx context.Context, session *app.Session, send chan<- outboundMessage[any]) bool {
	done, err := session.Timeout()
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return true
	}
	send <- outboundMessage[any]{Type: "answerResult", Payload: answerResultPayload{
		TimedOut: true,
		Score:    session.Score(),
	}}
	if done {
		h.finish(ctx, session, send)
		return true
	}
	next, _, _ := session.CurrentView()
	send <- questionMessage(session, next)
	return false
}

func (h *WSHandler) finish(ctx context.Context, session *app.Session, send chan<- outboundMessage[any]) {
	summary, err := session.Summary()
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return
	}
	saved := true
	if err := h.service.SaveAttempt(ctx, summary); err != nil {
		// Storage failure does not invalidate the finished quiz.
		log.Printf("record attempt: %v", err)
		saved = false
	}
	send <- outboundMessage[any]{Type: "summary", Payload: summaryPayload{
		AttemptSummary: summary,
		Percent:        summary.Percent(),
		Saved:          saved,
	}}
}

func questionMessage(session *app.Session, view domain.QuestionView) outboundMessage[any] {
	return outboundMessage[any]{Type: "question", Payload: questionPayload{
		Index:            view.Index,
		Total:            view.Total,
		Prompt:           view.Prompt,
		Options:          view.Options,
		RemainingSeconds: int(time.Until(view.Deadline).Round(time.Second).Seconds()),
		Score:            session.Score(),
	}}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return fallback
}
