// Package main implements a mock Telegram Bot API server for local
// development. It keeps the channel's messages in memory and answers
// sendMessage, editMessageText and deleteMessage the way the real API does,
// including the "not modified" and "not found" errors, so a publisher can be
// run end to end without a bot token.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

type message struct {
	ID          int64           `json:"message_id"`
	ChatID      string          `json:"chat_id"`
	Text        string          `json:"text"`
	ReplyMarkup json.RawMessage `json:"reply_markup,omitempty"`
	Date        time.Time       `json:"date"`
	EditDate    *time.Time      `json:"edit_date,omitempty"`
}

type messageRequest struct {
	ChatID      string          `json:"chat_id"`
	MessageID   int64           `json:"message_id"`
	Text        string          `json:"text"`
	ReplyMarkup json.RawMessage `json:"reply_markup"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Result      any    `json:"result,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// channel is the in-memory message store.
type channel struct {
	mu         sync.Mutex
	nextID     int64
	messages   map[int64]*message
	editWindow time.Duration
	now        func() time.Time
}

func newChannel(editWindow time.Duration) *channel {
	return &channel{
		nextID:     1,
		messages:   make(map[int64]*message),
		editWindow: editWindow,
		now:        time.Now,
	}
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	token := flag.String("token", "", "accept only this bot token (default any)")
	editWindow := flag.Duration("edit-window", 48*time.Hour, "age after which messages can no longer be edited")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ch := newChannel(*editWindow)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Telegram server", "addr", addr, "edit_window", *editWindow)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, ch, *token)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, ch *channel, token string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{bot}/{method}", botHandler(logger, ch, token))
	mux.HandleFunc("GET /messages", messagesHandler(ch))
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Paths carry the bot token.
		path := r.URL.Path
		if i := strings.LastIndexByte(path, '/'); i > 0 {
			path = "/bot***" + path[i:]
		}
		logger.Debug("request", "method", r.Method, "path", path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, apiResponse{ErrorCode: status, Description: description})
}

func botHandler(logger *slog.Logger, ch *channel, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bot, ok := strings.CutPrefix(r.PathValue("bot"), "bot")
		if !ok {
			fail(w, http.StatusNotFound, "Not Found")
			return
		}
		if token != "" && bot != token {
			fail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Bad Request: can't parse request body")
			return
		}
		if req.ChatID == "" {
			fail(w, http.StatusBadRequest, "Bad Request: chat_id is empty")
			return
		}

		method := r.PathValue("method")
		switch method {
		case "sendMessage":
			m, err := ch.send(req)
			if err != "" {
				fail(w, http.StatusBadRequest, err)
				return
			}
			logger.Info("message sent", "message_id", m.ID, "length", len([]rune(m.Text)))
			writeJSON(w, http.StatusOK, apiResponse{OK: true, Result: m})
		case "editMessageText":
			m, err := ch.edit(req)
			if err != "" {
				fail(w, http.StatusBadRequest, err)
				return
			}
			logger.Info("message edited", "message_id", m.ID)
			writeJSON(w, http.StatusOK, apiResponse{OK: true, Result: m})
		case "deleteMessage":
			if err := ch.delete(req); err != "" {
				fail(w, http.StatusBadRequest, err)
				return
			}
			logger.Info("message deleted", "message_id", req.MessageID)
			writeJSON(w, http.StatusOK, apiResponse{OK: true, Result: true})
		default:
			fail(w, http.StatusNotFound, "Not Found: method not found")
		}
	}
}

func messagesHandler(ch *channel) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, apiResponse{OK: true, Result: ch.list()})
	}
}

// maxTextLength is the Bot API limit on message text.
const maxTextLength = 4096

func (c *channel) send(req messageRequest) (*message, string) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, "Bad Request: message text is empty"
	}
	if len([]rune(req.Text)) > maxTextLength {
		return nil, "Bad Request: message is too long"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m := &message{
		ID:          c.nextID,
		ChatID:      req.ChatID,
		Text:        req.Text,
		ReplyMarkup: req.ReplyMarkup,
		Date:        c.now(),
	}
	c.messages[m.ID] = m
	c.nextID++
	return m, ""
}

func (c *channel) edit(req messageRequest) (*message, string) {
	if len([]rune(req.Text)) > maxTextLength {
		return nil, "Bad Request: MESSAGE_TOO_LONG"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.messages[req.MessageID]
	if !ok || m.ChatID != req.ChatID {
		return nil, "Bad Request: message to edit not found"
	}
	if c.editWindow > 0 && c.now().Sub(m.Date) > c.editWindow {
		return nil, "Bad Request: message can't be edited"
	}
	if m.Text == req.Text && string(m.ReplyMarkup) == string(req.ReplyMarkup) {
		return nil, "Bad Request: message is not modified: specified new message content " +
			"and reply markup are exactly the same as a current content and reply markup of the message"
	}

	now := c.now()
	m.Text = req.Text
	m.ReplyMarkup = req.ReplyMarkup
	m.EditDate = &now
	return m, ""
}

func (c *channel) delete(req messageRequest) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.messages[req.MessageID]
	if !ok || m.ChatID != req.ChatID {
		return "Bad Request: message to delete not found"
	}
	delete(c.messages, req.MessageID)
	return ""
}

func (c *channel) list() []message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]message, 0, len(c.messages))
	for _, m := range c.messages {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b message) int { return int(a.ID - b.ID) })
	return out
}
