package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/price-list-publisher/internal/metrics"
	"github.com/donaldgifford/price-list-publisher/pkg/render"
)

const (
	// DefaultTelegramURL is the public Bot API endpoint.
	DefaultTelegramURL = "https://api.telegram.org"

	// ParseModeMarkdownV2 escapes message text before sending.
	ParseModeMarkdownV2 = "MarkdownV2"
)

var tracer = otel.Tracer("github.com/donaldgifford/price-list-publisher/internal/notify")

// APIError is a Bot API call that returned ok=false or a non-2xx status.
type APIError struct {
	Method      string
	StatusCode  int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram %s returned %d: %s (retry after %ds)",
			e.Method, e.StatusCode, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram %s returned %d: %s", e.Method, e.StatusCode, e.Description)
}

// notModified reports whether the edit was rejected because the message
// already has the requested content.
func (e *APIError) notModified() bool {
	return strings.Contains(e.Description, "message is not modified")
}

// gone reports whether the target message no longer exists or can no
// longer be edited.
func (e *APIError) gone() bool {
	d := strings.ToLower(e.Description)
	return strings.Contains(d, "message to edit not found") ||
		strings.Contains(d, "message to delete not found") ||
		strings.Contains(d, "message can't be edited") ||
		strings.Contains(d, "message can't be deleted")
}

// TelegramTransport implements Transport via the Telegram Bot API.
type TelegramTransport struct {
	baseURL   string
	token     string
	chatID    string
	parseMode string
	client    *http.Client
	limiter   *RateLimiter
	log       *slog.Logger
}

// TelegramOption configures a TelegramTransport.
type TelegramOption func(*TelegramTransport)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) TelegramOption {
	return func(t *TelegramTransport) {
		t.client = c
	}
}

// WithBaseURL points the transport at a different Bot API server.
func WithBaseURL(u string) TelegramOption {
	return func(t *TelegramTransport) {
		t.baseURL = strings.TrimRight(u, "/")
	}
}

// WithParseMode sets the parse mode. An empty mode sends plain text.
func WithParseMode(mode string) TelegramOption {
	return func(t *TelegramTransport) {
		t.parseMode = mode
	}
}

// WithRateLimiter paces API calls through r.
func WithRateLimiter(r *RateLimiter) TelegramOption {
	return func(t *TelegramTransport) {
		t.limiter = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) TelegramOption {
	return func(t *TelegramTransport) {
		t.log = l
	}
}

// NewTelegramTransport creates a transport posting to chatID as the bot
// identified by token.
func NewTelegramTransport(token, chatID string, opts ...TelegramOption) *TelegramTransport {
	t := &TelegramTransport{
		baseURL:   DefaultTelegramURL,
		token:     token,
		chatID:    chatID,
		parseMode: ParseModeMarkdownV2,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type inlineKeyboardButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
}

type messageRequest struct {
	ChatID                string       `json:"chat_id"`
	MessageID             int64        `json:"message_id,omitempty"`
	Text                  string       `json:"text"`
	ParseMode             string       `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool         `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *replyMarkup `json:"reply_markup,omitempty"`
}

type deleteRequest struct {
	ChatID    string `json:"chat_id"`
	MessageID int64  `json:"message_id"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters,omitempty"`
}

type sentMessage struct {
	MessageID int64 `json:"message_id"`
}

func (t *TelegramTransport) request(msg Message) messageRequest {
	req := messageRequest{
		ChatID:                t.chatID,
		Text:                  msg.Text,
		ParseMode:             t.parseMode,
		DisableWebPagePreview: true,
	}
	if t.parseMode == ParseModeMarkdownV2 {
		req.Text = render.EscapeMarkdownV2(msg.Text)
	}
	if len(msg.Buttons) > 0 {
		kb := make([][]inlineKeyboardButton, 0, len(msg.Buttons))
		for _, row := range msg.Buttons {
			r := make([]inlineKeyboardButton, 0, len(row))
			for _, b := range row {
				r = append(r, inlineKeyboardButton(b))
			}
			kb = append(kb, r)
		}
		req.ReplyMarkup = &replyMarkup{InlineKeyboard: kb}
	}
	return req
}

// Send posts a new message and returns its ID.
func (t *TelegramTransport) Send(ctx context.Context, msg Message) (string, error) {
	raw, err := t.call(ctx, "sendMessage", t.request(msg))
	if err != nil {
		return "", err
	}

	var sent sentMessage
	if err := json.Unmarshal(raw, &sent); err != nil {
		return "", fmt.Errorf("decoding sendMessage result: %w", err)
	}
	return strconv.FormatInt(sent.MessageID, 10), nil
}

// Edit replaces the text of message id. An unchanged message counts as
// edited; a message that no longer exists is NotEditable.
func (t *TelegramTransport) Edit(ctx context.Context, id string, msg Message) (EditOutcome, error) {
	mid, err := parseMessageID(id)
	if err != nil {
		return NotEditable, err
	}

	req := t.request(msg)
	req.MessageID = mid

	_, err = t.call(ctx, "editMessageText", req)
	if err == nil {
		return Edited, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.notModified():
			return Edited, nil
		case apiErr.gone():
			t.log.Info("message no longer editable", "message_id", id, "reason", apiErr.Description)
			return NotEditable, nil
		}
	}
	return NotEditable, err
}

// Delete removes message id. A message that is already gone is not an
// error.
func (t *TelegramTransport) Delete(ctx context.Context, id string) error {
	mid, err := parseMessageID(id)
	if err != nil {
		return err
	}

	_, err = t.call(ctx, "deleteMessage", deleteRequest{ChatID: t.chatID, MessageID: mid})
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.gone() {
		t.log.Info("message already deleted", "message_id", id)
		return nil
	}
	return err
}

func parseMessageID(id string) (int64, error) {
	mid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram message id %q: %w", id, err)
	}
	return mid, nil
}

func (t *TelegramTransport) call(ctx context.Context, method string, payload any) (result json.RawMessage, err error) {
	ctx, span := tracer.Start(ctx, "telegram."+method)
	span.SetAttributes(attribute.String("telegram.method", method))

	start := time.Now()
	defer func() {
		metrics.TransportDuration.Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.TransportCallsTotal.WithLabelValues(method, outcome).Inc()
		span.End()
	}()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// The URL embeds the bot token; drop it from the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("calling telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading telegram %s response (status %d): %w", method, resp.StatusCode, err)
	}

	var out apiResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &APIError{Method: method, StatusCode: resp.StatusCode, Description: string(respBody)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !out.OK {
		apiErr := &APIError{Method: method, StatusCode: resp.StatusCode, Description: out.Description}
		if out.Parameters != nil {
			apiErr.RetryAfter = out.Parameters.RetryAfter
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			metrics.TransportRateLimitedTotal.Inc()
		}
		return nil, apiErr
	}

	return out.Result, nil
}
