package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const telegramBaseURL = "https://api.telegram.org"

// TelegramOptions configures the Telegram sink. ChatID addresses the channel
// and ThreadID the topic inside it; both are fixed per deployment.
type TelegramOptions struct {
	BotToken   string
	ChatID     string
	ThreadID   string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// TelegramSink uploads finished media to a Telegram bot endpoint as a
// multipart form. Every failure is logged and swallowed per the Sink
// contract.
type TelegramSink struct {
	botToken string
	chatID   string
	threadID string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramSink builds the sink. When the token or chat id is missing the
// caller should fall back to NopSink.
func NewTelegramSink(opts TelegramOptions) *TelegramSink {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = telegramBaseURL
	}
	return &TelegramSink{
		botToken: opts.BotToken,
		chatID:   opts.ChatID,
		threadID: opts.ThreadID,
		baseURL:  baseURL,
		client:   client,
		logger:   opts.Logger,
	}
}

// Publish uploads one artifact. It never returns an error and never retries.
func (s *TelegramSink) Publish(ctx context.Context, msg Message) {
	if s.botToken == "" || s.chatID == "" {
		return
	}
	method, field := methodFor(msg.MIMEType)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	_ = mw.WriteField("chat_id", s.chatID)
	if s.threadID != "" {
		_ = mw.WriteField("message_thread_id", s.threadID)
	}
	if msg.Caption != "" {
		_ = mw.WriteField("caption", msg.Caption)
	}
	part, err := mw.CreateFormFile(field, msg.Filename)
	if err != nil {
		s.logger.Warn().Err(err).Msg("notify: build multipart form failed")
		return
	}
	if _, err := part.Write(msg.Data); err != nil {
		s.logger.Warn().Err(err).Msg("notify: write multipart payload failed")
		return
	}
	if err := mw.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("notify: close multipart form failed")
		return
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", s.baseURL, s.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		s.logger.Warn().Err(err).Msg("notify: build request failed")
		return
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("notify: telegram delivery failed")
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn().Int("status", resp.StatusCode).Str("method", method).Msg("notify: telegram rejected upload")
	}
}

func methodFor(mimeType string) (method, field string) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "sendPhoto", "photo"
	case strings.HasPrefix(mimeType, "video/"):
		return "sendVideo", "video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "sendAudio", "audio"
	default:
		return "sendDocument", "document"
	}
}

var _ Sink = (*TelegramSink)(nil)
