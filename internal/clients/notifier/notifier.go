// Package notifier hand-rolls a Telegram Bot API client for the out-of-scope
// Notifier provider. Grounded on original_source/core/notifier's
// html-escaped error-message template and timestamp format, and on
// internal/clients/twilio/client.go's Config-from-env + wrapped-HTTP-call
// shape for the Go-side idiom.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/workerr"
)

// Notifier is the out-of-scope human-notification provider contract.
type Notifier interface {
	SendNotification(ctx context.Context, message string) error
	SendErrorNotification(ctx context.Context, err error, context string) error
}

type Config struct {
	BotToken   string
	ChannelID  string
	BaseURL    string
	Timeout    time.Duration
}

func ConfigFromEnv() Config {
	timeoutSec := envutil.Int("NOTIFIER_TIMEOUT_SECONDS", 15)
	return Config{
		BotToken:  strings.TrimSpace(envutil.String("NOTIFIER_BOT_TOKEN", "")),
		ChannelID: strings.TrimSpace(envutil.String("NOTIFIER_CHANNEL_ID", "")),
		BaseURL:   strings.TrimSpace(envutil.String("NOTIFIER_BASE_URL", "")),
		Timeout:   time.Duration(timeoutSec) * time.Second,
	}
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewFromEnv(log *logger.Logger) (Notifier, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Notifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("notifier: missing NOTIFIER_BOT_TOKEN")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("notifier: missing NOTIFIER_CHANNEL_ID")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.telegram.org"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &client{
		log:        log.With("client", "Notifier"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

const maxMessageLen = 4000

// errorMessageTemplate mirrors the original's HTML-escaped error card.
const errorMessageTemplate = "<b>Error processing pipeline</b>\n\n%s\n%s\n%s\n%s"

func (c *client) SendErrorNotification(ctx context.Context, err error, context string) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(
		errorMessageTemplate,
		time.Now().Format("2006-01-02 15:04:05"),
		html.EscapeString(context),
		html.EscapeString(errorKind(err)),
		html.EscapeString(err.Error()),
	)
	return c.send(ctx, msg)
}

func (c *client) SendNotification(ctx context.Context, message string) error {
	return c.send(ctx, message)
}

func (c *client) send(ctx context.Context, message string) error {
	if len(message) > maxMessageLen {
		message = message[:maxMessageLen] + "\n\n..."
	}

	body, err := json.Marshal(map[string]any{
		"chat_id":    c.cfg.ChannelID,
		"text":       message,
		"parse_mode": "HTML",
	})
	if err != nil {
		return workerr.Validation(err, nil)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.cfg.BaseURL, c.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return workerr.Network(err, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("notifier send failed", "error", err)
		return workerr.Network(err, nil)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("notifier non-2xx response", "status", resp.StatusCode, "body", string(respBody))
		return workerr.Provider(fmt.Errorf("notifier: telegram returned %d", resp.StatusCode), map[string]any{"body": string(respBody)})
	}
	return nil
}

// errorKind reports the workerr.Kind when err carries one, else a generic label.
func errorKind(err error) string {
	var we *workerr.Error
	if e, ok := err.(*workerr.Error); ok {
		we = e
	}
	if we != nil {
		return string(we.Kind)
	}
	return "error"
}
