// Package telegram delivers notifications through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"foodrelay/internal/core/ports"
	"foodrelay/internal/pkg/errs"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	DefaultTimeout = 10 * time.Second

	// ParseMode matches the emphasis used by the notification templates.
	ParseMode = "Markdown"
)

var _ ports.Messenger = (*Messenger)(nil)

// APIError is a response the Bot API answered with ok == false or a non-2xx
// status.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: status %d: %s", e.StatusCode, e.Description)
}

type Config struct {
	APIURL  string
	Token   string
	Timeout time.Duration
}

type Messenger struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewMessenger builds a Bot API client. Every Send is bounded by cfg.Timeout,
// whatever client is passed in; a timeout reached mid-call is a failed
// delivery.
func NewMessenger(cfg Config, client *http.Client) (*Messenger, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errs.NewValueIsRequiredError("telegram bot token")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}

	return &Messenger{
		client:   client,
		endpoint: strings.TrimRight(cfg.APIURL, "/") + "/bot" + cfg.Token + "/sendMessage",
		timeout:  cfg.Timeout,
	}, nil
}

func (m *Messenger) Send(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: ParseMode,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		// *url.Error would print the URL, which carries the token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram: send to chat %d: %w", chatID, err)
	}
	defer resp.Body.Close()

	var result apiResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !result.OK {
		description := result.Description
		if decodeErr != nil {
			description = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Description: description}
	}
	return nil
}
