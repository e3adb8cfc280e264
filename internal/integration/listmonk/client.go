// Package listmonk delivers notifications through Listmonk's transactional
// API. The template referenced by templateID renders .Tx.Data.subject and
// .Tx.Data.body.
package listmonk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"placementcell/internal/domain/notification"
)

var ErrNotConfigured = errors.New("listmonk is not configured")

type Client struct {
	baseURL    string
	username   string
	token      string
	templateID int
	httpClient *http.Client
}

func NewClient(baseURL, username, token string, templateID int, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		username:   strings.TrimSpace(username),
		token:      strings.TrimSpace(token),
		templateID: templateID,
		httpClient: httpClient,
	}
}

type txRequest struct {
	SubscriberEmails []string          `json:"subscriber_emails"`
	TemplateID       int               `json:"template_id"`
	Data             map[string]string `json:"data"`
	ContentType      string            `json:"content_type"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) Send(ctx context.Context, msg notification.Message) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	if len(msg.Recipients) == 0 {
		return nil
	}
	emails := make([]string, 0, len(msg.Recipients))
	for _, r := range msg.Recipients {
		emails = append(emails, r.Email)
	}
	body, err := json.Marshal(txRequest{
		SubscriberEmails: emails,
		TemplateID:       c.templateID,
		Data:             map[string]string{"subject": msg.Subject, "body": msg.Body},
		ContentType:      "plain",
	})
	if err != nil {
		return fmt.Errorf("encode tx request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tx", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create tx request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" && c.token != "" {
		req.Header.Set("Authorization", "token "+c.username+":"+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send tx request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read tx response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("listmonk tx failed: status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("listmonk tx failed: status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer records messages in the log instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg notification.Message) error {
	preview := msg.Body
	if len(preview) > 100 {
		preview = preview[:100]
	}
	m.logger.Info("notification not delivered, mailer disabled",
		slog.Int("recipients", len(msg.Recipients)),
		slog.String("subject", msg.Subject),
		slog.String("preview", preview),
	)
	return nil
}
