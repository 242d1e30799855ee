package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bellavista/bellavista-backend/config"
	"github.com/bellavista/bellavista-backend/pkg/logger"
)

var ErrNotConfigured = errors.New("twilio is not configured")

// Client is a thin HTTP client for the Twilio Messages API, used to push
// WhatsApp notifications. Missing credentials disable sending instead of
// failing startup.
type Client struct {
	cfg        config.TwilioConfig
	httpClient *http.Client
}

// MessageResponse is the subset of the Twilio message resource we care about.
type MessageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func NewClient(cfg config.TwilioConfig) *Client {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		logger.Warn("Twilio credentials missing; WhatsApp messaging disabled", nil)
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether the client has credentials to send messages.
func (c *Client) Enabled() bool {
	return c.cfg.AccountSID != "" && c.cfg.AuthToken != ""
}

// SendWhatsApp sends a WhatsApp message to the configured recipient.
func (c *Client) SendWhatsApp(ctx context.Context, body string) (*MessageResponse, error) {
	return c.SendWhatsAppTo(ctx, c.cfg.WhatsAppTo, body)
}

// SendWhatsAppTo sends a WhatsApp message to the given number.
func (c *Client) SendWhatsAppTo(ctx context.Context, to, body string) (*MessageResponse, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	if to == "" {
		return nil, fmt.Errorf("recipient number is empty")
	}

	form := url.Values{}
	form.Set("From", withWhatsAppPrefix(c.cfg.WhatsAppFrom))
	form.Set("To", withWhatsAppPrefix(to))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read twilio response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("twilio error %d: %s", apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}

	var msg MessageResponse
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal twilio response: %w", err)
	}

	logger.Debug("WhatsApp message sent", map[string]interface{}{
		"sid":    msg.SID,
		"status": msg.Status,
	})
	return &msg, nil
}

func withWhatsAppPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
