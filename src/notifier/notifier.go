// Package notifier pushes finished error reports to an HTTP webhook
// endpoint, e.g. a chat integration or an incident collector.
package notifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
)

// Payload is the JSON body delivered to the webhook.
type Payload struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Report    string    `json:"report"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier struct {
	config Config
	http   *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return (code >= 500 && code <= 599) || code == 429 || code == 408
}

// NewNotifier validates the config eagerly and fails fast when no webhook
// URL is configured.
func NewNotifier(config Config) (*Notifier, error) {
	if config.WebhookURL == "" {
		return nil, errors.New("notifier: WEBHOOK_URL not set")
	}

	httpClient := resty.New().
		SetTimeout(config.Timeout).
		SetRetryCount(config.RetryCount).
		AddRetryCondition(isRetryableResp)

	return &Notifier{config: config, http: httpClient}, nil
}

// HandleReport adapts Notify to the catcher's report handler contract.
// Delivery failures are logged and swallowed.
func (n *Notifier) HandleReport(exc error, reportText string) {
	if err := n.Notify(exc, reportText); err != nil {
		logger.WithError(err).Error("Failed to deliver error report webhook")
	}
}

// Notify posts the report to the configured webhook.
func (n *Notifier) Notify(exc error, reportText string) error {
	payload := Payload{
		ID:        uuid.NewString(),
		Message:   exc.Error(),
		Report:    reportText,
		Timestamp: time.Now().UTC(),
	}

	resp, err := n.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(n.config.WebhookURL)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned HTTP %d: %s", resp.StatusCode(), resp.Body())
	}
	return nil
}
