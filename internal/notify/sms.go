package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/courierops/parceltrack/internal/core"
)

// SMSConfig captures the SMS gateway behaviour we need.
type SMSConfig struct {
	GatewayURL string
	SenderID   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// SMSClient delivers notifications to the SMS gateway.
type SMSClient struct {
	gatewayURL string
	senderID   string
	retryLimit int
	client     *http.Client
}

// NewSMSClient builds an SMS gateway client. Callers should pass a validated config.
func NewSMSClient(cfg SMSConfig) (*SMSClient, error) {
	gatewayURL := strings.TrimSpace(cfg.GatewayURL)
	if gatewayURL == "" {
		return nil, errors.New("sms gateway url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &SMSClient{
		gatewayURL: gatewayURL,
		senderID:   strings.TrimSpace(cfg.SenderID),
		retryLimit: retries,
		client:     hc,
	}, nil
}

var _ core.Messenger = (*SMSClient)(nil)

// Send posts one SMS to the gateway with bounded linear-backoff retry.
// The subject is dropped: SMS carries body text only.
func (c *SMSClient) Send(ctx context.Context, msg core.Message) error {
	body, err := json.Marshal(map[string]string{
		"sender": c.senderID,
		"to":     msg.Recipient,
		"text":   msg.Body,
	})
	if err != nil {
		return fmt.Errorf("encode sms payload: %w", err)
	}
	return postWithRetry(ctx, c.client, c.gatewayURL, body, c.retryLimit)
}
