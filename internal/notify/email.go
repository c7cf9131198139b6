// Package notify provides the outbound email and SMS gateway clients. Both
// gateways are JSON-over-HTTP relays; the dedup contract lives entirely in
// the dispatch gate, so these clients only have to deliver one message and
// report honestly whether the channel worked.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/courierops/parceltrack/internal/core"
)

const (
	defaultTimeout   = 5 * time.Second
	maxErrorBodySize = 2048
)

// EmailConfig captures the mail relay behaviour we need.
type EmailConfig struct {
	GatewayURL string
	From       string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// EmailClient delivers notifications to the operator's mail relay.
type EmailClient struct {
	gatewayURL string
	from       string
	retryLimit int
	client     *http.Client
}

// NewEmailClient builds a mail relay client. Callers should pass a validated config.
func NewEmailClient(cfg EmailConfig) (*EmailClient, error) {
	gatewayURL := strings.TrimSpace(cfg.GatewayURL)
	if gatewayURL == "" {
		return nil, errors.New("email gateway url is required")
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

	return &EmailClient{
		gatewayURL: gatewayURL,
		from:       strings.TrimSpace(cfg.From),
		retryLimit: retries,
		client:     hc,
	}, nil
}

var _ core.Messenger = (*EmailClient)(nil)

// Send posts one email to the relay with bounded linear-backoff retry.
func (c *EmailClient) Send(ctx context.Context, msg core.Message) error {
	body, err := json.Marshal(map[string]string{
		"from":    c.from,
		"to":      msg.Recipient,
		"subject": msg.Subject,
		"body":    msg.Body,
	})
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}
	return postWithRetry(ctx, c.client, c.gatewayURL, body, c.retryLimit)
}

// postWithRetry posts the payload, retrying failures with a simple linear
// backoff to avoid thundering retries.
func postWithRetry(ctx context.Context, client *http.Client, url string, body []byte, retryLimit int) error {
	attempts := retryLimit + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := post(ctx, client, url, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < attempts-1 {
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}

func post(ctx context.Context, client *http.Client, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post to gateway: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
