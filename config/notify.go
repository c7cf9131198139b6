package config

import (
	"strings"
	"time"
)

const (
	defaultNotifyTimeout    = 5 * time.Second
	defaultNotifyRetryLimit = 2
	maxNotifyRetryLimit     = 5
)

// NotifyConfig configures the outbound email and SMS gateways.
//
// Both gateways are plain JSON-over-HTTP relays operated alongside this
// service; the wire format is owned by the relay, we only carry the dedup
// contract on our side.
type NotifyConfig struct {
	// EmailGatewayURL is the mail relay endpoint. Empty disables email sends
	// (the gate records an error flag for email attempts).
	EmailGatewayURL string `env:"EMAIL_GATEWAY_URL"`

	// EmailFrom is the sender identity stamped on outbound email.
	EmailFrom string `env:"EMAIL_FROM" envDefault:"noreply@parceltrack.local"`

	// SMSGatewayURL is the SMS gateway endpoint. Empty disables SMS sends.
	SMSGatewayURL string `env:"SMS_GATEWAY_URL"`

	// SMSSenderID is the alphanumeric origin shown on outbound SMS.
	SMSSenderID string `env:"SMS_SENDER_ID" envDefault:"PARCEL"`

	// Timeout bounds a single gateway call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`

	// RetryLimit is the number of additional attempts after a failed call.
	RetryLimit int `env:"RETRY_LIMIT" envDefault:"2"`
}

// Sanitize applies guardrails to notify configuration values.
func (c *NotifyConfig) Sanitize() {
	c.EmailGatewayURL = strings.TrimSpace(c.EmailGatewayURL)
	c.SMSGatewayURL = strings.TrimSpace(c.SMSGatewayURL)
	if c.Timeout <= 0 {
		c.Timeout = defaultNotifyTimeout
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = defaultNotifyRetryLimit
	}
	if c.RetryLimit > maxNotifyRetryLimit {
		c.RetryLimit = maxNotifyRetryLimit
	}
}
