package config

import "strings"

// MetricsConfig configures the StatsD-compatible metrics sink.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDRESS" envDefault:"localhost:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"parceltrack"`
}

// Sanitize applies guardrails to metrics configuration values.
func (c *MetricsConfig) Sanitize() {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Enabled = false
	}
}
