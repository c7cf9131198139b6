package config

import "strings"

// LedgerBackend selects the comms ledger implementation.
type LedgerBackend string

const (
	// LedgerBackendFile keeps one marker file per comms flag under Dir.
	LedgerBackendFile LedgerBackend = "file"
	// LedgerBackendRedis keeps markers as Redis keys created with SETNX.
	LedgerBackendRedis LedgerBackend = "redis"
	// LedgerBackendPostgres keeps markers as rows guarded by a unique constraint.
	LedgerBackendPostgres LedgerBackend = "postgres"
)

// LedgerConfig configures the at-most-once comms ledger.
type LedgerConfig struct {
	Backend LedgerBackend `env:"BACKEND" envDefault:"file"`

	// Dir holds marker files for the file backend.
	Dir string `env:"DIR" envDefault:"/var/lib/parceltrack/flags"`

	// KeyPrefix namespaces Redis marker keys.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"parceltrack:flag:"`
}

// Sanitize applies guardrails to ledger configuration values.
func (c *LedgerConfig) Sanitize() {
	switch c.Backend {
	case LedgerBackendFile, LedgerBackendRedis, LedgerBackendPostgres:
	default:
		c.Backend = LedgerBackendFile
	}
	c.Dir = strings.TrimSpace(c.Dir)
	if c.KeyPrefix == "" {
		c.KeyPrefix = "parceltrack:flag:"
	}
}
