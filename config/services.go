package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeSweeper runs the notification sweep loop: extract ingest,
	// reconciliation, and gated dispatch.
	ServiceModeSweeper ServiceMode = "sweeper"
	// ServiceModeCompliance runs the aged-pickup compliance sweep.
	ServiceModeCompliance ServiceMode = "compliance"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeSweeper, ServiceModeCompliance}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeSweeper, ServiceModeCompliance:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: sweeper, compliance)", serviceName)
		}
	}

	return services, nil
}

// Sweep defaults. The reminder window is expressed in seconds to match the
// upstream contract (4 days); the compliance window in whole days.
const (
	defaultSweepInterval         = 5 * time.Minute
	defaultSweepBatchSize        = 500
	defaultReminderWindowSeconds = 345600 // 4 days
	defaultComplianceWindowDays  = 7
	maxSweepBatchSize            = 5000
)

// SweepConfig configures candidate selection and the sweep loop.
type SweepConfig struct {
	// Interval between sweep ticks in continuous mode.
	Interval time.Duration `env:"INTERVAL" envDefault:"5m"`

	// Once runs a single tick and exits (batch mode).
	Once bool `env:"ONCE" envDefault:"false"`

	// BatchSize caps how many candidate job items one tick considers.
	BatchSize int `env:"BATCH_SIZE" envDefault:"500"`

	// BUIDs restricts the sweep to these business-unit ids (comma-delimited).
	BUIDs []int64 `env:"BU_IDS" envSeparator:","`

	// ServiceCode filters candidate jobs by delivery service code.
	ServiceCode string `env:"SERVICE_CODE" envDefault:"pe"`

	// ExtractDir is scanned for carrier extract files at the start of each
	// tick. Consumed files are moved into ExtractDir/processed.
	ExtractDir string `env:"EXTRACT_DIR"`

	// TPCodeHeader names the key column of the alternate-point CSV extract.
	TPCodeHeader string `env:"TP_CODE_HEADER" envDefault:"TP Code"`

	// TerminalActions and TerminalDescriptions configure which scan events
	// count as delivered/collected. Matching is case-insensitive.
	TerminalActions      []string `env:"TERMINAL_ACTIONS"      envSeparator:"," envDefault:"DELIVERED,COLLECTED"`
	TerminalDescriptions []string `env:"TERMINAL_DESCRIPTIONS" envSeparator:"," envDefault:"delivered,collected by customer"`

	// ReminderWindowSeconds is the minimum age before a reminder sweep
	// considers an item.
	ReminderWindowSeconds int `env:"REMINDER_WINDOW_SECONDS" envDefault:"345600"`

	// ComplianceWindowDays is the age after which an uncollected item is
	// reported by the compliance sweep.
	ComplianceWindowDays int `env:"COMPLIANCE_WINDOW_DAYS" envDefault:"7"`
}

// Sanitize applies guardrails to sweep configuration values.
func (c *SweepConfig) Sanitize() {
	if c.Interval <= 0 {
		c.Interval = defaultSweepInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultSweepBatchSize
	}
	if c.BatchSize > maxSweepBatchSize {
		c.BatchSize = maxSweepBatchSize
	}
	if c.ReminderWindowSeconds <= 0 {
		c.ReminderWindowSeconds = defaultReminderWindowSeconds
	}
	if c.ComplianceWindowDays <= 0 {
		c.ComplianceWindowDays = defaultComplianceWindowDays
	}
	c.ServiceCode = strings.TrimSpace(c.ServiceCode)
	c.TPCodeHeader = strings.TrimSpace(c.TPCodeHeader)
}

// ReminderWindow returns the reminder window as a duration.
func (c *SweepConfig) ReminderWindow() time.Duration {
	return time.Duration(c.ReminderWindowSeconds) * time.Second
}

// ComplianceWindow returns the compliance window as a duration.
func (c *SweepConfig) ComplianceWindow() time.Duration {
	return time.Duration(c.ComplianceWindowDays) * 24 * time.Hour
}
