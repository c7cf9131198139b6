package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - database.go: Local store, scan store, and Redis configuration
//   - services.go: Service mode and sweep configuration
//   - ledger.go: Comms ledger configuration
//   - notify.go: Email/SMS gateway configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// DryRun makes every sweep take the same decisions and emit the same
	// logs as a real run without writing durable state or sending anything.
	DryRun bool `env:"DRY_RUN" envDefault:"false"`

	// LocalDB is the operator's own job/item store. Required.
	LocalDB DBConfig `envPrefix:"DB_"`

	// ScanDB is the external delivery-status store. Optional: when Host is
	// empty the external store is never consulted and resolution relies on
	// extract files alone.
	ScanDB ScanDBConfig `envPrefix:"SCANDB_"`

	// Redis backs the comms ledger when LEDGER_BACKEND=redis.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Ledger selects and configures the comms ledger backend.
	Ledger LedgerConfig `envPrefix:"LEDGER_"`

	// Services is a comma-delimited list of services to run.
	Services string `env:"SERVICES" envDefault:"sweeper"`

	// Sweep configures candidate selection and the sweep loop.
	Sweep SweepConfig `envPrefix:"SWEEP_"`

	// Notify configures the outbound email/SMS gateways.
	Notify NotifyConfig `envPrefix:"NOTIFY_"`

	// Metrics configures the StatsD sink.
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Sweep.Sanitize()
	c.Notify.Sanitize()
	c.Ledger.Sanitize()
	c.Metrics.Sanitize()
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsSweeperEnabled returns true if the notification sweeper service is enabled.
func (c *AppConfig) IsSweeperEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeSweeper]
}

// IsComplianceEnabled returns true if the compliance sweeper service is enabled.
func (c *AppConfig) IsComplianceEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeCompliance]
}

// HasScanStore reports whether an external delivery-status store is configured.
func (c *AppConfig) HasScanStore() bool {
	return c.ScanDB.Host != ""
}
