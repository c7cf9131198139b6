package config

// DBConfig contains PostgreSQL configuration for the local job/item store.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"parceltrack"`
	Password string `env:"PASSWORD" envDefault:"parceltrack"`
	Name     string `env:"NAME"     envDefault:"parceltrack"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// ScanDBConfig contains PostgreSQL configuration for the external
// delivery-status store. The store is read-only from our side and may be
// unreachable; connectivity failures downgrade resolution to "unknown"
// rather than aborting a sweep.
type ScanDBConfig struct {
	Host     string `env:"HOST"` // empty disables the scan store entirely
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"scanreader"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"     envDefault:"scans"`
	SSLMode  string `env:"SSL_MODE" envDefault:"require"`

	// MaxRows bounds how many scan rows a single reference lookup returns.
	MaxRows int `env:"MAX_ROWS" envDefault:"50"`
}

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`
}
