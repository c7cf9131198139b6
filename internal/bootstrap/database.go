package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	// Registers the pgx stdlib driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/courierops/parceltrack/config"
)

const connectTimeout = 5 * time.Second

func postgresDSN(host string, port int, user, password, name, sslMode string) string {
	// Build DSN using url.URL to safely handle special characters in credentials
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + name,
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func openAndPing(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}
	return db, nil
}

// ConnectLocalDB establishes a connection to the local job/item store.
// Failure here is fatal: without the local store a batch is meaningless.
func ConnectLocalDB(cfg config.DBConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := openAndPing(postgresDSN(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode))
	if err != nil {
		return nil, fmt.Errorf("connect local store: %w", err)
	}
	if logger != nil {
		logger.Info("local store connected",
			"host", cfg.Host,
			"port", cfg.Port,
			"database", cfg.Name)
	}
	return db, nil
}

// ConnectScanDB establishes a connection to the external delivery-status
// store. Unlike the local store this is non-fatal: a nil return with nil
// error means the store is unconfigured or unreachable, and resolution will
// treat it as "unknown" until it comes back.
func ConnectScanDB(cfg config.ScanDBConfig, logger *slog.Logger) *sql.DB {
	if cfg.Host == "" {
		if logger != nil {
			logger.Info("scan store not configured, relying on extract files")
		}
		return nil
	}

	db, err := openAndPing(postgresDSN(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode))
	if err != nil {
		if logger != nil {
			logger.Warn("scan store unreachable at startup, resolution will treat it as unknown",
				"host", cfg.Host,
				"error", err)
		}
		return nil
	}
	if logger != nil {
		logger.Info("scan store connected",
			"host", cfg.Host,
			"port", cfg.Port,
			"database", cfg.Name)
	}
	return db
}

// ConnectRedis establishes a connection to Redis for the redis ledger backend.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support open.
func ConnectRedis(cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if logger != nil {
		logger.Info("redis connected", "addr", addr)
	}
	return client, nil
}
