// Package testutil provides test database and Redis helpers for the
// integration tests. Tests are skipped when the backing store is not
// reachable unless TEST_REQUIRE_DB / TEST_REQUIRE_REDIS is set, which CI uses
// to turn a silent skip into a failure.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Skip(args ...any)
	Cleanup(func())
}

// TestDBConfig holds configuration for the test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns the test database configuration. Defaults match
// the docker-compose test profile; CI sets the TEST_DB_* variables explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "parceltrack"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "parceltrack"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "parceltrack"),
	}
}

func (c TestDBConfig) dsn() string {
	hostPort := net.JoinHostPort(c.Host, c.Port)
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		c.User, c.Password, hostPort, c.DBName)
}

// schema is applied on every setup; idempotent by IF NOT EXISTS.
const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id           BIGSERIAL PRIMARY KEY,
	bu_id        BIGINT NOT NULL,
	agent_id     BIGINT,
	card_ref_nbr TEXT NOT NULL DEFAULT '',
	service_code TEXT NOT NULL,
	job_ts       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS job_items (
	id            BIGSERIAL PRIMARY KEY,
	job_id        BIGINT NOT NULL REFERENCES jobs(id),
	connote_nbr   TEXT NOT NULL DEFAULT '',
	item_nbr      TEXT NOT NULL DEFAULT '',
	created_ts    TIMESTAMPTZ NOT NULL DEFAULT now(),
	pickup_ts     TIMESTAMPTZ,
	notify_ts     TIMESTAMPTZ,
	email_addr    TEXT NOT NULL DEFAULT '',
	phone_nbr     TEXT NOT NULL DEFAULT '',
	pieces        INT NOT NULL DEFAULT 1,
	consumer_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS delivery_scans (
	id               BIGSERIAL PRIMARY KEY,
	reference        TEXT NOT NULL,
	item_nbr         TEXT,
	scan_action      TEXT NOT NULL,
	scan_description TEXT,
	scan_ts          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS comms_flags (
	id          BIGSERIAL PRIMARY KEY,
	action      TEXT NOT NULL,
	job_item_id BIGINT NOT NULL,
	service     TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (action, job_item_id, service, outcome)
);
`

// SetupTestDB connects to the test database, applies the schema, and wipes
// test data. The connection is closed via t.Cleanup.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := sql.Open("pgx", DefaultTestDBConfig().dsn())
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}
	t.Cleanup(func() {
		if cerr := db.Close(); cerr != nil {
			t.Logf("test db close failed: %v", cerr)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatal("Failed to apply test schema:", err)
	}
	CleanupTestDB(t, db)
	return db
}

// CleanupTestDB removes all test data, respecting foreign keys.
func CleanupTestDB(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, table := range []string{"comms_flags", "delivery_scans", "job_items", "jobs"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// SkipIfNoTestDB skips the test when the test database is unreachable.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().dsn())
	if err != nil {
		failOrSkipDB(t, err)
		return
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			t.Logf("test db close failed: %v", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		failOrSkipDB(t, err)
	}
}

func failOrSkipDB(t TestingTB, err error) {
	t.Helper()
	if envBool("TEST_REQUIRE_DB") {
		t.Fatal("Test database not available:", err)
	}
	t.Skip("Test database not available:", err)
}

// SetupTestRedis connects to the test Redis instance, skipping the test when
// it is unreachable. The client is closed via t.Cleanup and the selected DB
// is flushed before the test runs.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := getEnvOrDefault("TEST_REDIS_ADDR", "localhost:56379")
	dbIndex, _ := strconv.Atoi(getEnvOrDefault("TEST_REDIS_DB", "9"))
	client := redis.NewClient(&redis.Options{Addr: addr, DB: dbIndex})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close after ping failure: %v", cerr)
		}
		if envBool("TEST_REQUIRE_REDIS") {
			t.Fatal("Test Redis not available:", err)
		}
		t.Skip("Test Redis not available:", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatal("Failed to flush test Redis DB:", err)
	}
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close failed: %v", cerr)
		}
	})
	return client
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
