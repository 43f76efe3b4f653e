package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/recruitdesk/apiserver/config"
)

const (
	driverName      = "postgres"
	pingTimeout     = 5 * time.Second
	connMaxIdleTime = 2 * time.Minute
	firstRetryDelay = 500 * time.Millisecond
	maxRetryDelay   = 8 * time.Second
)

// DSN returns the Postgres connection URL for the configured database.
func DSN(cfg config.DatabaseConfig) string {
	if strings.TrimSpace(cfg.URL) != "" {
		return cfg.URL
	}

	sslmode := "disable"
	if cfg.UseSSL {
		sslmode = "require"
	}
	u := &url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		User:     url.UserPassword(cfg.User, cfg.Password),
		Path:     cfg.DBName,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

// Open connects to Postgres and waits for it to answer. The database often
// starts alongside the API, so failed pings are retried with backoff up to
// cfg.Database.ConnectRetries times.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	dbc := cfg.Database
	conn, err := sql.Open(driverName, DSN(dbc))
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(dbc.MaxOpenConns)
	conn.SetMaxIdleConns(dbc.MaxIdleConns)
	conn.SetConnMaxLifetime(dbc.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(connMaxIdleTime)

	delay := firstRetryDelay
	for attempt := 0; ; attempt++ {
		err = ping(ctx, conn)
		if err == nil {
			return conn, nil
		}
		if attempt >= dbc.ConnectRetries {
			break
		}
		slog.Warn("database not ready, retrying",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			_ = conn.Close()
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
	_ = conn.Close()
	return nil, fmt.Errorf("ping database: %w", err)
}

func ping(ctx context.Context, conn *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return conn.PingContext(ctx)
}
