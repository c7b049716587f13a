package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"notecards/internal/logger"
)

const (
	sqliteDriverName   = "sqlite"
	postgresDriverName = "pgx"

	// DefaultSQLitePath is used when no local path is configured.
	DefaultSQLitePath = "notecards.db"

	pingTimeout = 5 * time.Second
)

// Conn is an open store together with its SQL dialect.
type Conn struct {
	*sql.DB
	Dialect Dialect
}

// Options selects the primary store and the local fallback.
type Options struct {
	DSN        string // postgres DSN; empty means SQLite only
	SQLitePath string
}

// Open connects to the primary store and falls back to the local SQLite file
// if the primary cannot be reached at startup.
func Open(ctx context.Context, opts Options, log *logger.Logger) (*Conn, error) {
	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		conn, err := InitPostgres(ctx, dsn)
		if err == nil {
			return conn, nil
		}
		if log != nil {
			log.Warnw("db_primary_unreachable_falling_back", "err", err, "sqlite_path", sqlitePath(opts))
		}
	}
	return InitSQLite(sqlitePath(opts))
}

func sqlitePath(opts Options) string {
	if p := strings.TrimSpace(opts.SQLitePath); p != "" {
		return p
	}
	return DefaultSQLitePath
}

// InitPostgres opens a postgres pool through pgx and ensures tables exist.
func InitPostgres(ctx context.Context, dsn string) (*Conn, error) {
	db, err := sql.Open(postgresDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := ensureSchema(db, Postgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Conn{DB: db, Dialect: Postgres}, nil
}

// InitSQLite opens/creates a SQLite DB file and ensures tables exist.
func InitSQLite(path string) (*Conn, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// A single connection keeps the per-connection pragmas (foreign keys) in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", strings.TrimSuffix(pragma, ";"), err)
		}
	}

	if err := ensureSchema(db, SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Conn{DB: db, Dialect: SQLite}, nil
}
