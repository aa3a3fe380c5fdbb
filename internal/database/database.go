// Package database opens the configured store and wraps it in an orm.Engine.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"simpleorm/internal/config"
	"simpleorm/internal/dialect"
	"simpleorm/internal/orm"
)

// MemoryPath opens a private in-memory SQLite database
const MemoryPath = ":memory:"

// sqlitePragmas are applied to file-backed SQLite databases
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// Open connects to the store described by cfg, verifies the connection and
// returns an engine over it. When cfg.Database.Default is set the engine is
// also installed as the process default.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*orm.Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dbc := cfg.Database

	d, err := dialect.Lookup(dbc.Dialect)
	if err != nil {
		return nil, err
	}

	driver := dbc.Driver
	if driver == "" {
		driver = d.DriverName()
	}

	db, err := sql.Open(driver, dataSource(d, dbc))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if isMemory(d, dbc) {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	pingCtx := ctx
	if t := dbc.ConnectTimeout.Duration(); t > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.Name(), err)
	}

	opts := []orm.EngineOption{orm.WithLogger(logger)}
	if cfg.Schema.Cache {
		opts = append(opts, orm.WithSchemaCache())
	}
	eng := orm.NewEngine(db, d, dbc.DatabaseName(), opts...)

	if dbc.Default {
		orm.Use(eng)
	}

	logger.Info("database opened",
		"dialect", d.Name(),
		"driver", driver,
		"source", dbc.Redacted(),
		"schema_cache", cfg.Schema.Cache)

	return eng, nil
}

// dataSource adds SQLite pragmas to file paths; other sources pass through
func dataSource(d dialect.Dialect, dbc config.DatabaseConfig) string {
	src := dbc.DataSource()
	if d.Name() != "sqlite" || dbc.DSN != "" || isMemory(d, dbc) || strings.Contains(src, "?") {
		return src
	}
	return src + "?" + sqlitePragmas
}

func isMemory(d dialect.Dialect, dbc config.DatabaseConfig) bool {
	if d.Name() != "sqlite" {
		return false
	}
	src := dbc.DataSource()
	return src == MemoryPath || strings.Contains(src, "mode=memory")
}
