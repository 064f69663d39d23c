package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teto/sqlitegen/internal/config"
	"github.com/teto/sqlitegen/internal/records"
	"github.com/teto/sqlitegen/internal/schema"
	"github.com/teto/sqlitegen/internal/sqlgen"
)

// Executor defines the database operations needed by the CLI commands.
type Executor interface {
	ExecuteStatements(ctx context.Context, stmts []sqlgen.Statement) error
	ExecuteRawStatements(ctx context.Context, stmts []string) error
	Query(ctx context.Context, stmt sqlgen.Statement, tbl *schema.Table) ([]records.Record, error)
	Ping(ctx context.Context) error
	Close() error
	GetConfig() config.DatabaseConfig
}

var _ Executor = (*DB)(nil)

// DB holds the SQLite connection pool.
type DB struct {
	Pool   *sql.DB
	Config config.DatabaseConfig
	Retry  RetryOptions

	log *zap.Logger
}

// New opens the SQLite database described by cfg and verifies the
// connection with a ping.
func New(cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := sql.Open("sqlite3", buildDSN(cfg))
	if err != nil {
		return nil, &ErrConnection{Msg: fmt.Sprintf("failed to open database %q", cfg.Path), Err: err}
	}

	if err := pool.PingContext(context.Background()); err != nil {
		pool.Close()
		return nil, &ErrConnection{Msg: fmt.Sprintf("failed to connect to database %q (ping failed)", cfg.Path), Err: err}
	}

	return &DB{
		Pool:   pool,
		Config: cfg,
		Retry:  DefaultRetryOptions,
		log:    log,
	}, nil
}

// buildDSN renders the driver connection string, carrying the busy
// timeout and foreign key pragmas as DSN parameters.
func buildDSN(cfg config.DatabaseConfig) string {
	params := url.Values{}
	if cfg.BusyTimeout > 0 {
		params.Set("_busy_timeout", fmt.Sprintf("%d", cfg.BusyTimeout))
	}
	if cfg.ForeignKeys {
		params.Set("_foreign_keys", "on")
	}
	path := cfg.Path
	if path == "" || path == ":memory:" {
		path = ":memory:"
	}
	if encoded := params.Encode(); encoded != "" {
		return fmt.Sprintf("file:%s?%s", path, encoded)
	}
	return path
}

func (db *DB) GetConfig() config.DatabaseConfig {
	return db.Config
}

func (db *DB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database connection pool is not initialized")
	}
	return db.Pool.PingContext(ctx)
}

func (db *DB) Close() error {
	if db.Pool != nil {
		return db.Pool.Close()
	}
	db.log.Warn("attempted to close a nil database connection pool")
	return nil
}

// ExecuteStatements runs the generated statements in one transaction.
// A statement with bind rows is prepared once and executed per row with
// named parameters; everything is rolled back on the first failure.
// Transient busy/locked errors retry the whole transaction.
func (db *DB) ExecuteStatements(ctx context.Context, stmts []sqlgen.Statement) error {
	if db.Pool == nil {
		return fmt.Errorf("database connection pool is not initialized")
	}
	if len(stmts) == 0 {
		db.log.Info("no statements to execute")
		return nil
	}

	_, err := withRetry(ctx, db.Retry, db.log, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, db.executeOnce(ctx, stmts)
	})
	return err
}

func (db *DB) executeOnce(ctx context.Context, stmts []sqlgen.Statement) error {
	tx, err := db.Pool.BeginTx(ctx, nil)
	if err != nil {
		return &ErrQueryExecution{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	for i, stmt := range stmts {
		if len(stmt.Args) == 0 {
			if _, err := tx.ExecContext(ctx, stmt.SQL); err != nil {
				return &ErrQueryExecution{Msg: fmt.Sprintf("failed executing statement #%d: %s", i+1, stmt.SQL), Err: err}
			}
			continue
		}
		prepared, err := tx.PrepareContext(ctx, stmt.SQL)
		if err != nil {
			return &ErrQueryExecution{Msg: fmt.Sprintf("failed preparing statement #%d: %s", i+1, stmt.SQL), Err: err}
		}
		for _, bind := range stmt.Args {
			if _, err := prepared.ExecContext(ctx, namedArgs(bind)...); err != nil {
				prepared.Close()
				return &ErrQueryExecution{Msg: fmt.Sprintf("failed executing statement #%d: %s", i+1, stmt.SQL), Err: err}
			}
		}
		prepared.Close()
	}

	if err := tx.Commit(); err != nil {
		return &ErrQueryExecution{Msg: "failed to commit transaction", Err: err}
	}
	db.log.Info("executed statements", zap.Int("count", len(stmts)))
	return nil
}

// ExecuteRawStatements runs pre-rendered SQL text, e.g. statements read
// back from a reviewed output file, in one transaction.
func (db *DB) ExecuteRawStatements(ctx context.Context, stmts []string) error {
	generated := make([]sqlgen.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		generated = append(generated, sqlgen.Statement{SQL: trimmed})
	}
	return db.ExecuteStatements(ctx, generated)
}

// Query runs a select statement and reverse-coerces the rows through the
// row pipeline using the given table descriptor (nil means no coercion).
func (db *DB) Query(ctx context.Context, stmt sqlgen.Statement, tbl *schema.Table) ([]records.Record, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database connection pool is not initialized")
	}

	var args []any
	if len(stmt.Args) > 0 {
		args = namedArgs(stmt.Args[0])
	}
	rows, err := db.Pool.QueryContext(ctx, stmt.SQL, args...)
	if err != nil {
		return nil, &ErrQueryExecution{Msg: fmt.Sprintf("query failed: %s", stmt.SQL), Err: err}
	}
	defer rows.Close()

	scanned, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	return records.FromRows(tbl, scanned), nil
}

func scanRecords(rows *sql.Rows) ([]records.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var out []records.Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec := make(records.Record, len(columns))
		for i, col := range columns {
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}
	return out, nil
}

func namedArgs(bind map[string]any) []any {
	args := make([]any, 0, len(bind))
	for name, value := range bind {
		args = append(args, sql.Named(name, value))
	}
	return args
}
