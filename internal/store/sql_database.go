package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"modelhub/internal/config"
	"modelhub/internal/logger"
	"modelhub/migrations"
)

// DB wraps a *sql.DB together with the dialect-specific pieces the
// repositories need: a squirrel statement builder with the right
// placeholder format and an error classifier for the driver in use.
type DB struct {
	*sql.DB
	dialect            string
	builder            squirrel.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// maxTxAttempts bounds how often a transaction is replayed after the driver
// classifier reports a transient failure.
const maxTxAttempts = 3

// transact runs fn inside a transaction, committing on success and rolling
// back on error. Failures the classifier reports as [Retryable] (deadlock
// rollback, serialization failure, busy database) replay the whole
// transaction, up to maxTxAttempts attempts.
func (db *DB) transact(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		if err = db.runInTx(ctx, funcName, fn); err == nil {
			return nil
		}
		if db.errorClassificator.Classify(err) != Retryable {
			return err
		}
		log.Warn().Err(err).
			Str("func", funcName).
			Int("attempt", attempt).
			Msg("retrying transaction after transient database error")
	}

	return err
}

func (db *DB) runInTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

// NewConnectPostgres opens a PostgreSQL connection using the pgx stdlib
// driver, verifies it with a ping and runs the embedded migrations.
func NewConnectPostgres(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = migrations.Migrate(conn, "postgres"); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error applying migrations")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	db := &DB{
		DB:                 conn,
		dialect:            "postgres",
		builder:            squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             log,
	}

	return db, nil
}

// NewConnectSQLite opens (creating if necessary) the SQLite database at the
// path given in cfg.DSN and runs the embedded migrations. Foreign keys are
// enabled per connection.
func NewConnectSQLite(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", cfg.DSN+"?_foreign_keys=on")
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// the sqlite3 driver is not safe for concurrent writes over multiple
	// connections to the same file
	conn.SetMaxOpenConns(1)

	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = migrations.Migrate(conn, "sqlite3"); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error applying migrations")
		return nil, err
	}
	log.Info().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	db := &DB{
		DB:                 conn,
		dialect:            "sqlite3",
		builder:            squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             log,
	}

	return db, nil
}
