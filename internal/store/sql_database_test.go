package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTransact_ReplaysDeadlockedTransaction(t *testing.T) {
	db, mock, conn := newTestDB(t)
	defer conn.Close()

	deadlock := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE models SET updated_at").WillReturnError(deadlock)
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE models SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	attempts := 0
	err := db.transact(context.Background(), "test", func(tx *sql.Tx) error {
		attempts++
		if _, err := tx.ExecContext(context.Background(), "UPDATE models SET updated_at = $1", "now"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransact_NonRetryableFailsFirstAttempt(t *testing.T) {
	db, mock, conn := newTestDB(t)
	defer conn.Close()

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO models").WillReturnError(unique)
	mock.ExpectRollback()

	attempts := 0
	err := db.transact(context.Background(), "test", func(tx *sql.Tx) error {
		attempts++
		_, err := tx.ExecContext(context.Background(), "INSERT INTO models VALUES ($1)", "m-1")
		return err
	})
	if !errors.Is(err, unique) {
		t.Fatalf("expected the driver error back, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransact_GivesUpAfterMaxAttempts(t *testing.T) {
	db, mock, conn := newTestDB(t)
	defer conn.Close()

	serialization := &pgconn.PgError{Code: pgerrcode.SerializationFailure}

	for range maxTxAttempts {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE models").WillReturnError(serialization)
		mock.ExpectRollback()
	}

	attempts := 0
	err := db.transact(context.Background(), "test", func(tx *sql.Tx) error {
		attempts++
		_, err := tx.ExecContext(context.Background(), "UPDATE models SET name = $1", "x")
		return err
	})
	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if attempts != maxTxAttempts {
		t.Errorf("expected %d attempts, got %d", maxTxAttempts, attempts)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// DeleteHotspot goes through the same transact path; a transient touch
// failure must not surface to the caller when the replay succeeds.
func TestDeleteHotspot_SurvivesTransientDeadlock(t *testing.T) {
	repo, mock, conn := newTestHotspotRepo(t)
	defer conn.Close()

	deadlock := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE models SET updated_at").WillReturnError(deadlock)
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE models SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM hotspots").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.DeleteHotspot(context.Background(), "m-1", "h-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
