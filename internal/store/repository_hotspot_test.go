package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"modelhub/models"
)

func newTestHotspotRepo(t *testing.T) (*hotspotRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, conn := newTestDB(t)
	repo := &hotspotRepository{
		db:     db,
		logger: db.logger,
	}
	return repo, mock, conn
}

func TestCreateHotspot_TouchesParentInSameTx(t *testing.T) {
	repo, mock, conn := newTestHotspotRepo(t)
	defer conn.Close()

	hotspot := models.Hotspot{
		HotspotID: "h-1",
		ModelID:   "m-1",
		Name:      "Intake valve",
		Position:  "0m 1.2m 0.4m",
		CreatedAt: time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE models SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO hotspots").
		WithArgs(hotspot.HotspotID, hotspot.ModelID, hotspot.Name, hotspot.Position,
			hotspot.Normal, hotspot.Surface, hotspot.Content, hotspot.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateHotspot(context.Background(), hotspot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.HotspotID != hotspot.HotspotID {
		t.Errorf("expected HotspotID=%s, got %s", hotspot.HotspotID, created.HotspotID)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateHotspot_MissingModel(t *testing.T) {
	repo, mock, conn := newTestHotspotRepo(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE models SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.CreateHotspot(context.Background(), models.Hotspot{HotspotID: "h-1", ModelID: "missing"})
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestUpdateHotspot_ZeroRowsIsNotFound(t *testing.T) {
	repo, mock, conn := newTestHotspotRepo(t)
	defer conn.Close()

	name := "Exhaust valve"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE models SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE hotspots SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateHotspot(context.Background(), "m-1", "missing", models.HotspotUpdate{Name: &name})
	if !errors.Is(err, ErrHotspotNotFound) {
		t.Fatalf("expected ErrHotspotNotFound, got %v", err)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateHotspot_ScopedToModel(t *testing.T) {
	repo, mock, conn := newTestHotspotRepo(t)
	defer conn.Close()

	name := "Exhaust valve"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE models SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE hotspots SET").
		WithArgs(name, "h-1", "m-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateHotspot(context.Background(), "m-1", "h-1", models.HotspotUpdate{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteHotspot_TouchesParent(t *testing.T) {
	repo, mock, conn := newTestHotspotRepo(t)
	defer conn.Close()

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

func TestListHotspotsByModelID_InsertionOrder(t *testing.T) {
	repo, mock, conn := newTestHotspotRepo(t)
	defer conn.Close()

	now := time.Now()
	rows := sqlmock.NewRows(hotspotColumns).
		AddRow("h-1", "m-1", "First", "0m 0m 0m", "", "", "", now).
		AddRow("h-2", "m-1", "Second", "1m 0m 0m", "", "", "", now)

	mock.ExpectQuery("SELECT (.+) FROM hotspots").
		WithArgs("m-1").
		WillReturnRows(rows)

	found, err := repo.ListHotspotsByModelID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(found))
	}
	if found[0].Name != "First" || found[1].Name != "Second" {
		t.Errorf("expected insertion order preserved, got %q then %q", found[0].Name, found[1].Name)
	}
}
