package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/avoronin/secretvault/internal/models"
)

func setupRecordMock(t *testing.T) (*PostgresRecordRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewPostgresRecordRepository(sqlxDB)
	cleanup := func() {
		sqlxDB.Close()
	}
	return repo, mock, cleanup
}

func recordRows(id, userID int64, title string, mobileID any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "title", "username", "password", "passcode",
		"website", "notes", "category", "mobile_id", "deleted_at", "created_at", "updated_at",
	}).AddRow(id, userID, title, nil, nil, nil, nil, nil, models.DefaultCategory, mobileID, nil, now, now)
}

func strptr(s string) *string { return &s }

func int64ptr(n int64) *int64 { return &n }

func TestInsertRecord_Success(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mobileID := int64ptr(7)
	mock.ExpectQuery(`INSERT INTO records \(user_id, title, username, password, passcode, website, notes, category, mobile_id\)`).
		WithArgs(int64(1), "GitHub", "bob", "hunter2", nil, nil, nil, models.DefaultCategory, int64(7)).
		WillReturnRows(recordRows(10, 1, "GitHub", int64(7)))

	rec, err := repo.Insert(context.Background(), 1, models.RecordData{
		Title:    "GitHub",
		Username: strptr("bob"),
		Password: strptr("hunter2"),
	}, mobileID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != 10 || rec.UserID != 1 || rec.Title != "GitHub" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.MobileID == nil || *rec.MobileID != 7 {
		t.Errorf("expected mobile id 7, got %v", rec.MobileID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestInsertRecord_DefaultCategory(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectQuery(`INSERT INTO records`).
		WithArgs(int64(1), "Bank", nil, nil, nil, nil, nil, models.DefaultCategory, nil).
		WillReturnRows(recordRows(11, 1, "Bank", nil))

	rec, err := repo.Insert(context.Background(), 1, models.RecordData{Title: "Bank"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Category != models.DefaultCategory {
		t.Errorf("expected default category, got %q", rec.Category)
	}
}

func TestListByUser_ExcludesTombstones(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	rows := recordRows(2, 1, "Newer", nil).
		AddRow(1, 1, "Older", nil, nil, nil, nil, nil, models.DefaultCategory, nil, nil, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	records, err := repo.ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "Newer" || records[1].Title != "Older" {
		t.Errorf("unexpected records returned: %+v", records)
	}
}

func TestListByUser_Error(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(1)).
		WillReturnError(errors.New("query fail"))

	_, err := repo.ListByUser(context.Background(), 1)
	if err == nil || !regexp.MustCompile(`list records`).MatchString(err.Error()) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestUpdateByID_SetsProvidedFieldsOnly(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	// Only updated_at, title, and notes appear in the SET clause.
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE records SET updated_at = CURRENT_TIMESTAMP, title = $1, notes = $2 WHERE id = $3 AND deleted_at IS NULL RETURNING`)).
		WithArgs("Renamed", "note", int64(5)).
		WillReturnRows(recordRows(5, 1, "Renamed", nil))

	rec, err := repo.UpdateByID(context.Background(), 5, models.RecordData{
		Title: "Renamed",
		Notes: strptr("note"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Title != "Renamed" {
		t.Errorf("unexpected record: %+v", rec)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateByID_NoMatch(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectQuery(`UPDATE records SET`).
		WithArgs("Renamed", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := repo.UpdateByID(context.Background(), 5, models.RecordData{Title: "Renamed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected no record, got %+v", rec)
	}
}

func TestUpdateByMobileID_Success(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE records SET updated_at = CURRENT_TIMESTAMP, title = $1 WHERE mobile_id = $2 AND user_id = $3 AND deleted_at IS NULL RETURNING`)).
		WithArgs("X", int64(7), int64(1)).
		WillReturnRows(recordRows(10, 1, "X", int64(7)))

	rec, err := repo.UpdateByMobileID(context.Background(), 1, 7, models.RecordData{Title: "X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.Title != "X" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestUpdateByMobileID_NoMatchIsNotAnError(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectQuery(`UPDATE records SET`).
		WithArgs("X", int64(99), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := repo.UpdateByMobileID(context.Background(), 1, 99, models.RecordData{Title: "X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record for unmatched mobile id, got %+v", rec)
	}
}

func TestSoftDeleteByID_ReportsMatch(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SoftDeleteByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected soft delete to report a changed row")
	}
}

func TestSoftDeleteByID_AlreadyTombstoned(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.SoftDeleteByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no change for a tombstoned row")
	}
}

func TestSoftDeleteByMobileID_NoExistenceCheck(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`WHERE mobile_id = $1 AND user_id = $2`)).
		WithArgs(int64(42), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SoftDeleteByMobileID(context.Background(), 1, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
