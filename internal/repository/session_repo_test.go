package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"notecards/internal/models"
	"notecards/internal/repository/database"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	sqlDB, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionRepository(sqlDB, database.SQLite)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := models.Session{ID: "sid-1", UserID: 4, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	mock.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
		WithArgs("sid-1", 4, now, now.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("sid-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "expires_at"}).
			AddRow("sid-1", 4, now, now.Add(time.Hour)))

	if err := repo.Create(ctx(t), s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.Get(ctx(t), "sid-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || *got != s {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionRepository_GetMissing(t *testing.T) {
	sqlDB, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionRepository(sqlDB, database.SQLite)

	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(ctx(t), "nope")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", got, err)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	sqlDB, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionRepository(sqlDB, database.SQLite)

	mock.ExpectExec(regexp.QuoteMeta(deleteSessionSQL)).WithArgs("sid").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteSessionSQL)).WithArgs("sid").WillReturnError(errors.New("down"))

	if err := repo.Delete(ctx(t), "sid"); err != nil {
		t.Fatalf("Delete unknown id should succeed: %v", err)
	}
	if err := repo.Delete(ctx(t), "sid"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	sqlDB, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionRepository(sqlDB, database.SQLite)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(deleteExpiredSessionSQL)).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(ctx(t), now)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 deleted, got %d (%v)", n, err)
	}
}
