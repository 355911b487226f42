package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestRotateRevokesThenInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE id = (.+) FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectExec("UPDATE refresh_sessions SET revoked = true").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO refresh_sessions").
		WithArgs("rs-1", "user-1", "tok-1", sqlmock.AnyArg(), sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	session := &models.RefreshSession{
		ID:        "rs-1",
		UserID:    "user-1",
		Token:     "tok-1",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	if err := repo.Rotate(context.Background(), session); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRotateRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE id = (.+) FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectExec("UPDATE refresh_sessions SET revoked = true").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO refresh_sessions").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	session := &models.RefreshSession{
		ID:        "rs-2",
		UserID:    "user-1",
		Token:     "tok-2",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	if err := repo.Rotate(context.Background(), session); err == nil {
		t.Fatal("expected error when insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByTokenNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectQuery("SELECT \\* FROM refresh_sessions WHERE token").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByToken(context.Background(), "missing")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetByToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)

	expires := time.Now().Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at", "revoked"}).
		AddRow("rs-1", "user-1", "tok-1", expires, time.Now(), false)
	mock.ExpectQuery("SELECT \\* FROM refresh_sessions WHERE token").
		WithArgs("tok-1").
		WillReturnRows(rows)

	session, err := repo.GetByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if session.UserID != "user-1" || session.Revoked {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestRevokeAllForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectExec("UPDATE refresh_sessions SET revoked = true").
		WithArgs("user-9").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.RevokeAllForUser(context.Background(), "user-9"); err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
