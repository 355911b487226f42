package repository

import (
	"errors"
	"testing"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserHashesPassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	var storedHash string
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		ID:           "user-1",
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		PasswordHash: "plaintext-secret",
		Status:       models.UserStatusActive,
	}
	if err := repo.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	storedHash = user.PasswordHash
	if storedHash == "plaintext-secret" {
		t.Fatal("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("plaintext-secret")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByUsername("ghost")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "status", "created_at", "updated_at", "login_attempts", "locked_until"}).
		AddRow("user-1", "jdoe", "jdoe@example.com", "hash", "active", time.Now(), time.Now(), 0, 0)
	mock.ExpectQuery("SELECT \\* FROM users WHERE username").
		WithArgs("jdoe").
		WillReturnRows(rows)

	user, err := repo.GetUserByUsername("jdoe")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user.ID != "user-1" || user.Status != models.UserStatusActive {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUpdatePasswordUserMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET password_hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword("ghost", "new-secret")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCheckPasswordHash(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewUserRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	if !repo.CheckPasswordHash("secret", string(hash)) {
		t.Fatal("valid password rejected")
	}
	if repo.CheckPasswordHash("wrong", string(hash)) {
		t.Fatal("invalid password accepted")
	}
}
