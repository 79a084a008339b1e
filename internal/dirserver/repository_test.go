package dirserver

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/directory"
	"github.com/jackc/pgx/v5/pgconn"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCreateUser_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "a@x.com", "$2a$10$hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateUser(context.Background(), &directory.UserRow{
		Username: "alice", Email: "a@x.com", PasswordHash: "$2a$10$hash",
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUser_UniqueViolationIsConflict(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_pkey"})

	err := repo.CreateUser(context.Background(), &directory.UserRow{Username: "alice"})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected common.ErrConflict, got %v", err)
	}
}

func TestCreateUser_OtherSQLErrorIsNotConflict(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("connection refused"))

	err := repo.CreateUser(context.Background(), &directory.UserRow{Username: "alice"})
	if err == nil || errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected generic error, got %v", err)
	}
}

func TestGetUserByUsername_Found(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"username", "email", "password_hash"}).
		AddRow("alice", "a@x.com", "$2a$10$hash")
	mock.ExpectQuery("SELECT username, email, password_hash FROM users").
		WithArgs("alice").
		WillReturnRows(rows)

	row, err := repo.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername error: %v", err)
	}
	if row == nil || row.PasswordHash != "$2a$10$hash" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestGetUserByUsername_AbsentIsNilNil(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT username, email, password_hash FROM users").
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	row, err := repo.GetUserByUsername(context.Background(), "nobody")
	if err != nil || row != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", row, err)
	}
}
