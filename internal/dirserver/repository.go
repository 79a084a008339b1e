// Package dirserver is a development stand-in for the external user
// directory: it serves the same query contract the gateway speaks, backed
// by PostgreSQL. The production directory stays an external collaborator;
// this exists for local development and end-to-end testing.
package dirserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/directory"
	"github.com/dmitrijs2005/authgate/internal/dirserver/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Repository stores directory rows.
type Repository interface {
	CreateUser(ctx context.Context, row *directory.UserRow) error
	GetUserByUsername(ctx context.Context, username string) (*directory.UserRow, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

func (r *PostgresRepository) CreateUser(ctx context.Context, row *directory.UserRow) error {

	query :=
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, row.Username, row.Email, row.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrConflict
		}
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*directory.UserRow, error) {
	query :=
		`SELECT username, email, password_hash FROM users
		 WHERE username = $1
		 `

	row := &directory.UserRow{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&row.Username, &row.Email, &row.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return row, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
