// Package postgresrepo provides a PostgreSQL-backed token.Repo over
// database/sql with the pgx stdlib driver.
//
// The single DELETE ... WHERE hash = $1 statement is the serialization
// point for the single-use guarantee: its RowsAffected count decides the
// winner of a concurrent redemption race.
package postgresrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/token"
	"github.com/jrsteele09/go-unique-login/token/postgresrepo/migrations"
)

const uniqueViolationCode = "23505"

var _ token.Repo = (*PostgresTokenRepo)(nil)

type PostgresTokenRepo struct {
	db *sql.DB
}

// NewPostgresTokenRepo constructs a repository bound to the given database.
func NewPostgresTokenRepo(db *sql.DB) *PostgresTokenRepo {
	return &PostgresTokenRepo{db: db}
}

// Open connects to the given DSN, runs the embedded migrations and returns
// a ready repository.
func Open(ctx context.Context, dsn string) (*PostgresTokenRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	repo := NewPostgresTokenRepo(db)
	if err := repo.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return repo, nil
}

func (r *PostgresTokenRepo) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, r.db, ".")
}

func (r *PostgresTokenRepo) Close() error {
	return r.db.Close()
}

func (r *PostgresTokenRepo) Insert(ctx context.Context, t *token.Token) error {
	query := `
		INSERT INTO unique_logins (hash, user_id, ttl, date_created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, t.Value, t.SubjectID, t.ExpiresAt, t.CreatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return errors.ErrDuplicateValue
		}
		return fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}

	t.ID = strconv.FormatInt(id, 10)
	return nil
}

func (r *PostgresTokenRepo) GetByValue(ctx context.Context, value string) (*token.Token, error) {
	query := `
		SELECT id, user_id, ttl, date_created
		FROM unique_logins
		WHERE hash = $1
	`
	return r.scanToken(r.db.QueryRowContext(ctx, query, value), value)
}

func (r *PostgresTokenRepo) GetValidByValue(ctx context.Context, value string, now time.Time) (*token.Token, error) {
	query := `
		SELECT id, user_id, ttl, date_created
		FROM unique_logins
		WHERE hash = $1 AND ttl > $2
	`
	return r.scanToken(r.db.QueryRowContext(ctx, query, value, now), value)
}

func (r *PostgresTokenRepo) DeleteByValue(ctx context.Context, value string) (int64, error) {
	query := `
		DELETE FROM unique_logins
		WHERE hash = $1
	`
	result, err := r.db.ExecContext(ctx, query, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}
	return count, nil
}

func (r *PostgresTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM unique_logins
		WHERE ttl < $1
	`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}
	return count, nil
}

func (r *PostgresTokenRepo) scanToken(row *sql.Row, value string) (*token.Token, error) {
	var (
		id int64
		t  = token.Token{Value: value}
	)
	if err := row.Scan(&id, &t.SubjectID, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}
	t.ID = strconv.FormatInt(id, 10)
	return &t, nil
}
