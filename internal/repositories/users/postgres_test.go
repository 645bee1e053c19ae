package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dpetrovs/userstore/internal/common"
	"github.com/dpetrovs/userstore/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)INSERT\s+INTO\s+users\s*\(username,\s*email\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id`

	mock.ExpectQuery(q).
		WithArgs("alice", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	got, err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: `duplicate key value violates unique constraint "users_email_key"`}
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("bob", "alice@example.com").
		WillReturnError(pgErr)

	_, err := repo.Create(context.Background(), &models.User{Username: "bob", Email: "alice@example.com"})
	if !errors.Is(err, common.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}).
		AddRow(int64(7), "alice", "alice@example.com", created, created)
	mock.ExpectQuery(`SELECT\s+id,\s*username,\s*email,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got == nil || got.ID != 7 || got.Email != "alice@example.com" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NoRowIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}))

	got, err := repo.GetByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("missing row must not be an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil user, got %+v", got)
	}
}

func TestGetOldest_OrdersByCreation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}).
		AddRow(int64(1), "first", "first@example.com", created, created)
	mock.ExpectQuery(`FROM\s+users\s+ORDER\s+BY\s+created_at,\s*id\s+LIMIT\s+1`).
		WillReturnRows(rows)

	got, err := repo.GetOldest(context.Background())
	if err != nil {
		t.Fatalf("GetOldest error: %v", err)
	}
	if got == nil || got.ID != 1 || got.Username != "first" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetOldest_EmptyTable(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+ORDER\s+BY\s+created_at,\s*id\s+LIMIT\s+1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}))

	got, err := repo.GetOldest(context.Background())
	if err != nil {
		t.Fatalf("empty table must not be an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil user, got %+v", got)
	}
}

func TestListAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}).
		AddRow(int64(1), "alice", "alice@example.com", created, created).
		AddRow(int64(2), "bob", "bob@test.com", created, created)
	mock.ExpectQuery(`FROM\s+users\s+ORDER\s+BY\s+id`).WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(got) != 2 || got[0].Username != "alice" || got[1].Username != "bob" {
		t.Fatalf("unexpected users: %+v", got)
	}
}

func TestUpdateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+email\s*=\s*\$1,\s*updated_at\s*=\s*CURRENT_TIMESTAMP\s+WHERE\s+id\s*=\s*\$2`).
		WithArgs("alice2@example.com", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateEmail(context.Background(), 7, "alice2@example.com"); err != nil {
		t.Fatalf("UpdateEmail error: %v", err)
	}
}

func TestUpdateEmail_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	mock.ExpectExec(`UPDATE\s+users\s+SET\s+email`).
		WithArgs("taken@example.com", int64(7)).
		WillReturnError(pgErr)

	err := repo.UpdateEmail(context.Background(), 7, "taken@example.com")
	if !errors.Is(err, common.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 rows, got %d", n)
	}
}
