package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var userColumns = []string{"user_id", "username", "role", "created_at", "updated_at"}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(user_id,\s*username,\s*role,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`

	mock.ExpectExec(q).
		WithArgs("u-1", "alice", "user", int64(1000), int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{UserID: "u-1", Username: "alice", Role: models.RoleUser, CreatedAt: 1000, UpdatedAt: 1000}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT`).WillReturnError(errors.New("db down"))

	u := &models.User{UserID: "u-1", Username: "alice", Role: models.RoleUser}
	err := repo.Create(context.Background(), u)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+user_id,\s*username,\s*role,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows(userColumns).AddRow("u-1", "alice", "superuser", int64(1000), int64(2000))
	mock.ExpectQuery(q).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Username != "alice" || got.Role != models.RoleSuperUser || got.UpdatedAt != 2000 {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPostgresGetByUsername(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+user_id,\s*username,\s*role,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s+LIMIT\s+1\s*$`

	rows := sqlmock.NewRows(userColumns).AddRow("u-2", "bob", "guest", int64(1), int64(1))
	mock.ExpectQuery(q).WithArgs("bob").WillReturnRows(rows)

	got, err := repo.GetByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.UserID != "u-2" || got.Role != models.RoleGuest {
		t.Fatalf("unexpected user: %+v", got)
	}
}

// The repository asks for one row beyond the page size to decide whether a
// continuation cursor is needed.
func TestPostgresList_MorePagesRemain(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+user_id,.*FROM\s+users\s+WHERE\s+user_id\s*>\s*\$1\s+ORDER\s+BY\s+user_id\s+LIMIT\s+\$2\s*$`

	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "a", "user", int64(1), int64(1)).
		AddRow("u-2", "b", "user", int64(1), int64(1)).
		AddRow("u-3", "c", "user", int64(1), int64(1))
	mock.ExpectQuery(q).WithArgs("", int32(3)).WillReturnRows(rows)

	page, next, err := repo.List(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if next != "u-2" {
		t.Fatalf("next = %q, want u-2", next)
	}
}

func TestPostgresList_Exhausted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).
		AddRow("u-9", "z", "user", int64(1), int64(1))
	mock.ExpectQuery(`SELECT`).WithArgs("u-5", int32(3)).WillReturnRows(rows)

	page, next, err := repo.List(context.Background(), 2, "u-5")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(page) != 1 || next != "" {
		t.Fatalf("page=%d next=%q, want 1 and empty", len(page), next)
	}
}

func TestPostgresDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+users\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(q).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
