package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/goliter/classsight-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDepartmentRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDepartmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO departments")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	department := &models.Department{Name: "Computer Science", Code: "CS", Description: "CS faculty"}
	require.NoError(t, repo.Create(context.Background(), department))
	require.NotEmpty(t, department.ID)

	rows := sqlmock.NewRows([]string{"id", "name", "code", "description", "created_at", "updated_at"}).
		AddRow(department.ID, department.Name, department.Code, department.Description, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, code, description, created_at, updated_at FROM departments WHERE id = $1")).
		WithArgs(department.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), department.ID)
	require.NoError(t, err)
	require.Equal(t, "CS", found.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryListWithSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDepartmentRepository(db)
	rows := sqlmock.NewRows([]string{"id", "name", "code", "description", "created_at", "updated_at"}).
		AddRow("dept-1", "Computer Science", "CS", "", time.Now(), time.Now())
	mock.ExpectQuery("SELECT d.id, d.name, d.code").
		WithArgs("%comp%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%comp%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	departments, total, err := repo.List(context.Background(), models.DepartmentFilter{Search: "Comp"})
	require.NoError(t, err)
	require.Len(t, departments, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDepartmentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM departments WHERE code = $1")).
		WithArgs("CS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "CS", "")
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM departments WHERE code = $1 AND id <> $2")).
		WithArgs("CS", "dept-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	exists, err = repo.ExistsByCode(context.Background(), "CS", "dept-1")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryUsage(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDepartmentRepository(db)
	rows := sqlmock.NewRows([]string{"students", "teachers", "courses"}).AddRow(4, 2, 1)
	mock.ExpectQuery("SELECT").
		WithArgs("dept-1").
		WillReturnRows(rows)

	usage, err := repo.Usage(context.Background(), "dept-1")
	require.NoError(t, err)
	require.False(t, usage.Empty())
	require.Equal(t, 4, usage.Students)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDepartmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM departments WHERE id = $1")).
		WithArgs("dept-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "dept-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
