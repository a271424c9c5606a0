package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "name", "surname", "email", "phone", "address", "sex",
		"birthday", "grade_id", "class_id", "parent_id", "created_at", "class_name", "parent_name",
	})
}

func TestStudentRepositoryListScopedInOneTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	restrict := scope.Clause{
		Cond: "students.class_id IN (SELECT l.class_id FROM lessons l WHERE l.teacher_id = ?)",
		Args: []interface{}{"teacher-1"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT students.id, students.username")).
		WithArgs("teacher-1").
		WillReturnRows(studentRows().
			AddRow("student-1", "ada", "Ada", "Lovelace", nil, nil, "12 Byron St", "F",
				time.Date(2010, 3, 4, 0, 0, 0, 0, time.UTC), 4, int64(1), nil, time.Now(), "4A", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("teacher-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	students, total, err := repo.List(context.Background(), restrict, models.StudentFilter{Page: 1})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, students, 1)
	require.Equal(t, "student-1", students[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListMergesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	classID := int64(2)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT students.id, students.username")).
		WithArgs(classID, "%ada%", "%ada%", "%ada%").
		WillReturnRows(studentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(classID, "%ada%", "%ada%", "%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	students, total, err := repo.List(context.Background(), scope.Clause{}, models.StudentFilter{
		Search:  "Ada",
		ClassID: &classID,
		Page:    1,
	})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, students)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateWritesLoginAndStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	student := &models.Student{Username: "ada", Name: "Ada", Surname: "Lovelace", Address: "12 Byron St", Sex: "F", GradeID: 4}
	login := &models.User{Username: "ada", PasswordHash: "hash", FullName: "Ada Lovelace", Active: true}
	require.NoError(t, repo.Create(context.Background(), student, login))
	require.NotEmpty(t, student.ID)
	require.Equal(t, student.ID, login.ID)
	require.Equal(t, models.RoleStudent, login.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteRemovesLogin(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
		WithArgs("student-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "student-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
