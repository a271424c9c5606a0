package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/scholara/scholara-api/internal/models"
)

func TestClassRequestRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClassRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO class_assignment_requests")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	request := &models.ClassAssignmentRequest{StudentID: "student-1"}
	require.NoError(t, repo.Create(context.Background(), request))
	require.Equal(t, int64(3), request.ID)
	require.Equal(t, models.ClassRequestPending, request.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRequestRepositoryCreateDuplicatePending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClassRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO class_assignment_requests")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.ClassAssignmentRequest{StudentID: "student-1"})
	require.ErrorIs(t, err, ErrDuplicatePending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRequestRepositoryApproveAtomically(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClassRequestRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_assignment_requests SET status")).
		WithArgs(int64(7), models.ClassRequestApproved, models.ClassRequestPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET class_id")).
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := repo.Approve(context.Background(), 7, 3)
	require.NoError(t, err)
	require.True(t, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRequestRepositoryApproveLosesRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClassRequestRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_assignment_requests SET status")).
		WithArgs(int64(7), models.ClassRequestApproved, models.ClassRequestPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	applied, err := repo.Approve(context.Background(), 7, 3)
	require.NoError(t, err)
	require.False(t, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRequestRepositoryRejectTerminal(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClassRequestRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_assignment_requests SET status")).
		WithArgs(int64(7), models.ClassRequestRejected, models.ClassRequestPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.Reject(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRequestRepositoryListOrdersPendingFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClassRequestRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY (class_assignment_requests.status = 'pending') DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "status", "created_at", "student_name"}).
			AddRow(int64(2), "student-2", "pending", time.Now(), "Ada Lovelace").
			AddRow(int64(1), "student-1", "approved", time.Now(), "Alan Turing"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	requests, total, err := repo.List(context.Background(), "", 1)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, requests, 2)
	require.Equal(t, models.ClassRequestPending, requests[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRequestRepositoryFindPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClassRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, status, created_at FROM class_assignment_requests")).
		WithArgs("student-1", models.ClassRequestPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "status", "created_at"}).
			AddRow(int64(9), "student-1", "pending", time.Now()))

	request, err := repo.FindPending(context.Background(), "student-1")
	require.NoError(t, err)
	require.NotNil(t, request)
	require.Equal(t, int64(9), request.ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, status, created_at FROM class_assignment_requests")).
		WithArgs("student-2", models.ClassRequestPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "status", "created_at"}))

	request, err = repo.FindPending(context.Background(), "student-2")
	require.NoError(t, err)
	require.Nil(t, request)
	require.NoError(t, mock.ExpectationsWereMet())
}
