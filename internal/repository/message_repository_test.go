package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/scholara/scholara-api/internal/models"
)

func messageRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "content", "timestamp", "read"})
}

func TestMessageRepositoryInsertAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	msg := &models.Message{SenderID: "user-a", ReceiverID: "user-b", Content: "hello"}
	require.NoError(t, repo.Insert(context.Background(), msg))
	require.Equal(t, int64(7), msg.ID)
	require.False(t, msg.Read)
	require.False(t, msg.Timestamp.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryConversationBothDirections(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sender_id, receiver_id")).
		WithArgs("user-a", "user-b").
		WillReturnRows(messageRows().
			AddRow(int64(1), "user-a", "user-b", "hi", now.Add(-time.Minute), true).
			AddRow(int64(2), "user-b", "user-a", "hey", now, false))

	messages, err := repo.Conversation(context.Background(), "user-a", "user-b")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "user-a", messages[0].SenderID)
	require.Equal(t, "user-b", messages[1].SenderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryMarkReadGuardsReceiver(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE messages SET read = TRUE")).
		WithArgs(int64(5), "user-b").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.MarkRead(context.Background(), 5, "user-b")
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE messages SET read = TRUE")).
		WithArgs(int64(5), "user-c").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err = repo.MarkRead(context.Background(), 5, "user-c")
	require.NoError(t, err)
	require.Zero(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}
