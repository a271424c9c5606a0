package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholara/scholara-api/internal/models"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type mockMessageRepo struct {
	messages []models.Message
	nextID   int64
}

func (m *mockMessageRepo) Insert(ctx context.Context, msg *models.Message) error {
	m.nextID++
	msg.ID = m.nextID
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockMessageRepo) Inbox(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	var out []models.Message
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		msg := m.messages[i]
		if msg.SenderID == userID || msg.ReceiverID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range m.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) || (msg.SenderID == userB && msg.ReceiverID == userA) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, messageID int64, receiverID string) (int64, error) {
	for i, msg := range m.messages {
		if msg.ID == messageID && msg.ReceiverID == receiverID {
			m.messages[i].Read = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockMessageRepo) Exists(ctx context.Context, messageID int64) (bool, error) {
	for _, msg := range m.messages {
		if msg.ID == messageID {
			return true, nil
		}
	}
	return false, nil
}

type mockIdentities struct {
	known map[string]bool
}

func (m *mockIdentities) IdentityExists(ctx context.Context, id string) (bool, error) {
	return m.known[id], nil
}

func newMessageService(repo *mockMessageRepo, ids *mockIdentities) *MessageService {
	return NewMessageService(repo, ids, nil, 100, validator.New(), zap.NewNop())
}

func claimsFor(userID string, role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: role}
}

func TestMessageServiceSendRoundTrip(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := newMessageService(repo, &mockIdentities{known: map[string]bool{"user-b": true}})

	msg, err := svc.Send(context.Background(), claimsFor("user-a", models.RoleStudent), models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "user-b", Content: "  hello  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.Read)

	forward, err := svc.Conversation(context.Background(), claimsFor("user-a", models.RoleStudent), "user-a", "user-b")
	require.NoError(t, err)
	backward, err := svc.Conversation(context.Background(), claimsFor("user-b", models.RoleStudent), "user-b", "user-a")
	require.NoError(t, err)
	assert.Equal(t, forward, backward)
	require.Len(t, forward, 1)
	assert.Equal(t, msg.ID, forward[0].ID)
}

func TestMessageServiceSendRejectsSpoofedSender(t *testing.T) {
	svc := newMessageService(&mockMessageRepo{}, &mockIdentities{known: map[string]bool{"user-b": true}})

	_, err := svc.Send(context.Background(), claimsFor("user-c", models.RoleStudent), models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "user-b", Content: "hi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMessageServiceSendValidatesContent(t *testing.T) {
	svc := newMessageService(&mockMessageRepo{}, &mockIdentities{known: map[string]bool{"user-b": true}})
	caller := claimsFor("user-a", models.RoleStudent)

	_, err := svc.Send(context.Background(), caller, models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "user-b", Content: "   ",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Send(context.Background(), caller, models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "user-b", Content: strings.Repeat("x", models.MaxMessageLength+1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	// The limit counts characters, not bytes; 600 two-byte runes fit.
	msg, err := svc.Send(context.Background(), caller, models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "user-b", Content: strings.Repeat("é", 600),
	})
	require.NoError(t, err)
	assert.Equal(t, 600, utf8.RuneCountInString(msg.Content))

	_, err = svc.Send(context.Background(), caller, models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "user-b", Content: strings.Repeat("é", models.MaxMessageLength+1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMessageServiceSendUnknownReceiver(t *testing.T) {
	svc := newMessageService(&mockMessageRepo{}, &mockIdentities{known: map[string]bool{}})

	_, err := svc.Send(context.Background(), claimsFor("user-a", models.RoleStudent), models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "ghost", Content: "hi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMessageServiceMarkReadIdempotent(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := newMessageService(repo, &mockIdentities{known: map[string]bool{"user-b": true}})

	msg, err := svc.Send(context.Background(), claimsFor("user-a", models.RoleStudent), models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "user-b", Content: "hi",
	})
	require.NoError(t, err)

	receiver := claimsFor("user-b", models.RoleStudent)
	require.NoError(t, svc.MarkRead(context.Background(), receiver, msg.ID))
	require.NoError(t, svc.MarkRead(context.Background(), receiver, msg.ID))
	assert.True(t, repo.messages[0].Read)
}

func TestMessageServiceMarkReadDistinguishesMissingFromForeign(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := newMessageService(repo, &mockIdentities{known: map[string]bool{"user-b": true}})

	msg, err := svc.Send(context.Background(), claimsFor("user-a", models.RoleStudent), models.SendMessageRequest{
		SenderID: "user-a", ReceiverID: "user-b", Content: "hi",
	})
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), claimsFor("user-b", models.RoleStudent), msg.ID+99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.MarkRead(context.Background(), claimsFor("user-a", models.RoleStudent), msg.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMessageServiceInboxGuard(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := newMessageService(repo, &mockIdentities{known: map[string]bool{"user-b": true}})

	_, err := svc.Inbox(context.Background(), claimsFor("user-a", models.RoleStudent), "user-b")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Inbox(context.Background(), claimsFor("admin-1", models.RoleAdmin), "user-b")
	require.NoError(t, err)
}
