package service

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scholara/scholara-api/internal/models"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type messageRepository interface {
	Insert(ctx context.Context, msg *models.Message) error
	Inbox(ctx context.Context, userID string, limit int) ([]models.Message, error)
	Conversation(ctx context.Context, userA, userB string) ([]models.Message, error)
	MarkRead(ctx context.Context, messageID int64, receiverID string) (int64, error)
	Exists(ctx context.Context, messageID int64) (bool, error)
}

type identityResolver interface {
	IdentityExists(ctx context.Context, id string) (bool, error)
}

// MessageService provides the directed messaging exchange. New messages
// are pushed onto a per-receiver Redis channel so connected clients see
// them without polling; polling getConversation stays available as the
// fallback.
type MessageService struct {
	repo       messageRepository
	identities identityResolver
	pubsub     *redis.Client
	inboxLimit int
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewMessageService constructs a MessageService instance. A nil Redis
// client disables push delivery; everything else keeps working.
func NewMessageService(repo messageRepository, identities identityResolver, pubsub *redis.Client, inboxLimit int, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if inboxLimit <= 0 {
		inboxLimit = 100
	}
	return &MessageService{
		repo:       repo,
		identities: identities,
		pubsub:     pubsub,
		inboxLimit: inboxLimit,
		validator:  validate,
		logger:     logger,
	}
}

// streamChannel names the per-receiver push channel.
func streamChannel(receiverID string) string {
	return "messages:" + receiverID
}

// Send validates and stores a new message, then publishes it to the
// receiver's push channel.
func (s *MessageService) Send(ctx context.Context, claims *models.JWTClaims, req models.SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if claims == nil || claims.UserID != req.SenderID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "sender must match the authenticated user")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message content is empty")
	}
	if utf8.RuneCountInString(content) > models.MaxMessageLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message content exceeds the maximum length")
	}

	exists, err := s.identities.IdentityExists(ctx, req.ReceiverID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve receiver")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "receiver not found")
	}

	msg := &models.Message{SenderID: req.SenderID, ReceiverID: req.ReceiverID, Content: content}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store message")
	}

	s.publish(ctx, msg)
	return msg, nil
}

// publish pushes the stored message onto the receiver's channel.
// Delivery is best effort; the message is already durable.
func (s *MessageService) publish(ctx context.Context, msg *models.Message) {
	if s.pubsub == nil {
		return
	}
	event := models.MessageEvent{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		Timestamp:  msg.Timestamp,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to encode message event", zap.Error(err))
		return
	}
	if err := s.pubsub.Publish(ctx, streamChannel(msg.ReceiverID), payload).Err(); err != nil {
		s.logger.Warn("failed to publish message event",
			zap.String("receiverId", msg.ReceiverID), zap.Error(err))
	}
}

// Inbox returns the caller's newest messages, sent or received, capped
// at the configured limit.
func (s *MessageService) Inbox(ctx context.Context, claims *models.JWTClaims, userID string) ([]models.Message, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if claims.UserID != userID && claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot read another user's inbox")
	}

	messages, err := s.repo.Inbox(ctx, userID, s.inboxLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inbox")
	}
	return messages, nil
}

// Conversation returns the exchange between two users, oldest first. The
// caller must be one of the two participants unless they are an admin.
func (s *MessageService) Conversation(ctx context.Context, claims *models.JWTClaims, userA, userB string) ([]models.Message, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if claims.UserID != userA && claims.UserID != userB && claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot read another user's conversation")
	}

	messages, err := s.repo.Conversation(ctx, userA, userB)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conversation")
	}
	return messages, nil
}

// MarkRead flags a message as read by its receiver. Repeating the call
// succeeds; a missing message reports not found, and someone else's
// message is refused.
func (s *MessageService) MarkRead(ctx context.Context, claims *models.JWTClaims, messageID int64) error {
	if claims == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	rows, err := s.repo.MarkRead(ctx, messageID, claims.UserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark message read")
	}
	if rows > 0 {
		return nil
	}

	exists, err := s.repo.Exists(ctx, messageID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check message")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "message not found")
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the receiver may mark a message read")
}

// Subscribe opens the caller's push channel. The returned channel closes
// when the context is done or the subscription drops; callers must call
// the cancel function when finished.
func (s *MessageService) Subscribe(ctx context.Context, userID string) (<-chan models.MessageEvent, func(), error) {
	if s.pubsub == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrInternal, "push delivery is not configured")
	}

	sub := s.pubsub.Subscribe(ctx, streamChannel(userID))
	events := make(chan models.MessageEvent, 8)

	go func() {
		defer close(events)
		for {
			msg, err := sub.ReceiveMessage(ctx)
			if err != nil {
				return
			}
			var event models.MessageEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.Warn("dropping malformed message event", zap.Error(err))
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return events, cancel, nil
}
