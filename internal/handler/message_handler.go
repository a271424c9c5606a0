package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/service"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
	"github.com/scholara/scholara-api/pkg/response"
)

// MessageHandler handles the messaging exchange, including the live
// push stream.
type MessageHandler struct {
	service   *service.MessageService
	directory *service.DirectoryService
	metrics   *service.MetricsService
	heartbeat time.Duration
}

// NewMessageHandler constructs a message handler.
func NewMessageHandler(svc *service.MessageService, directory *service.DirectoryService, metrics *service.MetricsService, heartbeat time.Duration) *MessageHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &MessageHandler{
		service:   svc,
		directory: directory,
		metrics:   metrics,
		heartbeat: heartbeat,
	}
}

// Send godoc
// @Summary Send a message to another user
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body models.SendMessageRequest true "Message"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	message, err := h.service.Send(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// Inbox godoc
// @Summary List the most recent messages a user sent or received
// @Tags Messages
// @Produce json
// @Param userId query string true "Inbox owner"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	claims := claimsFromContext(c)
	userID := c.Query("userId")
	if userID == "" && claims != nil {
		userID = claims.UserID
	}

	messages, err := h.service.Inbox(c.Request.Context(), claims, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// Conversation godoc
// @Summary List the full exchange between two users in chronological order
// @Tags Messages
// @Produce json
// @Param user1 query string true "First participant"
// @Param user2 query string true "Second participant"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/conversation [get]
func (h *MessageHandler) Conversation(c *gin.Context) {
	userA := strings.TrimSpace(c.Query("user1"))
	userB := strings.TrimSpace(c.Query("user2"))
	if userA == "" || userB == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "user1 and user2 are required"))
		return
	}

	messages, err := h.service.Conversation(c.Request.Context(), claimsFromContext(c), userA, userB)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// MarkRead godoc
// @Summary Mark a received message as read
// @Tags Messages
// @Produce json
// @Param id path int true "Message id"
// @Success 204
// @Security BearerAuth
// @Router /messages/{id}/read [patch]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), claimsFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stream godoc
// @Summary Receive new messages for the caller as server-sent events
// @Tags Messages
// @Produce text/event-stream
// @Success 200
// @Security BearerAuth
// @Router /messages/stream [get]
func (h *MessageHandler) Stream(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	events, cancel, err := h.service.Subscribe(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cancel()

	h.metrics.StreamConnected()
	defer h.metrics.StreamDisconnected()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("message", event)
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// SearchUsers godoc
// @Summary Search message recipients by name or username
// @Tags Messages
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/search-users [get]
func (h *MessageHandler) SearchUsers(c *gin.Context) {
	users, err := h.directory.SearchUsers(c.Request.Context(), claimsFromContext(c), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// Contacts godoc
// @Summary List users the caller may message
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/contacts [get]
func (h *MessageHandler) Contacts(c *gin.Context) {
	contacts, err := h.directory.Contacts(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contacts, nil)
}

// UserInfo godoc
// @Summary Resolve a user's display identity
// @Tags Messages
// @Produce json
// @Param userId query string true "User id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /user-info [get]
func (h *MessageHandler) UserInfo(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "userId is required"))
		return
	}

	identity, err := h.directory.UserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, identity, nil)
}
