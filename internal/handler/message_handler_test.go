package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholara/scholara-api/internal/middleware"
	"github.com/scholara/scholara-api/internal/models"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func setRequest(c *gin.Context, method, target string, body []byte) {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
}

func TestMessageHandlerSendInvalidBody(t *testing.T) {
	handler := NewMessageHandler(nil, nil, nil, 0)
	c, w := newTestContext(t)
	setRequest(c, http.MethodPost, "/messages", []byte(`not json`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})

	handler.Send(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageHandlerConversationRequiresBothUsers(t *testing.T) {
	handler := NewMessageHandler(nil, nil, nil, 0)
	c, w := newTestContext(t)
	setRequest(c, http.MethodGet, "/messages/conversation?user1=u1", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})

	handler.Conversation(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageHandlerMarkReadRejectsBadID(t *testing.T) {
	handler := NewMessageHandler(nil, nil, nil, 0)
	c, w := newTestContext(t)
	setRequest(c, http.MethodPatch, "/messages/abc/read", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})

	handler.MarkRead(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageHandlerStreamRequiresClaims(t *testing.T) {
	handler := NewMessageHandler(nil, nil, nil, 0)
	c, w := newTestContext(t)
	setRequest(c, http.MethodGet, "/messages/stream", nil)

	handler.Stream(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMessageHandlerUserInfoRequiresUserID(t *testing.T) {
	handler := NewMessageHandler(nil, nil, nil, 0)
	c, w := newTestContext(t)
	setRequest(c, http.MethodGet, "/user-info", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin})

	handler.UserInfo(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimsFromContextMissing(t *testing.T) {
	c, _ := newTestContext(t)
	assert.Nil(t, claimsFromContext(c))

	c.Set(middleware.ContextUserKey, "not claims")
	assert.Nil(t, claimsFromContext(c))

	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleParent}
	c.Set(middleware.ContextUserKey, claims)
	assert.Equal(t, claims, claimsFromContext(c))
}
